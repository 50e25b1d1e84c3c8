package detections

// Filter returns the sub-sequence of detections whose score exceeds the
// threshold, preserving the original order. Rows whose four box
// coordinates are all zero are padding emitted by fixed-size model
// outputs and are dropped regardless of score.
//
// An empty result is valid and means there is nothing to draw.
func Filter(b Batch, threshold float32) Batch {
	kept := make(Batch, 0, len(b))
	for _, d := range b {
		if d.Box == ([4]float32{}) {
			continue
		}
		if d.Score > threshold {
			kept = append(kept, d)
		}
	}
	return kept
}

// Truncate keeps the leading n detections. Because batches arrive in
// descending score order, these are the n highest-scoring ones. A
// non-positive n means no limit.
func (b Batch) Truncate(n int) Batch {
	if n <= 0 || n >= len(b) {
		return b
	}
	return b[:n]
}
