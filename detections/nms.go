package detections

import "github.com/visionkit/go-annotate/images"

// Suppress performs greedy Non-Maximum Suppression over a batch sorted by
// descending confidence: each kept detection suppresses every later one
// of the same class whose IoU with it exceeds the threshold. Engines with
// a built-in NMS stage do not need this; it exists for raw outputs that
// still contain duplicates.
//
// Arguments:
//   - b: Detections sorted by descending confidence.
//   - iouThreshold: Overlap above which a later detection is suppressed.
//
// Returns:
//   - The surviving detections, still in descending confidence order.
func Suppress(b Batch, iouThreshold float32) Batch {
	n := len(b)
	if n == 0 {
		return nil
	}

	filtered := make(Batch, 0, n)
	used := make([]bool, n)

	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}

		anchor := b[i]
		filtered = append(filtered, anchor)
		used[i] = true

		for j := i + 1; j < n; j++ {
			if used[j] || b[j].Class != anchor.Class {
				continue
			}
			if images.CalculateIoU(boxRect(anchor), boxRect(b[j])) > iouThreshold {
				used[j] = true
			}
		}
	}

	return filtered
}

// boxRect truncates a float box to an integer rect for IoU. IoU is a
// ratio, so losing fractional pixels at the edges is acceptable.
func boxRect(d Detection) images.Rect {
	return images.Rect{
		X1: int(d.Box[0]),
		Y1: int(d.Box[1]),
		X2: int(d.Box[2]),
		Y2: int(d.Box[3]),
	}
}
