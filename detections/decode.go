package detections

import "fmt"

// RawOutput carries the raw numeric arrays an inference engine produces
// for one image: flat box coordinates, class indices, confidence scores,
// and an optional valid-detection count.
type RawOutput struct {
	// Boxes is the flat box array, 4 values per detection.
	Boxes []float32
	// Classes holds one class index per detection.
	Classes []float32
	// Scores holds one confidence score per detection.
	Scores []float32
	// Count is the number of valid detections. Engines that pad their
	// output to a fixed size report it separately; pass -1 to derive
	// the count from len(Scores).
	Count int
}

// Decode converts a raw engine output into a Batch of canonical
// detections in input space.
//
// The box order and normalization are explicit per-model-family
// configuration: normalized coordinates are multiplied by the input
// dimensions here so everything downstream works in input-space pixels.
//
// Arguments:
//   - raw: The raw output arrays.
//   - layout: The box layout convention of the producing model family.
//   - inputW, inputH: The model's fixed input resolution.
//
// Returns:
//   - Batch: Decoded detections, in the engine's original order.
//   - error: An error if the arrays are shorter than the declared count
//     or the layout is unsupported.
func Decode(raw RawOutput, layout Layout, inputW, inputH int) (Batch, error) {
	n := raw.Count
	if n < 0 {
		n = len(raw.Scores)
	}
	if len(raw.Boxes) < 4*n {
		return nil, fmt.Errorf("box array too short: has %d values, need %d for %d detections",
			len(raw.Boxes), 4*n, n)
	}
	if len(raw.Classes) < n || len(raw.Scores) < n {
		return nil, fmt.Errorf("class/score arrays too short: have %d/%d, need %d",
			len(raw.Classes), len(raw.Scores), n)
	}
	if layout.Normalized && (inputW <= 0 || inputH <= 0) {
		return nil, fmt.Errorf("normalized layout needs input dimensions, got %dx%d", inputW, inputH)
	}

	batch := make(Batch, 0, n)
	for i := 0; i < n; i++ {
		var box [4]float32
		copy(box[:], raw.Boxes[4*i:4*i+4])

		box, err := canonicalize(box, layout.Order)
		if err != nil {
			return nil, err
		}
		if layout.Normalized {
			box[0] *= float32(inputW)
			box[1] *= float32(inputH)
			box[2] *= float32(inputW)
			box[3] *= float32(inputH)
		}

		batch = append(batch, Detection{
			Box:   box,
			Class: int(raw.Classes[i]),
			Score: raw.Scores[i],
		})
	}
	return batch, nil
}

// RowLayout describes engines that emit one fixed-size row per detection
// instead of separate arrays.
type RowLayout struct {
	// Size is the number of values per row.
	Size int
	// Box is the row index of the first of the 4 box coordinates.
	Box int
	// Class is the row index of the class value.
	Class int
	// Score is the row index of the confidence value.
	Score int
	// Order is the coordinate convention of the box coordinates.
	Order BoxOrder
	// Normalized is true when box coordinates are fractions of the
	// input size.
	Normalized bool
}

// SSDRows is the 7-element [image_id, class, score, x1, y1, x2, y2] row
// format emitted by OpenVINO SSD detection outputs.
var SSDRows = RowLayout{Size: 7, Box: 3, Class: 1, Score: 2, Order: OrderXYXY, Normalized: true}

// DETRRows is the 6-element [x1, y1, x2, y2, score, class] row format
// emitted by DETR-style models.
var DETRRows = RowLayout{Size: 6, Box: 0, Class: 5, Score: 4, Order: OrderXYXY}

func (l RowLayout) validate() error {
	if l.Size < 5 {
		return fmt.Errorf("row size %d too small for a detection", l.Size)
	}
	if l.Box < 0 || l.Box+4 > l.Size || l.Class < 0 || l.Class >= l.Size || l.Score < 0 || l.Score >= l.Size {
		return fmt.Errorf("row indices out of range for size %d", l.Size)
	}
	return nil
}

// DecodeRows converts a flat row-formatted output into a Batch.
//
// Returns an error when the data length is not a multiple of the row
// size; a truncated output means the caller wired the wrong layout.
func DecodeRows(flat []float32, layout RowLayout, inputW, inputH int) (Batch, error) {
	if err := layout.validate(); err != nil {
		return nil, err
	}
	if len(flat)%layout.Size != 0 {
		return nil, fmt.Errorf("output length %d is not a multiple of row size %d",
			len(flat), layout.Size)
	}
	if layout.Normalized && (inputW <= 0 || inputH <= 0) {
		return nil, fmt.Errorf("normalized layout needs input dimensions, got %dx%d", inputW, inputH)
	}

	numRows := len(flat) / layout.Size
	batch := make(Batch, 0, numRows)
	for i := 0; i < numRows; i++ {
		row := flat[i*layout.Size : (i+1)*layout.Size]

		var box [4]float32
		copy(box[:], row[layout.Box:layout.Box+4])
		box, err := canonicalize(box, layout.Order)
		if err != nil {
			return nil, err
		}
		if layout.Normalized {
			box[0] *= float32(inputW)
			box[1] *= float32(inputH)
			box[2] *= float32(inputW)
			box[3] *= float32(inputH)
		}

		batch = append(batch, Detection{
			Box:   box,
			Class: int(row[layout.Class]),
			Score: row[layout.Score],
		})
	}
	return batch, nil
}
