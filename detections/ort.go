package detections

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// FromTensors decodes detections straight from onnxruntime output
// tensors, avoiding a copy through intermediate slices.
//
// Arguments:
//   - boxes: Output tensor whose innermost dimension is 4.
//   - classes: Output tensor with one class index per detection.
//   - scores: Output tensor with one confidence per detection.
//   - layout: Box layout convention of the producing model family.
//   - inputW, inputH: The model's fixed input resolution.
//
// Returns:
//   - Batch: Decoded detections.
//   - error: An error if a tensor is nil or the box shape does not end
//     in 4.
func FromTensors(boxes, classes, scores *ort.Tensor[float32], layout Layout, inputW, inputH int) (Batch, error) {
	if boxes == nil || classes == nil || scores == nil {
		return nil, fmt.Errorf("nil output tensor")
	}

	shape := boxes.GetShape()
	if len(shape) == 0 || shape[len(shape)-1] != 4 {
		return nil, fmt.Errorf("box tensor shape %v does not end in 4", shape)
	}

	return Decode(RawOutput{
		Boxes:   boxes.GetData(),
		Classes: classes.GetData(),
		Scores:  scores.GetData(),
		Count:   -1,
	}, layout, inputW, inputH)
}
