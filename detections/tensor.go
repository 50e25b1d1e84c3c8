package detections

import (
	"fmt"

	"gorgonia.org/tensor"
)

// FromDense decodes detections from gorgonia dense tensors, the container
// engines hand back when outputs are kept on the Go side.
//
// Arguments:
//   - boxes: Float32 tensor whose innermost dimension is 4.
//   - classes: Float32 tensor with one class index per detection.
//   - scores: Float32 tensor with one confidence per detection.
//   - layout: Box layout convention of the producing model family.
//   - inputW, inputH: The model's fixed input resolution.
//
// Returns:
//   - Batch: Decoded detections.
//   - error: An error if a tensor is not float32-backed or the box shape
//     does not end in 4.
func FromDense(boxes, classes, scores *tensor.Dense, layout Layout, inputW, inputH int) (Batch, error) {
	boxData, err := denseFloats(boxes, "boxes")
	if err != nil {
		return nil, err
	}
	classData, err := denseFloats(classes, "classes")
	if err != nil {
		return nil, err
	}
	scoreData, err := denseFloats(scores, "scores")
	if err != nil {
		return nil, err
	}

	shape := boxes.Shape()
	if len(shape) == 0 || shape[len(shape)-1] != 4 {
		return nil, fmt.Errorf("box tensor shape %v does not end in 4", shape)
	}

	return Decode(RawOutput{
		Boxes:   boxData,
		Classes: classData,
		Scores:  scoreData,
		Count:   -1,
	}, layout, inputW, inputH)
}

func denseFloats(d *tensor.Dense, name string) ([]float32, error) {
	if d == nil {
		return nil, fmt.Errorf("%s tensor is nil", name)
	}
	data, ok := d.Data().([]float32)
	if !ok {
		return nil, fmt.Errorf("%s tensor is not float32-backed (%v)", name, d.Dtype())
	}
	return data, nil
}
