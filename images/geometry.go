package images

import (
	"errors"
	"fmt"
)

// ErrInvalidBox reports a box slice with the wrong element count.
var ErrInvalidBox = errors.New("invalid box: expected 4 coordinates")

// TopEdgeMargin is the minimum distance, in pixels, a rescaled box's top
// edge keeps from the image top so the label background is not clipped.
const TopEdgeMargin = 10

// Scale maps box coordinates from the model's fixed input resolution back
// into the coordinate space of the original image.
type Scale struct {
	// RatioX is realWidth / inputWidth.
	RatioX float32
	// RatioY is realHeight / inputHeight.
	RatioY float32
}

// NewScale builds a Scale from the original image dimensions and the model
// input dimensions the detections were produced in.
//
// Arguments:
//   - realW, realH: The annotated image's native pixel dimensions.
//   - inputW, inputH: The fixed resolution the model was run on.
//
// Returns:
//   - Scale: The per-axis scale factors.
//   - error: An error if any dimension is not positive.
func NewScale(realW, realH, inputW, inputH int) (Scale, error) {
	if realW <= 0 || realH <= 0 || inputW <= 0 || inputH <= 0 {
		return Scale{}, fmt.Errorf("invalid dimensions: real=%dx%d input=%dx%d",
			realW, realH, inputW, inputH)
	}
	return Scale{
		RatioX: float32(realW) / float32(inputW),
		RatioY: float32(realH) / float32(inputH),
	}, nil
}

// Invert returns the scale mapping real-space coordinates back into input
// space.
func (s Scale) Invert() Scale {
	return Scale{RatioX: 1 / s.RatioX, RatioY: 1 / s.RatioY}
}

// Apply rescales a box given as [x1, y1, x2, y2] in input space into real
// space. Each coordinate is multiplied by the ratio matching its axis and
// truncated to an integer; sub-pixel precision is intentionally dropped.
// The top edge is clamped to TopEdgeMargin so a label drawn above the box
// stays on screen when the box touches the image top.
//
// Returns ErrInvalidBox when box does not hold exactly 4 elements.
func (s Scale) Apply(box []float32) (Rect, error) {
	if len(box) != 4 {
		return Rect{}, fmt.Errorf("%w, got %d", ErrInvalidBox, len(box))
	}

	y1 := box[1] * s.RatioY
	if y1 < TopEdgeMargin {
		y1 = TopEdgeMargin
	}

	return Rect{
		X1: int(box[0] * s.RatioX),
		Y1: int(y1),
		X2: int(box[2] * s.RatioX),
		Y2: int(box[3] * s.RatioY),
	}, nil
}
