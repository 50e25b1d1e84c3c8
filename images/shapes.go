// Package images - geometry and image helpers for detection annotation.
package images

// Rect is a lightweight bounding box in pixel space.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 int
}

// Width returns the horizontal extent of r in pixels.
func (r Rect) Width() int { return r.X2 - r.X1 }

// Height returns the vertical extent of r in pixels.
func (r Rect) Height() int { return r.Y2 - r.Y1 }

// CalculateIoU computes the Intersection over Union of two rectangles.
//
// IoU = Area of Intersection / Area of Union, a value in [0.0, 1.0]:
// 1.0 means the rectangles are identical, 0.0 means they do not overlap
// at all. The intersection corners are the max of the top-left corners
// and the min of the bottom-right corners; a non-positive width or
// height means no overlap. The union uses inclusion-exclusion:
//
//	Union(A, B) = Area(A) + Area(B) - Intersection(A, B)
//
// Arguments:
//   - r: The first rectangle.
//   - o: The other rectangle to compare against.
//
// Returns:
//   - float32: The IoU score between 0.0 and 1.0.
func CalculateIoU(r, o Rect) float32 {
	ix1 := max(r.X1, o.X1)
	iy1 := max(r.Y1, o.Y1)
	ix2 := min(r.X2, o.X2)
	iy2 := min(r.Y2, o.Y2)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0.0
	}
	interArea := interW * interH

	areaR := (r.X2 - r.X1) * (r.Y2 - r.Y1)
	areaO := (o.X2 - o.X1) * (o.Y2 - o.Y1)
	unionArea := areaR + areaO - interArea

	// Cast to float32 to ensure floating-point division.
	return float32(interArea) / float32(unionArea)
}
