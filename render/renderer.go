package render

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/visionkit/go-annotate/images"
)

// Renderer draws bounding boxes and labels onto gocv Mats. The zero
// value is not usable; construct with New.
type Renderer struct {
	colors ColorStrategy
	font   gocv.HersheyFont
}

// New returns a Renderer using the given color strategy. A nil strategy
// falls back to the deterministic class-hash strategy.
func New(colors ColorStrategy) *Renderer {
	if colors == nil {
		colors = ClassHash{}
	}
	return &Renderer{colors: colors, font: gocv.FontHersheySimplex}
}

// LineThickness computes the outline thickness for an image of the given
// size: round(0.002 * (height + width) / 2) + 1, never below 1, so boxes
// stay visible on large images without overwhelming small ones.
func LineThickness(width, height int) int {
	t := int(math.Round(0.002*float64(height+width)/2)) + 1
	if t < 1 {
		t = 1
	}
	return t
}

// Draw renders a rectangle outline at box, and, when label is non-empty,
// a filled background sized to the rendered text immediately above the
// box's top-left corner with the label on top in a contrasting color.
//
// The Mat is mutated in place and returned for chaining. An empty or
// non-3-channel Mat is a precondition violation reported as an error.
func (r *Renderer) Draw(img *gocv.Mat, box images.Rect, label string, classIndex int) (*gocv.Mat, error) {
	if img == nil || img.Empty() {
		return img, fmt.Errorf("empty image buffer")
	}
	if img.Channels() != 3 {
		return img, fmt.Errorf("expected a 3-channel image, got %d channels", img.Channels())
	}

	thickness := LineThickness(img.Cols(), img.Rows())
	boxColor := r.colors.Pick(classIndex)

	rect := image.Rect(box.X1, box.Y1, box.X2, box.Y2)
	gocv.Rectangle(img, rect, boxColor, thickness)

	if label != "" {
		fontScale := float64(thickness) / 3.0
		textThickness := max(thickness-1, 1)
		size := gocv.GetTextSize(label, r.font, fontScale, textThickness)

		// Filled background directly above the top-left corner.
		bg := image.Rect(box.X1, box.Y1-size.Y-4, box.X1+size.X+2, box.Y1)
		gocv.Rectangle(img, bg, boxColor, -1)

		origin := image.Pt(box.X1+1, box.Y1-3)
		gocv.PutText(img, label, origin, r.font, fontScale, ContrastColor(boxColor), textThickness)
	}

	return img, nil
}
