// Package render - draws detection boxes and labels onto image buffers.
package render

import (
	"hash/fnv"
	"image/color"
	"math/rand"
)

// ColorStrategy picks the outline color for a detection's box. Injecting
// the strategy keeps rendering deterministic and testable; unseeded
// per-call randomness would make identical inputs produce different
// images.
type ColorStrategy interface {
	Pick(classIndex int) color.RGBA
}

// DefaultPalette is a small set of saturated colors that read well on
// most photographic backgrounds.
var DefaultPalette = []color.RGBA{
	{R: 255, G: 56, B: 56, A: 255},
	{R: 255, G: 157, B: 151, A: 255},
	{R: 255, G: 112, B: 31, A: 255},
	{R: 255, G: 178, B: 29, A: 255},
	{R: 207, G: 210, B: 49, A: 255},
	{R: 72, G: 249, B: 10, A: 255},
	{R: 146, G: 204, B: 23, A: 255},
	{R: 61, G: 219, B: 134, A: 255},
	{R: 26, G: 147, B: 52, A: 255},
	{R: 0, G: 212, B: 187, A: 255},
	{R: 44, G: 153, B: 168, A: 255},
	{R: 0, G: 194, B: 255, A: 255},
	{R: 52, G: 69, B: 147, A: 255},
	{R: 100, G: 115, B: 255, A: 255},
	{R: 0, G: 24, B: 236, A: 255},
	{R: 132, G: 56, B: 255, A: 255},
	{R: 82, G: 0, B: 133, A: 255},
	{R: 203, G: 56, B: 255, A: 255},
	{R: 255, G: 149, B: 200, A: 255},
	{R: 255, G: 55, B: 199, A: 255},
}

// Palette cycles through a fixed list of colors by class index.
type Palette struct {
	Colors []color.RGBA
}

// Pick returns the palette entry for the class, wrapping around.
func (p Palette) Pick(classIndex int) color.RGBA {
	colors := p.Colors
	if len(colors) == 0 {
		colors = DefaultPalette
	}
	i := classIndex % len(colors)
	if i < 0 {
		i += len(colors)
	}
	return colors[i]
}

// ClassHash derives a stable color from the class index, so the same
// class is always drawn in the same color without configuring a palette.
type ClassHash struct{}

// Pick hashes the class index into DefaultPalette.
func (ClassHash) Pick(classIndex int) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte{
		byte(classIndex), byte(classIndex >> 8),
		byte(classIndex >> 16), byte(classIndex >> 24),
	})
	return DefaultPalette[h.Sum32()%uint32(len(DefaultPalette))]
}

// RandomColors picks colors from a seeded generator. With a fixed seed
// the sequence is reproducible across runs.
type RandomColors struct {
	rng *rand.Rand
}

// NewRandomColors returns a seeded random color strategy.
func NewRandomColors(seed int64) *RandomColors {
	return &RandomColors{rng: rand.New(rand.NewSource(seed))}
}

// Pick returns the next random color regardless of class.
func (r *RandomColors) Pick(int) color.RGBA {
	return color.RGBA{
		R: uint8(r.rng.Intn(256)),
		G: uint8(r.rng.Intn(256)),
		B: uint8(r.rng.Intn(256)),
		A: 255,
	}
}

// ContrastColor returns black or white, whichever reads better against
// the given background color, using the ITU-R BT.601 luma weights.
func ContrastColor(c color.RGBA) color.RGBA {
	luma := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	if luma > 127 {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: 255, G: 255, B: 255, A: 255}
}
