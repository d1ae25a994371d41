// Package raster draws the favicon glyph onto an RGBA canvas.
//
// Everything here is integer pixel math without anti-aliasing: a pixel
// is either painted with an opaque color or left untouched.
package raster

import (
	"errors"
	"fmt"
)

// ErrInvalidSize is returned by Render for non-positive sizes.
var ErrInvalidSize = errors.New("raster: size must be positive")

// GridUnits is the side of the reference grid glyph coordinates are
// expressed in.
const GridUnits = 64

// Proportions of the icon size used by Render.
const (
	cornerRatio = 0.22
	dotRatio    = 0.08
	dotXRatio   = 0.31
	dotYRatio   = 0.34
	strokeRatio = 0.08
)

// Point is a coordinate on the reference grid.
type Point struct {
	X, Y int
}

// Segment is a straight stroke between two grid points.
type Segment struct {
	From, To Point
}

// Style is the fixed palette and glyph of the icon.
type Style struct {
	Top      Color // gradient start, first row
	Bottom   Color // gradient end, last row
	Ink      Color // glyph strokes
	Accent   Color // dot
	Segments []Segment
}

// DefaultStyle is a ">_" prompt with a mint dot on a dark slate tile.
var DefaultStyle = Style{
	Top:    Color{R: 0x0b, G: 0x12, B: 0x20},
	Bottom: Color{R: 0x11, G: 0x18, B: 0x27},
	Ink:    Color{R: 0xe2, G: 0xe8, B: 0xf0},
	Accent: Color{R: 0x14, G: 0xb8, B: 0xa6},
	Segments: []Segment{
		{Point{22, 30}, Point{30, 36}},
		{Point{30, 36}, Point{22, 42}},
		{Point{34, 42}, Point{44, 42}},
	},
}

// CornerRadius returns the rounded-corner radius for an icon of the given size.
func CornerRadius(size int) int {
	return round(float64(size) * cornerRatio)
}

// StrokeWidth returns the glyph line thickness for an icon of the given size.
func StrokeWidth(size int) int {
	return max(1, round(float64(size)*strokeRatio))
}

// Scale maps a reference-grid coordinate onto a canvas of the given size.
func Scale(v, size int) int {
	return round(float64(v) * float64(size) / GridUnits)
}

// Render draws the icon described by style onto a new size×size canvas.
func Render(size int, style Style) (*Canvas, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	c := NewCanvas(size, size)

	FillGradient(c, style.Top, style.Bottom, CornerRadius(size))

	dotR := max(1, round(float64(size)*dotRatio))
	FillCircle(c, round(float64(size)*dotXRatio), round(float64(size)*dotYRatio), dotR, style.Accent)

	stroke := StrokeWidth(size)
	for _, s := range style.Segments {
		DrawLine(c,
			Scale(s.From.X, size), Scale(s.From.Y, size),
			Scale(s.To.X, size), Scale(s.To.Y, size),
			stroke, style.Ink)
	}
	return c, nil
}
