package raster

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// Color is an opaque 8-bit RGB color. It is always drawn with alpha 255.
type Color struct {
	R, G, B uint8
}

// NRGBA returns c as a fully opaque color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// ParseColor parses a "#rrggbb" or "rrggbb" hex string.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("raster: bad color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("raster: bad color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// String returns c as "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Canvas is a rectangular RGBA pixel buffer, 4 bytes per pixel,
// row-major with the origin at the top left.
type Canvas struct {
	width  int
	height int
	pix    []uint8
}

// NewCanvas returns a fully transparent canvas. It panics if width or
// height is negative.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}
}

// FromImage copies img into a new canvas with its origin at img.Bounds().Min.
func FromImage(img image.Image) *Canvas {
	b := img.Bounds()
	c := NewCanvas(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			n := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			i := c.offset(x-b.Min.X, y-b.Min.Y)
			c.pix[i+0] = n.R
			c.pix[i+1] = n.G
			c.pix[i+2] = n.B
			c.pix[i+3] = n.A
		}
	}
	return c
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Pix returns the underlying RGBA bytes. Length is Width*Height*4.
func (c *Canvas) Pix() []uint8 { return c.pix }

func (c *Canvas) offset(x, y int) int {
	return (y*c.width + x) * 4
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Set paints a single opaque pixel. Out-of-bounds coordinates are ignored.
func (c *Canvas) Set(x, y int, col Color) {
	if !c.inside(x, y) {
		return
	}
	i := c.offset(x, y)
	c.pix[i+0] = col.R
	c.pix[i+1] = col.G
	c.pix[i+2] = col.B
	c.pix[i+3] = 0xFF
}

// At returns the pixel at (x, y), or the zero color when out of bounds.
func (c *Canvas) At(x, y int) color.NRGBA {
	if !c.inside(x, y) {
		return color.NRGBA{}
	}
	i := c.offset(x, y)
	return color.NRGBA{R: c.pix[i+0], G: c.pix[i+1], B: c.pix[i+2], A: c.pix[i+3]}
}

// Image returns a copy of the canvas as an *image.NRGBA.
func (c *Canvas) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.width, c.height))
	copy(img.Pix, c.pix)
	return img
}
