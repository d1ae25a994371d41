package raster

import "math"

// round rounds half away from zero. Every caller passes non-negative
// values, so this matches round-half-up.
func round(v float64) int {
	return int(math.Round(v))
}

// Lerp interpolates each channel of a and b at t and rounds to the
// nearest integer. t is expected in [0, 1].
func Lerp(a, b Color, t float64) Color {
	ch := func(x, y uint8) uint8 {
		return uint8(round(float64(x) + (float64(y)-float64(x))*t))
	}
	return Color{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B)}
}

// InRoundedRect reports whether (x, y) lies inside a size×size square
// whose corners are rounded with the given radius.
func InRoundedRect(x, y, size, radius int) bool {
	if x >= radius && x < size-radius {
		return true
	}
	if y >= radius && y < size-radius {
		return true
	}
	rx := size - radius - 1
	if x < radius {
		rx = radius
	}
	ry := size - radius - 1
	if y < radius {
		ry = radius
	}
	dx, dy := x-rx, y-ry
	return dx*dx+dy*dy <= radius*radius
}

// InCircle reports whether the offset (dx, dy) from a circle's center
// falls within radius r.
func InCircle(dx, dy, r int) bool {
	return dx*dx+dy*dy <= r*r
}

// FillGradient paints every row of a square canvas with the vertical
// blend from top to bottom, restricted to the rounded-rect mask.
func FillGradient(c *Canvas, top, bottom Color, radius int) {
	size := c.width
	for y := 0; y < c.height; y++ {
		t := 0.0
		if c.height > 1 {
			t = float64(y) / float64(c.height-1)
		}
		col := Lerp(top, bottom, t)
		for x := 0; x < size; x++ {
			if InRoundedRect(x, y, size, radius) {
				c.Set(x, y, col)
			}
		}
	}
}

// FillCircle paints every pixel within r of (cx, cy). Only the bounding
// box is scanned; pixels beyond the canvas are clipped.
func FillCircle(c *Canvas, cx, cy, r int, col Color) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if InCircle(x-cx, y-cy, r) {
				c.Set(x, y, col)
			}
		}
	}
}

// DrawLine strokes (x0, y0)-(x1, y1) by stamping a filled circle at each
// point of a Bresenham walk. The stamp radius is max(1, thickness/2).
func DrawLine(c *Canvas, x0, y0, x1, y1, thickness int, col Color) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	r := max(1, thickness/2)

	err := dx - dy
	x, y := x0, y0
	for {
		FillCircle(c, x, y, r, col)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
