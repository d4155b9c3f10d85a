package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells, 2x4 dots each. StrokeLine makes it a
// plum.Canvas: logical coordinates are scaled by ScaleX/ScaleY into dots.
type Canvas struct {
	Width, Height  int
	Grid           [][]rune
	ScaleX, ScaleY float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		ScaleX: 1,
		ScaleY: 1,
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Fit scales a width x height logical area onto the whole canvas.
func (c *Canvas) Fit(width, height float64) {
	c.ScaleX, c.ScaleY = 1, 1
	if width > 0 {
		c.ScaleX = float64(c.Width*2) / width
	}
	if height > 0 {
		c.ScaleY = float64(c.Height*4) / height
	}
}

// Set turns on the dot at (x, y). The canvas is Width*2 x Height*4 dots.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// Dots counts the dots that are on.
func (c *Canvas) Dots() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for bits := r - blank; bits != 0; bits &= bits - 1 {
				n++
			}
		}
	}
	return n
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// StrokeLine draws a segment given in logical units.
func (c *Canvas) StrokeLine(x0, y0, x1, y1 float64) {
	for _, v := range []float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
	}
	// Keep the Bresenham walk bounded for segments far off the canvas.
	lim := float64(4 * (c.Width + c.Height + 1))
	clamp := func(v float64) int { return int(math.Floor(math.Max(-lim, math.Min(lim, v)))) }
	c.DrawLine(clamp(x0*c.ScaleX), clamp(y0*c.ScaleY), clamp(x1*c.ScaleX), clamp(y1*c.ScaleY))
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
