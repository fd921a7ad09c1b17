package tui

import (
	"strings"

	"github.com/san-kum/tcvsim/internal/vec"
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

const brailleBlank = 0x2800

// Canvas is a braille grid. Its resolution in sub-pixels is
// (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel at (x, y). Out of range coordinates are ignored.
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

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
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

// Blob lights a 2x2 block with its top-left corner at (x, y).
func (c *Canvas) Blob(x, y int) {
	c.Set(x, y)
	c.Set(x+1, y)
	c.Set(x, y+1)
	c.Set(x+1, y+1)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps a world rectangle onto canvas sub-pixels. World Y grows
// downward, like the canvas rows.
type Viewport struct {
	Min, Max vec.Vector2
}

// Fit returns the smallest viewport holding every point, padded by 10%.
func Fit(points []vec.Vector2) Viewport {
	var v Viewport
	first := true
	for _, p := range points {
		if !p.IsValid() {
			continue
		}
		if first {
			v.Min, v.Max = p, p
			first = false
			continue
		}
		v.include(p)
	}
	return v.padded()
}

// Include grows the viewport, with padding, until p is visible.
func (v *Viewport) Include(p vec.Vector2) {
	if !p.IsValid() || v.contains(p) {
		return
	}
	v.include(p)
	*v = v.padded()
}

func (v *Viewport) include(p vec.Vector2) {
	v.Min.X = min(v.Min.X, p.X)
	v.Min.Y = min(v.Min.Y, p.Y)
	v.Max.X = max(v.Max.X, p.X)
	v.Max.Y = max(v.Max.Y, p.Y)
}

func (v Viewport) contains(p vec.Vector2) bool {
	return p.X >= v.Min.X && p.X <= v.Max.X && p.Y >= v.Min.Y && p.Y <= v.Max.Y
}

func (v Viewport) padded() Viewport {
	pad := vec.New((v.Max.X-v.Min.X)*0.1, (v.Max.Y-v.Min.Y)*0.1)
	if pad.X == 0 {
		pad.X = 1
	}
	if pad.Y == 0 {
		pad.Y = 1
	}
	return Viewport{Min: v.Min.Sub(pad), Max: v.Max.Add(pad)}
}

// Project returns the sub-pixel of p on c, and false when p is not finite.
func (v Viewport) Project(c *Canvas, p vec.Vector2) (int, int, bool) {
	if !p.IsValid() {
		return 0, 0, false
	}
	w, h := float64(c.Width*2-1), float64(c.Height*4-1)
	spanX, spanY := v.Max.X-v.Min.X, v.Max.Y-v.Min.Y
	if spanX <= 0 || spanY <= 0 {
		return 0, 0, false
	}
	x := (p.X - v.Min.X) / spanX * w
	y := (p.Y - v.Min.Y) / spanY * h
	return int(x), int(y), true
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
