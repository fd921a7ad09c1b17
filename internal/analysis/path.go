package analysis

import (
	"strings"

	"github.com/san-kum/tcvsim/internal/sim"
	"github.com/san-kum/tcvsim/internal/vec"
)

// Path is the recorded trajectory of one particle.
type Path struct {
	ID     int
	Points []vec.Vector2
}

func TracePath(frames []sim.Frame, id int) *Path {
	p := &Path{ID: id, Points: make([]vec.Vector2, 0, len(frames))}
	for _, f := range frames {
		if s, ok := sample(f, id); ok {
			p.Points = append(p.Points, s.Position)
		}
	}
	return p
}

// PathToASCII plots one or more paths in screen orientation (y grows
// downward). Each path uses its own glyph; the first point of every path is
// drawn as 'o'.
func PathToASCII(paths []*Path, width, height int) string {
	if width < 2 || height < 2 {
		return ""
	}

	first := true
	var minX, maxX, minY, maxY float64
	for _, p := range paths {
		for _, pt := range p.Points {
			if first {
				minX, maxX, minY, maxY = pt.X, pt.X, pt.Y, pt.Y
				first = false
				continue
			}
			if pt.X < minX {
				minX = pt.X
			}
			if pt.X > maxX {
				maxX = pt.X
			}
			if pt.Y < minY {
				minY = pt.Y
			}
			if pt.Y > maxY {
				maxY = pt.Y
			}
		}
	}
	if first {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	minY -= rangeY * 0.05
	rangeX *= 1.1
	rangeY *= 1.1

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	glyphs := []rune{'•', '*', '+', 'x', '#'}
	for i, p := range paths {
		g := glyphs[i%len(glyphs)]
		for j, pt := range p.Points {
			col := int((pt.X - minX) / rangeX * float64(width-1))
			row := int((pt.Y - minY) / rangeY * float64(height-1))
			if row < 0 || row >= height || col < 0 || col >= width {
				continue
			}
			if j == 0 {
				canvas[row][col] = 'o'
			} else if canvas[row][col] != 'o' {
				canvas[row][col] = g
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
