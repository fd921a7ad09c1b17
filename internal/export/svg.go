package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/tcvsim/internal/analysis"
	"github.com/san-kum/tcvsim/internal/particle"
)

var strokeColors = []string{"#00ff88", "#00ccff", "#ff00ff", "#ffaa00", "#ff4444", "#ffffff"}

// PathsToSVG draws particle paths in screen orientation (y grows downward).
// When bounds are given they fix the view and are drawn as a frame;
// otherwise the view fits the paths with 10% padding.
func PathsToSVG(paths []*analysis.Path, bounds *particle.Rect, width, height int) string {
	minX, maxX, minY, maxY, ok := extent(paths, bounds)
	if !ok || width < 1 || height < 1 {
		return ""
	}
	rangeX, rangeY := maxX-minX, maxY-minY

	project := func(x, y float64) (float64, float64) {
		return (x - minX) / rangeX * float64(width), (y - minY) / rangeY * float64(height)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if bounds != nil {
		x0, y0 := project(bounds.Left, bounds.Top)
		w := bounds.Width() / rangeX * float64(width)
		h := bounds.Height() / rangeY * float64(height)
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#444466" stroke-width="2"/>
`, x0, y0, w, h))
	}

	for i, p := range paths {
		if len(p.Points) == 0 {
			continue
		}
		color := strokeColors[i%len(strokeColors)]

		if len(p.Points) > 1 {
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
			for j, pt := range p.Points {
				x, y := project(pt.X, pt.Y)
				if j == 0 {
					sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
				} else {
					sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
				}
			}
			sb.WriteString("\"/>\n")
		}

		sx, sy := project(p.Points[0].X, p.Points[0].Y)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, sx, sy, color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func extent(paths []*analysis.Path, bounds *particle.Rect) (minX, maxX, minY, maxY float64, ok bool) {
	if bounds != nil {
		if bounds.Right <= bounds.Left || bounds.Bottom <= bounds.Top {
			return 0, 0, 0, 0, false
		}
		return bounds.Left, bounds.Right, bounds.Top, bounds.Bottom, true
	}

	first := true
	for _, p := range paths {
		for _, pt := range p.Points {
			if !pt.IsValid() {
				continue
			}
			if first {
				minX, maxX, minY, maxY = pt.X, pt.X, pt.Y, pt.Y
				first = false
				continue
			}
			minX, maxX = min(minX, pt.X), max(maxX, pt.X)
			minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
		}
	}
	if first {
		return 0, 0, 0, 0, false
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	return minX, maxX, minY, maxY, true
}
