package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/wave2d/internal/field"
	"github.com/san-kum/wave2d/internal/viz"
	"gonum.org/v1/gonum/floats"
)

// GridToSVG draws one rect per cell, colored through the palette.
func GridToSVG(g *field.Grid, pal viz.Palette, r viz.Range, scale float64) string {
	if g == nil {
		return ""
	}
	if scale <= 0 {
		scale = 1
	}

	width := float64(g.Nx) * scale
	height := float64(g.Ny) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" shape-rendering="crispEdges">
`, width, height, width, height))

	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			fill := viz.Hex(pal.Color(g.At(i, j), r))
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(i)*scale, float64(j)*scale, scale, scale, fill))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values against their index as a polyline with a caption.
func SeriesToSVG(values []float64, width, height int, strokeColor, caption string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := floats.Min(values), floats.Max(values)
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	// 10% padding
	minY -= rangeY * 0.1
	rangeY *= 1.2
	n := float64(len(values) - 1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) / n * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
`)
	if caption != "" {
		sb.WriteString(fmt.Sprintf(`<text x="8" y="16" fill="#cccccc" font-family="monospace" font-size="12">%s</text>
`, escape(caption)))
	}
	sb.WriteString(`</svg>`)
	return sb.String()
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
