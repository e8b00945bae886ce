package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/wave2d/internal/field"
)

// upper half block: foreground paints the top sample, background the bottom.
const halfBlock = "▀"

// Heatmap renders a grid as colored terminal cells. Each character cell
// covers two sample rows, so a Width x Height heat map shows Width x 2*Height
// samples taken by nearest-neighbour downsampling.
type Heatmap struct {
	Width, Height int
	Palette       Palette
	Range         Range
}

// NewHeatmap returns a heat map of at most width x height character cells.
func NewHeatmap(width, height int, pal Palette, r Range) *Heatmap {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Heatmap{Width: width, Height: height, Palette: pal, Range: r}
}

// Size returns the character dimensions used for a grid. A grid smaller than
// the heat map is drawn one cell per column and half a cell per row.
func (h *Heatmap) Size(g *field.Grid) (cols, rows int) {
	cols = min(h.Width, g.Nx)
	rows = min(h.Height, (g.Ny+1)/2)
	return cols, rows
}

// sample picks the grid value under output pixel (x, y) of a w x hp image.
func sample(g *field.Grid, x, y, w, hp int) float64 {
	i := x * g.Nx / w
	j := y * g.Ny / hp
	return g.At(i, j)
}

// Render draws the grid.
func (h *Heatmap) Render(g *field.Grid) string {
	cols, rows := h.Size(g)
	hp := rows * 2
	if hp > g.Ny {
		hp = g.Ny
	}

	var b strings.Builder
	for row := 0; row < rows; row++ {
		top := 2 * row
		bottom := top + 1
		for col := 0; col < cols; col++ {
			st := lipgloss.NewStyle().Foreground(Lip(h.Palette.Color(sample(g, col, top, cols, hp), h.Range)))
			if bottom < hp {
				st = st.Background(Lip(h.Palette.Color(sample(g, col, bottom, cols, hp), h.Range)))
			}
			b.WriteString(st.Render(halfBlock))
		}
		if row < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Legend renders the palette as a horizontal color bar.
func (h *Heatmap) Legend(width int) string {
	if width < 2 {
		width = 2
	}
	var b strings.Builder
	for x := 0; x < width; x++ {
		c := h.Palette.At(float64(x) / float64(width-1))
		b.WriteString(lipgloss.NewStyle().Foreground(Lip(c)).Render("█"))
	}
	return b.String()
}
