package viz

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/colorgrad"
)

// Palette maps a normalized scalar in [0,1] to a color along an RGB
// gradient through Stops. Two stops give a straight linear blend.
type Palette struct {
	Name  string
	Stops []string
	grad  colorgrad.Gradient
}

// NewPalette builds a palette from hex color stops.
func NewPalette(name string, stops ...string) (Palette, error) {
	if len(stops) == 0 {
		return Palette{}, fmt.Errorf("palette %q has no stops", name)
	}
	if len(stops) == 1 {
		stops = []string{stops[0], stops[0]}
	}
	cols := make([]color.Color, len(stops))
	for i, hex := range stops {
		c, err := colorful.Hex(hex)
		if err != nil {
			return Palette{}, fmt.Errorf("palette %q: %w", name, err)
		}
		cols[i] = c
	}
	grad, err := colorgrad.NewGradient().
		Colors(cols...).
		Mode(colorgrad.BlendRgb).
		Build()
	if err != nil {
		return Palette{}, fmt.Errorf("palette %q: %w", name, err)
	}
	return Palette{Name: name, Stops: stops, grad: grad}, nil
}

func mustPalette(name string, stops ...string) Palette {
	p, err := NewPalette(name, stops...)
	if err != nil {
		panic(err)
	}
	return p
}

var (
	// PaletteClassic is p*blue + (1-p)*red.
	PaletteClassic = mustPalette("classic", "#ff0000", "#0000ff")

	PaletteThermal = mustPalette("thermal", "#000000", "#8000a0", "#e63c14", "#ffc800", "#ffffff")

	PaletteGrayscale = mustPalette("grayscale", "#000000", "#ffffff")

	PaletteDiverging = mustPalette("diverging", "#3b4cc0", "#dddddd", "#b40426")

	Palettes = map[string]Palette{
		PaletteClassic.Name:   PaletteClassic,
		PaletteThermal.Name:   PaletteThermal,
		PaletteGrayscale.Name: PaletteGrayscale,
		PaletteDiverging.Name: PaletteDiverging,
	}
)

// GetPalette returns the named palette, falling back to classic.
func GetPalette(name string) Palette {
	if p, ok := Palettes[name]; ok {
		return p
	}
	return PaletteClassic
}

// PaletteNames returns the palette names in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(Palettes))
	for name := range Palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// At returns the color at position v, clamped to [0,1]. NaN maps to 0.
func (p Palette) At(v float64) color.RGBA {
	if len(p.Stops) == 0 {
		return color.RGBA{A: 255}
	}
	if math.IsNaN(v) || v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return rgba(p.grad.At(v))
}

func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{r, g, b, 255}
}

// Range is the value interval mapped onto a palette.
type Range struct {
	Min, Max float64
}

// UnitRange is the [0,1] interval the sine-product seed lives in.
var UnitRange = Range{Min: 0, Max: 1}

// SymmetricRange returns [-a, a], or the unit range when a is not positive.
func SymmetricRange(a float64) Range {
	if !(a > 0) || math.IsInf(a, 0) {
		return UnitRange
	}
	return Range{Min: -a, Max: a}
}

// Normalize maps v into [0,1] relative to r. A degenerate range maps to 0.5.
func (r Range) Normalize(v float64) float64 {
	span := r.Max - r.Min
	if span == 0 {
		return 0.5
	}
	return (v - r.Min) / span
}

// Color maps a raw field value through the range and palette.
func (p Palette) Color(v float64, r Range) color.RGBA {
	return p.At(r.Normalize(v))
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

// Lip converts a color to a lipgloss true-color value.
func Lip(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(Hex(c))
}

// Quantize builds an n-entry palette for paletted image formats, sampled
// evenly from the gradient.
func (p Palette) Quantize(n int) color.Palette {
	if n < 2 {
		n = 2
	}
	out := make(color.Palette, n)
	if len(p.Stops) == 0 {
		for i := range out {
			out[i] = color.RGBA{A: 255}
		}
		return out
	}
	for i, c := range p.grad.Colors(uint(n)) {
		cf, _ := colorful.MakeColor(c)
		out[i] = rgba(cf)
	}
	return out
}
