package viz

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"os"

	"github.com/san-kum/wave2d/internal/field"
)

// Image renders the grid at scale pixels per cell.
func Image(g *field.Grid, pal Palette, r Range, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, g.Nx*scale, g.Ny*scale))
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			c := pal.Color(g.At(i, j), r)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetRGBA(i*scale+dx, j*scale+dy, c)
				}
			}
		}
	}
	return img
}

// WritePNG encodes a grid snapshot as PNG.
func WritePNG(w io.Writer, g *field.Grid, pal Palette, r Range, scale int) error {
	return png.Encode(w, Image(g, pal, r, scale))
}

// SavePNG writes a grid snapshot to path.
func SavePNG(path string, g *field.Grid, pal Palette, r Range, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, g, pal, r, scale); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

const gifColors = 256

// Recorder accumulates frames for an animated GIF. Delay is in 100ths of a
// second per frame.
type Recorder struct {
	Palette Palette
	Range   Range
	Scale   int
	Delay   int

	colors color.Palette
	frames []*image.Paletted
}

func NewRecorder(pal Palette, r Range, scale, delay int) *Recorder {
	if scale < 1 {
		scale = 1
	}
	if delay < 1 {
		delay = 2
	}
	return &Recorder{
		Palette: pal,
		Range:   r,
		Scale:   scale,
		Delay:   delay,
		colors:  pal.Quantize(gifColors),
	}
}

// SetPalette switches the colors used by frames captured from now on.
func (rec *Recorder) SetPalette(pal Palette) {
	rec.Palette = pal
	rec.colors = pal.Quantize(gifColors)
}

func (rec *Recorder) Frames() int { return len(rec.frames) }

// Capture appends the current grid as a frame.
func (rec *Recorder) Capture(g *field.Grid) {
	s := rec.Scale
	img := image.NewPaletted(image.Rect(0, 0, g.Nx*s, g.Ny*s), rec.colors)
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			p := rec.Range.Normalize(g.At(i, j))
			if !(p > 0) {
				p = 0
			} else if p > 1 {
				p = 1
			}
			idx := uint8(p*float64(gifColors-1) + 0.5)
			for dy := 0; dy < s; dy++ {
				for dx := 0; dx < s; dx++ {
					img.SetColorIndex(i*s+dx, j*s+dy, idx)
				}
			}
		}
	}
	rec.frames = append(rec.frames, img)
}

// Encode writes the recorded frames as a looping GIF.
func (rec *Recorder) Encode(w io.Writer) error {
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range rec.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, rec.Delay)
	}
	return gif.EncodeAll(w, &anim)
}

// Save writes the recording to path. Nothing is written when no frames
// were captured.
func (rec *Recorder) Save(path string) error {
	if len(rec.frames) == 0 {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := rec.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Reset drops all captured frames.
func (rec *Recorder) Reset() { rec.frames = rec.frames[:0] }
