package gpu

import "fmt"

type Wrap int

const (
	WrapClamp Wrap = iota
	WrapRepeat
)

type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// TextureDesc describes an RGBA float texture. Data holds Width*Height*4
// floats, row 0 at the bottom (texture coordinate v = 0).
type TextureDesc struct {
	Name   string
	Width  int
	Height int
	Data   []float32
	Wrap   Wrap
	Filter Filter
}

func (d *TextureDesc) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("texture %q: invalid size %dx%d", d.Name, d.Width, d.Height)
	}
	if len(d.Data) != d.Width*d.Height*4 {
		return fmt.Errorf("texture %q: %d floats for %dx%d RGBA", d.Name, len(d.Data), d.Width, d.Height)
	}
	return nil
}

// SolidTexture builds a w×h texture filled with one color.
func SolidTexture(name string, w, h int, r, g, b, a float32) TextureDesc {
	data := make([]float32, w*h*4)
	for i := 0; i < w*h; i++ {
		data[i*4+0] = r
		data[i*4+1] = g
		data[i*4+2] = b
		data[i*4+3] = a
	}
	return TextureDesc{Name: name, Width: w, Height: h, Data: data, Wrap: WrapRepeat, Filter: FilterNearest}
}
