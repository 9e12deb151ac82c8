package gpu

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// PixelBuffer is a read-back color buffer. Rows are stored bottom-up, as
// glReadPixels returns them.
type PixelBuffer struct {
	Width  int
	Height int
	Data   []float32
}

func NewPixelBuffer(w, h int) *PixelBuffer {
	return &PixelBuffer{Width: w, Height: h, Data: make([]float32, w*h*4)}
}

// At returns the pixel at window coordinates (x, y), clamped to the buffer.
func (p *PixelBuffer) At(x, y int) mgl32.Vec4 {
	x = min(max(x, 0), p.Width-1)
	y = min(max(y, 0), p.Height-1)
	i := (y*p.Width + x) * 4
	return mgl32.Vec4{p.Data[i], p.Data[i+1], p.Data[i+2], p.Data[i+3]}
}

func (p *PixelBuffer) Set(x, y int, c mgl32.Vec4) {
	i := (y*p.Width + x) * 4
	copy(p.Data[i:i+4], c[:])
}

// CountIf counts pixels matching pred.
func (p *PixelBuffer) CountIf(pred func(mgl32.Vec4) bool) int {
	n := 0
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			if pred(p.At(x, y)) {
				n++
			}
		}
	}
	return n
}

// Image converts to a top-down 8-bit image, clamping channels to [0, 1].
func (p *PixelBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			c := p.At(x, y)
			img.SetRGBA(x, p.Height-1-y, color.RGBA{
				R: to8(c[0]), G: to8(c[1]), B: to8(c[2]), A: to8(c[3]),
			})
		}
	}
	return img
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
