package resources

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"render-pipeline/gpu"
)

// LoadImage decodes an image file into a texture description named name.
func LoadImage(name, path string) (gpu.TextureDesc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gpu.TextureDesc{}, fmt.Errorf("read texture %s: %w", path, err)
	}
	return DecodeImage(name, data)
}

// DecodeImage converts PNG, JPEG, BMP, TIFF or WebP bytes to float RGBA.
// Row 0 of the result is the bottom of the image.
func DecodeImage(name string, data []byte) (gpu.TextureDesc, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return gpu.TextureDesc{}, fmt.Errorf("decode %s: %w", name, err)
	}
	return ImageTexture(name, img), nil
}

func ImageTexture(name string, img image.Image) gpu.TextureDesc {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	w, h := b.Dx(), b.Dy()
	desc := gpu.TextureDesc{
		Name:   name,
		Width:  w,
		Height: h,
		Data:   make([]float32, w*h*4),
		Wrap:   gpu.WrapRepeat,
		Filter: gpu.FilterLinear,
	}
	for y := 0; y < h; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		dst := desc.Data[(h-1-y)*w*4:]
		for i, v := range src {
			dst[i] = float32(v) / 255
		}
	}
	return desc
}
