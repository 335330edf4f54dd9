package pixelate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Raster is a decoded image as row-major, non-premultiplied RGBA bytes,
// four bytes per pixel.
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRaster wraps pix as a width x height raster.
func NewRaster(width, height int, pix []uint8) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: raster %dx%d", ErrInvalidDimensions, width, height)
	}
	if want := width * height * 4; len(pix) != want {
		return nil, fmt.Errorf("raster has %d bytes, want %d for %dx%d", len(pix), want, width, height)
	}
	return &Raster{Width: width, Height: height, Pix: pix}, nil
}

// RasterFromImage converts any decoded image into a Raster.
func RasterFromImage(img image.Image) (*Raster, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: image %dx%d", ErrInvalidDimensions, b.Dx(), b.Dy())
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}

	return &Raster{Width: b.Dx(), Height: b.Dy(), Pix: nrgba.Pix}, nil
}

// offset returns the byte offset of pixel x,y.
func (r *Raster) offset(x, y int) int {
	return (y*r.Width + x) * 4
}

// At returns the pixel at x,y.
func (r *Raster) At(x, y int) color.NRGBA {
	i := r.offset(x, y)
	return color.NRGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: r.Pix[i+3]}
}
