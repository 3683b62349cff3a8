package encode

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
)

// Image is an 8-bit RGB raster stored row-major as Height x Width x 3.
type Image struct {
	Height int
	Width  int
	Pix    []uint8
}

// NewImage returns a black image.
func NewImage(height, width int) *Image {
	return &Image{
		Height: height,
		Width:  width,
		Pix:    make([]uint8, height*width*3),
	}
}

// Shape returns (height, width, channels).
func (im *Image) Shape() (int, int, int) {
	return im.Height, im.Width, 3
}

func (im *Image) offset(y, x int) int {
	return (y*im.Width + x) * 3
}

// At returns the value of channel c (0, 1 or 2) at row y, column x.
func (im *Image) At(y, x, c int) uint8 {
	return im.Pix[im.offset(y, x)+c]
}

// Set sets channel c at row y, column x.
func (im *Image) Set(y, x, c int, v uint8) {
	im.Pix[im.offset(y, x)+c] = v
}

// ChannelZero reports whether channel c is zero everywhere.
func (im *Image) ChannelZero(c int) bool {
	for i := c; i < len(im.Pix); i += 3 {
		if im.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// RGBA converts the image to an opaque *image.RGBA.
func (im *Image) RGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, im.Width, im.Height))
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			o := im.offset(y, x)
			out.SetRGBA(x, y, color.RGBA{R: im.Pix[o], G: im.Pix[o+1], B: im.Pix[o+2], A: 0xff})
		}
	}
	return out
}

// FromImage copies the color channels of img, dropping alpha.
func FromImage(img image.Image) *Image {
	rgba := clone.AsRGBA(img)
	b := rgba.Bounds()
	out := NewImage(b.Dy(), b.Dx())
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			i := rgba.PixOffset(b.Min.X+x, b.Min.Y+y)
			copy(out.Pix[out.offset(y, x):], rgba.Pix[i:i+3])
		}
	}
	return out
}

// Scale resizes the image by factor with linear resampling. Factors outside (0, 1) return
// the image unchanged.
func (im *Image) Scale(factor float64) *Image {
	if factor <= 0 || factor >= 1 {
		return im
	}
	w := int(math.Max(1, math.Round(float64(im.Width)*factor)))
	h := int(math.Max(1, math.Round(float64(im.Height)*factor)))
	return FromImage(transform.Resize(im.RGBA(), w, h, transform.Linear))
}
