package encode

import (
	"math"

	"github.com/hardyml/hardy/hardy-golib/errors"
)

// Orientation is the image axis a series is drawn along.
type Orientation int

const (
	// Horizontal varies along x; every row is identical.
	Horizontal Orientation = iota
	// Vertical varies along y; every column is identical.
	Vertical
)

// Rasterize draws up to three series into the color channels of a height x width image. A nil
// series leaves its channel at zero. Each series is min-max scaled to 0..255 and resampled to
// the oriented axis by linear interpolation; NaN samples and constant series draw as 0.
func Rasterize(r, g, b []float64, height, width int, o Orientation) *Image {
	im := NewImage(height, width)
	n := width
	if o == Vertical {
		n = height
	}

	for c, series := range [3][]float64{r, g, b} {
		if series == nil {
			continue
		}
		levels := quantize(resample(scale(series), n))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if o == Horizontal {
					im.Set(y, x, c, levels[x])
				} else {
					im.Set(y, x, c, levels[y])
				}
			}
		}
	}
	return im
}

// scale maps the finite values of series onto [0, 255]. Non-finite values become NaN.
func scale(series []float64) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	out := make([]float64, len(series))
	span := hi - lo
	for i, v := range series {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			out[i] = math.NaN()
		case span <= 0:
			out[i] = 0
		default:
			out[i] = (v - lo) / span * 255
		}
	}
	return out
}

// resample linearly interpolates series onto n evenly spaced positions covering its full
// extent. An interpolation touching a NaN sample is NaN.
func resample(series []float64, n int) []float64 {
	out := make([]float64, n)
	switch len(series) {
	case 0:
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	case 1:
		for i := range out {
			out[i] = series[0]
		}
		return out
	}

	last := len(series) - 1
	for i := range out {
		var pos float64
		if n > 1 {
			pos = float64(i) * float64(last) / float64(n-1)
		}
		j := int(math.Floor(pos))
		if j >= last {
			out[i] = series[last]
			continue
		}
		frac := pos - float64(j)
		if frac == 0 {
			out[i] = series[j]
			continue
		}
		out[i] = series[j]*(1-frac) + series[j+1]*frac
	}
	return out
}

func quantize(values []float64) []uint8 {
	out := make([]uint8, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		out[i] = uint8(math.Round(math.Max(0, math.Min(255, v))))
	}
	return out
}

// Mode selects how the upper and lower rasters are merged.
type Mode string

// Combination modes.
const (
	Add      Mode = "add"
	Multiply Mode = "mlt"
)

// ParseMode validates a combine method name. The empty string selects Add.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", Add:
		return Add, nil
	case Multiply:
		return Multiply, nil
	}
	return "", configErrorf("unknown combine method %q", s)
}

// Combine merges two equally sized images channel-wise. Add is a sum saturating at 255,
// Multiply is a*b/255 rounded. Both are symmetric in their arguments.
func Combine(mode Mode, upper, lower *Image) (*Image, error) {
	if upper.Height != lower.Height || upper.Width != lower.Width {
		return nil, errors.Errorf("cannot combine %dx%d and %dx%d images",
			upper.Height, upper.Width, lower.Height, lower.Width)
	}

	var op func(a, b uint8) uint8
	switch mode {
	case Add, "":
		op = func(a, b uint8) uint8 {
			if s := int(a) + int(b); s < 256 {
				return uint8(s)
			}
			return 255
		}
	case Multiply:
		op = func(a, b uint8) uint8 {
			return uint8(math.Round(float64(a) * float64(b) / 255))
		}
	default:
		return nil, configErrorf("unknown combine method %q", mode)
	}

	out := NewImage(upper.Height, upper.Width)
	for i := range out.Pix {
		out.Pix[i] = op(upper.Pix[i], lower.Pix[i])
	}
	return out, nil
}
