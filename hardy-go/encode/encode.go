package encode

import (
	"github.com/hardyml/hardy/hardy-go/table"
)

// Default image geometry and combination.
const (
	DefaultHeight = 80
	DefaultWidth  = 80
	DefaultMode   = Add
)

// Legacy format names.
const (
	// FormatSingle draws column 0 as red and column 1 as blue on one horizontal raster.
	FormatSingle = "single"
	// FormatElse draws column 0 as upper red and column 1 as lower blue, added.
	FormatElse = "else"
)

// Options configures Encode.
type Options struct {
	// Format is a channel-assignment string over RGBrgbXx, or FormatSingle / FormatElse.
	Format string
	// Columns lists the table columns the format positions refer to. If empty, the table's own
	// column order is used.
	Columns []string
	Mode    Mode
	Height  int
	Width   int
	// Scale in (0, 1) shrinks the final image, which is then no longer Height x Width. The
	// Upper and Lower halves of a Rendering keep the unscaled size.
	Scale float64
}

func (o Options) withDefaults() Options {
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	return o
}

// Validate checks the options independently of any table.
func (o Options) Validate() error {
	if _, err := ParseMode(string(o.Mode)); err != nil {
		return err
	}
	if o.Scale < 0 || o.Scale > 1 {
		return configErrorf("scale %v outside (0, 1]", o.Scale)
	}
	if o.Format == FormatSingle || o.Format == FormatElse {
		return nil
	}
	_, err := ParseFormat(o.Format)
	return err
}

// Rendering holds an encoded image and the two halves it was combined from.
type Rendering struct {
	Image *Image
	Upper *Image
	Lower *Image
}

// Encode renders t into an RGB image.
func Encode(t *table.Table, opts Options) (*Image, error) {
	r, err := Render(t, opts)
	if err != nil {
		return nil, err
	}
	return r.Image, nil
}

// Render is Encode but also returns the unscaled upper and lower rasters.
func Render(t *table.Table, opts Options) (*Rendering, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	series, err := columns(t, opts.Columns)
	if err != nil {
		return nil, err
	}

	h, w := opts.Height, opts.Width
	var r Rendering
	switch opts.Format {
	case FormatSingle:
		if len(series) != 2 {
			return nil, configErrorf("format %s needs exactly 2 columns, have %d", opts.Format, len(series))
		}
		r.Upper = Rasterize(series[0], nil, series[1], h, w, Horizontal)
		r.Lower = NewImage(h, w)
		r.Image = r.Upper
	case FormatElse:
		if len(series) != 2 {
			return nil, configErrorf("format %s needs exactly 2 columns, have %d", opts.Format, len(series))
		}
		r.Upper = Rasterize(series[0], nil, nil, h, w, Horizontal)
		r.Lower = Rasterize(nil, nil, series[1], h, w, Vertical)
		if r.Image, err = Combine(Add, r.Upper, r.Lower); err != nil {
			return nil, err
		}
	default:
		if len(opts.Format) > len(series) {
			return nil, configErrorf("format %q addresses %d columns but only %d are available",
				opts.Format, len(opts.Format), len(series))
		}
		b, err := ParseFormat(opts.Format)
		if err != nil {
			return nil, err
		}
		pick := func(c Channel) []float64 {
			if i, ok := b.Column(c); ok {
				return series[i]
			}
			return nil
		}
		r.Upper = Rasterize(pick(R), pick(G), pick(B), h, w, Horizontal)
		r.Lower = Rasterize(pick(LowerR), pick(LowerG), pick(LowerB), h, w, Vertical)
		if r.Image, err = Combine(opts.Mode, r.Upper, r.Lower); err != nil {
			return nil, err
		}
	}

	r.Image = r.Image.Scale(opts.Scale)
	return &r, nil
}

func columns(t *table.Table, names []string) ([][]float64, error) {
	if len(names) == 0 {
		names = t.Names()
	}
	out := make([][]float64, 0, len(names))
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return nil, configErrorf("column %q not in table %v", name, t.Names())
		}
		out = append(out, c.Values)
	}
	return out, nil
}
