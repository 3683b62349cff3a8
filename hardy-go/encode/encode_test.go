package encode

import (
	"math"
	"testing"

	"github.com/hardyml/hardy/hardy-go/table"
	"github.com/hardyml/hardy/hardy-golib/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourColumns() *table.Table {
	return table.MustNew(
		table.Column{Name: "x", Kind: table.Float, Values: []float64{0, 1, 2, 3}},
		table.Column{Name: "y", Kind: table.Float, Values: []float64{3, 2, 1, 0}},
		table.Column{Name: "x__exp", Kind: table.Float, Values: []float64{1, 2, 4, 8}},
		table.Column{Name: "y__abs", Kind: table.Float, Values: []float64{5, 5, 5, 5}},
	)
}

func TestParseFormatFirstWins(t *testing.T) {
	b, err := ParseFormat("RRbb")
	require.NoError(t, err)

	i, ok := b.Column(R)
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = b.Column(LowerB)
	assert.True(t, ok)
	assert.Equal(t, 2, i)

	_, ok = b.Column(G)
	assert.False(t, ok)
	assert.Equal(t, 2, b.Len())
}

func TestParseFormatSkipsAndRejects(t *testing.T) {
	b, err := ParseFormat("XxGr")
	require.NoError(t, err)
	assert.Equal(t, Binding{Unbound, 2, Unbound, 3, Unbound, Unbound}, b)

	_, err = ParseFormat("RQ")
	var cerr *ConfigurationError
	assert.True(t, errors.As(err, &cerr))
}

func TestCombineAdd(t *testing.T) {
	u, l := NewImage(1, 2), NewImage(1, 2)
	copy(u.Pix, []uint8{10, 200, 0, 255, 1, 128})
	copy(l.Pix, []uint8{5, 100, 0, 1, 2, 128})

	ul, err := Combine(Add, u, l)
	require.NoError(t, err)
	lu, err := Combine(Add, l, u)
	require.NoError(t, err)

	assert.Equal(t, []uint8{15, 255, 0, 255, 3, 255}, ul.Pix)
	assert.Equal(t, ul.Pix, lu.Pix)
}

func TestCombineMultiply(t *testing.T) {
	u, l := NewImage(1, 1), NewImage(1, 1)
	copy(u.Pix, []uint8{255, 128, 0})
	copy(l.Pix, []uint8{100, 128, 255})

	out, err := Combine(Multiply, u, l)
	require.NoError(t, err)
	assert.Equal(t, []uint8{100, 64, 0}, out.Pix)

	_, err = Combine(Multiply, u, NewImage(2, 1))
	assert.Error(t, err)
}

func TestRasterizeOrientation(t *testing.T) {
	series := []float64{0, 10}

	h := Rasterize(series, nil, nil, 2, 3, Horizontal)
	for y := 0; y < 2; y++ {
		assert.Equal(t, uint8(0), h.At(y, 0, 0))
		assert.Equal(t, uint8(128), h.At(y, 1, 0))
		assert.Equal(t, uint8(255), h.At(y, 2, 0))
	}
	assert.True(t, h.ChannelZero(1))
	assert.True(t, h.ChannelZero(2))

	v := Rasterize(nil, nil, series, 3, 2, Vertical)
	for x := 0; x < 2; x++ {
		assert.Equal(t, uint8(0), v.At(0, x, 2))
		assert.Equal(t, uint8(128), v.At(1, x, 2))
		assert.Equal(t, uint8(255), v.At(2, x, 2))
	}
}

func TestRasterizeDegenerate(t *testing.T) {
	im := Rasterize([]float64{4, 4, 4}, []float64{math.NaN(), math.NaN()}, []float64{}, 4, 4, Horizontal)
	assert.True(t, im.ChannelZero(0))
	assert.True(t, im.ChannelZero(1))
	assert.True(t, im.ChannelZero(2))

	// NaN samples draw as zero, finite neighbours still scale
	im = Rasterize([]float64{0, math.NaN(), 2}, nil, nil, 1, 3, Horizontal)
	assert.Equal(t, []uint8{0, 0, 255}, []uint8{im.At(0, 0, 0), im.At(0, 1, 0), im.At(0, 2, 0)})
}

func TestEncodeShape(t *testing.T) {
	for _, format := range []string{"RGBr", "Rb", "XXXX", "RGBX", FormatSingle, FormatElse} {
		im, err := Encode(fourColumns(), Options{Format: format, Height: 12, Width: 7})
		require.NoError(t, err, format)
		h, w, c := im.Shape()
		assert.Equal(t, 12, h, format)
		assert.Equal(t, 7, w, format)
		assert.Equal(t, 3, c, format)
		assert.Len(t, im.Pix, 12*7*3, format)
	}

	im, err := Encode(fourColumns(), Options{Format: "RB"})
	require.NoError(t, err)
	assert.Equal(t, DefaultHeight, im.Height)
	assert.Equal(t, DefaultWidth, im.Width)
}

func TestEncodeUsesColumnList(t *testing.T) {
	tbl := fourColumns()
	r, err := Render(tbl, Options{Format: "RB", Columns: []string{"x__exp", "y"}, Height: 4, Width: 4})
	require.NoError(t, err)

	assert.True(t, r.Image.ChannelZero(1))
	assert.True(t, r.Lower.ChannelZero(0))
	assert.True(t, r.Lower.ChannelZero(1))
	assert.True(t, r.Lower.ChannelZero(2))
	// x__exp rises left to right, y falls
	assert.Equal(t, uint8(0), r.Image.At(0, 0, 0))
	assert.Equal(t, uint8(255), r.Image.At(0, 3, 0))
	assert.Equal(t, uint8(255), r.Image.At(0, 0, 2))
	assert.Equal(t, uint8(0), r.Image.At(0, 3, 2))

	_, err = Render(tbl, Options{Format: "RB", Columns: []string{"missing"}})
	var cerr *ConfigurationError
	assert.True(t, errors.As(err, &cerr))
}

func TestEncodeLegacyFormats(t *testing.T) {
	pair := []string{"x", "y"}
	single, err := Render(fourColumns(), Options{Format: FormatSingle, Columns: pair, Height: 4, Width: 4})
	require.NoError(t, err)
	rb, err := Render(fourColumns(), Options{Format: "RB", Columns: pair, Height: 4, Width: 4})
	require.NoError(t, err)
	assert.Equal(t, rb.Image.Pix, single.Image.Pix)

	els, err := Render(fourColumns(), Options{Format: FormatElse, Columns: pair, Height: 4, Width: 4})
	require.NoError(t, err)
	rb2, err := Render(fourColumns(), Options{Format: "Rb", Columns: pair, Height: 4, Width: 4})
	require.NoError(t, err)
	assert.Equal(t, rb2.Image.Pix, els.Image.Pix)
}

func TestEncodeLegacyFormatsNeedTwoColumns(t *testing.T) {
	narrow := table.MustNew(table.Column{Name: "x", Kind: table.Float, Values: []float64{1, 2}})
	for _, format := range []string{FormatSingle, FormatElse} {
		_, err := Encode(narrow, Options{Format: format})
		var cerr *ConfigurationError
		assert.True(t, errors.As(err, &cerr), format)

		_, err = Encode(fourColumns(), Options{Format: format})
		assert.True(t, errors.As(err, &cerr), format)

		_, err = Encode(fourColumns(), Options{Format: format, Columns: []string{"x", "y", "x__exp"}})
		assert.True(t, errors.As(err, &cerr), format)
	}
}

func TestEncodeFormatTooLong(t *testing.T) {
	_, err := Encode(fourColumns(), Options{Format: "RGBrgb"})
	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr))
}

func TestEncodeModes(t *testing.T) {
	_, err := Encode(fourColumns(), Options{Format: "Rr", Mode: "xor"})
	assert.Error(t, err)

	add, err := Encode(fourColumns(), Options{Format: "Rr", Height: 4, Width: 4})
	require.NoError(t, err)
	mlt, err := Encode(fourColumns(), Options{Format: "Rr", Mode: Multiply, Height: 4, Width: 4})
	require.NoError(t, err)
	// red rises along x in the upper half and falls along y in the lower half
	assert.Equal(t, uint8(255), add.At(0, 0, 0))
	assert.Equal(t, uint8(0), mlt.At(0, 0, 0))
	assert.Equal(t, uint8(255), mlt.At(0, 3, 0))
}

func TestEncodeScale(t *testing.T) {
	im, err := Encode(fourColumns(), Options{Format: "RB", Height: 20, Width: 10, Scale: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 10, im.Height)
	assert.Equal(t, 5, im.Width)
	assert.Len(t, im.Pix, 10*5*3)

	r, err := Render(fourColumns(), Options{Format: "RB", Height: 20, Width: 10, Scale: 0.5})
	require.NoError(t, err)
	for _, half := range []*Image{r.Upper, r.Lower} {
		h, w, c := half.Shape()
		assert.Equal(t, []int{20, 10, 3}, []int{h, w, c})
	}

	_, err = Encode(fourColumns(), Options{Format: "RB", Scale: 1.5})
	assert.Error(t, err)
}

func TestImageRoundTrip(t *testing.T) {
	im := Rasterize([]float64{0, 1, 2}, []float64{2, 1, 0}, nil, 3, 3, Horizontal)
	back := FromImage(im.RGBA())
	assert.Equal(t, im, back)
}
