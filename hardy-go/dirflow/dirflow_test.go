package dirflow

import (
	"path/filepath"
	"testing"

	"github.com/hardyml/hardy/hardy-go/catalogue"
	"github.com/hardyml/hardy/hardy-go/encode"
	"github.com/hardyml/hardy/hardy-golib/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records() []catalogue.Record {
	img := func(v float64) *encode.Image {
		return encode.Rasterize([]float64{0, v}, nil, []float64{v, 0}, 4, 5, encode.Horizontal)
	}
	return []catalogue.Record{
		{Serial: "s1_noisy", Image: img(1), Label: "noisy"},
		{Serial: "s2_quiet", Image: img(2), Label: "not_noisy"},
		{Serial: "s3_noisy", Image: img(3), Label: "noisy"},
	}
}

func TestMaterializeAndScan(t *testing.T) {
	fs := afero.NewMemMapFs()
	in := records()

	path, err := Materialize(fs, in, "/data", "images", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "images"), path)

	for _, name := range []string{"noisy/s1_noisy.png", "noisy/s3_noisy.png", "not_noisy/s2_quiet.png"} {
		ok, err := afero.Exists(fs, filepath.Join(path, name))
		require.NoError(t, err)
		assert.True(t, ok, name)
	}

	out, err := Scan(fs, path)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"s1_noisy", "s3_noisy", "s2_quiet"}, catalogue.Serials(out))
	assert.Equal(t, in[0].Image, out[0].Image)
	assert.Equal(t, in[1].Image, out[2].Image)
}

func TestMaterializeDefaultFolder(t *testing.T) {
	fs := afero.NewMemMapFs()
	path, err := Materialize(fs, records(), "/data", "", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", DefaultFolder), path)
}

func TestMaterializeReusesEmptyFolder(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/data/images", 0755))
	_, err := Materialize(fs, records(), "/data", "images", false)
	assert.NoError(t, err)
}

func TestMaterializeRefusesWithoutDelete(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := Materialize(fs, records(), "/data", "images", false)
	require.NoError(t, err)

	_, err = Materialize(fs, records(), "/data", "images", false)
	var uerr *UnsafeOverwriteError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, filepath.Join("/data", "images"), uerr.Path)
}

func TestMaterializeReplacesSafeTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := Materialize(fs, records(), "/data", "images", false)
	require.NoError(t, err)

	_, err = Materialize(fs, records()[:1], "/data", "images", true)
	require.NoError(t, err)

	out, err := Scan(fs, "/data/images")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1_noisy"}, catalogue.Serials(out))

	ok, err := afero.DirExists(fs, "/data/images/not_noisy")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMaterializeRefusesUnsafeTree(t *testing.T) {
	for name, stray := range map[string]string{
		"stray file":       "/data/images/notes.txt",
		"non png in class": "/data/images/noisy/model.h5",
	} {
		fs := afero.NewMemMapFs()
		_, err := Materialize(fs, records(), "/data", "images", false)
		require.NoError(t, err, name)
		require.NoError(t, afero.WriteFile(fs, stray, []byte("keep me"), 0644), name)

		_, err = Materialize(fs, records(), "/data", "images", true)
		var uerr *UnsafeOverwriteError
		require.True(t, errors.As(err, &uerr), name)

		// nothing was deleted
		ok, err := afero.Exists(fs, stray)
		require.NoError(t, err)
		assert.True(t, ok, name)
		ok, err = afero.Exists(fs, "/data/images/noisy/s1_noisy.png")
		require.NoError(t, err)
		assert.True(t, ok, name)
	}
}

func TestMaterializeRefusesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/images", []byte("x"), 0644))
	_, err := Materialize(fs, records(), "/data", "images", true)
	var uerr *UnsafeOverwriteError
	assert.True(t, errors.As(err, &uerr))
}
