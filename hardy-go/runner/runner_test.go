package runner

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/hardyml/hardy/hardy-go/catalogue"
	"github.com/hardyml/hardy/hardy-go/config"
	"github.com/hardyml/hardy/hardy-go/dirflow"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tforms = `
tform_command_list: [tform_0, tform_1]
tform_command_dict:
  tform_0:
    - [0, raw]
    - [1, abs]
  tform_1:
    - [1, cumsum]
    - [1, derivative_1d]
    - [0, power]
`

func corpusFs(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	for i := 0; i < 12; i++ {
		class := "noisy"
		if i%3 == 0 {
			class = "clean"
		}
		var csv string
		csv += "Device: sim\nf,z,comment\n"
		for j := 1; j <= 8; j++ {
			csv += fmt.Sprintf("%d,%d.5,row%d\n", j, (i+1)*j%7-3, j)
		}
		require.NoError(t, afero.WriteFile(fs, fmt.Sprintf("/data/%03d_%s.csv", i, class), []byte(csv), 0644))
	}
	require.NoError(t, afero.WriteFile(fs, "/tforms.yaml", []byte(tforms), 0644))
	return fs
}

func runConfig(mode string) *config.Run {
	split := 0.25
	cfg := &config.Run{
		DataPath:        "/data",
		TransformConfig: "/tforms.yaml",
		OutputPath:      "/out",
		IteratorMode:    mode,
		PlotFormat:      "Rb",
		TargetSize:      []int{10, 12},
		Classes:         []string{"noisy"},
		Seed:            5,
		Split:           &split,
	}
	cfg.Defaults()
	return cfg
}

func TestRunArrays(t *testing.T) {
	fs := corpusFs(t)
	cfg := runConfig(config.Arrays)
	require.NoError(t, cfg.Validate())

	results, err := Run(fs, cfg, Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, res := range results {
		// one test file per class
		require.Len(t, res.Test, 2)
		assert.ElementsMatch(t, []string{"noisy", "not_noisy"}, catalogue.Labels(res.Test))
		assert.Len(t, res.Validation, 3)
		assert.Len(t, res.Train, 7)
		assert.Empty(t, res.LearningDir)

		ok, err := afero.Exists(fs, res.Report)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, filepath.Join("/out", "hardy", res.Name, "report", config.RunReportFile), res.Report)

		for _, r := range append(res.Train, res.Validation...) {
			assert.Equal(t, 10, r.Image.Height)
			assert.Equal(t, 12, r.Image.Width)
		}
	}
	assert.Equal(t, catalogue.Serials(results[0].Test), catalogue.Serials(results[1].Test))
}

func TestRunDirectory(t *testing.T) {
	fs := corpusFs(t)
	cfg := runConfig(config.Directory)

	results, err := Run(fs, cfg, Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	res := results[1]
	assert.Equal(t, filepath.Join("/out", "hardy", "tform_1", LearningFolder), res.LearningDir)

	learning, err := dirflow.Scan(fs, res.LearningDir)
	require.NoError(t, err)
	assert.Len(t, learning, 10)
	test, err := dirflow.Scan(fs, res.TestDir)
	require.NoError(t, err)
	assert.Len(t, test, 2)

	// a second run replaces the image folders
	_, err = Run(fs, cfg, Options{})
	require.NoError(t, err)
}

func TestRunKFold(t *testing.T) {
	fs := corpusFs(t)
	cfg := runConfig(config.Arrays)
	cfg.KFold = true
	cfg.Defaults()

	results, err := Run(fs, cfg, Options{})
	require.NoError(t, err)
	for _, res := range results {
		require.Len(t, res.Folds, 4)
		assert.Empty(t, res.Train)
		var n int
		for _, f := range res.Folds {
			n += len(f.Validation)
		}
		assert.Equal(t, 10, n)
	}
}

func TestRunNoData(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/data", 0755))
	cfg := runConfig(config.Arrays)
	cfg.TransformConfig = ""

	_, err := Run(fs, cfg, Options{})
	assert.Error(t, err)
}
