package config

import (
	"path/filepath"

	"github.com/hardyml/hardy/hardy-go/encode"
	"github.com/hardyml/hardy/hardy-go/ingest"
	"github.com/hardyml/hardy/hardy-golib/errors"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v2"
)

// Iterator modes.
const (
	// Arrays keeps the encoded corpus in memory.
	Arrays = "arrays"
	// Directory materializes the corpus as a folder tree of PNG files.
	Directory = "directory"
)

// DefaultSplit is the validation fraction used when a run does not set split.
const DefaultSplit = 0.1

// Run configures a full encoding run.
type Run struct {
	DataPath        string `yaml:"data_path"`
	TransformConfig string `yaml:"tform_config_path"`
	// OutputPath is where project folders are created; DataPath if empty.
	OutputPath  string `yaml:"output_path"`
	ProjectName string `yaml:"project_name"`

	IteratorMode  string   `yaml:"iterator_mode"`
	PlotFormat    string   `yaml:"plot_format"`
	CombineMethod string   `yaml:"combine_method"`
	TargetSize    []int    `yaml:"target_size"`
	Scale         float64  `yaml:"scale"`
	Classes       []string `yaml:"classes"`
	ExpectClasses int      `yaml:"expect_classes"`
	SkipRows      int      `yaml:"skiprows"`
	Strict        bool     `yaml:"strict"`

	TestFilesPerClass float64 `yaml:"num_test_files_class"`
	KFold             bool    `yaml:"k_fold"`
	K                 int     `yaml:"k"`
	Seed              int64   `yaml:"seed"`

	// Split is the validation fraction of the learning set; nil means DefaultSplit.
	Split *float64 `yaml:"split"`

	Workers int `yaml:"workers"`
}

// Defaults fills unset fields.
func (r *Run) Defaults() {
	if r.ProjectName == "" {
		r.ProjectName = "hardy"
	}
	if r.OutputPath == "" {
		r.OutputPath = r.DataPath
	}
	if r.IteratorMode == "" {
		r.IteratorMode = Arrays
	}
	if r.PlotFormat == "" {
		r.PlotFormat = "RGBrgb"
	}
	if r.CombineMethod == "" {
		r.CombineMethod = string(encode.DefaultMode)
	}
	if len(r.TargetSize) == 0 {
		r.TargetSize = []int{encode.DefaultHeight, encode.DefaultWidth}
	}
	if r.Scale == 0 {
		r.Scale = 1
	}
	if r.TestFilesPerClass == 0 {
		r.TestFilesPerClass = 1
	}
	if r.Split == nil {
		split := DefaultSplit
		r.Split = &split
	}
	if r.KFold && r.K == 0 {
		r.K = 4
	}
}

// Validate checks a run after defaults are applied.
func (r *Run) Validate() error {
	if r.DataPath == "" {
		return errors.New("data_path is required")
	}
	switch r.IteratorMode {
	case Arrays, Directory:
	default:
		return errors.Errorf("iterator_mode must be %s or %s, got %q", Arrays, Directory, r.IteratorMode)
	}
	if len(r.TargetSize) != 2 || r.TargetSize[0] <= 0 || r.TargetSize[1] <= 0 {
		return errors.Errorf("target_size must be two positive integers, got %v", r.TargetSize)
	}
	if split := r.ValidationSplit(); split < 0 || split >= 1 {
		return errors.Errorf("split must be in [0, 1), got %v", split)
	}
	if r.KFold && r.K < 2 {
		return errors.Errorf("k must be at least 2 for k-fold, got %d", r.K)
	}
	return r.EncodeOptions().Validate()
}

// ValidationSplit is the configured validation fraction, or DefaultSplit if unset.
func (r *Run) ValidationSplit() float64 {
	if r.Split == nil {
		return DefaultSplit
	}
	return *r.Split
}

// EncodeOptions returns the encoder settings of the run.
func (r *Run) EncodeOptions() encode.Options {
	opts := encode.Options{
		Format: r.PlotFormat,
		Mode:   encode.Mode(r.CombineMethod),
	}
	if len(r.TargetSize) == 2 {
		opts.Height, opts.Width = r.TargetSize[0], r.TargetSize[1]
	}
	if r.Scale < 1 {
		opts.Scale = r.Scale
	}
	return opts
}

// IngestOptions returns the ingestion settings of the run.
func (r *Run) IngestOptions() ingest.Options {
	return ingest.Options{
		Classes:       r.Classes,
		ExpectClasses: r.ExpectClasses,
		SkipRows:      r.SkipRows,
		Strict:        r.Strict,
		Workers:       r.Workers,
	}
}

// RunDir is the output folder of one transform run.
func (r *Run) RunDir(runName string) string {
	return filepath.Join(r.OutputPath, r.ProjectName, runName)
}

// LoadRun reads, defaults and validates a run configuration.
func LoadRun(fs afero.Fs, path string) (*Run, error) {
	buf, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading run config %s", path)
	}

	var r Run
	if err := yaml.UnmarshalStrict(buf, &r); err != nil {
		return nil, errors.Wrapf(err, "parsing run config %s", path)
	}
	r.Defaults()
	if err := r.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid run config %s", path)
	}
	return &r, nil
}
