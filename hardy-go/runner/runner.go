package runner

import (
	"time"

	"github.com/hardyml/hardy/hardy-go/catalogue"
	"github.com/hardyml/hardy/hardy-go/config"
	"github.com/hardyml/hardy/hardy-go/dirflow"
	"github.com/hardyml/hardy/hardy-go/ingest"
	"github.com/hardyml/hardy/hardy-go/partition"
	"github.com/hardyml/hardy/hardy-go/transform"
	"github.com/hardyml/hardy/hardy-golib/errors"
	"github.com/hardyml/hardy/hardy-golib/logging"
	"github.com/spf13/afero"
)

// Folder names under a run directory in directory mode.
const (
	LearningFolder = "learning_set"
	TestFolder     = "test_set"
)

// Result is the data set produced for one transform run, ready for training.
type Result struct {
	Name   string
	Report string

	Test       []catalogue.Record
	Train      []catalogue.Record
	Validation []catalogue.Record
	// Folds replaces Train and Validation in k-fold runs.
	Folds []partition.Fold

	// LearningDir and TestDir are set in directory mode.
	LearningDir string
	TestDir     string
}

// Options configures Run.
type Options struct {
	Progress bool
	Logger   *logging.Logger
}

// Run ingests the data of cfg once, selects the held out test serials and then builds and
// partitions a corpus for every transform run of the transform config.
func Run(fs afero.Fs, cfg *config.Run, opts Options) ([]Result, error) {
	log := logging.OrNop(opts.Logger)

	specs, err := config.LoadTransforms(fs, cfg.TransformConfig)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ingestOpts := cfg.IngestOptions()
	ingestOpts.Progress = opts.Progress
	ingestOpts.Logger = log
	data, err := ingest.Load(fs, cfg.DataPath, ingestOpts)
	if err != nil {
		return nil, err
	}
	if len(data.Samples) == 0 {
		return nil, errors.Errorf("no readable csv files in %s", cfg.DataPath)
	}
	log.Timed("ingest", start)

	held, err := partition.HoldOut(partition.Entries(data.Samples), cfg.TestFilesPerClass, cfg.Seed)
	if err != nil {
		return nil, err
	}
	log.Infof("holding out %d test files: %v", len(held), held)

	var results []Result
	for _, spec := range specs {
		start := time.Now()
		res, err := runOne(fs, cfg, spec, data.Samples, held, log)
		if err != nil {
			return nil, errors.Wrapf(err, "run %s", spec.Name)
		}
		results = append(results, *res)
		log.Timed(spec.Name, start)
	}

	log.Durations.Flush(log)
	return results, nil
}

func runOne(fs afero.Fs, cfg *config.Run, spec transform.Spec, samples []ingest.Sample, held []string, log *logging.Logger) (*Result, error) {
	records, err := catalogue.Build(samples, spec, catalogue.Options{
		Encode:  cfg.EncodeOptions(),
		Workers: cfg.Workers,
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}

	features, err := catalogue.Features(samples[0].Table, spec)
	if err != nil {
		return nil, err
	}
	for _, d := range transform.Describe(features) {
		log.Debugf("%s: column %d is %s of %s", spec.Name, d.Index, d.Transform, d.Original)
	}
	dir := cfg.RunDir(spec.Name)
	report, err := config.WriteRunReport(fs, dir, spec.Name, features.Names())
	if err != nil {
		return nil, err
	}

	res := &Result{Name: spec.Name, Report: report}
	var learning []catalogue.Record
	if res.Test, learning, err = partition.Split(records, held); err != nil {
		return nil, err
	}

	if cfg.KFold {
		if res.Folds, err = partition.KFold(learning, cfg.K, cfg.Seed); err != nil {
			return nil, err
		}
	} else {
		if res.Train, res.Validation, err = partition.TrainValidation(learning, cfg.ValidationSplit(), cfg.Seed); err != nil {
			return nil, err
		}
	}
	log.Infof("%s: %d test, %d learning images", spec.Name, len(res.Test), len(learning))

	if cfg.IteratorMode == config.Directory {
		if res.LearningDir, err = dirflow.Materialize(fs, learning, dir, LearningFolder, true); err != nil {
			return nil, err
		}
		if res.TestDir, err = dirflow.Materialize(fs, res.Test, dir, TestFolder, true); err != nil {
			return nil, err
		}
	}
	return res, nil
}
