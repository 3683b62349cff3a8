package ingest

import (
	"fmt"
	"path/filepath"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/hardyml/hardy/hardy-go/table"
	"github.com/hardyml/hardy/hardy-golib/errors"
	"github.com/hardyml/hardy/hardy-golib/logging"
	"github.com/hardyml/hardy/hardy-golib/workerpool"
	"github.com/sbwhitecap/tqdm"
	"github.com/sbwhitecap/tqdm/iterators"
	"github.com/spf13/afero"
)

// Sample is one measurement file: its serial, numeric table and class label.
type Sample struct {
	Serial string
	Table  *table.Table
	Label  string
}

// Options configures Load.
type Options struct {
	// Classes lists the class names in match priority order. If empty, classes are
	// discovered from the filenames.
	Classes []string
	// ExpectClasses is the number of classes to discover when Classes is empty.
	ExpectClasses int
	// SkipRows is the first guess for the number of lines before the header.
	SkipRows int
	// MaxSkipRows bounds the header search; DefaultMaxSkipRows if zero.
	MaxSkipRows int
	// Strict aborts on the first unreadable file instead of skipping it.
	Strict bool
	// Workers > 1 reads files concurrently.
	Workers int
	// Progress shows a progress bar on stderr (sequential reads only).
	Progress bool
	Logger   *logging.Logger
}

// Result holds the samples read from a directory.
type Result struct {
	Samples []Sample
	Classes []string
	// Warnings lists the files that were skipped, as *IngestionError.
	Warnings errors.Errors
}

// IngestionError reports a file that could not be parsed.
type IngestionError struct {
	Path string
	Err  error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingesting %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *IngestionError) Unwrap() error {
	return e.Err
}

type outcome struct {
	sample *Sample
	err    error
	bytes  int
}

// Load reads every CSV file in dir into a labeled Sample. Non-CSV entries and directories are
// ignored. Files that cannot be parsed are skipped and reported in Result.Warnings, unless
// opts.Strict is set, in which case the first failure is returned.
func Load(fs afero.Fs, dir string, opts Options) (*Result, error) {
	log := logging.OrNop(opts.Logger)
	start := time.Now()

	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}

	var names []string
	for _, fi := range infos {
		if fi.IsDir() || !isCSV(fi.Name()) {
			continue
		}
		names = append(names, fi.Name())
	}

	classes := opts.Classes
	if len(classes) == 0 {
		classes = ClassesFromFilenames(names, opts.ExpectClasses)
		log.Infof("discovered classes %v from %d filenames", classes, len(names))
	}
	if len(classes) == 0 {
		return nil, errors.Errorf("no classes given and none found in %s", dir)
	}

	outcomes := make([]outcome, len(names))
	skip := NewSkipRows(opts.SkipRows, opts.MaxSkipRows)

	if opts.Workers > 1 && len(names) > 1 {
		loadParallel(fs, dir, names, classes, skip, opts.Workers, outcomes)
	} else {
		loadSequential(fs, dir, names, classes, skip, opts, log, outcomes)
	}

	res := &Result{Classes: classes}
	var read int
	for i, o := range outcomes {
		read += o.bytes
		if o.err != nil {
			ierr := &IngestionError{Path: filepath.Join(dir, names[i]), Err: o.err}
			if opts.Strict {
				return nil, ierr
			}
			log.Warnf("skipping file: %v", ierr)
			res.Warnings = errors.Append(res.Warnings, ierr)
			continue
		}
		if o.sample != nil {
			res.Samples = append(res.Samples, *o.sample)
		}
	}

	elapsed := time.Since(start)
	rate := float64(len(names))
	if secs := elapsed.Seconds(); secs > 0 {
		rate /= secs
	}
	log.Infof("loaded %s of %s files (%s) in %s at %d files per second",
		humanize.Comma(int64(len(res.Samples))), humanize.Comma(int64(len(names))),
		humanize.Bytes(uint64(read)), logging.FormatDuration(elapsed), int64(rate))

	return res, nil
}

func loadSequential(fs afero.Fs, dir string, names, classes []string, skip SkipRows, opts Options, log *logging.Logger, out []outcome) {
	step := func(i int) bool {
		out[i], skip = loadOne(fs, dir, names[i], classes, skip)
		return opts.Strict && out[i].err != nil
	}

	if opts.Progress && len(names) > 0 {
		err := tqdm.With(iterators.Interval(0, len(names)), "Loading files", func(v interface{}) (brk bool) {
			return step(v.(int))
		})
		if err != nil {
			log.Warnf("progress bar: %v", err)
		}
		return
	}

	for i := range names {
		if step(i) {
			return
		}
	}
}

// loadParallel splits names into contiguous chunks so that each worker threads its own skip
// state through similarly formatted neighbouring files.
func loadParallel(fs afero.Fs, dir string, names, classes []string, skip SkipRows, workers int, out []outcome) {
	size := (len(names) + workers - 1) / workers

	var jobs []workerpool.Job
	for lo := 0; lo < len(names); lo += size {
		lo, hi := lo, lo+size
		if hi > len(names) {
			hi = len(names)
		}
		jobs = append(jobs, func() error {
			state := skip
			for i := lo; i < hi; i++ {
				out[i], state = loadOne(fs, dir, names[i], classes, state)
			}
			return nil
		})
	}

	pool := workerpool.New(workers)
	defer pool.Close()
	pool.Add(jobs)
	pool.Wait()
}

func loadOne(fs afero.Fs, dir, name string, classes []string, skip SkipRows) (outcome, SkipRows) {
	data, err := afero.ReadFile(fs, filepath.Join(dir, name))
	if err != nil {
		return outcome{err: err}, skip
	}

	tbl, _, next, err := ReadTable(data, skip)
	if err != nil {
		return outcome{err: err, bytes: len(data)}, skip
	}

	return outcome{
		sample: &Sample{
			Serial: Serial(name),
			Table:  tbl,
			Label:  Label(name, classes),
		},
		bytes: len(data),
	}, next
}
