package catalogue

import (
	"time"

	"github.com/hardyml/hardy/hardy-go/encode"
	"github.com/hardyml/hardy/hardy-go/ingest"
	"github.com/hardyml/hardy/hardy-go/table"
	"github.com/hardyml/hardy/hardy-go/transform"
	"github.com/hardyml/hardy/hardy-golib/errors"
	"github.com/hardyml/hardy/hardy-golib/logging"
	"github.com/hardyml/hardy/hardy-golib/workerpool"
)

// Record is one encoded sample.
type Record struct {
	Serial string
	Image  *encode.Image
	Label  string
}

// Features returns the table the encoder sees for t: t itself for an empty spec, otherwise
// only the columns produced by the spec, in step order.
func Features(t *table.Table, spec transform.Spec) (*table.Table, error) {
	if spec.Empty() {
		return t, nil
	}
	names, err := spec.OutputNames(t)
	if err != nil {
		return nil, err
	}
	out, err := transform.Apply(t, spec)
	if err != nil {
		return nil, err
	}
	return out.Select(names...)
}

// Options configures Build.
type Options struct {
	Encode  encode.Options
	Workers int
	Logger  *logging.Logger
}

// Build transforms and encodes every sample. Records are returned in sample order. The first
// error aborts the build.
func Build(samples []ingest.Sample, spec transform.Spec, opts Options) ([]Record, error) {
	log := logging.OrNop(opts.Logger)
	start := time.Now()

	if err := opts.Encode.Validate(); err != nil {
		return nil, err
	}

	records := make([]Record, len(samples))
	build := func(i int) error {
		s := samples[i]
		features, err := Features(s.Table, spec)
		if err != nil {
			return errors.Wrapf(err, "transforming %s", s.Serial)
		}
		img, err := encode.Encode(features, opts.Encode)
		if err != nil {
			return errors.Wrapf(err, "encoding %s", s.Serial)
		}
		records[i] = Record{Serial: s.Serial, Image: img, Label: s.Label}
		return nil
	}

	if opts.Workers <= 1 {
		for i := range samples {
			if err := build(i); err != nil {
				return nil, err
			}
		}
	} else {
		jobs := make([]workerpool.Job, 0, len(samples))
		for i := range samples {
			i := i
			jobs = append(jobs, func() error { return build(i) })
		}
		pool := workerpool.New(opts.Workers)
		pool.Add(jobs)
		err := pool.Wait()
		pool.Close()
		if err != nil {
			return nil, err
		}
	}

	log.Timed("encoded "+spec.Name, start)
	log.Infof("built %d images for %s", len(records), spec.Name)
	return records, nil
}

// Labels returns the distinct labels in first-seen order.
func Labels(records []Record) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, r := range records {
		if !seen[r.Label] {
			seen[r.Label] = true
			labels = append(labels, r.Label)
		}
	}
	return labels
}

// Serials returns the serial of every record, in order.
func Serials(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Serial
	}
	return out
}
