package grade

import (
	"math"
	"sort"

	"github.com/hardyml/hardy/hardy-go/ingest"
	"github.com/hardyml/hardy/hardy-go/table"
	"github.com/hardyml/hardy/hardy-go/transform"
	"github.com/hardyml/hardy/hardy-golib/errors"
	"github.com/montanaflynn/stats"
)

// Baseline parameters: a flat line at BaselineLevel rising by BaselineSlope per row. Columns
// that sit on it carry no information.
const (
	BaselineLevel = 0.1
	BaselineSlope = 1e-6
)

// Score grades one transformed column.
type Score struct {
	Column    string
	Transform string
	// Self is the mean absolute correlation with every other column of the table.
	Self float64
	// Linear is the absolute correlation with the same transform applied to linear data.
	Linear float64
	// Boring is the RMS distance to the baseline.
	Boring float64
	Value  float64
}

// Grade scores every column produced by spec on t. Value is in [0, 1]; higher means the
// column is less redundant and behaves more like its transform of linear data. Constant
// columns and columns on the baseline score 0.
func Grade(t *table.Table, spec transform.Spec) ([]Score, error) {
	features, err := transform.Apply(t, spec)
	if err != nil {
		return nil, err
	}
	names, err := spec.OutputNames(t)
	if err != nil {
		return nil, err
	}

	lin := transform.Linear(t.Len())
	baseline := make([]float64, t.Len())
	for i := range baseline {
		baseline[i] = BaselineLevel + BaselineSlope*float64(i)
	}

	scores := make([]Score, 0, len(names))
	for k, name := range names {
		col, _ := features.Column(name)
		s := Score{Column: name, Transform: spec.Steps[k].Transform}

		var self []float64
		for _, other := range features.Columns() {
			if other.Name == name {
				continue
			}
			self = append(self, math.Abs(correlation(col.Values, other.Values)))
		}
		if len(self) > 0 {
			s.Self, _ = stats.Mean(self)
		}

		if ref, ok := reference(lin, spec.Steps[k]); ok {
			s.Linear = math.Abs(correlation(col.Values, ref))
		}

		s.Boring = rms(col.Values, baseline)
		if !flat(col.Values) && s.Boring > 1e-9 {
			s.Value = 0.5*(1-s.Self) + 0.5*s.Linear
		}
		scores = append(scores, s)
	}
	return scores, nil
}

// reference applies step to the linear table. Steps addressing columns beyond x and y have
// no reference.
func reference(lin *table.Table, step transform.Step) ([]float64, bool) {
	if step.Column >= lin.Width() {
		return nil, false
	}
	f, ok := transform.Lookup(step.Transform)
	if !ok {
		return nil, false
	}
	return f(lin.At(step.Column).Values, step.Params), true
}

// pairs keeps the positions where both series are finite.
func pairs(a, b []float64) (stats.Float64Data, stats.Float64Data) {
	var x, y stats.Float64Data
	for i := 0; i < len(a) && i < len(b); i++ {
		if finite(a[i]) && finite(b[i]) {
			x = append(x, a[i])
			y = append(y, b[i])
		}
	}
	return x, y
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// correlation is the Pearson correlation over finite pairs, 0 when undefined.
func correlation(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	x, y := pairs(a, b)
	if len(x) < 2 || flat(x) || flat(y) {
		return 0
	}
	r, err := stats.Correlation(x, y)
	if err != nil || !finite(r) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

func flat(values []float64) bool {
	var data stats.Float64Data
	for _, v := range values {
		if finite(v) {
			data = append(data, v)
		}
	}
	if len(data) < 2 {
		return true
	}
	sd, err := stats.StandardDeviation(data)
	return err != nil || sd == 0
}

func rms(a, b []float64) float64 {
	x, y := pairs(a, b)
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for i := range x {
		d := x[i] - y[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(x)))
}

// Average is the mean score of one column across files.
type Average struct {
	Column    string
	Transform string
	Score     float64
	Files     int
}

// Files grades every sample and averages the scores per column. The result is sorted by
// score, best first; ties keep first-seen order.
func Files(samples []ingest.Sample, spec transform.Spec) ([]Average, error) {
	var order []string
	acc := make(map[string]*Average)
	sums := make(map[string]stats.Float64Data)

	for _, s := range samples {
		scores, err := Grade(s.Table, spec)
		if err != nil {
			return nil, errors.Wrapf(err, "grading %s", s.Serial)
		}
		for _, sc := range scores {
			if _, ok := acc[sc.Column]; !ok {
				order = append(order, sc.Column)
				acc[sc.Column] = &Average{Column: sc.Column, Transform: sc.Transform}
			}
			sums[sc.Column] = append(sums[sc.Column], sc.Value)
		}
	}

	out := make([]Average, 0, len(order))
	for _, name := range order {
		a := acc[name]
		a.Files = len(sums[name])
		a.Score, _ = stats.Mean(sums[name])
		out = append(out, *a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}
