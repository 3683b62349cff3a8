package transform

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Params are the numeric parameters of a transform invocation.
type Params map[string]float64

// Get returns the named parameter or def if unset.
func (p Params) Get(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// Func maps a series to a new series of the same length. It must not modify its input.
type Func func(values []float64, p Params) []float64

var registry = map[string]Func{
	"raw":           raw,
	"exp":           elementwise(math.Exp),
	"nlog":          elementwise(math.Log),
	"log10":         elementwise(math.Log10),
	"reciprocal":    elementwise(func(v float64) float64 { return 1 / v }),
	"sqrt":          elementwise(math.Sqrt),
	"abs":           elementwise(math.Abs),
	"power":         power,
	"cumsum":        cumsum,
	"derivative_1d": derivative1D,
	"derivative_2d": derivative2D,
	"normalize":     normalize,
	"zscore":        zscore,
}

// Lookup returns the transform registered under name.
func Lookup(name string) (Func, bool) {
	f, ok := registry[name]
	return f, ok
}

// Names returns the registered transform names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func raw(values []float64, _ Params) []float64 {
	return append([]float64(nil), values...)
}

func elementwise(f func(float64) float64) Func {
	return func(values []float64, _ Params) []float64 {
		out := make([]float64, len(values))
		for i, v := range values {
			out[i] = f(v)
		}
		return out
	}
}

func power(values []float64, p Params) []float64 {
	exp := p.Get("exponent", 2)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Pow(v, exp)
	}
	return out
}

func cumsum(values []float64, _ Params) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	return floats.CumSum(out, values)
}

// derivative1D is the discrete gradient with unit spacing: central differences in the
// interior and one-sided differences at the ends.
func derivative1D(values []float64, _ Params) []float64 {
	n := len(values)
	out := make([]float64, n)
	switch n {
	case 0:
		return out
	case 1:
		out[0] = 0
		return out
	}
	out[0] = values[1] - values[0]
	out[n-1] = values[n-1] - values[n-2]
	for i := 1; i < n-1; i++ {
		out[i] = (values[i+1] - values[i-1]) / 2
	}
	return out
}

func derivative2D(values []float64, p Params) []float64 {
	return derivative1D(derivative1D(values, p), p)
}

func normalize(values []float64, _ Params) []float64 {
	out := make([]float64, len(values))
	lo, hi, ok := finiteRange(values)
	if !ok {
		return fill(out, math.NaN())
	}
	span := hi - lo
	if span == 0 {
		return out
	}
	for i, v := range values {
		out[i] = (v - lo) / span
	}
	return out
}

func zscore(values []float64, _ Params) []float64 {
	out := make([]float64, len(values))
	finite := finiteValues(values)
	if len(finite) == 0 {
		return fill(out, math.NaN())
	}
	mean := floats.Sum(finite) / float64(len(finite))

	dev := make([]float64, len(finite))
	floats.AddConst(-mean, floats.AddTo(dev, finite, dev))
	std := floats.Norm(dev, 2) / math.Sqrt(float64(len(finite)))
	if std == 0 {
		return out
	}
	for i, v := range values {
		out[i] = (v - mean) / std
	}
	return out
}

func finiteValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func finiteRange(values []float64) (float64, float64, bool) {
	finite := finiteValues(values)
	if len(finite) == 0 {
		return 0, 0, false
	}
	return floats.Min(finite), floats.Max(finite), true
}

func fill(out []float64, v float64) []float64 {
	for i := range out {
		out[i] = v
	}
	return out
}
