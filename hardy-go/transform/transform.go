package transform

import (
	"math"
	"strings"

	"github.com/hardyml/hardy/hardy-go/table"
	"github.com/hardyml/hardy/hardy-golib/errors"
	"gonum.org/v1/gonum/floats"
)

// Separator joins the source column name and the transform name in output column names.
const Separator = "__"

// Step applies one named transform to the column at index Column of the input table.
// By convention column 0 is X and column 1 is Y.
type Step struct {
	Column    int
	Transform string
	Params    Params
}

// Spec is a named, ordered list of steps. The zero Spec is a no-op.
type Spec struct {
	Name  string
	Steps []Step
}

// Empty reports whether the spec has no steps.
func (s Spec) Empty() bool {
	return len(s.Steps) == 0
}

// ColumnName returns the output column name for a source column and transform.
func ColumnName(original, transform string) string {
	return original + Separator + transform
}

// SplitColumnName splits an output column name into its source column and transform. ok is
// false for names that were not produced by a transform.
func SplitColumnName(name string) (original, transform string, ok bool) {
	i := strings.LastIndex(name, Separator)
	if i < 0 {
		return name, "", false
	}
	return name[:i], name[i+len(Separator):], true
}

// Validate checks the steps against a table of the given width.
func (s Spec) Validate(width int) error {
	for i, step := range s.Steps {
		if _, ok := Lookup(step.Transform); !ok {
			return errors.Errorf("%s step %d: unknown transform %q", s.Name, i, step.Transform)
		}
		if step.Column < 0 || step.Column >= width {
			return errors.Errorf("%s step %d: column %d out of range for a table with %d columns", s.Name, i, step.Column, width)
		}
	}
	return nil
}

// OutputNames returns the names of the columns the spec adds to t, in step order.
func (s Spec) OutputNames(t *table.Table) ([]string, error) {
	if err := s.Validate(t.Width()); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, t.Width()+len(s.Steps))
	for _, name := range t.Names() {
		seen[name] = true
	}
	names := make([]string, 0, len(s.Steps))
	for _, step := range s.Steps {
		name := ColumnName(t.At(step.Column).Name, step.Transform)
		if seen[name] {
			return nil, errors.Errorf("%s: duplicate output column %s", s.Name, name)
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

// Apply returns a new table holding the columns of t followed by one column per step.
// t is not modified. Non-finite results become NaN; rows are never dropped.
func Apply(t *table.Table, s Spec) (*table.Table, error) {
	if s.Empty() {
		return t, nil
	}
	names, err := s.OutputNames(t)
	if err != nil {
		return nil, err
	}

	cols := make([]table.Column, 0, len(s.Steps))
	for i, step := range s.Steps {
		src := t.At(step.Column)
		f, _ := Lookup(step.Transform)

		values := f(src.Values, step.Params)
		if len(values) != len(src.Values) {
			return nil, errors.Errorf("transform %s returned %d values for %d inputs", step.Transform, len(values), len(src.Values))
		}
		sanitize(values)

		cols = append(cols, table.Column{
			Name:   names[i],
			Kind:   table.Float,
			Values: values,
		})
	}

	out, err := t.Append(cols...)
	if err != nil {
		return nil, errors.Wrapf(err, "applying %s", s.Name)
	}
	return out, nil
}

func sanitize(values []float64) {
	for i, v := range values {
		if math.IsInf(v, 0) {
			values[i] = math.NaN()
		}
	}
}

// Linear builds the canonical linear reference table: x = y = evenly spaced values in [0, 1].
func Linear(n int) *table.Table {
	x := make([]float64, n)
	if n == 1 {
		x[0] = 0
	} else if n > 1 {
		floats.Span(x, 0, 1)
	}
	y := append([]float64(nil), x...)
	return table.MustNew(
		table.Column{Name: "x", Kind: table.Float, Values: x},
		table.Column{Name: "y", Kind: table.Float, Values: y},
	)
}

// Description identifies one transformed column of a table.
type Description struct {
	Index     int
	Original  string
	Transform string
}

// Describe lists the transformed columns of t in column order.
func Describe(t *table.Table) []Description {
	var out []Description
	for i, name := range t.Names() {
		original, tform, ok := SplitColumnName(name)
		if !ok {
			continue
		}
		out = append(out, Description{Index: i, Original: original, Transform: tform})
	}
	return out
}
