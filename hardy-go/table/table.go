package table

import (
	"fmt"

	"github.com/hardyml/hardy/hardy-golib/errors"
)

// Kind is the numeric type inferred for a column.
type Kind int

const (
	// Int columns hold only integral values.
	Int Kind = iota
	// Float columns hold floating point values, possibly NaN.
	Float
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Column is a named numeric series. Int columns are stored as float64 as well.
type Column struct {
	Name   string
	Kind   Kind
	Values []float64
}

// Len returns the number of values in the column.
func (c Column) Len() int {
	return len(c.Values)
}

// Table is an ordered set of equal-length numeric columns. A Table is never modified after
// construction; methods that derive a new table copy the column headers and share the
// underlying value slices, which are treated as read-only.
type Table struct {
	cols  []Column
	index map[string]int
	rows  int
}

// New builds a table from the given columns. Columns must have unique names and equal lengths.
func New(cols ...Column) (*Table, error) {
	t := &Table{
		cols:  make([]Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, found := t.index[c.Name]; found {
			return nil, errors.Errorf("duplicate column name %q", c.Name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, errors.Errorf("column %q has %d rows, expected %d", c.Name, c.Len(), t.rows)
		}
		t.index[c.Name] = i
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// MustNew is New but panics on error; intended for tests and static fixtures.
func MustNew(cols ...Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.cols)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.cols))
	for _, c := range t.cols {
		names = append(names, c.Name)
	}
	return names
}

// At returns the i-th column.
func (t *Table) At(i int) Column {
	return t.cols[i]
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.cols[i], true
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	i, ok := t.index[name]
	if !ok {
		return -1
	}
	return i
}

// Columns returns a copy of the column headers.
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.cols...)
}

// Append returns a new table with cols added after the existing columns.
func (t *Table) Append(cols ...Column) (*Table, error) {
	all := make([]Column, 0, len(t.cols)+len(cols))
	all = append(all, t.cols...)
	all = append(all, cols...)
	return New(all...)
}

// Select returns a new table holding only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return nil, errors.Errorf("no column named %q", name)
		}
		cols = append(cols, c)
	}
	return New(cols...)
}
