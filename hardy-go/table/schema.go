package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hardyml/hardy/hardy-golib/errors"
)

// ColumnSchema is the keep/drop decision made for one column of raw text records.
type ColumnSchema struct {
	Name string
	Kind Kind
	Keep bool
}

// InferSchema decides, once per column, whether the column is numeric and of which kind.
// A column is Int when every cell is a base-10 integer, Float when every cell parses as a
// float (blank cells count as NaN), and dropped otherwise.
func InferSchema(header []string, rows [][]string) []ColumnSchema {
	names := dedupeHeader(header)
	schema := make([]ColumnSchema, len(names))

	for j, name := range names {
		kind, ok := inferKind(rows, j)
		schema[j] = ColumnSchema{Name: name, Kind: kind, Keep: ok}
	}
	return schema
}

func inferKind(rows [][]string, j int) (Kind, bool) {
	kind := Int
	for _, row := range rows {
		if j >= len(row) {
			return Float, false
		}
		cell := strings.TrimSpace(row[j])
		if kind == Int {
			if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
				continue
			}
			kind = Float
		}
		if _, ok := parseFloat(cell); !ok {
			return Float, false
		}
	}
	return kind, true
}

func parseFloat(cell string) (float64, bool) {
	if cell == "" {
		return math.NaN(), true
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			// overflow to ±Inf is still a number
			return v, true
		}
		return 0, false
	}
	return v, true
}

// dedupeHeader gives blank names a positional placeholder and suffixes repeats with .1, .2 ...
func dedupeHeader(header []string) []string {
	seen := make(map[string]int, len(header))
	names := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if _, dup := seen[name]; dup {
			base := name
			for k := seen[base] + 1; ; k++ {
				candidate := fmt.Sprintf("%s.%d", base, k)
				if _, taken := seen[candidate]; !taken {
					seen[base] = k
					name = candidate
					break
				}
			}
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}

// FromRecords infers the schema of the records and builds a table of the kept columns.
// It returns the names of dropped columns alongside the table.
func FromRecords(header []string, rows [][]string) (*Table, []string, error) {
	schema := InferSchema(header, rows)

	var cols []Column
	var dropped []string
	for j, s := range schema {
		if !s.Keep {
			dropped = append(dropped, s.Name)
			continue
		}
		values := make([]float64, len(rows))
		for i, row := range rows {
			v, ok := parseFloat(strings.TrimSpace(row[j]))
			if !ok {
				return nil, nil, errors.Errorf("column %q row %d: inconsistent schema", s.Name, i)
			}
			values[i] = v
		}
		cols = append(cols, Column{Name: s.Name, Kind: s.Kind, Values: values})
	}

	t, err := New(cols...)
	if err != nil {
		return nil, nil, err
	}
	return t, dropped, nil
}
