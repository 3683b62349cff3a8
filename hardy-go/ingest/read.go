package ingest

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/hardyml/hardy/hardy-go/table"
	"github.com/hardyml/hardy/hardy-golib/errors"
)

// DefaultMaxSkipRows bounds the header-skip search for a single file.
const DefaultMaxSkipRows = 30

// SkipRows is the header-skip state threaded from one file to the next. Last is the skip
// count that worked for the previous file, or -1 if none has been parsed yet.
type SkipRows struct {
	Hint int
	Max  int
	Last int
}

// NewSkipRows starts a skip search with the caller's hint and no history.
func NewSkipRows(hint, max int) SkipRows {
	if max <= 0 {
		max = DefaultMaxSkipRows
	}
	if hint < 0 {
		hint = 0
	}
	return SkipRows{Hint: hint, Max: max, Last: -1}
}

// candidates lists the skip counts to try, in order, without repeats.
func (s SkipRows) candidates() []int {
	seen := make(map[int]bool, s.Max+3)
	var out []int
	add := func(n int) {
		if n < 0 || seen[n] {
			return
		}
		seen[n] = true
		out = append(out, n)
	}
	add(s.Last)
	add(s.Hint)
	for n := 0; n <= s.Max; n++ {
		add(n)
	}
	return out
}

// ReadTable parses raw CSV bytes into a numeric table, searching for the number of leading
// lines to skip before the header. It returns the dropped (non-numeric) column names and the
// skip state to use for the next file.
func ReadTable(data []byte, skip SkipRows) (*table.Table, []string, SkipRows, error) {
	var lastErr error
	for _, n := range skip.candidates() {
		tbl, dropped, err := parseWithSkip(data, n)
		if err != nil {
			lastErr = err
			continue
		}
		next := skip
		next.Last = n
		return tbl, dropped, next, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no skip row candidates")
	}
	return nil, nil, skip, errors.Wrapf(lastErr, "no header position in the first %d lines parsed", skip.Max)
}

func parseWithSkip(data []byte, n int) (*table.Table, []string, error) {
	rest := data
	for i := 0; i < n; i++ {
		idx := bytes.IndexByte(rest, '\n')
		if idx < 0 {
			return nil, nil, errors.Errorf("skip %d: file has only %d lines", n, i)
		}
		rest = rest[idx+1:]
	}

	r := gocsv.LazyCSVReader(bytes.NewReader(rest))
	header, err := r.Read()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "skip %d: reading header", n)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "skip %d: reading row %d", n, len(rows)+1)
		}
		if len(rec) != len(header) {
			return nil, nil, errors.Errorf("skip %d: row %d has %d fields, header has %d", n, len(rows)+1, len(rec), len(header))
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, nil, errors.Errorf("skip %d: no data rows", n)
	}

	tbl, dropped, err := table.FromRecords(header, rows)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "skip %d", n)
	}
	if tbl.Width() == 0 {
		return nil, nil, errors.Errorf("skip %d: no numeric columns", n)
	}
	// a data row read as the header means n skips past the real one
	if numericHeader(tbl.Names()) {
		return nil, nil, errors.Errorf("skip %d: header %v is numeric", n, tbl.Names())
	}
	return tbl, dropped, nil
}

func numericHeader(names []string) bool {
	for _, name := range names {
		if _, err := strconv.ParseFloat(strings.TrimSpace(name), 64); err != nil {
			return false
		}
	}
	return true
}
