package grade

import (
	"io"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/hardyml/hardy/hardy-golib/errors"
	"github.com/montanaflynn/stats"
	"github.com/spf13/afero"
	chart "github.com/wcharczuk/go-chart"
)

// ReportRow is one line of the grade report CSV.
type ReportRow struct {
	Run       string  `csv:"run"`
	Column    string  `csv:"column"`
	Transform string  `csv:"transform"`
	Score     float64 `csv:"score"`
	Files     int     `csv:"files"`
}

// AppendReport appends the averages of a run to the CSV report at path, writing the header
// only when the file is new or empty.
func AppendReport(fs afero.Fs, path, run string, avgs []Average) (err error) {
	rows := make([]ReportRow, 0, len(avgs))
	for _, a := range avgs {
		rows = append(rows, ReportRow{Run: run, Column: a.Column, Transform: a.Transform, Score: a.Score, Files: a.Files})
	}

	var header bool
	fi, err := fs.Stat(path)
	switch {
	case os.IsNotExist(err):
		header = true
	case err != nil:
		return errors.Wrapf(err, "checking report %s", path)
	default:
		header = fi.Size() == 0
	}

	f, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, "opening report %s", path)
	}
	defer errors.Defer(&err, f.Close)

	if header {
		return errors.WrapfOrNil(gocsv.Marshal(&rows, f), "writing report %s", path)
	}
	return errors.WrapfOrNil(gocsv.MarshalWithoutHeaders(&rows, f), "appending to report %s", path)
}

// LoadReport reads every row of a grade report.
func LoadReport(fs afero.Fs, path string) ([]ReportRow, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening report %s", path)
	}
	defer f.Close()

	var rows []ReportRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, errors.Wrapf(err, "reading report %s", path)
	}
	return rows, nil
}

// Ranking is the combined standing of one transform over every run in a report.
type Ranking struct {
	Transform string
	Score     float64
	Runs      int
	Best      float64
}

// Rank combines report rows into one entry per transform, ordered by mean score and then
// name.
func Rank(rows []ReportRow) []Ranking {
	scores := make(map[string]stats.Float64Data)
	runs := make(map[string]map[string]bool)
	for _, r := range rows {
		scores[r.Transform] = append(scores[r.Transform], r.Score)
		if runs[r.Transform] == nil {
			runs[r.Transform] = make(map[string]bool)
		}
		runs[r.Transform][r.Run] = true
	}

	out := make([]Ranking, 0, len(scores))
	for tf, s := range scores {
		mean, _ := s.Mean()
		best, _ := s.Max()
		out = append(out, Ranking{Transform: tf, Score: mean, Runs: len(runs[tf]), Best: best})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Transform < out[j].Transform
	})
	return out
}

// WriteChart renders averages as a PNG bar chart.
func WriteChart(w io.Writer, title string, avgs []Average) error {
	if len(avgs) == 0 {
		return errors.New("no grades to chart")
	}

	bars := make([]chart.Value, 0, len(avgs))
	for _, a := range avgs {
		bars = append(bars, chart.Value{Label: a.Column, Value: a.Score})
	}

	width := 120 * len(bars)
	if width < 512 {
		width = 512
	}
	graph := chart.BarChart{
		Title:      title,
		TitleStyle: chart.StyleShow(),
		Width:      width,
		Height:     512,
		BarWidth:   60,
		XAxis:      chart.StyleShow(),
		YAxis: chart.YAxis{
			Name:      "score",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
			Range:     &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Bars: bars,
	}
	return graph.Render(chart.PNG, w)
}
