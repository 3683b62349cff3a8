package logging

import (
	"bytes"
	"fmt"
	"math"
	"text/tabwriter"
	"time"
)

type duration struct {
	name     string
	duration time.Duration
}

// Durations tracks named step durations for a run.
type Durations []duration

// Record records a duration
func (t *Durations) Record(name string, d time.Duration) {
	*t = append(*t, duration{name, d})
}

// Total is the sum of all recorded durations.
func (t Durations) Total() time.Duration {
	var total time.Duration
	for _, entry := range t {
		total += entry.duration
	}
	return total
}

// Flush writes the recorded durations as an aligned table to the logger and resets the tracker.
func (t *Durations) Flush(l Interface) {
	var b bytes.Buffer
	tw := tabwriter.NewWriter(&b, 4, 4, 0, ' ', 0)
	for _, entry := range *t {
		fmt.Fprintf(tw, "   %s\t%s\n", entry.name, FormatDuration(entry.duration))
	}
	tw.Flush()

	l.Infof("step durations:\n%s", b.String())
	*t = nil
}

// Timed records the time elapsed since start under name and logs it:
//
//	defer log.Timed("encode", time.Now())
func (l *Logger) Timed(name string, start time.Time) time.Duration {
	d := time.Since(start)
	l.Durations.Record(name, d)
	l.Infof("%s: That Took %s !", name, FormatDuration(d))
	return d
}

// FormatDuration renders d in the largest unit that keeps it readable:
// milliseconds below one second, then seconds, minutes and hours, rounded to 2 decimals.
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()
	switch {
	case secs < 1:
		return fmt.Sprintf("%v mS", round2(secs*1000))
	case secs < 60:
		return fmt.Sprintf("%v Sec", round2(secs))
	case secs < 3600:
		return fmt.Sprintf("%v Min", round2(secs/60))
	default:
		return fmt.Sprintf("%v Hrs", round2(secs/3600))
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
