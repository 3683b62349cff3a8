package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "12.5 mS", FormatDuration(12500*time.Microsecond))
	assert.Equal(t, "1.5 Sec", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2 Min", FormatDuration(2*time.Minute))
	assert.Equal(t, "1.25 Hrs", FormatDuration(75*time.Minute))
}

func TestDurationsFlush(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)

	l.Durations.Record("ingest", 2*time.Second)
	l.Durations.Record("encode", 500*time.Millisecond)
	require.Equal(t, 2500*time.Millisecond, l.Durations.Total())

	l.Durations.Flush(l)
	require.NoError(t, l.Sync())

	out := buf.String()
	assert.Contains(t, out, "ingest")
	assert.Contains(t, out, "2 Sec")
	assert.Contains(t, out, "500 mS")
	assert.Empty(t, l.Durations)
}

func TestTimed(t *testing.T) {
	l := Nop()
	d := l.Timed("step", time.Now().Add(-time.Second))
	assert.True(t, d >= time.Second)
	require.Len(t, l.Durations, 1)
}
