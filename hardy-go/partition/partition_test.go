package partition

import (
	"fmt"
	"sort"
	"testing"

	"github.com/hardyml/hardy/hardy-go/catalogue"
	"github.com/hardyml/hardy/hardy-golib/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corpus(n int) []catalogue.Record {
	var out []catalogue.Record
	for i := 0; i < n; i++ {
		out = append(out, catalogue.Record{Serial: fmt.Sprintf("s%02d", i), Label: "l"})
	}
	return out
}

func serials(records []catalogue.Record) []string {
	return catalogue.Serials(records)
}

func TestSplit(t *testing.T) {
	all := corpus(6)
	test, learning, err := Split(all, []string{"s04", "s01", "missing"})
	require.NoError(t, err)

	assert.Equal(t, []string{"s01", "s04"}, serials(test))
	assert.Equal(t, []string{"s00", "s02", "s03", "s05"}, serials(learning))

	test, learning, err = Split(all, nil)
	require.NoError(t, err)
	assert.Empty(t, test)
	assert.Equal(t, serials(all), serials(learning))

	_, _, err = Split(nil, []string{"s01"})
	var cerr *ConfigurationError
	assert.True(t, errors.As(err, &cerr))

	_, _, err = Split(nil, nil)
	assert.NoError(t, err)
}

func TestTrainValidation(t *testing.T) {
	all := corpus(10)
	train, val, err := TrainValidation(all, 0.1, 7)
	require.NoError(t, err)
	assert.Len(t, val, 1)
	assert.Len(t, train, 9)

	got := append(serials(train), serials(val)...)
	sort.Strings(got)
	assert.Equal(t, serials(all), got)

	train2, val2, err := TrainValidation(all, 0.1, 7)
	require.NoError(t, err)
	assert.Equal(t, serials(train), serials(train2))
	assert.Equal(t, serials(val), serials(val2))

	train, val, err = TrainValidation(all, 0, 7)
	require.NoError(t, err)
	assert.Len(t, train, 10)
	assert.Empty(t, val)

	_, _, err = TrainValidation(all, 1, 7)
	assert.Error(t, err)
}

func TestValidationSize(t *testing.T) {
	assert.Equal(t, 2, ValidationSize(8, 0.25))
	assert.Equal(t, 1, ValidationSize(9, 0.1))
	assert.Equal(t, 0, ValidationSize(0, 0.5))
}

func TestKFold(t *testing.T) {
	all := corpus(7)
	folds, err := KFold(all, 3, 1)
	require.NoError(t, err)
	require.Len(t, folds, 3)

	seen := make(map[string]int)
	var sizes []int
	for _, f := range folds {
		sizes = append(sizes, len(f.Validation))
		assert.Len(t, f.Train, 7-len(f.Validation))
		for _, r := range f.Validation {
			seen[r.Serial]++
		}
		for _, v := range f.Validation {
			assert.NotContains(t, serials(f.Train), v.Serial)
		}
	}
	assert.Equal(t, []int{3, 2, 2}, sizes)
	assert.Len(t, seen, 7)
	for _, n := range seen {
		assert.Equal(t, 1, n)
	}

	_, err = KFold(all, 1, 1)
	assert.Error(t, err)
	_, err = KFold(all, 8, 1)
	assert.Error(t, err)
}

func TestHoldOut(t *testing.T) {
	var entries []Entry
	for i := 0; i < 6; i++ {
		entries = append(entries, Entry{Serial: fmt.Sprintf("a%d", i), Label: "noisy"})
	}
	for i := 0; i < 3; i++ {
		entries = append(entries, Entry{Serial: fmt.Sprintf("b%d", i), Label: "not_noisy"})
	}

	held, err := HoldOut(entries, 2, 3)
	require.NoError(t, err)
	require.Len(t, held, 4)
	assert.True(t, sort.StringsAreSorted(held))
	var a, b int
	for _, s := range held {
		switch s[0] {
		case 'a':
			a++
		case 'b':
			b++
		}
	}
	assert.Equal(t, 2, a)
	assert.Equal(t, 2, b)

	again, err := HoldOut(entries, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, held, again)

	// ceil(0.25*6) + ceil(0.25*3)
	held, err = HoldOut(entries, 0.25, 3)
	require.NoError(t, err)
	assert.Len(t, held, 3)

	held, err = HoldOut(entries, 10, 3)
	require.NoError(t, err)
	assert.Len(t, held, 9)

	_, err = HoldOut(entries, 0, 3)
	assert.Error(t, err)
	_, err = HoldOut(entries, 1.5, 3)
	assert.Error(t, err)
}
