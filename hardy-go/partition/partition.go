package partition

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/hardyml/hardy/hardy-go/catalogue"
	"github.com/hardyml/hardy/hardy-go/ingest"
)

// ConfigurationError reports partition parameters that cannot be satisfied.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "partition: " + e.Msg
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// Split separates the records whose serial is in testSerials from the rest. Both subsets keep
// corpus order; together they are exactly the corpus.
func Split(corpus []catalogue.Record, testSerials []string) (test, learning []catalogue.Record, err error) {
	if len(corpus) == 0 && len(testSerials) > 0 {
		return nil, nil, configErrorf("empty corpus with %d test serials", len(testSerials))
	}

	held := make(map[string]bool, len(testSerials))
	for _, s := range testSerials {
		held[s] = true
	}
	for _, r := range corpus {
		if held[r.Serial] {
			test = append(test, r)
		} else {
			learning = append(learning, r)
		}
	}
	return test, learning, nil
}

func shuffled(records []catalogue.Record, seed int64) []catalogue.Record {
	out := append([]catalogue.Record(nil), records...)
	rnd := rand.New(rand.NewSource(seed))
	rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// ValidationSize returns how many of n records a validation fraction takes.
func ValidationSize(n int, split float64) int {
	return n - int(float64(n)*(1-split))
}

// TrainValidation shuffles learning with seed and holds out a split fraction for validation.
func TrainValidation(learning []catalogue.Record, split float64, seed int64) (train, validation []catalogue.Record, err error) {
	if split < 0 || split >= 1 {
		return nil, nil, configErrorf("validation split %v outside [0, 1)", split)
	}
	all := shuffled(learning, seed)
	nval := ValidationSize(len(all), split)
	return all[nval:], all[:nval], nil
}

// Fold is one round of k-fold cross validation.
type Fold struct {
	Train      []catalogue.Record
	Validation []catalogue.Record
}

// KFold shuffles learning with seed and splits it into k folds of near-equal size. Each record
// is in exactly one validation set.
func KFold(learning []catalogue.Record, k int, seed int64) ([]Fold, error) {
	if k < 2 || k > len(learning) {
		return nil, configErrorf("cannot make %d folds of %d records", k, len(learning))
	}
	all := shuffled(learning, seed)

	folds := make([]Fold, 0, k)
	size, extra := len(all)/k, len(all)%k
	var lo int
	for i := 0; i < k; i++ {
		hi := lo + size
		if i < extra {
			hi++
		}
		var f Fold
		f.Validation = append(f.Validation, all[lo:hi]...)
		f.Train = append(f.Train, all[:lo]...)
		f.Train = append(f.Train, all[hi:]...)
		folds = append(folds, f)
		lo = hi
	}
	return folds, nil
}

// Entry is the identity of a sample for test set selection.
type Entry struct {
	Serial string
	Label  string
}

// Entries lists the serial and label of every sample.
func Entries(samples []ingest.Sample) []Entry {
	out := make([]Entry, len(samples))
	for i, s := range samples {
		out[i] = Entry{Serial: s.Serial, Label: s.Label}
	}
	return out
}

// HoldOut samples test serials from every label. perClass >= 1 is a count per label, a value
// in (0, 1) is a fraction of each label rounded up. The result is sorted.
func HoldOut(entries []Entry, perClass float64, seed int64) ([]string, error) {
	if perClass <= 0 || (perClass >= 1 && perClass != math.Trunc(perClass)) {
		return nil, configErrorf("test files per class must be a positive count or a fraction, got %v", perClass)
	}

	var labels []string
	byLabel := make(map[string][]string)
	for _, e := range entries {
		if _, ok := byLabel[e.Label]; !ok {
			labels = append(labels, e.Label)
		}
		byLabel[e.Label] = append(byLabel[e.Label], e.Serial)
	}

	rnd := rand.New(rand.NewSource(seed))
	var out []string
	for _, label := range labels {
		serials := byLabel[label]
		sort.Strings(serials)
		rnd.Shuffle(len(serials), func(i, j int) { serials[i], serials[j] = serials[j], serials[i] })

		n := int(perClass)
		if perClass < 1 {
			n = int(math.Ceil(perClass * float64(len(serials))))
		}
		if n > len(serials) {
			n = len(serials)
		}
		out = append(out, serials[:n]...)
	}
	sort.Strings(out)
	return out, nil
}
