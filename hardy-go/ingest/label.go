package ingest

import (
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExpectClasses is the number of classes discovered from filenames when none are given.
const DefaultExpectClasses = 2

// NegativeLabel is the label given to files that match none of the classes.
func NegativeLabel(classes []string) string {
	return "not_" + classes[0]
}

// Label returns the first class that occurs as a substring of filename, or the negative
// label of the first class. classes must be non-empty.
func Label(filename string, classes []string) string {
	for _, c := range classes {
		if strings.Contains(filename, c) {
			return c
		}
	}
	return NegativeLabel(classes)
}

// Serial returns the filename stem used to identify a sample.
func Serial(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// ClassesFromFilenames discovers class names from the last underscore-separated token of each
// CSV filename stem ("123847_run4_noisy.csv" -> "noisy"), keeping the expect most frequent
// tokens ordered by frequency and then name.
func ClassesFromFilenames(names []string, expect int) []string {
	if expect <= 0 {
		expect = DefaultExpectClasses
	}

	counts := make(map[string]int)
	for _, name := range names {
		if !isCSV(name) {
			continue
		}
		stem := Serial(name)
		token := stem[strings.LastIndex(stem, "_")+1:]
		if token == "" {
			continue
		}
		counts[token]++
	}

	tokens := make([]string, 0, len(counts))
	for tok := range counts {
		tokens = append(tokens, tok)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})

	if len(tokens) > expect {
		tokens = tokens[:expect]
	}
	return tokens
}
