package analytics

import (
	"fmt"
	"sort"
	"strings"
)

type wordCount struct {
	Word  string
	Count int
}

// rank orders counts by frequency, then alphabetically so results are stable.
func rank(counts map[string]int) []wordCount {
	ranked := make([]wordCount, 0, len(counts))
	for w, c := range counts {
		if isValidKeyword(w) {
			ranked = append(ranked, wordCount{w, c})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})
	return ranked
}

// isValidKeyword drops tokens broken by tokenization: unmatched delimiters,
// trailing ':' or '=', and unbalanced quotes.
func isValidKeyword(word string) bool {
	if strings.HasSuffix(word, ":") || strings.HasSuffix(word, "=") {
		return false
	}
	for _, pair := range [][2]string{{"(", ")"}, {"[", "]"}, {"{", "}"}} {
		if strings.Contains(word, pair[0]) && !strings.Contains(word, pair[1]) {
			return false
		}
	}
	return strings.Count(word, "\"")%2 == 0
}

// Reduce aggregates per-document word counts into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)
	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}
	return finalResults
}

// TopKeywords returns the n most frequent words formatted as "word:count".
func TopKeywords(wordCounts map[string]int, n int) []string {
	ranked := rank(wordCounts)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	keywords := make([]string, len(ranked))
	for i, kv := range ranked {
		keywords[i] = fmt.Sprintf("%s:%d", kv.Word, kv.Count)
	}
	return keywords
}
