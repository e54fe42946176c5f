package analytics

import (
	"strings"
	"unicode"
)

type Analytics struct{}

// stopwords are ignored in frequency analysis: English function words plus
// the units and filler that appear in nearly every recipe.
var stopwords = buildSet(`
a about above after again against all also am an and any are as at
be because been before being below between both but by
can cannot could did do does doing done down during
each either else enough etc even ever every
few for from further
had has have having he her here hers him his how however
i if in into is it its itself just keep
last least less let like
made make many may me might more most much must my
no nor not now of off often on once one only onto or other our out over own
per perhaps put rather same see she should since so some still such
than that the their them then there these they this those through to too toward
under until up upon us use very via
was we well were what when where whether which while who whose why will with within without would
yet you your yours

cup cups tbsp tablespoon tablespoons tsp teaspoon teaspoons
g kg ml l oz ounce ounces lb lbs pound pounds
minute minutes min mins hour hours
about approximately optional taste
`)

func buildSet(words string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}

// IsStopword checks if a word is a common stopword that should be filtered out.
func IsStopword(word string) bool {
	_, exists := stopwords[strings.ToLower(word)]
	return exists
}

// WordFrequency counts the lower-cased words of text, skipping stopwords,
// bare numbers and single letters.
func (a *Analytics) WordFrequency(text string) map[string]int {
	frequencies := make(map[string]int)

	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len([]rune(word)) < 2 || isNumber(word) {
			continue
		}
		if _, skip := stopwords[word]; skip {
			continue
		}
		frequencies[word]++
	}

	return frequencies
}

// TopNWords returns the n most frequent words of text.
func (a *Analytics) TopNWords(text string, n int) []string {
	ranked := rank(a.WordFrequency(text))
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	words := make([]string, len(ranked))
	for i, kv := range ranked {
		words[i] = kv.Word
	}
	return words
}

func isNumber(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) && r != '/' && r != '.' && r != ',' {
			return false
		}
	}
	return true
}
