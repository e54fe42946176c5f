// Package detector guesses the natural language of recipe text.
package detector

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// minTextLength is the shortest input worth classifying. Below it the
// statistical models are mostly guessing.
const minTextLength = 20

// Languages are the candidates considered by Language. Keeping the set small
// keeps model loading fast.
var Languages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Polish,
}

// Result is a detected language as a lower-case ISO 639-1 code.
type Result struct {
	Code       string  `json:"code" yaml:"code"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

var (
	once     sync.Once
	detector lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	once.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(Languages...).
			Build()
	})
	return detector
}

// Language detects the language of text. ok is false when the text is too
// short or no candidate is a reliable match.
func Language(text string) (Result, bool) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minTextLength {
		return Result{}, false
	}

	d := languageDetector()
	lang, ok := d.DetectLanguageOf(text)
	if !ok {
		return Result{}, false
	}
	return Result{
		Code:       strings.ToLower(lang.IsoCode639_1().String()),
		Confidence: d.ComputeLanguageConfidence(text, lang),
	}, true
}
