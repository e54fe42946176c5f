package analytics

import (
	"strings"

	"github.com/dtnitsch/recipe-extractor/pkg/detector"
)

// Complexity buckets reported by Analyze.
const (
	ComplexityEasy   = "easy"
	ComplexityMedium = "medium"
	ComplexityHard   = "hard"
)

// topTermLimit bounds Analysis.TopTerms.
const topTermLimit = 10

// Request is the input to Analyze: the two lists of an extracted recipe.
type Request struct {
	Ingredients  []string `json:"ingredients" yaml:"ingredients"`
	Instructions []string `json:"instructions" yaml:"instructions"`
}

// Analysis is a light summary of one recipe.
type Analysis struct {
	IngredientsCount    int              `json:"ingredients_count" yaml:"ingredients_count"`
	StepsCount          int              `json:"steps_count" yaml:"steps_count"`
	EstimatedComplexity string           `json:"estimated_complexity" yaml:"estimated_complexity"`
	TopTerms            []string         `json:"top_terms" yaml:"top_terms"`
	Language            *detector.Result `json:"language,omitempty" yaml:"language,omitempty"`
}

// Analyze counts the non-blank ingredients and steps, buckets the recipe by
// complexity, and reports the most frequent instruction terms and the
// language of the text.
func (a *Analytics) Analyze(req Request) Analysis {
	ingredients := nonBlank(req.Ingredients)
	steps := nonBlank(req.Instructions)

	out := Analysis{
		IngredientsCount:    len(ingredients),
		StepsCount:          len(steps),
		EstimatedComplexity: Complexity(len(ingredients), len(steps)),
		TopTerms:            a.TopNWords(strings.Join(steps, "\n"), topTermLimit),
	}

	text := strings.Join(append(append([]string{}, steps...), ingredients...), "\n")
	if lang, ok := detector.Language(text); ok {
		out.Language = &lang
	}
	return out
}

// Complexity is hard at 12 ingredients or 10 steps, medium at 7 ingredients
// or 6 steps, and easy below that.
func Complexity(ingredients, steps int) string {
	switch {
	case ingredients >= 12 || steps >= 10:
		return ComplexityHard
	case ingredients >= 7 || steps >= 6:
		return ComplexityMedium
	default:
		return ComplexityEasy
	}
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
