package fallback

import (
	"fmt"
	"os"

	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/recipe-extractor/models"
)

// Pattern is one step of a selector cascade.
type Pattern struct {
	// Selector is a CSS selector evaluated against the whole document.
	Selector string `yaml:"selector"`
	// Attr reads the value from an attribute instead of the element text.
	// Elements without the attribute are skipped.
	Attr string `yaml:"attr,omitempty"`
	// Split turns one matched container into one item per line of its text.
	Split bool `yaml:"split,omitempty"`
}

// Patterns is the ordered selector configuration for every field the
// fallback can recover. Earlier patterns win.
type Patterns struct {
	Title        []Pattern            `yaml:"title"`
	Description  []Pattern            `yaml:"description"`
	Author       []Pattern            `yaml:"author"`
	Yield        []Pattern            `yaml:"yield"`
	Ingredients  []Pattern            `yaml:"ingredients"`
	Instructions []Pattern            `yaml:"instructions"`
	Times        map[string][]Pattern `yaml:"times"`
}

func meta(selector string) Pattern {
	return Pattern{Selector: selector, Attr: "content"}
}

func timePatterns(prop string) []Pattern {
	return []Pattern{
		{Selector: fmt.Sprintf(`[itemprop="%s"][content]`, prop), Attr: "content"},
		{Selector: fmt.Sprintf(`[itemprop="%s"][datetime]`, prop), Attr: "datetime"},
		{Selector: fmt.Sprintf(`[itemprop="%s"]`, prop)},
	}
}

// DefaultPatterns returns a fresh copy of the built-in cascade.
func DefaultPatterns() Patterns {
	return Patterns{
		Title: []Pattern{
			{Selector: "h1"},
			meta(`meta[property="og:title"]`),
			meta(`meta[name="twitter:title"]`),
			{Selector: "title"},
		},
		Description: []Pattern{
			meta(`meta[property="og:description"]`),
			meta(`meta[name="description"]`),
			meta(`meta[name="twitter:description"]`),
		},
		Author: []Pattern{
			meta(`meta[name="author"]`),
			meta(`meta[property="article:author"]`),
			{Selector: `[itemprop="author"] [itemprop="name"]`},
			{Selector: `[itemprop="author"]`},
			{Selector: `[rel="author"]`},
		},
		Yield: []Pattern{
			{Selector: `[itemprop="recipeYield"][content]`, Attr: "content"},
			{Selector: `[itemprop="recipeYield"]`},
		},
		Ingredients: []Pattern{
			{Selector: `[itemprop="recipeIngredient"]`},
			{Selector: `[itemprop="ingredients"]`},
			{Selector: `li.ingredient`},
			{Selector: `li.ingredients-item`},
			{Selector: `.ingredients-section li`},
			{Selector: `.wprm-recipe-ingredient`},
			{Selector: `li[class*="ingredient"]`},
			{Selector: `[class*="ingredient"] li`},
		},
		Instructions: []Pattern{
			{Selector: `[itemprop="recipeInstructions"] li`},
			{Selector: `li[itemprop="recipeInstructions"]`},
			{Selector: `[itemprop="recipeInstructions"]`, Split: true},
			{Selector: `li.instruction`},
			{Selector: `li.instructions-section-item`},
			{Selector: `.instructions-section li`},
			{Selector: `.wprm-recipe-instruction`},
			{Selector: `[class*="instruction"] li`},
			{Selector: `[class*="direction"] li`},
			{Selector: `li[class*="step"]`},
			{Selector: `[class*="step"] li`},
		},
		Times: map[string][]Pattern{
			models.TimePrep:    timePatterns("prepTime"),
			models.TimeCook:    timePatterns("cookTime"),
			models.TimeTotal:   timePatterns("totalTime"),
			models.TimePerform: timePatterns("performTime"),
		},
	}
}

// LoadPatterns reads a YAML selector file. Fields the file leaves out keep
// their defaults; a field that is present replaces the default cascade.
func LoadPatterns(path string) (Patterns, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Patterns{}, fmt.Errorf("failed to read selector file: %w", err)
	}
	return ParsePatterns(data)
}

// ParsePatterns decodes and validates a YAML selector document.
func ParsePatterns(data []byte) (Patterns, error) {
	p := DefaultPatterns()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Patterns{}, fmt.Errorf("failed to parse selector file: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Patterns{}, err
	}
	return p, nil
}

// Validate checks that every selector compiles.
func (p Patterns) Validate() error {
	groups := map[string][]Pattern{
		"title":        p.Title,
		"description":  p.Description,
		"author":       p.Author,
		"yield":        p.Yield,
		"ingredients":  p.Ingredients,
		"instructions": p.Instructions,
	}
	for key, patterns := range p.Times {
		if !validTimeKey(key) {
			return fmt.Errorf("unknown time key %q", key)
		}
		groups["times."+key] = patterns
	}

	for field, patterns := range groups {
		for i, pat := range patterns {
			if pat.Selector == "" {
				return fmt.Errorf("%s[%d]: empty selector", field, i)
			}
			if _, err := cascadia.Compile(pat.Selector); err != nil {
				return fmt.Errorf("%s[%d]: invalid selector %q: %w", field, i, pat.Selector, err)
			}
		}
	}
	return nil
}

func validTimeKey(key string) bool {
	switch key {
	case models.TimePrep, models.TimeCook, models.TimeTotal, models.TimePerform:
		return true
	}
	return false
}

func (p Patterns) clone() Patterns {
	out := Patterns{
		Title:        append([]Pattern(nil), p.Title...),
		Description:  append([]Pattern(nil), p.Description...),
		Author:       append([]Pattern(nil), p.Author...),
		Yield:        append([]Pattern(nil), p.Yield...),
		Ingredients:  append([]Pattern(nil), p.Ingredients...),
		Instructions: append([]Pattern(nil), p.Instructions...),
		Times:        make(map[string][]Pattern, len(p.Times)),
	}
	for k, v := range p.Times {
		out.Times[k] = append([]Pattern(nil), v...)
	}
	return out
}
