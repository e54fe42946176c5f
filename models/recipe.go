package models

import (
	"strings"
	"time"
)

// SchemaVersion is stamped on every Recipe the pipeline produces.
const SchemaVersion = "1.0.0"

// Time keys used in Recipe.Times.
const (
	TimePrep    = "prep"
	TimeCook    = "cook"
	TimeTotal   = "total"
	TimePerform = "perform"
)

// Recipe is the canonical record produced from one HTML document.
type Recipe struct {
	SchemaVersion   string              `json:"schema_version" yaml:"schema_version"`
	SourceURL       string              `json:"source_url" yaml:"source_url"`
	Title           string              `json:"title" yaml:"title"`
	Description     string              `json:"description,omitempty" yaml:"description,omitempty"`
	Ingredients     []string            `json:"ingredients" yaml:"ingredients"`
	Instructions    []string            `json:"instructions" yaml:"instructions"`
	RecipeYield     string              `json:"recipe_yield,omitempty" yaml:"recipe_yield,omitempty"`
	Times           map[string]Duration `json:"times" yaml:"times"`
	Nutrition       map[string]any      `json:"nutrition" yaml:"nutrition"`
	Tags            []string            `json:"tags" yaml:"tags"`
	Author          string              `json:"author,omitempty" yaml:"author,omitempty"`
	ArticleSections []ArticleSection    `json:"article_sections" yaml:"article_sections"`
	ExtractedAt     time.Time           `json:"extracted_at" yaml:"extracted_at"`
}

// Duration is a parsed ISO-8601 duration. Minutes is always > 0.
type Duration struct {
	Minutes int    `json:"minutes" yaml:"minutes"`
	Display string `json:"display" yaml:"display"`
}

// ArticleSection groups narrative paragraphs under their nearest preceding
// heading. Heading is nil for content that precedes the first heading.
type ArticleSection struct {
	Heading    *string  `json:"heading" yaml:"heading"`
	Paragraphs []string `json:"paragraphs" yaml:"paragraphs"`
}

// HeadingText returns the heading or "" when the section has none.
func (s ArticleSection) HeadingText() string {
	if s.Heading == nil {
		return ""
	}
	return *s.Heading
}

// Empty reports whether none of the mandatory fields were recovered.
func (r *Recipe) Empty() bool {
	return r.Title == "" && len(r.Ingredients) == 0 && len(r.Instructions) == 0
}

// MissingFields lists the mandatory fields that are still empty.
func (r *Recipe) MissingFields() []string {
	var missing []string
	if r.Title == "" {
		missing = append(missing, "title")
	}
	if len(r.Ingredients) == 0 {
		missing = append(missing, "ingredients")
	}
	if len(r.Instructions) == 0 {
		missing = append(missing, "instructions")
	}
	return missing
}

// ToPlainText concatenates the readable text of the record: title,
// description, ingredients, instructions and article paragraphs.
func (r *Recipe) ToPlainText() string {
	var sb strings.Builder

	write := func(s string) {
		if s == "" {
			return
		}
		sb.WriteString(s)
		sb.WriteString("\n")
	}

	write(r.Title)
	write(r.Description)
	for _, ing := range r.Ingredients {
		write(ing)
	}
	for _, step := range r.Instructions {
		write(step)
	}
	for _, section := range r.ArticleSections {
		for _, p := range section.Paragraphs {
			write(p)
		}
	}

	return sb.String()
}
