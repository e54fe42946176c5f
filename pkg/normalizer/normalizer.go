// Package normalizer turns a located schema.org Recipe node into clean
// record fields. Each field arrives in one of a few shapes (string, list,
// object, scalar); each has one flattening function that handles all of them.
// Nothing here fails: malformed values yield empty fields.
package normalizer

import (
	"strings"

	"github.com/dtnitsch/recipe-extractor/models"
	"github.com/dtnitsch/recipe-extractor/pkg/duration"
	"github.com/dtnitsch/recipe-extractor/pkg/jsonld"
	"github.com/dtnitsch/recipe-extractor/pkg/sanitize"
)

const maxDepth = 32

// Fields holds the normalized values recovered from structured data.
type Fields struct {
	Title        string
	Description  string
	Ingredients  []string
	Instructions []string
	Yield        string
	Times        map[string]models.Duration
	Nutrition    map[string]any
	Tags         []string
	Author       string
}

// timeKeys maps record time keys to their schema.org properties.
var timeKeys = []struct {
	key, property string
}{
	{models.TimePrep, "prepTime"},
	{models.TimeCook, "cookTime"},
	{models.TimeTotal, "totalTime"},
	{models.TimePerform, "performTime"},
}

// Normalize flattens every supported field of c. A nil candidate yields
// zero Fields.
func Normalize(c *jsonld.Candidate) Fields {
	if c == nil {
		return Fields{}
	}

	ingredients := Ingredients(c.Get("recipeIngredient"))
	if len(ingredients) == 0 {
		ingredients = Ingredients(c.Get("ingredients"))
	}

	return Fields{
		Title:        firstText(c.Get("name"), c.Get("headline")),
		Description:  Text(c.Get("description")),
		Ingredients:  ingredients,
		Instructions: Instructions(c.Get("recipeInstructions")),
		Yield:        Yield(c.Get("recipeYield")),
		Times:        Times(c.Fields),
		Nutrition:    Nutrition(c.Get("nutrition")),
		Tags:         Tags(c.Get("keywords"), c.Get("recipeCategory"), c.Get("recipeCuisine")),
		Author:       Author(c.Get("author")),
	}
}

func firstText(values ...any) string {
	for _, v := range values {
		if s := Text(v); s != "" {
			return s
		}
	}
	return ""
}

// Text coerces a value to a single cleaned string. Lists contribute their
// first non-empty element and objects their "name".
func Text(v any) string {
	return text(v, 0)
}

func text(v any, depth int) string {
	if depth > maxDepth {
		return ""
	}
	switch ShapeOf(v) {
	case ShapeString:
		return sanitize.Text(v.(string))
	case ShapeScalar:
		return scalarString(v)
	case ShapeList:
		for _, item := range v.([]any) {
			if s := text(item, depth+1); s != "" {
				return s
			}
		}
	case ShapeObject:
		return text(v.(map[string]any)["name"], depth+1)
	}
	return ""
}

// Author returns the first non-empty author. Person and Organization objects
// contribute their name.
func Author(v any) string {
	return Text(v)
}

// Yield joins every yield value with " / ", dropping case-insensitive
// duplicates. QuantitativeValue objects contribute "value unitText".
func Yield(v any) string {
	var parts []string
	collectYield(v, 0, &parts)
	return strings.Join(dedupeFold(parts), " / ")
}

func collectYield(v any, depth int, out *[]string) {
	if depth > maxDepth {
		return
	}
	switch ShapeOf(v) {
	case ShapeString, ShapeScalar:
		if s := Text(v); s != "" {
			*out = append(*out, s)
		}
	case ShapeList:
		for _, item := range v.([]any) {
			collectYield(item, depth+1, out)
		}
	case ShapeObject:
		obj := v.(map[string]any)
		value := Text(obj["value"])
		if value == "" {
			value = Text(obj["name"])
		}
		if value == "" {
			return
		}
		if unit := Text(obj["unitText"]); unit != "" {
			value += " " + unit
		}
		*out = append(*out, value)
	}
}

// Ingredients flattens the ingredient field into sanitized, non-empty
// entries. Strings split on line breaks only; ingredient text may contain
// commas and periods. Objects contribute text, name or item.
func Ingredients(v any) []string {
	var out []string
	collectIngredients(v, 0, &out)
	return out
}

func collectIngredients(v any, depth int, out *[]string) {
	if depth > maxDepth {
		return
	}
	switch ShapeOf(v) {
	case ShapeString:
		appendLines(out, v.(string))
	case ShapeScalar:
		appendClean(out, scalarString(v))
	case ShapeList:
		for _, item := range v.([]any) {
			collectIngredients(item, depth+1, out)
		}
	case ShapeObject:
		obj := v.(map[string]any)
		for _, key := range []string{"text", "name", "item"} {
			if s := Text(obj[key]); s != "" {
				appendClean(out, s)
				return
			}
		}
	}
}

// Instructions flattens the instruction field into sanitized steps.
//   - a single string splits on line breaks, or on sentence boundaries when
//     it is one run-on paragraph
//   - list strings split on line breaks only
//   - HowToStep objects contribute text, falling back to name
//   - HowToSection objects are replaced by their nested steps; the section
//     name is discarded
func Instructions(v any) []string {
	var out []string
	if ShapeOf(v) == ShapeString {
		for _, step := range splitBlob(v.(string)) {
			appendClean(&out, step)
		}
		return out
	}
	collectSteps(v, 0, &out)
	return out
}

func collectSteps(v any, depth int, out *[]string) {
	if depth > maxDepth {
		return
	}
	switch ShapeOf(v) {
	case ShapeString:
		appendLines(out, v.(string))
	case ShapeList:
		for _, item := range v.([]any) {
			collectSteps(item, depth+1, out)
		}
	case ShapeObject:
		obj := v.(map[string]any)
		// Section labels are never steps, even when the section is empty.
		if items, ok := obj["itemListElement"]; ok || isSection(obj) {
			collectSteps(items, depth+1, out)
			return
		}
		for _, key := range []string{"text", "name"} {
			if s, ok := obj[key].(string); ok {
				if step := sanitize.Sanitize(sanitize.StripMarkup(s)); step != "" {
					*out = append(*out, step)
					return
				}
			}
		}
	}
}

func isSection(obj map[string]any) bool {
	switch t := obj["@type"].(type) {
	case string:
		return strings.EqualFold(t, "HowToSection")
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.EqualFold(s, "HowToSection") {
				return true
			}
		}
	}
	return false
}

// splitBlob breaks a free-text instruction field into steps.
func splitBlob(s string) []string {
	lines := sanitize.Lines(sanitize.StripMarkup(s))
	if len(lines) == 1 {
		return sanitize.Sentences(lines[0])
	}
	return lines
}

func appendLines(out *[]string, s string) {
	for _, line := range sanitize.Lines(sanitize.StripMarkup(s)) {
		appendClean(out, line)
	}
}

func appendClean(out *[]string, s string) {
	if clean := sanitize.Sanitize(s); clean != "" {
		*out = append(*out, clean)
	}
}

// Times parses prepTime, cookTime, totalTime and performTime. Only values
// that parse to a positive number of minutes are kept.
func Times(fields map[string]any) map[string]models.Duration {
	times := make(map[string]models.Duration)
	for _, tk := range timeKeys {
		raw := Text(fields[tk.property])
		if d, ok := duration.Parse(raw); ok {
			times[tk.key] = d
		}
	}
	return times
}

// Nutrition keeps the scalar entries of a NutritionInformation object.
// Keys starting with "@" and empty values are dropped; numbers become int64
// or float64.
func Nutrition(v any) map[string]any {
	out := make(map[string]any)
	obj, ok := v.(map[string]any)
	if !ok {
		return out
	}
	for key, raw := range obj {
		if strings.HasPrefix(key, "@") {
			continue
		}
		if s, isString := raw.(string); isString {
			raw = sanitize.Text(s)
		}
		if val, ok := scalarValue(raw); ok {
			out[key] = val
		}
	}
	return out
}

// Tags merges keywords, categories and cuisines. Strings are split on
// commas; duplicates are removed case-insensitively, keeping the first
// spelling and order.
func Tags(sources ...any) []string {
	var tags []string
	for _, src := range sources {
		collectTags(src, 0, &tags)
	}
	return dedupeFold(tags)
}

func collectTags(v any, depth int, out *[]string) {
	if depth > maxDepth {
		return
	}
	switch ShapeOf(v) {
	case ShapeString:
		for _, part := range strings.Split(v.(string), ",") {
			if tag := sanitize.Text(part); tag != "" {
				*out = append(*out, tag)
			}
		}
	case ShapeList:
		for _, item := range v.([]any) {
			collectTags(item, depth+1, out)
		}
	case ShapeObject:
		if name := Text(v.(map[string]any)["name"]); name != "" {
			*out = append(*out, name)
		}
	}
}

func dedupeFold(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
