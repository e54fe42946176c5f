// Package jsonld finds schema.org Recipe nodes inside the JSON-LD blocks of
// an HTML page.
package jsonld

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxDepth bounds the recursive walk over nested payloads.
const maxDepth = 32

// nestedKeys are the container keys searched for embedded nodes, in order.
var nestedKeys = []string{
	"@graph",
	"mainEntity",
	"mainEntityOfPage",
	"itemListElement",
	"item",
	"hasPart",
}

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

// ErrEmptyBlock is returned by Decode when a block holds no JSON object or array.
var ErrEmptyBlock = errors.New("jsonld: block has no object or array")

// Candidate is a decoded node whose @type includes Recipe.
type Candidate struct {
	Fields map[string]any
	Types  []string
}

// Get returns the raw value stored under key, or nil.
func (c *Candidate) Get(key string) any {
	if c == nil || c.Fields == nil {
		return nil
	}
	return c.Fields[key]
}

// Blocks returns the raw contents of every <script> whose type mentions
// "ld+json", in document order.
func Blocks(doc *goquery.Document) []string {
	var blocks []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		typ, _ := s.Attr("type")
		if !strings.Contains(strings.ToLower(typ), "ld+json") {
			return
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	return blocks
}

// Decode parses one block. Comments, CDATA markers and trailing semicolons
// around the payload are trimmed off first. If decoding fails, trailing
// commas before a closing bracket are removed and decoding is retried once.
// Numbers decode as json.Number.
func Decode(block string) (any, error) {
	body := trimBlock(block)
	if body == "" {
		return nil, ErrEmptyBlock
	}

	payload, err := decode(body)
	if err == nil {
		return payload, nil
	}

	repaired := trailingComma.ReplaceAllString(body, "$1")
	if repaired == body {
		return nil, fmt.Errorf("decoding json-ld block: %w", err)
	}
	payload, rerr := decode(repaired)
	if rerr != nil {
		return nil, fmt.Errorf("decoding repaired json-ld block: %w", rerr)
	}
	return payload, nil
}

func decode(body string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// blockWrappers are stripped before looking for the payload.
var blockWrappers = strings.NewReplacer("<![CDATA[", "", "]]>", "", "<!--", "", "-->", "")

// trimBlock cuts the block down to its outermost object or array.
func trimBlock(block string) string {
	block = blockWrappers.Replace(block)
	start := strings.IndexAny(block, "{[")
	if start == -1 {
		return ""
	}
	end := strings.LastIndexAny(block, "}]")
	if end < start {
		return ""
	}
	return block[start : end+1]
}

// Candidates walks a decoded payload depth-first and returns every Recipe
// node in encounter order.
func Candidates(payload any) []Candidate {
	var out []Candidate
	walk(payload, 0, &out)
	return out
}

func walk(v any, depth int, out *[]Candidate) {
	if depth > maxDepth {
		return
	}
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			walk(item, depth+1, out)
		}
	case map[string]any:
		types := typesOf(node["@type"])
		if isRecipe(types) {
			*out = append(*out, Candidate{Fields: node, Types: types})
			return
		}
		for _, key := range nestedKeys {
			if nested, ok := node[key]; ok {
				walk(nested, depth+1, out)
			}
		}
	}
}

func typesOf(v any) []string {
	switch t := v.(type) {
	case string:
		if t = strings.TrimSpace(t); t != "" {
			return []string{t}
		}
	case []any:
		var types []string
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				types = append(types, strings.TrimSpace(s))
			}
		}
		return types
	}
	return nil
}

// isRecipe accepts "Recipe" in any case, bare or as a schema.org IRI.
func isRecipe(types []string) bool {
	for _, t := range types {
		if i := strings.LastIndexAny(t, "/:#"); i >= 0 {
			t = t[i+1:]
		}
		if strings.EqualFold(t, "Recipe") {
			return true
		}
	}
	return false
}

// Score counts how many of name, ingredients and instructions are non-empty.
func Score(c Candidate) int {
	score := 0
	if hasContent(c.Fields["name"]) {
		score++
	}
	if hasContent(c.Fields["recipeIngredient"]) || hasContent(c.Fields["ingredients"]) {
		score++
	}
	if hasContent(c.Fields["recipeInstructions"]) {
		score++
	}
	return score
}

func hasContent(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case []any:
		for _, item := range val {
			if hasContent(item) {
				return true
			}
		}
		return false
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

// Locate decodes every JSON-LD block on the page and returns the Recipe
// candidate with the highest Score. Ties go to the candidate encountered
// first. Blocks that fail to decode are skipped. It returns nil when the
// page has no Recipe node.
func Locate(doc *goquery.Document) *Candidate {
	var all []Candidate
	for _, block := range Blocks(doc) {
		payload, err := Decode(block)
		if err != nil {
			continue
		}
		all = append(all, Candidates(payload)...)
	}
	return best(all)
}

func best(all []Candidate) *Candidate {
	var winner *Candidate
	bestScore := -1
	for i := range all {
		if s := Score(all[i]); s > bestScore {
			winner = &all[i]
			bestScore = s
		}
	}
	return winner
}
