// Package fallback recovers recipe fields from ordinary HTML structure when
// structured data is missing or incomplete. Each field walks its own ranked
// selector cascade and stops at the first pattern that yields something.
package fallback

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/recipe-extractor/models"
	"github.com/dtnitsch/recipe-extractor/pkg/boilerplate"
	"github.com/dtnitsch/recipe-extractor/pkg/duration"
	"github.com/dtnitsch/recipe-extractor/pkg/sanitize"
)

var timeOrder = []string{models.TimePrep, models.TimeCook, models.TimeTotal, models.TimePerform}

// Extractor applies a fixed set of Patterns. It is safe for concurrent use.
type Extractor struct {
	patterns Patterns
}

// New returns an Extractor over a private copy of p.
func New(p Patterns) *Extractor {
	return &Extractor{patterns: p.clone()}
}

// NewDefault returns an Extractor over DefaultPatterns.
func NewDefault() *Extractor {
	return New(DefaultPatterns())
}

// Patterns returns a copy of the cascade in use.
func (e *Extractor) Patterns() Patterns {
	return e.patterns.clone()
}

// Title returns the first non-empty value of the title cascade.
func (e *Extractor) Title(doc *goquery.Document) string {
	return firstValue(doc, e.patterns.Title)
}

// Description returns the first non-empty value of the description cascade.
func (e *Extractor) Description(doc *goquery.Document) string {
	return firstValue(doc, e.patterns.Description)
}

// Author returns the first non-empty value of the author cascade.
func (e *Extractor) Author(doc *goquery.Document) string {
	return firstValue(doc, e.patterns.Author)
}

// Yield returns the first non-empty value of the yield cascade.
func (e *Extractor) Yield(doc *goquery.Document) string {
	return firstValue(doc, e.patterns.Yield)
}

// Ingredients returns the items of the first ingredient pattern that yields
// at least one non-empty, non-boilerplate element.
func (e *Extractor) Ingredients(doc *goquery.Document) []string {
	return firstList(doc, e.patterns.Ingredients)
}

// Instructions works like Ingredients over the instruction cascade.
func (e *Extractor) Instructions(doc *goquery.Document) []string {
	return firstList(doc, e.patterns.Instructions)
}

// Times reads microdata durations. Only values that parse are kept.
func (e *Extractor) Times(doc *goquery.Document) map[string]models.Duration {
	times := make(map[string]models.Duration)
	for _, key := range timeOrder {
		patterns := e.patterns.Times[key]
		for _, p := range patterns {
			var found bool
			doc.Find(p.Selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				raw, ok := rawValue(s, p)
				if !ok {
					return true
				}
				if d, ok := duration.Parse(raw); ok {
					times[key] = d
					found = true
					return false
				}
				return true
			})
			if found {
				break
			}
		}
	}
	return times
}

// firstValue returns the first non-empty single value across the cascade.
func firstValue(doc *goquery.Document, patterns []Pattern) string {
	for _, p := range patterns {
		var value string
		doc.Find(p.Selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			raw, ok := rawValue(s, p)
			if !ok {
				return true
			}
			value = sanitize.Text(raw)
			return value == ""
		})
		if value != "" {
			return value
		}
	}
	return ""
}

// firstList is first-match-wins: the first pattern with at least one
// non-empty item is used and later patterns are never consulted.
func firstList(doc *goquery.Document, patterns []Pattern) []string {
	for _, p := range patterns {
		if items := listItems(doc, p); len(items) > 0 {
			return items
		}
	}
	return nil
}

func listItems(doc *goquery.Document, p Pattern) []string {
	matched := doc.Find(p.Selector)
	var items []string
	matched.Each(func(_ int, s *goquery.Selection) {
		if boilerplate.InContainer(s.Get(0), nil) {
			return
		}
		// Prefer the innermost match when matches nest.
		if s.Find(p.Selector).Length() > 0 {
			return
		}
		raw, ok := rawValue(s, p)
		if !ok {
			return
		}
		if p.Split {
			for _, line := range sanitize.Lines(raw) {
				if item := sanitize.Sanitize(line); item != "" {
					items = append(items, item)
				}
			}
			return
		}
		if item := sanitize.Sanitize(raw); item != "" {
			items = append(items, item)
		}
	})
	return items
}

// rawValue reads the attribute named by p, or the element text with block
// boundaries kept as line breaks.
func rawValue(s *goquery.Selection, p Pattern) (string, bool) {
	if p.Attr != "" {
		v, ok := s.Attr(p.Attr)
		return strings.TrimSpace(v), ok
	}
	html, err := goquery.OuterHtml(s)
	if err != nil {
		return s.Text(), true
	}
	return sanitize.StripMarkup(html), true
}
