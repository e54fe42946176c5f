// Package article groups the narrative paragraphs of a page under their
// nearest preceding heading, skipping page furniture.
package article

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/recipe-extractor/models"
	"github.com/dtnitsch/recipe-extractor/pkg/boilerplate"
	"github.com/dtnitsch/recipe-extractor/pkg/sanitize"
)

// MinFragmentLength is the rune count below which a paragraph must end in
// sentence punctuation to be kept.
const MinFragmentLength = 25

// DefaultContainers are tried in order; the first one holding a paragraph
// becomes the content root.
var DefaultContainers = []string{
	".entry-content, .post-content, .article-content",
	"article",
	`[itemprop="articleBody"]`,
	"main",
	"body",
}

// Segmenter splits a page into ArticleSections.
type Segmenter struct {
	containers []string
}

// NewSegmenter returns a Segmenter using DefaultContainers.
func NewSegmenter() *Segmenter {
	return &Segmenter{containers: append([]string(nil), DefaultContainers...)}
}

// Container returns the content root of doc, or an empty selection.
func (s *Segmenter) Container(doc *goquery.Document) *goquery.Selection {
	for _, sel := range s.containers {
		match := doc.Find(sel).FilterFunction(func(_ int, c *goquery.Selection) bool {
			return c.Find("p").Length() > 0
		}).First()
		if match.Length() > 0 {
			return match
		}
	}
	return doc.Find("body").First()
}

// Segment walks h2, h3 and p elements of the content root in document order.
// Paragraphs before the first heading land in a section with a nil heading.
// Sections without paragraphs are dropped, then adjacent sections with the
// same heading are merged.
func (s *Segmenter) Segment(doc *goquery.Document) []models.ArticleSection {
	root := s.Container(doc)
	if root.Length() == 0 {
		return nil
	}
	stop := root.Get(0)

	var sections []models.ArticleSection
	current := models.ArticleSection{}
	open := false

	flush := func() {
		if open {
			sections = append(sections, current)
		}
		open = false
	}

	root.Find("h2, h3, p").Each(func(_ int, sel *goquery.Selection) {
		if boilerplate.InContainer(sel.Get(0), stop) {
			return
		}

		switch goquery.NodeName(sel) {
		case "h2", "h3":
			heading := sanitize.Collapse(textOf(sel))
			// Boilerplate headings neither close nor open a section.
			if heading == "" || boilerplate.MatchesPhrase(heading) {
				return
			}
			flush()
			current = models.ArticleSection{Heading: &heading}
			open = true
		case "p":
			text, ok := paragraphText(sel)
			if !ok {
				return
			}
			current.Paragraphs = append(current.Paragraphs, text)
			open = true
		}
	})
	flush()

	return dropEmpty(mergeAdjacent(sections))
}

// paragraphText returns the cleaned text of a paragraph and whether it
// counts as narrative.
func paragraphText(sel *goquery.Selection) (string, bool) {
	text := sanitize.Sanitize(textOf(sel))
	switch {
	case text == "":
		return "", false
	case boilerplate.MatchesPhrase(text):
		return "", false
	case boilerplate.LinkDominated(sel):
		return "", false
	case utf8.RuneCountInString(text) < MinFragmentLength && !sanitize.EndsSentence(text):
		return "", false
	}
	return text, true
}

// textOf renders the element text with <br> and block boundaries as line
// breaks, so adjacent words never fuse.
func textOf(sel *goquery.Selection) string {
	html, err := goquery.OuterHtml(sel)
	if err != nil {
		return sel.Text()
	}
	return sanitize.StripMarkup(html)
}

func dropEmpty(sections []models.ArticleSection) []models.ArticleSection {
	out := sections[:0]
	for _, sec := range sections {
		if len(sec.Paragraphs) > 0 {
			out = append(out, sec)
		}
	}
	return out
}

func mergeAdjacent(sections []models.ArticleSection) []models.ArticleSection {
	var out []models.ArticleSection
	for _, sec := range sections {
		if n := len(out); n > 0 && sameHeading(out[n-1].Heading, sec.Heading) {
			out[n-1].Paragraphs = append(out[n-1].Paragraphs, sec.Paragraphs...)
			continue
		}
		out = append(out, sec)
	}
	return out
}

func sameHeading(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Paragraphs flattens sections into one list, dropping case-insensitive
// duplicates after their first occurrence.
func Paragraphs(sections []models.ArticleSection) []string {
	seen := make(map[string]bool)
	var out []string
	for _, sec := range sections {
		for _, p := range sec.Paragraphs {
			key := strings.ToLower(p)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, p)
		}
	}
	return out
}
