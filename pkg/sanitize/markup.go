package sanitize

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags end a visual line when rendered; StripMarkup turns them into '\n'.
var blockTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "ol": true, "ul": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "section": true, "blockquote": true,
}

// StripMarkup decodes HTML entities and removes tags from text that arrived
// inside structured data. Block-level tags become line breaks so callers can
// still split the result into steps. Script and style bodies are dropped.
// Whitespace is not collapsed.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	var b strings.Builder
	skip := 0
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				skip++
				continue
			}
			if blockTags[tag] {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && skip > 0 {
				skip--
				continue
			}
			if blockTags[tag] {
				b.WriteByte('\n')
			}
		}
	}
}

// Text strips markup and collapses whitespace. It is the light-weight
// cleanup used for titles, descriptions, authors and yields, which must not
// be degluded or bullet-stripped.
func Text(s string) string {
	return Collapse(StripMarkup(s))
}
