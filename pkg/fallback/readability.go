package fallback

import (
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/dtnitsch/recipe-extractor/pkg/sanitize"
)

// Hints are the article-level facts readability can infer when neither
// structured data nor meta tags provide them.
type Hints struct {
	Excerpt string
	Byline  string
}

// ReadabilityHints runs readability over the page. Failures yield empty
// Hints.
func ReadabilityHints(html, pageURL string) Hints {
	u, err := url.Parse(pageURL)
	if err != nil || u == nil {
		u = &url.URL{}
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(html), u)
	if err != nil {
		return Hints{}
	}

	return Hints{
		Excerpt: sanitize.Text(article.Excerpt),
		Byline:  sanitize.Text(article.Byline),
	}
}
