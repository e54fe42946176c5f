// Package boilerplate recognises non-narrative page furniture: ads, promos,
// related-content rails, newsletter and social widgets, tables of contents,
// sidebars and galleries.
package boilerplate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/dtnitsch/recipe-extractor/pkg/sanitize"
)

// MaxLinkDensity is the share of a paragraph's text that may come from
// anchors before it counts as a link list.
const MaxLinkDensity = 0.7

// skipTags never hold narrative content.
var skipTags = map[string]bool{
	"nav": true, "aside": true, "footer": true, "form": true,
	"script": true, "style": true, "noscript": true, "iframe": true,
	"template": true, "button": true, "svg": true, "select": true,
}

var skipRoles = map[string]bool{
	"navigation": true, "complementary": true, "contentinfo": true,
	"banner": true, "dialog": true, "search": true, "menu": true,
}

// signatureTokens match whole tokens of class/id/data-* values after
// splitting on anything that is not a letter or digit.
var signatureTokens = map[string]bool{
	"ad": true, "ads": true, "adv": true, "advert": true, "adverts": true,
	"advertisement": true, "advertising": true, "sponsor": true, "sponsored": true,
	"promo": true, "promos": true, "promotion": true, "promoted": true,
	"related": true, "recommended": true, "newsletter": true, "subscribe": true,
	"subscription": true, "signup": true, "social": true, "share": true,
	"sharing": true, "toc": true, "sidebar": true, "gallery": true,
	"slideshow": true, "carousel": true, "widget": true, "comment": true,
	"comments": true, "breadcrumb": true, "breadcrumbs": true, "cookie": true,
	"consent": true, "popup": true, "modal": true, "nav": true,
	"navigation": true, "menu": true,
}

// signatureSubstrings catch glued names such as "adthrive-slot" or
// "relatedposts".
var signatureSubstrings = []string{
	"advert", "sponsor", "newsletter", "sidebar", "gallery", "outbrain",
	"taboola", "adthrive", "mediavine", "adsense", "table-of-contents",
	"tableofcontents", "relatedpost", "related-post", "social-",
}

// Phrases are lower-case markers of boilerplate text.
var Phrases = []string{
	"read more", "learn more", "watch:", "sponsored", "subscribe",
	"sign up", "newsletter", "advertisement", "related:", "related posts",
	"you may also like", "you might also like", "also read", "click here",
	"follow us", "share this", "pin this", "pin it", "jump to recipe",
	"print recipe", "see more", "don't miss", "trending",
}

// shortPhraseLimit is the length (in runes) below which a phrase anywhere in
// the text marks it as boilerplate; longer text must start with the phrase.
const shortPhraseLimit = 80

// IsBoilerplateNode reports whether the element itself carries a boilerplate
// signature: a skipped tag, role, or class/id/data-* value.
func IsBoilerplateNode(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if skipTags[n.Data] {
		return true
	}
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		val := strings.ToLower(attr.Val)
		switch {
		case key == "role":
			if skipRoles[strings.TrimSpace(val)] {
				return true
			}
		case key == "class" || key == "id":
			if matchesSignature(val) {
				return true
			}
		case strings.HasPrefix(key, "data-"):
			if matchesSignature(strings.TrimPrefix(key, "data-")) || matchesSignature(val) {
				return true
			}
		}
	}
	return false
}

func matchesSignature(val string) bool {
	if val == "" {
		return false
	}
	for _, sub := range signatureSubstrings {
		if strings.Contains(val, sub) {
			return true
		}
	}
	tokens := strings.FieldsFunc(val, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if signatureTokens[tok] {
			return true
		}
	}
	return false
}

// InContainer reports whether n, or any ancestor of n below stop, carries a
// boilerplate signature. stop itself and everything above it are not
// inspected, so a page-wide class on <body> cannot hide the whole article.
func InContainer(n, stop *html.Node) bool {
	for cur := n; cur != nil && cur != stop; cur = cur.Parent {
		if cur.Type == html.ElementNode && (cur.Data == "body" || cur.Data == "html") {
			return false
		}
		if IsBoilerplateNode(cur) {
			return true
		}
	}
	return false
}

// MatchesPhrase reports whether text starts with a boilerplate phrase or, for
// short text, contains one.
func MatchesPhrase(text string) bool {
	t := strings.ToLower(sanitize.Collapse(text))
	if t == "" {
		return false
	}
	short := utf8.RuneCountInString(t) <= shortPhraseLimit
	for _, p := range Phrases {
		if strings.HasPrefix(t, p) || (short && containsWord(t, p)) {
			return true
		}
	}
	return false
}

// containsWord finds phrase in t where it is not glued to surrounding
// letters or digits, so "spin it" does not match "pin it".
func containsWord(t, phrase string) bool {
	for from := 0; from < len(t); {
		i := strings.Index(t[from:], phrase)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(phrase)
		before, _ := utf8.DecodeLastRuneInString(t[:start])
		after, _ := utf8.DecodeRuneInString(t[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(t) || !isWordRune(after) || !isWordRune(lastRune(phrase))) {
			return true
		}
		from = start + 1
	}
	return false
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// LinkDensity is the fraction of the selection's text that sits inside <a>
// elements, measured in runes after whitespace collapsing.
func LinkDensity(s *goquery.Selection) float64 {
	total := utf8.RuneCountInString(sanitize.Collapse(s.Text()))
	if total == 0 {
		return 0
	}
	linked := 0
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		linked += utf8.RuneCountInString(sanitize.Collapse(a.Text()))
	})
	return float64(linked) / float64(total)
}

// LinkDominated reports whether anchors make up more than MaxLinkDensity of
// the selection's text.
func LinkDominated(s *goquery.Selection) bool {
	return LinkDensity(s) > MaxLinkDensity
}
