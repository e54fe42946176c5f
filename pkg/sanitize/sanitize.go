// Package sanitize holds the string-level cleanup shared by every stage of
// the recipe pipeline: whitespace collapsing, bullet stripping, run-on
// letter/digit repair and markup removal.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// bulletPrefix matches one leading list marker. Dashes, asterisks and
// numbered markers need trailing whitespace so "-5°C" or "1.5 cups" survive.
var bulletPrefix = regexp.MustCompile(`^(?:[•·▪◦‣●○■□►▸➤✓✔]|[-–—*+]\s|\d{1,3}[.)](?:\s|$))`)

// Sanitize cleans a raw text fragment:
//   - zero-width characters are removed and the text is NFC-normalized
//   - whitespace runs collapse to one space, ends are trimmed
//   - letter/digit boundaries get a space ("celery2" -> "celery 2")
//   - leading bullets and "1." / "1)" markers are stripped
//
// Sanitize(Sanitize(s)) == Sanitize(s) for every s.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.Map(dropInvisible, s)
	s = norm.NFC.String(s)
	s = Collapse(s)
	s = Deglue(s)
	return StripBullet(s)
}

// Collapse folds every whitespace run (including non-breaking spaces) into a
// single space and trims both ends.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Deglue inserts a space wherever a letter directly touches a digit. It
// over-splits tokens like "2x4" or "H2O"; that tradeoff is accepted.
func Deglue(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	var prev rune
	for i, r := range s {
		if i > 0 && boundary(prev, r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func boundary(prev, cur rune) bool {
	return (unicode.IsLetter(prev) && unicode.IsDigit(cur)) ||
		(unicode.IsDigit(prev) && unicode.IsLetter(cur))
}

// StripBullet removes any number of leading list markers.
func StripBullet(s string) string {
	s = strings.TrimSpace(s)
	for {
		loc := bulletPrefix.FindStringIndex(s)
		if loc == nil {
			return s
		}
		s = strings.TrimSpace(s[loc[1]:])
	}
}

func dropInvisible(r rune) rune {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff', '\u00ad':
		return -1
	}
	return r
}

// Lines splits text on line breaks, collapsing each line and dropping blanks.
func Lines(s string) []string {
	var out []string
	for _, line := range strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' }) {
		if line = Collapse(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Sentences splits a run-on paragraph at sentence boundaries: a terminal
// '.', '!' or '?' (optionally followed by a closing quote or bracket),
// whitespace, then an upper-case letter.
func Sentences(s string) []string {
	runes := []rune(Collapse(s))
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		end := i + 1
		for end < len(runes) && isCloser(runes[end]) {
			end++
		}
		if end+1 < len(runes) && runes[end] == ' ' && unicode.IsUpper(runes[end+1]) {
			if part := strings.TrimSpace(string(runes[start:end])); part != "" {
				out = append(out, part)
			}
			start = end + 1
			i = end
		}
	}
	if part := strings.TrimSpace(string(runes[start:])); part != "" {
		out = append(out, part)
	}
	return out
}

// EndsSentence reports whether s ends with sentence-terminal punctuation,
// ignoring trailing quotes and brackets.
func EndsSentence(s string) bool {
	s = strings.TrimRightFunc(strings.TrimSpace(s), isCloser)
	if s == "" {
		return false
	}
	r := []rune(s)
	return isTerminal(r[len(r)-1]) || r[len(r)-1] == '…'
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’', '»':
		return true
	}
	return false
}
