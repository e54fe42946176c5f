package common

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/dtnitsch/recipe-extractor/pkg/fallback"
	"github.com/dtnitsch/recipe-extractor/pkg/parser"
)

var (
	// [text](url) -> url
	markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)
	// http(s), a host of letters, digits, dots and hyphens, then anything but spaces
	urlPattern = regexp.MustCompile(`^https?://[a-zA-Z0-9][-a-zA-Z0-9.]*[a-zA-Z0-9](:[0-9]+)?(/[^\s]*)?$`)
)

// ErrInvalidURL is returned by ValidateURL.
var ErrInvalidURL = errors.New("invalid url")

// NewLogger returns the JSON logger used by every command. quiet wins over
// verbose.
func NewLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste issues.
// Removes whitespace, trailing punctuation and markdown artifacts.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	for _, char := range []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"} {
		cleaned = strings.TrimSuffix(cleaned, char)
	}
	for _, char := range []string{"(", "[", "<", "\"", "'"} {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// ValidateURL sanitizes rawURL and checks that it is an absolute http(s) URL
// with a plausible host.
func ValidateURL(rawURL string) (string, error) {
	cleaned := SanitizeURL(rawURL)

	if cleaned == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	// Spaces must be pre-encoded as %20.
	if strings.Contains(cleaned, " ") {
		return "", fmt.Errorf("%w: %q contains spaces", ErrInvalidURL, rawURL)
	}
	if !urlPattern.MatchString(cleaned) {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	parsed, err := url.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, parsed.Scheme)
	}
	if parsed.Host == "" || strings.ContainsAny(parsed.Host, "{}[]<>\"'") {
		return "", fmt.Errorf("%w: bad host in %q", ErrInvalidURL, rawURL)
	}

	return cleaned, nil
}

// SanitizeAndValidateURLs sanitizes all URLs and returns (sanitized URLs, invalid URLs).
// Invalid URLs are those that fail validation even after sanitization.
func SanitizeAndValidateURLs(urls []string) ([]string, []string) {
	sanitized := make([]string, 0, len(urls))
	var invalidURLs []string

	for _, rawURL := range urls {
		cleaned, err := ValidateURL(rawURL)
		if err != nil {
			invalidURLs = append(invalidURLs, rawURL)
			continue
		}
		sanitized = append(sanitized, cleaned)
	}

	return sanitized, invalidURLs
}

// SplitList splits a comma separated flag value, dropping blanks.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// BuildParser returns the default pipeline, or one using the selector
// cascade in selectorsFile when it is set.
func BuildParser(selectorsFile string) (*parser.Parser, error) {
	if selectorsFile == "" {
		return parser.New(), nil
	}
	patterns, err := fallback.LoadPatterns(selectorsFile)
	if err != nil {
		return nil, err
	}
	return parser.New(parser.WithFallback(fallback.New(patterns))), nil
}
