package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

const (
	DefaultTimeout   = 20 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; RecipeExtractor/1.0)"

	// maxBodyBytes caps how much of a page is read.
	maxBodyBytes = 10 << 20
)

// ErrNotHTML is returned when the response is not an HTML document.
var ErrNotHTML = errors.New("response is not html")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s, status code: %d", e.URL, e.StatusCode)
}

type Fetcher struct {
	client    *http.Client
	userAgent string
}

type Option func(*Fetcher)

// WithTimeout sets the overall per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithClient replaces the HTTP client. Its timeout is kept as is.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// GetHtml fetches url and returns the page as UTF-8 text.
func (f *Fetcher) GetHtml(ctx context.Context, url string) (string, error) {
	body, err := f.GetHtmlBytes(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetDocument fetches url and parses it.
func (f *Fetcher) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := f.GetHtml(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// GetHtmlBytes fetches url, follows redirects, rejects non-2xx and non-HTML
// responses, and decodes the body to UTF-8 using the declared or sniffed
// charset.
func (f *Fetcher) GetHtmlBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return nil, fmt.Errorf("%w: content type %q", ErrNotHTML, contentType)
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response charset: %w", err)
	}
	bodyBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return bodyBytes, nil
}

// isHTML accepts HTML and XHTML. A missing content type is let through and
// left to the parser.
func isHTML(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return true
	}
	return false
}
