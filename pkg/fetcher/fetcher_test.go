package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGetHtml(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body><h1>Soup</h1></body></html>"))
	}))
	defer srv.Close()

	body, err := NewFetcher().GetHtml(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetHtml() error: %v", err)
	}
	if !strings.Contains(body, "<h1>Soup</h1>") {
		t.Errorf("GetHtml() body = %q", body)
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, DefaultUserAgent)
	}
}

func TestGetHtml_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<p>moved</p>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	body, err := NewFetcher().GetHtml(context.Background(), srv.URL+"/old")
	if err != nil {
		t.Fatalf("GetHtml() error: %v", err)
	}
	if !strings.Contains(body, "moved") {
		t.Errorf("GetHtml() body = %q", body)
	}
}

func TestGetHtml_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher().GetHtml(context.Background(), srv.URL)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("GetHtml() error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d", statusErr.StatusCode)
	}
}

func TestGetHtml_RejectsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"a":1}`))
	}))
	defer srv.Close()

	_, err := NewFetcher().GetHtml(context.Background(), srv.URL)
	if !errors.Is(err, ErrNotHTML) {
		t.Fatalf("GetHtml() error = %v, want ErrNotHTML", err)
	}
}

func TestGetHtml_DecodesCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "crème" in Latin-1
		w.Write([]byte{'<', 'p', '>', 'c', 'r', 0xe8, 'm', 'e', '<', '/', 'p', '>'})
	}))
	defer srv.Close()

	body, err := NewFetcher().GetHtml(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetHtml() error: %v", err)
	}
	if !strings.Contains(body, "crème") {
		t.Errorf("GetHtml() body = %q, want decoded crème", body)
	}
}

func TestGetHtml_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	f := NewFetcher(WithTimeout(50 * time.Millisecond))
	if _, err := f.GetHtml(context.Background(), srv.URL); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestGetHtml_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<p>x</p>"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFetcher().GetHtml(ctx, srv.URL); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetHtml() error = %v, want context.Canceled", err)
	}
}

func TestIsHTML(t *testing.T) {
	tests := map[string]bool{
		"":                         true,
		"text/html":                true,
		"TEXT/HTML; charset=UTF-8": true,
		"application/xhtml+xml":    true,
		"application/json":         false,
		"image/png":                false,
	}
	for ct, want := range tests {
		if got := isHTML(ct); got != want {
			t.Errorf("isHTML(%q) = %v, want %v", ct, got, want)
		}
	}
}
