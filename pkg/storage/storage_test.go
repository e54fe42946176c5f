package storage

import (
	"strings"
	"testing"
	"time"
)

func TestSavePath(t *testing.T) {
	day := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		url  string
		ext  string
		want string
	}{
		{"host only", "https://example.com", "json", "example_com-2024-03-09.json"},
		{"with path", "https://www.bbc.co.uk/food/recipes/soup.html", "yaml", "www_bbc_co_uk-food-recipes-soup_html-2024-03-09.yaml"},
		{"trailing slash", "https://example.com/bread/", "json", "example_com-bread-2024-03-09.json"},
		{"port", "http://localhost:8080/x", "json", "localhost_8080-x-2024-03-09.json"},
		{"default ext", "https://example.com/a", "", "example_com-a-2024-03-09.json"},
		{"not a url", "some/local/page", "json", "some_local_page-2024-03-09.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SavePath(tt.url, tt.ext, day); got != tt.want {
				t.Errorf("SavePath(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestSaveAndReadFile(t *testing.T) {
	s := &Storage{Dir: t.TempDir()}

	if s.HasFile("nested/out.json") {
		t.Fatal("HasFile() true before save")
	}
	if err := s.SaveFile("nested/out.json", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("SaveFile() error: %v", err)
	}
	if !s.HasFile("nested/out.json") {
		t.Fatal("HasFile() false after save")
	}

	data, err := s.ReadFile("nested/out.json")
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("ReadFile() = %q", data)
	}

	stats, err := s.GetFileStats("nested/out.json")
	if err != nil {
		t.Fatalf("GetFileStats() error: %v", err)
	}
	if stats.SizeBytes != 7 {
		t.Errorf("SizeBytes = %d, want 7", stats.SizeBytes)
	}
}

func TestEncodeDecode(t *testing.T) {
	type doc struct {
		Title string   `json:"title" yaml:"title"`
		Tags  []string `json:"tags" yaml:"tags"`
	}
	in := doc{Title: "Soup", Tags: []string{"easy"}}

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			data, err := Encode(in, format)
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			if !strings.Contains(string(data), "Soup") {
				t.Errorf("Encode() = %s", data)
			}
			var out doc
			if err := Decode(data, "."+format, &out); err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if out.Title != in.Title || len(out.Tags) != 1 {
				t.Errorf("Decode() = %#v", out)
			}
		})
	}

	if _, err := Encode(in, "xml"); err == nil {
		t.Error("Encode(xml) should fail")
	}
}
