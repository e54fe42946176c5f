package fallback

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPatterns_Valid(t *testing.T) {
	if err := DefaultPatterns().Validate(); err != nil {
		t.Fatalf("default patterns invalid: %v", err)
	}
}

func TestParsePatterns(t *testing.T) {
	data := []byte(`
ingredients:
  - selector: ".my-ingredients li"
instructions:
  - selector: ".my-method"
    split: true
`)
	p, err := ParsePatterns(data)
	if err != nil {
		t.Fatalf("ParsePatterns() error: %v", err)
	}

	if len(p.Ingredients) != 1 || p.Ingredients[0].Selector != ".my-ingredients li" {
		t.Errorf("Ingredients = %#v", p.Ingredients)
	}
	if len(p.Instructions) != 1 || !p.Instructions[0].Split {
		t.Errorf("Instructions = %#v", p.Instructions)
	}
	// Untouched groups keep their defaults.
	if len(p.Title) != len(DefaultPatterns().Title) {
		t.Errorf("Title patterns = %#v, want defaults", p.Title)
	}
}

func TestParsePatterns_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "bad yaml", yaml: "ingredients: [", want: "failed to parse"},
		{name: "bad selector", yaml: "ingredients:\n  - selector: 'li[['\n", want: "invalid selector"},
		{name: "empty selector", yaml: "title:\n  - attr: content\n", want: "empty selector"},
		{name: "unknown time key", yaml: "times:\n  rest:\n    - selector: span\n", want: "unknown time key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePatterns([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadPatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selectors.yaml")
	if err := os.WriteFile(path, []byte("title:\n  - selector: h2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPatterns(path)
	if err != nil {
		t.Fatalf("LoadPatterns() error: %v", err)
	}
	if len(p.Title) != 1 || p.Title[0].Selector != "h2" {
		t.Errorf("Title = %#v", p.Title)
	}

	if _, err := LoadPatterns(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCustomPatternsDriveExtraction(t *testing.T) {
	p, err := ParsePatterns([]byte("ingredients:\n  - selector: '.my-ingredients span'\n"))
	if err != nil {
		t.Fatal(err)
	}
	doc := docFromHTML(t, `<html><body>
		<div class="my-ingredients"><span>3 apples</span><span>1 pear</span></div>
		<ul><li class="ingredient">ignored</li></ul>
	</body></html>`)

	got := New(p).Ingredients(doc)
	if len(got) != 2 || got[0] != "3 apples" || got[1] != "1 pear" {
		t.Errorf("Ingredients() = %#v", got)
	}
}
