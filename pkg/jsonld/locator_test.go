package jsonld

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing html: %v", err)
	}
	return doc
}

func page(blocks ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><head>")
	for _, b := range blocks {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.WriteString(b)
		sb.WriteString("</script>")
	}
	sb.WriteString("</head><body><p>hi</p></body></html>")
	return sb.String()
}

func TestBlocks(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{"a":1}</script>
<script type="text/javascript">var x = {"a":2};</script>
<script type="Application/LD+JSON; charset=utf-8">{"b":1}</script>
<script type="application/ld+json">   </script>
</head><body></body></html>`

	blocks := Blocks(docFromHTML(t, html))
	if len(blocks) != 2 {
		t.Fatalf("Blocks() returned %d blocks, want 2: %v", len(blocks), blocks)
	}
	if blocks[0] != `{"a":1}` || blocks[1] != `{"b":1}` {
		t.Errorf("Blocks() = %v", blocks)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		block   string
		wantErr bool
	}{
		{name: "object", block: `{"@type":"Recipe"}`},
		{name: "array", block: `[{"@type":"Recipe"}]`},
		{name: "html comment wrapper", block: `<!-- {"@type":"Recipe"} -->`},
		{name: "cdata wrapper", block: "//<![CDATA[\n{\"@type\":\"Recipe\"}\n//]]>"},
		{name: "trailing semicolon", block: `{"@type":"Recipe"};`},
		{name: "trailing commas repaired", block: `{"@type":"Recipe","recipeIngredient":["a","b",],}`},
		{name: "broken beyond repair", block: `{"@type": "Recipe", "name": }`, wantErr: true},
		{name: "no json", block: `hello`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.block)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Decode(%q) expected error, got %v", tt.block, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode(%q) error: %v", tt.block, err)
			}
			if len(Candidates(got)) != 1 {
				t.Errorf("Decode(%q) payload has no Recipe candidate: %#v", tt.block, got)
			}
		})
	}
}

func TestDecode_EmptyBlock(t *testing.T) {
	if _, err := Decode("   "); !errors.Is(err, ErrEmptyBlock) {
		t.Errorf("Decode(blank) error = %v, want ErrEmptyBlock", err)
	}
}

func TestDecode_UsesNumbers(t *testing.T) {
	got, err := Decode(`{"calories": 250}`)
	if err != nil {
		t.Fatal(err)
	}
	m := got.(map[string]any)
	if _, ok := m["calories"].(json.Number); !ok {
		t.Errorf("calories decoded as %T, want json.Number", m["calories"])
	}
}

func TestCandidates_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  int
	}{
		{name: "bare object", block: `{"@type":"Recipe","name":"A"}`, want: 1},
		{name: "type list", block: `{"@type":["Thing","recipe"],"name":"A"}`, want: 1},
		{name: "schema iri", block: `{"@type":"http://schema.org/Recipe"}`, want: 1},
		{name: "array", block: `[{"@type":"WebPage"},{"@type":"Recipe"}]`, want: 1},
		{name: "graph", block: `{"@context":"https://schema.org","@graph":[{"@type":"WebSite"},{"@type":"Recipe"}]}`, want: 1},
		{name: "main entity", block: `{"@type":"WebPage","mainEntity":{"@type":"Recipe"}}`, want: 1},
		{name: "main entity list", block: `{"@type":"WebPage","mainEntity":[{"@type":"Recipe"},{"@type":"Recipe"}]}`, want: 2},
		{name: "item list", block: `{"@type":"ItemList","itemListElement":[{"@type":"ListItem","item":{"@type":"Recipe"}}]}`, want: 1},
		{name: "no recipe", block: `{"@type":"Article","name":"A"}`, want: 0},
		{name: "unrelated key not searched", block: `{"@type":"WebPage","author":{"@type":"Recipe"}}`, want: 0},
		{name: "substring type rejected", block: `{"@type":"RecipeCollection"}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := Decode(tt.block)
			if err != nil {
				t.Fatal(err)
			}
			if got := len(Candidates(payload)); got != tt.want {
				t.Errorf("Candidates() found %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCandidates_DepthLimit(t *testing.T) {
	block := strings.Repeat(`{"@graph":[`, 40) + `{"@type":"Recipe"}` + strings.Repeat(`]}`, 40)
	payload, err := Decode(block)
	if err != nil {
		t.Fatal(err)
	}
	if got := Candidates(payload); len(got) != 0 {
		t.Errorf("expected depth limit to stop the walk, found %d", len(got))
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		want   int
	}{
		{name: "empty", fields: map[string]any{}, want: 0},
		{name: "name only", fields: map[string]any{"name": "Soup"}, want: 1},
		{name: "blank name", fields: map[string]any{"name": "  "}, want: 0},
		{
			name: "complete",
			fields: map[string]any{
				"name":               "Soup",
				"recipeIngredient":   []any{"water"},
				"recipeInstructions": "Boil.",
			},
			want: 3,
		},
		{
			name: "legacy ingredients key",
			fields: map[string]any{
				"ingredients": []any{"water"},
			},
			want: 1,
		},
		{
			name: "empty lists",
			fields: map[string]any{
				"recipeIngredient":   []any{""},
				"recipeInstructions": []any{},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(Candidate{Fields: tt.fields}); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLocate(t *testing.T) {
	t.Run("no blocks", func(t *testing.T) {
		if got := Locate(docFromHTML(t, page())); got != nil {
			t.Errorf("Locate() = %#v, want nil", got)
		}
	})

	t.Run("malformed block skipped", func(t *testing.T) {
		doc := docFromHTML(t, page(`{not json`, `{"@type":"Recipe","name":"Good"}`))
		got := Locate(doc)
		if got == nil || got.Get("name") != "Good" {
			t.Fatalf("Locate() = %#v", got)
		}
	})

	t.Run("most complete wins across blocks", func(t *testing.T) {
		doc := docFromHTML(t, page(
			`{"@type":"Recipe","name":"Stub"}`,
			`{"@graph":[{"@type":"Recipe","name":"Full","recipeIngredient":["a"],"recipeInstructions":["b"]}]}`,
		))
		got := Locate(doc)
		if got == nil || got.Get("name") != "Full" {
			t.Fatalf("Locate() = %#v", got)
		}
	})

	t.Run("tie goes to first", func(t *testing.T) {
		doc := docFromHTML(t, page(`[{"@type":"Recipe","name":"First"},{"@type":"Recipe","name":"Second"}]`))
		got := Locate(doc)
		if got == nil || got.Get("name") != "First" {
			t.Fatalf("Locate() = %#v", got)
		}
	})
}
