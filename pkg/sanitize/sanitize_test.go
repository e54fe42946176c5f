package sanitize

import (
	"reflect"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: " \n\t ", want: ""},
		{name: "collapse whitespace", input: "  2 cups\n\n flour\t sifted ", want: "2 cups flour sifted"},
		{name: "non-breaking space", input: "1\u00a0tsp\u00a0salt", want: "1 tsp salt"},
		{name: "zero-width space", input: "sal\u200bt", want: "salt"},
		{name: "bullet", input: "• 2 eggs", want: "2 eggs"},
		{name: "bullet without space", input: "•2 eggs", want: "2 eggs"},
		{name: "dash", input: "- 1 onion, diced", want: "1 onion, diced"},
		{name: "numbered dot", input: "1. Preheat the oven.", want: "Preheat the oven."},
		{name: "numbered paren", input: "2) Whisk the eggs.", want: "Whisk the eggs."},
		{name: "stacked prefixes", input: "1. - Stir well.", want: "Stir well."},
		{name: "decimal is not a prefix", input: "1.5 cups milk", want: "1.5 cups milk"},
		{name: "leading quantity kept", input: "2 cups flour", want: "2 cups flour"},
		{name: "negative temperature kept", input: "-5°C freezer", want: "-5°C freezer"},
		{
			name:  "run-on repair",
			input: "Cabernet Sauvignon3 ribs celery2 medium parsnips",
			want:  "Cabernet Sauvignon 3 ribs celery 2 medium parsnips",
		},
		{name: "digit then letter", input: "350F oven", want: "350 F oven"},
		{name: "over-split is accepted", input: "2x4 board", want: "2 x 4 board"},
		{name: "nfc composition", input: "cre\u0300me frai\u0302che", want: "cr\u00e8me fra\u00eeche"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"1. 2. 3. done",
		"• - * 4 eggs",
		"Cabernet Sauvignon3 ribs celery2 medium parsnips",
		"H2O2 and CO2",
		"sal\u200bt and e\u200b\u0301",
		"1.",
		"- ",
		"Step1:mix 2cups",
		"½cup sugar",
		"    — 12)3 apples",
		"«Bake» at 180°C for 20min.",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestLines(t *testing.T) {
	got := Lines("Mix the flour.\r\n\r\n  Add   eggs.\nBake.")
	want := []string{"Mix the flour.", "Add eggs.", "Bake."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %#v, want %#v", got, want)
	}
	if got := Lines(" \n "); got != nil {
		t.Errorf("Lines(blank) = %#v, want nil", got)
	}
}

func TestSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "three sentences",
			input: "Preheat the oven. Mix everything! Is it smooth? Bake it.",
			want:  []string{"Preheat the oven.", "Mix everything!", "Is it smooth?", "Bake it."},
		},
		{
			name:  "decimal does not split",
			input: "Add 1.5 cups of milk. Stir.",
			want:  []string{"Add 1.5 cups of milk.", "Stir."},
		},
		{
			name:  "lower case continuation does not split",
			input: "Add approx. two cups.",
			want:  []string{"Add approx. two cups."},
		},
		{
			name:  "closing quote stays with sentence",
			input: `Say "done." Then serve.`,
			want:  []string{`Say "done."`, "Then serve."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sentences(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sentences(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEndsSentence(t *testing.T) {
	tests := map[string]bool{
		"Done.":           true,
		"Really?":         true,
		"Wow!":            true,
		`He said "yes."`:  true,
		"Continue…":       true,
		"Read more":       false,
		"":                false,
		"(see note.)":     true,
		"Photo: J. Smith": false,
	}
	for in, want := range tests {
		if got := EndsSentence(in); got != want {
			t.Errorf("EndsSentence(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Just text", want: "Just text"},
		{name: "entities", input: "Salt &amp; pepper &frac12; tsp", want: "Salt & pepper ½ tsp"},
		{name: "inline tags", input: "Mix <strong>well</strong>.", want: "Mix well."},
		{name: "breaks become newlines", input: "Mix.<br>Bake.<br/>Serve.", want: "Mix.\nBake.\nServe."},
		{name: "script dropped", input: "Hi<script>alert(1)</script> there", want: "Hi there"},
		{name: "literal less-than", input: "5 < 6", want: "5 < 6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.input); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestText(t *testing.T) {
	if got := Text("<p>Grandma's   <em>best</em></p>\n<p>cookies</p>"); got != "Grandma's best cookies" {
		t.Errorf("Text() = %q", got)
	}
	// Titles keep glued tokens.
	if got := Text("Pho2Go Noodles"); got != "Pho2Go Noodles" {
		t.Errorf("Text() = %q, want unchanged", got)
	}
}
