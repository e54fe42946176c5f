package article

import (
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/recipe-extractor/models"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing html: %v", err)
	}
	return doc
}

func heading(s string) *string { return &s }

func TestSegment_Basic(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
		<nav><p>Home | Recipes | About us and more links here.</p></nav>
		<article>
			<p>This soup has been in my family for three generations.</p>
			<h2>Why it works</h2>
			<p>Roasting the vegetables first builds a deep flavor.</p>
			<p>Short bit</p>
			<h3>Storage</h3>
			<p>Keeps for four days in the fridge.</p>
		</article>
	</body></html>`)

	got := NewSegmenter().Segment(doc)
	want := []models.ArticleSection{
		{Heading: nil, Paragraphs: []string{"This soup has been in my family for three generations."}},
		{Heading: heading("Why it works"), Paragraphs: []string{"Roasting the vegetables first builds a deep flavor."}},
		{Heading: heading("Storage"), Paragraphs: []string{"Keeps for four days in the fridge."}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Segment() = %s, want %s", dump(got), dump(want))
	}
}

func TestSegment_MergesHeadingsAroundBoilerplate(t *testing.T) {
	doc := docFromHTML(t, `<html><body><article>
		<h2>Tips</h2>
		<p>Use cold butter for the flakiest crust.</p>
		<div class="newsletter-signup">
			<h2>Get our newsletter</h2>
			<p>Subscribe for weekly recipes delivered to you.</p>
		</div>
		<h2>Tips</h2>
		<p>Chill the dough for at least an hour.</p>
	</article></body></html>`)

	got := NewSegmenter().Segment(doc)
	want := []models.ArticleSection{
		{Heading: heading("Tips"), Paragraphs: []string{
			"Use cold butter for the flakiest crust.",
			"Chill the dough for at least an hour.",
		}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Segment() = %s, want %s", dump(got), dump(want))
	}
}

func TestSegment_EmptyHeadingSeparatesSections(t *testing.T) {
	doc := docFromHTML(t, `<html><body><article>
		<h2>Tips</h2>
		<p>Use cold butter for the flakiest crust.</p>
		<h2>Notes</h2>
		<h2>Tips</h2>
		<p>Chill the dough for at least an hour.</p>
	</article></body></html>`)

	got := NewSegmenter().Segment(doc)
	want := []models.ArticleSection{
		{Heading: heading("Tips"), Paragraphs: []string{"Use cold butter for the flakiest crust."}},
		{Heading: heading("Tips"), Paragraphs: []string{"Chill the dough for at least an hour."}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Segment() = %s, want %s", dump(got), dump(want))
	}
}

func TestSegment_BoilerplateHeadingKeepsSectionOpen(t *testing.T) {
	doc := docFromHTML(t, `<html><body><article>
		<h2>Tips</h2>
		<p>Use cold butter for the flakiest crust.</p>
		<h2>Read more about butter</h2>
		<p>Chill the dough for at least an hour.</p>
	</article></body></html>`)

	got := NewSegmenter().Segment(doc)
	want := []models.ArticleSection{
		{Heading: heading("Tips"), Paragraphs: []string{
			"Use cold butter for the flakiest crust.",
			"Chill the dough for at least an hour.",
		}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Segment() = %s, want %s", dump(got), dump(want))
	}
}

func TestSegment_DropsLinkDominatedParagraph(t *testing.T) {
	doc := docFromHTML(t, `<html><body><article>
		<h2>More</h2>
		<p><a href="/a">Best chocolate chip cookies</a> and <a href="/b">easy banana bread</a></p>
		<p>Bake until the edges are golden, about twelve minutes.</p>
	</article></body></html>`)

	got := NewSegmenter().Segment(doc)
	want := []models.ArticleSection{
		{Heading: heading("More"), Paragraphs: []string{"Bake until the edges are golden, about twelve minutes."}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Segment() = %s, want %s", dump(got), dump(want))
	}
}

func TestSegment_PhraseFilters(t *testing.T) {
	doc := docFromHTML(t, `<html><body><main>
		<p>Read more: our guide to knife skills and everything else.</p>
		<p>Sponsored</p>
		<p>Fresh herbs make all the difference in this sauce.</p>
		<h2>You may also like</h2>
		<p>Toss the pasta with the sauce while both are hot.</p>
	</main></body></html>`)

	got := NewSegmenter().Segment(doc)
	want := []models.ArticleSection{
		{Heading: nil, Paragraphs: []string{
			"Fresh herbs make all the difference in this sauce.",
			"Toss the pasta with the sauce while both are hot.",
		}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Segment() = %s, want %s", dump(got), dump(want))
	}
}

func TestSegment_ContainerPriority(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
		<p>Footer-ish text outside the content block, quite long.</p>
		<div class="entry-content">
			<p>Inside the entry content wrapper, this is narrative.</p>
		</div>
	</body></html>`)

	got := NewSegmenter().Segment(doc)
	if len(got) != 1 || got[0].Paragraphs[0] != "Inside the entry content wrapper, this is narrative." {
		t.Errorf("Segment() = %s", dump(got))
	}
}

func TestSegment_ShortSentenceKept(t *testing.T) {
	doc := docFromHTML(t, `<html><body><article><p>Enjoy!</p><p>Photo credit</p></article></body></html>`)
	got := NewSegmenter().Segment(doc)
	want := []models.ArticleSection{{Heading: nil, Paragraphs: []string{"Enjoy!"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Segment() = %s, want %s", dump(got), dump(want))
	}
}

func TestSegment_EmptyPage(t *testing.T) {
	doc := docFromHTML(t, `<html><body></body></html>`)
	if got := NewSegmenter().Segment(doc); len(got) != 0 {
		t.Errorf("Segment() = %s, want none", dump(got))
	}
}

func TestParagraphs(t *testing.T) {
	sections := []models.ArticleSection{
		{Heading: nil, Paragraphs: []string{"One.", "Two."}},
		{Heading: heading("H"), Paragraphs: []string{"two.", "Three."}},
	}
	got := Paragraphs(sections)
	if want := []string{"One.", "Two.", "Three."}; !reflect.DeepEqual(got, want) {
		t.Errorf("Paragraphs() = %#v, want %#v", got, want)
	}
}

func dump(sections []models.ArticleSection) string {
	var sb strings.Builder
	for _, s := range sections {
		sb.WriteString("[")
		sb.WriteString(s.HeadingText())
		sb.WriteString(": ")
		sb.WriteString(strings.Join(s.Paragraphs, " | "))
		sb.WriteString("] ")
	}
	return sb.String()
}
