// Package parser runs the full normalization pipeline over one HTML
// document: structured data first, then the DOM fallback for whatever is
// still missing, then article segmentation.
package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/recipe-extractor/models"
	"github.com/dtnitsch/recipe-extractor/pkg/article"
	"github.com/dtnitsch/recipe-extractor/pkg/fallback"
	"github.com/dtnitsch/recipe-extractor/pkg/jsonld"
	"github.com/dtnitsch/recipe-extractor/pkg/normalizer"
)

// Parser holds the immutable configuration of the pipeline and may be
// shared between goroutines.
type Parser struct {
	fallback  *fallback.Extractor
	segmenter *article.Segmenter
	now       func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithFallback replaces the default DOM selector cascade.
func WithFallback(fb *fallback.Extractor) Option {
	return func(p *Parser) { p.fallback = fb }
}

// WithClock sets the source of ExtractedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

func New(opts ...Option) *Parser {
	p := &Parser{
		fallback:  fallback.NewDefault(),
		segmenter: article.NewSegmenter(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// Normalize runs the default pipeline over html fetched from sourceURL.
func Normalize(html, sourceURL string) (*models.Recipe, error) {
	return defaultParser.Parse(models.ParseRequest{URL: sourceURL, HTML: html})
}

// Parse builds a Recipe from req. When title, ingredients and instructions
// all stay empty it returns a *models.ExtractionFailure.
func (p *Parser) Parse(req models.ParseRequest) (*models.Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(req.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	fields := normalizer.Normalize(jsonld.Locate(doc))

	recipe := &models.Recipe{
		SchemaVersion: models.SchemaVersion,
		SourceURL:     req.URL,
		Title:         fields.Title,
		Description:   fields.Description,
		Ingredients:   fields.Ingredients,
		Instructions:  fields.Instructions,
		RecipeYield:   fields.Yield,
		Times:         fields.Times,
		Nutrition:     fields.Nutrition,
		Tags:          fields.Tags,
		Author:        fields.Author,
		ExtractedAt:   p.now().UTC(),
	}

	p.topUp(doc, req, recipe)

	if !req.SkipArticle {
		recipe.ArticleSections = p.segmenter.Segment(doc)
	}
	fillEmpty(recipe)

	if recipe.Empty() {
		return nil, &models.ExtractionFailure{
			SourceURL: req.URL,
			Missing:   recipe.MissingFields(),
		}
	}
	return recipe, nil
}

// topUp fills each missing field independently from the DOM.
func (p *Parser) topUp(doc *goquery.Document, req models.ParseRequest, r *models.Recipe) {
	fb := p.fallback

	if r.Title == "" {
		r.Title = fb.Title(doc)
	}
	if r.Description == "" {
		r.Description = fb.Description(doc)
	}
	if len(r.Ingredients) == 0 {
		r.Ingredients = fb.Ingredients(doc)
	}
	if len(r.Instructions) == 0 {
		r.Instructions = fb.Instructions(doc)
	}
	if r.Author == "" {
		r.Author = fb.Author(doc)
	}
	if r.RecipeYield == "" {
		r.RecipeYield = fb.Yield(doc)
	}

	if r.Times == nil {
		r.Times = make(map[string]models.Duration)
	}
	for key, d := range fb.Times(doc) {
		if _, ok := r.Times[key]; !ok {
			r.Times[key] = d
		}
	}

	if r.Description == "" || r.Author == "" {
		hints := fallback.ReadabilityHints(req.HTML, req.URL)
		if r.Description == "" {
			r.Description = hints.Excerpt
		}
		if r.Author == "" {
			r.Author = hints.Byline
		}
	}
}

// fillEmpty replaces nil collections so records always serialize with
// empty lists and maps instead of null.
func fillEmpty(r *models.Recipe) {
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.Times == nil {
		r.Times = map[string]models.Duration{}
	}
	if r.Nutrition == nil {
		r.Nutrition = map[string]any{}
	}
	if r.ArticleSections == nil {
		r.ArticleSections = []models.ArticleSection{}
	}
}
