package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/recipe-extractor/models"
	"github.com/dtnitsch/recipe-extractor/pkg/analytics"
	"github.com/dtnitsch/recipe-extractor/pkg/storage"
)

// FileName is the manifest's name inside the output directory.
const FileName = "summary.json"

const keywordLimit = 25

// FetchResult is the outcome of extracting a single URL.
type FetchResult struct {
	URL           string
	FilePath      string
	Recipe        *models.Recipe
	Error         error
	ErrorType     string
	WordCounts    map[string]int
	FileSizeBytes int64
}

// Build aggregates results into a manifest stamped with now.
func Build(results []FetchResult, now time.Time) SummaryManifest {
	m := SummaryManifest{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		TotalURLs:   len(results),
		Results:     make([]URLSummary, 0, len(results)),
	}

	var counts []map[string]int
	for _, result := range results {
		summary := URLSummary{URL: result.URL}

		if result.Error != nil {
			m.Failed++
			summary.Status = "error"
			summary.ErrorType = result.ErrorType
			summary.ErrorMessage = result.Error.Error()
			var failure *models.ExtractionFailure
			if errors.As(result.Error, &failure) {
				summary.Missing = failure.Missing
			}
			m.Results = append(m.Results, summary)
			continue
		}

		m.Successful++
		summary.Status = "success"
		summary.FilePath = result.FilePath
		summary.SizeBytes = result.FileSizeBytes
		if r := result.Recipe; r != nil {
			summary.Title = r.Title
			summary.IngredientCount = len(r.Ingredients)
			summary.InstructionCount = len(r.Instructions)
			summary.SectionCount = len(r.ArticleSections)
		}
		if result.WordCounts != nil {
			summary.TopKeywords = analytics.TopKeywords(result.WordCounts, keywordLimit)
			counts = append(counts, result.WordCounts)
		}
		m.Results = append(m.Results, summary)
	}

	m.AggregateKeywords = analytics.TopKeywords(analytics.Reduce(counts), keywordLimit)
	return m
}

// GenerateSummary builds the manifest for results and saves it as
// summary.json through s. It returns the path it wrote.
func GenerateSummary(results []FetchResult, s *storage.Storage) (string, error) {
	m := Build(results, time.Now())

	manifestData, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error marshalling manifest: %w", err)
	}
	if err := s.SaveFile(FileName, manifestData); err != nil {
		return "", fmt.Errorf("error saving manifest: %w", err)
	}
	return FileName, nil
}
