package extract

import (
	"errors"

	"github.com/dtnitsch/recipe-extractor/models"
)

// Error types reported per URL.
const (
	ErrFetch      = "fetch_error"
	ErrParse      = "parse_error"
	ErrExtraction = "extraction_failure"
	ErrSave       = "save_error"
)

// Job is one page to process. HTML is set when the page was read from disk
// instead of fetched.
type Job struct {
	Index int
	URL   string
	HTML  string
}

// Result holds the outcome of a processed job.
type Result struct {
	Index         int
	URL           string
	FilePath      string
	Recipe        *models.Recipe
	Error         error
	ErrorType     string
	WordCounts    map[string]int
	FileSizeBytes int64
}

// ResultOutput is the structured output for a single URL.
type ResultOutput struct {
	URL       string         `json:"url" yaml:"url"`
	Status    string         `json:"status" yaml:"status"`
	FilePath  string         `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	Error     string         `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorType string         `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	Missing   []string       `json:"missing,omitempty" yaml:"missing,omitempty"`
	Recipe    *models.Recipe `json:"recipe,omitempty" yaml:"recipe,omitempty"`
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	Status  string         `json:"status" yaml:"status"`
	Results []ResultOutput `json:"results" yaml:"results"`
	Stats   Stats          `json:"stats" yaml:"stats"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	TotalURLs        int      `json:"total_urls" yaml:"total_urls"`
	Successful       int      `json:"successful" yaml:"successful"`
	Failed           int      `json:"failed" yaml:"failed"`
	TotalTimeSeconds float64  `json:"total_time_seconds" yaml:"total_time_seconds"`
	TopKeywords      []string `json:"top_keywords,omitempty" yaml:"top_keywords,omitempty"`
}

// BuildOutput turns one result into its output row. The record is inlined
// only when it was not written to a file.
func BuildOutput(r Result) ResultOutput {
	out := ResultOutput{URL: r.URL, FilePath: r.FilePath}
	if r.Error != nil {
		out.Status = "failed"
		out.Error = r.Error.Error()
		out.ErrorType = r.ErrorType
		var failure *models.ExtractionFailure
		if errors.As(r.Error, &failure) {
			out.Missing = failure.Missing
		}
		return out
	}
	out.Status = "success"
	if r.FilePath == "" {
		out.Recipe = r.Recipe
	}
	return out
}

// ExitCode is 0 when every URL succeeded, 2 when all failed, and 1
// otherwise.
func (s Stats) ExitCode() int {
	switch {
	case s.Failed == 0:
		return 0
	case s.Failed == s.TotalURLs:
		return 2
	default:
		return 1
	}
}

// RunStatus summarizes the run for FinalOutput.Status.
func (s Stats) RunStatus() string {
	switch s.ExitCode() {
	case 0:
		return "success"
	case 2:
		return "failure"
	default:
		return "partial_failure"
	}
}
