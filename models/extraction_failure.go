package models

import (
	"fmt"
	"strings"
)

// ExtractionFailure is returned when neither structured data nor the DOM
// fallback recovered a title, ingredients, or instructions.
type ExtractionFailure struct {
	SourceURL string   `json:"source_url"`
	Missing   []string `json:"missing"`
}

func (e *ExtractionFailure) Error() string {
	return fmt.Sprintf("no recipe found at %s: missing %s", e.SourceURL, strings.Join(e.Missing, ", "))
}
