package models

// ParseRequest is the input to the normalization pipeline: a fetched HTML
// document and the URL it came from.
type ParseRequest struct {
	URL  string
	HTML string

	// Optional knobs
	SkipArticle bool `json:"skip_article,omitempty"`
}
