package manifest

// SummaryManifest is the summary.json written next to a batch of extracted
// records. It lets a reader see which URLs produced a recipe without opening
// every file.
type SummaryManifest struct {
	GeneratedAt       string       `json:"generated_at"`
	TotalURLs         int          `json:"total_urls"`
	Successful        int          `json:"successful"`
	Failed            int          `json:"failed"`
	AggregateKeywords []string     `json:"aggregate_keywords"`
	Results           []URLSummary `json:"results"`
}

// URLSummary represents summary information for a single URL.
type URLSummary struct {
	URL              string   `json:"url"`
	FilePath         string   `json:"file_path,omitempty"`
	Status           string   `json:"status"` // "success" or "error"
	ErrorType        string   `json:"error_type,omitempty"`
	ErrorMessage     string   `json:"error_message,omitempty"`
	Missing          []string `json:"missing,omitempty"`
	SizeBytes        int64    `json:"size_bytes,omitempty"`
	Title            string   `json:"title,omitempty"`
	IngredientCount  int      `json:"ingredient_count,omitempty"`
	InstructionCount int      `json:"instruction_count,omitempty"`
	SectionCount     int      `json:"section_count,omitempty"`
	TopKeywords      []string `json:"top_keywords,omitempty"`
}
