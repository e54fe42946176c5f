package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/recipe-extractor/internal/common"
	"github.com/dtnitsch/recipe-extractor/models"
	"github.com/dtnitsch/recipe-extractor/pkg/analytics"
	"github.com/dtnitsch/recipe-extractor/pkg/db"
	"github.com/dtnitsch/recipe-extractor/pkg/fetcher"
	"github.com/dtnitsch/recipe-extractor/pkg/manifest"
	"github.com/dtnitsch/recipe-extractor/pkg/storage"
)

const keywordLimit = 25

// Flags are the options of the extract command.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "urls", Usage: "comma separated recipe URLs"},
		&cli.StringFlag{Name: "file", Usage: "read a saved HTML page instead of fetching"},
		&cli.StringFlag{Name: "source-url", Usage: "source URL recorded for --file"},
		&cli.IntFlag{Name: "workers", Value: 4, Usage: "concurrent workers"},
		&cli.StringFlag{Name: "format", Value: storage.FormatJSON, Usage: "json or yaml"},
		&cli.StringFlag{Name: "output-dir", Usage: "write one file per recipe plus summary.json here"},
		&cli.BoolFlag{Name: "store", Usage: "save records and attempts in SQLite"},
		&cli.StringFlag{Name: "db", EnvVars: []string{"RECIPE_DB"}, Usage: "SQLite path (default: next to the binary)"},
		&cli.StringFlag{Name: "selectors", EnvVars: []string{"RECIPE_SELECTORS"}, Usage: "YAML selector cascade overriding the defaults"},
		&cli.BoolFlag{Name: "no-sections", Usage: "skip article segmentation"},
		&cli.DurationFlag{Name: "timeout", Value: fetcher.DefaultTimeout, Usage: "per-page fetch timeout"},
	}
}

// configFromFlags builds the runtime config. All values come from flags.
func configFromFlags(c *cli.Context) models.ExtractConfig {
	return models.ExtractConfig{
		URLs:          common.SplitList(c.String("urls")),
		WorkerCount:   c.Int("workers"),
		Format:        c.String("format"),
		OutputDir:     c.String("output-dir"),
		SelectorsFile: c.String("selectors"),
		Store:         c.Bool("store"),
		DBPath:        c.String("db"),
		SkipArticle:   c.Bool("no-sections"),
		Timeout:       c.Duration("timeout"),
	}
}

func ExtractAction(c *cli.Context) error {
	logger := common.NewLogger(os.Stderr, c.Bool("quiet"), c.Bool("verbose"))
	startTime := time.Now()
	config := configFromFlags(c)

	if _, err := storage.Encode(struct{}{}, config.Format); err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}

	jobs, err := buildJobs(c, config)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	p, err := common.BuildParser(config.SelectorsFile)
	if err != nil {
		logger.Error("failed to load selectors", "file", config.SelectorsFile, "error", err)
		return cli.Exit("", 2)
	}

	runner := &Runner{
		Logger:      logger,
		Fetcher:     fetcher.NewFetcher(fetcher.WithTimeout(config.Timeout)),
		Parser:      p,
		Analytics:   &analytics.Analytics{},
		Format:      config.Format,
		Workers:     config.WorkerCount,
		SkipArticle: config.SkipArticle,
	}

	if config.OutputDir != "" {
		runner.Storage = &storage.Storage{Dir: config.OutputDir}
	}

	if config.Store {
		database, err := db.Open(config.DBPath)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			return cli.Exit("", 2)
		}
		defer database.Close()
		runner.Store = database
		logger.Info("Storing records", "db", database.Path())
	}

	results := runner.Run(c.Context, jobs)

	if runner.Storage != nil {
		manifestPath, err := manifest.GenerateSummary(toManifestResults(results), runner.Storage)
		if err != nil {
			logger.Error("Error generating summary manifest", "error", err)
		} else {
			logger.Info("Summary manifest saved", "path", filepath.Join(config.OutputDir, manifestPath))
		}
	}

	finalOutput := BuildFinalOutput(results, time.Since(startTime))
	outputData, err := storage.Encode(finalOutput, config.Format)
	if err != nil {
		logger.Error("failed to marshal final output", "error", err)
		return cli.Exit("", 2)
	}
	fmt.Fprintln(c.App.Writer, string(outputData))

	if code := finalOutput.Stats.ExitCode(); code != 0 {
		return cli.Exit("", code)
	}
	return nil
}

// buildJobs reads --file or validates --urls.
func buildJobs(c *cli.Context, config models.ExtractConfig) ([]Job, error) {
	if path := c.String("file"); path != "" {
		if len(config.URLs) > 0 {
			return nil, errors.New("Error: use either --urls or --file, not both")
		}
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("Error: failed to read %s: %w", path, err)
		}
		sourceURL := c.String("source-url")
		if sourceURL == "" {
			abs, err := filepath.Abs(path)
			if err != nil {
				return nil, fmt.Errorf("Error: %w", err)
			}
			sourceURL = "file://" + filepath.ToSlash(abs)
		} else if sourceURL, err = common.ValidateURL(sourceURL); err != nil {
			return nil, fmt.Errorf("Error: %w", err)
		}
		return []Job{{URL: sourceURL, HTML: string(data)}}, nil
	}

	if len(config.URLs) == 0 {
		return nil, fmt.Errorf("Error: No URLs provided\n\nUsage:\n" +
			"  recipe-extractor extract --urls \"https://example.com/recipe\"\n" +
			"  recipe-extractor extract --file page.html --source-url https://example.com/recipe")
	}

	sanitized, invalid := common.SanitizeAndValidateURLs(config.URLs)
	if len(invalid) > 0 {
		msg := fmt.Sprintf("Error: %d URL(s) are malformed (even after cleanup):", len(invalid))
		for _, bad := range invalid {
			msg += "\n  - " + bad
		}
		return nil, errors.New(msg)
	}

	jobs := make([]Job, len(sanitized))
	for i, u := range sanitized {
		jobs[i] = Job{Index: i, URL: u}
	}
	return jobs, nil
}

// BuildFinalOutput aggregates results into the document printed on stdout.
func BuildFinalOutput(results []Result, elapsed time.Duration) FinalOutput {
	stats := Stats{
		TotalURLs:        len(results),
		TotalTimeSeconds: elapsed.Seconds(),
	}

	var counts []map[string]int
	rows := make([]ResultOutput, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			stats.Failed++
		} else {
			stats.Successful++
		}
		if r.WordCounts != nil {
			counts = append(counts, r.WordCounts)
		}
		rows = append(rows, BuildOutput(r))
	}
	stats.TopKeywords = analytics.TopKeywords(analytics.Reduce(counts), keywordLimit)

	return FinalOutput{
		Status:  stats.RunStatus(),
		Results: rows,
		Stats:   stats,
	}
}

func toManifestResults(results []Result) []manifest.FetchResult {
	out := make([]manifest.FetchResult, len(results))
	for i, r := range results {
		out[i] = manifest.FetchResult{
			URL:           r.URL,
			FilePath:      r.FilePath,
			Recipe:        r.Recipe,
			Error:         r.Error,
			ErrorType:     r.ErrorType,
			WordCounts:    r.WordCounts,
			FileSizeBytes: r.FileSizeBytes,
		}
	}
	return out
}
