package extract

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dtnitsch/recipe-extractor/models"
	"github.com/dtnitsch/recipe-extractor/pkg/analytics"
	"github.com/dtnitsch/recipe-extractor/pkg/parser"
	"github.com/dtnitsch/recipe-extractor/pkg/storage"
)

// Fetcher retrieves a page as UTF-8 HTML.
type Fetcher interface {
	GetHtml(ctx context.Context, url string) (string, error)
}

// Store persists records and attempts.
type Store interface {
	SaveRecipe(r *models.Recipe) (int64, error)
	RecordAttempt(sourceURL string, success bool, errorType, errMessage string) error
}

// Runner drives the worker pool. Storage and Store are optional.
type Runner struct {
	Logger    *slog.Logger
	Fetcher   Fetcher
	Parser    *parser.Parser
	Analytics *analytics.Analytics
	Storage   *storage.Storage
	Store     Store
	Format    string
	Workers   int
	// SkipArticle disables article segmentation for every job.
	SkipArticle bool
	Now         func() time.Time
}

// Run processes jobs concurrently and returns results in job order.
func (r *Runner) Run(ctx context.Context, jobs []Job) []Result {
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	r.Logger.Info("Starting concurrent extract phase", "url_count", len(jobs), "workers", workers)
	var wg sync.WaitGroup
	jobCh := make(chan Job, len(jobs))
	results := make(chan Result, len(jobs))

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go r.worker(ctx, w, &wg, jobCh, results)
	}

	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)

	wg.Wait()
	close(results)
	r.Logger.Info("All extract workers finished")

	all := make([]Result, 0, len(jobs))
	for result := range results {
		all = append(all, result)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Index < all[j].Index })
	return all
}

func (r *Runner) worker(ctx context.Context, id int, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		r.Logger.Info("Worker started job", "worker_id", id, "url", job.URL)
		result := r.process(ctx, id, job)
		r.recordAttempt(result)
		results <- result
		if result.Error == nil {
			r.Logger.Info("Worker finished processing", "worker_id", id, "url", job.URL)
		}
	}
}

func (r *Runner) process(ctx context.Context, id int, job Job) Result {
	result := Result{Index: job.Index, URL: job.URL}

	html := job.HTML
	if html == "" {
		var err error
		html, err = r.Fetcher.GetHtml(ctx, job.URL)
		if err != nil {
			r.Logger.Error("Error fetching HTML", "worker_id", id, "url", job.URL, "error", err)
			result.Error = err
			result.ErrorType = ErrFetch
			return result
		}
	}

	recipe, err := r.Parser.Parse(models.ParseRequest{URL: job.URL, HTML: html, SkipArticle: r.SkipArticle})
	if err != nil {
		result.Error = err
		var failure *models.ExtractionFailure
		if errors.As(err, &failure) {
			r.Logger.Warn("No recipe found", "worker_id", id, "url", job.URL, "missing", strings.Join(failure.Missing, ","))
			result.ErrorType = ErrExtraction
		} else {
			r.Logger.Error("Error parsing HTML", "worker_id", id, "url", job.URL, "error", err)
			result.ErrorType = ErrParse
		}
		return result
	}
	result.Recipe = recipe
	result.WordCounts = r.Analytics.WordFrequency(recipe.ToPlainText())

	if r.Storage != nil {
		data, err := storage.Encode(recipe, r.Format)
		if err != nil {
			r.Logger.Error("Error encoding record", "worker_id", id, "url", job.URL, "error", err)
			result.Error = err
			result.ErrorType = ErrSave
			return result
		}
		fn := storage.SavePath(job.URL, extension(r.Format), r.now())
		if err := r.Storage.SaveFile(fn, data); err != nil {
			r.Logger.Error("Error saving file", "worker_id", id, "url", job.URL, "file", fn, "error", err)
			result.Error = err
			result.ErrorType = ErrSave
			return result
		}
		result.FilePath = fn
		result.FileSizeBytes = int64(len(data))
	}

	if r.Store != nil {
		if _, err := r.Store.SaveRecipe(recipe); err != nil {
			r.Logger.Warn("Failed to store recipe", "url", job.URL, "error", err)
		}
	}
	return result
}

func (r *Runner) recordAttempt(result Result) {
	if r.Store == nil {
		return
	}
	msg := ""
	if result.Error != nil {
		msg = result.Error.Error()
	}
	if err := r.Store.RecordAttempt(result.URL, result.Error == nil, result.ErrorType, msg); err != nil {
		r.Logger.Warn("Failed to record attempt", "url", result.URL, "error", err)
	}
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func extension(format string) string {
	if strings.EqualFold(format, storage.FormatYAML) || strings.EqualFold(format, "yml") {
		return storage.FormatYAML
	}
	return storage.FormatJSON
}
