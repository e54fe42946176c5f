package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dtnitsch/recipe-extractor/internal/common"
	"github.com/dtnitsch/recipe-extractor/models"
	"github.com/dtnitsch/recipe-extractor/pkg/analytics"
)

// maxRequestBytes bounds request bodies, inline HTML included.
const maxRequestBytes = 12 << 20

// ExtractRequest is the body of POST /extract. When HTML is set the page is
// not fetched and URL is only recorded as the source.
type ExtractRequest struct {
	URL         string `json:"url"`
	HTML        string `json:"html,omitempty"`
	SkipArticle bool   `json:"skip_article,omitempty"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Detail    string   `json:"detail"`
	SourceURL string   `json:"source_url,omitempty"`
	Missing   []string `json:"missing,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": ServiceName})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { s.metrics.ExtractionDuration.Observe(time.Since(start).Seconds()) }()

	var req ExtractRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.metrics.IncExtraction("invalid_request")
		writeError(w, http.StatusBadRequest, ErrorResponse{Detail: "Invalid request body"})
		return
	}

	sourceURL, err := common.ValidateURL(req.URL)
	if err != nil {
		s.metrics.IncExtraction("invalid_request")
		writeError(w, http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
		return
	}

	html := req.HTML
	if html == "" {
		html, err = s.fetcher.GetHtml(r.Context(), sourceURL)
		if err != nil {
			s.logger.Warn("Failed to fetch URL", "url", sourceURL, "error", err)
			s.metrics.IncExtraction("fetch_error")
			s.recordAttempt(sourceURL, "fetch_error", err)
			writeError(w, http.StatusBadGateway, ErrorResponse{
				Detail:    fmt.Sprintf("Failed to fetch URL: %v", err),
				SourceURL: sourceURL,
			})
			return
		}
	}

	recipe, err := s.parser.Parse(models.ParseRequest{URL: sourceURL, HTML: html, SkipArticle: req.SkipArticle})
	if err != nil {
		var failure *models.ExtractionFailure
		if errors.As(err, &failure) {
			s.metrics.IncExtraction("extraction_failure")
			s.recordAttempt(sourceURL, "extraction_failure", err)
			writeError(w, http.StatusUnprocessableEntity, ErrorResponse{
				Detail:    failure.Error(),
				SourceURL: failure.SourceURL,
				Missing:   failure.Missing,
			})
			return
		}
		s.logger.Error("Failed to parse HTML", "url", sourceURL, "error", err)
		s.metrics.IncExtraction("parse_error")
		s.recordAttempt(sourceURL, "parse_error", err)
		writeError(w, http.StatusInternalServerError, ErrorResponse{Detail: "Failed to parse page", SourceURL: sourceURL})
		return
	}

	s.metrics.IncExtraction("success")
	if s.store != nil {
		if _, err := s.store.SaveRecipe(recipe); err != nil {
			s.logger.Warn("Failed to store recipe", "url", sourceURL, "error", err)
		}
		s.recordAttempt(sourceURL, "", nil)
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analytics.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Detail: "Invalid request body"})
		return
	}
	writeJSON(w, http.StatusOK, s.analytics.Analyze(req))
}

func (s *Server) recordAttempt(sourceURL, errorType string, cause error) {
	if s.store == nil {
		return
	}
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if err := s.store.RecordAttempt(sourceURL, cause == nil, errorType, msg); err != nil {
		s.logger.Warn("Failed to record attempt", "url", sourceURL, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, body ErrorResponse) {
	writeJSON(w, status, body)
}
