// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the search-and-classify pipeline over HTTP.
// Searches run in background goroutines with progress written to the
// injected result store; clients poll for status and download the CSV
// export once a search completes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/paper-scout/internal/classify"
	"github.com/pdiddy/paper-scout/internal/output"
	"github.com/pdiddy/paper-scout/internal/store"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// searchTimeout bounds one background pipeline run. Tests override it to
// exercise timeout handling without real waits.
var searchTimeout = 5 * time.Minute

// Fetcher retrieves papers from the literature source. The pubmed.Client
// satisfies it; tests supply a stub.
type Fetcher interface {
	SearchIDs(ctx context.Context, query string, maxResults int) ([]string, error)
	FetchPapers(ctx context.Context, ids []string) ([]types.Paper, error)
}

// Server handles the web API.
type Server struct {
	store      *store.Store
	fetcher    Fetcher
	classifier *classify.Classifier
	log        *slog.Logger
	ttl        time.Duration
}

// New builds a Server. A nil logger disables logging; a non-positive ttl
// defaults to one hour.
func New(st *store.Store, fetcher Fetcher, classifier *classify.Classifier, logger *slog.Logger, ttl time.Duration) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Server{store: st, fetcher: fetcher, classifier: classifier, log: logger, ttl: ttl}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/searches", s.handleSearches)
	mux.HandleFunc("/api/searches/", s.handleSearchDetail)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// searchRequest is the POST /api/searches payload.
type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

func (s *Server) handleSearches(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Query = strings.TrimSpace(req.Query)
		if req.Query == "" {
			s.writeError(w, "query is required", http.StatusBadRequest)
			return
		}

		id, err := s.store.Create(r.Context(), req.Query)
		if err != nil {
			s.writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		go s.runSearch(id, req.Query, req.MaxResults)

		s.log.Info("search started", "id", id, "query", req.Query)
		s.writeJSON(w, http.StatusAccepted, map[string]string{"search_id": id})

	case http.MethodGet:
		searches, err := s.store.List(r.Context())
		if err != nil {
			s.writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if searches == nil {
			searches = []store.Search{}
		}
		s.writeJSON(w, http.StatusOK, searches)

	default:
		s.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSearchDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/searches/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		s.writeError(w, "search id is required", http.StatusBadRequest)
		return
	}

	if sub == "csv" {
		s.handleCSV(w, r, id)
		return
	}
	if sub != "" {
		s.writeError(w, "not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		sr, err := s.store.Get(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, "search not found", http.StatusNotFound)
			return
		}
		if err != nil {
			s.writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.writeJSON(w, http.StatusOK, sr)

	case http.MethodDelete:
		err := s.store.Delete(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, "search not found", http.StatusNotFound)
			return
		}
		if err != nil {
			s.writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		s.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCSV(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		s.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sr, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, "search not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if sr.Status != store.StatusCompleted || sr.Results == nil {
		s.writeError(w, "no results available", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="pubmed_results_%s.csv"`, id))
	if err := output.WriteCSV(w, sr.Results.Classifications); err != nil {
		s.log.Error("writing CSV response", "id", id, "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// runSearch executes the fetch-classify pipeline for one search, writing
// progress and the final outcome to the store. It runs detached from the
// originating request.
func (s *Server) runSearch(id, query string, maxResults int) {
	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	// Store writes use a context that outlives the pipeline deadline: a
	// timed-out search must still reach a terminal status, or clients
	// poll a permanently running search the sweeper never removes.
	storeCtx := context.WithoutCancel(ctx)

	fail := func(err error) {
		s.log.Error("search failed", "id", id, "error", err)
		if storeErr := s.store.Fail(storeCtx, id, err.Error()); storeErr != nil {
			s.log.Error("recording failure", "id", id, "error", storeErr)
		}
	}

	s.progress(storeCtx, id, "Searching PubMed...")
	ids, err := s.fetcher.SearchIDs(ctx, query, maxResults)
	if err != nil {
		fail(err)
		return
	}

	s.progress(storeCtx, id, fmt.Sprintf("Found %d papers. Fetching details...", len(ids)))
	papers, err := s.fetcher.FetchPapers(ctx, ids)
	if err != nil {
		fail(err)
		return
	}

	s.progress(storeCtx, id, "Classifying authors...")
	classifications := s.classifier.ClassifyAll(papers)
	summary := classify.Summarize(query, classifications)

	if err := s.store.Complete(storeCtx, id, store.Results{
		Classifications: classifications,
		Summary:         summary,
	}); err != nil {
		s.log.Error("recording results", "id", id, "error", err)
		return
	}
	s.log.Info("search completed", "id", id,
		"papers", summary.TotalPapers, "industry_papers", summary.PapersWithIndustry)
}

func (s *Server) progress(ctx context.Context, id, msg string) {
	if err := s.store.SetProgress(ctx, id, msg); err != nil {
		s.log.Warn("updating progress", "id", id, "error", err)
	}
}

// SweepExpired periodically removes completed searches older than the TTL.
// It blocks until ctx is cancelled.
func (s *Server) SweepExpired(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.store.DeleteExpired(ctx, s.ttl)
			if err != nil {
				s.log.Warn("expiry sweep", "error", err)
				continue
			}
			if n > 0 {
				s.log.Info("expired searches removed", "count", n)
			}
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("writing JSON response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, msg string, status int) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
