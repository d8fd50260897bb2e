// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the search orchestrator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/pdiddy/profile-search/internal/history"
	"github.com/pdiddy/profile-search/internal/metrics"
	"github.com/pdiddy/profile-search/internal/search"
	"github.com/pdiddy/profile-search/pkg/types"
)

// maxBodyBytes bounds a search request body.
const maxBodyBytes = 64 << 10

// Searcher runs one orchestration call.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (search.Output, error)
}

// Recorder stores completed searches.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (history.Entry, error)
}

// Server serves the search API.
type Server struct {
	searcher   Searcher
	recorder   Recorder
	metrics    *metrics.SearchMetrics
	logger     *zap.Logger
	cfg        types.ServerConfig
	maxResults int
}

// Option configures a Server.
type Option func(*Server)

// WithRecorder records every successful search.
func WithRecorder(r Recorder) Option {
	return func(s *Server) { s.recorder = r }
}

// WithMetrics exposes m on GET /metrics.
func WithMetrics(m *metrics.SearchMetrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Server. maxResults is used when a request omits max_results.
func New(searcher Searcher, cfg types.ServerConfig, maxResults int, opts ...Option) *Server {
	s := &Server{
		searcher:   searcher,
		cfg:        cfg,
		maxResults: maxResults,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler wrapped in recovery, access logging
// and CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/search", s.handleSearch)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = s.recovery(handler)
	handler = s.accessLog(handler)

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
	}).Handler(handler)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// searchRequest mirrors search.Request with an optional result count.
type searchRequest struct {
	Query      string `json:"query"`
	UserType   string `json:"user_type"`
	MaxResults *int   `json:"max_results"`
}

type searchResponse struct {
	RequestID  string               `json:"request_id"`
	SearchUsed types.Profile        `json:"search_used"`
	BuyIntent  bool                 `json:"buy_intent"`
	Results    []types.SearchResult `json:"results"`
	Failures   []search.Failure     `json:"failures,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	req := search.Request{
		Query:      body.Query,
		Profile:    types.Profile(body.UserType),
		MaxResults: s.maxResults,
	}
	if body.MaxResults != nil {
		req.MaxResults = *body.MaxResults
	}

	out, err := s.searcher.Search(r.Context(), req)
	if err != nil {
		var cfgErr *search.ConfigurationError
		if errors.As(err, &cfgErr) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("search failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if s.recorder != nil {
		entry := history.Entry{
			ID:         out.RequestID,
			Query:      req.Query,
			Profile:    out.Profile,
			MaxResults: req.MaxResults,
			BuyIntent:  out.BuyIntent,
			Failures:   len(out.Failures),
			Results:    out.Results,
		}
		if _, err := s.recorder.Record(r.Context(), entry); err != nil {
			s.logger.Warn("recording search history failed", zap.String("request_id", out.RequestID), zap.Error(err))
		}
	}

	respondJSON(w, http.StatusOK, searchResponse{
		RequestID:  out.RequestID,
		SearchUsed: out.Profile,
		BuyIntent:  out.BuyIntent,
		Results:    out.Results,
		Failures:   out.Failures,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method),
					zap.ByteString("stack", debug.Stack()),
				)
				respondError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for access logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}
