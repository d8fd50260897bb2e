// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search routes a user query through a profile-specific strategy:
// the query is expanded into sub-queries, dispatched concurrently to the
// source adapters, merged, deduplicated, ranked and truncated.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/profile-search/internal/metrics"
	"github.com/pdiddy/profile-search/internal/resilience"
	"github.com/pdiddy/profile-search/pkg/types"
)

// Request is one orchestration call.
type Request struct {
	Query      string        `json:"query"`
	Profile    types.Profile `json:"user_type"`
	MaxResults int           `json:"max_results"`
}

// Validate checks the input contract. Only a negative MaxResults is
// rejected. Unknown profiles route to the default strategy and an empty
// query yields an empty result list.
func (r Request) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MaxResults, validation.Min(0).Error("must not be negative")),
	)
}

// Failure describes one sub-query whose adapter call contributed nothing.
type Failure struct {
	Seq      int    `json:"seq" yaml:"seq"`
	Adapter  string `json:"adapter" yaml:"adapter"`
	SubQuery string `json:"sub_query" yaml:"sub_query"`
	Error    string `json:"error" yaml:"error"`
}

// Output holds the ranked results of one call and what happened on the way.
type Output struct {
	RequestID   string
	Profile     types.Profile
	BuyIntent   bool
	Results     []types.SearchResult
	DupsRemoved int
	Failures    []Failure
}

// Orchestrator is the public entry point. It holds no per-call state and
// is safe for concurrent use.
type Orchestrator struct {
	adapters map[AdapterKind]Adapter
	cfg      types.SearchConfig
	logger   *zap.Logger
	metrics  *metrics.SearchMetrics
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records adapter calls and searches.
func WithMetrics(m *metrics.SearchMetrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// NewOrchestrator wires the three adapters. cfg supplies concurrency, the
// per-call timeout and the shopping fetch size; zero values take defaults.
func NewOrchestrator(web, encyclopedia, shopping Adapter, cfg types.SearchConfig, opts ...Option) (*Orchestrator, error) {
	if web == nil || encyclopedia == nil || shopping == nil {
		return nil, errors.New("search: web, encyclopedia and shopping adapters are required")
	}

	def := types.DefaultConfig().Search
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = def.CallTimeout
	}
	if cfg.ShoppingFetch <= 0 {
		cfg.ShoppingFetch = def.ShoppingFetch
	}

	o := &Orchestrator{
		adapters: map[AdapterKind]Adapter{
			AdapterWeb:          web,
			AdapterEncyclopedia: encyclopedia,
			AdapterShopping:     shopping,
		},
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// SearchForUser returns at most maxResults results for query, ranked for
// profile. A negative maxResults yields a *ConfigurationError. Adapter
// failures never surface as errors; they only shrink the result list.
func (o *Orchestrator) SearchForUser(ctx context.Context, query string, profile types.Profile, maxResults int) ([]types.SearchResult, error) {
	out, err := o.Search(ctx, Request{Query: query, Profile: profile, MaxResults: maxResults})
	if err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Search runs one orchestration call and reports statistics alongside
// the results.
func (o *Orchestrator) Search(ctx context.Context, req Request) (Output, error) {
	req.Query = strings.TrimSpace(req.Query)
	if err := req.Validate(); err != nil {
		return Output{}, &ConfigurationError{Err: err}
	}

	query := req.Query
	out := Output{
		RequestID: uuid.NewString(),
		Profile:   types.ParseProfile(string(req.Profile)),
		Results:   []types.SearchResult{},
	}
	logger := o.logger.With(
		zap.String("request_id", out.RequestID),
		zap.String("profile", string(out.Profile)),
	)
	if req.Profile != "" && !req.Profile.Known() {
		logger.Info("unknown profile, using default strategy", zap.String("requested", string(req.Profile)))
	}

	if req.MaxResults == 0 || query == "" {
		o.metrics.ObserveSearch(string(out.Profile), 0, 0)
		return out, nil
	}

	plan := Expand(query, out.Profile, req.MaxResults, o.cfg.ShoppingFetch)
	out.BuyIntent = plan.BuyIntent

	outcomes := o.dispatch(ctx, plan.SubQueries, logger)

	var combined []types.SearchResult
	for stageIdx, stage := range plan.Stages {
		var stageResults []types.SearchResult
		for _, oc := range outcomes {
			if oc.sq.Stage == stageIdx {
				stageResults = append(stageResults, oc.results...)
			}
		}
		deduped, removed := deduplicate(stageResults)
		out.DupsRemoved += removed
		if stage.Ranked {
			Rank(deduped, query, stage.SiteBoost)
		}
		combined = append(combined, truncate(deduped, req.MaxResults)...)
	}

	final, removed := deduplicate(combined)
	out.DupsRemoved += removed
	out.Results = truncate(final, req.MaxResults)

	for _, oc := range outcomes {
		if oc.err != nil {
			out.Failures = append(out.Failures, Failure{
				Seq:      oc.sq.Seq,
				Adapter:  oc.sq.Adapter.String(),
				SubQuery: oc.sq.Text,
				Error:    oc.err.Error(),
			})
		}
	}

	o.metrics.ObserveSearch(string(out.Profile), len(out.Results), out.DupsRemoved)
	logger.Info("search completed",
		zap.Int("sub_queries", len(plan.SubQueries)),
		zap.Int("failures", len(out.Failures)),
		zap.Int("duplicates_removed", out.DupsRemoved),
		zap.Int("results", len(out.Results)),
	)
	return out, nil
}

// callOutcome is the result of one adapter call, kept in the slot of its
// sub-query so merge order does not depend on completion order.
type callOutcome struct {
	sq      SubQuery
	results []types.SearchResult
	err     error
}

// dispatch runs every sub-query with at most cfg.Concurrency calls in
// flight and waits for all of them. Tasks never return an error to the
// group, so one failure cannot cancel its siblings.
func (o *Orchestrator) dispatch(ctx context.Context, subQueries []SubQuery, logger *zap.Logger) []callOutcome {
	outcomes := make([]callOutcome, len(subQueries))

	var g errgroup.Group
	g.SetLimit(o.cfg.Concurrency)
	for i, sq := range subQueries {
		g.Go(func() error {
			outcomes[i] = o.call(ctx, sq, logger)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

type fetchResult struct {
	results []types.SearchResult
	err     error
}

// call performs one adapter call under its own timeout. On failure the
// outcome carries a *ProviderError and no results.
func (o *Orchestrator) call(ctx context.Context, sq SubQuery, logger *zap.Logger) callOutcome {
	adapter := o.adapters[sq.Adapter]
	logger = logger.With(
		zap.Int("seq", sq.Seq),
		zap.String("adapter", adapter.Name()),
		zap.String("sub_query", sq.Text),
	)

	callCtx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetchResult{err: fmt.Errorf("adapter panic: %v", r)}
			}
		}()
		results, err := adapter.Fetch(callCtx, sq.Text, sq.Limit)
		done <- fetchResult{results: results, err: err}
	}()

	var fr fetchResult
	select {
	case fr = <-done:
	case <-callCtx.Done():
		fr = fetchResult{err: callCtx.Err()}
	}
	elapsed := time.Since(start)

	if fr.err != nil {
		outcome := metrics.OutcomeError
		switch {
		case errors.Is(fr.err, context.DeadlineExceeded):
			outcome = metrics.OutcomeTimeout
		case resilience.IsCircuitOpen(fr.err):
			outcome = metrics.OutcomeCircuitOpen
		}
		o.metrics.ObserveAdapterCall(adapter.Name(), outcome, elapsed)
		logger.Warn("adapter call failed, continuing without its results",
			zap.Duration("elapsed", elapsed),
			zap.Error(fr.err),
		)
		return callOutcome{
			sq:  sq,
			err: &ProviderError{Adapter: adapter.Name(), SubQuery: sq.Text, Err: fr.err},
		}
	}

	results := append([]types.SearchResult(nil), truncate(fr.results, sq.Limit)...)
	for i := range results {
		relevance := results[i].Relevance
		if sq.Relevance > 0 {
			relevance = sq.Relevance
		}
		results[i].Relevance = clampRelevance(relevance)
		if sq.Type != "" {
			results[i].Type = sq.Type
		}
	}

	o.metrics.ObserveAdapterCall(adapter.Name(), metrics.OutcomeOK, elapsed)
	logger.Debug("adapter call completed",
		zap.Duration("elapsed", elapsed),
		zap.Int("results", len(results)),
	)
	return callOutcome{sq: sq, results: results}
}
