// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/profile-search/internal/httputil"
	"github.com/pdiddy/profile-search/internal/metrics"
	"github.com/pdiddy/profile-search/internal/provider"
	"github.com/pdiddy/profile-search/internal/resilience"
	"github.com/pdiddy/profile-search/internal/search"
	"github.com/pdiddy/profile-search/internal/secrets"
	"github.com/pdiddy/profile-search/pkg/types"
)

// setDefaults registers every config key with its default so that
// AutomaticEnv can resolve PROFILE_SEARCH_* overrides during Unmarshal.
func setDefaults(v *viper.Viper) {
	def := types.DefaultConfig()

	v.SetDefault("search.timeout", def.Search.Timeout)
	v.SetDefault("search.user_agent", def.Search.UserAgent)
	v.SetDefault("search.rate_limit", def.Search.RateLimit)
	v.SetDefault("search.max_results", def.Search.MaxResults)
	v.SetDefault("search.concurrency", def.Search.Concurrency)
	v.SetDefault("search.call_timeout", def.Search.CallTimeout)
	v.SetDefault("search.web_region", def.Search.WebRegion)
	v.SetDefault("search.shopping_region", def.Search.ShoppingRegion)
	v.SetDefault("search.shopping_fetch", def.Search.ShoppingFetch)
	v.SetDefault("search.breaker.min_requests", def.Search.Breaker.MinRequests)
	v.SetDefault("search.breaker.failure_ratio", def.Search.Breaker.FailureRatio)
	v.SetDefault("search.breaker.open_timeout", def.Search.Breaker.OpenTimeout)
	v.SetDefault("encyclopedia.language", def.Encyclopedia.Language)
	v.SetDefault("history.path", def.History.Path)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.cors_origins", def.Server.CORSOrigins)
	v.SetDefault("log.level", def.Log.Level)
}

// loadConfig decodes and validates the settings held by v.
func loadConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// userAgent appends the Wikipedia contact secret, when present, to the
// configured User-Agent.
func userAgent(base string, s secrets.Secrets) string {
	if contact := s.Get(secrets.WikipediaContact, ""); contact != "" {
		return fmt.Sprintf("%s (%s)", base, contact)
	}
	return base
}

// newOrchestrator wires the providers, their rate limiters and circuit
// breakers, and the three adapters into an orchestrator. The web and
// shopping adapters share one DuckDuckGo client and therefore one limiter
// and breaker.
func newOrchestrator(cfg types.Config, s secrets.Secrets, logger *zap.Logger, m *metrics.SearchMetrics) (*search.Orchestrator, error) {
	httpClient := &http.Client{Timeout: cfg.Search.Timeout}

	ddg := &provider.DuckDuckGo{Client: &httputil.Client{
		HTTP:      httpClient,
		UserAgent: cfg.Search.UserAgent,
		Limiter:   httputil.NewLimiter(cfg.Search.RateLimit),
		Breaker:   resilience.NewBreaker("duckduckgo", cfg.Search.Breaker, httputil.IsProviderFailure, logger),
	}}
	wiki := &provider.Wikipedia{
		Client: &httputil.Client{
			HTTP:      httpClient,
			UserAgent: userAgent(cfg.Search.UserAgent, s),
			Limiter:   httputil.NewLimiter(cfg.Search.RateLimit),
			Breaker:   resilience.NewBreaker("wikipedia", cfg.Search.Breaker, httputil.IsProviderFailure, logger),
		},
		Language: cfg.Encyclopedia.Language,
	}

	return search.NewOrchestrator(
		&search.WebAdapter{Provider: ddg, Region: cfg.Search.WebRegion},
		&search.EncyclopediaAdapter{Provider: wiki, Logger: logger},
		&search.ShoppingAdapter{Provider: ddg, Region: cfg.Search.ShoppingRegion},
		cfg.Search,
		search.WithLogger(logger),
		search.WithMetrics(m),
	)
}
