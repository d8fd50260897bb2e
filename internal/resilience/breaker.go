// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resilience wraps provider calls in per-provider circuit breakers.
// There is no retry: a call that fails is reported once and the caller moves on.
package resilience

import (
	"errors"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/pdiddy/profile-search/pkg/types"
)

// FailureClassifier reports whether err should count against the breaker.
// Errors that describe the request (a missing page, a bad query) should not.
type FailureClassifier func(err error) bool

// Breaker is a circuit breaker guarding one provider.
type Breaker = gobreaker.CircuitBreaker[[]byte]

// NewBreaker builds a breaker named after the provider it guards. A nil
// classifier counts every error as a failure.
func NewBreaker(name string, cfg types.BreakerConfig, classify FailureClassifier, logger *zap.Logger) *Breaker {
	cfg = normalize(cfg)
	if logger == nil {
		logger = zap.NewNop()
	}
	if classify == nil {
		classify = func(error) bool { return true }
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !classify(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return gobreaker.NewCircuitBreaker[[]byte](settings)
}

// IsCircuitOpen reports whether err was produced by a breaker refusing the call.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func normalize(cfg types.BreakerConfig) types.BreakerConfig {
	def := types.DefaultConfig().Search.Breaker
	if cfg.MinRequests == 0 {
		cfg.MinRequests = def.MinRequests
	}
	if cfg.FailureRatio <= 0 || cfg.FailureRatio > 1 {
		cfg.FailureRatio = def.FailureRatio
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return cfg
}
