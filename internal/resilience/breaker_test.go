// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/profile-search/pkg/types"
)

func TestBreakerOpensAfterFailures(t *testing.T) {
	b := NewBreaker("web", types.BreakerConfig{
		MinRequests:  2,
		FailureRatio: 0.5,
		OpenTimeout:  time.Minute,
	}, nil, nil)

	errTemp := errors.New("temporary")
	for i := 0; i < 2; i++ {
		_, err := b.Execute(func() ([]byte, error) { return nil, errTemp })
		require.ErrorIs(t, err, errTemp)
	}

	called := false
	_, err := b.Execute(func() ([]byte, error) {
		called = true
		return nil, nil
	})
	assert.False(t, called, "open breaker must not call the operation")
	assert.True(t, IsCircuitOpen(err))
	assert.Equal(t, gobreaker.StateOpen, b.State())
}

func TestBreakerIgnoresUnclassifiedErrors(t *testing.T) {
	errNotFound := errors.New("not found")
	b := NewBreaker("encyclopedia", types.BreakerConfig{
		MinRequests:  1,
		FailureRatio: 0.1,
		OpenTimeout:  time.Minute,
	}, func(err error) bool { return !errors.Is(err, errNotFound) }, nil)

	for i := 0; i < 5; i++ {
		_, err := b.Execute(func() ([]byte, error) { return nil, errNotFound })
		require.ErrorIs(t, err, errNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestNormalizeFillsDefaults(t *testing.T) {
	got := normalize(types.BreakerConfig{FailureRatio: 3})
	def := types.DefaultConfig().Search.Breaker
	assert.Equal(t, def, got)
}
