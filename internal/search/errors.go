// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import "fmt"

// ConfigurationError reports a request that violates the input contract,
// such as a negative result count. No partial results accompany it.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid search request: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ProviderError reports a failed adapter call for one sub-query. The
// orchestrator records it and continues with the remaining sub-queries.
type ProviderError struct {
	Adapter  string
	SubQuery string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s adapter failed for %q: %v", e.Adapter, e.SubQuery, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
