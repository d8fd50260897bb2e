// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import "github.com/pdiddy/profile-search/pkg/types"

// deduplicate drops every result whose URL equals that of an earlier
// result and returns the survivors in input order with the number removed.
// The first occurrence keeps its relevance. Results with an empty URL are
// never treated as duplicates of each other.
func deduplicate(results []types.SearchResult) ([]types.SearchResult, int) {
	seen := make(map[string]struct{}, len(results))
	deduped := make([]types.SearchResult, 0, len(results))
	removed := 0

	for _, r := range results {
		if r.URL != "" {
			if _, ok := seen[r.URL]; ok {
				removed++
				continue
			}
			seen[r.URL] = struct{}{}
		}
		deduped = append(deduped, r)
	}
	return deduped, removed
}

// truncate returns at most n results.
func truncate(results []types.SearchResult, n int) []types.SearchResult {
	if n < 0 {
		n = 0
	}
	if len(results) > n {
		return results[:n]
	}
	return results
}
