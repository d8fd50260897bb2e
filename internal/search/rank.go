// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/profile-search/pkg/types"
)

const (
	termBoost = 0.10
	siteBoost = 0.15
)

// popularShops are URL markers that earn the shopping site boost.
var popularShops = []string{"amazon", "ebay", "idealo"}

// Rank boosts each result's relevance and sorts the slice in place by
// relevance, highest first. Every whitespace-separated word of the
// lower-cased query found in the lower-cased title and snippet adds
// termBoost; with shopBoost each popular shop marker in the URL adds
// siteBoost. Scores are clamped to 1.0. The sort is stable, so ties keep
// their sub-query issue order.
func Rank(results []types.SearchResult, query string, shopBoost bool) []types.SearchResult {
	words := strings.Fields(strings.ToLower(query))

	for i := range results {
		score := results[i].Relevance
		content := strings.ToLower(results[i].Title + " " + results[i].Snippet)
		for _, w := range words {
			if strings.Contains(content, w) {
				score += termBoost
			}
		}
		if shopBoost {
			u := strings.ToLower(results[i].URL)
			for _, marker := range popularShops {
				if strings.Contains(u, marker) {
					score += siteBoost
				}
			}
		}
		results[i].Relevance = clampRelevance(score)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	return results
}

// clampRelevance forces a score into [0.0, 1.0]. NaN maps to 0.
func clampRelevance(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return math.Max(0, math.Min(score, 1.0))
}
