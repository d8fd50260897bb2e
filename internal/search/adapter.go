// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/profile-search/internal/provider"
	"github.com/pdiddy/profile-search/pkg/types"
)

// Default relevance emitted by each adapter before any profile override.
const (
	webRelevance          = 0.7
	encyclopediaRelevance = 0.95
	shoppingRelevance     = 0.9
)

// maxSnippetLen bounds encyclopedia snippets, ellipsis included.
const maxSnippetLen = 300

// Adapter wraps one external provider behind a uniform contract. Fetch
// returns at most limit results, or an error when the provider call as a
// whole failed. Adapters never panic on malformed provider data.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, subQuery string, limit int) ([]types.SearchResult, error)
}

// WebAdapter issues sub-queries to a general web search provider.
type WebAdapter struct {
	Provider provider.WebSearcher
	Region   string
}

func (a *WebAdapter) Name() string { return string(types.SourceWeb) }

func (a *WebAdapter) Fetch(ctx context.Context, subQuery string, limit int) ([]types.SearchResult, error) {
	hits, err := a.Provider.Search(ctx, subQuery, a.Region, limit)
	if err != nil {
		return nil, err
	}
	results := make([]types.SearchResult, 0, len(hits))
	for _, h := range hits {
		if len(results) == limit {
			break
		}
		results = append(results, types.SearchResult{
			Source:    types.SourceWeb,
			Title:     h.Title,
			Snippet:   h.Snippet,
			URL:       h.URL,
			Relevance: webRelevance,
			Type:      types.TypeGeneral,
		})
	}
	return results, nil
}

// EncyclopediaAdapter resolves candidate titles and fetches each page.
// A title that fails to resolve is skipped; the rest of the batch continues.
type EncyclopediaAdapter struct {
	Provider provider.Encyclopedia
	Logger   *zap.Logger
}

func (a *EncyclopediaAdapter) Name() string { return string(types.SourceEncyclopedia) }

func (a *EncyclopediaAdapter) Fetch(ctx context.Context, subQuery string, limit int) ([]types.SearchResult, error) {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	titles, err := a.Provider.SearchTitles(ctx, subQuery, limit)
	if err != nil {
		return nil, err
	}

	var results []types.SearchResult
	for _, title := range titles {
		if len(results) == limit {
			break
		}
		if ctx.Err() != nil {
			break
		}
		page, err := a.Provider.FetchPage(ctx, title)
		if err != nil {
			if errors.Is(err, provider.ErrAmbiguousTitle) || errors.Is(err, provider.ErrPageNotFound) {
				logger.Debug("skipping unresolved title", zap.String("title", title), zap.Error(err))
			} else {
				logger.Warn("encyclopedia page fetch failed", zap.String("title", title), zap.Error(err))
			}
			continue
		}
		results = append(results, types.SearchResult{
			Source:    types.SourceEncyclopedia,
			Title:     page.Title,
			Snippet:   summarySnippet(page.Summary),
			URL:       page.URL,
			Relevance: encyclopediaRelevance,
			Type:      types.TypeAcademic,
		})
	}
	return results, nil
}

// summarySnippet returns the first sentence of summary, period included,
// truncated to maxSnippetLen characters with a trailing "...".
func summarySnippet(summary string) string {
	first, _, _ := strings.Cut(summary, ".")
	snippet := strings.TrimSpace(first) + "."
	if utf8.RuneCountInString(snippet) <= maxSnippetLen {
		return snippet
	}
	runes := []rune(snippet)
	return string(runes[:maxSnippetLen-3]) + "..."
}

// shop is an allow-listed shopping domain and its display name.
type shop struct {
	domain string
	name   string
}

// shops lists the domains whose hits the shopping adapter keeps.
var shops = []shop{
	{"amazon.de", "Amazon"},
	{"ebay.de", "eBay"},
	{"idealo.de", "Idealo"},
	{"otto.de", "Otto"},
	{"mediamarkt.de", "MediaMarkt"},
	{"saturn.de", "Saturn"},
	{"zalando.de", "Zalando"},
}

// defaultShopName labels a URL that matches no known shop.
const defaultShopName = "Online Shop"

// ShoppingAdapter issues sub-queries to the web provider and keeps only
// hits on allow-listed shop domains. limit is the number of raw hits
// requested; filtering may return fewer.
type ShoppingAdapter struct {
	Provider provider.WebSearcher
	Region   string
}

func (a *ShoppingAdapter) Name() string { return string(types.SourceShopping) }

func (a *ShoppingAdapter) Fetch(ctx context.Context, subQuery string, limit int) ([]types.SearchResult, error) {
	hits, err := a.Provider.Search(ctx, subQuery, a.Region, limit)
	if err != nil {
		return nil, err
	}
	var results []types.SearchResult
	for _, h := range hits {
		if len(results) == limit {
			break
		}
		if _, ok := matchShop(h.URL); !ok {
			continue
		}
		results = append(results, types.SearchResult{
			Source:    types.SourceShopping,
			Title:     h.Title,
			Snippet:   h.Snippet,
			URL:       h.URL,
			Relevance: shoppingRelevance,
			Type:      types.TypeProductLink,
			Site:      siteName(h.URL),
		})
	}
	return results, nil
}

// matchShop returns the allow-listed shop whose domain is the URL host or
// a parent domain of it.
func matchShop(rawURL string) (shop, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return shop{}, false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return shop{}, false
	}
	for _, s := range shops {
		if host == s.domain || strings.HasSuffix(host, "."+s.domain) {
			return s, true
		}
	}
	return shop{}, false
}

// siteName resolves the shop display name for a URL.
func siteName(rawURL string) string {
	if s, ok := matchShop(rawURL); ok {
		return s.name
	}
	return defaultShopName
}
