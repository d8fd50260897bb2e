// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider implements clients for the external information sources
// consumed by the search adapters: a general web search engine and an
// online encyclopedia.
package provider

import (
	"context"
	"errors"
)

// Resolution errors for a single encyclopedia title.
var (
	ErrAmbiguousTitle = errors.New("ambiguous title")
	ErrPageNotFound   = errors.New("page not found")
)

// WebHit is one raw hit returned by a web search provider.
type WebHit struct {
	Title   string
	Snippet string
	URL     string
}

// WebSearcher queries a general-purpose web search engine restricted to a region.
type WebSearcher interface {
	Search(ctx context.Context, query, region string, maxResults int) ([]WebHit, error)
}

// Page is a resolved encyclopedia article.
type Page struct {
	Title   string
	URL     string
	Summary string
}

// Encyclopedia resolves candidate titles for a query and fetches pages.
// FetchPage returns an error wrapping ErrAmbiguousTitle or ErrPageNotFound
// when a title cannot be resolved to a single article.
type Encyclopedia interface {
	SearchTitles(ctx context.Context, query string, count int) ([]string, error)
	FetchPage(ctx context.Context, title string) (Page, error)
}
