// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/profile-search/internal/httputil"
)

// Wikipedia resolves titles through the MediaWiki search API and fetches
// page summaries from the REST API.
type Wikipedia struct {
	Client *httputil.Client

	// Language selects the edition (default "en").
	Language string

	// BaseURL overrides https://{Language}.wikipedia.org. Tests point it at
	// an httptest server.
	BaseURL string
}

func (w *Wikipedia) base() string {
	if w.BaseURL != "" {
		return strings.TrimSuffix(w.BaseURL, "/")
	}
	lang := w.Language
	if lang == "" {
		lang = "en"
	}
	return "https://" + lang + ".wikipedia.org"
}

// SearchTitles returns up to count article titles matching query, best first.
func (w *Wikipedia) SearchTitles(ctx context.Context, query string, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}
	params := url.Values{
		"action":        {"query"},
		"list":          {"search"},
		"srsearch":      {query},
		"srlimit":       {fmt.Sprintf("%d", count)},
		"srprop":        {""},
		"format":        {"json"},
		"formatversion": {"2"},
	}

	body, err := w.Client.Get(ctx, w.base()+"/w/api.php?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("Wikipedia search request: %w", err)
	}

	var sr wikiSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("parsing Wikipedia search response: %w", err)
	}
	if sr.Error != nil {
		return nil, fmt.Errorf("Wikipedia search error %s: %s", sr.Error.Code, sr.Error.Info)
	}

	titles := make([]string, 0, len(sr.Query.Search))
	for _, s := range sr.Query.Search {
		if len(titles) == count {
			break
		}
		titles = append(titles, s.Title)
	}
	return titles, nil
}

// FetchPage fetches the summary of the article with exactly this title.
// Disambiguation pages yield ErrAmbiguousTitle, missing pages ErrPageNotFound.
func (w *Wikipedia) FetchPage(ctx context.Context, title string) (Page, error) {
	escaped := url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	body, err := w.Client.Get(ctx, w.base()+"/api/rest_v1/page/summary/"+escaped)
	if err != nil {
		if httputil.HasStatus(err, http.StatusNotFound) {
			return Page{}, fmt.Errorf("%q: %w", title, ErrPageNotFound)
		}
		return Page{}, fmt.Errorf("Wikipedia page request %q: %w", title, err)
	}

	var s wikiSummary
	if err := json.Unmarshal(body, &s); err != nil {
		return Page{}, fmt.Errorf("parsing Wikipedia summary %q: %w", title, err)
	}
	if s.Type == "disambiguation" {
		return Page{}, fmt.Errorf("%q: %w", title, ErrAmbiguousTitle)
	}

	page := Page{
		Title:   s.Title,
		URL:     s.ContentURLs.Desktop.Page,
		Summary: s.Extract,
	}
	if page.Title == "" {
		page.Title = title
	}
	return page, nil
}

// Wikipedia API JSON structures.
type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

type wikiSummary struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}
