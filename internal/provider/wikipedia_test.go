// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/profile-search/internal/httputil"
)

func newWikipediaServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("list") != "search" || q.Get("srsearch") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `{"batchcomplete":true,"query":{"search":[
			{"ns":0,"title":"Photosynthesis"},
			{"ns":0,"title":"Mercury"},
			{"ns":0,"title":"Missing page"}
		]},"limit":%q}`, q.Get("srlimit"))
	})
	mux.HandleFunc("/api/rest_v1/page/summary/Photosynthesis", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"type":"standard","title":"Photosynthesis",
			"extract":"Photosynthesis is a biological process. It converts light.",
			"content_urls":{"desktop":{"page":"https://en.wikipedia.org/wiki/Photosynthesis"}}}`)
	})
	mux.HandleFunc("/api/rest_v1/page/summary/Mercury", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"type":"disambiguation","title":"Mercury","extract":"Mercury may refer to:"}`)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestWikipediaSearchTitles(t *testing.T) {
	ts := newWikipediaServer(t)
	w := &Wikipedia{Client: &httputil.Client{HTTP: ts.Client()}, BaseURL: ts.URL}

	titles, err := w.SearchTitles(context.Background(), "photosynthesis", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Photosynthesis", "Mercury"}, titles)
}

func TestWikipediaFetchPage(t *testing.T) {
	ts := newWikipediaServer(t)
	w := &Wikipedia{Client: &httputil.Client{HTTP: ts.Client()}, BaseURL: ts.URL}

	page, err := w.FetchPage(context.Background(), "Photosynthesis")
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis", page.Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Photosynthesis", page.URL)
	assert.Contains(t, page.Summary, "biological process")
}

func TestWikipediaFetchPageResolutionErrors(t *testing.T) {
	ts := newWikipediaServer(t)
	w := &Wikipedia{Client: &httputil.Client{HTTP: ts.Client()}, BaseURL: ts.URL}

	_, err := w.FetchPage(context.Background(), "Mercury")
	assert.True(t, errors.Is(err, ErrAmbiguousTitle), "got %v", err)

	_, err = w.FetchPage(context.Background(), "Missing page")
	assert.True(t, errors.Is(err, ErrPageNotFound), "got %v", err)
}

func TestWikipediaBase(t *testing.T) {
	assert.Equal(t, "https://en.wikipedia.org", (&Wikipedia{}).base())
	assert.Equal(t, "https://de.wikipedia.org", (&Wikipedia{Language: "de"}).base())
	assert.Equal(t, "http://local", (&Wikipedia{BaseURL: "http://local/"}).base())
}
