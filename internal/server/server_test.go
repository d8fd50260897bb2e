// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/profile-search/internal/history"
	"github.com/pdiddy/profile-search/internal/metrics"
	"github.com/pdiddy/profile-search/internal/search"
	"github.com/pdiddy/profile-search/pkg/types"
)

type fakeSearcher struct {
	got   search.Request
	out   search.Output
	err   error
	panic bool
}

func (f *fakeSearcher) Search(_ context.Context, req search.Request) (search.Output, error) {
	if f.panic {
		panic("boom")
	}
	f.got = req
	if f.err != nil {
		return search.Output{}, f.err
	}
	return f.out, nil
}

type fakeRecorder struct {
	entries []history.Entry
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, e history.Entry) (history.Entry, error) {
	f.entries = append(f.entries, e)
	return e, f.err
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	searcher := &fakeSearcher{out: search.Output{
		RequestID: "req-1",
		Profile:   types.ProfileShopping,
		BuyIntent: true,
		Results: []types.SearchResult{
			{Source: types.SourceShopping, Title: "Sony", URL: "https://www.amazon.de/dp/1", Relevance: 1, Type: types.TypeProductLink, Site: "Amazon"},
		},
	}}
	recorder := &fakeRecorder{}
	srv := New(searcher, types.ServerConfig{}, 3, WithRecorder(recorder))

	rec := post(t, srv.Handler(), `{"query":"kopfhörer kaufen","user_type":"shopping","max_results":5}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, search.Request{Query: "kopfhörer kaufen", Profile: types.ProfileShopping, MaxResults: 5}, searcher.got)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, types.ProfileShopping, resp.SearchUsed)
	assert.True(t, resp.BuyIntent)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Amazon", resp.Results[0].Site)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, "req-1", recorder.entries[0].ID)
	assert.Equal(t, 5, recorder.entries[0].MaxResults)
}

func TestSearchEndpointDefaultsMaxResults(t *testing.T) {
	searcher := &fakeSearcher{out: search.Output{Profile: types.ProfileDefault, Results: []types.SearchResult{}}}
	srv := New(searcher, types.ServerConfig{}, 3)

	rec := post(t, srv.Handler(), `{"query":"golang"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, searcher.got.MaxResults)
	assert.Contains(t, rec.Body.String(), `"results":[]`)
}

func TestSearchEndpointExplicitZero(t *testing.T) {
	searcher := &fakeSearcher{out: search.Output{Results: []types.SearchResult{}}}
	srv := New(searcher, types.ServerConfig{}, 3)

	post(t, srv.Handler(), `{"query":"golang","max_results":0}`)
	assert.Equal(t, 0, searcher.got.MaxResults)
}

// countingAdapter records how often the orchestrator reached it.
type countingAdapter struct {
	name  string
	calls int
}

func (a *countingAdapter) Name() string { return a.name }

func (a *countingAdapter) Fetch(context.Context, string, int) ([]types.SearchResult, error) {
	a.calls++
	return nil, nil
}

func TestSearchEndpointEmptyQuery(t *testing.T) {
	web := &countingAdapter{name: "web"}
	o, err := search.NewOrchestrator(web, &countingAdapter{name: "encyclopedia"}, &countingAdapter{name: "shopping"}, types.DefaultConfig().Search)
	require.NoError(t, err)
	srv := New(o, types.ServerConfig{}, 3)

	rec := post(t, srv.Handler(), `{"query":"  "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"results":[]`)
	assert.Equal(t, 0, web.calls)
}

func TestSearchEndpointConfigurationError(t *testing.T) {
	searcher := &fakeSearcher{err: &search.ConfigurationError{Err: errors.New("max_results: must not be negative")}}
	recorder := &fakeRecorder{}
	srv := New(searcher, types.ServerConfig{}, 3, WithRecorder(recorder))

	rec := post(t, srv.Handler(), `{"query":"golang","max_results":-1}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "must not be negative")
	assert.Empty(t, recorder.entries)
}

func TestSearchEndpointInternalError(t *testing.T) {
	srv := New(&fakeSearcher{err: errors.New("unexpected")}, types.ServerConfig{}, 3)
	rec := post(t, srv.Handler(), `{"query":"golang"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "unexpected")
}

func TestSearchEndpointInvalidJSON(t *testing.T) {
	srv := New(&fakeSearcher{}, types.ServerConfig{}, 3)
	rec := post(t, srv.Handler(), `{"query":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchEndpointRecorderFailureStillResponds(t *testing.T) {
	searcher := &fakeSearcher{out: search.Output{Results: []types.SearchResult{}}}
	srv := New(searcher, types.ServerConfig{}, 3, WithRecorder(&fakeRecorder{err: errors.New("disk full")}))
	rec := post(t, srv.Handler(), `{"query":"golang"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchEndpointMethodNotAllowed(t *testing.T) {
	srv := New(&fakeSearcher{}, types.ServerConfig{}, 3)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/search", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPanicRecovered(t *testing.T) {
	srv := New(&fakeSearcher{panic: true}, types.ServerConfig{}, 3)
	rec := post(t, srv.Handler(), `{"query":"golang"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealth(t *testing.T) {
	srv := New(&fakeSearcher{}, types.ServerConfig{}, 3)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.NewSearchMetrics("test")
	m.ObserveSearch("default", 2, 0)
	srv := New(&fakeSearcher{}, types.ServerConfig{}, 3, WithMetrics(m))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "profile_search_orchestrator_searches_total")
}

func TestMetricsEndpointAbsentWithoutMetrics(t *testing.T) {
	srv := New(&fakeSearcher{}, types.ServerConfig{}, 3)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := New(&fakeSearcher{}, types.ServerConfig{CORSOrigins: []string{"https://app.example.com"}}, 3)

	req := httptest.NewRequest(http.MethodOptions, "/v1/search", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := New(&fakeSearcher{}, types.ServerConfig{Addr: "127.0.0.1:0"}, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, srv.Run(ctx))
}
