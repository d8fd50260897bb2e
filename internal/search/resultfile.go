// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/profile-search/pkg/types"
)

// ResultFile is the on-disk representation of a search request and its
// results. A saved search can be reloaded and displayed without querying
// the providers again.
type ResultFile struct {
	Query   ResultFileQuery      `yaml:"query"`
	Results []types.SearchResult `yaml:"results"`
	Summary ResultSummary        `yaml:"summary"`
}

// ResultFileQuery stores the request that produced the results.
type ResultFileQuery struct {
	Text       string        `yaml:"text"`
	Profile    types.Profile `yaml:"profile"`
	MaxResults int           `yaml:"max_results"`
}

// ResultSummary stores result statistics and a timestamp.
type ResultSummary struct {
	RequestID         string    `yaml:"request_id,omitempty"`
	Total             int       `yaml:"total"`
	BuyIntent         bool      `yaml:"buy_intent,omitempty"`
	DuplicatesRemoved int       `yaml:"duplicates_removed"`
	Failures          []Failure `yaml:"failures,omitempty"`
	Timestamp         time.Time `yaml:"timestamp"`
}

// WriteResultFile saves the request and its output to a YAML file.
func WriteResultFile(path string, req Request, out Output) error {
	rf := ResultFile{
		Query: ResultFileQuery{
			Text:       req.Query,
			Profile:    out.Profile,
			MaxResults: req.MaxResults,
		},
		Results: out.Results,
		Summary: ResultSummary{
			RequestID:         out.RequestID,
			Total:             len(out.Results),
			BuyIntent:         out.BuyIntent,
			DuplicatesRemoved: out.DupsRemoved,
			Failures:          out.Failures,
			Timestamp:         time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}

// Output rebuilds the orchestration output stored in the file.
func (rf *ResultFile) Output() Output {
	results := rf.Results
	if results == nil {
		results = []types.SearchResult{}
	}
	return Output{
		RequestID:   rf.Summary.RequestID,
		Profile:     rf.Query.Profile,
		BuyIntent:   rf.Summary.BuyIntent,
		Results:     results,
		DupsRemoved: rf.Summary.DuplicatesRemoved,
		Failures:    rf.Summary.Failures,
	}
}
