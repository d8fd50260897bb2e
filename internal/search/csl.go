// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/profile-search/pkg/types"
)

// CSLItem represents a cited source in CSL (Citation Style Language) format.
// The field names follow the CSL-YAML schema so that output is consumable
// by Pandoc and reference managers.
type CSLItem struct {
	ID             string   `yaml:"id"`
	Type           string   `yaml:"type"`
	Title          string   `yaml:"title"`
	ContainerTitle string   `yaml:"container-title,omitempty"`
	Abstract       string   `yaml:"abstract,omitempty"`
	URL            string   `yaml:"URL,omitempty"`
	Accessed       *CSLDate `yaml:"accessed,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes results as a CSL-YAML list to w, stamped with the
// accessed date.
func FormatCSL(results []types.SearchResult, accessed time.Time, w io.Writer) error {
	items := make([]CSLItem, len(results))
	for i, r := range results {
		items[i] = toCSLItem(r, i, accessed)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts the i-th result to a CSLItem.
func toCSLItem(r types.SearchResult, i int, accessed time.Time) CSLItem {
	item := CSLItem{
		ID:             fmt.Sprintf("%s-%d", cslIDPrefix(r), i+1),
		Type:           "webpage",
		Title:          r.Title,
		ContainerTitle: r.Site,
		Abstract:       r.Snippet,
		URL:            r.URL,
	}
	if r.Source == types.SourceEncyclopedia {
		item.Type = "entry-encyclopedia"
		item.ContainerTitle = "Wikipedia"
	}
	if !accessed.IsZero() {
		item.Accessed = &CSLDate{
			DateParts: [][]int{{accessed.Year(), int(accessed.Month()), accessed.Day()}},
		}
	}
	return item
}

// cslIDPrefix derives a citation key prefix from the result's host, e.g.
// "en.wikipedia.org" becomes "wikipedia".
func cslIDPrefix(r types.SearchResult) string {
	u, err := url.Parse(r.URL)
	if err != nil || u.Hostname() == "" {
		return string(r.Source)
	}
	labels := strings.Split(strings.TrimPrefix(u.Hostname(), "www."), ".")
	if len(labels) >= 2 {
		return labels[len(labels)-2]
	}
	return labels[0]
}
