// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the profile-search pipeline:
// the search result record, the closed set of user profiles, and the
// configuration consumed by the CLI and HTTP server.
package types

import "strings"

// Source identifies which adapter produced a result.
type Source string

const (
	SourceWeb          Source = "web"
	SourceEncyclopedia Source = "encyclopedia"
	SourceShopping     Source = "shopping"
)

// ResultType tags a result for downstream rendering and ranking boosts.
type ResultType string

const (
	TypeGeneral     ResultType = "general"
	TypeAcademic    ResultType = "academic"
	TypeEducational ResultType = "educational"
	TypeBusiness    ResultType = "business"
	TypeProductLink ResultType = "product_link"
)

// SearchResult is the unit of output of an orchestration call. Relevance is
// always within [0.0, 1.0]. URL is the dedup key and is never absent; a
// provider hit without a URL carries the empty string.
type SearchResult struct {
	// Source is the adapter that produced the result.
	Source Source `json:"source" yaml:"source"`

	// Title as returned by the provider. May be empty on malformed data.
	Title string `json:"title" yaml:"title"`

	// Snippet is free text. Encyclopedia snippets are truncated to 300 characters.
	Snippet string `json:"snippet" yaml:"snippet"`

	// URL of the result.
	URL string `json:"url" yaml:"url"`

	// Relevance is a score between 0.0 and 1.0.
	Relevance float64 `json:"relevance" yaml:"relevance"`

	// Type distinguishes general, academic, educational, business and product-link results.
	Type ResultType `json:"type" yaml:"type"`

	// Site is the human-readable shop name. Set for shopping results only.
	Site string `json:"site,omitempty" yaml:"site,omitempty"`
}

// Profile is the named user persona that selects a search strategy.
type Profile string

const (
	ProfileResearcher Profile = "researcher"
	ProfileStudent    Profile = "student"
	ProfileBusiness   Profile = "business"
	ProfileShopping   Profile = "shopping"
	ProfileDefault    Profile = "default"
)

// Profiles lists every known profile in display order.
var Profiles = []Profile{
	ProfileResearcher,
	ProfileStudent,
	ProfileBusiness,
	ProfileShopping,
	ProfileDefault,
}

// ParseProfile maps a user type string onto a Profile. Matching ignores case
// and surrounding whitespace. Unknown values map to ProfileDefault.
func ParseProfile(s string) Profile {
	p := Profile(strings.ToLower(strings.TrimSpace(s)))
	if p.Known() {
		return p
	}
	return ProfileDefault
}

// Known reports whether p is one of the closed set of profiles.
func (p Profile) Known() bool {
	for _, k := range Profiles {
		if p == k {
			return true
		}
	}
	return false
}
