// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"strings"

	"github.com/pdiddy/profile-search/pkg/types"
)

// AdapterKind selects which adapter serves a sub-query.
type AdapterKind int

const (
	AdapterWeb AdapterKind = iota
	AdapterEncyclopedia
	AdapterShopping
)

func (k AdapterKind) String() string {
	switch k {
	case AdapterWeb:
		return "web"
	case AdapterEncyclopedia:
		return "encyclopedia"
	case AdapterShopping:
		return "shopping"
	default:
		return fmt.Sprintf("adapter(%d)", int(k))
	}
}

// Special limit values resolved at expansion time.
const (
	limitMaxResults    = -1
	limitShoppingFetch = -2
)

// SubQuery is one expanded query bound to an adapter. Seq is the issue
// order within the plan and decides merge order and tie-breaks.
type SubQuery struct {
	Seq       int
	Stage     int
	Text      string
	Adapter   AdapterKind
	Limit     int
	Relevance float64
	Type      types.ResultType
}

// Stage groups sub-queries whose results are merged and ranked together.
// Stages are concatenated in order after each is truncated.
type Stage struct {
	Ranked    bool
	SiteBoost bool
}

// Plan is the expansion of one query for one profile.
type Plan struct {
	Profile    types.Profile
	BuyIntent  bool
	Stages     []Stage
	SubQueries []SubQuery
}

type template struct {
	format    string
	stage     int
	adapter   AdapterKind
	limit     int
	relevance float64
	typ       types.ResultType
}

type strategy struct {
	stages    []Stage
	templates []template
}

var ranked = []Stage{{Ranked: true}}

var (
	researcherStrategy = strategy{
		stages: ranked,
		templates: []template{
			{format: "%s", adapter: AdapterEncyclopedia, limit: 2, relevance: encyclopediaRelevance, typ: types.TypeAcademic},
			{format: "%s research study academic paper", adapter: AdapterWeb, limit: 2, relevance: 0.8, typ: types.TypeAcademic},
		},
	}
	studentStrategy = strategy{
		stages: ranked,
		templates: []template{
			{format: "%s tutorial explanation", adapter: AdapterWeb, limit: 1, relevance: 0.85, typ: types.TypeEducational},
			{format: "%s how it works simple", adapter: AdapterWeb, limit: 1, relevance: 0.85, typ: types.TypeEducational},
			{format: "%s beginner guide", adapter: AdapterWeb, limit: 1, relevance: 0.85, typ: types.TypeEducational},
		},
	}
	businessStrategy = strategy{
		stages: ranked,
		templates: []template{
			{format: "%s business market trends analysis 2024", adapter: AdapterWeb, limit: limitMaxResults, relevance: 0.8, typ: types.TypeBusiness},
		},
	}
	// The informational stage is appended unranked after the product stage,
	// so product links always lead and can crowd it out.
	shoppingBuyStrategy = strategy{
		stages: []Stage{{Ranked: true, SiteBoost: true}, {}},
		templates: []template{
			{format: "%s kaufen", adapter: AdapterShopping, limit: limitShoppingFetch, relevance: shoppingRelevance, typ: types.TypeProductLink},
			{format: "%s online shop", adapter: AdapterShopping, limit: limitShoppingFetch, relevance: shoppingRelevance, typ: types.TypeProductLink},
			{format: "%s bestellen", adapter: AdapterShopping, limit: limitShoppingFetch, relevance: shoppingRelevance, typ: types.TypeProductLink},
			{format: "%s test bewertung", stage: 1, adapter: AdapterWeb, limit: 1, relevance: webRelevance, typ: types.TypeGeneral},
		},
	}
	shoppingBrowseStrategy = strategy{
		stages: ranked,
		templates: []template{
			{format: "%s shopping guide review", adapter: AdapterWeb, limit: limitMaxResults, relevance: webRelevance, typ: types.TypeGeneral},
		},
	}
	defaultStrategy = strategy{
		stages: ranked,
		templates: []template{
			{format: "%s", adapter: AdapterWeb, limit: limitMaxResults, relevance: webRelevance, typ: types.TypeGeneral},
		},
	}
)

var strategies = map[types.Profile]strategy{
	types.ProfileResearcher: researcherStrategy,
	types.ProfileStudent:    studentStrategy,
	types.ProfileBusiness:   businessStrategy,
	types.ProfileShopping:   shoppingBrowseStrategy,
	types.ProfileDefault:    defaultStrategy,
}

// buyKeywords signal purchase intent in a shopping query.
var buyKeywords = []string{"kaufen", "bestellen", "buy", "purchase", "shopping", "günstig", "preis"}

// HasBuyIntent reports whether query contains any buy keyword, ignoring case.
func HasBuyIntent(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range buyKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// strategyFor selects the strategy for a profile. Unknown profiles fall
// back to the default strategy.
func strategyFor(profile types.Profile, query string) (strategy, bool) {
	if profile == types.ProfileShopping && HasBuyIntent(query) {
		return shoppingBuyStrategy, true
	}
	s, ok := strategies[profile]
	if !ok {
		return defaultStrategy, false
	}
	return s, false
}

// Expand turns query into the sub-queries of the profile's strategy.
// maxResults and shoppingFetch resolve the symbolic per-template limits.
func Expand(query string, profile types.Profile, maxResults, shoppingFetch int) Plan {
	profile = types.ParseProfile(string(profile))
	s, buy := strategyFor(profile, query)

	plan := Plan{
		Profile:    profile,
		BuyIntent:  buy,
		Stages:     s.stages,
		SubQueries: make([]SubQuery, 0, len(s.templates)),
	}
	for i, t := range s.templates {
		plan.SubQueries = append(plan.SubQueries, SubQuery{
			Seq:       i,
			Stage:     t.stage,
			Text:      fmt.Sprintf(t.format, query),
			Adapter:   t.adapter,
			Limit:     resolveLimit(t.limit, maxResults, shoppingFetch),
			Relevance: t.relevance,
			Type:      t.typ,
		})
	}
	return plan
}

func resolveLimit(limit, maxResults, shoppingFetch int) int {
	switch limit {
	case limitMaxResults:
		return maxResults
	case limitShoppingFetch:
		return shoppingFetch
	default:
		return limit
	}
}

// Describe lists the sub-query templates of a profile for display, with
// "{q}" standing for the user query. Shopping lists both variants.
func Describe(profile types.Profile) []string {
	var variants []strategy
	switch types.ParseProfile(string(profile)) {
	case types.ProfileShopping:
		variants = []strategy{shoppingBuyStrategy, shoppingBrowseStrategy}
	default:
		s, _ := strategyFor(types.ParseProfile(string(profile)), "")
		variants = []strategy{s}
	}

	var lines []string
	for vi, s := range variants {
		for _, t := range s.templates {
			limit := fmt.Sprintf("%d", t.limit)
			switch t.limit {
			case limitMaxResults:
				limit = "max"
			case limitShoppingFetch:
				limit = "fetch"
			}
			prefix := ""
			if len(variants) > 1 {
				prefix = []string{"[buy] ", "[browse] "}[vi]
			}
			lines = append(lines, fmt.Sprintf("%s%-12s %-45q limit=%-5s relevance=%.2f",
				prefix, t.adapter, fmt.Sprintf(t.format, "{q}"), limit, t.relevance))
		}
	}
	return lines
}
