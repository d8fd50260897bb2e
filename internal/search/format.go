// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// FormatTable writes results as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		formatFailures(out, w)
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-12s  %-10s  %-5s  %s\n",
		"Rank", "Title", "Source", "Site", "Score", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range out.Results {
		fmt.Fprintf(w, "%-4d  %-50s  %-12s  %-10s  %-5.2f  %s\n",
			i+1, clip(r.Title, 50), r.Source, clip(r.Site, 10), r.Relevance, r.URL)
	}

	fmt.Fprintf(w, "\n%d results for profile %s", len(out.Results), out.Profile)
	if out.BuyIntent {
		fmt.Fprint(w, " (buy intent)")
	}
	if out.DupsRemoved > 0 {
		fmt.Fprintf(w, ", %d duplicates removed", out.DupsRemoved)
	}
	fmt.Fprintln(w)
	formatFailures(out, w)
}

func formatFailures(out Output, w io.Writer) {
	for _, f := range out.Failures {
		fmt.Fprintf(w, "warning: %s sub-query %q failed: %s\n", f.Adapter, f.SubQuery, f.Error)
	}
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Results)
}

// clip shortens s to max characters, marking the cut with "...".
func clip(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}
