// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/profile-search/internal/httputil"
)

// duckDuckGoBase is the DuckDuckGo HTML search endpoint. Declared as a var
// so tests can substitute an httptest server.
var duckDuckGoBase = "https://html.duckduckgo.com/html/"

// DuckDuckGo queries the DuckDuckGo HTML endpoint and scrapes its result list.
type DuckDuckGo struct {
	Client *httputil.Client
}

// Search returns up to maxResults hits for query in region (e.g. "de-de",
// "wt-wt" for no region).
func (d *DuckDuckGo) Search(ctx context.Context, query, region string, maxResults int) ([]WebHit, error) {
	if maxResults <= 0 {
		return nil, nil
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty DuckDuckGo query")
	}

	params := url.Values{"q": {query}}
	if region != "" {
		params.Set("kl", region)
	}

	body, err := d.Client.Get(ctx, duckDuckGoBase+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("DuckDuckGo request: %w", err)
	}

	hits, err := parseDuckDuckGoHTML(bytes.NewReader(body), maxResults)
	if err != nil {
		return nil, fmt.Errorf("parsing DuckDuckGo response: %w", err)
	}
	return hits, nil
}

// parseDuckDuckGoHTML extracts organic results from the HTML result page.
// Each result is a div with class "result"; ads carry "result--ad" and are
// skipped.
func parseDuckDuckGoHTML(r io.Reader, maxResults int) ([]WebHit, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var hits []WebHit
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(hits) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "result") {
			if !hasClass(n, "result--ad") {
				if hit, ok := parseResult(n); ok {
					hits = append(hits, hit)
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return hits, nil
}

func parseResult(n *html.Node) (WebHit, bool) {
	link := findFirst(n, func(c *html.Node) bool {
		return c.Data == "a" && hasClass(c, "result__a")
	})
	if link == nil {
		return WebHit{}, false
	}

	hit := WebHit{
		Title: collapseSpace(textContent(link)),
		URL:   resolveRedirect(attr(link, "href")),
	}
	if snippet := findFirst(n, func(c *html.Node) bool {
		return hasClass(c, "result__snippet")
	}); snippet != nil {
		hit.Snippet = collapseSpace(textContent(snippet))
	}
	return hit, true
}

// resolveRedirect unwraps DuckDuckGo's "/l/?uddg=<target>" redirect links.
func resolveRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
