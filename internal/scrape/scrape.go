// Package scrape gives the Analyst its one external tool: fetching a URL
// and flattening the page into readable text for the analysis context.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// maxBodyBytes bounds how much of a page is read; discovery references are
// documentation pages, not downloads.
const maxBodyBytes = 2 << 20

var urlRe = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// FindURLs returns the http(s) URLs mentioned in the discovery input, in
// order of first appearance, deduplicated.
func FindURLs(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, u := range urlRe.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".,;:")
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// Fetcher fetches and flattens web pages.
type Fetcher struct {
	http *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{http: &http.Client{Timeout: 20 * time.Second}}
}

// PageText fetches the URL and returns the page's visible text with
// whitespace collapsed. Script, style and head content is dropped.
func (f *Fetcher) PageText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("scrape: unexpected status %s for %s", resp.Status, url)
	}
	doc, err := html.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("scrape: parse %s: %w", url, err)
	}
	return Flatten(doc), nil
}

// Flatten collects the text nodes of a parsed page, skipping non-visible
// subtrees, and normalizes runs of whitespace to single spaces.
func Flatten(doc *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(strings.Fields(b.String()), " ")
}
