// Package tracker is a thin REST wrapper over the issue tracker: project
// and priority listings, per-project custom-field metadata, issue creation
// and the post-creation comment. Read failures degrade to empty values and
// a log line; only issue creation surfaces errors to the caller.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// listingTTL bounds how long project/priority listings are served from the
// process-local cache. No invalidation besides expiry or restart.
const listingTTL = time.Hour

// Config carries the tracker connection settings.
type Config struct {
	BaseURL  string
	Email    string
	APIToken string
}

// Client talks to the tracker REST API. A nil *Client behaves like the
// unconfigured state: listings come back empty and writes fail cleanly.
type Client struct {
	baseURL string
	email   string
	token   string
	http    *http.Client

	projects   *expirable.LRU[string, map[string]string]
	priorities *expirable.LRU[string, []string]
}

// New returns a client, or nil when any of the settings is missing.
func New(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" || strings.TrimSpace(cfg.Email) == "" || strings.TrimSpace(cfg.APIToken) == "" {
		return nil
	}
	return &Client{
		baseURL:    base,
		email:      strings.TrimSpace(cfg.Email),
		token:      strings.TrimSpace(cfg.APIToken),
		http:       &http.Client{Timeout: 30 * time.Second},
		projects:   expirable.NewLRU[string, map[string]string](1, nil, listingTTL),
		priorities: expirable.NewLRU[string, []string](1, nil, listingTTL),
	}
}

// Configured reports whether live tracker calls are possible.
func (c *Client) Configured() bool { return c != nil }

// BaseURL returns the tracker base URL ("" when unconfigured).
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// post issues an authenticated JSON POST and decodes the response into out
// (out may be nil).
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("tracker: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ListProjects returns key -> display name. Failures are swallowed: the
// caller substitutes its built-in default for an empty map.
func (c *Client) ListProjects(ctx context.Context) map[string]string {
	if c == nil {
		return map[string]string{}
	}
	if cached, ok := c.projects.Get("all"); ok {
		return cached
	}
	var rows []struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	}
	if err := c.get(ctx, "/rest/api/2/project", &rows); err != nil {
		log.Printf("tracker: list projects failed: %v", err)
		return map[string]string{}
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		if r.Key != "" {
			out[r.Key] = r.Name
		}
	}
	c.projects.Add("all", out)
	return out
}

// ListPriorities returns the tracker's priority names in order. Failures
// are swallowed and yield an empty list.
func (c *Client) ListPriorities(ctx context.Context) []string {
	if c == nil {
		return nil
	}
	if cached, ok := c.priorities.Get("all"); ok {
		return cached
	}
	var rows []struct {
		Name string `json:"name"`
	}
	if err := c.get(ctx, "/rest/api/2/priority", &rows); err != nil {
		log.Printf("tracker: list priorities failed: %v", err)
		return nil
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Name != "" {
			out = append(out, r.Name)
		}
	}
	c.priorities.Add("all", out)
	return out
}
