// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zendesk fetches Help Center articles from a Zendesk-compatible API.
package zendesk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/optisigns/optibot/internal/httputil"
	"github.com/optisigns/optibot/pkg/types"
)

// DefaultBaseURL is the article listing endpoint used when the config
// leaves scrape.base_url empty.
const DefaultBaseURL = "https://support.optisigns.com/api/v2/help_center/en-us/articles.json"

// Client queries the Help Center article listing API.
type Client struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient builds a Client from scrape configuration.
func NewClient(cfg types.ScrapeConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		UserAgent:  cfg.UserAgent,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// listPage is one page of the article listing response.
type listPage struct {
	Articles []types.Article `json:"articles"`
	NextPage string          `json:"next_page"`
}

// ListArticles fetches articles page by page, following next_page links until
// the listing is exhausted or limit articles have been collected. A limit of
// zero or less means no cap. Any transport or decode failure is fatal: the
// caller must not sync against a partial article set.
func (c *Client) ListArticles(ctx context.Context, limit int) ([]types.Article, error) {
	var all []types.Article
	url := c.BaseURL

	for url != "" && (limit <= 0 || len(all) < limit) {
		page, err := c.fetchPage(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("listing articles from %s: %w", url, err)
		}
		all = append(all, page.Articles...)
		url = page.NextPage
	}

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, url string) (*listPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTPClient, req, 0)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var page listPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("parsing listing response: %w", err)
	}
	return &page, nil
}
