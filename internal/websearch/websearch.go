// Package websearch queries a SearXNG instance for the pipeline's web-search
// fallback. SearXNG is a self-hosted metasearch engine with a JSON API, so
// no external API key is involved.
package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/seaward0/seaward/internal/config"
	"github.com/seaward0/seaward/internal/log"
)

// Result is a single web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// searchResponse mirrors the SearXNG JSON API response shape.
type searchResponse struct {
	Results []Result `json:"results"`
}

// ErrNoResults is returned when SearXNG finds nothing for a query.
var ErrNoResults = errors.New("web search returned no results")

// Client queries a SearXNG instance.
type Client struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
	logger     log.Logger
}

// New creates a SearXNG client from configuration.
func New(cfg config.SearXNGConfig, logger log.Logger) *Client {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		maxResults: cfg.MaxResults,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Search runs a query and returns up to the configured number of results.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	endpoint, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("parsing SearXNG URL: %w", err)
	}
	q := endpoint.Query()
	q.Set("q", query)
	q.Set("format", "json")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying SearXNG: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SearXNG returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding SearXNG response: %w", err)
	}

	if len(parsed.Results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoResults, query)
	}

	results := parsed.Results
	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}

	c.logger.Debug("web search completed",
		"query", query, "results", len(results))
	return results, nil
}
