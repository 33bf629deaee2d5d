// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed retrieves paper metadata from the NCBI E-utilities API.
// It handles query batching, rate limiting, and XML parsing; classification
// consumes the finished Paper records and never touches the network.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-scout/internal/httputil"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// E-utilities endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	esearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

const (
	defaultMaxResults = 20
	defaultBatchSize  = 200
	defaultBatchDelay = 500 * time.Millisecond
	defaultTimeout    = 30 * time.Second
	defaultTool       = "paper-scout"

	// NCBI allows 3 requests per second anonymously, 10 with an API key.
	anonymousRPS = 3
	keyedRPS     = 10
)

// Client is a rate-limited client for the PubMed E-utilities API.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	cfg     types.PubMedConfig
	log     *slog.Logger
}

// NewClient builds a Client from cfg. A nil logger disables logging.
func NewClient(cfg types.PubMedConfig, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Tool == "" {
		cfg.Tool = defaultTool
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rps := anonymousRPS
	if cfg.APIKey != "" {
		rps = keyedRPS
	}

	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		cfg:     cfg,
		log:     logger,
	}
}

// SearchIDs queries esearch for PMIDs matching query. When maxResults is
// not positive the configured maximum (default 20) is used.
func (c *Client) SearchIDs(ctx context.Context, query string, maxResults int) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty")
	}
	if maxResults <= 0 {
		maxResults = c.cfg.MaxResults
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	params := c.commonParams()
	params.Set("term", query)
	params.Set("retmax", strconv.Itoa(maxResults))
	params.Set("retmode", "json")

	resp, err := c.get(ctx, esearchBase, params)
	if err != nil {
		return nil, fmt.Errorf("PubMed search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed search returned HTTP %d", resp.StatusCode)
	}

	var body struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	c.log.Debug("pubmed search", "query", query, "ids", len(body.ESearchResult.IDList))
	return body.ESearchResult.IDList, nil
}

// FetchPapers retrieves full records for the given PMIDs via efetch,
// batching requests to respect NCBI limits, and parses them into Paper
// records. An empty id list yields an empty result, not an error.
func (c *Client) FetchPapers(ctx context.Context, ids []string) ([]types.Paper, error) {
	batchSize := c.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	batchDelay := c.cfg.BatchDelay
	if batchDelay <= 0 {
		batchDelay = defaultBatchDelay
	}

	var papers []types.Paper
	for start := 0; start < len(ids); start += batchSize {
		end := min(start+batchSize, len(ids))

		if start > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(batchDelay):
			}
		}

		batch, err := c.fetchBatch(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		papers = append(papers, batch...)
	}
	return papers, nil
}

func (c *Client) fetchBatch(ctx context.Context, ids []string) ([]types.Paper, error) {
	params := c.commonParams()
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	resp, err := c.get(ctx, efetchBase, params)
	if err != nil {
		return nil, fmt.Errorf("PubMed fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed fetch returned HTTP %d", resp.StatusCode)
	}

	papers, err := ParseArticles(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(papers) < len(ids) {
		c.log.Warn("some articles were skipped", "requested", len(ids), "parsed", len(papers))
	}
	c.log.Debug("pubmed fetch", "requested", len(ids), "parsed", len(papers))
	return papers, nil
}

// get issues a rate-limited GET with 429 retry.
func (c *Client) get(ctx context.Context, base string, params url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	return httputil.DoWithRetry(ctx, c.http, req, 0)
}

// commonParams returns the query parameters shared by every E-utilities call.
func (c *Client) commonParams() url.Values {
	params := url.Values{"db": {"pubmed"}, "tool": {c.cfg.Tool}}
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}
	return params
}
