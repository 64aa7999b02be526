package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mj1618/webtrial/internal/logger"
)

// Metrics mirrors the verification service's /metrics JSON. Last is
// "PASS", "FAIL" or "MISSING", empty before any verification.
type Metrics struct {
	Total  int    `yaml:"total"   json:"total"`
	Passed int    `yaml:"passed"  json:"passed"`
	Failed int    `yaml:"failed"  json:"failed"`
	LastMS int64  `yaml:"last_ms" json:"last_ms"`
	Last   string `yaml:"last"    json:"last"`
	LastTS int64  `yaml:"last_ts" json:"last_ts"`
}

// Client talks to the verification service over plain HTTP.
type Client struct {
	baseURL string
	hc      *http.Client
	log     logger.Logger
}

// NewClient builds a client for the service at baseURL.
func NewClient(baseURL string, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// Reset zeroes the service-side metrics.
func (c *Client) Reset(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reset_metrics", nil)
	if err != nil {
		return fmt.Errorf("build reset request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("reset metrics: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("reset metrics: %w", err)
	}
	c.log.Debug(ctx, "server metrics reset", map[string]interface{}{"url": c.baseURL})
	return nil
}

// Metrics fetches the current service-side counters.
func (c *Client) Metrics(ctx context.Context) (Metrics, error) {
	var m Metrics
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/metrics", nil)
	if err != nil {
		return m, fmt.Errorf("build metrics request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return m, fmt.Errorf("fetch metrics: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return m, fmt.Errorf("fetch metrics: %w", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return m, fmt.Errorf("decode metrics: %w", err)
	}
	return m, nil
}

// checkStatus turns a non-2xx response into an error carrying the status
// and a bounded body snippet.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
