package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/flowfocus/internal/achievements"
	"github.com/claude/flowfocus/internal/analytics"
	"github.com/claude/flowfocus/internal/models"
	"github.com/claude/flowfocus/internal/storage"
)

// HTTPClient implements DataSource by calling the FlowFocus REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) ListSessions(ctx context.Context, _ int, limit int) ([]models.SessionRow, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/api/v1/sessions", params)
	if err != nil {
		return nil, err
	}

	var rows []models.SessionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return rows, nil
}

func (c *HTTPClient) QuerySessions(ctx context.Context, start, end time.Time, _ int, typeFilter string) ([]models.SessionRow, error) {
	params := timeParams(start, end)
	if typeFilter != "" {
		params.Set("type", typeFilter)
	}

	body, err := c.get(ctx, "/api/v1/sessions", params)
	if err != nil {
		return nil, err
	}

	var rows []models.SessionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return rows, nil
}

func (c *HTTPClient) GetAchievements(ctx context.Context, _ int) ([]achievements.Progress, error) {
	body, err := c.get(ctx, "/api/v1/achievements", nil)
	if err != nil {
		return nil, err
	}

	var progress []achievements.Progress
	if err := json.Unmarshal(body, &progress); err != nil {
		return nil, fmt.Errorf("httpclient: decode achievements: %w", err)
	}
	return progress, nil
}

func (c *HTTPClient) GetAnalyticsSummary(ctx context.Context, _ int) (*analytics.Summary, error) {
	body, err := c.get(ctx, "/api/v1/analytics/summary", nil)
	if err != nil {
		return nil, err
	}

	var summary analytics.Summary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("httpclient: decode summary: %w", err)
	}
	return &summary, nil
}

func (c *HTTPClient) GetWeeklyFocus(ctx context.Context, _ int) ([]analytics.DayBucket, error) {
	body, err := c.get(ctx, "/api/v1/analytics/weekly", nil)
	if err != nil {
		return nil, err
	}

	var buckets []analytics.DayBucket
	if err := json.Unmarshal(body, &buckets); err != nil {
		return nil, fmt.Errorf("httpclient: decode weekly focus: %w", err)
	}
	return buckets, nil
}

func (c *HTTPClient) GetStreaks(ctx context.Context, _ int) (*analytics.Streaks, error) {
	body, err := c.get(ctx, "/api/v1/analytics/streaks", nil)
	if err != nil {
		return nil, err
	}

	var streaks analytics.Streaks
	if err := json.Unmarshal(body, &streaks); err != nil {
		return nil, fmt.Errorf("httpclient: decode streaks: %w", err)
	}
	return &streaks, nil
}

func (c *HTTPClient) GetDataStats(ctx context.Context, _ int) (*storage.DataStats, error) {
	body, err := c.get(ctx, "/api/v1/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats storage.DataStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode data stats: %w", err)
	}
	return &stats, nil
}
