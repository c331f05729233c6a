// Package umami is a thin HTTP client for the three Umami API endpoints the
// exporter needs: share lookup, login, and the expanded path-metrics listing.
package umami

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Row is one untrusted record from a metrics page. Field types are only
// validated at aggregation time; a malformed row must not fail the fetch.
type Row map[string]any

// ProtocolError is returned when an endpoint answered but not in the way
// the exporter expects: wrong status, invalid JSON, or a missing field.
// It carries enough context to diagnose without re-running the export.
type ProtocolError struct {
	URL        string
	StatusCode int
	Body       string
	Reason     string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s (status %d, body %q)", e.URL, e.Reason, e.StatusCode, e.Body)
}

// Client issues sequential, fail-fast requests. There is deliberately no
// retry policy: a cron-driven export should fail loudly and run again later.
type Client struct {
	http *resty.Client
}

// NewClient builds a client rooted at baseURL, e.g. "https://stats.example.com".
func NewClient(baseURL string) *Client {
	c := resty.New()
	c.SetBaseURL(baseURL)
	c.SetTimeout(30 * time.Second)
	c.SetHeader("accept", "application/json")
	return &Client{http: c}
}

type shareResponse struct {
	Token     string `json:"token"`
	WebsiteID string `json:"websiteId"`
}

// Share resolves a public share ID into a share token and the website ID
// the share is scoped to (empty if the server does not report one).
func (c *Client) Share(ctx context.Context, shareID string) (string, string, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/api/share/" + shareID)
	if err != nil {
		return "", "", fmt.Errorf("share lookup request: %w", err)
	}
	if err := expectSuccess(resp); err != nil {
		return "", "", err
	}

	var body shareResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", "", protocolErr(resp, "response is not valid JSON")
	}
	if body.Token == "" {
		return "", "", protocolErr(resp, "share response has no token")
	}
	return body.Token, body.WebsiteID, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges username/password for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(loginRequest{Username: username, Password: password}).
		Post("/api/auth/login")
	if err != nil {
		return "", fmt.Errorf("login request: %w", err)
	}
	if err := expectSuccess(resp); err != nil {
		return "", err
	}

	var body loginResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", protocolErr(resp, "response is not valid JSON")
	}
	if body.Token == "" {
		return "", protocolErr(resp, "login response has no token")
	}
	return body.Token, nil
}

// MetricsPage fetches one page of expanded path metrics for the website in
// headers' scope, over [startAt, endAt] in epoch milliseconds.
func (c *Client) MetricsPage(ctx context.Context, websiteID string, headers map[string]string, startAt, endAt int64, limit, offset int) ([]Row, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetQueryParams(map[string]string{
			"type":    "path",
			"startAt": strconv.FormatInt(startAt, 10),
			"endAt":   strconv.FormatInt(endAt, 10),
			"limit":   strconv.Itoa(limit),
			"offset":  strconv.Itoa(offset),
		}).
		Get("/api/websites/" + websiteID + "/metrics/expanded")
	if err != nil {
		return nil, fmt.Errorf("metrics page request (offset %d): %w", offset, err)
	}
	if err := expectSuccess(resp); err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, protocolErr(resp, "response is not valid JSON")
	}
	rows, err := extractRows(payload)
	if err != nil {
		return nil, protocolErr(resp, err.Error())
	}
	return rows, nil
}

// extractRows accepts the known response shapes in a fixed priority order:
// a bare array, then {"data": [...]}, then {"rows": [...]}. Anything else
// is a protocol error rather than a guess.
func extractRows(payload any) ([]Row, error) {
	var raw []any
	switch v := payload.(type) {
	case []any:
		raw = v
	case map[string]any:
		if arr, ok := v["data"].([]any); ok {
			raw = arr
		} else if arr, ok := v["rows"].([]any); ok {
			raw = arr
		} else {
			return nil, fmt.Errorf("response object has no data or rows array")
		}
	default:
		return nil, fmt.Errorf("response is neither an array nor an object")
	}

	rows := make([]Row, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			rows = append(rows, Row(m))
		} else {
			// Non-object entries carry nothing to aggregate.
			rows = append(rows, Row{})
		}
	}
	return rows, nil
}

func expectSuccess(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return protocolErr(resp, "unexpected HTTP status")
}

func protocolErr(resp *resty.Response, reason string) *ProtocolError {
	return &ProtocolError{
		URL:        resp.Request.URL,
		StatusCode: resp.StatusCode(),
		Body:       truncate(string(resp.Body()), 512),
		Reason:     reason,
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
