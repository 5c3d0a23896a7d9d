// Package tmdb is a thin HTTP client for the two read-only endpoints of the
// external movie metadata service: text search and the popular listing.
// Payloads are returned verbatim.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"

	"movieapp/proj/internal/metrics"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"
	language       = "en-US"
	maxBodyBytes   = 4 << 20
)

var (
	ErrNotConfigured   = errors.New("TMDB API key not configured")
	ErrInvalidResponse = errors.New("tmdb: response is not valid JSON")
)

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: upstream returned %d", e.StatusCode)
}

type Client struct {
	log     *slog.Logger
	baseURL *url.URL
	apiKey  string
	http    *http.Client
}

func New(log *slog.Logger, baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	return &Client{
		log:     log,
		baseURL: parsed,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Search forwards query to the search endpoint.
func (c *Client) Search(ctx context.Context, query string) (json.RawMessage, error) {
	return c.get(ctx, "search", "/search/movie", url.Values{"query": {query}})
}

// Popular lists the first page of popular movies.
func (c *Client) Popular(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "popular", "/movie/popular", url.Values{})
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) (json.RawMessage, error) {
	const op = "tmdb.Client.get"
	log := c.log.With("op", op, "endpoint", endpoint)
	if !c.Configured() {
		metrics.ExternalRequests.WithLabelValues(endpoint, "not_configured").Inc()
		return nil, ErrNotConfigured
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", language)
	params.Set("page", "1")
	target := *c.baseURL
	target.Path = c.baseURL.Path + path
	target.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ExternalRequests.WithLabelValues(endpoint, "transport_error").Inc()
		log.Warn("request failed", "err", redact(err.Error(), c.apiKey))
		return nil, fmt.Errorf("tmdb %s: %s", endpoint, redact(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()
	log.Debug("response received", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ExternalRequests.WithLabelValues(endpoint, "bad_status").Inc()
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.ExternalRequests.WithLabelValues(endpoint, "transport_error").Inc()
		return nil, fmt.Errorf("tmdb %s: read body: %w", endpoint, err)
	}
	if !gojson.Valid(body) {
		metrics.ExternalRequests.WithLabelValues(endpoint, "invalid_body").Inc()
		return nil, ErrInvalidResponse
	}
	metrics.ExternalRequests.WithLabelValues(endpoint, "ok").Inc()
	return json.RawMessage(body), nil
}

// redact strips the API key from messages that embed the request URL,
// where it appears query-escaped.
func redact(msg, secret string) string {
	if secret == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, url.QueryEscape(secret), "***")
	return strings.ReplaceAll(msg, secret, "***")
}
