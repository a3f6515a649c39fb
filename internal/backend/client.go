// Package backend is the HTTP client for the external summarization service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SummarizePath is appended to the configured base URL.
const SummarizePath = "/api/v4/summarize"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

var ErrBadStatus = errors.New("backend returned non-2xx status")

// Request is the payload shared by the GET and POST variants.
type Request struct {
	Question   string   `json:"question"`
	Type       string   `json:"type"`
	Sources    []string `json:"sources"`
	Collection string   `json:"collection,omitempty"`
}

// Client talks to one summarization backend. Each call is bounded by its own
// timeout, and no call retries.
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a client for baseURL. Trailing slashes are ignored.
// A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + SummarizePath,
		timeout:    timeout,
		httpClient: httpClient,
	}
}

// Endpoint returns the full summarize URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Get issues the GET variant with the request encoded as query parameters.
// It returns the raw body of a 2xx response.
func (c *Client) Get(ctx context.Context, req Request) ([]byte, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Add("question", req.Question)
	q.Add("type", req.Type)
	for _, s := range req.Sources {
		q.Add("sources", s)
	}
	if req.Collection != "" {
		q.Add("collection", req.Collection)
	}
	u.RawQuery = q.Encode()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build GET request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	return c.do(httpReq)
}

// Post issues the POST variant with the request as a JSON body.
func (c *Client) Post(ctx context.Context, req Request) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode POST body: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build POST request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq)
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", req.Method, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %d", ErrBadStatus, req.Method, resp.StatusCode)
	}
	return body, nil
}
