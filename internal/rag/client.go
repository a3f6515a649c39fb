// Package rag calls the local document retrieval service that answers
// questions over the PDF collections.
package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxBodyBytes = 8 << 20

var ErrBadStatus = errors.New("rag service returned non-2xx status")

// Request mirrors the retrieval service's search body.
type Request struct {
	Query      string  `json:"query"`
	Threshold  float64 `json:"threshold"`
	MaxResults int     `json:"max_results"`
}

// Response is the retrieval service's answer with cited chunks.
type Response struct {
	Answer           string   `json:"answer"`
	Sources          []Source `json:"sources"`
	Confidence       float64  `json:"confidence"`
	TotalChunksFound int      `json:"total_chunks_found"`
}

type Source struct {
	ChunkID    string   `json:"chunk_id"`
	Content    string   `json:"content"`
	Similarity float64  `json:"similarity"` // already a 0-100 percentage
	Metadata   Metadata `json:"metadata"`
}

type Metadata struct {
	Document string `json:"document"`
	Page     int    `json:"page"`
	Section  string `json:"section"`
	Type     string `json:"type"`
}

// Client posts searches to a single retrieval endpoint.
type Client struct {
	url        string
	threshold  float64
	maxResults int
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a client for the full search URL
// (e.g. http://localhost:8000/api/search).
func NewClient(url string, threshold float64, maxResults int, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		url:        url,
		threshold:  threshold,
		maxResults: maxResults,
		timeout:    timeout,
		httpClient: httpClient,
	}
}

// Search asks the retrieval service for an answer to query.
func (c *Client) Search(ctx context.Context, query string) (*Response, error) {
	payload, err := json.Marshal(Request{
		Query:      query,
		Threshold:  c.threshold,
		MaxResults: c.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("encode rag request: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build rag request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rag search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read rag response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode rag response: %w", err)
	}
	return &out, nil
}
