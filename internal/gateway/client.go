// Package gateway wraps the two backend calls the client depends on:
// the nearby-store search and the chatbot message. It distinguishes
// transport failures from server-reported errors so the coordinator
// can render them differently.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"storescout/internal/logging"
	"storescout/internal/store"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// SearchResponse is the body of GET /api/search/.
type SearchResponse struct {
	Status  string         `json:"status"`
	Stores  []store.Record `json:"stores,omitempty"`
	Message string         `json:"message,omitempty"`
}

// ChatResponse is the body of POST /api/chat/.
type ChatResponse struct {
	Status         string         `json:"status"`
	Reply          string         `json:"reply,omitempty"`
	Action         string         `json:"action,omitempty"`
	NewData        []store.Record `json:"new_data,omitempty"`
	SuggestedStore *store.Record  `json:"suggested_store,omitempty"`
	Message        string         `json:"message,omitempty"`
}

// ActionUpdateMap is the chat action that replaces the current result
// set with the stores the assistant found.
const ActionUpdateMap = "update_map"

// IsError reports a server-side logical error.
func (r *SearchResponse) IsError() bool { return r.Status != "success" }

// IsError reports a server-side logical error.
func (r *ChatResponse) IsError() bool { return r.Status != "success" }

// TransportError marks an unreachable endpoint or a malformed payload,
// as opposed to an error the server reported in a well-formed body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client talks to the storescout backend. It enforces no timeout and
// never retries; a stalled request resolves whenever it resolves.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{},
	}
}

// SearchNearby fetches the stores around the given position. A nil
// error with a non-success Status is a server-reported error; a
// *TransportError means the backend could not be reached or answered
// garbage.
func (c *Client) SearchNearby(ctx context.Context, lat, lng float64) (*SearchResponse, error) {
	if !finite(lat) || !finite(lng) {
		return nil, fmt.Errorf("coordinates must be finite, got lat=%v lng=%v", lat, lng)
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	endpoint := c.baseURL + "/api/search/?" + q.Encode()

	timer := logging.StartTimer(logging.CategoryGateway, "search")
	defer timer.Stop()
	logging.Gateway("search lat=%v lng=%v", lat, lng)

	var resp SearchResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendChatMessage sends one user message to the assistant. Input that
// is empty after trimming is rejected without a network call.
func (c *Client) SendChatMessage(ctx context.Context, text string) (*ChatResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message must not be empty")
	}

	body, err := json.Marshal(map[string]string{"message": text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	timer := logging.StartTimer(logging.CategoryGateway, "chat")
	defer timer.Stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "chat", Err: err}
	}
	defer httpResp.Body.Close()

	var resp ChatResponse
	if err := decodeJSON(httpResp, &resp); err != nil {
		return nil, &TransportError{Op: "chat", Err: err}
	}
	return &resp, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "search", Err: err}
	}
	defer resp.Body.Close()

	if err := decodeJSON(resp, out); err != nil {
		return &TransportError{Op: "search", Err: err}
	}
	return nil
}

// decodeJSON reads a bounded body and unmarshals it. Server-reported
// errors arrive as well-formed bodies with non-2xx codes, so status is
// only fatal when the body is not parseable.
func decodeJSON(resp *http.Response, out interface{}) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		return err
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
