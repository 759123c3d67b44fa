// Package client is an HTTP/JSON client for the intake API, used by the CLI
// when pointed at a running server instead of local storage.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/intake/internal/model"
)

type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// Submit posts a form payload; the server assigns the reference number.
func (c *HTTPClient) Submit(ctx context.Context, collection string, payload map[string]any) (*model.Record, error) {
	var record model.Record
	if err := c.doJSON(ctx, http.MethodPost, "/v1/"+url.PathEscape(collection), payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListOptions mirror the list endpoint's query parameters.
type ListOptions struct {
	Search string
	Status string
	Limit  int
}

// List returns the filtered records plus the unfiltered collection size.
func (c *HTTPClient) List(ctx context.Context, collection string, opts ListOptions) ([]*model.Record, int, error) {
	q := url.Values{}
	if opts.Search != "" {
		q.Set("q", opts.Search)
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	path := "/v1/" + url.PathEscape(collection)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Records []*model.Record `json:"records"`
		Total   int             `json:"total"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Records, resp.Total, nil
}

// Get fetches a record by reference number. A missing record is (nil, nil).
func (c *HTTPClient) Get(ctx context.Context, collection, id string) (*model.Record, error) {
	var record model.Record
	err := c.doJSON(ctx, http.MethodGet, "/v1/"+url.PathEscape(collection)+"/"+url.PathEscape(id), nil, &record)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Update patches a record by reference number. A missing record is (nil, nil).
func (c *HTTPClient) Update(ctx context.Context, collection, id string, patch map[string]any) (*model.Record, error) {
	var record model.Record
	err := c.doJSON(ctx, http.MethodPatch, "/v1/"+url.PathEscape(collection)+"/"+url.PathEscape(id), patch, &record)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Clear deletes every record in the collection.
func (c *HTTPClient) Clear(ctx context.Context, collection string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/"+url.PathEscape(collection), nil, nil)
}

// ExportCSV downloads the collection's CSV export.
func (c *HTTPClient) ExportCSV(ctx context.Context, collection string, opts ListOptions) ([]byte, error) {
	q := url.Values{}
	if opts.Search != "" {
		q.Set("q", opts.Search)
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	path := "/v1/" + url.PathEscape(collection) + "/export"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	return body, nil
}

// Health pings the server's health endpoint.
func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func isNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
