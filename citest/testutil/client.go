package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bluewriter/bluewriter/pkg/types"
)

// TestClient provides HTTP client utilities for testing
type TestClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewTestClient creates a new test HTTP client
func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// RequestOption configures HTTP requests
type RequestOption func(*http.Request)

// WithHeader adds a header to the request
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// WithQuery adds query parameters
func WithQuery(params map[string]string) RequestOption {
	return func(r *http.Request) {
		q := r.URL.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		r.URL.RawQuery = q.Encode()
	}
}

// Response wraps HTTP response with helpers
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// JSON unmarshals response body into v
func (r *Response) JSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// String returns response body as string
func (r *Response) String() string {
	return string(r.Body)
}

// IsSuccess returns true if status code is 2xx
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs HTTP GET request
func (c *TestClient) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, opts...)
}

// Post performs HTTP POST request with JSON body
func (c *TestClient) Post(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body, opts...)
}

// Put performs HTTP PUT request with JSON body
func (c *TestClient) Put(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, body, opts...)
}

// Patch performs HTTP PATCH request with JSON body
func (c *TestClient) Patch(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, body, opts...)
}

// Delete performs HTTP DELETE request
func (c *TestClient) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, opts...)
}

// do performs the actual HTTP request
func (c *TestClient) do(ctx context.Context, method, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	fullURL := c.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

// APIError is the error body the server returns.
type APIError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ErrorCode decodes the error code of a failed response.
func (r *Response) ErrorCode() string {
	var e APIError
	if err := r.JSON(&e); err != nil {
		return ""
	}
	return e.Error.Code
}

// decode checks the status and unmarshals the body into out.
func decode(resp *Response, err error, status int, out interface{}) error {
	if err != nil {
		return err
	}
	if resp.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, resp.StatusCode, resp.String())
	}
	if out == nil {
		return nil
	}
	return resp.JSON(out)
}

// CreateProject creates a project
func (c *TestClient) CreateProject(ctx context.Context, name, description string) (*types.Project, error) {
	var p types.Project
	resp, err := c.Post(ctx, "/projects", map[string]string{"name": name, "description": description})
	if err := decode(resp, err, http.StatusCreated, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject deletes a project and everything in it
func (c *TestClient) DeleteProject(ctx context.Context, id int64) error {
	resp, err := c.Delete(ctx, fmt.Sprintf("/projects/%d", id))
	return decode(resp, err, http.StatusOK, nil)
}

// CreateStory creates a story in a project
func (c *TestClient) CreateStory(ctx context.Context, projectID int64, title string) (*types.Story, error) {
	var s types.Story
	resp, err := c.Post(ctx, fmt.Sprintf("/projects/%d/stories", projectID), map[string]string{"title": title})
	if err := decode(resp, err, http.StatusCreated, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetStory fetches a story
func (c *TestClient) GetStory(ctx context.Context, id int64) (*types.Story, error) {
	var s types.Story
	resp, err := c.Get(ctx, fmt.Sprintf("/stories/%d", id))
	if err := decode(resp, err, http.StatusOK, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListStories lists a project's stories in order
func (c *TestClient) ListStories(ctx context.Context, projectID int64) ([]types.Story, error) {
	var stories []types.Story
	resp, err := c.Get(ctx, fmt.Sprintf("/projects/%d/stories", projectID))
	if err := decode(resp, err, http.StatusOK, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// CreateChapter creates a chapter card at the default position
func (c *TestClient) CreateChapter(ctx context.Context, storyID int64, title string) (*types.Chapter, error) {
	var ch types.Chapter
	resp, err := c.Post(ctx, fmt.Sprintf("/stories/%d/chapters", storyID), types.NewChapter{Title: title})
	if err := decode(resp, err, http.StatusCreated, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// GetChapter fetches a chapter
func (c *TestClient) GetChapter(ctx context.Context, id int64) (*types.Chapter, error) {
	var ch types.Chapter
	resp, err := c.Get(ctx, fmt.Sprintf("/chapters/%d", id))
	if err := decode(resp, err, http.StatusOK, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// CreateEntry creates an encyclopedia entry
func (c *TestClient) CreateEntry(ctx context.Context, projectID int64, in types.NewEntry) (*types.Entry, error) {
	var e types.Entry
	resp, err := c.Post(ctx, fmt.Sprintf("/projects/%d/encyclopedia", projectID), in)
	if err := decode(resp, err, http.StatusCreated, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
