package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	httpTimeoutEnvKey  = "FRAGMENTS_HTTP_TIMEOUT"
	userEnvKey         = "FRAGMENTS_USER"
	passwordEnvKey     = "FRAGMENTS_PASSWORD"
)

// Client is a simple HTTP client for the fragments API.
type Client struct {
	baseURL  string
	http     *http.Client
	username string
	password string
}

// NewClient creates a new API client. Credentials come from
// FRAGMENTS_USER and FRAGMENTS_PASSWORD unless set with WithCredentials.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: httpTimeoutFromEnv()},
		username: strings.TrimSpace(os.Getenv(userEnvKey)),
		password: os.Getenv(passwordEnvKey),
	}
}

// WithCredentials sets HTTP Basic credentials.
func (c *Client) WithCredentials(username, password string) *Client {
	c.username = strings.TrimSpace(username)
	c.password = password
	return c
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", nil, "", nil, nil)
}

// Create stores data as a new fragment of contentType. It returns the
// fragment and the Location header.
func (c *Client) Create(ctx context.Context, contentType string, data []byte) (Fragment, string, error) {
	resp, err := c.doRaw(ctx, http.MethodPost, "/v1/fragments", nil, bytes.NewReader(data), contentType)
	if err != nil {
		return Fragment{}, "", err
	}
	defer resp.Body.Close()

	var out FragmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Fragment{}, "", err
	}
	return out.Fragment, resp.Header.Get("Location"), nil
}

// Update replaces the payload of an existing fragment.
func (c *Client) Update(ctx context.Context, id, contentType string, data []byte) (Fragment, error) {
	var out FragmentResponse
	err := c.doJSON(ctx, http.MethodPut, fragmentPath(id), nil, contentType, bytes.NewReader(data), &out)
	return out.Fragment, err
}

// Get fetches fragment data. A non-empty ext requests a conversion, e.g. "html".
func (c *Client) Get(ctx context.Context, id, ext string) ([]byte, string, error) {
	target := id
	if ext = strings.TrimPrefix(strings.TrimSpace(ext), "."); ext != "" {
		target += "." + ext
	}
	resp, err := c.doRaw(ctx, http.MethodGet, fragmentPath(target), nil, nil, "")
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// Info fetches fragment metadata and its producible formats.
func (c *Client) Info(ctx context.Context, id string) (Fragment, error) {
	var out FragmentResponse
	err := c.doJSON(ctx, http.MethodGet, fragmentPath(id)+"/info", nil, "", nil, &out)
	return out.Fragment, err
}

// List returns the ids of the caller's fragments.
func (c *Client) List(ctx context.Context) ([]string, error) {
	var out FragmentIDsResponse
	err := c.doJSON(ctx, http.MethodGet, "/v1/fragments", nil, "", nil, &out)
	return out.Fragments, err
}

// ListExpanded returns the caller's fragments with metadata.
func (c *Client) ListExpanded(ctx context.Context) ([]Fragment, error) {
	var out FragmentListResponse
	query := url.Values{}
	query.Set("expand", "1")
	err := c.doJSON(ctx, http.MethodGet, "/v1/fragments", query, "", nil, &out)
	return out.Fragments, err
}

// Delete removes a fragment.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, fragmentPath(id), nil, "", nil, nil)
}

func fragmentPath(id string) string {
	return "/v1/fragments/" + url.PathEscape(id)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, out any) error {
	resp, err := c.doRaw(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// doRaw sends one request and returns the response for status < 400. The
// caller closes the body.
func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.setAuthHeader(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
		return &APIError{
			Status:    resp.StatusCode,
			Kind:      errResp.Error.Kind,
			ErrorCode: errResp.Error.ErrorCode,
			Message:   errResp.Error.Message,
		}
	}
	return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("api error: %s", resp.Status)}
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func (c *Client) setAuthHeader(req *http.Request) {
	if c.username == "" || req == nil {
		return
	}
	req.SetBasicAuth(c.username, c.password)
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
