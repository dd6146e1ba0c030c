// Package adminapi is the console's only door to the trip backend. It issues
// JSON requests against the admin and public APIs and turns the two success
// conventions they use into Go errors.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/logger"
)

// Convention selects how a response body signals failure.
type Convention int

const (
	// ConventionSuccess is used by admin CRUD: {"success": false, "error": "..."}.
	ConventionSuccess Convention = iota
	// ConventionStatus is used by the public search API: {"status": "error", "message": "..."}.
	ConventionStatus
	// ConventionRaw skips envelope checks; only the HTTP status is inspected.
	ConventionRaw
)

// CallOptions describes one request.
type CallOptions struct {
	Method     string
	Body       interface{}
	Query      url.Values
	Convention Convention
}

// Caller is the subset of the client the controllers depend on.
type Caller interface {
	Call(ctx context.Context, path string, opts CallOptions) (*Response, error)
	Upload(ctx context.Context, path string, fields map[string]string, files []File) (*Response, error)
	Fetch(ctx context.Context, path string, query url.Values) ([]byte, error)
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout bounds every request. Zero keeps the default of no timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a backend client rooted at baseURL.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call issues a JSON request and validates the response envelope.
func (c *Client) Call(ctx context.Context, path string, opts CallOptions) (*Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to marshal request")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, opts.Query), body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, path, opts.Convention)
}

// Fetch returns the raw body of a GET, for passthrough endpoints such as the GPX proxy.
func (c *Client) Fetch(ctx context.Context, path string, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to create request")
	}
	resp, err := c.do(req, path, ConventionRaw)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Ping checks that the backend answers at all. Any HTTP response below 500
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/", nil), nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ServerError, "failed to create request")
	}
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Transport(err)
	}
	defer httpResp.Body.Close()
	io.Copy(io.Discard, httpResp.Body)
	if httpResp.StatusCode >= http.StatusInternalServerError {
		return apperrors.Upstream("", httpResp.StatusCode)
	}
	return nil
}

func (c *Client) do(req *http.Request, path string, convention Convention) (*Response, error) {
	log := logger.GetLogger()
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	family := endpointFamily(path)
	log.Debugw("Backend request", "method", req.Method, "path", path)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		observeCall(req.Method, family, outcomeTransport, start)
		log.Warnw("Backend request failed", "method", req.Method, "path", path, "error", err)
		return nil, apperrors.Transport(err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		observeCall(req.Method, family, outcomeTransport, start)
		return nil, apperrors.Transport(fmt.Errorf("failed to read response: %w", err))
	}

	resp := newResponse(httpResp.StatusCode, raw)
	if err := resp.check(convention); err != nil {
		observeCall(req.Method, family, outcomeUpstream, start)
		log.Infow("Backend rejected request",
			"method", req.Method,
			"path", path,
			"status", httpResp.StatusCode,
			"error", err,
		)
		return nil, err
	}

	observeCall(req.Method, family, outcomeOK, start)
	return resp, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
