// Package http is the API client core: it issues HTTP requests against an
// open transport channel, applies default headers, maps error statuses onto
// the public error taxonomy and hands streamed bodies back undecoded.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/apyrgio/podman-go/internal/constants"
	"github.com/apyrgio/podman-go/pkg/podman"
)

// Logger is the structured logging hook of the HTTP layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request describes one API call.
type Request struct {
	Method string
	// Path is relative to the libpod API prefix, e.g. "/containers/json".
	Path    string
	Query   url.Values
	Headers map[string]string
	// Body is JSON-serialized when non-nil.
	Body interface{}
	// Stream leaves the response body unread for the caller to consume.
	Stream bool
}

// Response is the outcome of one API call. For streaming requests Body is
// nil and Stream carries the open body, owned by the caller.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
	Stream     io.ReadCloser
}

// Client issues requests against one channel.
type Client struct {
	http      *retryablehttp.Client
	baseURL   string
	apiPath   string
	userAgent string
	timeout   time.Duration
	logger    Logger
	debug     bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables opt-in retries for transient failures. Without it
// no request is ever reissued.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.http.RetryMax = retryMax
		c.http.RetryWaitMin = waitMin
		c.http.RetryWaitMax = waitMax
	}
}

// WithTimeout bounds non-streaming requests that carry no caller deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithAPIVersion overrides the libpod API version segment of request paths.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.apiPath = "/v" + version + "/libpod"
	}
}

// NewClient builds a client over the given round tripper. host becomes the
// URL authority; transports that dial a fixed target (unix, ssh) pass a
// placeholder, which the service ignores.
func NewClient(transport nethttp.RoundTripper, host string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.HTTPClient = &nethttp.Client{Transport: transport}

	if host == "" {
		// Matches the podman convention of a discarded placeholder host.
		host = "d"
	}

	client := &Client{
		http:      retryClient,
		baseURL:   "http://" + host,
		apiPath:   "/v" + constants.APIVersion + "/libpod",
		userAgent: constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do issues the request and maps failures: statuses >= 400 become APIError
// (404 and 409 unwrap to their sentinels), network failures become
// TransportError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	cancel := func() {}
	if c.timeout > 0 && !req.Stream {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var timeoutCtx context.Context
			timeoutCtx, cancel = context.WithTimeout(ctx, c.timeout)
			httpReq = httpReq.WithContext(timeoutCtx)
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
			"query":  req.Query.Encode(),
		})
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		cancel()

		return nil, &podman.TransportError{Op: req.Method + " " + req.Path, Err: err}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
			"status": resp.StatusCode,
		})
	}

	if resp.StatusCode >= nethttp.StatusBadRequest {
		defer cancel()
		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, &podman.TransportError{Op: req.Method + " " + req.Path, Err: readErr}
		}

		return &Response{StatusCode: resp.StatusCode, Headers: resp.Header},
			c.wrapAPIError(req, resp.StatusCode, body)
	}

	if req.Stream {
		// The caller owns the body; a cancel func bound to c.timeout would
		// sever the stream mid-read, so streaming requests never take one.
		return &Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Header,
			Stream:     resp.Body,
		}, nil
	}

	defer cancel()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &podman.TransportError{Op: req.Method + " " + req.Path, Err: err}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Query: query, Body: body})
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path, Query: query})
}

// GetStream issues a GET request and returns the unread body.
func (c *Client) GetStream(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query, Stream: true})
}

// PostStream issues a POST request and returns the unread body.
func (c *Client) PostStream(ctx context.Context, path string, query url.Values, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Query: query, Body: body, Stream: true})
}

func (c *Client) buildRequest(ctx context.Context, req *Request) (*retryablehttp.Request, error) {
	endpoint := c.baseURL + c.apiPath + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var body io.Reader

	if req.Body != nil {
		buf, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		body = bytes.NewReader(buf)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	// Defaults first, then caller headers, so the caller wins on overlap.
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

func (c *Client) wrapAPIError(req *Request, status int, body []byte) error {
	apiErr := podman.ParseAPIError(status, body)

	return fmt.Errorf("%s %s: %w", req.Method, req.Path, apiErr)
}
