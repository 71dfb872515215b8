package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kbukum/marketweb/httpclient"
)

// Client sends and receives JSON. Content-Type and Accept default to
// application/json.
type Client struct {
	http *httpclient.Client
}

// New creates a REST client from cfg.
func New(cfg httpclient.Config) (*Client, error) {
	headers := make(map[string]string, len(cfg.Headers)+2)
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	if _, ok := headers["Content-Type"]; !ok {
		headers["Content-Type"] = "application/json"
	}
	if _, ok := headers["Accept"]; !ok {
		headers["Accept"] = "application/json"
	}
	cfg.Headers = headers

	c, err := httpclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// HTTP returns the underlying client.
func (c *Client) HTTP() *httpclient.Client {
	return c.http
}

// RequestOption configures a single request.
type RequestOption func(*httpclient.Request)

// WithQuery sets query parameters.
func WithQuery(params map[string]string) RequestOption {
	return func(r *httpclient.Request) { r.Query = params }
}

// WithHeaders sets request headers.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *httpclient.Request) { r.Headers = headers }
}

// Response is a decoded response.
type Response[T any] struct {
	StatusCode int
	Headers    map[string]string
	Data       T
}

// Get performs a GET and decodes the body into T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodGet, path, nil, opts...)
}

// Post performs a POST with a JSON body and decodes the reply into T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodPost, path, body, opts...)
}

func do[T any](ctx context.Context, c *Client, method, path string, body any, opts ...RequestOption) (*Response[T], error) {
	req := httpclient.Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		// Error statuses still get a best-effort decode.
		if resp != nil {
			var data T
			if json.Unmarshal(resp.Body, &data) == nil {
				return &Response[T]{StatusCode: resp.StatusCode, Headers: resp.Headers, Data: data}, err
			}
		}
		return nil, err
	}

	var data T
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &data); err != nil {
			return nil, &DecodeError{StatusCode: resp.StatusCode, Body: resp.Body, Err: err}
		}
	}
	return &Response[T]{StatusCode: resp.StatusCode, Headers: resp.Headers, Data: data}, nil
}
