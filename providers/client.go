package providers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/kbukum/marketweb/errors"
	"github.com/kbukum/marketweb/httpclient/rest"
	"github.com/kbukum/marketweb/logger"
)

const (
	resource        = "providers"
	headerRequestID = "X-Request-Id"
)

// Provider is one provider record. The listing does not interpret its fields.
type Provider map[string]any

// Filters are passed to the upstream as query parameters.
type Filters map[string]string

// envelope is the upstream response shape.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
}

// Client reads the provider listing from the upstream API.
type Client struct {
	rest *rest.Client
	path string
	log  *logger.Logger
}

// NewClient creates a listing client. Transport-level retries are disabled:
// the query cache owns the retry policy.
func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	upstream := cfg.Upstream
	upstream.Retry = nil

	rc, err := rest.New(upstream)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{rest: rc, path: cfg.Path, log: log.WithComponent("providers.client")}, nil
}

// List fetches the providers matching filters.
//
// A 200 envelope must carry an array. A 201 envelope, or any other 2xx one
// carrying a non-empty array, also counts as success. Every other envelope
// is a fetch failure. Non-2xx responses return the *httpclient.Error.
func (c *Client) List(ctx context.Context, filters Filters) ([]Provider, error) {
	var opts []rest.RequestOption
	if len(filters) > 0 {
		opts = append(opts, rest.WithQuery(filters))
	}
	if id := logger.RequestIDFromContext(ctx); id != "" {
		opts = append(opts, rest.WithHeaders(map[string]string{headerRequestID: id}))
	}

	resp, err := rest.Get[envelope](ctx, c.rest, c.path, opts...)
	if err != nil {
		var decodeErr *rest.DecodeError
		if stderrors.As(err, &decodeErr) {
			return nil, errors.InvalidResponseFormat(resource, "body", "a JSON object").WithCause(err)
		}
		return nil, err
	}

	status := resp.Data.StatusCode
	if status == 0 {
		status = resp.StatusCode
	}
	items, err := classify(status, resp.Data.Data)
	if err != nil {
		c.log.WithContext(ctx).Warn("Provider listing rejected", logger.Fields(
			logger.FieldStatus, status,
			logger.FieldError, err.Error(),
		))
		return nil, err
	}
	return items, nil
}

func classify(status int, data json.RawMessage) ([]Provider, error) {
	items, isArray := decodeArray(data)

	switch {
	case status == http.StatusOK:
		if !isArray {
			return nil, errors.InvalidResponseFormat(resource, "data", "an array of objects")
		}
		return items, nil
	case status == http.StatusCreated:
		return items, nil
	case status >= 200 && status < 300 && len(items) > 0:
		return items, nil
	default:
		return nil, errors.FetchFailed(resource, status)
	}
}

// decodeArray reports whether data is a JSON array and returns its items,
// never nil.
func decodeArray(data json.RawMessage) ([]Provider, bool) {
	items := []Provider{}
	if len(data) == 0 {
		return items, false
	}
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		return []Provider{}, false
	}
	return items, true
}
