package httpclient

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is joined to BaseURL unless it is an absolute URL.
	Path string
	// Headers override the client defaults.
	Headers map[string]string
	// Query holds URL query parameters.
	Query map[string]string
	// Body accepts io.Reader, []byte, string, or a value to JSON-encode.
	Body any
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError reports a 4xx or 5xx status.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}
