package errors

// ErrorResponse is the JSON error envelope of the API and the locale switch.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is what clients see of an AppError. The cause stays server side;
// RequestID ties the response to the server logs.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// ToResponse renders e for clients.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: ErrorBody{
		Code:      e.Code,
		Message:   e.Message,
		Retryable: e.Retryable,
		Details:   e.Details,
	}}
}

// WithRequestID stamps the response with the ID of the failed request.
func (r ErrorResponse) WithRequestID(id string) ErrorResponse {
	r.Error.RequestID = id
	return r
}
