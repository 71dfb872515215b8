package logger

// Standard field keys for structured logging.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldTraceID   = "trace_id"
	FieldLocale    = "locale"
	FieldPath      = "path"
	FieldQueryKey  = "query_key"
	FieldStatus    = "status"
	FieldAttempt   = "attempt"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Fields builds a field map from alternating key-value pairs.
// Non-string keys and a trailing odd value are ignored.
//
//	logger.Info("done", logger.Fields("query_key", key, "count", 3))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]any {
	m := map[string]any{"operation": op}
	if err != nil {
		m[FieldError] = err.Error()
	}
	return m
}
