package api

import (
	"errors"
	"fmt"
)

// ErrSessionExpired marks an authenticated call whose session could not be
// recovered: no refresh token was held, or the refresh exchange failed.
var ErrSessionExpired = errors.New("session expired")

// RequestError is a backend rejection: the request reached the server and
// was answered with a non-2xx status. Data holds the parsed error body for
// mutating calls (Django validation errors keyed by field, or detail /
// non_field_errors for auth failures); it is nil for reads and deletes.
// Transport-level failures are never a RequestError.
type RequestError struct {
	Method   string
	Endpoint string
	Status   int
	Data     map[string]any
}

func (e *RequestError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("%s %s: %s (status %d)", e.Method, e.Endpoint, msg, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Endpoint, e.Status)
}

// Message extracts a human-readable message from the error body, trying the
// shapes the backend actually produces: message, detail, then the first
// non_field_errors entry.
func (e *RequestError) Message() string {
	if e.Data == nil {
		return ""
	}
	if msg, ok := e.Data["message"].(string); ok && msg != "" {
		return msg
	}
	if detail, ok := e.Data["detail"].(string); ok && detail != "" {
		return detail
	}
	if nfe, ok := e.Data["non_field_errors"].([]any); ok && len(nfe) > 0 {
		if msg, ok := nfe[0].(string); ok {
			return msg
		}
	}
	return ""
}

// FieldErrors returns the per-field validation messages, if any.
func (e *RequestError) FieldErrors() map[string]string {
	out := make(map[string]string)
	for field, v := range e.Data {
		switch field {
		case "message", "detail", "non_field_errors":
			continue
		}
		switch msgs := v.(type) {
		case string:
			out[field] = msgs
		case []any:
			if len(msgs) > 0 {
				if msg, ok := msgs[0].(string); ok {
					out[field] = msg
				}
			}
		}
	}
	return out
}
