package postgrest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ConfigError reports invalid construction arguments: an empty or unparsable
// base URL, an empty table name, an empty function name.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("postgrest: invalid %s: %s", e.Field, e.Reason)
}

// ValidationError reports an unsupported filter operator or a malformed
// ordering spec. It is recorded by the offending builder call and returned by
// Execute before any request is sent.
type ValidationError struct {
	Column string
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("postgrest: %s on column %q: %s", e.Reason, e.Column, e.Op)
	}
	return fmt.Sprintf("postgrest: %s: %s", e.Reason, e.Op)
}

// TransportError wraps a network-level failure (connection refused, timeout)
// from the underlying HTTP transport. The backend never saw, or never
// answered, the request.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("postgrest: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx response delivered by the backend. Message, Code,
// Hint and Details mirror the error document PostgREST returns; Raw holds the
// unparsed response body.
type APIError struct {
	StatusCode int             `json:"-"`
	Message    string          `json:"message"`
	Code       string          `json:"code"`
	Hint       string          `json:"hint"`
	Details    string          `json:"details"`
	Raw        json.RawMessage `json:"-"`
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "postgrest: status %d", e.StatusCode)
	if e.Code != "" {
		fmt.Fprintf(&b, " (%s)", e.Code)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Details != "" {
		fmt.Fprintf(&b, ": %s", e.Details)
	}
	if e.Hint != "" {
		fmt.Fprintf(&b, " (hint: %s)", e.Hint)
	}
	return b.String()
}

// newAPIError builds an APIError from a response body, tolerating non-JSON
// bodies (proxies, HTML error pages).
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Raw: json.RawMessage(body)}
	if err := json.Unmarshal(body, apiErr); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
