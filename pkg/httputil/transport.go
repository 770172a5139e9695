// Package httputil provides the HTTP transport collaborators used by the
// PostgREST client: the Doer interface accepted at client construction, the
// default transport with per-request IDs, and an opt-in retrying decorator.
package httputil

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader is set on every outgoing request by the default transport
// so requests can be correlated with server-side logs.
const RequestIDHeader = "X-Request-Id"

// Doer executes a fully-formed HTTP request. *http.Client satisfies it;
// decorators in this package wrap it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewTransport returns the default transport: a net/http client with the
// given timeout, wrapped to tag each request with an X-Request-Id.
func NewTransport(timeout time.Duration) Doer {
	return &requestIDTransport{next: &http.Client{Timeout: timeout}}
}

type requestIDTransport struct {
	next Doer
}

func (t *requestIDTransport) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.New().String())
	}
	return t.next.Do(req)
}
