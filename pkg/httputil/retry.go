package httputil

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig controls the retrying transport.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns a RetryConfig with sensible defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
	}
}

// RetryTransport retries transient failures (network errors and 502/503/504
// responses) with exponential backoff. Requests whose bodies cannot be
// replayed (GetBody unset) are attempted once. The PostgREST client never
// retries by itself; callers opt in by wrapping their transport:
//
//	postgrest.WithTransport(httputil.NewRetryTransport(nil, httputil.DefaultRetryConfig()))
type RetryTransport struct {
	next   Doer
	config RetryConfig
}

// NewRetryTransport wraps next with retry behaviour. A nil next uses the
// default transport with a 5s timeout.
func NewRetryTransport(next Doer, config RetryConfig) *RetryTransport {
	if next == nil {
		next = NewTransport(5 * time.Second)
	}
	return &RetryTransport{next: next, config: config}
}

func (t *RetryTransport) Do(req *http.Request) (*http.Response, error) {
	if req.Body != nil && req.GetBody == nil {
		return t.next.Do(req)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.config.InitialBackoff
	b.MaxInterval = t.config.MaxBackoff
	b.MaxElapsedTime = time.Duration(t.config.MaxRetries) * t.config.MaxBackoff

	var resp *http.Response
	operation := func() error {
		attempt := req.Clone(req.Context())
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return backoff.Permanent(fmt.Errorf("replay request body: %w", err))
			}
			attempt.Body = body
		}

		var err error
		resp, err = t.next.Do(attempt)
		if err != nil {
			return err
		}
		if retryableStatus(resp.StatusCode) {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return fmt.Errorf("retryable status %d", resp.StatusCode)
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, req.Context())); err != nil {
		return nil, err
	}
	return resp, nil
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
