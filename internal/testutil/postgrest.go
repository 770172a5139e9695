// Package testutil provides a fake PostgREST backend for client tests.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// RecordedRequest captures one request received by the fake backend.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// PostgREST is an httptest-backed fake PostgREST endpoint. It records every
// request and answers with the configured status, headers and body.
type PostgREST struct {
	Server *httptest.Server

	mu       sync.Mutex
	status   int
	header   http.Header
	body     []byte
	requests []RecordedRequest
}

// NewPostgREST starts a fake backend answering 200 with an empty JSON array.
// Callers must Close it.
func NewPostgREST() *PostgREST {
	p := &PostgREST{
		status: http.StatusOK,
		header: http.Header{},
		body:   []byte("[]"),
	}
	p.Server = httptest.NewServer(http.HandlerFunc(p.handle))
	return p
}

func (p *PostgREST) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	p.mu.Lock()
	p.requests = append(p.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	status, header, respBody := p.status, p.header.Clone(), p.body
	p.mu.Unlock()

	for k, values := range header {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(respBody)
}

// Respond sets the status and body of subsequent responses.
func (p *PostgREST) Respond(status int, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
	p.body = []byte(body)
}

// RespondHeader adds a header to subsequent responses.
func (p *PostgREST) RespondHeader(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.header.Set(key, value)
}

// LastRequest returns the most recently recorded request, or nil.
func (p *PostgREST) LastRequest() *RecordedRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.requests) == 0 {
		return nil
	}
	req := p.requests[len(p.requests)-1]
	return &req
}

// Requests returns a copy of all recorded requests.
func (p *PostgREST) Requests() []RecordedRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]RecordedRequest, len(p.requests))
	copy(out, p.requests)
	return out
}

// URL returns the base URL of the fake backend.
func (p *PostgREST) URL() string { return p.Server.URL }

// Close shuts the backend down.
func (p *PostgREST) Close() { p.Server.Close() }
