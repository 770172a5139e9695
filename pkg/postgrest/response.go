package postgrest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// Response is a successfully delivered (2xx) backend response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Count is the total row count parsed from Content-Range when a count
	// preference was requested, -1 otherwise.
	Count int64
}

func newResponse(status int, header http.Header, body []byte) *Response {
	return &Response{
		StatusCode: status,
		Header:     header,
		Body:       body,
		Count:      parseContentRangeCount(header.Get("Content-Range")),
	}
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// parseContentRangeCount extracts the total from a Content-Range header like
// "0-24/573". Returns -1 when absent or the total is "*".
func parseContentRangeCount(contentRange string) int64 {
	_, total, found := strings.Cut(contentRange, "/")
	if !found || total == "*" {
		return -1
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return -1
	}
	return n
}
