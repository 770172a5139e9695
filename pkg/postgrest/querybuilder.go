package postgrest

import (
	"context"
	"net/http"
)

// ReturnMethod is the Prefer: return= preference for mutating requests.
type ReturnMethod string

const (
	ReturnMinimal        ReturnMethod = "minimal"
	ReturnRepresentation ReturnMethod = "representation"
	ReturnHeadersOnly    ReturnMethod = "headers-only"
)

// CountMethod is the Prefer: count= preference controlling the total row
// count reported via Content-Range.
type CountMethod string

const (
	CountExact     CountMethod = "exact"
	CountPlanned   CountMethod = "planned"
	CountEstimated CountMethod = "estimated"
)

type filterEntry struct {
	column   string
	operator string
	value    string
}

type orderSpec struct {
	column     string
	ascending  bool
	nullsFirst bool
}

// QueryBuilder accumulates filter, select and order state for one table and
// serializes it into a single HTTP request on Execute. A builder is owned by
// its creator and must not be shared across goroutines. Execute may be called
// repeatedly; each call serializes the state current at that time and sends a
// fresh request.
type QueryBuilder struct {
	client  *Client
	path    string
	headers http.Header

	method     string
	body       any
	selects    []string
	filters    []filterEntry
	order      *orderSpec
	limit      int
	offset     int
	returning  ReturnMethod
	count      CountMethod
	resolution string

	// first validation failure; checked by Execute before any I/O
	err error
}

// Select sets the returned columns and marks the request as a read (GET).
// Duplicate columns collapse to one occurrence, keeping first-appearance order.
func (q *QueryBuilder) Select(columns ...string) *QueryBuilder {
	q.method = http.MethodGet
	q.body = nil
	for _, col := range columns {
		seen := false
		for _, existing := range q.selects {
			if existing == col {
				seen = true
				break
			}
		}
		if !seen {
			q.selects = append(q.selects, col)
		}
	}
	return q
}

// Order sets the ordering spec. Only one spec is retained; the last call wins.
func (q *QueryBuilder) Order(column string, ascending, nullsFirst bool) *QueryBuilder {
	if q.err != nil {
		return q
	}
	if column == "" {
		q.err = &ValidationError{Op: "order", Reason: "ordering column must not be empty"}
		return q
	}
	q.order = &orderSpec{column: column, ascending: ascending, nullsFirst: nullsFirst}
	return q
}

// Limit caps the number of returned rows.
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limit = n
	return q
}

// Offset skips the first n rows.
func (q *QueryBuilder) Offset(n int) *QueryBuilder {
	q.offset = n
	return q
}

// Insert marks the request as a row insertion (POST) with v as JSON body.
// v may be a single record or a slice for bulk insert.
func (q *QueryBuilder) Insert(v any) *QueryBuilder {
	q.method = http.MethodPost
	q.body = v
	q.resolution = ""
	return q
}

// Upsert inserts v, merging on conflict (Prefer: resolution=merge-duplicates).
func (q *QueryBuilder) Upsert(v any) *QueryBuilder {
	q.method = http.MethodPost
	q.body = v
	q.resolution = "merge-duplicates"
	return q
}

// Update marks the request as a partial update (PATCH) of the rows matched by
// the accumulated filters, with v as JSON body.
func (q *QueryBuilder) Update(v any) *QueryBuilder {
	q.method = http.MethodPatch
	q.body = v
	q.resolution = ""
	return q
}

// Delete marks the request as a deletion (DELETE) of the rows matched by the
// accumulated filters.
func (q *QueryBuilder) Delete() *QueryBuilder {
	q.method = http.MethodDelete
	q.body = nil
	q.resolution = ""
	return q
}

// Returning sets the Prefer: return= preference for mutating requests.
func (q *QueryBuilder) Returning(m ReturnMethod) *QueryBuilder {
	q.returning = m
	return q
}

// Count requests a total row count, reported via Response.Count.
func (q *QueryBuilder) Count(m CountMethod) *QueryBuilder {
	q.count = m
	return q
}

// Execute serializes the accumulated state and sends the request. It returns
// a ValidationError recorded by an earlier chained call without sending
// anything, a TransportError on network failure, or an APIError when the
// backend answered non-2xx.
func (q *QueryBuilder) Execute(ctx context.Context) (*Response, error) {
	if q.err != nil {
		return nil, q.err
	}
	headers := q.headers.Clone()
	if prefer := q.preferHeader(); prefer != "" {
		headers.Set("Prefer", prefer)
	}
	return q.client.do(ctx, q.method, q.path, q.queryValues(), headers, q.body)
}
