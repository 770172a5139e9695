package postgrest

import (
	"net/url"
	"strconv"
	"strings"
)

// queryValues serializes the accumulated state into PostgREST query-string
// grammar: column=operator.value for filters, select=a,b for column
// selection, order=col.{asc|desc}.{nullsfirst|nullslast}, limit and offset.
func (q *QueryBuilder) queryValues() url.Values {
	values := url.Values{}

	if len(q.selects) > 0 {
		values.Set("select", strings.Join(q.selects, ","))
	}
	for _, f := range q.filters {
		values.Add(f.column, f.operator+"."+f.value)
	}
	if q.order != nil {
		values.Set("order", q.order.String())
	}
	if q.limit >= 0 {
		values.Set("limit", strconv.Itoa(q.limit))
	}
	if q.offset >= 0 {
		values.Set("offset", strconv.Itoa(q.offset))
	}

	return values
}

func (o *orderSpec) String() string {
	direction := "desc"
	if o.ascending {
		direction = "asc"
	}
	nulls := "nullslast"
	if o.nullsFirst {
		nulls = "nullsfirst"
	}
	return o.column + "." + direction + "." + nulls
}

// preferHeader assembles the Prefer header (RFC 7240) from the return, count
// and conflict-resolution preferences. Empty when none are set.
func (q *QueryBuilder) preferHeader() string {
	var parts []string
	if q.returning != "" {
		parts = append(parts, "return="+string(q.returning))
	}
	if q.count != "" {
		parts = append(parts, "count="+string(q.count))
	}
	if q.resolution != "" {
		parts = append(parts, "resolution="+q.resolution)
	}
	return strings.Join(parts, ",")
}
