// Package postgrest implements a client for PostgREST-compatible HTTP APIs.
//
// A Client holds connection configuration (base URL, default headers, schema,
// timeout) and mints per-table query builders:
//
//	client, err := postgrest.NewClient("http://localhost:3000")
//	if err != nil { ... }
//	client.SetAuth(token)
//
//	qb, err := client.From("users")
//	if err != nil { ... }
//	resp, err := qb.Select("id", "name").Filter("age", "gt", "18").Execute(ctx)
//
// Builders accumulate filter, select, order, limit and offset state through
// chained calls and serialize it into PostgREST query-string grammar
// (column=operator.value, select=a,b, order=col.asc.nullsfirst) on Execute.
// Stored procedures are invoked via Client.Rpc, which POSTs JSON params to
// /rpc/{function}.
//
// Network failures and backend error responses are distinguishable:
// *TransportError wraps the transport failure, *APIError carries the non-2xx
// status code and the error document PostgREST returned.
package postgrest
