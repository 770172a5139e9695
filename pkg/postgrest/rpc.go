package postgrest

import "net/http"

// RpcBuilder invokes a stored database function: params are POSTed as JSON
// body to /rpc/{function}. It embeds QueryBuilder, so the function's result
// set can be filtered and ordered like a table read; the promoted filter
// methods return the embedded *QueryBuilder, whose Execute sends the call.
type RpcBuilder struct {
	QueryBuilder
	params any
}

// Params replaces the function parameters sent as the request body.
func (r *RpcBuilder) Params(params any) *RpcBuilder {
	r.params = params
	r.body = params
	return r
}

// Select restricts the columns of the function's result set. Unlike a table
// read, the call stays a POST carrying the function parameters.
func (r *RpcBuilder) Select(columns ...string) *RpcBuilder {
	r.QueryBuilder.Select(columns...)
	r.method = http.MethodPost
	r.body = r.params
	return r
}
