package backend

import (
	"context"
	"net/http"
	"net/url"
)

// Query builds one read or insert against a table of the hosted data
// API. Reads support nested relationship projection through the select
// parameter ("*, file:files(id,url)"), which is how this client
// expresses joins.
type Query struct {
	client *Client
	table  string
	params url.Values
}

// From starts a query against the named table.
func (c *Client) From(table string) *Query {
	return &Query{
		client: c,
		table:  table,
		params: url.Values{},
	}
}

// Select sets the projected columns, including nested relations.
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

// Eq constrains a column to equal value.
func (q *Query) Eq(column, value string) *Query {
	q.params.Set(column, "eq."+value)
	return q
}

// Order sorts the result by column.
func (q *Query) Order(column string, descending bool) *Query {
	dir := "asc"
	if descending {
		dir = "desc"
	}
	q.params.Set("order", column+"."+dir)
	return q
}

func (q *Query) path() string {
	return "/rest/v1/" + q.table + "?" + q.params.Encode()
}

// Get executes the query and decodes the row list into dest.
func (q *Query) Get(ctx context.Context, dest interface{}) error {
	return q.client.do(ctx, http.MethodGet, q.path(), nil, dest, nil)
}

// Single executes the query expecting exactly one row. Zero matching
// rows yields ErrNoRows.
func (q *Query) Single(ctx context.Context, dest interface{}) error {
	headers := map[string]string{
		"Accept": "application/vnd.pgrst.object+json",
	}
	return q.client.do(ctx, http.MethodGet, q.path(), nil, dest, headers)
}

// Insert writes one row and decodes the returned representation
// (restricted to the query's selected columns) into dest when non-nil.
func (q *Query) Insert(ctx context.Context, row interface{}, dest interface{}) error {
	headers := map[string]string{
		"Prefer": "return=representation",
	}
	if dest != nil {
		// Single inserted row comes back as an object, not a list.
		headers["Accept"] = "application/vnd.pgrst.object+json"
	}
	return q.client.do(ctx, http.MethodPost, q.path(), row, dest, headers)
}
