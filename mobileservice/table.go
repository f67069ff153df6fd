package mobileservice

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Table performs CRUD operations against a backend table endpoint
// (/tables/<name>). Raw methods return the response body; the typed
// ReadInto/LookupInto helpers run results through ParseResults so
// entity identifier normalization applies.
type Table struct {
	client *Client
	name   string
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

func (t *Table) url(id string) string {
	u := t.client.Endpoint + "/tables/" + url.PathEscape(t.name)
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

func (t *Table) execute(ctx context.Context, method, target string, body []byte) (*Response, error) {
	req := NewRequest(method, target)
	if body != nil {
		req.Body = body
		req.SetHeader("Content-Type", JSONContentType)
	}
	return t.client.Connection().Execute(ctx, req)
}

// Read queries the table. query is an OData-style query string
// (without the leading "?") and may be empty.
func (t *Table) Read(ctx context.Context, query string) ([]byte, error) {
	target := t.url("")
	if query != "" {
		target += "?" + query
	}
	resp, err := t.execute(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Lookup retrieves a single record by id.
func (t *Table) Lookup(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, fmt.Errorf("lookup id cannot be empty")
	}
	resp, err := t.execute(ctx, http.MethodGet, t.url(id), nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Insert creates a record from a JSON entity and returns the stored
// version (with server-assigned fields).
func (t *Table) Insert(ctx context.Context, entity []byte) ([]byte, error) {
	resp, err := t.execute(ctx, http.MethodPost, t.url(""), entity)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Update patches the record with the given id.
func (t *Table) Update(ctx context.Context, id string, entity []byte) ([]byte, error) {
	if id == "" {
		return nil, fmt.Errorf("update id cannot be empty")
	}
	resp, err := t.execute(ctx, http.MethodPatch, t.url(id), entity)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Delete removes the record with the given id.
func (t *Table) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete id cannot be empty")
	}
	_, err := t.execute(ctx, http.MethodDelete, t.url(id), nil)
	return err
}

// ReadInto queries the table and deserializes the results into typed
// entities, applying identifier normalization.
func ReadInto[T any](ctx context.Context, t *Table, query string) ([]T, error) {
	body, err := t.Read(ctx, query)
	if err != nil {
		return nil, err
	}
	return ParseResults[T](body)
}

// LookupInto retrieves a single typed record by id, applying
// identifier normalization.
func LookupInto[T any](ctx context.Context, t *Table, id string) (T, error) {
	var zero T
	body, err := t.Lookup(ctx, id)
	if err != nil {
		return zero, err
	}
	entities, err := ParseResults[T](body)
	if err != nil {
		return zero, err
	}
	if len(entities) == 0 {
		return zero, fmt.Errorf("empty lookup response for id %q", id)
	}
	return entities[0], nil
}
