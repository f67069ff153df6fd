package mobileservice

import "context"

// Next passes a request to the rest of the filter chain and returns
// the eventual response.
type Next func(ctx context.Context, req *Request) (*Response, error)

// Filter observes or rewrites a request and its eventual response. A
// filter may modify the request before invoking next, and may inspect
// or replace the response before returning it upward. Filters run in
// registration order on the way down and reverse order on the way up.
//
// The chain does not enforce that next is invoked exactly once; a
// filter that short-circuits (never calling next) or retries (calling
// it repeatedly) takes responsibility for the consequences.
type Filter interface {
	Handle(ctx context.Context, req *Request, next Next) (*Response, error)
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(ctx context.Context, req *Request, next Next) (*Response, error)

// Handle implements Filter.
func (f FilterFunc) Handle(ctx context.Context, req *Request, next Next) (*Response, error) {
	return f(ctx, req, next)
}

// chain folds the filters around the terminal handler, innermost
// first, so that filters[0] is the outermost layer.
func chain(filters []Filter, terminal Next) Next {
	next := terminal
	for i := len(filters) - 1; i >= 0; i-- {
		f, inner := filters[i], next
		next = func(ctx context.Context, req *Request) (*Response, error) {
			return f.Handle(ctx, req, inner)
		}
	}
	return next
}
