// Package mobileservice implements the request-execution core of the
// Azure Mobile Apps Go client: header composition, the service filter
// chain, status classification, and entity identifier normalization.
package mobileservice

// JSONContentType is the header value representing JSON content.
const JSONContentType = "application/json"

// gzipContentEncoding is the default Accept-Encoding value.
const gzipContentEncoding = "gzip"

// Request is an outbound request to the mobile service. Headers is a
// plain map rather than http.Header: the backend's X-ZUMO-* contract
// names are sent on the wire verbatim, so keys must not be
// canonicalized. Lookups are exact-key and writes are last-write-wins.
//
// A Request is owned by the caller until handed to a Connection; the
// filter chain may mutate it in place.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// NewRequest creates a request with an initialized header map.
func NewRequest(method, url string) *Request {
	return &Request{
		Method:  method,
		URL:     url,
		Headers: map[string]string{},
	}
}

// SetHeader sets a header, overwriting any previous value for the
// exact key.
func (r *Request) SetHeader(name, value string) {
	if r.Headers == nil {
		r.Headers = map[string]string{}
	}
	r.Headers[name] = value
}

// HasHeader reports whether the exact header key is present.
func (r *Request) HasHeader(name string) bool {
	_, ok := r.Headers[name]
	return ok
}

// Response is the outcome of an executed request. It is produced once
// by the terminal network step and never mutated afterwards.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// Content returns the response body as a string.
func (r *Response) Content() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}
