package mobileservice

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"
)

const (
	// SDKVersion is the version reported in X-ZUMO-VERSION and the
	// User-Agent string.
	SDKVersion = "3.0.0"

	// APIVersion is the protocol version reported in
	// ZUMO-API-VERSION. Versioned independently of the SDK.
	APIVersion = "2.0.0"

	// DefaultTimeout bounds a single request execution.
	DefaultTimeout = 30 * time.Second
)

// osVersion feeds the os_version component of the User-Agent. There is
// no portable kernel-version lookup in the standard library, so it
// defaults to unknown.
var osVersion = "unknown"

// SetOSVersion overrides the os_version reported in the User-Agent.
// Hosts that know their platform version should call this once at
// startup; an empty value is ignored.
func SetOSVersion(v string) {
	if v != "" {
		osVersion = v
	}
}

// userAgent builds the ZUMO User-Agent string.
func userAgent() string {
	return fmt.Sprintf("ZUMO/1.0 (lang=%s; os=%s; os_version=%s; arch=%s; version=%s)",
		"Go", runtime.GOOS, osVersion, runtime.GOARCH, SDKVersion)
}

// Client talks to an Azure Mobile Apps backend. It owns the endpoint,
// the current user, the installation id, and the ordered filter chain
// shared by every Connection it hands out.
//
// The current user may be swapped between requests with no
// synchronization beyond the caller's own; a single request execution
// reads it once while composing headers.
type Client struct {
	Endpoint       string
	InstallationID string
	HTTP           *http.Client

	currentUser *User
	filters     []Filter
}

// New creates a client for the given backend endpoint. The endpoint
// must be an absolute http(s) URL; a trailing slash is trimmed.
func New(endpoint string) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL: %w", err)
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid endpoint URL %q: must be absolute http or https", endpoint)
	}

	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	return &Client{
		Endpoint: endpoint,
		HTTP: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
	}, nil
}

// Use appends filters to the chain in registration order.
func (c *Client) Use(filters ...Filter) {
	c.filters = append(c.filters, filters...)
}

// CurrentUser returns the authenticated user, or nil when logged out.
func (c *Client) CurrentUser() *User {
	return c.currentUser
}

// SetCurrentUser sets or clears the authenticated user.
func (c *Client) SetCurrentUser(u *User) {
	c.currentUser = u
}

// Connection returns the request executor bound to this client.
func (c *Client) Connection() *Connection {
	return &Connection{client: c}
}

// Table returns a handle for CRUD operations on a backend table.
func (c *Client) Table(name string) *Table {
	return &Table{client: c, name: name}
}

// InvokeAPI calls a custom API endpoint (/api/<name>) and returns the
// raw response. A nil body sends no payload; a non-nil body is sent
// as JSON.
func (c *Client) InvokeAPI(ctx context.Context, name, method string, body []byte) (*Response, error) {
	req := NewRequest(method, c.Endpoint+"/api/"+strings.TrimLeft(name, "/"))
	if body != nil {
		req.Body = body
		req.SetHeader("Content-Type", JSONContentType)
	}
	return c.Connection().Execute(ctx, req)
}
