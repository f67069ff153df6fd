package mobileservice

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mamaso/azure-mobile-apps-go-client/internal/debug"
)

// Request headers forming the wire contract with the backend. Names
// are normative and sent verbatim.
const (
	zumoAPIVersionHeader     = "ZUMO-API-VERSION"
	zumoInstallationIDHeader = "X-ZUMO-INSTALLATION-ID"
	zumoAuthHeader           = "X-ZUMO-AUTH"
	zumoVersionHeader        = "X-ZUMO-VERSION"
)

// Connection executes a single request-response operation against the
// mobile service: it composes the protocol headers, runs the client's
// filter chain around the terminal network call, and classifies the
// outcome.
type Connection struct {
	client *Client
}

// Execute runs the request through the filter chain and returns the
// classified outcome. It is the core path; Start and
// StartWithCallback are adapters over it.
func (c *Connection) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	c.composeHeaders(req)

	handler := chain(c.client.filters, c.terminal)
	return handler(ctx, req)
}

// Start executes the request asynchronously and returns a handle that
// completes exactly once.
func (c *Connection) Start(ctx context.Context, req *Request) *Future {
	f := newFuture()
	go func() {
		f.complete(c.Execute(ctx, req))
	}()
	return f
}

// StartWithCallback executes the request asynchronously and invokes cb
// with the outcome. On failure the best-available response is
// extracted from the classified error.
func (c *Connection) StartWithCallback(ctx context.Context, req *Request, cb func(*Response, error)) {
	go func() {
		resp, err := c.Execute(ctx, req)
		if err != nil {
			cb(ResponseFromError(err), err)
			return
		}
		cb(resp, nil)
	}()
}

// composeHeaders applies the protocol headers. Auth, version,
// user-agent, api-version, and installation-id headers are always
// (re)set; Accept and Accept-Encoding are only defaulted when the
// caller has not supplied them.
func (c *Connection) composeHeaders(req *Request) {
	if user := c.client.CurrentUser(); user != nil && user.AuthToken != "" {
		req.SetHeader(zumoAuthHeader, user.AuthToken)
	}

	req.SetHeader(zumoVersionHeader, SDKVersion)
	req.SetHeader("User-Agent", userAgent())
	req.SetHeader(zumoAPIVersionHeader, APIVersion)
	req.SetHeader(zumoInstallationIDHeader, c.client.InstallationID)

	if !req.HasHeader("Accept") {
		req.SetHeader("Accept", JSONContentType)
	}
	if !req.HasHeader("Accept-Encoding") {
		req.SetHeader("Accept-Encoding", gzipContentEncoding)
	}
}

// terminal is the innermost chain step: it performs the actual network
// call and classifies the status code. 2xx resolves with the response;
// anything else fails with a StatusError carrying the body (or a
// synthesized {'code': n} message when the body is blank). Transport
// faults are wrapped in a TransportError.
func (c *Connection) terminal(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	for name, value := range req.Headers {
		// Direct map assignment keeps the X-ZUMO-* names verbatim;
		// Header.Set would canonicalize them.
		httpReq.Header[name] = []string{value}
	}

	httpResp, err := c.client.HTTP.Do(httpReq)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", req.Method, "url", req.URL, "error", err)
		}
		return nil, &TransportError{Err: err}
	}

	headers := flattenHeaders(httpResp.Header)

	// Copying Accept-Encoding onto the wire request disables the
	// transport's transparent decompression, so gzip bodies are
	// decoded here before anything downstream reads them.
	respReader := io.Reader(httpResp.Body)
	if strings.EqualFold(httpResp.Header.Get("Content-Encoding"), "gzip") {
		gz, gzErr := gzip.NewReader(httpResp.Body)
		if gzErr != nil {
			_ = httpResp.Body.Close()
			return nil, &TransportError{
				Err:      gzErr,
				Response: &Response{StatusCode: httpResp.StatusCode, Headers: headers},
			}
		}
		respReader = gz
		// The stored body is decoded; the encoding header no longer
		// describes it.
		delete(headers, "Content-Encoding")
	}

	body, err := io.ReadAll(respReader)
	_ = httpResp.Body.Close()
	if err != nil {
		return nil, &TransportError{
			Err:      err,
			Response: &Response{StatusCode: httpResp.StatusCode, Headers: headers},
		}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    headers,
		Body:       body,
	}

	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", req.Method, "url", req.URL,
			"status", resp.StatusCode, "duration", time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := resp.Content()
		if strings.TrimSpace(message) == "" {
			message = fmt.Sprintf("{'code': %d}", resp.StatusCode)
		}
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Response:   resp,
		}
	}

	return resp, nil
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if len(values) > 0 {
			out[name] = values[0]
		}
	}
	return out
}
