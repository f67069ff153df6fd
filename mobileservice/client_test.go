package mobileservice

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewValidatesEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		wantErr  bool
		want     string
	}{
		{"https endpoint", "https://myapp.azurewebsites.net", false, "https://myapp.azurewebsites.net"},
		{"trailing slash trimmed", "https://myapp.azurewebsites.net/", false, "https://myapp.azurewebsites.net"},
		{"http allowed", "http://localhost:3000", false, "http://localhost:3000"},
		{"relative url", "myapp.azurewebsites.net", true, ""},
		{"unsupported scheme", "ftp://myapp", true, ""},
		{"empty", "", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.endpoint)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if client.Endpoint != tt.want {
				t.Fatalf("Endpoint = %q, want %q", client.Endpoint, tt.want)
			}
		})
	}
}

func TestSetOSVersionInUserAgent(t *testing.T) {
	orig := osVersion
	t.Cleanup(func() { osVersion = orig })

	SetOSVersion("14.2")
	if got := userAgent(); !strings.Contains(got, "os_version=14.2;") {
		t.Fatalf("User-Agent = %q, want os_version=14.2", got)
	}

	SetOSVersion("")
	if got := userAgent(); !strings.Contains(got, "os_version=14.2;") {
		t.Fatalf("User-Agent = %q, empty override should be ignored", got)
	}
}

func TestInvokeAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/completeall" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != JSONContentType {
			t.Errorf("Content-Type = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"marker": true}` {
			t.Errorf("body = %s", body)
		}
		_, _ = w.Write([]byte(`{"count": 3}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.InvokeAPI(context.Background(), "completeall", http.MethodPost, []byte(`{"marker": true}`))
	if err != nil {
		t.Fatalf("InvokeAPI failed: %v", err)
	}
	if resp.Content() != `{"count": 3}` {
		t.Fatalf("body = %q", resp.Content())
	}
}

func TestInvokeAPIWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Content-Type"]; ok {
			t.Error("Content-Type should not be set without a body")
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.InvokeAPI(context.Background(), "status", http.MethodGet, nil); err != nil {
		t.Fatalf("InvokeAPI failed: %v", err)
	}
}
