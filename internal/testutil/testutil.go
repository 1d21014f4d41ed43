// Package testutil provides an envelope-aware mock backend for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// MockResponse is one canned HTTP response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// MockAPI is a test server that serves canned responses keyed by
// "METHOD path" and records every request it saw.
type MockAPI struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]MockResponse
	requests  []RecordedRequest
}

// RecordedRequest captures what a handler saw, for assertions.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         map[string]string
	Authorization string
	ContentType   string
}

func NewMockAPI() *MockAPI {
	ms := &MockAPI{responses: make(map[string]MockResponse)}
	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := map[string]string{}
		for k, v := range r.URL.Query() {
			if len(v) > 0 {
				q[k] = v[0]
			}
		}
		ms.mu.Lock()
		ms.requests = append(ms.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         q,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
		})
		resp, ok := ms.responses[r.Method+" "+r.URL.Path]
		ms.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprintf(w, `{"success":false,"error":"no mock for %s %s"}`, r.Method, r.URL.Path)
			return
		}
		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		if resp.Headers["Content-Type"] == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = fmt.Fprint(w, resp.Body)
	}))
	return ms
}

// Respond registers a raw canned response for "METHOD path".
func (ms *MockAPI) Respond(method, path string, resp MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responses[method+" "+path] = resp
}

// RespondData registers a 200 success envelope wrapping data.
func (ms *MockAPI) RespondData(method, path string, data any) {
	b, _ := json.Marshal(map[string]any{"success": true, "data": data})
	ms.Respond(method, path, MockResponse{StatusCode: 200, Body: string(b)})
}

// RespondError registers a failure envelope with the given status.
func (ms *MockAPI) RespondError(method, path string, status int, errMsg string) {
	b, _ := json.Marshal(map[string]any{"success": false, "error": errMsg})
	ms.Respond(method, path, MockResponse{StatusCode: status, Body: string(b)})
}

// RespondBinary registers a raw binary body (image download endpoint).
func (ms *MockAPI) RespondBinary(path string, contentType string, body []byte) {
	ms.Respond(http.MethodGet, path, MockResponse{
		StatusCode: 200,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": contentType},
	})
}

// Requests returns a snapshot of everything the server saw.
func (ms *MockAPI) Requests() []RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	out := make([]RecordedRequest, len(ms.requests))
	copy(out, ms.requests)
	return out
}

// LastRequest fails the test when nothing was recorded.
func (ms *MockAPI) LastRequest(t *testing.T) RecordedRequest {
	t.Helper()
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if len(ms.requests) == 0 {
		t.Fatal("no requests recorded")
	}
	return ms.requests[len(ms.requests)-1]
}

// RequestsTo returns the recorded requests matching method and path.
func (ms *MockAPI) RequestsTo(method, path string) []RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	var out []RecordedRequest
	for _, r := range ms.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}
