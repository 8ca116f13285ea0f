package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// RecordedRequest is one request seen by a recording server.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string
}

// Recorder collects the requests a server received.
type Recorder struct {
	mu       sync.Mutex
	requests []RecordedRequest
}

func (r *Recorder) add(req RecordedRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
}

// Requests returns a copy of everything recorded so far.
func (r *Recorder) Requests() []RecordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedRequest(nil), r.requests...)
}

// Last returns the most recent request. The test fails when none arrived.
func (r *Recorder) Last(t testing.TB) RecordedRequest {
	t.Helper()
	requests := r.Requests()
	if len(requests) == 0 {
		t.Fatalf("expected at least one request")
	}
	return requests[len(requests)-1]
}

// NewRecordingServer answers every request with status and response and
// records it. The server is closed when the test ends.
func NewRecordingServer(t testing.TB, status int, response string) (*httptest.Server, *Recorder) {
	t.Helper()

	recorder := &Recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read request body: %v", err)
		}
		recorder.add(RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server, recorder
}
