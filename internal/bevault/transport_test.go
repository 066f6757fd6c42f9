package bevault

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestTransportSendsAuthAndRequestID(t *testing.T) {
	t.Parallel()

	var gotAuth, gotAccept, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotRequestID = r.Header.Get("X-Request-Id")
		w.Write([]byte(`{"id":"p1","name":"Alpha"}`))
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, "secret-token", TransportOptions{}, testLogger())
	var out struct {
		ID string `json:"id"`
	}
	if err := tr.GetJSON(context.Background(), "/metavault/api/projects/p1", nil, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out.ID != "p1" {
		t.Fatalf("response not decoded: %+v", out)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("unexpected Authorization header: %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Fatalf("unexpected Accept header: %q", gotAccept)
	}
	if gotRequestID == "" {
		t.Fatal("X-Request-Id header missing")
	}
}

func TestTransportQueryEncoding(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, "", TransportOptions{}, testLogger())
	q := url.Values{}
	q.Set("filter", "name eq Sales Project")
	q.Set("limit", "1000000")
	if err := tr.GetJSON(context.Background(), "/metavault/api/projects", q, nil); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if gotQuery.Get("filter") != "name eq Sales Project" {
		t.Fatalf("filter not preserved: %q", gotQuery.Get("filter"))
	}
	if gotQuery.Get("limit") != "1000000" {
		t.Fatalf("limit not preserved: %q", gotQuery.Get("limit"))
	}
}

func TestTransportStatusErrorsAreTerminal(t *testing.T) {
	t.Parallel()

	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, "", TransportOptions{MaxAttempts: 3}, testLogger())
	err := tr.GetJSON(context.Background(), "/metavault/api/projects", nil, nil)
	if err == nil {
		t.Fatal("expected error for status 500")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", apiErr.Status)
	}
	// Status codes never retry; only transport faults do.
	if n := atomic.LoadInt64(&hits); n != 1 {
		t.Fatalf("server hit %d times, want 1", n)
	}
}

func TestTransportRetriesConnectionFailures(t *testing.T) {
	t.Parallel()

	// Point at a closed listener so every attempt fails at the dial.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	tr := NewTransport(addr, "", TransportOptions{MaxAttempts: 2, Timeout: 2 * time.Second}, testLogger())
	tr.client.RetryWaitMin = time.Millisecond
	tr.client.RetryWaitMax = 2 * time.Millisecond

	start := time.Now()
	err := tr.GetJSON(context.Background(), "/metavault/api/projects", nil, nil)
	if err == nil {
		t.Fatal("expected error against closed listener")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("retries took too long: %s", time.Since(start))
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, "", TransportOptions{}, testLogger())
	err := tr.GetJSON(context.Background(), "/metavault/api/projects/missing", nil, nil)
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound = false for %v", err)
	}

	srv500 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv500.Close()
	tr500 := NewTransport(srv500.URL, "", TransportOptions{}, testLogger())
	if IsNotFound(tr500.GetJSON(context.Background(), "/x", nil, nil)) {
		t.Fatal("IsNotFound = true for status 500")
	}
}
