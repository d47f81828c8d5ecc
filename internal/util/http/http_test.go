package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestFetchSetsUserAgent tests that Fetch sends the tonal User-Agent and custom headers.
func TestFetchSetsUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("User-Agent"), UserAgentName+"/") {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		if r.Header.Get("X-Test") != "yes" {
			t.Errorf("X-Test header missing")
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	data, err := Fetch(context.Background(), server.URL, FetchOptions{Headers: map[string]string{"X-Test": "yes"}})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != "ok" {
		t.Errorf("Fetch() = %q, want ok", data)
	}
}

// TestFetchStatusError tests that non-200 responses return a StatusError.
func TestFetchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), server.URL, FetchOptions{})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", statusErr.StatusCode)
	}
}

// TestFetchTimeout tests that a slow server exceeds the timeout.
func TestFetchTimeout(t *testing.T) {
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-done:
		}
	}))
	defer server.Close()
	defer close(done)

	_, err := Fetch(context.Background(), server.URL, FetchOptions{Timeout: 50 * time.Millisecond})
	if err == nil {
		t.Error("expected timeout error")
	}
}

// TestPostJSON tests that PostJSON encodes the body and sets the content type.
func TestPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		var got map[string]string
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("invalid body: %v", err)
		}
		w.Write([]byte(`{"echo":"` + got["name"] + `"}`))
	}))
	defer server.Close()

	data, err := PostJSON(context.Background(), server.URL, map[string]string{"name": "tonal"}, FetchOptions{})
	if err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	if string(data) != `{"echo":"tonal"}` {
		t.Errorf("PostJSON() = %s", data)
	}
}
