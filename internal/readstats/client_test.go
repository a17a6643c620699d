package readstats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func itemList(n int) map[string]any {
	list := make(map[string]any, n)
	for i := 0; i < n; i++ {
		list[fmt.Sprintf("item%d", i)] = map[string]string{"status": "1"}
	}
	return map[string]any{"list": list}
}

func TestStats_PagesThroughArchive(t *testing.T) {
	var mu sync.Mutex
	var requests []getRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/get" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req getRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		requests = append(requests, req)
		mu.Unlock()

		switch req.State {
		case "unread":
			_ = json.NewEncoder(w).Encode(itemList(2))
		case "archive":
			// Full first page, short second page.
			if req.Offset != nil && *req.Offset == 0 {
				_ = json.NewEncoder(w).Encode(itemList(2))
			} else {
				_ = json.NewEncoder(w).Encode(itemList(1))
			}
		default:
			t.Errorf("unexpected state %q", req.State)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "ck", "at", 2, testLogger())
	stats, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Unread != 2 || stats.Archived != 3 {
		t.Errorf("stats = %+v, want unread 2 archived 3", stats)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(requests) != 3 {
		t.Fatalf("requests = %d, want 3", len(requests))
	}
	if requests[0].State != "unread" || requests[0].Offset != nil {
		t.Errorf("first request = %+v", requests[0])
	}
	if requests[1].Offset == nil || *requests[1].Offset != 0 {
		t.Errorf("second request offset = %v", requests[1].Offset)
	}
	if requests[2].Offset == nil || *requests[2].Offset != 2 {
		t.Errorf("third request offset = %v", requests[2].Offset)
	}
	for _, r := range requests {
		if r.ConsumerKey != "ck" || r.AccessToken != "at" {
			t.Errorf("credentials not carried: %+v", r)
		}
	}
}

func TestStats_MissingListIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "ck", "at", 0, testLogger())
	if _, err := c.Stats(context.Background()); err == nil {
		t.Error("expected error for response without list")
	}
}

func TestStats_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "ck", "at", 0, testLogger())
	if _, err := c.Stats(context.Background()); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestNew_DefaultPageSize(t *testing.T) {
	c := New("http://example", "ck", "at", 0, testLogger())
	if c.pageSize != DefaultPageSize {
		t.Errorf("pageSize = %d, want %d", c.pageSize, DefaultPageSize)
	}
}
