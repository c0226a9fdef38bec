package ics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestFetchOneConditionalRequests(t *testing.T) {
	body := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	src := Source{ID: "work", Name: "Work", URL: srv.URL}

	first, err := f.FetchOne(context.Background(), src)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if first.FromCache {
		t.Error("first fetch claimed cache")
	}
	if string(first.Body) != body {
		t.Errorf("body = %q", first.Body)
	}

	second, err := f.FetchOne(context.Background(), src)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if !second.FromCache {
		t.Error("second fetch should be served from cache via 304")
	}
	if string(second.Body) != body {
		t.Errorf("cached body = %q", second.Body)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2", hits.Load())
	}
}

func TestFetchOneOfflineFallsBackToCache(t *testing.T) {
	body := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))

	f := NewFetcher(t.TempDir())
	src := Source{ID: "work", URL: srv.URL}

	if _, err := f.FetchOne(context.Background(), src); err != nil {
		t.Fatalf("warm-up fetch: %v", err)
	}

	srv.Close()

	res, err := f.FetchOne(context.Background(), src)
	if err != nil {
		t.Fatalf("offline fetch: %v", err)
	}
	if !res.FromCache || string(res.Body) != body {
		t.Errorf("offline result = fromCache=%v body=%q", res.FromCache, res.Body)
	}
}

func TestFetchAllSkipsFailingSource(t *testing.T) {
	body := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	results := f.FetchAll(context.Background(), []Source{
		{ID: "ok", URL: srv.URL},
		{ID: "broken", URL: "http://127.0.0.1:1/missing.ics"},
	})
	if len(results) != 1 || results[0].Source.ID != "ok" {
		t.Errorf("results = %+v, want only the reachable source", results)
	}
}

func TestRedactURL(t *testing.T) {
	got := redactURL("https://calendar.example.com/feed.ics?token=secret#frag")
	if got != "https://calendar.example.com/feed.ics" {
		t.Errorf("redactURL = %q", got)
	}
}
