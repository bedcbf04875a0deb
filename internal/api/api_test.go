package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGETParsesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "AAPL" {
			t.Errorf("expected symbol=AAPL, got %q", got)
		}
		if got := r.Header.Get("X-Test"); got != "yes" {
			t.Errorf("expected default header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"c": 101.5}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHeader("X-Test", "yes"), WithTimeout(5*time.Second))
	resp, err := c.GET(context.Background(), "/quote", map[string]string{"symbol": "AAPL"})
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}

	var out struct {
		C float64 `json:"c"`
	}
	if err := resp.ParseJSON(&out); err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	if out.C != 101.5 {
		t.Errorf("expected 101.5, got %f", out.C)
	}
}

func TestGETStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GET(context.Background(), "/", nil)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", se.Code)
	}
}

func TestGETRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRetry(&RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
	}))
	if _, err := c.GET(context.Background(), "/", nil); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("expected 3 calls, got %d", n)
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	if cfg.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialWait != time.Second {
		t.Errorf("expected 1s initial wait, got %v", cfg.InitialWait)
	}
}

func TestRateLimiterBurstThenWait(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.last = now

	if d := rl.reserve(); d != 0 {
		t.Fatalf("first token should be free, wait %v", d)
	}
	if d := rl.reserve(); d != 0 {
		t.Fatalf("second token should be free, wait %v", d)
	}
	if d := rl.reserve(); d != time.Minute {
		t.Errorf("third call wait = %v, want 1m", d)
	}

	now = now.Add(90 * time.Second)
	if d := rl.reserve(); d != 0 {
		t.Errorf("token should have refilled, wait %v", d)
	}
	if d := rl.reserve(); d != 30*time.Second {
		t.Errorf("wait = %v, want 30s", d)
	}
}

func TestRateLimiterHonoursContext(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rl.Wait(ctx); err != context.Canceled {
		t.Errorf("Wait on cancelled ctx = %v", err)
	}
}
