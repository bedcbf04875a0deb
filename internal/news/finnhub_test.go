package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trading-assistant/internal/api"
	"trading-assistant/internal/types"
)

func TestFinnhubHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/company-news" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("symbol") != "AAPL" || q.Get("token") != "key" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Get("from") != "2024-05-31" || q.Get("to") != "2024-06-30" {
			t.Errorf("unexpected window %s..%s", q.Get("from"), q.Get("to"))
		}
		w.Write([]byte(`[
			{"datetime": 1719662400, "headline": "Apple rallies", "source": "Reuters", "url": "https://x/1"},
			{"datetime": 1719576000, "headline": "   ", "source": "Reuters"}
		]`))
	}))
	defer srv.Close()

	f := NewFinnhub("key", api.WithBaseURL(srv.URL))
	f.now = func() time.Time { return fixedNow }

	heads, err := f.Headlines(context.Background(), "aapl", 30)
	if err != nil {
		t.Fatalf("Headlines failed: %v", err)
	}
	if len(heads) != 1 {
		t.Fatalf("Expected 1 headline, got %d", len(heads))
	}
	if heads[0].Text != "Apple rallies" || heads[0].Source != "Reuters" {
		t.Errorf("Unexpected headline %+v", heads[0])
	}
	if !heads[0].PublishedAt.Equal(time.Unix(1719662400, 0)) {
		t.Errorf("Unexpected timestamp %v", heads[0].PublishedAt)
	}
}

func TestFinnhubWithoutKey(t *testing.T) {
	_, err := NewFinnhub("").Headlines(context.Background(), "AAPL", 30)
	if !errors.Is(err, types.ErrDataUnavailable) {
		t.Errorf("Expected ErrDataUnavailable, got %v", err)
	}
}

func TestFinnhubHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewFinnhub("bad", api.WithBaseURL(srv.URL)).Headlines(context.Background(), "AAPL", 30)
	var se *api.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 StatusError, got %v", err)
	}
}
