package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"trading-assistant/internal/types"
)

type fakeProvider struct {
	heads []types.Headline
	err   error
	calls int
}

func (f *fakeProvider) Headlines(_ context.Context, _ string, _ int) ([]types.Headline, error) {
	f.calls++
	return f.heads, f.err
}

var fixedNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func newTestService(cfg *ServiceConfig, providers ...*fakeProvider) *Service {
	svc := NewService(cfg)
	for _, p := range providers {
		svc.providers = append(svc.providers, p)
	}
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func daysAgo(n int) time.Time { return fixedNow.AddDate(0, 0, -n) }

func TestHeadlineCache(t *testing.T) {
	cache := newHeadlineCache(1 * time.Second)
	defer close(cache.stop)

	key := cacheKey("RELIANCE", 30)
	cache.set(key, []types.Headline{{Text: "Reliance beats estimates"}})

	retrieved, found := cache.get(key)
	if !found {
		t.Fatal("Expected to find cached headlines")
	}
	if len(retrieved) != 1 || retrieved[0].Text != "Reliance beats estimates" {
		t.Errorf("Unexpected cached headlines: %+v", retrieved)
	}

	if _, found := cache.get(cacheKey("RELIANCE", 7)); found {
		t.Error("Expected a different window to miss the cache")
	}

	time.Sleep(1100 * time.Millisecond)
	if _, found := cache.get(key); found {
		t.Error("Expected cache entry to be expired")
	}
}

func TestServiceConfig(t *testing.T) {
	cfg := DefaultServiceConfig()

	if cfg.MaxArticles != 10 {
		t.Errorf("Expected MaxArticles to be 10, got %d", cfg.MaxArticles)
	}
	if cfg.WindowDays != 30 {
		t.Errorf("Expected WindowDays to be 30, got %d", cfg.WindowDays)
	}
	if cfg.CacheDuration != 1*time.Hour {
		t.Errorf("Expected CacheDuration to be 1 hour, got %v", cfg.CacheDuration)
	}
	if !cfg.Enabled {
		t.Error("Expected Enabled to be true")
	}
}

func TestServiceDisabled(t *testing.T) {
	p := &fakeProvider{heads: []types.Headline{{Text: "x"}}}
	svc := newTestService(&ServiceConfig{Enabled: false}, p)
	defer svc.Close()

	heads, err := svc.Headlines(context.Background(), "RELIANCE", 30)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if len(heads) != 0 {
		t.Errorf("Expected no headlines when disabled, got %d", len(heads))
	}
	if p.calls != 0 {
		t.Errorf("Expected provider not to be called, got %d calls", p.calls)
	}
}

func TestServiceFallsBackToNextProvider(t *testing.T) {
	failing := &fakeProvider{err: errors.New("boom")}
	empty := &fakeProvider{}
	good := &fakeProvider{heads: []types.Headline{{Text: "Strong quarter", PublishedAt: daysAgo(1)}}}
	svc := newTestService(DefaultServiceConfig(), failing, empty, good)
	defer svc.Close()

	heads, err := svc.Headlines(context.Background(), "AAPL", 30)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(heads) != 1 || heads[0].Text != "Strong quarter" {
		t.Errorf("Unexpected headlines: %+v", heads)
	}
	if failing.calls != 1 || empty.calls != 1 || good.calls != 1 {
		t.Errorf("Expected each provider to be called once, got %d %d %d", failing.calls, empty.calls, good.calls)
	}
}

func TestServiceAllProvidersFail(t *testing.T) {
	svc := newTestService(DefaultServiceConfig(),
		&fakeProvider{err: errors.New("a")},
		&fakeProvider{err: errors.New("b")},
	)
	defer svc.Close()

	_, err := svc.Headlines(context.Background(), "AAPL", 30)
	if !errors.Is(err, types.ErrDataUnavailable) {
		t.Errorf("Expected ErrDataUnavailable, got %v", err)
	}
}

func TestServiceNoNewsIsNotAnError(t *testing.T) {
	svc := newTestService(DefaultServiceConfig(), &fakeProvider{err: errors.New("a")}, &fakeProvider{})
	defer svc.Close()

	heads, err := svc.Headlines(context.Background(), "AAPL", 30)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(heads) != 0 {
		t.Errorf("Expected empty batch, got %d", len(heads))
	}
}

func TestServicePrepare(t *testing.T) {
	p := &fakeProvider{heads: []types.Headline{
		{Text: "old news", PublishedAt: daysAgo(45)},
		{Text: "  ", PublishedAt: daysAgo(1)},
		{Text: "undated"},
		{Text: "middle", PublishedAt: daysAgo(5)},
		{Text: "newest", PublishedAt: daysAgo(0)},
		{Text: "Newest ", PublishedAt: daysAgo(2)},
	}}
	svc := newTestService(DefaultServiceConfig(), p)
	defer svc.Close()

	heads, err := svc.Headlines(context.Background(), "AAPL", 30)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{"newest", "middle", "undated"}
	got := Texts(heads)
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestServiceLimitsAndCaches(t *testing.T) {
	var heads []types.Headline
	for i := 0; i < 15; i++ {
		heads = append(heads, types.Headline{Text: string(rune('a' + i)), PublishedAt: daysAgo(i)})
	}
	p := &fakeProvider{heads: heads}
	svc := newTestService(DefaultServiceConfig(), p)
	defer svc.Close()

	ctx := context.Background()
	got, err := svc.Headlines(ctx, "AAPL", 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got) != 10 {
		t.Errorf("Expected 10 headlines, got %d", len(got))
	}
	if got[0].Text != "a" {
		t.Errorf("Expected newest first, got %q", got[0].Text)
	}

	if _, err := svc.Headlines(ctx, "aapl", 30); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.calls != 1 {
		t.Errorf("Expected cached second call, provider called %d times", p.calls)
	}
}

func TestCacheCleanup(t *testing.T) {
	cache := newHeadlineCache(100 * time.Millisecond)
	defer close(cache.stop)

	for i := 0; i < 5; i++ {
		cache.set(cacheKey("SYM"+string(rune('A'+i)), 30), nil)
	}

	time.Sleep(200 * time.Millisecond)
	cache.cleanup()

	cache.mu.RLock()
	count := len(cache.data)
	cache.mu.RUnlock()

	if count != 0 {
		t.Errorf("Expected 0 cache entries after cleanup, got %d", count)
	}
}
