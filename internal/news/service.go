// Package news retrieves recent headlines for an instrument.
package news

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"trading-assistant/internal/interfaces"
	"trading-assistant/internal/logger"
	"trading-assistant/internal/types"
)

var _ interfaces.NewsProvider = (*Service)(nil)

// Service chains news providers and caches their headlines per symbol.
type Service struct {
	providers []interfaces.NewsProvider
	cache     *headlineCache
	cfg       *ServiceConfig
	now       func() time.Time
}

// ServiceConfig configures the news service
type ServiceConfig struct {
	MaxArticles   int           // Maximum headlines returned per symbol
	CacheDuration time.Duration // How long to cache headlines
	WindowDays    int           // Default lookback when the caller passes 0
	Enabled       bool          // Whether news retrieval is enabled
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		MaxArticles:   10,
		CacheDuration: 1 * time.Hour,
		WindowDays:    30,
		Enabled:       true,
	}
}

// headlineCache stores headlines temporarily
type headlineCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
	stop chan struct{}
}

type cacheEntry struct {
	headlines []types.Headline
	timestamp time.Time
}

// newHeadlineCache creates a new cache
func newHeadlineCache(ttl time.Duration) *headlineCache {
	cache := &headlineCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
		stop: make(chan struct{}),
	}

	go cache.cleanupLoop()

	return cache
}

func cacheKey(symbol string, windowDays int) string {
	return fmt.Sprintf("%s|%d", strings.ToUpper(symbol), windowDays)
}

// get retrieves cached headlines if valid
func (c *headlineCache) get(key string) ([]types.Headline, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return nil, false
	}

	if time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}

	return entry.headlines, true
}

// set stores headlines in cache
func (c *headlineCache) set(key string, headlines []types.Headline) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = &cacheEntry{
		headlines: headlines,
		timestamp: time.Now(),
	}
}

// cleanupLoop periodically removes expired entries
func (c *headlineCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired entries
func (c *headlineCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, key)
		}
	}
}

// NewService creates a news service that asks providers in order and uses
// the first non-empty answer.
func NewService(cfg *ServiceConfig, providers ...interfaces.NewsProvider) *Service {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}

	return &Service{
		providers: providers,
		cache:     newHeadlineCache(cfg.CacheDuration),
		cfg:       cfg,
		now:       time.Now,
	}
}

// Close stops the cache cleanup goroutine.
func (s *Service) Close() {
	select {
	case <-s.cache.stop:
	default:
		close(s.cache.stop)
	}
}

// Headlines returns at most MaxArticles headlines from the last windowDays
// days, newest first. Headlines without a timestamp sort last.
func (s *Service) Headlines(ctx context.Context, symbol string, windowDays int) ([]types.Headline, error) {
	if !s.cfg.Enabled {
		logger.Debug(ctx, "News retrieval disabled", "symbol", symbol)
		return nil, nil
	}
	if windowDays <= 0 {
		windowDays = s.cfg.WindowDays
	}

	key := cacheKey(symbol, windowDays)
	if cached, ok := s.cache.get(key); ok {
		logger.Info(ctx, "Using cached headlines", "symbol", symbol, "count", len(cached))
		return cached, nil
	}

	logger.Info(ctx, "Fetching fresh headlines", "symbol", symbol, "window_days", windowDays)
	heads, err := s.fetchFresh(ctx, symbol, windowDays)
	if err != nil {
		return nil, err
	}

	s.cache.set(key, heads)
	return heads, nil
}

func (s *Service) fetchFresh(ctx context.Context, symbol string, windowDays int) ([]types.Headline, error) {
	var (
		lastErr error
		failed  int
	)
	for i, p := range s.providers {
		heads, err := p.Headlines(ctx, symbol, windowDays)
		if err != nil {
			logger.ErrorWithErr(ctx, "News provider failed", err, "symbol", symbol, "provider", i)
			lastErr = err
			failed++
			continue
		}

		heads = s.prepare(heads, windowDays)
		if len(heads) > 0 {
			return heads, nil
		}
		logger.Info(ctx, "No headlines from provider, trying next", "symbol", symbol, "provider", i)
	}

	if failed > 0 && failed == len(s.providers) {
		return nil, fmt.Errorf("news for %s: %v: %w", symbol, lastErr, types.ErrDataUnavailable)
	}
	return []types.Headline{}, nil
}

// prepare drops blank, duplicate and out-of-window headlines, sorts newest
// first and truncates to MaxArticles.
func (s *Service) prepare(heads []types.Headline, windowDays int) []types.Headline {
	cutoff := s.now().AddDate(0, 0, -windowDays)
	seen := make(map[string]bool, len(heads))

	out := make([]types.Headline, 0, len(heads))
	for _, h := range heads {
		h.Text = strings.TrimSpace(h.Text)
		k := strings.ToLower(h.Text)
		if h.Text == "" || seen[k] {
			continue
		}
		if !h.PublishedAt.IsZero() && h.PublishedAt.Before(cutoff) {
			continue
		}
		seen[k] = true
		out = append(out, h)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PublishedAt, out[j].PublishedAt
		if a.IsZero() != b.IsZero() {
			return b.IsZero()
		}
		return a.After(b)
	})

	if s.cfg.MaxArticles > 0 && len(out) > s.cfg.MaxArticles {
		out = out[:s.cfg.MaxArticles]
	}
	return out
}

// Texts returns the headline strings in order.
func Texts(heads []types.Headline) []string {
	out := make([]string, len(heads))
	for i, h := range heads {
		out[i] = h.Text
	}
	return out
}
