package news

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"trading-assistant/internal/api"
	"trading-assistant/internal/interfaces"
	"trading-assistant/internal/logger"
	"trading-assistant/internal/types"
)

var _ interfaces.NewsProvider = (*Scraper)(nil)

// Scraper handles scraping news from multiple sources
type Scraper struct {
	sources     []NewsSource
	timeout     time.Duration
	maxArticles int
}

// NewsSource defines a news source configuration
type NewsSource struct {
	Name    string
	BaseURL string
	// SearchPath may use {query} and {days}.
	SearchPath string
	Selectors  ArticleSelectors
	RateLimit  time.Duration
}

// ArticleSelectors defines CSS selectors for extracting article data
type ArticleSelectors struct {
	ArticleContainer string
	Title            string
	URL              string
	PublishedAt      string
}

// NewScraper creates a new news scraper with default sources
func NewScraper(timeout time.Duration, maxArticles int) *Scraper {
	return NewScraperWithSources(timeout, maxArticles, DefaultSources())
}

func NewScraperWithSources(timeout time.Duration, maxArticles int, sources []NewsSource) *Scraper {
	if maxArticles <= 0 {
		maxArticles = 10
	}
	return &Scraper{sources: sources, timeout: timeout, maxArticles: maxArticles}
}

// DefaultSources returns the financial news sources to scrape
func DefaultSources() []NewsSource {
	return []NewsSource{
		{
			Name:       "GoogleNews",
			BaseURL:    "https://news.google.com",
			SearchPath: "/search?q={query}+when:{days}d&hl=en-US&gl=US&ceid=US:en",
			Selectors: ArticleSelectors{
				ArticleContainer: "article",
				Title:            "h3, h4, a.JtKRv",
				URL:              "a",
				PublishedAt:      "time",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "EconomicTimes",
			BaseURL:    "https://economictimes.indiatimes.com",
			SearchPath: "/topic/{query}",
			Selectors: ArticleSelectors{
				ArticleContainer: "div.story-box",
				Title:            "h3, a",
				URL:              "a",
				PublishedAt:      "time",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// Headlines scrapes every source in turn until maxArticles are collected.
// It fails only when every source fails.
func (s *Scraper) Headlines(ctx context.Context, symbol string, windowDays int) ([]types.Headline, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol: %w", types.ErrInvalidInput)
	}
	logger.Info(ctx, "Starting news scraping", "symbol", symbol, "sources", len(s.sources))

	var (
		all     []types.Headline
		lastErr error
		failed  int
	)
	for i, source := range s.sources {
		if len(all) >= s.maxArticles {
			break
		}
		heads, err := s.scrapeSource(ctx, source, symbol, windowDays, s.maxArticles-len(all))
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", source.Name, "symbol", symbol)
			lastErr = err
			failed++
			continue
		}
		all = append(all, heads...)

		if i < len(s.sources)-1 && source.RateLimit > 0 {
			select {
			case <-ctx.Done():
				return all, ctx.Err()
			case <-time.After(source.RateLimit):
			}
		}
	}
	if failed > 0 && failed == len(s.sources) {
		return nil, fmt.Errorf("all %d sources failed, last: %v: %w", failed, lastErr, types.ErrDataUnavailable)
	}

	logger.Info(ctx, "News scraping completed", "symbol", symbol, "headlines", len(all))
	return all, nil
}

// scrapeSource scrapes articles from a single news source
func (s *Scraper) scrapeSource(ctx context.Context, source NewsSource, symbol string, windowDays, limit int) ([]types.Headline, error) {
	var (
		heads    []types.Headline
		parseErr error
	)

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	// Set user agent to avoid being blocked
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		for k, v := range api.BrowserHeaders() {
			r.Headers.Set(k, v)
		}
		r.Headers.Set("Accept", "text/html,application/xhtml+xml")
	})

	c.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			parseErr = fmt.Errorf("parse %s: %w", source.Name, err)
			return
		}
		heads = extractHeadlines(doc, source, limit)
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scraping error", err, "source", source.Name, "url", r.Request.URL.String())
	})

	searchURL := source.BaseURL + buildSearchPath(source.SearchPath, symbol, windowDays)
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", searchURL, err)
	}
	c.Wait()

	if parseErr != nil {
		return nil, parseErr
	}
	return heads, nil
}

func buildSearchPath(path, symbol string, windowDays int) string {
	query := url.QueryEscape(symbol + " stock")
	path = strings.ReplaceAll(path, "{query}", query)
	return strings.ReplaceAll(path, "{days}", strconv.Itoa(windowDays))
}

// extractHeadlines reads up to limit headlines from a search results page.
func extractHeadlines(doc *goquery.Document, source NewsSource, limit int) []types.Headline {
	var out []types.Headline
	seen := make(map[string]bool)

	doc.Find(source.Selectors.ArticleContainer).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.Join(strings.Fields(sel.Find(source.Selectors.Title).First().Text()), " ")
		if title == "" || seen[title] {
			return true
		}
		link, _ := sel.Find(source.Selectors.URL).First().Attr("href")

		var published time.Time
		if source.Selectors.PublishedAt != "" {
			t := sel.Find(source.Selectors.PublishedAt).First()
			published = parsePublished(t.AttrOr("datetime", ""), strings.TrimSpace(t.Text()))
		}

		seen[title] = true
		out = append(out, types.Headline{
			Text:        title,
			Source:      source.Name,
			URL:         absoluteURL(source.BaseURL, link),
			PublishedAt: published,
		})
		return len(out) < limit
	})
	return out
}

func absoluteURL(base, link string) string {
	switch {
	case link == "":
		return ""
	case strings.HasPrefix(link, "http"):
		return link
	case strings.HasPrefix(link, "./"):
		return base + link[1:]
	case strings.HasPrefix(link, "/"):
		return base + link
	default:
		return base + "/" + link
	}
}

var publishedLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"02 Jan 2006, 03:04 PM MST",
	"Jan 2, 2006, 03:04 PM MST",
	"Jan 2, 2006",
	time.DateOnly,
}

// parsePublished returns the first candidate that parses, or the zero time.
func parsePublished(candidates ...string) time.Time {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		for _, layout := range publishedLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}

// getDomain extracts domain from URL
func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
