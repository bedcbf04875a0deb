package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"trading-assistant/internal/api"
	"trading-assistant/internal/broker/brokerobs"
	"trading-assistant/internal/broker/zerodha"
	"trading-assistant/internal/engine"
	"trading-assistant/internal/engine/engineobs"
	"trading-assistant/internal/eod"
	"trading-assistant/internal/eod/eodobs"
	"trading-assistant/internal/interfaces"
	"trading-assistant/internal/logger"
	"trading-assistant/internal/marketdata"
	"trading-assistant/internal/modelstore"
	"trading-assistant/internal/news"
	"trading-assistant/internal/news/newsobs"
	"trading-assistant/internal/recorder"
	"trading-assistant/internal/sentiment"
	"trading-assistant/internal/store"
	"trading-assistant/internal/trace"
	"trading-assistant/internal/tradelog"
)

const version = "0.3.0"

// initializeSystem loads .env and sets up logging and tracing.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(version); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// app holds everything a command needs.
type app struct {
	cfg      *store.Config
	engine   interfaces.Engine
	recorder interfaces.Recorder
	journal  *tradelog.Journal
	eod      interfaces.EodSummarizer
	news     *news.Service
}

func (a *app) Close(ctx context.Context) {
	if a.news != nil {
		a.news.Close()
	}
	if err := a.recorder.Close(); err != nil {
		logger.ErrorWithErr(ctx, "Failed to close recorder", err)
	}
	if err := trace.Shutdown(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Failed to flush traces", err)
	}
}

func newApp(ctx context.Context, cfg *store.Config) (*app, error) {
	kite := zerodha.NewZerodha(zerodha.Params{
		Mode:        cfg.Mode,
		APIKey:      cfg.KiteAPIKey,
		AccessToken: cfg.KiteAccessToken,
		Exchange:    cfg.Exchange,
	})
	if cfg.Mode == zerodha.ModeDryRun {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
	}

	scorer, err := initializeScorer(cfg)
	if err != nil {
		return nil, err
	}

	rec, err := initializeRecorder(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		recorder: rec,
		journal:  tradelog.New(cfg.Journal.Dir, journalLocation()),
	}
	a.eod = eodobs.Wrap(eod.NewSummarizer(a.journal))

	deps := engine.Deps{
		Data:     initializeMarketData(ctx, cfg, kite),
		Scorer:   scorer,
		Models:   modelstore.NewFileStore(cfg.Model.Path),
		Broker:   brokerobs.Wrap(kite),
		Recorder: rec,
		Journal:  a.journal,
	}
	if svc := initializeNews(ctx, cfg); svc != nil {
		a.news = svc
		deps.News = svc
	}

	eng, err := engine.New(cfg, deps)
	if err != nil {
		rec.Close()
		return nil, err
	}
	a.engine = engineobs.Wrap(eng)
	return a, nil
}

func initializeMarketData(ctx context.Context, cfg *store.Config, kite *zerodha.Zerodha) interfaces.MarketData {
	switch cfg.DataSource {
	case "YAHOO":
		logger.Info(ctx, "Using Yahoo Finance daily history", "suffix", cfg.SymbolSuffix)
		return marketdata.NewYahoo(cfg.SymbolSuffix)
	case "KITE":
		logger.Info(ctx, "Using Kite Connect daily history", "exchange", cfg.Exchange)
		return kite
	default:
		logger.Info(ctx, "Using STATIC synthetic history for testing")
		return marketdata.NewStatic()
	}
}

func initializeScorer(cfg *store.Config) (*sentiment.Analyzer, error) {
	if cfg.Sentiment.LexiconPath == "" {
		lex, err := sentiment.DefaultLexicon()
		if err != nil {
			return nil, err
		}
		return sentiment.NewAnalyzer(lex), nil
	}

	f, err := os.Open(cfg.Sentiment.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()

	lex, err := sentiment.ParseLexicon(f)
	if err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", cfg.Sentiment.LexiconPath, err)
	}
	return sentiment.NewAnalyzer(lex), nil
}

// initializeNews builds the provider chain in configured order. It returns
// nil when news is disabled or no provider is usable.
func initializeNews(ctx context.Context, cfg *store.Config) *news.Service {
	if !cfg.News.Enabled {
		logger.Info(ctx, "News retrieval disabled; sentiment will be neutral")
		return nil
	}

	var providers []interfaces.NewsProvider
	for _, name := range cfg.News.Providers {
		switch name {
		case "FINNHUB":
			if cfg.FinnhubAPIKey == "" {
				logger.Warn(ctx, "FINNHUB_API_KEY not set; skipping Finnhub news")
				continue
			}
			fh := news.NewFinnhub(cfg.FinnhubAPIKey,
				api.WithTimeout(cfg.NewsTimeout()),
				api.WithRetry(api.DefaultRetryConfig()),
				// Free tier allows 60 calls a minute.
				api.WithRateLimit(api.NewRateLimiter(5, time.Second)),
				api.WithLogging(logger.IsDebugEnabled()),
			)
			providers = append(providers, newsobs.Wrap("finnhub", fh))
		case "SCRAPER":
			sc := news.NewScraper(cfg.NewsTimeout(), cfg.Sentiment.MaxHeadlines)
			providers = append(providers, newsobs.Wrap("scraper", sc))
		}
	}
	if len(providers) == 0 {
		logger.Warn(ctx, "No usable news provider; sentiment will be neutral")
		return nil
	}
	return news.NewService(cfg.NewsConfig(), providers...)
}

func initializeRecorder(ctx context.Context, cfg *store.Config) (interfaces.Recorder, error) {
	if cfg.Journal.SQLitePath == "" {
		return recorder.NewNoopRecorder(), nil
	}
	rec, err := recorder.NewSQLiteRecorder(ctx, cfg.Journal.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open decision history: %w", err)
	}
	return rec, nil
}

// journalLocation is IST, the exchange's trading day.
func journalLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}

// compressOldLogs gzips journal files past the retention window.
func compressOldLogs(ctx context.Context, a *app) {
	if a.cfg.Journal.RetentionDays <= 0 {
		return
	}
	if err := a.journal.CompressOlder(a.cfg.Journal.RetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old logs", "error", err)
	}
}
