// Package engine runs one analysis per call: history, indicators, regime,
// news sentiment, direction prediction, decision fusion and risk plan.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trading-assistant/internal/indicator"
	"trading-assistant/internal/interfaces"
	"trading-assistant/internal/logger"
	"trading-assistant/internal/news"
	"trading-assistant/internal/predictor"
	"trading-assistant/internal/risk"
	"trading-assistant/internal/sentiment"
	"trading-assistant/internal/signal"
	"trading-assistant/internal/store"
	"trading-assistant/internal/types"
)

// Journal is the append-only decision and order log.
type Journal interface {
	AppendDecision(a *types.Analysis) error
	AppendOrder(req types.OrderReq, resp types.OrderResp) error
}

// Deps are the collaborators an Engine needs. News, Broker, Recorder and
// Journal may be nil.
type Deps struct {
	Data     interfaces.MarketData
	News     interfaces.NewsProvider
	Scorer   *sentiment.Analyzer
	Models   interfaces.ModelStore
	Broker   interfaces.Broker
	Recorder interfaces.Recorder
	Journal  Journal
}

type Engine struct {
	cfg    *store.Config
	deps   Deps
	params indicator.Params
	calc   *risk.Calculator
	orders *orderExecutor
	now    func() time.Time
}

var _ interfaces.Engine = (*Engine)(nil)

func newEngine(cfg *store.Config, d Deps) (*Engine, error) {
	if d.Data == nil {
		return nil, fmt.Errorf("engine needs a market data source: %w", types.ErrInvalidInput)
	}
	if d.Scorer == nil {
		lex, err := sentiment.DefaultLexicon()
		if err != nil {
			return nil, err
		}
		d.Scorer = sentiment.NewAnalyzer(lex)
	}
	calc, err := risk.NewCalculator(cfg.RiskParams())
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:    cfg,
		deps:   d,
		params: cfg.IndicatorParams(),
		calc:   calc,
		orders: newOrderExecutor(d.Broker, d.Journal, d.Recorder, cfg.OrderTag),
		now:    time.Now,
	}, nil
}

// history fetches the configured lookback. Every failure is reported as
// ErrDataUnavailable unless the symbol itself was invalid.
func (e *Engine) history(ctx context.Context, symbol string) ([]types.PriceBar, error) {
	start, end := historyWindow(e.now(), e.cfg.HistoryDays)
	bars, err := e.deps.Data.History(ctx, symbol, start, end)
	if err != nil {
		if errors.Is(err, types.ErrDataUnavailable) || errors.Is(err, types.ErrInvalidInput) {
			return nil, fmt.Errorf("history for %s: %w", symbol, err)
		}
		return nil, fmt.Errorf("history for %s: %v: %w", symbol, err, types.ErrDataUnavailable)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("history for %s is empty: %w", symbol, types.ErrDataUnavailable)
	}
	return bars, nil
}

func (e *Engine) Analyze(ctx context.Context, symbol string) (*types.Analysis, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	ctx = logger.With(ctx, "run_id", e.now().UTC().Format("20060102T150405.000"))
	logger.Debug(ctx, "Starting analysis", "symbol", symbol)

	bars, err := e.history(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch history", err, "symbol", symbol)
		return nil, err
	}
	last := bars[len(bars)-1]

	frame, err := indicator.ComputeWith(ctx, bars, e.params)
	if err != nil {
		logger.ErrorWithErr(ctx, "Indicators unavailable; decision will be undetermined", err, "symbol", symbol)
	}
	regime := indicator.Classify(ctx, frame)

	heads := e.headlines(ctx, symbol)
	sent := e.deps.Scorer.Score(ctx, news.Texts(heads))

	prediction := types.Unavailable
	snap, _, ok := frame.Latest()
	if ok {
		prediction = predictor.Predict(ctx, e.classifier(ctx, frame), snap)
	}

	out := signal.Decide(frame, sent, prediction)
	plan := e.calc.Plan(ctx, symbol, out.Final, last.Close)

	a := &types.Analysis{
		Symbol:      symbol,
		AsOf:        last.Time,
		GeneratedAt: e.now().UTC(),
		Bars:        len(bars),
		Close:       last.Close,
		Latest:      snap,
		ATR14:       atrValue(bars, e.cfg.Indicators.ATRPeriod),
		Regime:      regime,
		Sentiment:   sent,
		Headlines:   heads,
		Prediction:  prediction,
		RuleSignal:  out.Rule,
		Decision:    out.Final,
		Triggers:    out.Triggers,
		Plan:        plan,
	}
	logger.Decision(ctx, symbol, string(a.RuleSignal), string(a.Decision), string(a.Prediction),
		"regime", a.Regime,
		"sentiment", a.Sentiment.Compound,
		"headlines", a.Sentiment.Count,
		"close", a.Close,
		"stop_loss", a.Plan.StopLoss,
		"target_profit", a.Plan.TargetProfit,
		"position_size", a.Plan.PositionSize,
	)
	e.orders.logDecision(ctx, a)

	return a, nil
}

// headlines never fails; a news outage means neutral sentiment.
func (e *Engine) headlines(ctx context.Context, symbol string) []types.Headline {
	if e.deps.News == nil {
		return nil
	}
	heads, err := e.deps.News.Headlines(ctx, symbol, e.cfg.News.WindowDays)
	if err != nil {
		logger.ErrorWithErr(ctx, "News unavailable; using neutral sentiment", err, "symbol", symbol)
		return nil
	}
	return heads
}

// classifier loads the stored model, training one from frame on first use
// when allowed. It returns nil when no usable model exists.
func (e *Engine) classifier(ctx context.Context, frame indicator.Frame) predictor.Classifier {
	if e.deps.Models == nil {
		return nil
	}
	m, err := e.deps.Models.Load(ctx)
	if err == nil {
		return m
	}
	if !errors.Is(err, types.ErrModelAbsent) || !e.cfg.Model.TrainOnFirstUse {
		logger.ErrorWithErr(ctx, "Model unavailable", err)
		return nil
	}

	logger.Info(ctx, "No stored model; training on current history")
	m, err = e.fit(ctx, frame)
	if err != nil {
		logger.ErrorWithErr(ctx, "First-use training failed", err)
		return nil
	}
	return m
}

func (e *Engine) fit(ctx context.Context, frame indicator.Frame) (*predictor.Model, error) {
	rows := predictor.Dataset(frame)
	m, err := predictor.Train(ctx, rows, e.cfg.TrainOptions())
	if err != nil {
		return nil, err
	}
	if err := e.deps.Models.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save model: %w", err)
	}
	return m, nil
}

// Retrain fits a fresh model on symbol's history and replaces the stored one.
func (e *Engine) Retrain(ctx context.Context, symbol string) (*predictor.Model, error) {
	if e.deps.Models == nil {
		return nil, fmt.Errorf("no model store configured: %w", types.ErrInvalidInput)
	}
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	bars, err := e.history(ctx, symbol)
	if err != nil {
		return nil, err
	}
	frame, err := indicator.ComputeWith(ctx, bars, e.params)
	if err != nil {
		return nil, err
	}

	m, err := e.fit(ctx, frame)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Model retrained", "symbol", symbol, "accuracy", m.Accuracy, "train_rows", m.TrainRows, "test_rows", m.TestRows)
	return m, nil
}

// Submit places the order for a tradable analysis.
func (e *Engine) Submit(ctx context.Context, a *types.Analysis) (types.OrderResp, error) {
	if a == nil {
		return types.OrderResp{}, fmt.Errorf("nil analysis: %w", types.ErrInvalidInput)
	}
	if !a.Decision.Actionable() {
		return types.OrderResp{}, fmt.Errorf("decision %s is not actionable: %w", a.Decision, types.ErrInvalidInput)
	}
	qty := a.Plan.Shares()
	if qty < 1 {
		logger.Risk(ctx, a.Symbol, "ORDER_BLOCKED_SIZE", "position_size", a.Plan.PositionSize)
		return types.OrderResp{}, fmt.Errorf("position size %.4f is below one share: %w", a.Plan.PositionSize, types.ErrComputationDegenerate)
	}
	return e.orders.place(ctx, a.Symbol, string(a.Decision), qty, a.Close)
}

func normalizeSymbol(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("empty symbol: %w", types.ErrInvalidInput)
	}
	return s, nil
}
