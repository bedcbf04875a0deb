// Package eod summarises a day's journal into a CSV report.
package eod

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"trading-assistant/internal/tradelog"
	"trading-assistant/internal/types"
)

type journalReader interface {
	ReadDecisions(day time.Time) ([]tradelog.DecisionEntry, error)
	ReadOrders(day time.Time) ([]tradelog.Entry, error)
	Today() time.Time
}

type eodSummarizer struct {
	journal journalReader
	dir     string
}

func (s *eodSummarizer) csvPath(day time.Time) string {
	return filepath.Join(s.dir, "eod", day.Format(time.DateOnly)+".csv")
}

func (s *eodSummarizer) SummarizeToday(ctx context.Context) (string, error) {
	return s.SummarizeDay(ctx, s.journal.Today())
}

func (s *eodSummarizer) SummarizeDay(ctx context.Context, day time.Time) (string, error) {
	decisions, err := s.journal.ReadDecisions(day)
	if err != nil {
		return "", fmt.Errorf("read decisions: %w", err)
	}
	orders, err := s.journal.ReadOrders(day)
	if err != nil {
		return "", fmt.Errorf("read orders: %w", err)
	}

	aggs := aggregate(decisions, orders)
	if len(aggs) == 0 {
		return "", nil
	}
	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := s.csvPath(day)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	headers := []string{
		"symbol", "analyses", "buy", "sell", "hold", "undetermined",
		"last_decision", "last_close", "last_sentiment", "last_stop_loss", "last_target",
		"orders", "buy_qty", "sell_qty",
	}
	if err := w.Write(headers); err != nil {
		return "", err
	}

	var totalAnalyses, totalOrders int
	for _, k := range keys {
		r := aggs[k]
		rec := []string{
			r.Symbol,
			strconv.Itoa(r.Analyses),
			strconv.Itoa(r.Decisions[types.Buy]),
			strconv.Itoa(r.Decisions[types.Sell]),
			strconv.Itoa(r.Decisions[types.Hold]),
			strconv.Itoa(r.Decisions[types.Undetermined]),
			r.LastDecision,
			fmt.Sprintf("%.2f", r.LastClose),
			fmt.Sprintf("%.4f", r.LastSentiment),
			fmt.Sprintf("%.2f", r.LastStop),
			fmt.Sprintf("%.2f", r.LastTarget),
			strconv.Itoa(r.Orders),
			strconv.Itoa(r.BuyQty),
			strconv.Itoa(r.SellQty),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
		totalAnalyses += r.Analyses
		totalOrders += r.Orders
	}
	_ = w.Write([]string{"TOTAL", strconv.Itoa(totalAnalyses), "", "", "", "", "", "", "", "", "", strconv.Itoa(totalOrders), "", ""})

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return outPath, nil
}

func aggregate(decisions []tradelog.DecisionEntry, orders []tradelog.Entry) map[string]*aggRow {
	aggs := map[string]*aggRow{}
	get := func(sym string) *aggRow {
		r := aggs[sym]
		if r == nil {
			r = &aggRow{Symbol: sym, Decisions: map[types.Decision]int{}}
			aggs[sym] = r
		}
		return r
	}

	// Journal lines are appended in time order, so the last one wins.
	for _, d := range decisions {
		r := get(d.Symbol)
		r.Analyses++
		r.Decisions[types.Decision(d.Action)]++
		r.LastDecision = d.Action
		r.LastClose = d.Close
		r.LastSentiment = d.Sentiment
		r.LastStop = d.StopLoss
		r.LastTarget = d.TargetProfit
	}
	for _, o := range orders {
		r := get(o.Symbol)
		r.Orders++
		switch o.Side {
		case string(types.Buy):
			r.BuyQty += o.Qty
		case string(types.Sell):
			r.SellQty += o.Qty
		}
	}
	return aggs
}
