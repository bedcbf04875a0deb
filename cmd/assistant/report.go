package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trading-assistant/internal/predictor"
	"trading-assistant/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 2).
		Width(64)

	labelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Width(18)

	buyStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	sellStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	holdStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B")).
		Bold(true)

	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
)

func decisionStyle(d types.Decision) lipgloss.Style {
	switch d {
	case types.Buy:
		return buyStyle
	case types.Sell:
		return sellStyle
	case types.Hold:
		return holdStyle
	default:
		return mutedStyle
	}
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

func money(f float64) string {
	if f == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", f)
}

func renderAnalysis(a *types.Analysis) string {
	s := a.Latest
	lines := []string{
		row("As of", a.AsOf.Format("2006-01-02")),
		row("Close", fmt.Sprintf("%.2f", a.Close)),
		row("Regime", string(a.Regime)),
		"",
		row("RSI(14)", s.RSI14.String()),
		row("MACD / signal", s.MACD.String()+" / "+s.MACDSignal.String()),
		row("MACD hist", s.MACDHist.String()),
		row("SMA20 / SMA50", s.SMA20.String()+" / "+s.SMA50.String()),
		row("ATR(14)", a.ATR14.String()),
		"",
		row("Sentiment", fmt.Sprintf("%+.3f (%d headlines)", a.Sentiment.Compound, a.Sentiment.Count)),
		row("Prediction", string(a.Prediction)),
		row("Rule signal", string(a.RuleSignal)),
		row("Triggers", triggerList(a.Triggers)),
		"",
		row("Decision", decisionStyle(a.Decision).Render(string(a.Decision))),
	}
	if a.Decision.Actionable() {
		lines = append(lines,
			row("Entry", money(a.Plan.EntryPrice)),
			row("Stop-loss", money(a.Plan.StopLoss)),
			row("Target", money(a.Plan.TargetProfit)),
			row("Position size", fmt.Sprintf("%.2f (%d shares)", a.Plan.PositionSize, a.Plan.Shares())),
		)
	}
	if len(a.Headlines) > 0 {
		lines = append(lines, "", mutedStyle.Render("Headlines"))
		for _, h := range a.Headlines {
			lines = append(lines, mutedStyle.Render("  • "+truncate(h.Text, 58)))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(a.Symbol),
		boxStyle.Render(strings.Join(lines, "\n")),
	)
}

func triggerList(t types.Triggers) string {
	var out []string
	for _, tr := range []struct {
		on   bool
		name string
	}{
		{t.SMACrossUp, "SMA cross up"},
		{t.SMACrossDown, "SMA cross down"},
		{t.RSIOversold, "RSI oversold"},
		{t.RSIOverbought, "RSI overbought"},
		{t.MACDCrossUp, "MACD cross up"},
		{t.MACDCrossDown, "MACD cross down"},
	} {
		if tr.on {
			out = append(out, tr.name)
		}
	}
	if len(out) == 0 {
		return "none"
	}
	return strings.Join(out, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func renderOrder(a *types.Analysis, resp types.OrderResp) string {
	return boxStyle.Render(strings.Join([]string{
		row("Order", decisionStyle(a.Decision).Render(string(a.Decision))+fmt.Sprintf(" %d %s", a.Plan.Shares(), a.Symbol)),
		row("Order ID", resp.OrderID),
		row("Status", resp.Status),
	}, "\n"))
}

func renderModel(path string, m *predictor.Model) string {
	return boxStyle.Render(strings.Join([]string{
		row("Model", path),
		row("Trained at", m.TrainedAt.Format("2006-01-02 15:04")),
		row("Rows", fmt.Sprintf("%d train / %d test", m.TrainRows, m.TestRows)),
		row("Accuracy", fmt.Sprintf("%.1f%%", m.Accuracy*100)),
	}, "\n"))
}

func renderHistory(symbol string, recs []types.DecisionRecord) string {
	if len(recs) == 0 {
		return mutedStyle.Render("No recorded decisions for " + strings.ToUpper(symbol))
	}
	lines := make([]string, 0, len(recs)+1)
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("%-11s %9s %-13s %-11s %-12s %9s", "as of", "close", "regime", "prediction", "decision", "size")))
	for _, r := range recs {
		lines = append(lines, fmt.Sprintf("%-11s %9.2f %-13s %-11s %s %9.2f",
			r.AsOf.Format("2006-01-02"), r.Close, r.Regime, r.Prediction,
			decisionStyle(r.Decision).Render(fmt.Sprintf("%-12s", r.Decision)), r.PositionSize))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(strings.ToUpper(symbol)),
		boxStyle.Width(80).Render(strings.Join(lines, "\n")),
	)
}
