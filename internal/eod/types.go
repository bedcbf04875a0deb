package eod

import "trading-assistant/internal/types"

// aggRow is one symbol's activity for the day.
type aggRow struct {
	Symbol    string
	Analyses  int
	Decisions map[types.Decision]int

	// Last* come from the latest analysis of the day.
	LastDecision  string
	LastClose     float64
	LastSentiment float64
	LastStop      float64
	LastTarget    float64
	Orders        int
	BuyQty        int
	SellQty       int
}
