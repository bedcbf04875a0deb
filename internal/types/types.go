package types

import (
	"math"
	"time"
)

// PriceBar is one OHLCV row of instrument history.
type PriceBar struct {
	Time                           time.Time
	Open, High, Low, Close, Volume float64
}

// Headline is a news item as returned by a news provider.
type Headline struct {
	Text        string    `json:"text"`
	Source      string    `json:"source,omitempty"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Decision is the final trading action.
type Decision string

const (
	Buy          Decision = "BUY"
	Sell         Decision = "SELL"
	Hold         Decision = "HOLD"
	Undetermined Decision = "UNDETERMINED"
)

// Actionable reports whether an order may be placed for the decision.
func (d Decision) Actionable() bool { return d == Buy || d == Sell }

// Prediction is the directional classifier output.
type Prediction string

const (
	Up          Prediction = "Up"
	Down        Prediction = "Down"
	Unavailable Prediction = "Unavailable"
)

// Regime is the market personality derived from the latest snapshot.
type Regime string

const (
	TrendingUp         Regime = "Trending Up"
	TrendingDown       Regime = "Trending Down"
	RangeBound         Regime = "Range-Bound"
	RegimeUndetermined Regime = "Undetermined"
)

// RiskPlan is recomputed for every decision and never persisted as state.
type RiskPlan struct {
	EntryPrice   float64 `json:"entry_price"`
	StopLoss     float64 `json:"stop_loss"`
	TargetProfit float64 `json:"target_profit"`
	PositionSize float64 `json:"position_size"`
	IsLong       bool    `json:"is_long"`
}

// Sizable reports whether the plan carries a usable position size.
func (p RiskPlan) Sizable() bool { return p.PositionSize > 0 }

// Shares is the whole-share quantity an order can carry.
func (p RiskPlan) Shares() int {
	if p.PositionSize <= 0 || math.IsNaN(p.PositionSize) {
		return 0
	}
	return int(math.Floor(p.PositionSize))
}

type OrderReq struct {
	Symbol, Side string
	Qty          int
	Tag          string
}

type OrderResp struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
