package types

import "time"

// Sentiment is the aggregate news tone for one analysis.
type Sentiment struct {
	Compound float64 `json:"compound"`
	// Count is the number of headlines that were actually scored.
	Count int `json:"count"`
}

// Positive and Negative are the thresholds the decision rules use.
func (s Sentiment) Positive() bool { return s.Compound > 0.1 }
func (s Sentiment) Negative() bool { return s.Compound < -0.1 }

// Triggers records which technical conditions fired on the latest bar.
type Triggers struct {
	SMACrossUp    bool `json:"sma_cross_up"`
	SMACrossDown  bool `json:"sma_cross_down"`
	RSIOversold   bool `json:"rsi_oversold"`
	RSIOverbought bool `json:"rsi_overbought"`
	MACDCrossUp   bool `json:"macd_cross_up"`
	MACDCrossDown bool `json:"macd_cross_down"`
}

func (t Triggers) Buy() bool  { return t.SMACrossUp || t.RSIOversold || t.MACDCrossUp }
func (t Triggers) Sell() bool { return t.SMACrossDown || t.RSIOverbought || t.MACDCrossDown }

// Analysis is the result of one analysis run for one instrument.
type Analysis struct {
	Symbol      string     `json:"symbol"`
	AsOf        time.Time  `json:"as_of"`
	GeneratedAt time.Time  `json:"generated_at"`
	Bars        int        `json:"bars"`
	Close       float64    `json:"close"`
	ATR14       Value      `json:"atr14"`
	Latest      Snapshot   `json:"latest"`
	Regime      Regime     `json:"regime"`
	Sentiment   Sentiment  `json:"sentiment"`
	Headlines   []Headline `json:"headlines,omitempty"`
	Prediction  Prediction `json:"prediction"`
	RuleSignal  Decision   `json:"rule_signal"`
	Decision    Decision   `json:"decision"`
	Triggers    Triggers   `json:"triggers"`
	Plan        RiskPlan   `json:"plan"`
}

// Tradable reports whether an order may be offered for this analysis.
func (a *Analysis) Tradable() bool {
	return a.Decision.Actionable() && a.Plan.Shares() >= 1
}

// DecisionRecord is a stored summary of one Analysis.
type DecisionRecord struct {
	ID           int64      `json:"id"`
	RecordedAt   time.Time  `json:"recorded_at"`
	Symbol       string     `json:"symbol"`
	AsOf         time.Time  `json:"as_of"`
	Close        float64    `json:"close"`
	Regime       Regime     `json:"regime"`
	Sentiment    float64    `json:"sentiment"`
	Prediction   Prediction `json:"prediction"`
	RuleSignal   Decision   `json:"rule_signal"`
	Decision     Decision   `json:"decision"`
	StopLoss     float64    `json:"stop_loss"`
	TargetProfit float64    `json:"target_profit"`
	PositionSize float64    `json:"position_size"`
}
