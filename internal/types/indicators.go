package types

import (
	"math"
	"strconv"
)

// Value is an indicator reading that may not exist yet (warm-up window) or
// may not be computable at all. The zero Value is undefined.
type Value struct {
	v  float64
	ok bool
}

// Of wraps f. NaN and ±Inf become an undefined Value.
func Of(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{v: f, ok: true}
}

// Undefined returns a Value with no reading.
func Undefined() Value { return Value{} }

func (v Value) Defined() bool { return v.ok }

// Get returns the reading and whether it is defined.
func (v Value) Get() (float64, bool) { return v.v, v.ok }

// Float returns the reading, or NaN when undefined.
func (v Value) Float() float64 {
	if !v.ok {
		return math.NaN()
	}
	return v.v
}

func (v Value) String() string {
	if !v.ok {
		return "n/a"
	}
	return strconv.FormatFloat(v.v, 'f', 2, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v.v, 'g', -1, 64), nil
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Value{}
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*v = Of(f)
	return nil
}

// Snapshot is the indicator set for one bar.
type Snapshot struct {
	RSI14      Value `json:"rsi14"`
	MACD       Value `json:"macd"`
	MACDSignal Value `json:"macd_signal"`
	MACDHist   Value `json:"macd_hist"`
	SMA20      Value `json:"sma20"`
	SMA50      Value `json:"sma50"`
}

// Complete reports whether every indicator in the snapshot is defined.
func (s Snapshot) Complete() bool {
	return s.RSI14.Defined() && s.MACD.Defined() && s.MACDSignal.Defined() &&
		s.MACDHist.Defined() && s.SMA20.Defined() && s.SMA50.Defined()
}
