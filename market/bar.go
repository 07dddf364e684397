package market

import (
	"math"
	"time"
)

// Signal is a single source's opinion for one bar: sell, no opinion, or buy.
type Signal int8

const (
	Sell Signal = -1
	None Signal = 0
	Buy  Signal = 1
)

func (s Signal) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "NONE"
	}
}

// SignalFromFloat coerces a raw indicator output into a Signal. NaN and
// infinities mean the source has no opinion yet (warm-up window), not an
// error. Anything outside {-1, 0, 1} is clamped to no opinion.
func SignalFromFloat(v float64) Signal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return None
	}
	switch {
	case v >= 1:
		return Buy
	case v <= -1:
		return Sell
	default:
		return None
	}
}

// Bar is one time-stepped OHLCV observation. Bars are value types; nothing
// downstream mutates them.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Valid reports whether the bar carries usable price data. Bars with missing
// or non-finite closes are skipped entirely by the simulation loop.
func (b Bar) Valid() bool {
	return !b.Time.IsZero() &&
		!math.IsNaN(b.Close) && !math.IsInf(b.Close, 0) &&
		b.Close > 0
}
