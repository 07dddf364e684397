package sim

import "math"

// ExitReason says why the risk gate wants a lot closed.
type ExitReason int8

const (
	NoExit ExitReason = iota
	TakeProfit
	StopLoss
	Timeout
)

func (r ExitReason) String() string {
	switch r {
	case TakeProfit:
		return "TakeProfit"
	case StopLoss:
		return "StopLoss"
	case Timeout:
		return "Timeout"
	default:
		return "None"
	}
}

// Gate evaluates per-lot exit rules each bar, independent of signal-driven
// exits. Evaluation is pure; the engine performs the actual closes.
type Gate struct {
	TakeProfitPct float64
	StopLossPct   float64

	// MaxHoldingBars caps how long a lot may stay open. 0 disables the cap.
	MaxHoldingBars int
}

// Evaluate returns the exit that fires for this lot at the current price,
// or NoExit. Price-based exits outrank Timeout: they reflect the more urgent
// risk event. Non-finite inputs (NaN price, zero entry) yield NoExit rather
// than propagating.
func (g Gate) Evaluate(lot *Lot, price float64, barsHeld int) ExitReason {
	if lot == nil {
		return NoExit
	}
	if finite(price) && finite(lot.EntryPrice) && lot.EntryPrice > 0 {
		if g.TakeProfitPct > 0 && price >= lot.EntryPrice*(1+g.TakeProfitPct) {
			return TakeProfit
		}
		// Strictly below the threshold: a touch at exactly entry*(1-sl)
		// does not fire.
		if g.StopLossPct > 0 && price < lot.EntryPrice*(1-g.StopLossPct) {
			return StopLoss
		}
	}
	if g.MaxHoldingBars > 0 && barsHeld >= g.MaxHoldingBars {
		return Timeout
	}
	return NoExit
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
