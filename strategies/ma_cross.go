package strategies

import (
	"github.com/stratlab/quantsim/indicators"
	"github.com/stratlab/quantsim/market"
)

func init() {
	Register("ma", func(p Params) Source { return NewMACross(p.FastMA, p.SlowMA) })
}

// MACross signals on fast/slow SMA cross events. It keeps the previous
// fast-vs-slow relationship so a sustained cross fires exactly once.
type MACross struct {
	fast *indicators.SMA
	slow *indicators.SMA

	// -1 fast below slow, +1 fast above, 0 unknown/not ready
	prevRel int
}

func NewMACross(fast, slow int) *MACross {
	if fast <= 0 || slow <= 0 || fast >= slow {
		panic("MACross requires 0 < fast < slow")
	}
	return &MACross{
		fast: indicators.NewSMA(fast),
		slow: indicators.NewSMA(slow),
	}
}

func (x *MACross) Name() string { return "ma" }

func (x *MACross) Reset() {
	x.fast.Reset()
	x.slow.Reset()
	x.prevRel = 0
}

func (x *MACross) Update(b market.Bar) market.Signal {
	x.fast.Update(b)
	x.slow.Update(b)

	if !x.fast.Ready() || !x.slow.Ready() {
		return market.None
	}

	return crossSignal(&x.prevRel, x.fast.Value()-x.slow.Value())
}

// crossSignal advances a relationship state machine and reports the cross
// event, if any. The first ready bar only establishes the baseline.
func crossSignal(prevRel *int, diff float64) market.Signal {
	rel := 0
	if diff > 0 {
		rel = 1
	} else if diff < 0 {
		rel = -1
	}

	if *prevRel == 0 {
		*prevRel = rel
		return market.None
	}
	if rel == 0 || rel == *prevRel {
		return market.None
	}

	*prevRel = rel
	if rel > 0 {
		return market.Buy
	}
	return market.Sell
}
