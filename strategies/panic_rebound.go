package strategies

import (
	"github.com/stratlab/quantsim/indicators"
	"github.com/stratlab/quantsim/market"
)

func init() {
	Register("panic", func(p Params) Source { return NewPanicRebound(p.PanicDropPct, p.PanicVolRatio) })
}

const (
	panicVolLookback = 5
	panicBollPeriod  = 20
	panicBollK       = 2
)

// PanicRebound buys capitulation bars: a single-bar drop beyond dropPct, on
// volume above volRatio times the recent average, closing below the lower
// Bollinger band. It never signals sell; the exit side is left to
// take-profit, stop-loss, and holding-period rules.
type PanicRebound struct {
	dropPct  float64
	volRatio float64

	vol  *indicators.SMA
	boll *indicators.Bollinger

	havePrev  bool
	prevClose float64
}

func NewPanicRebound(dropPct, volRatio float64) *PanicRebound {
	if dropPct <= 0 || volRatio <= 0 {
		panic("PanicRebound requires positive dropPct and volRatio")
	}
	return &PanicRebound{
		dropPct:  dropPct,
		volRatio: volRatio,
		vol:      indicators.NewSMA(panicVolLookback),
		boll:     indicators.NewBollinger(panicBollPeriod, panicBollK),
	}
}

func (x *PanicRebound) Name() string { return "panic" }

func (x *PanicRebound) Reset() {
	x.vol.Reset()
	x.boll.Reset()
	x.havePrev = false
	x.prevClose = 0
}

func (x *PanicRebound) Update(b market.Bar) market.Signal {
	ready := x.vol.Ready() && x.boll.Ready() && x.havePrev
	avgVol := x.vol.Value()
	lower := x.boll.Lower()
	prev := x.prevClose

	// Averages exclude the current bar: the bar being judged should not
	// dilute its own baseline.
	x.vol.Update(market.Bar{Time: b.Time, Close: b.Volume})
	x.boll.Update(b)
	x.havePrev = true
	x.prevClose = b.Close

	if !ready || prev <= 0 {
		return market.None
	}

	drop := (b.Close - prev) / prev
	if drop < -x.dropPct && b.Volume > avgVol*x.volRatio && b.Close < lower {
		return market.Buy
	}
	return market.None
}
