package strategies

import (
	"math"

	"github.com/stratlab/quantsim/indicators"
	"github.com/stratlab/quantsim/market"
)

func init() {
	Register("rsi", func(p Params) Source { return NewRSIReversal(p.RSIPeriod, p.RSIBuy, p.RSISell) })
}

// RSIReversal is level-based: buy while RSI sits below the oversold
// threshold, sell while it sits above the overbought threshold. Unlike the
// cross sources it can fire on consecutive bars.
type RSIReversal struct {
	rsi    *indicators.RSI
	buyTh  float64
	sellTh float64
}

func NewRSIReversal(period int, buyTh, sellTh float64) *RSIReversal {
	if buyTh >= sellTh {
		panic("RSIReversal requires buy threshold < sell threshold")
	}
	return &RSIReversal{
		rsi:    indicators.NewRSI(period),
		buyTh:  buyTh,
		sellTh: sellTh,
	}
}

func (x *RSIReversal) Name() string { return "rsi" }

func (x *RSIReversal) Reset() { x.rsi.Reset() }

func (x *RSIReversal) Update(b market.Bar) market.Signal {
	x.rsi.Update(b)
	if !x.rsi.Ready() {
		return market.None
	}

	v := x.rsi.Value()
	if math.IsNaN(v) {
		return market.None
	}
	switch {
	case v < x.buyTh:
		return market.Buy
	case v > x.sellTh:
		return market.Sell
	default:
		return market.None
	}
}
