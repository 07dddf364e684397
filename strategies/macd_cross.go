package strategies

import (
	"github.com/stratlab/quantsim/indicators"
	"github.com/stratlab/quantsim/market"
)

func init() {
	Register("macd", func(p Params) Source { return NewMACDCross(p.MACDFast, p.MACDSlow, p.MACDSignal) })
}

// MACDCross signals when the dif line crosses the dea (signal) line.
type MACDCross struct {
	macd    *indicators.MACD
	prevRel int
}

func NewMACDCross(fast, slow, signal int) *MACDCross {
	return &MACDCross{macd: indicators.NewMACD(fast, slow, signal)}
}

func (x *MACDCross) Name() string { return "macd" }

func (x *MACDCross) Reset() {
	x.macd.Reset()
	x.prevRel = 0
}

func (x *MACDCross) Update(b market.Bar) market.Signal {
	x.macd.Update(b)
	if !x.macd.Ready() {
		return market.None
	}
	return crossSignal(&x.prevRel, x.macd.Value()-x.macd.Signal())
}
