package sim

import "github.com/stratlab/quantsim/market"

// Decision is the single combined verdict for one bar.
type Decision int8

const (
	DecideNone Decision = iota
	DecideBuy
	DecideSell
)

func (d Decision) String() string {
	switch d {
	case DecideBuy:
		return "BUY"
	case DecideSell:
		return "SELL"
	default:
		return "NONE"
	}
}

// CombinePolicy selects how independent source opinions merge.
type CombinePolicy int8

// AnyEnabled: buy if any enabled source says buy, sell if any says sell.
// Currently the only policy; weighted voting would slot in here.
const AnyEnabled CombinePolicy = iota

// Aggregator combines per-bar opinions from independent signal sources into
// one decision. It never inspects how a signal was computed.
type Aggregator struct {
	policy  CombinePolicy
	enabled map[string]bool
}

// NewAggregator builds an aggregator restricted to the named sources. An
// empty list enables every source present on a bar.
func NewAggregator(policy CombinePolicy, sources []string) *Aggregator {
	var enabled map[string]bool
	if len(sources) > 0 {
		enabled = make(map[string]bool, len(sources))
		for _, name := range sources {
			enabled[name] = true
		}
	}
	return &Aggregator{policy: policy, enabled: enabled}
}

// Decide merges the named opinions for one bar. Absent or undefined values
// count as no opinion. When buy and sell evidence collide, sell wins: an
// existing position is liquidated before new exposure is considered.
func (a *Aggregator) Decide(signals map[string]market.Signal) Decision {
	anyBuy, anySell := false, false
	for name, sig := range signals {
		if a.enabled != nil && !a.enabled[name] {
			continue
		}
		switch sig {
		case market.Buy:
			anyBuy = true
		case market.Sell:
			anySell = true
		}
	}

	switch {
	case anySell:
		return DecideSell
	case anyBuy:
		return DecideBuy
	default:
		return DecideNone
	}
}
