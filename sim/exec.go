package sim

// Side is the direction of a fill.
type Side int8

const (
	SideBuy  Side = 1
	SideSell Side = -1
)

func (s Side) String() string {
	if s == SideSell {
		return "SELL"
	}
	return "BUY"
}

// FillModel converts a reference price into a realized fill price and fee.
// Slippage always works against the trader: buys fill above the reference,
// sells below. Pure arithmetic; the caller guarantees a non-negative
// reference price.
type FillModel struct {
	SlippageRate   float64
	CommissionRate float64
}

// Fill returns the realized price for trading at ref in the given direction.
func (m FillModel) Fill(ref float64, side Side) float64 {
	if side == SideSell {
		return ref * (1 - m.SlippageRate)
	}
	return ref * (1 + m.SlippageRate)
}

// Commission returns the fee for a fill of qty units at fillPrice. Charged
// on both entry and exit.
func (m FillModel) Commission(fillPrice float64, qty int) float64 {
	return fillPrice * float64(qty) * m.CommissionRate
}
