package indicators

import (
	"fmt"

	"github.com/stratlab/quantsim/market"
)

// MACD tracks the difference between a fast and a slow EMA ("dif") and an
// EMA of that difference ("dea", the signal line).
type MACD struct {
	fast *EMA
	slow *EMA
	dea  *EMA

	seen int
	name string
}

func NewMACD(fast, slow, signal int) *MACD {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		panic("MACD periods must be > 0")
	}
	if fast >= slow {
		panic("MACD requires fast < slow")
	}
	return &MACD{
		fast: NewEMA(fast),
		slow: NewEMA(slow),
		dea:  NewEMA(signal),
		name: fmt.Sprintf("MACD(%d,%d,%d)", fast, slow, signal),
	}
}

func (m *MACD) Name() string { return m.name }
func (m *MACD) Warmup() int  { return m.slow.Warmup() }
func (m *MACD) Ready() bool  { return m.seen >= m.slow.Warmup() }

func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.dea.Reset()
	m.seen = 0
}

func (m *MACD) Update(b market.Bar) {
	m.fast.Update(b)
	m.slow.Update(b)
	m.dea.Update(market.Bar{Time: b.Time, Close: m.fast.Value() - m.slow.Value()})
	m.seen++
}

// Value returns the dif line (fast EMA minus slow EMA).
func (m *MACD) Value() float64 { return m.fast.Value() - m.slow.Value() }

// Signal returns the dea line.
func (m *MACD) Signal() float64 { return m.dea.Value() }
