package indicators

import (
	"fmt"

	"github.com/stratlab/quantsim/market"
)

// SMA is a rolling simple moving average of bar closes.
type SMA struct {
	n    int
	win  *window
	sum  float64
	name string
}

func NewSMA(period int) *SMA {
	if period <= 0 {
		panic("SMA period must be > 0")
	}
	return &SMA{
		n:    period,
		win:  newWindow(period),
		name: fmt.Sprintf("SMA(%d)", period),
	}
}

func (m *SMA) Name() string { return m.name }
func (m *SMA) Warmup() int  { return m.n }
func (m *SMA) Ready() bool  { return m.win.len() == m.n }

func (m *SMA) Reset() {
	m.win.reset()
	m.sum = 0
}

func (m *SMA) Update(b market.Bar) {
	evicted, full := m.win.push(b.Close)
	m.sum += b.Close
	if full {
		m.sum -= evicted
	}
}

func (m *SMA) Value() float64 {
	if !m.Ready() {
		return 0
	}
	return m.sum / float64(m.n)
}

// EMA is an exponential moving average seeded with the first close, matching
// pandas ewm(span=n, adjust=False) after the warm-up period.
type EMA struct {
	n     int
	alpha float64

	seen  int
	value float64
	name  string
}

func NewEMA(period int) *EMA {
	if period <= 0 {
		panic("EMA period must be > 0")
	}
	return &EMA{
		n:     period,
		alpha: 2.0 / float64(period+1),
		name:  fmt.Sprintf("EMA(%d)", period),
	}
}

func (e *EMA) Name() string { return e.name }
func (e *EMA) Warmup() int  { return e.n }
func (e *EMA) Ready() bool  { return e.seen >= e.n }

func (e *EMA) Reset() {
	e.seen = 0
	e.value = 0
}

func (e *EMA) Update(b market.Bar) {
	e.seen++
	if e.seen == 1 {
		e.value = b.Close
		return
	}
	e.value += (b.Close - e.value) * e.alpha
}

func (e *EMA) Value() float64 {
	if e.seen == 0 {
		return 0
	}
	return e.value
}
