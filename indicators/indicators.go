// Package indicators provides streaming technical indicators over bar closes.
package indicators

import "github.com/stratlab/quantsim/market"

// Indicator consumes closed bars one at a time and exposes a current value.
// Deterministic, allocation-light, safe to reuse across backtest runs after
// Reset.
type Indicator interface {
	// Name returns a stable identifier like "SMA(20)" or "RSI(14)".
	Name() string

	// Warmup returns how many bars are needed before Ready can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next closed bar.
	Update(b market.Bar)

	// Ready reports whether Value is meaningful (warm-up completed).
	Ready() bool

	// Value returns the current indicator value. Callers should always
	// check Ready first.
	Value() float64
}

// window is a fixed-size ring of recent values shared by the rolling
// indicators.
type window struct {
	buf  []float64
	head int
	n    int
}

func newWindow(size int) *window {
	return &window{buf: make([]float64, size)}
}

func (w *window) push(v float64) (evicted float64, full bool) {
	if w.n == len(w.buf) {
		evicted = w.buf[w.head]
		full = true
	} else {
		w.n++
	}
	w.buf[w.head] = v
	w.head = (w.head + 1) % len(w.buf)
	return evicted, full
}

func (w *window) len() int { return w.n }

func (w *window) reset() {
	w.head = 0
	w.n = 0
}

// each visits the window's values, oldest first.
func (w *window) each(fn func(v float64)) {
	start := w.head - w.n
	if start < 0 {
		start += len(w.buf)
	}
	for i := 0; i < w.n; i++ {
		fn(w.buf[(start+i)%len(w.buf)])
	}
}
