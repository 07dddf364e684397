package indicators

import (
	"fmt"
	"math"

	"github.com/stratlab/quantsim/market"
)

// Bollinger computes the classic mid/upper/lower bands: a rolling SMA plus
// and minus k standard deviations.
type Bollinger struct {
	n   int
	k   float64
	win *window

	name string
}

func NewBollinger(period int, k float64) *Bollinger {
	if period <= 1 {
		panic("Bollinger period must be > 1")
	}
	if k <= 0 {
		panic("Bollinger k must be > 0")
	}
	return &Bollinger{
		n:    period,
		k:    k,
		win:  newWindow(period),
		name: fmt.Sprintf("BOLL(%d,%g)", period, k),
	}
}

func (bb *Bollinger) Name() string { return bb.name }
func (bb *Bollinger) Warmup() int  { return bb.n }
func (bb *Bollinger) Ready() bool  { return bb.win.len() == bb.n }

func (bb *Bollinger) Reset() { bb.win.reset() }

func (bb *Bollinger) Update(b market.Bar) { bb.win.push(b.Close) }

// Value returns the mid band.
func (bb *Bollinger) Value() float64 {
	mid, _ := bb.stats()
	return mid
}

func (bb *Bollinger) Upper() float64 {
	mid, sd := bb.stats()
	return mid + bb.k*sd
}

func (bb *Bollinger) Lower() float64 {
	mid, sd := bb.stats()
	return mid - bb.k*sd
}

func (bb *Bollinger) stats() (mean, stddev float64) {
	if !bb.Ready() {
		return 0, 0
	}
	var sum float64
	bb.win.each(func(v float64) { sum += v })
	mean = sum / float64(bb.n)

	var ss float64
	bb.win.each(func(v float64) {
		d := v - mean
		ss += d * d
	})
	return mean, math.Sqrt(ss / float64(bb.n))
}
