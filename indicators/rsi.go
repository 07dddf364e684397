package indicators

import (
	"fmt"
	"math"

	"github.com/stratlab/quantsim/market"
)

// RSI is the relative strength index over a rolling mean of gains and losses
// (Cutler's variant: simple rolling means rather than Wilder smoothing).
type RSI struct {
	n      int
	gains  *window
	losses *window
	gsum   float64
	lsum   float64

	havePrev bool
	prev     float64
	name     string
}

func NewRSI(period int) *RSI {
	if period <= 0 {
		panic("RSI period must be > 0")
	}
	return &RSI{
		n:      period,
		gains:  newWindow(period),
		losses: newWindow(period),
		name:   fmt.Sprintf("RSI(%d)", period),
	}
}

func (r *RSI) Name() string { return r.name }

// Warmup is period+1 bars: one to seed the first delta, period for the window.
func (r *RSI) Warmup() int { return r.n + 1 }

func (r *RSI) Ready() bool { return r.gains.len() == r.n }

func (r *RSI) Reset() {
	r.gains.reset()
	r.losses.reset()
	r.gsum = 0
	r.lsum = 0
	r.havePrev = false
	r.prev = 0
}

func (r *RSI) Update(b market.Bar) {
	if !r.havePrev {
		r.havePrev = true
		r.prev = b.Close
		return
	}

	delta := b.Close - r.prev
	r.prev = b.Close

	gain, loss := 0.0, 0.0
	if delta > 0 {
		gain = delta
	} else if delta < 0 {
		loss = -delta
	}

	if ev, full := r.gains.push(gain); full {
		r.gsum -= ev
	}
	r.gsum += gain
	if ev, full := r.losses.push(loss); full {
		r.lsum -= ev
	}
	r.lsum += loss
}

// Value returns RSI in [0, 100]. A dead-flat window (no gains, no losses)
// yields NaN, which downstream signal coercion treats as no opinion.
func (r *RSI) Value() float64 {
	if !r.Ready() {
		return math.NaN()
	}
	avgGain := r.gsum / float64(r.n)
	avgLoss := r.lsum / float64(r.n)

	if avgLoss == 0 {
		if avgGain == 0 {
			return math.NaN()
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
