package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stratlab/quantsim/market"
)

func feed(ind Indicator, closes ...float64) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		ind.Update(market.Bar{Time: t0.Add(time.Duration(i) * time.Minute), Close: c})
	}
}

func TestSMA(t *testing.T) {
	t.Parallel()

	m := NewSMA(3)
	assert.Equal(t, "SMA(3)", m.Name())
	assert.Equal(t, 3, m.Warmup())

	feed(m, 1, 2)
	assert.False(t, m.Ready())

	feed(m, 3)
	assert.True(t, m.Ready())
	assert.InDelta(t, 2.0, m.Value(), 1e-12)

	feed(m, 10)
	assert.InDelta(t, 5.0, m.Value(), 1e-12, "window slides")

	m.Reset()
	assert.False(t, m.Ready())
}

func TestEMAMatchesRecurrence(t *testing.T) {
	t.Parallel()

	e := NewEMA(3)
	feed(e, 10, 11, 12, 13)

	// Seeded with first close, alpha = 2/(n+1) = 0.5.
	want := 10.0
	for _, c := range []float64{11, 12, 13} {
		want += (c - want) * 0.5
	}
	assert.True(t, e.Ready())
	assert.InDelta(t, want, e.Value(), 1e-12)
}

func TestRSIExtremes(t *testing.T) {
	t.Parallel()

	up := NewRSI(3)
	feed(up, 1, 2, 3, 4)
	assert.True(t, up.Ready())
	assert.InDelta(t, 100, up.Value(), 1e-9, "all gains")

	down := NewRSI(3)
	feed(down, 4, 3, 2, 1)
	assert.True(t, down.Ready())
	assert.InDelta(t, 0, down.Value(), 1e-9, "all losses")

	flat := NewRSI(3)
	feed(flat, 5, 5, 5, 5)
	assert.True(t, flat.Ready())
	assert.True(t, math.IsNaN(flat.Value()), "flat window has no opinion")
}

func TestRSIWarmup(t *testing.T) {
	t.Parallel()

	r := NewRSI(14)
	assert.Equal(t, 15, r.Warmup())

	feed(r, 10, 11, 12)
	assert.False(t, r.Ready())
	assert.True(t, math.IsNaN(r.Value()))
}

func TestRSIBalanced(t *testing.T) {
	t.Parallel()

	r := NewRSI(4)
	feed(r, 10, 11, 10, 11, 10)
	// gains = [1,0,1,0], losses = [0,1,0,1] -> rs = 1 -> rsi = 50
	assert.True(t, r.Ready())
	assert.InDelta(t, 50, r.Value(), 1e-9)
}

func TestMACDCrossesUpOnTrendReversal(t *testing.T) {
	t.Parallel()

	m := NewMACD(3, 6, 3)
	assert.Equal(t, "MACD(3,6,3)", m.Name())

	// Downtrend then sharp uptrend: dif must move from below dea to above.
	feed(m, 50, 48, 46, 44, 42, 40, 38)
	assert.True(t, m.Ready())
	assert.Less(t, m.Value(), m.Signal(), "dif below dea in a downtrend")

	feed(m, 45, 52, 60, 68)
	assert.Greater(t, m.Value(), m.Signal(), "dif above dea after reversal")
}

func TestBollingerBands(t *testing.T) {
	t.Parallel()

	bb := NewBollinger(4, 2)
	feed(bb, 10, 12, 14, 16)

	assert.True(t, bb.Ready())
	assert.InDelta(t, 13, bb.Value(), 1e-12)

	// Population stddev of {10,12,14,16} = sqrt(5).
	sd := math.Sqrt(5)
	assert.InDelta(t, 13+2*sd, bb.Upper(), 1e-12)
	assert.InDelta(t, 13-2*sd, bb.Lower(), 1e-12)
	assert.Less(t, bb.Lower(), bb.Value())
}
