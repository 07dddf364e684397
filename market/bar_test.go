package market

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignalString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "BUY", Buy.String())
	assert.Equal(t, "SELL", Sell.String())
	assert.Equal(t, "NONE", None.String())
}

func TestSignalFromFloat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Buy, SignalFromFloat(1))
	assert.Equal(t, Sell, SignalFromFloat(-1))
	assert.Equal(t, None, SignalFromFloat(0))
	assert.Equal(t, None, SignalFromFloat(0.5))
	assert.Equal(t, None, SignalFromFloat(math.NaN()))
	assert.Equal(t, None, SignalFromFloat(math.Inf(1)))
	assert.Equal(t, None, SignalFromFloat(math.Inf(-1)))
}

func TestBarValid(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.True(t, Bar{Time: ts, Close: 101.5}.Valid())
	assert.False(t, Bar{Close: 101.5}.Valid(), "zero timestamp")
	assert.False(t, Bar{Time: ts, Close: math.NaN()}.Valid())
	assert.False(t, Bar{Time: ts, Close: math.Inf(1)}.Valid())
	assert.False(t, Bar{Time: ts, Close: 0}.Valid())
	assert.False(t, Bar{Time: ts, Close: -3}.Valid())
}

func TestBarSetOrdersByTime(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	set := NewBarSet("AAPL", []Bar{
		{Time: t0.Add(2 * time.Minute), Close: 3},
		{Time: t0, Close: 1},
		{Time: t0.Add(time.Minute), Close: 2},
	})

	assert.Equal(t, 3, set.Len())
	assert.Equal(t, 1.0, set.At(0).Close)
	assert.Equal(t, 2.0, set.At(1).Close)
	assert.Equal(t, 3.0, set.At(2).Close)
}

func TestBarSetSignals(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	set := NewBarSet("AAPL", []Bar{
		{Time: t0, Close: 1},
		{Time: t0.Add(time.Minute), Close: 2},
	})

	assert.NoError(t, set.AttachSignals("ma", []Signal{Buy, Sell}))
	assert.Error(t, set.AttachSignals("rsi", []Signal{Buy}), "misaligned column")

	assert.Equal(t, Buy, set.Signal("ma", 0))
	assert.Equal(t, Sell, set.Signal("ma", 1))
	assert.Equal(t, None, set.Signal("ma", 99), "out of range reads as no opinion")
	assert.Equal(t, None, set.Signal("nope", 0), "unknown source reads as no opinion")

	assert.Equal(t, map[string]Signal{"ma": Sell}, set.SignalsAt(1))
	assert.Equal(t, []string{"ma"}, set.SignalNames())
}
