package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateTakeProfit(t *testing.T) {
	t.Parallel()

	g := Gate{TakeProfitPct: 0.05}
	lot := &Lot{EntryPrice: 100, Qty: 10}

	assert.Equal(t, TakeProfit, g.Evaluate(lot, 105, 0), "threshold touch fires")
	assert.Equal(t, TakeProfit, g.Evaluate(lot, 106, 0))
	assert.Equal(t, NoExit, g.Evaluate(lot, 104.99, 0))
}

func TestGateStopLossBoundary(t *testing.T) {
	t.Parallel()

	g := Gate{StopLossPct: 0.02}
	lot := &Lot{EntryPrice: 100, Qty: 10}

	assert.Equal(t, StopLoss, g.Evaluate(lot, 97.9, 0))
	assert.Equal(t, StopLoss, g.Evaluate(lot, 97.99, 0))
	assert.Equal(t, NoExit, g.Evaluate(lot, 98.0, 0), "exact threshold does not fire")
	assert.Equal(t, NoExit, g.Evaluate(lot, 98.1, 0))
}

func TestGateTimeout(t *testing.T) {
	t.Parallel()

	g := Gate{MaxHoldingBars: 5}
	lot := &Lot{EntryPrice: 100, Qty: 10}

	assert.Equal(t, NoExit, g.Evaluate(lot, 100, 4))
	assert.Equal(t, Timeout, g.Evaluate(lot, 100, 5))
	assert.Equal(t, Timeout, g.Evaluate(lot, 100, 9))
}

func TestGateTimeoutDisabled(t *testing.T) {
	t.Parallel()

	g := Gate{}
	lot := &Lot{EntryPrice: 100, Qty: 10}
	assert.Equal(t, NoExit, g.Evaluate(lot, 100, 1_000_000))
}

func TestGatePriceExitOutranksTimeout(t *testing.T) {
	t.Parallel()

	g := Gate{TakeProfitPct: 0.05, StopLossPct: 0.02, MaxHoldingBars: 3}
	lot := &Lot{EntryPrice: 100, Qty: 10}

	assert.Equal(t, TakeProfit, g.Evaluate(lot, 110, 10))
	assert.Equal(t, StopLoss, g.Evaluate(lot, 90, 10))
	assert.Equal(t, Timeout, g.Evaluate(lot, 100, 10), "timeout only when prices are quiet")
}

func TestGateNonFiniteInputs(t *testing.T) {
	t.Parallel()

	g := Gate{TakeProfitPct: 0.05, StopLossPct: 0.02}

	assert.Equal(t, NoExit, g.Evaluate(nil, 100, 0))
	assert.Equal(t, NoExit, g.Evaluate(&Lot{EntryPrice: 100}, math.NaN(), 0))
	assert.Equal(t, NoExit, g.Evaluate(&Lot{EntryPrice: 100}, math.Inf(1), 0))
	assert.Equal(t, NoExit, g.Evaluate(&Lot{EntryPrice: 0}, 50, 0), "zero entry cannot divide")
	assert.Equal(t, NoExit, g.Evaluate(&Lot{EntryPrice: math.NaN()}, 50, 0))
}

func TestGateDisabledThresholds(t *testing.T) {
	t.Parallel()

	g := Gate{}
	lot := &Lot{EntryPrice: 100, Qty: 10}

	assert.Equal(t, NoExit, g.Evaluate(lot, 1000, 0))
	assert.Equal(t, NoExit, g.Evaluate(lot, 1, 0))
}

func TestExitReasonString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TakeProfit", TakeProfit.String())
	assert.Equal(t, "StopLoss", StopLoss.String())
	assert.Equal(t, "Timeout", Timeout.String())
	assert.Equal(t, "None", NoExit.String())
}
