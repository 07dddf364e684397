package sim

import (
	"time"

	"github.com/stratlab/quantsim/pkg/id"
)

// Lot is one open position awaiting exit. Owned exclusively by the Ledger
// while open.
type Lot struct {
	ID         string
	EntryPrice float64
	Qty        int
	EntryTime  time.Time

	// EntryBar is the bar index at entry, used for holding-period exits.
	EntryBar int
}

// Trade is the immutable record produced when a lot closes.
type Trade struct {
	ID         string
	EntryPrice float64
	EntryTime  time.Time
	ExitPrice  float64
	ExitTime   time.Time
	Qty        int
	Profit     float64
	Reason     string
}

// MatchPolicy selects which open lot a single close consumes.
type MatchPolicy int8

const (
	// FIFO closes the earliest-opened lot first. The default, and the
	// documented discipline: exit order follows entry order, never
	// best-price or smallest-loss-first, so runs stay deterministic.
	FIFO MatchPolicy = iota

	// LIFO closes the most recently opened lot first.
	LIFO
)

// Ledger holds the ordered collection of open lots. Lots are kept in entry
// order; closes remove them under the configured match policy and hand back
// Trade records.
type Ledger struct {
	policy MatchPolicy
	lots   []*Lot

	openedQty int64
	closedQty int64
}

func NewLedger(policy MatchPolicy) *Ledger {
	return &Ledger{policy: policy}
}

// Len returns the number of open lots.
func (l *Ledger) Len() int { return len(l.lots) }

// Lots exposes the open lots in entry order. Callers must not remove or
// reorder; closing goes through CloseNext/CloseMatching.
func (l *Ledger) Lots() []*Lot { return l.lots }

// OpenedQty and ClosedQty track total quantity ever opened and closed; the
// difference is always the quantity still open.
func (l *Ledger) OpenedQty() int64 { return l.openedQty }
func (l *Ledger) ClosedQty() int64 { return l.closedQty }

// Open appends a new lot. The returned lot stays owned by the ledger.
func (l *Ledger) Open(fillPrice float64, qty int, ts time.Time) (*Lot, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	lot := &Lot{
		ID:         id.New(),
		EntryPrice: fillPrice,
		Qty:        qty,
		EntryTime:  ts,
	}
	l.lots = append(l.lots, lot)
	l.openedQty += int64(qty)
	return lot, nil
}

// CloseNext closes one lot under the match policy at fillPrice. Profit is
// net of the exit commission: proceeds minus the lot's entry cost.
func (l *Ledger) CloseNext(fillPrice float64, ts time.Time, commissionRate float64, reason string) (Trade, error) {
	if len(l.lots) == 0 {
		return Trade{}, ErrEmptyLedger
	}
	i := 0
	if l.policy == LIFO {
		i = len(l.lots) - 1
	}
	tr := l.settle(l.lots[i], fillPrice, ts, commissionRate, reason)
	l.lots = append(l.lots[:i], l.lots[i+1:]...)
	return tr, nil
}

// CloseMatching closes every open lot the predicate accepts, evaluated
// lot-by-lot so each lot's own entry price governs its thresholds. Matches
// are collected first and removed afterwards, preserving entry order among
// the survivors.
func (l *Ledger) CloseMatching(pred func(lot *Lot) bool, fillPrice float64, ts time.Time, commissionRate float64, reason string) []Trade {
	var trades []Trade
	keep := l.lots[:0]
	for _, lot := range l.lots {
		if pred(lot) {
			trades = append(trades, l.settle(lot, fillPrice, ts, commissionRate, reason))
		} else {
			keep = append(keep, lot)
		}
	}
	for i := len(keep); i < len(l.lots); i++ {
		l.lots[i] = nil
	}
	l.lots = keep
	return trades
}

// CloseAll closes every open lot in entry order.
func (l *Ledger) CloseAll(fillPrice float64, ts time.Time, commissionRate float64, reason string) []Trade {
	return l.CloseMatching(func(*Lot) bool { return true }, fillPrice, ts, commissionRate, reason)
}

func (l *Ledger) settle(lot *Lot, fillPrice float64, ts time.Time, commissionRate float64, reason string) Trade {
	proceeds := fillPrice * float64(lot.Qty)
	commission := proceeds * commissionRate
	net := proceeds - commission

	l.closedQty += int64(lot.Qty)

	return Trade{
		ID:         lot.ID,
		EntryPrice: lot.EntryPrice,
		EntryTime:  lot.EntryTime,
		ExitPrice:  fillPrice,
		ExitTime:   ts,
		Qty:        lot.Qty,
		Profit:     net - lot.EntryPrice*float64(lot.Qty),
		Reason:     reason,
	}
}

// NetProceeds returns what a close at fillPrice credits back to capital.
func NetProceeds(fillPrice float64, qty int, commissionRate float64) float64 {
	proceeds := fillPrice * float64(qty)
	return proceeds - proceeds*commissionRate
}
