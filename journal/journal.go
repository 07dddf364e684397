// Package journal persists realized trades and equity points so a run can
// be inspected after the fact. The engine writes through the Journal
// interface and never cares which backend is behind it.
package journal

import "time"

// TradeRecord is one realized entry/exit pair as the engine reports it.
type TradeRecord struct {
	RunID      string
	TradeID    string
	Symbol     string
	Qty        int
	EntryPrice float64
	ExitPrice  float64
	EntryTime  time.Time
	ExitTime   time.Time
	Profit     float64
	Reason     string
}

// EquityPoint is one capital snapshot, recorded per realized trade.
type EquityPoint struct {
	RunID  string
	Time   time.Time
	Equity float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquityPoint) error
	Close() error
}

// Nop discards everything; handy default when persistence is not wanted.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error { return nil }
func (Nop) RecordEquity(EquityPoint) error { return nil }
func (Nop) Close() error                  { return nil }
