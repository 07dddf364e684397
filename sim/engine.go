// Package sim is the event-driven backtest core: it walks a bar series,
// merges signal-source opinions into decisions, runs a FIFO lot ledger under
// take-profit/stop-loss/holding-period exit rules, applies slippage and
// commission to every fill, and hands the realized trade sequence to
// analytics.
package sim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/stratlab/quantsim/analytics"
	"github.com/stratlab/quantsim/journal"
	"github.com/stratlab/quantsim/market"
)

// Config is everything one run needs. It is passed by value into NewEngine
// so concurrent sweep tasks can never interfere through shared settings.
type Config struct {
	InitialCapital     float64
	AllocationFraction float64

	// MaxPerTradeCap caps the budget of a single entry. 0 means unlimited.
	MaxPerTradeCap float64

	TakeProfitPct float64
	StopLossPct   float64

	// MaxHoldingBars closes a lot after this many bars. 0 disables.
	MaxHoldingBars int

	SlippageRate   float64
	CommissionRate float64

	// Sources restricts which signal columns the aggregator listens to.
	// Empty means every attached column.
	Sources []string

	Matching MatchPolicy

	// CloseEndOfRun closes any still-open lots at the final valid bar.
	// Off by default: positions that never met an exit rule stay open and
	// are reported as such.
	CloseEndOfRun bool

	// SharpeScale overrides the sqrt(N) scaling of the risk-adjusted
	// ratio. 0 keeps the default.
	SharpeScale float64
}

// Validate rejects configurations before the loop starts; nothing inside
// the loop is allowed to abort a run.
func (c Config) Validate() error {
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be positive, got %g", c.InitialCapital)
	}
	if c.AllocationFraction <= 0 || c.AllocationFraction > 1 {
		return fmt.Errorf("allocation fraction must be in (0, 1], got %g", c.AllocationFraction)
	}
	if c.MaxPerTradeCap < 0 {
		return fmt.Errorf("max per-trade cap must be >= 0, got %g", c.MaxPerTradeCap)
	}
	if c.TakeProfitPct < 0 || c.StopLossPct < 0 {
		return fmt.Errorf("take-profit and stop-loss percentages must be >= 0")
	}
	if c.MaxHoldingBars < 0 {
		return fmt.Errorf("max holding bars must be >= 0, got %d", c.MaxHoldingBars)
	}
	if c.SlippageRate < 0 || c.CommissionRate < 0 {
		return fmt.Errorf("slippage and commission rates must be >= 0")
	}
	return nil
}

// Result is what one run exposes: the ordered trade sequence, the equity
// curve derived from it, and the analytics summary.
type Result struct {
	Symbol      string
	Trades      []Trade
	EquityCurve []float64
	Summary     analytics.Summary

	// FinalCapital is available capital at the end of the run. It differs
	// from Summary.FinalEquity when lots remain open.
	FinalCapital float64
	OpenLots     int
}

// Engine runs one configuration against one bar series. A single run is
// strictly sequential; parallelism belongs across independent engines.
type Engine struct {
	cfg  Config
	fill FillModel
	gate Gate
	agg  *Aggregator

	ledger  *Ledger
	symbol  string
	capital float64
	equity  float64
	trades  []Trade
	barIdx  int

	jnl journal.Journal
	log *zap.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithJournal records every realized trade and equity point to j.
func WithJournal(j journal.Journal) Option {
	return func(e *Engine) { e.jnl = j }
}

// WithLogger routes diagnostics (skipped bars, coerced arithmetic) to log.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim config: %w", err)
	}
	e := &Engine{
		cfg:  cfg,
		fill: FillModel{SlippageRate: cfg.SlippageRate, CommissionRate: cfg.CommissionRate},
		gate: Gate{
			TakeProfitPct:  cfg.TakeProfitPct,
			StopLossPct:    cfg.StopLossPct,
			MaxHoldingBars: cfg.MaxHoldingBars,
		},
		agg: NewAggregator(AnyEnabled, cfg.Sources),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// gateExitOrder is the priority in which risk-gate exits are applied when
// several would fire on the same bar.
var gateExitOrder = [...]ExitReason{TakeProfit, StopLoss, Timeout}

// Run executes the full bar sequence. Per bar, in fixed order: aggregate the
// signal decision, apply a sell decision to every open lot, evaluate the
// risk gate on the survivors, then consider a buy entry with the capital the
// same bar's exits just freed. Bars without usable prices are skipped
// entirely.
func (e *Engine) Run(set *market.BarSet) (Result, error) {
	if set == nil || set.Len() == 0 {
		return Result{}, fmt.Errorf("sim: empty bar set")
	}

	e.ledger = NewLedger(e.cfg.Matching)
	e.symbol = set.Symbol
	e.capital = e.cfg.InitialCapital
	e.equity = e.cfg.InitialCapital
	e.trades = nil

	lastValid := -1

	for i := 0; i < set.Len(); i++ {
		b := set.At(i)
		if !b.Valid() {
			e.log.Debug("skipping bar with unusable price data",
				zap.String("symbol", set.Symbol), zap.Int("bar", i))
			continue
		}
		e.barIdx = i
		lastValid = i

		decision := e.agg.Decide(set.SignalsAt(i))

		if decision == DecideSell && e.ledger.Len() > 0 {
			exitPx := e.fill.Fill(b.Close, SideSell)
			e.credit(e.ledger.CloseAll(exitPx, b.Time, e.cfg.CommissionRate, "SignalSell"))
		}

		e.applyGate(b)

		if decision == DecideBuy {
			e.enter(b)
		}
	}

	if e.cfg.CloseEndOfRun && e.ledger.Len() > 0 && lastValid >= 0 {
		b := set.At(lastValid)
		exitPx := e.fill.Fill(b.Close, SideSell)
		e.credit(e.ledger.CloseAll(exitPx, b.Time, e.cfg.CommissionRate, "EndOfData"))
	}

	profits := make([]float64, len(e.trades))
	for i, tr := range e.trades {
		profits[i] = tr.Profit
	}

	return Result{
		Symbol:       set.Symbol,
		Trades:       e.trades,
		EquityCurve:  analytics.EquityCurve(profits, e.cfg.InitialCapital),
		Summary:      analytics.Summarize(profits, e.cfg.InitialCapital, e.cfg.SharpeScale),
		FinalCapital: e.capital,
		OpenLots:     e.ledger.Len(),
	}, nil
}

// applyGate closes every lot whose exit rule fires, in priority order, so a
// take-profit is never reported as a timeout.
func (e *Engine) applyGate(b market.Bar) {
	if e.ledger.Len() == 0 {
		return
	}
	exitPx := e.fill.Fill(b.Close, SideSell)
	for _, want := range gateExitOrder {
		if e.ledger.Len() == 0 {
			return
		}
		trs := e.ledger.CloseMatching(func(lot *Lot) bool {
			return e.gate.Evaluate(lot, b.Close, e.barIdx-lot.EntryBar) == want
		}, exitPx, b.Time, e.cfg.CommissionRate, want.String())
		e.credit(trs)
	}
}

// enter sizes and opens a new lot if the decision and remaining capital
// allow. Quantity is the largest integer the budget buys at the entry fill
// price, shrunk if cost plus commission would overdraw capital.
func (e *Engine) enter(b market.Bar) {
	budget := e.capital * e.cfg.AllocationFraction
	if e.cfg.MaxPerTradeCap > 0 && budget > e.cfg.MaxPerTradeCap {
		budget = e.cfg.MaxPerTradeCap
	}

	px := e.fill.Fill(b.Close, SideBuy)
	if !finite(px) || px <= 0 {
		e.log.Debug("entry price is not usable, no entry",
			zap.String("symbol", e.symbol), zap.Float64("price", px))
		return
	}

	qty := int(budget / px)
	if qty <= 0 {
		return
	}
	if cost := px*float64(qty) + e.fill.Commission(px, qty); cost > e.capital {
		// Commission on a full-allocation entry would overdraw; shrink.
		qty = int(e.capital / (px * (1 + e.cfg.CommissionRate)))
		if qty <= 0 {
			return
		}
	}

	lot, err := e.ledger.Open(px, qty, b.Time)
	if err != nil {
		// Unreachable with qty > 0; a caller bug, not a run failure.
		e.log.Warn("entry rejected", zap.Error(err))
		return
	}
	lot.EntryBar = e.barIdx
	e.capital -= px*float64(qty) + e.fill.Commission(px, qty)

	e.log.Debug("opened lot",
		zap.String("symbol", e.symbol),
		zap.String("lot", lot.ID),
		zap.Int("qty", qty),
		zap.Float64("price", px),
		zap.Float64("capital", e.capital))
}

// credit applies realized trades to capital, the running equity, and the
// journal.
func (e *Engine) credit(trades []Trade) {
	for _, tr := range trades {
		e.capital += NetProceeds(tr.ExitPrice, tr.Qty, e.cfg.CommissionRate)
		e.equity += tr.Profit
		e.trades = append(e.trades, tr)

		if e.jnl != nil {
			if err := e.jnl.RecordTrade(journal.TradeRecord{
				TradeID:    tr.ID,
				Symbol:     e.symbol,
				EntryPrice: tr.EntryPrice,
				ExitPrice:  tr.ExitPrice,
				EntryTime:  tr.EntryTime,
				ExitTime:   tr.ExitTime,
				Qty:        tr.Qty,
				Profit:     tr.Profit,
				Reason:     tr.Reason,
			}); err != nil {
				e.log.Warn("journal trade failed", zap.Error(err))
			}
			if err := e.jnl.RecordEquity(journal.EquityPoint{
				Time:   tr.ExitTime,
				Equity: e.equity,
			}); err != nil {
				e.log.Warn("journal equity failed", zap.Error(err))
			}
		}

		e.log.Debug("closed lot",
			zap.String("lot", tr.ID),
			zap.String("reason", tr.Reason),
			zap.Float64("profit", tr.Profit),
			zap.Float64("capital", e.capital))
	}
}
