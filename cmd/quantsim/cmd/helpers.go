package cmd

import (
	"fmt"

	"github.com/stratlab/quantsim/config"
	"github.com/stratlab/quantsim/journal"
	"github.com/stratlab/quantsim/sim"
	"github.com/stratlab/quantsim/strategies"
)

// loadConfig returns the defaults when no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{
		InitialCapital:     cfg.Account.InitialCapital,
		AllocationFraction: cfg.Account.AllocationFraction,
		MaxPerTradeCap:     cfg.Account.MaxPerTradeCap,
		TakeProfitPct:      cfg.Risk.TakeProfitPct,
		StopLossPct:        cfg.Risk.StopLossPct,
		MaxHoldingBars:     cfg.Risk.MaxHoldingBars,
		CloseEndOfRun:      cfg.Risk.CloseEndOfRun,
		SlippageRate:       cfg.Execution.SlippageRate,
		CommissionRate:     cfg.Execution.CommissionRate,
		Sources:            cfg.Signals.Enabled,
	}
}

func simParams(cfg *config.Config) strategies.Params {
	p := strategies.DefaultParams()
	if cfg.Signals.FastMA > 0 {
		p.FastMA = cfg.Signals.FastMA
	}
	if cfg.Signals.SlowMA > 0 {
		p.SlowMA = cfg.Signals.SlowMA
	}
	if cfg.Signals.RSIPeriod > 0 {
		p.RSIPeriod = cfg.Signals.RSIPeriod
	}
	if cfg.Signals.RSIBuy > 0 {
		p.RSIBuy = cfg.Signals.RSIBuy
	}
	if cfg.Signals.RSISell > 0 {
		p.RSISell = cfg.Signals.RSISell
	}
	return p
}

// buildSources constructs one signal source per enabled name.
func buildSources(names []string, p strategies.Params) ([]strategies.Source, error) {
	if len(names) == 0 {
		names = strategies.Names()
	}
	sources := make([]strategies.Source, 0, len(names))
	for _, name := range names {
		src, err := strategies.New(name, p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// buildJournal opens the configured journal. The returned closer is always
// safe to defer.
func buildJournal(cfg config.JournalConfig) (journal.Journal, func(), error) {
	switch cfg.Type {
	case "", "none":
		return journal.Nop{}, func() {}, nil
	case "csv":
		j, err := journal.NewCSV(cfg.TradesFile, cfg.EquityFile)
		if err != nil {
			return nil, nil, fmt.Errorf("open csv journal: %w", err)
		}
		return j, func() { _ = j.Close() }, nil
	case "sqlite":
		j, err := journal.NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite journal: %w", err)
		}
		return j, func() { _ = j.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}

func printResult(res sim.Result) {
	s := res.Summary
	fmt.Printf("\nBacktest Complete! (%s)\n", res.Symbol)
	fmt.Printf("  Trades: %d (%d wins / %d losses, %.1f%% win rate)\n",
		s.TradeCount, s.Wins, s.Losses, s.WinRate*100)
	fmt.Printf("  Total Profit: $%.2f\n", s.TotalProfit)
	fmt.Printf("  Final Equity: $%.2f\n", s.FinalEquity)
	fmt.Printf("  Max Drawdown: %.2f%%\n", s.MaxDrawdown*100)
	fmt.Printf("  Risk-Adjusted Return: %.3f\n", s.Sharpe)
	if res.OpenLots > 0 {
		fmt.Printf("  Open Lots: %d (capital $%.2f still deployed)\n",
			res.OpenLots, s.FinalEquity-res.FinalCapital)
	}
}
