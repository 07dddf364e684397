package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratlab/quantsim/market"
	"github.com/stratlab/quantsim/sim"
	"github.com/stratlab/quantsim/strategies"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run one backtest against a bar CSV",
	Long: `Backtest replays a bar CSV (time,open,high,low,close,volume) through the
simulation engine. Gzip, xz and zip compressed files are read transparently.

Signal sources vote per bar; any enabled buy opens a position and any enabled
sell closes everything, with sell winning a tie. Take-profit, stop-loss and
holding-period exits are checked on every bar.

Example:
  quantsim backtest --bars data/AAPL.csv --symbol AAPL --sources ma,rsi --db runs.sqlite`,
	RunE: runBacktest,
}

var (
	btBarsPath   string
	btSymbol     string
	btConfigPath string
	btCapital    float64
	btAlloc      float64
	btCap        float64
	btTakeProfit float64
	btStopLoss   float64
	btMaxHold    int
	btSlippage   float64
	btCommission float64
	btSources    []string
	btFast       int
	btSlow       int
	btLIFO       bool
	btCloseEnd   bool
	btDBPath     string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btBarsPath, "bars", "t", "", "path to bar CSV (required)")
	backtestCmd.Flags().StringVarP(&btSymbol, "symbol", "i", "SIM", "symbol label for reporting")
	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "config file (YAML or JSON); flags override it")

	backtestCmd.Flags().Float64VarP(&btCapital, "capital", "b", 100_000, "starting capital")
	backtestCmd.Flags().Float64Var(&btAlloc, "alloc", 0.3, "fraction of capital allocated per entry")
	backtestCmd.Flags().Float64Var(&btCap, "cap", 20_000, "per-trade budget cap (0 = unlimited)")
	backtestCmd.Flags().Float64Var(&btTakeProfit, "tp", 0.05, "take-profit fraction (0 = disabled)")
	backtestCmd.Flags().Float64Var(&btStopLoss, "sl", 0.02, "stop-loss fraction (0 = disabled)")
	backtestCmd.Flags().IntVar(&btMaxHold, "max-hold", 0, "max holding period in bars (0 = disabled)")
	backtestCmd.Flags().Float64Var(&btSlippage, "slippage", 0.001, "slippage rate applied to fills")
	backtestCmd.Flags().Float64Var(&btCommission, "commission", 0.001, "commission rate applied to fills")
	backtestCmd.Flags().StringSliceVarP(&btSources, "sources", "s", nil, "signal sources to enable (default: all)")
	backtestCmd.Flags().IntVar(&btFast, "fast", 5, "fast moving-average period")
	backtestCmd.Flags().IntVar(&btSlow, "slow", 20, "slow moving-average period")
	backtestCmd.Flags().BoolVar(&btLIFO, "lifo", false, "close most recent lots first instead of oldest")
	backtestCmd.Flags().BoolVar(&btCloseEnd, "close-end", false, "close open lots at the final bar")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "", "record trades to this SQLite journal")

	backtestCmd.MarkFlagRequired("bars")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(btConfigPath)
	if err != nil {
		return err
	}

	simCfg := simConfig(cfg)
	params := simParams(cfg)

	// Flags the user actually set override the config file.
	flagOverrides := map[string]func(){
		"capital":    func() { simCfg.InitialCapital = btCapital },
		"alloc":      func() { simCfg.AllocationFraction = btAlloc },
		"cap":        func() { simCfg.MaxPerTradeCap = btCap },
		"tp":         func() { simCfg.TakeProfitPct = btTakeProfit },
		"sl":         func() { simCfg.StopLossPct = btStopLoss },
		"max-hold":   func() { simCfg.MaxHoldingBars = btMaxHold },
		"slippage":   func() { simCfg.SlippageRate = btSlippage },
		"commission": func() { simCfg.CommissionRate = btCommission },
		"sources":    func() { simCfg.Sources = btSources },
		"close-end":  func() { simCfg.CloseEndOfRun = btCloseEnd },
		"fast":       func() { params.FastMA = btFast },
		"slow":       func() { params.SlowMA = btSlow },
	}
	for name, apply := range flagOverrides {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	if btLIFO {
		simCfg.Matching = sim.LIFO
	}

	set, err := market.LoadCSV(btSymbol, btBarsPath)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	sources, err := buildSources(simCfg.Sources, params)
	if err != nil {
		return err
	}
	if err := strategies.Annotate(set, sources...); err != nil {
		return fmt.Errorf("annotate signals: %w", err)
	}

	jnlCfg := cfg.Journal
	if cmd.Flags().Changed("db") {
		jnlCfg.Type = "sqlite"
		jnlCfg.DBPath = btDBPath
	}
	jnl, closeJournal, err := buildJournal(jnlCfg)
	if err != nil {
		return err
	}
	defer closeJournal()

	eng, err := sim.NewEngine(simCfg, sim.WithJournal(jnl), sim.WithLogger(logger()))
	if err != nil {
		return err
	}

	fmt.Printf("Running backtest: %s (%d bars)\n", btSymbol, set.Len())
	fmt.Printf("  Sources: %v\n", set.SignalNames())

	res, err := eng.Run(set)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	printResult(res)
	return nil
}
