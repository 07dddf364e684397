// Package config loads and validates run configuration. A config file is
// YAML or JSON; a .env file (or the process environment) can override the
// account numbers, which keeps credentials and machine-local tweaks out of
// committed files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete run configuration.
type Config struct {
	Account   AccountConfig   `json:"account" yaml:"account"`
	Execution ExecutionConfig `json:"execution" yaml:"execution"`
	Risk      RiskConfig      `json:"risk" yaml:"risk"`
	Signals   SignalsConfig   `json:"signals" yaml:"signals"`
	Sweep     SweepConfig     `json:"sweep" yaml:"sweep"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
}

// AccountConfig sets the simulated account and order sizing.
type AccountConfig struct {
	InitialCapital     float64 `json:"initial_capital" yaml:"initial_capital"`
	AllocationFraction float64 `json:"allocation_fraction" yaml:"allocation_fraction"`
	MaxPerTradeCap     float64 `json:"max_per_trade_cap" yaml:"max_per_trade_cap"`
}

// ExecutionConfig sets the fill model.
type ExecutionConfig struct {
	SlippageRate   float64 `json:"slippage_rate" yaml:"slippage_rate"`
	CommissionRate float64 `json:"commission_rate" yaml:"commission_rate"`
}

// RiskConfig sets the per-lot exit rules.
type RiskConfig struct {
	TakeProfitPct  float64 `json:"take_profit_pct" yaml:"take_profit_pct"`
	StopLossPct    float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	MaxHoldingBars int     `json:"max_holding_bars" yaml:"max_holding_bars"`
	CloseEndOfRun  bool    `json:"close_end_of_run" yaml:"close_end_of_run"`
}

// SignalsConfig selects and parameterizes the signal sources.
type SignalsConfig struct {
	Enabled []string `json:"enabled" yaml:"enabled"`

	FastMA    int     `json:"fast_ma" yaml:"fast_ma"`
	SlowMA    int     `json:"slow_ma" yaml:"slow_ma"`
	RSIPeriod int     `json:"rsi_period" yaml:"rsi_period"`
	RSIBuy    float64 `json:"rsi_buy" yaml:"rsi_buy"`
	RSISell   float64 `json:"rsi_sell" yaml:"rsi_sell"`
}

// SweepConfig is the parameter grid for tuning runs.
type SweepConfig struct {
	Workers int `json:"workers" yaml:"workers"`

	FastMA  []int     `json:"fast_ma" yaml:"fast_ma"`
	SlowMA  []int     `json:"slow_ma" yaml:"slow_ma"`
	RSIBuy  []float64 `json:"rsi_buy" yaml:"rsi_buy"`
	RSISell []float64 `json:"rsi_sell" yaml:"rsi_sell"`

	TakeProfitPct []float64 `json:"take_profit_pct" yaml:"take_profit_pct"`
	StopLossPct   []float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
}

// JournalConfig selects trade persistence.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a YAML or JSON file, then applies
// environment overrides and validates.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadEnv reads a .env file if present. Missing files are fine; explicit
// environment variables always win over file contents.
func LoadEnv() {
	_ = godotenv.Load()
}

// applyEnv overrides account numbers from QUANTSIM_* variables.
func (c *Config) applyEnv() {
	if v, ok := lookupFloat("QUANTSIM_INITIAL_CAPITAL"); ok {
		c.Account.InitialCapital = v
	}
	if v, ok := lookupFloat("QUANTSIM_ALLOCATION_FRACTION"); ok {
		c.Account.AllocationFraction = v
	}
	if v, ok := lookupFloat("QUANTSIM_MAX_PER_TRADE_CAP"); ok {
		c.Account.MaxPerTradeCap = v
	}
	if v := os.Getenv("QUANTSIM_DB_PATH"); v != "" {
		c.Journal.DBPath = v
	}
}

func lookupFloat(key string) (float64, bool) {
	s := os.Getenv(key)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SaveToFile writes the configuration as YAML (.yaml/.yml) or indented JSON.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration before any run starts.
func (c *Config) Validate() error {
	if c.Account.InitialCapital <= 0 {
		return fmt.Errorf("account.initial_capital must be positive")
	}
	if c.Account.AllocationFraction <= 0 || c.Account.AllocationFraction > 1 {
		return fmt.Errorf("account.allocation_fraction must be in (0, 1]")
	}
	if c.Account.MaxPerTradeCap < 0 {
		return fmt.Errorf("account.max_per_trade_cap must be >= 0 (0 = unlimited)")
	}
	if c.Execution.SlippageRate < 0 || c.Execution.CommissionRate < 0 {
		return fmt.Errorf("execution rates must be >= 0")
	}
	if c.Risk.TakeProfitPct < 0 || c.Risk.StopLossPct < 0 {
		return fmt.Errorf("risk percentages must be >= 0")
	}
	if c.Risk.MaxHoldingBars < 0 {
		return fmt.Errorf("risk.max_holding_bars must be >= 0 (0 = disabled)")
	}
	if c.Signals.FastMA > 0 && c.Signals.SlowMA > 0 && c.Signals.FastMA >= c.Signals.SlowMA {
		return fmt.Errorf("signals.fast_ma must be below signals.slow_ma")
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for csv type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	default:
		return fmt.Errorf("journal.type must be none, csv or sqlite")
	}
	return nil
}

// Default returns a configuration with the conventional settings.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			InitialCapital:     100_000,
			AllocationFraction: 0.3,
			MaxPerTradeCap:     20_000,
		},
		Execution: ExecutionConfig{
			SlippageRate:   0.001,
			CommissionRate: 0.001,
		},
		Risk: RiskConfig{
			TakeProfitPct: 0.05,
			StopLossPct:   0.02,
		},
		Signals: SignalsConfig{
			Enabled:   []string{"ma", "macd", "rsi"},
			FastMA:    5,
			SlowMA:    20,
			RSIPeriod: 14,
			RSIBuy:    30,
			RSISell:   70,
		},
		Sweep: SweepConfig{
			Workers: 4,
			FastMA:  []int{3, 5, 8},
			SlowMA:  []int{10, 20, 30},
			RSIBuy:  []float64{20, 25, 30, 35},
			RSISell: []float64{60, 65, 70, 75, 80},

			TakeProfitPct: []float64{0.05, 0.08},
			StopLossPct:   []float64{0.02, 0.03},
		},
		Journal: JournalConfig{
			Type: "none",
		},
	}
}
