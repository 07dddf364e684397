package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100_000.0, cfg.Account.InitialCapital)
	assert.Contains(t, cfg.Signals.Enabled, "ma")
}

func TestLoadFromFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
account:
  initial_capital: 50000
  allocation_fraction: 0.5
  max_per_trade_cap: 10000
execution:
  slippage_rate: 0.002
  commission_rate: 0.001
risk:
  take_profit_pct: 0.08
  stop_loss_pct: 0.03
  max_holding_bars: 10
signals:
  enabled: [ma, rsi]
  fast_ma: 5
  slow_ma: 20
journal:
  type: none
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 50_000.0, cfg.Account.InitialCapital)
	assert.Equal(t, 0.5, cfg.Account.AllocationFraction)
	assert.Equal(t, 10, cfg.Risk.MaxHoldingBars)
	assert.Equal(t, []string{"ma", "rsi"}, cfg.Signals.Enabled)
}

func TestLoadFromFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
  "account": {"initial_capital": 25000, "allocation_fraction": 1.0},
  "journal": {"type": "sqlite", "db_path": "runs.db"}
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 25_000.0, cfg.Account.InitialCapital)
	assert.Equal(t, "runs.db", cfg.Journal.DBPath)
}

func TestLoadFromFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestLoadFromFileGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\tnot config"), 0o644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QUANTSIM_INITIAL_CAPITAL", "75000")
	t.Setenv("QUANTSIM_ALLOCATION_FRACTION", "0.25")
	t.Setenv("QUANTSIM_DB_PATH", "override.db")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
account:
  initial_capital: 50000
  allocation_fraction: 0.5
journal:
  type: sqlite
  db_path: original.db
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 75_000.0, cfg.Account.InitialCapital)
	assert.Equal(t, 0.25, cfg.Account.AllocationFraction)
	assert.Equal(t, "override.db", cfg.Journal.DBPath)
}

func TestEnvOverridesIgnoreBadValues(t *testing.T) {
	t.Setenv("QUANTSIM_INITIAL_CAPITAL", "not-a-number")

	cfg := Default()
	cfg.applyEnv()
	assert.Equal(t, 100_000.0, cfg.Account.InitialCapital)
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero capital", func(c *Config) { c.Account.InitialCapital = 0 }},
		{"allocation above one", func(c *Config) { c.Account.AllocationFraction = 1.5 }},
		{"negative cap", func(c *Config) { c.Account.MaxPerTradeCap = -1 }},
		{"negative slippage", func(c *Config) { c.Execution.SlippageRate = -0.001 }},
		{"negative stop loss", func(c *Config) { c.Risk.StopLossPct = -0.02 }},
		{"fast ma above slow", func(c *Config) { c.Signals.FastMA = 30; c.Signals.SlowMA = 10 }},
		{"csv without files", func(c *Config) { c.Journal = JournalConfig{Type: "csv"} }},
		{"sqlite without path", func(c *Config) { c.Journal = JournalConfig{Type: "sqlite"} }},
		{"unknown journal type", func(c *Config) { c.Journal = JournalConfig{Type: "parquet"} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"config.yaml", "config.json"} {
		path := filepath.Join(dir, name)

		orig := Default()
		orig.Account.InitialCapital = 12_345
		require.NoError(t, orig.SaveToFile(path))

		loaded, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, orig.Account, loaded.Account)
		assert.Equal(t, orig.Signals, loaded.Signals)
	}
}
