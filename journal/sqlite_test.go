package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLiteJournal, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','equity')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["equity"])
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	entry := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	exit := entry.Add(45 * time.Minute)

	rec := TradeRecord{
		TradeID:    "T1",
		Symbol:     "AAPL",
		Qty:        100,
		EntryPrice: 100,
		ExitPrice:  110,
		EntryTime:  entry,
		ExitTime:   exit,
		Profit:     1000,
		Reason:     "SignalSell",
	}
	require.NoError(t, j.RecordTrade(rec))
	require.NoError(t, j.RecordEquity(EquityPoint{Time: exit, Equity: 101000}))

	trades, err := j.ListTradesByRun(j.RunID())
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "T1", trades[0].TradeID)
	assert.Equal(t, j.RunID(), trades[0].RunID, "journal stamps its run ID")
	assert.Equal(t, 100, trades[0].Qty)
	assert.InDelta(t, 1000, trades[0].Profit, 1e-9)
	assert.True(t, trades[0].ExitTime.Equal(exit))

	eq, err := j.ListEquityByRun(j.RunID())
	require.NoError(t, err)
	require.Len(t, eq, 1)
	assert.InDelta(t, 101000, eq[0].Equity, 1e-9)
}

func TestSQLiteRunIsolation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "shared.db")

	j1, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, j1.RecordTrade(TradeRecord{TradeID: "A", Symbol: "AAPL", Qty: 1,
		EntryTime: time.Now().UTC(), ExitTime: time.Now().UTC()}))
	require.NoError(t, j1.Close())

	j2, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j2.Close() })
	require.NoError(t, j2.RecordTrade(TradeRecord{TradeID: "B", Symbol: "TSLA", Qty: 1,
		EntryTime: time.Now().UTC(), ExitTime: time.Now().UTC()}))

	assert.NotEqual(t, j1.RunID(), j2.RunID())

	mine, err := j2.ListTradesByRun(j2.RunID())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "B", mine[0].TradeID)
}
