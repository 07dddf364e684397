package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stratlab/quantsim/pkg/id"
)

// SQLiteJournal records one run into a SQLite database. Each journal
// instance stamps its records with a fresh run ID so many runs can share a
// database file.
type SQLiteJournal struct {
	db    *sql.DB
	runID string
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db, runID: id.New()}, nil
}

// RunID identifies this journal's run in the shared database.
func (j *SQLiteJournal) RunID() string { return j.runID }

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	runID := t.RunID
	if runID == "" {
		runID = j.runID
	}
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, symbol, qty, entry_price, exit_price, entry_time, exit_time, profit, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, runID, t.Symbol, t.Qty, t.EntryPrice,
		t.ExitPrice, t.EntryTime, t.ExitTime, t.Profit, t.Reason,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquityPoint) error {
	runID := e.RunID
	if runID == "" {
		runID = j.runID
	}
	_, err := j.db.Exec(`
		INSERT INTO equity (run_id, time, equity)
		VALUES (?, ?, ?)`,
		runID, e.Time, e.Equity,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
