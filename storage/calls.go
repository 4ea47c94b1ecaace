package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// CallRecord is one dispatched tool invocation: what was asked of
// which worker, what came back, and how long it took. Error is empty
// for successful calls.
type CallRecord struct {
	ID        string
	Worker    string
	Tool      string
	Arguments string // JSON-encoded argument object
	Result    string
	Error     string
	Duration  time.Duration
	CalledAt  time.Time
}

// CallLog persists tool invocations to a SQLite database in the data
// directory.
type CallLog struct {
	db *sql.DB
}

func NewCallLog(dataDir string) (*CallLog, error) {
	dbPath := filepath.Join(dataDir, "calls.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log := &CallLog{db: db}

	if err := log.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return log, nil
}

func (cl *CallLog) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calls (
		id TEXT PRIMARY KEY,
		worker TEXT NOT NULL,
		tool TEXT NOT NULL,
		arguments TEXT NOT NULL,
		result TEXT,
		error TEXT,
		duration_us INTEGER NOT NULL,
		called_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_calls_tool ON calls(tool);
	CREATE INDEX IF NOT EXISTS idx_calls_called_at ON calls(called_at);
	`

	_, err := cl.db.Exec(schema)
	return err
}

// Record appends one invocation. A missing ID gets a fresh UUID and a
// zero CalledAt is stamped with the current time.
func (cl *CallLog) Record(rec CallRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CalledAt.IsZero() {
		rec.CalledAt = time.Now()
	}

	query := `
	INSERT OR REPLACE INTO calls (id, worker, tool, arguments, result, error, duration_us, called_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := cl.db.Exec(query,
		rec.ID,
		rec.Worker,
		rec.Tool,
		rec.Arguments,
		rec.Result,
		rec.Error,
		rec.Duration.Microseconds(),
		rec.CalledAt,
	)

	return err
}

// Recent returns the newest invocations, most recent first.
func (cl *CallLog) Recent(limit int) ([]CallRecord, error) {
	query := `
	SELECT id, worker, tool, arguments, result, error, duration_us, called_at
	FROM calls
	ORDER BY called_at DESC
	LIMIT ?
	`

	rows, err := cl.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCallRecords(rows)
}

// ByTool returns the newest invocations of one tool, most recent first.
func (cl *CallLog) ByTool(tool string, limit int) ([]CallRecord, error) {
	query := `
	SELECT id, worker, tool, arguments, result, error, duration_us, called_at
	FROM calls
	WHERE tool = ?
	ORDER BY called_at DESC
	LIMIT ?
	`

	rows, err := cl.db.Query(query, tool, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCallRecords(rows)
}

func scanCallRecords(rows *sql.Rows) ([]CallRecord, error) {
	var records []CallRecord
	for rows.Next() {
		var rec CallRecord
		var durationUs int64
		err := rows.Scan(
			&rec.ID,
			&rec.Worker,
			&rec.Tool,
			&rec.Arguments,
			&rec.Result,
			&rec.Error,
			&durationUs,
			&rec.CalledAt,
		)
		if err != nil {
			continue
		}
		rec.Duration = time.Duration(durationUs) * time.Microsecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (cl *CallLog) Close() error {
	if cl.db != nil {
		return cl.db.Close()
	}
	return nil
}
