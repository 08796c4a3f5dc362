// Package ledger persists optimization run history in a local SQLite
// database so past searches remain inspectable: which mission ran, how many
// candidates were evaluated, and the winning per-stage assignment.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    mission      TEXT NOT NULL,
    stages       INTEGER NOT NULL,
    evaluated    INTEGER NOT NULL,
    feasible     INTEGER NOT NULL,
    best_delta_v REAL NOT NULL,
    elapsed_ms   INTEGER NOT NULL,
    created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS assignments (
    run_id      INTEGER NOT NULL REFERENCES runs(id),
    stage_index INTEGER NOT NULL,
    label       TEXT NOT NULL DEFAULT '',
    propellant  TEXT NOT NULL,
    delta_v     REAL NOT NULL,
    volume      REAL NOT NULL,
    PRIMARY KEY (run_id, stage_index)
);
`

// Run summarizes one recorded optimization run.
type Run struct {
	ID         int64
	Mission    string
	Stages     int
	Evaluated  int
	Feasible   int
	BestDeltaV float64
	Elapsed    time.Duration
	CreatedAt  time.Time
}

// Assignment is one stage of a recorded run's best rocket.
type Assignment struct {
	RunID      int64
	StageIndex int
	Label      string
	Propellant string
	DeltaV     float64
	Volume     float64
}

// Ledger stores run history using a local SQLite database in WAL mode.
type Ledger struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at dbPath, enables WAL mode and
// busy timeout, and creates the schema tables if they do not exist.
func Open(ctx context.Context, dbPath string) (*Ledger, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ledger: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("ledger: open database: %w", err)
	}

	// Limit to one connection. SQLite only supports a single writer; using
	// one connection avoids SQLITE_BUSY contention between pooled connections
	// that each need their own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: create schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close releases the underlying database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordRun inserts a run and its best-rocket assignments in one transaction
// and returns the new run ID.
func (l *Ledger) RecordRun(ctx context.Context, run Run, assignments []Assignment) (int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("ledger: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (mission, stages, evaluated, feasible, best_delta_v, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.Mission, run.Stages, run.Evaluated, run.Feasible, run.BestDeltaV,
		run.Elapsed.Milliseconds())
	if err != nil {
		return 0, fmt.Errorf("ledger: insert run for %q: %w", run.Mission, err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ledger: run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO assignments (run_id, stage_index, label, propellant, delta_v, volume)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("ledger: prepare assignment insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range assignments {
		if _, err := stmt.ExecContext(ctx, runID, a.StageIndex, a.Label, a.Propellant, a.DeltaV, a.Volume); err != nil {
			return 0, fmt.Errorf("ledger: insert assignment %d: %w", a.StageIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("ledger: commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first, up to limit.
// A limit <= 0 returns every run.
func (l *Ledger) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT id, mission, stages, evaluated, feasible, best_delta_v, elapsed_ms, created_at
		FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger: query runs: %w", err)
	}
	defer rows.Close()

	var result []Run
	for rows.Next() {
		var r Run
		var elapsedMs int64
		var ts string
		if err := rows.Scan(&r.ID, &r.Mission, &r.Stages, &r.Evaluated, &r.Feasible,
			&r.BestDeltaV, &elapsedMs, &ts); err != nil {
			return nil, fmt.Errorf("ledger: scan run: %w", err)
		}
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		createdAt, parseErr := parseTimestamp(ts)
		if parseErr != nil {
			return nil, fmt.Errorf("ledger: parse run timestamp: %w", parseErr)
		}
		r.CreatedAt = createdAt
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: iterate runs: %w", err)
	}
	return result, nil
}

// Assignments returns the recorded best-rocket stages of a run, in stage order.
func (l *Ledger) Assignments(ctx context.Context, runID int64) ([]Assignment, error) {
	const q = `SELECT run_id, stage_index, label, propellant, delta_v, volume
		FROM assignments WHERE run_id = ? ORDER BY stage_index`

	rows, err := l.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, fmt.Errorf("ledger: query assignments for run %d: %w", runID, err)
	}
	defer rows.Close()

	var result []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.RunID, &a.StageIndex, &a.Label, &a.Propellant, &a.DeltaV, &a.Volume); err != nil {
			return nil, fmt.Errorf("ledger: scan assignment: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: iterate assignments: %w", err)
	}
	return result, nil
}

// timestampFormats lists the formats SQLite drivers may produce for
// CURRENT_TIMESTAMP. modernc.org/sqlite typically returns RFC 3339
// (with "T" separator and "Z" suffix), while canonical SQLite returns
// the space-separated DateTime format.
var timestampFormats = []string{
	time.RFC3339,
	time.DateTime,
}

// parseTimestamp attempts to parse a SQLite timestamp string using known formats.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}
