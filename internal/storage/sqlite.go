// Package storage provides SQLite-based persistence for the run journal.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// timeLayout is how created_at is stored.
const timeLayout = "2006-01-02 15:04:05"

// ErrNotFound is returned when a run ID is not in the journal.
var ErrNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for the run journal.
type Store struct {
	db *sql.DB
}

// RunRecord is one finished life: enough to list it and to replay it.
type RunRecord struct {
	ID        string
	Player    string
	Seed      int64 // Seed the life's obstacles were drawn with
	TickRate  int
	Score     int
	Ticks     uint64 // Ticks from life start to the collision
	Cause     string // "ground" or "obstacle"
	Presses   []uint64
	Hash      uint64 // Snapshot hash at the collision tick
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			seed INTEGER NOT NULL,
			tick_rate INTEGER NOT NULL,
			score INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			cause TEXT NOT NULL,
			hash INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

		CREATE TABLE IF NOT EXISTS run_presses (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			tick INTEGER NOT NULL,
			PRIMARY KEY (run_id, seq)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run. A missing ID or timestamp is filled in.
// Returns the run ID.
func (s *Store) SaveRun(rec RunRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, player, seed, tick_rate, score, ticks, cause, hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Player, rec.Seed, rec.TickRate, rec.Score,
		int64(rec.Ticks), rec.Cause, int64(rec.Hash),
		rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}

	for i, tick := range rec.Presses {
		if _, err := tx.Exec(
			"INSERT INTO run_presses (run_id, seq, tick) VALUES (?, ?, ?)",
			rec.ID, i, int64(tick),
		); err != nil {
			return "", fmt.Errorf("storage: cannot save press: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return rec.ID, nil
}

// RecentRuns retrieves the most recent runs, newest first. Press ticks are
// not loaded; use RunByID for a full record.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, player, seed, tick_rate, score, ticks, cause, hash, created_at
		 FROM runs
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunByID retrieves one run with its press ticks.
// Returns ErrNotFound if no run has that ID.
func (s *Store) RunByID(id string) (RunRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, player, seed, tick_rate, score, ticks, cause, hash, created_at
		 FROM runs
		 WHERE id = ?`,
		id,
	)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, ErrNotFound
	}
	if err != nil {
		return RunRecord{}, err
	}

	rows, err := s.db.Query(
		"SELECT tick FROM run_presses WHERE run_id = ? ORDER BY seq",
		id,
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("storage: cannot query presses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tick int64
		if err := rows.Scan(&tick); err != nil {
			return RunRecord{}, fmt.Errorf("storage: cannot scan press: %w", err)
		}
		rec.Presses = append(rec.Presses, uint64(tick))
	}
	if err := rows.Err(); err != nil {
		return RunRecord{}, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return rec, nil
}

// BestScore returns the highest recorded score. Returns 0 if the journal
// is empty.
func (s *Store) BestScore() (int, error) {
	var score sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(score) FROM runs").Scan(&score); err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearRuns deletes every run.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM run_presses"); err != nil {
		return fmt.Errorf("storage: cannot clear presses: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunRecord, error) {
	var (
		rec       RunRecord
		ticks     int64
		hash      int64
		createdAt string
	)
	err := row.Scan(&rec.ID, &rec.Player, &rec.Seed, &rec.TickRate, &rec.Score,
		&ticks, &rec.Cause, &hash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, err
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("storage: cannot scan run: %w", err)
	}

	rec.Ticks = uint64(ticks)
	rec.Hash = uint64(hash)
	if parsed, err := time.Parse(timeLayout, createdAt); err == nil {
		rec.CreatedAt = parsed
	}
	return rec, nil
}
