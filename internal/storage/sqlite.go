// Package storage provides SQLite-based persistence for level progress and
// run history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunRecord is one attempt at a level, whatever its outcome.
type RunRecord struct {
	ID       int64
	Student  string
	Game     string
	Level    int
	Status   string
	Reason   string
	Executed int
	Total    int
	// Token is the playback token of the run, 0 when not run by a driver.
	Token     uint64
	CreatedAt time.Time
}

// Completion marks a level as solved by a student.
type Completion struct {
	Student     string
	Game        string
	Level       int
	CompletedAt time.Time
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
	// Watch runs record from the playback goroutine while the CLI reads.
	db.SetMaxOpenConns(1)

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
		CREATE TABLE IF NOT EXISTS progress (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			student TEXT NOT NULL,
			game_id TEXT NOT NULL,
			level INTEGER NOT NULL,
			completed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (student, game_id, level)
		);
		CREATE INDEX IF NOT EXISTS idx_progress_student_game ON progress(student, game_id);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			student TEXT NOT NULL,
			game_id TEXT NOT NULL,
			level INTEGER NOT NULL,
			status TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			executed INTEGER NOT NULL DEFAULT 0,
			total INTEGER NOT NULL DEFAULT 0,
			token INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_student_game ON runs(student, game_id);
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

// RecordRun stores one attempt. Returns the ID of the inserted record.
func (s *Store) RecordRun(ctx context.Context, r RunRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (student, game_id, level, status, reason, executed, total, token)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Student, r.Game, r.Level, r.Status, r.Reason, r.Executed, r.Total, int64(r.Token),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecordCompletion marks a level as solved. Solving it again is not an
// error; the returned bool is true only the first time.
func (s *Store) RecordCompletion(ctx context.Context, student, game string, level int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO progress (student, game_id, level) VALUES (?, ?, ?)",
		student, game, level,
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot save progress: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot read affected rows: %w", err)
	}
	return n > 0, nil
}

// CompletedLevel returns the highest completed level id of a game, or 0.
func (s *Store) CompletedLevel(ctx context.Context, student, game string) (int, error) {
	var level sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(level) FROM progress WHERE student = ? AND game_id = ?",
		student, game,
	).Scan(&level)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	if !level.Valid {
		return 0, nil
	}
	return int(level.Int64), nil
}

// UnlockedLevel reports whether a level is playable: its id may be at most
// one past the highest completed level.
func (s *Store) UnlockedLevel(ctx context.Context, student, game string, level int) (bool, error) {
	done, err := s.CompletedLevel(ctx, student, game)
	if err != nil {
		return false, err
	}
	return level <= done+1, nil
}

// Completions lists the solved levels of a game in level order.
// An empty game lists every game.
func (s *Store) Completions(ctx context.Context, student, game string) ([]Completion, error) {
	query := `SELECT student, game_id, level, completed_at FROM progress WHERE student = ?`
	args := []any{student}
	if game != "" {
		query += " AND game_id = ?"
		args = append(args, game)
	}
	query += " ORDER BY game_id, level"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	defer rows.Close()

	var out []Completion
	for rows.Next() {
		var c Completion
		var completedAt any
		if err := rows.Scan(&c.Student, &c.Game, &c.Level, &completedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		c.CompletedAt = parseTime(completedAt)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// RecentRuns returns the newest runs first. An empty game selects all games.
func (s *Store) RecentRuns(ctx context.Context, student, game string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, student, game_id, level, status, reason, executed, total, token, created_at
		 FROM runs WHERE student = ?`
	args := []any{student}
	if game != "" {
		query += " AND game_id = ?"
		args = append(args, game)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var token int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Student, &r.Game, &r.Level, &r.Status, &r.Reason,
			&r.Executed, &r.Total, &token, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Token = uint64(token)
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// GameStats contains aggregated statistics for one game.
type GameStats struct {
	Game       string
	Completed  int
	Highest    int
	Runs       int
	Passed     int
	LastPlayed time.Time
}

// Stats aggregates progress and run history per game.
func (s *Store) Stats(ctx context.Context, student string) (map[string]*GameStats, error) {
	stats := make(map[string]*GameStats)
	get := func(game string) *GameStats {
		gs, ok := stats[game]
		if !ok {
			gs = &GameStats{Game: game}
			stats[game] = gs
		}
		return gs
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, COUNT(*), MAX(level) FROM progress WHERE student = ? GROUP BY game_id`,
		student,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get progress stats: %w", err)
	}
	for rows.Next() {
		var game string
		var completed, highest int
		if err := rows.Scan(&game, &completed, &highest); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		gs := get(game)
		gs.Completed, gs.Highest = completed, highest
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT game_id, COUNT(*), SUM(CASE WHEN status = 'passed' THEN 1 ELSE 0 END), MAX(created_at)
		 FROM runs WHERE student = ? GROUP BY game_id`,
		student,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var game string
		var runs, passed int
		var lastPlayed any
		if err := rows.Scan(&game, &runs, &passed, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		gs := get(game)
		gs.Runs, gs.Passed = runs, passed
		gs.LastPlayed = parseTime(lastPlayed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// ClearProgress deletes progress and runs of a game, or of every game
// when game is empty.
func (s *Store) ClearProgress(ctx context.Context, student, game string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"progress", "runs"} {
		query := "DELETE FROM " + table + " WHERE student = ?"
		args := []any{student}
		if game != "" {
			query += " AND game_id = ?"
			args = append(args, game)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("storage: cannot clear %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and the SQLite text form of a DATETIME.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
