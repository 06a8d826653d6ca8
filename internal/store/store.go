// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/grandinquisitor/swipeback/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// migrations are applied in order; the schema_version table records how
// many have run, so old databases upgrade in place.
var migrations = []string{
	`CREATE TABLE sessions (
		id INTEGER PRIMARY KEY,
		started_at TEXT NOT NULL,
		ended_at TEXT NOT NULL,
		level INTEGER NOT NULL,
		trials INTEGER NOT NULL,
		alphabet TEXT NOT NULL,
		position_pct INTEGER NOT NULL,
		audio_pct INTEGER NOT NULL,
		overall_pct INTEGER NOT NULL,
		position_tp INTEGER NOT NULL,
		position_fp INTEGER NOT NULL,
		position_fn INTEGER NOT NULL,
		audio_tp INTEGER NOT NULL,
		audio_fp INTEGER NOT NULL,
		audio_fn INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	);`,
	`CREATE INDEX idx_sessions_ended_at ON sessions(ended_at);`,
	`CREATE INDEX idx_sessions_level ON sessions(level);`,
}

// Store wraps SQLite access for session history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);`); err != nil {
		return err
	}
	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version`).Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return err
		}
	case err != nil:
		return err
	}
	if version > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this build supports (%d)", version, len(migrations))
	}
	for i := version; i < len(migrations); i++ {
		if _, err := s.db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", i+1, err)
		}
		if _, err := s.db.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed session.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, level, trials, alphabet,
			position_pct, audio_pct, overall_pct,
			position_tp, position_fp, position_fn,
			audio_tp, audio_fp, audio_fn, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Level,
		rec.Trials,
		rec.Alphabet,
		rec.PositionPct,
		rec.AudioPct,
		rec.OverallPct,
		rec.PositionTP,
		rec.PositionFP,
		rec.PositionFN,
		rec.AudioTP,
		rec.AudioFP,
		rec.AudioFN,
		rec.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const sessionColumns = `id, started_at, ended_at, level, trials, alphabet,
	position_pct, audio_pct, overall_pct,
	position_tp, position_fp, position_fn,
	audio_tp, audio_fp, audio_fn, duration_ms`

// ListSessions returns sessions filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Level > 0 {
		clauses = append(clauses, "level = ?")
		args = append(args, cfg.Level)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE %s ORDER BY ended_at ASC`,
		sessionColumns, strings.Join(clauses, " AND "))
	return s.querySessions(ctx, query, args...)
}

// RecentResults returns the most recent sessions, newest first, bounded
// by limit. This is the retention window for session history views.
func (s *Store) RecentResults(ctx context.Context, limit int) ([]model.SessionRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM sessions ORDER BY ended_at DESC LIMIT ?`, sessionColumns)
	return s.querySessions(ctx, query, limit)
}

func (s *Store) querySessions(ctx context.Context, query string, args ...any) ([]model.SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var startedAt, endedAt string
		if err := rows.Scan(&rec.ID, &startedAt, &endedAt, &rec.Level, &rec.Trials, &rec.Alphabet,
			&rec.PositionPct, &rec.AudioPct, &rec.OverallPct,
			&rec.PositionTP, &rec.PositionFP, &rec.PositionFN,
			&rec.AudioTP, &rec.AudioFP, &rec.AudioFN, &rec.DurationMs); err != nil {
			return nil, err
		}
		started, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, err
		}
		ended, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		rec.StartedAt = started
		rec.EndedAt = ended
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// LevelAggregates summarizes sessions per level.
func (s *Store) LevelAggregates(ctx context.Context) ([]model.LevelAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT level, COUNT(*), SUM(trials), AVG(overall_pct), MAX(overall_pct)
		 FROM sessions GROUP BY level ORDER BY level ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var aggs []model.LevelAggregate
	for rows.Next() {
		var agg model.LevelAggregate
		if err := rows.Scan(&agg.Level, &agg.Sessions, &agg.Trials, &agg.AvgOverall, &agg.BestOverall); err != nil {
			return nil, err
		}
		aggs = append(aggs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return aggs, nil
}
