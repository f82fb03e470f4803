package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrPersistence indicates a storage-layer failure. The clip and transcript
// survive on disk, so the caller may retry the append without re-recording.
var ErrPersistence = errors.New("persistence failure")

// timeLayout is RFC 3339 UTC with fixed-width nanoseconds so that lexical
// ordering of the stored text matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
	CREATE TABLE IF NOT EXISTS logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		audio_path TEXT NOT NULL,
		transcript TEXT NOT NULL,
		flow TEXT,
		mood TEXT,
		symptoms TEXT NOT NULL DEFAULT '[]',
		spotting INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_logs_timestamp ON logs(timestamp DESC, id DESC);
`

// Store persists voice-note logs in a SQLite database.
type Store struct {
	db *sql.DB
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".lunalog", "logs.sqlite")
}

// Open opens (creating if needed) the database with WAL and ensures the
// schema exists. A busy timeout bounds lock waits so contention surfaces as
// an error instead of hanging.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append writes the log as a single insert and returns the assigned id.
// A zero Timestamp is filled with the current UTC time. The caller's Log is
// not modified.
func (s *Store) Append(ctx context.Context, log Log) (int64, error) {
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}

	symptoms := log.Symptoms
	if symptoms == nil {
		symptoms = []string{}
	}
	symptomsJSON, err := json.Marshal(symptoms)
	if err != nil {
		return 0, fmt.Errorf("%w: encode symptoms: %w", ErrPersistence, err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO logs (timestamp, audio_path, transcript, flow, mood, symptoms, spotting, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		log.Timestamp.UTC().Format(timeLayout),
		log.AudioPath,
		log.Transcript,
		nullable(log.Flow),
		nullable(log.Mood),
		string(symptomsJSON),
		log.Spotting,
		log.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: insert log: %w", ErrPersistence, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: last insert id: %w", ErrPersistence, err)
	}
	return id, nil
}

// Recent returns up to limit logs, newest first, ties broken by id
// descending. A non-positive limit returns no logs and no error.
func (s *Store) Recent(ctx context.Context, limit int) ([]Log, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, audio_path, transcript, flow, mood, symptoms, spotting, notes
		FROM logs
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query logs: %w", ErrPersistence, err)
	}
	defer rows.Close()

	var logs []Log
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read logs: %w", ErrPersistence, err)
	}
	return logs, nil
}

// Get returns the log with the given id, or sql.ErrNoRows if absent.
func (s *Store) Get(ctx context.Context, id int64) (Log, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, audio_path, transcript, flow, mood, symptoms, spotting, notes
		FROM logs
		WHERE id = ?
	`, id)
	if err != nil {
		return Log{}, fmt.Errorf("%w: query log: %w", ErrPersistence, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Log{}, fmt.Errorf("%w: read log: %w", ErrPersistence, err)
		}
		return Log{}, sql.ErrNoRows
	}
	return scanLog(rows)
}

func scanLog(rows *sql.Rows) (Log, error) {
	var log Log
	var ts, symptomsJSON string
	var flow, mood sql.NullString

	if err := rows.Scan(&log.ID, &ts, &log.AudioPath, &log.Transcript,
		&flow, &mood, &symptomsJSON, &log.Spotting, &log.Notes); err != nil {
		return Log{}, fmt.Errorf("%w: scan log: %w", ErrPersistence, err)
	}

	parsed, err := time.Parse(timeLayout, ts)
	if err != nil {
		return Log{}, fmt.Errorf("%w: parse timestamp %q: %w", ErrPersistence, ts, err)
	}
	log.Timestamp = parsed

	if flow.Valid {
		log.Flow = flow.String
	}
	if mood.Valid {
		log.Mood = mood.String
	}
	if err := json.Unmarshal([]byte(symptomsJSON), &log.Symptoms); err != nil {
		return Log{}, fmt.Errorf("%w: decode symptoms %q: %w", ErrPersistence, symptomsJSON, err)
	}

	return log, nil
}

// nullable maps an empty string to NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
