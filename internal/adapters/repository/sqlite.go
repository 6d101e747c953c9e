package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	model "github.com/okian/courtside/internal/domain/model"

	_ "modernc.org/sqlite" // sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	home_team   TEXT NOT NULL,
	away_team   TEXT NOT NULL,
	template_id TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'active'
);

CREATE TABLE IF NOT EXISTS events (
	match_id      TEXT NOT NULL REFERENCES matches(id),
	sequence      INTEGER NOT NULL,
	event_id      TEXT NOT NULL,
	type          TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	source        TEXT NOT NULL,
	match_version INTEGER NOT NULL,
	payload       TEXT NOT NULL,
	PRIMARY KEY (match_id, sequence)
);

CREATE UNIQUE INDEX IF NOT EXISTS events_event_id ON events (match_id, event_id);
`

// SQLiteStore implements Store on a SQLite database. One row per event
// keyed (match_id, sequence) with a serialized payload blob.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dsn and ensures the
// schema exists. Use ":memory:" for an ephemeral database.
func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	// The log has a single logical writer per match; one connection
	// keeps sqlite's locking out of the picture.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// CreateMatch registers a match record.
func (s *SQLiteStore) CreateMatch(ctx context.Context, rec MatchRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO matches (id, name, home_team, away_team, template_id, created_at, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.HomeTeam, rec.AwayTeam, rec.TemplateID,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano), rec.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateMatch, rec.ID)
		}
		return fmt.Errorf("create match: %w", err)
	}
	return nil
}

// UpdateMatchStatus transitions the directory status for a match.
func (s *SQLiteStore) UpdateMatchStatus(ctx context.Context, matchID, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE matches SET status = ? WHERE id = ?`, status, matchID)
	if err != nil {
		return fmt.Errorf("update match status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update match status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, matchID)
	}
	return nil
}

// GetMatch returns the directory row for a match.
func (s *SQLiteStore) GetMatch(ctx context.Context, matchID string) (MatchRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, home_team, away_team, template_id, created_at, status
		 FROM matches WHERE id = ?`, matchID)
	rec, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return MatchRecord{}, fmt.Errorf("%w: %s", ErrNotFound, matchID)
	}
	if err != nil {
		return MatchRecord{}, fmt.Errorf("get match: %w", err)
	}
	return rec, nil
}

// ListMatches returns all matches, most recently created first.
func (s *SQLiteStore) ListMatches(ctx context.Context) ([]MatchRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, home_team, away_team, template_id, created_at, status
		 FROM matches ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []MatchRecord
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("list matches: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return out, nil
}

// AppendEvent appends one event. The (match_id, sequence) primary key
// enforces the gap-free invariant at the storage boundary too.
func (s *SQLiteStore) AppendEvent(ctx context.Context, e model.Event) error {
	payload, err := model.EncodePayload(e.Payload)
	if err != nil {
		return err
	}
	source, err := json.Marshal(e.Source)
	if err != nil {
		return fmt.Errorf("encode event source: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (match_id, sequence, event_id, type, created_at, source, match_version, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.MatchID, e.Sequence, e.EventID, string(e.Type),
		e.CreatedAt.UTC().Format(time.RFC3339Nano), string(source), e.MatchVersion, string(payload),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sequence %d for match %s", ErrSequenceConflict, e.Sequence, e.MatchID)
		}
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// LoadEvents returns the full ordered log for a match.
func (s *SQLiteStore) LoadEvents(ctx context.Context, matchID string) ([]model.Event, error) {
	if _, err := s.GetMatch(ctx, matchID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_id, sequence, event_id, type, created_at, source, match_version, payload
		 FROM events WHERE match_id = ? ORDER BY sequence ASC`, matchID)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var (
			e          model.Event
			eventType  string
			createdAt  string
			sourceJSON string
			payload    string
		)
		if err := rows.Scan(&e.MatchID, &e.Sequence, &e.EventID, &eventType,
			&createdAt, &sourceJSON, &e.MatchVersion, &payload); err != nil {
			return nil, fmt.Errorf("load events: %w", err)
		}
		e.Type = model.Type(eventType)
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("load events: parse created_at: %w", err)
		}
		if err := json.Unmarshal([]byte(sourceJSON), &e.Source); err != nil {
			return nil, fmt.Errorf("load events: decode source: %w", err)
		}
		if e.Payload, err = model.DecodePayload(e.Type, []byte(payload)); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	return out, nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite store: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (MatchRecord, error) {
	var (
		rec       MatchRecord
		createdAt string
	)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.HomeTeam, &rec.AwayTeam,
		&rec.TemplateID, &createdAt, &rec.Status); err != nil {
		return MatchRecord{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return MatchRecord{}, fmt.Errorf("parse created_at: %w", err)
	}
	rec.CreatedAt = t
	return rec, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
