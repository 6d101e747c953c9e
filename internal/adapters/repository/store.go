// Package repository defines the event log store interface and errors.
//
// The core assumes append preserves submission order and never reorders
// or drops events; scores are never stored — they are re-derived by
// replay.
package repository

import (
	"context"
	"time"

	model "github.com/okian/courtside/internal/domain/model"
)

// Match statuses persisted alongside the log for directory listings.
const (
	StatusActive = "active"
	StatusEnded  = "ended"
)

// MatchRecord is the directory row for a match. It carries identity and
// setup metadata only; live state comes from replaying the event log.
type MatchRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	TemplateID string    `json:"template_id"`
	CreatedAt  time.Time `json:"created_at"`
	Status     string    `json:"status"`
}

// Store provides durable access to match directories and event logs.
type Store interface {
	// CreateMatch registers a match. Returns ErrDuplicateMatch if the id
	// is already taken.
	CreateMatch(ctx context.Context, rec MatchRecord) error

	// UpdateMatchStatus transitions the directory status for a match.
	UpdateMatchStatus(ctx context.Context, matchID, status string) error

	// GetMatch returns the directory row for a match.
	// Returns ErrNotFound if the match is unknown.
	GetMatch(ctx context.Context, matchID string) (MatchRecord, error)

	// ListMatches returns all matches, most recently created first.
	ListMatches(ctx context.Context) ([]MatchRecord, error)

	// AppendEvent appends one event to a match's log. The event's
	// sequence must be the next free slot; ErrSequenceConflict otherwise.
	AppendEvent(ctx context.Context, e model.Event) error

	// LoadEvents returns the full ordered log for a match.
	LoadEvents(ctx context.Context, matchID string) ([]model.Event, error)

	// Close releases the store.
	Close() error
}
