// Package model contains the match event schema shared between layers.
//
// An Event is the atomic, immutable unit of match history. Events are
// ordered by a per-match, gap-free sequence number and are never mutated
// after append; corrections are themselves new events.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type identifies the kind of a match event. The set is closed: the
// projection folds every member and rejects anything else.
type Type string

const (
	// TypeMatchCreated records the creation of a match.
	TypeMatchCreated Type = "match_created"
	// TypePeriodTransition records a period starting or ending.
	TypePeriodTransition Type = "period_transition"
	// TypeClock records a clock action (start, stop, adjust).
	TypeClock Type = "clock"
	// TypeGoalScored records a goal for a team.
	TypeGoalScored Type = "goal_scored"
	// TypeGoalRemoved compensates an earlier goal_scored event.
	TypeGoalRemoved Type = "goal_removed"
	// TypeTurnoverRecorded records a possession turnover.
	TypeTurnoverRecorded Type = "turnover_recorded"
	// TypeTimeoutCalled records a stoppage.
	TypeTimeoutCalled Type = "timeout_called"
	// TypeSubstitutionMade records a player substitution.
	TypeSubstitutionMade Type = "substitution_made"
	// TypeNoteAdded records a free-form scorer note.
	TypeNoteAdded Type = "note_added"
	// TypeSyncCheckpoint marks a projection version for future sync use.
	TypeSyncCheckpoint Type = "sync_checkpoint"
)

// IsValid reports whether t is a member of the closed event type set.
func (t Type) IsValid() bool {
	switch t {
	case TypeMatchCreated, TypePeriodTransition, TypeClock, TypeGoalScored,
		TypeGoalRemoved, TypeTurnoverRecorded, TypeTimeoutCalled,
		TypeSubstitutionMade, TypeNoteAdded, TypeSyncCheckpoint:
		return true
	}
	return false
}

// TeamKey identifies one of the two sides in a match.
type TeamKey string

const (
	// TeamHome is the home side.
	TeamHome TeamKey = "home"
	// TeamAway is the away side.
	TeamAway TeamKey = "away"
)

// IsValid reports whether k names a side.
func (k TeamKey) IsValid() bool {
	return k == TeamHome || k == TeamAway
}

// Source identifies the device or platform that produced an event.
type Source struct {
	DeviceID string `json:"device_id"`
	ScorerID string `json:"scorer_id,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// Event represents an immutable entry in a match's event log.
type Event struct {
	// MatchID is the match this event belongs to.
	MatchID string `json:"match_id"`
	// EventID is globally unique within a match.
	EventID string `json:"event_id"`
	// Type identifies the kind of event and the payload shape.
	Type Type `json:"type"`
	// CreatedAt is supplied by the identity/time collaborator.
	CreatedAt time.Time `json:"created_at"`
	// Source is the originating device or platform.
	Source Source `json:"source"`
	// Sequence is the per-match, gap-free ordering, assigned at append time.
	Sequence int `json:"sequence"`
	// MatchVersion tracks the schema version of the match log.
	MatchVersion int `json:"match_version"`
	// Payload holds the type-specific data.
	Payload Payload `json:"payload"`
}

// Validate checks the structural shape of the event: identity fields,
// a known type, a non-negative sequence, and a payload matching the type.
// Rule-level checks (zones, points) belong to the rules package.
func (e *Event) Validate() error {
	switch {
	case e.MatchID == "":
		return fmt.Errorf("%w: missing match_id", ErrInvalidEvent)
	case e.EventID == "":
		return fmt.Errorf("%w: missing event_id", ErrInvalidEvent)
	case !e.Type.IsValid():
		return fmt.Errorf("%w: %q", ErrUnknownEventType, e.Type)
	case e.Sequence < 0:
		return fmt.Errorf("%w: negative sequence %d", ErrInvalidEvent, e.Sequence)
	case e.Payload == nil:
		return fmt.Errorf("%w: missing payload", ErrInvalidEvent)
	case e.Payload.EventType() != e.Type:
		return fmt.Errorf("%w: payload type %q does not match event type %q",
			ErrInvalidEvent, e.Payload.EventType(), e.Type)
	}
	if v, ok := e.Payload.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// eventAlias mirrors Event with a raw payload for two-phase decoding.
type eventAlias struct {
	MatchID      string          `json:"match_id"`
	EventID      string          `json:"event_id"`
	Type         Type            `json:"type"`
	CreatedAt    time.Time       `json:"created_at"`
	Source       Source          `json:"source"`
	Sequence     int             `json:"sequence"`
	MatchVersion int             `json:"match_version"`
	Payload      json.RawMessage `json:"payload"`
}

// UnmarshalJSON decodes the payload into the concrete type named by "type".
func (e *Event) UnmarshalJSON(data []byte) error {
	var a eventAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	payload, err := DecodePayload(a.Type, a.Payload)
	if err != nil {
		return err
	}
	*e = Event{
		MatchID:      a.MatchID,
		EventID:      a.EventID,
		Type:         a.Type,
		CreatedAt:    a.CreatedAt,
		Source:       a.Source,
		Sequence:     a.Sequence,
		MatchVersion: a.MatchVersion,
		Payload:      payload,
	}
	return nil
}
