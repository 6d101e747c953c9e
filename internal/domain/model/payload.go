package model

import (
	"encoding/json"
	"fmt"
)

// Payload is the closed union of type-specific event data. Each member
// reports the event type it belongs to, which keeps the projection's
// type switch exhaustive and checkable.
type Payload interface {
	EventType() Type
}

// PeriodReason distinguishes period starts from period ends.
type PeriodReason string

const (
	// PeriodStart marks the beginning of a period.
	PeriodStart PeriodReason = "start"
	// PeriodEnd marks the end of a period.
	PeriodEnd PeriodReason = "end"
)

// TurnoverCause enumerates the recognised turnover causes.
type TurnoverCause string

const (
	CauseIntercept   TurnoverCause = "intercept"
	CauseHeldBall    TurnoverCause = "held_ball"
	CauseOffside     TurnoverCause = "offside"
	CauseContact     TurnoverCause = "contact"
	CauseObstruction TurnoverCause = "obstruction"
	CauseBreak       TurnoverCause = "break"
)

// IsValid reports whether c is a recognised turnover cause.
func (c TurnoverCause) IsValid() bool {
	switch c {
	case CauseIntercept, CauseHeldBall, CauseOffside, CauseContact,
		CauseObstruction, CauseBreak:
		return true
	}
	return false
}

// MatchCreatedPayload captures the payload for match_created events.
// Team names ride in the payload so the full state is recoverable from
// the log alone.
type MatchCreatedPayload struct {
	TemplateID string `json:"template_id"`
	MatchName  string `json:"match_name"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
}

func (MatchCreatedPayload) EventType() Type { return TypeMatchCreated }

// PeriodTransitionPayload captures the payload for period_transition events.
type PeriodTransitionPayload struct {
	PeriodIndex int          `json:"period_index"`
	PeriodLabel string       `json:"period_label"`
	Reason      PeriodReason `json:"reason"`
}

func (PeriodTransitionPayload) EventType() Type { return TypePeriodTransition }

// Validate checks the transition reason.
func (p PeriodTransitionPayload) Validate() error {
	if p.Reason != PeriodStart && p.Reason != PeriodEnd {
		return fmt.Errorf("%w: unknown period reason %q", ErrInvalidEvent, p.Reason)
	}
	if p.PeriodIndex < 0 {
		return fmt.Errorf("%w: negative period index", ErrInvalidEvent)
	}
	return nil
}

// ClockPayload captures the payload for clock events. Clock events are
// recorded facts, not driven by a ticking timer.
type ClockPayload struct {
	Action            string `json:"action"`
	PeriodIndex       int    `json:"period_index"`
	ElapsedSeconds    int    `json:"elapsed_seconds"`
	AdjustmentSeconds int    `json:"adjustment_seconds,omitempty"`
	Note              string `json:"note,omitempty"`
}

func (ClockPayload) EventType() Type { return TypeClock }

// Validate checks the clock action.
func (p ClockPayload) Validate() error {
	switch p.Action {
	case "start", "stop", "adjust":
		return nil
	}
	return fmt.Errorf("%w: unknown clock action %q", ErrInvalidEvent, p.Action)
}

// GoalScoredPayload captures the payload for goal_scored events.
type GoalScoredPayload struct {
	Team             TeamKey `json:"team_id"`
	PlayerID         string  `json:"player_id,omitempty"`
	Position         string  `json:"position,omitempty"`
	LocationZone     string  `json:"location_zone,omitempty"`
	Points           int     `json:"points"`
	PeriodIndex      int     `json:"period_index"`
	ClockTimeSeconds int     `json:"clock_time_seconds"`
}

func (GoalScoredPayload) EventType() Type { return TypeGoalScored }

// Validate checks the team key and point value shape.
func (p GoalScoredPayload) Validate() error {
	if !p.Team.IsValid() {
		return fmt.Errorf("%w: unknown team %q", ErrInvalidEvent, p.Team)
	}
	if p.Points <= 0 {
		return fmt.Errorf("%w: goal points must be positive", ErrInvalidEvent)
	}
	return nil
}

// GoalRemovedPayload captures the payload for goal_removed events, the
// compensating inverse of an earlier goal_scored event.
type GoalRemovedPayload struct {
	ReplacedEventID string `json:"replaced_event_id"`
	Reason          string `json:"reason"`
}

func (GoalRemovedPayload) EventType() Type { return TypeGoalRemoved }

// Validate checks the referenced event id.
func (p GoalRemovedPayload) Validate() error {
	if p.ReplacedEventID == "" {
		return fmt.Errorf("%w: missing replaced_event_id", ErrInvalidEvent)
	}
	return nil
}

// TurnoverRecordedPayload captures the payload for turnover_recorded events.
type TurnoverRecordedPayload struct {
	Team             TeamKey       `json:"team_id"`
	PeriodIndex      int           `json:"period_index"`
	ClockTimeSeconds int           `json:"clock_time_seconds"`
	Cause            TurnoverCause `json:"cause"`
	Note             string        `json:"note,omitempty"`
}

func (TurnoverRecordedPayload) EventType() Type { return TypeTurnoverRecorded }

// Validate checks the team key and cause.
func (p TurnoverRecordedPayload) Validate() error {
	if !p.Team.IsValid() {
		return fmt.Errorf("%w: unknown team %q", ErrInvalidEvent, p.Team)
	}
	if !p.Cause.IsValid() {
		return fmt.Errorf("%w: unknown turnover cause %q", ErrInvalidEvent, p.Cause)
	}
	return nil
}

// TimeoutCalledPayload captures the payload for timeout_called events.
// Team is empty for official stoppages.
type TimeoutCalledPayload struct {
	Team             TeamKey `json:"team_id,omitempty"`
	PeriodIndex      int     `json:"period_index"`
	ClockTimeSeconds int     `json:"clock_time_seconds"`
	Category         string  `json:"category"`
}

func (TimeoutCalledPayload) EventType() Type { return TypeTimeoutCalled }

// Validate checks the team key when present.
func (p TimeoutCalledPayload) Validate() error {
	if p.Team != "" && !p.Team.IsValid() {
		return fmt.Errorf("%w: unknown team %q", ErrInvalidEvent, p.Team)
	}
	if p.Category == "" {
		return fmt.Errorf("%w: missing timeout category", ErrInvalidEvent)
	}
	return nil
}

// SubstitutionMadePayload captures the payload for substitution_made events.
type SubstitutionMadePayload struct {
	PeriodIndex      int     `json:"period_index"`
	ClockTimeSeconds int     `json:"clock_time_seconds"`
	Team             TeamKey `json:"team_id"`
	PlayerOutID      string  `json:"player_out_id"`
	PlayerInID       string  `json:"player_in_id"`
	PositionOut      string  `json:"position_out,omitempty"`
	PositionIn       string  `json:"position_in,omitempty"`
}

func (SubstitutionMadePayload) EventType() Type { return TypeSubstitutionMade }

// Validate checks the team key and player ids.
func (p SubstitutionMadePayload) Validate() error {
	if !p.Team.IsValid() {
		return fmt.Errorf("%w: unknown team %q", ErrInvalidEvent, p.Team)
	}
	if p.PlayerOutID == "" || p.PlayerInID == "" {
		return fmt.Errorf("%w: substitution requires both player ids", ErrInvalidEvent)
	}
	return nil
}

// NoteAddedPayload captures the payload for note_added events.
type NoteAddedPayload struct {
	PeriodIndex      int    `json:"period_index"`
	ClockTimeSeconds int    `json:"clock_time_seconds"`
	Message          string `json:"message"`
}

func (NoteAddedPayload) EventType() Type { return TypeNoteAdded }

// Validate checks the message is present.
func (p NoteAddedPayload) Validate() error {
	if p.Message == "" {
		return fmt.Errorf("%w: empty note message", ErrInvalidEvent)
	}
	return nil
}

// SyncCheckpointPayload captures the payload for sync_checkpoint events,
// stamping how many events the emitting side had folded at the time.
type SyncCheckpointPayload struct {
	ProjectionVersion int `json:"projection_version"`
}

func (SyncCheckpointPayload) EventType() Type { return TypeSyncCheckpoint }

// DecodePayload unmarshals raw JSON into the concrete payload for t.
func DecodePayload(t Type, raw []byte) (Payload, error) {
	var (
		p   Payload
		err error
	)
	switch t {
	case TypeMatchCreated:
		p, err = decodeInto[MatchCreatedPayload](raw)
	case TypePeriodTransition:
		p, err = decodeInto[PeriodTransitionPayload](raw)
	case TypeClock:
		p, err = decodeInto[ClockPayload](raw)
	case TypeGoalScored:
		p, err = decodeInto[GoalScoredPayload](raw)
	case TypeGoalRemoved:
		p, err = decodeInto[GoalRemovedPayload](raw)
	case TypeTurnoverRecorded:
		p, err = decodeInto[TurnoverRecordedPayload](raw)
	case TypeTimeoutCalled:
		p, err = decodeInto[TimeoutCalledPayload](raw)
	case TypeSubstitutionMade:
		p, err = decodeInto[SubstitutionMadePayload](raw)
	case TypeNoteAdded:
		p, err = decodeInto[NoteAddedPayload](raw)
	case TypeSyncCheckpoint:
		p, err = decodeInto[SyncCheckpointPayload](raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, t)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t, err)
	}
	return p, nil
}

// EncodePayload marshals a payload for storage.
func EncodePayload(p Payload) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.EventType(), err)
	}
	return data, nil
}

func decodeInto[T Payload](raw []byte) (Payload, error) {
	var v T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
	}
	return v, nil
}
