// Package projection derives current match state from an ordered event log.
//
// Reduce is a deterministic left fold: replaying the same prefix of
// events always yields the same state, and full state is recoverable by
// replaying from sequence 0. The fold depends only on fields already
// present in each event — never on wall-clock or random values.
package projection

import (
	model "github.com/okian/courtside/internal/domain/model"
	template "github.com/okian/courtside/internal/domain/template"
)

// GameState is the lifecycle phase of a match.
type GameState string

const (
	// GameSetup is the phase before the match_created event.
	GameSetup GameState = "setup"
	// GameActive is the phase while events accumulate.
	GameActive GameState = "active"
	// GameEnded is terminal; no operations are defined from it.
	GameEnded GameState = "ended"
)

// Team is one side's projected state. Score is derived, never assigned
// outside this package.
type Team struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Teams groups both sides.
type Teams struct {
	Home Team `json:"home"`
	Away Team `json:"away"`
}

// Period is the currently active period.
type Period struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// State is the projection output: derived, never hand-edited.
type State struct {
	MatchID    string        `json:"match_id"`
	MatchName  string        `json:"match_name"`
	TemplateID string        `json:"template_id"`
	Teams      Teams         `json:"teams"`
	Period     Period        `json:"period"`
	GameState  GameState     `json:"game_state"`
	Events     []model.Event `json:"events"`
}

// TeamScore returns the projected score for a side.
func (s *State) TeamScore(key model.TeamKey) int {
	if key == model.TeamAway {
		return s.Teams.Away.Score
	}
	return s.Teams.Home.Score
}

// Winner names the leading team of an ended match. draw is true when
// the scores are level.
func (s *State) Winner() (name string, draw bool) {
	switch {
	case s.Teams.Home.Score > s.Teams.Away.Score:
		return s.Teams.Home.Name, false
	case s.Teams.Away.Score > s.Teams.Home.Score:
		return s.Teams.Away.Name, false
	default:
		return "", true
	}
}

// Reduce projects match state by folding the ordered event sequence.
func Reduce(tmpl *template.RuleTemplate, events []model.Event) State {
	state := State{GameState: GameSetup}
	for _, e := range events {
		state = Apply(state, tmpl, e)
	}
	return state
}

// Apply folds a single event into the state and returns the new state.
// The switch over the payload union is exhaustive: adding an event type
// without an arm here falls through to the default, which records the
// event without effect, so new types must be handled deliberately.
func Apply(state State, tmpl *template.RuleTemplate, e model.Event) State {
	state.Events = append(state.Events, e)

	switch p := e.Payload.(type) {
	case model.MatchCreatedPayload:
		state.MatchID = e.MatchID
		state.MatchName = p.MatchName
		state.TemplateID = p.TemplateID
		state.Teams.Home.Name = p.HomeTeam
		state.Teams.Away.Name = p.AwayTeam
		state.GameState = GameActive

	case model.PeriodTransitionPayload:
		switch p.Reason {
		case model.PeriodStart:
			state.Period = Period{Index: p.PeriodIndex, Label: p.PeriodLabel}
			state.GameState = GameActive
		case model.PeriodEnd:
			// The end of the last defined period with no subsequent
			// start terminates the match.
			if p.PeriodIndex >= tmpl.PeriodCount()-1 {
				state.GameState = GameEnded
			}
		}

	case model.GoalScoredPayload:
		state = addScore(state, p.Team, p.Points)

	case model.GoalRemovedPayload:
		// Compensating subtraction: look up the referenced goal in the
		// already-folded prefix and reverse its points, clamped at zero.
		if orig, found := findGoal(state.Events[:len(state.Events)-1], p.ReplacedEventID); found {
			state = addScore(state, orig.Team, -orig.Points)
		}

	case model.ClockPayload, model.TurnoverRecordedPayload, model.TimeoutCalledPayload,
		model.SubstitutionMadePayload, model.NoteAddedPayload, model.SyncCheckpointPayload:
		// Informational; recorded in history without altering scores,
		// period, or phase.
	}

	return state
}

func addScore(state State, key model.TeamKey, delta int) State {
	team := &state.Teams.Home
	if key == model.TeamAway {
		team = &state.Teams.Away
	}
	team.Score += delta
	if team.Score < 0 {
		team.Score = 0
	}
	return state
}

func findGoal(events []model.Event, eventID string) (model.GoalScoredPayload, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].EventID != eventID {
			continue
		}
		if p, ok := events[i].Payload.(model.GoalScoredPayload); ok {
			return p, true
		}
	}
	return model.GoalScoredPayload{}, false
}

// LastUncompensatedGoal finds the most recent goal_scored event not yet
// referenced by a goal_removed event. Used by the undo path.
func LastUncompensatedGoal(events []model.Event) (model.Event, bool) {
	removed := make(map[string]bool)
	for _, e := range events {
		if p, ok := e.Payload.(model.GoalRemovedPayload); ok {
			removed[p.ReplacedEventID] = true
		}
	}
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		if _, ok := e.Payload.(model.GoalScoredPayload); ok && !removed[e.EventID] {
			return e, true
		}
	}
	return model.Event{}, false
}

// CountSubstitutions counts substitution_made events for a team within a
// period. Used for traditional-mode quota validation.
func CountSubstitutions(events []model.Event, team model.TeamKey, periodIndex int) int {
	n := 0
	for _, e := range events {
		if p, ok := e.Payload.(model.SubstitutionMadePayload); ok &&
			p.Team == team && p.PeriodIndex == periodIndex {
			n++
		}
	}
	return n
}
