// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	model "github.com/okian/courtside/internal/domain/model"
)

// EventsHandler handles intent requests that append to a match's log.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// goalRequest mirrors the schema for POST /matches/{id}/goals.
type goalRequest struct {
	Team     string `json:"team"`
	Position string `json:"position"`
	ZoneID   string `json:"zone_id"`
}

type turnoverRequest struct {
	Team         string `json:"team"`
	Cause        string `json:"cause"`
	ClockSeconds int    `json:"clock_seconds"`
	Note         string `json:"note"`
}

type timeoutRequest struct {
	Team         string `json:"team"`
	Category     string `json:"category"`
	ClockSeconds int    `json:"clock_seconds"`
}

type substitutionRequest struct {
	Team         string `json:"team"`
	PlayerOut    string `json:"player_out"`
	PlayerIn     string `json:"player_in"`
	PositionOut  string `json:"position_out"`
	PositionIn   string `json:"position_in"`
	ClockSeconds int    `json:"clock_seconds"`
}

type noteRequest struct {
	Message      string `json:"message"`
	ClockSeconds int    `json:"clock_seconds"`
}

type clockRequest struct {
	Action            string `json:"action"`
	ElapsedSeconds    int    `json:"elapsed_seconds"`
	AdjustmentSeconds int    `json:"adjustment_seconds"`
	Note              string `json:"note"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return false
	}
	return true
}

// HandleRecordGoal handles POST /matches/{id}/goals requests.
func (h *EventsHandler) HandleRecordGoal(w http.ResponseWriter, r *http.Request) {
	const op = "api.record_goal"
	var req goalRequest
	if !decodeBody(w, r, op, &req) {
		return
	}
	team, err := parseTeam(req.Team, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Position is optional metadata; whether a positionless goal is
	// legal is the rules engine's call, not the adapter's.
	st, err := h.deps.RecordGoal(r.Context(), r.PathValue("id"), team, req.Position, req.ZoneID)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// HandleUndoGoal handles POST /matches/{id}/goals/undo requests. An undo
// with no goal left to reverse succeeds with undone=false.
func (h *EventsHandler) HandleUndoGoal(w http.ResponseWriter, r *http.Request) {
	const op = "api.undo_goal"
	st, undone, err := h.deps.UndoGoal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, undoResponse{Undone: undone, State: st})
}

// HandleAdvancePeriod handles POST /matches/{id}/period requests.
func (h *EventsHandler) HandleAdvancePeriod(w http.ResponseWriter, r *http.Request) {
	const op = "api.advance_period"
	st, err := h.deps.AdvancePeriod(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleRecordTurnover handles POST /matches/{id}/turnovers requests.
func (h *EventsHandler) HandleRecordTurnover(w http.ResponseWriter, r *http.Request) {
	const op = "api.record_turnover"
	var req turnoverRequest
	if !decodeBody(w, r, op, &req) {
		return
	}
	team, err := parseTeam(req.Team, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	cause := model.TurnoverCause(req.Cause)
	if !cause.IsValid() {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("unknown cause")))
		return
	}

	st, err := h.deps.RecordTurnover(r.Context(), r.PathValue("id"), team, cause, req.ClockSeconds, req.Note)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// HandleCallTimeout handles POST /matches/{id}/timeouts requests. Team
// is optional; official stoppages carry none.
func (h *EventsHandler) HandleCallTimeout(w http.ResponseWriter, r *http.Request) {
	const op = "api.call_timeout"
	var req timeoutRequest
	if !decodeBody(w, r, op, &req) {
		return
	}
	team, err := parseTeam(req.Team, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	st, err := h.deps.CallTimeout(r.Context(), r.PathValue("id"), team, req.Category, req.ClockSeconds)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// HandleMakeSubstitution handles POST /matches/{id}/substitutions requests.
func (h *EventsHandler) HandleMakeSubstitution(w http.ResponseWriter, r *http.Request) {
	const op = "api.make_substitution"
	var req substitutionRequest
	if !decodeBody(w, r, op, &req) {
		return
	}
	team, err := parseTeam(req.Team, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.PlayerOut) == "" || strings.TrimSpace(req.PlayerIn) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing player ids")))
		return
	}

	st, err := h.deps.MakeSubstitution(r.Context(), r.PathValue("id"), team,
		req.PlayerOut, req.PlayerIn, req.PositionOut, req.PositionIn, req.ClockSeconds)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// HandleAddNote handles POST /matches/{id}/notes requests.
func (h *EventsHandler) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_note"
	var req noteRequest
	if !decodeBody(w, r, op, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing message")))
		return
	}

	st, err := h.deps.AddNote(r.Context(), r.PathValue("id"), req.Message, req.ClockSeconds)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// HandleRecordClock handles POST /matches/{id}/clock requests.
func (h *EventsHandler) HandleRecordClock(w http.ResponseWriter, r *http.Request) {
	const op = "api.record_clock"
	var req clockRequest
	if !decodeBody(w, r, op, &req) {
		return
	}

	st, err := h.deps.RecordClock(r.Context(), r.PathValue("id"), req.Action,
		req.ElapsedSeconds, req.AdjustmentSeconds, req.Note)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// HandleCheckpoint handles POST /matches/{id}/checkpoint requests.
func (h *EventsHandler) HandleCheckpoint(w http.ResponseWriter, r *http.Request) {
	const op = "api.checkpoint"
	st, err := h.deps.Checkpoint(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}
