// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	repository "github.com/okian/courtside/internal/adapters/repository"
	service "github.com/okian/courtside/internal/app"
	match "github.com/okian/courtside/internal/domain/match"
	model "github.com/okian/courtside/internal/domain/model"
	projection "github.com/okian/courtside/internal/domain/projection"
	template "github.com/okian/courtside/internal/domain/template"
)

// MatchSummary mirrors the read shape returned by the match directory.
type MatchSummary = service.MatchSummary

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CreateMatch(ctx context.Context, templateID, homeTeam, awayTeam string) (projection.State, error)
	RecordGoal(ctx context.Context, matchID string, team model.TeamKey, position, zoneID string) (projection.State, error)
	UndoGoal(ctx context.Context, matchID string) (projection.State, bool, error)
	AdvancePeriod(ctx context.Context, matchID string) (projection.State, error)
	RecordTurnover(ctx context.Context, matchID string, team model.TeamKey, cause model.TurnoverCause, clockSeconds int, note string) (projection.State, error)
	CallTimeout(ctx context.Context, matchID string, team model.TeamKey, category string, clockSeconds int) (projection.State, error)
	MakeSubstitution(ctx context.Context, matchID string, team model.TeamKey, playerOut, playerIn, positionOut, positionIn string, clockSeconds int) (projection.State, error)
	AddNote(ctx context.Context, matchID, message string, clockSeconds int) (projection.State, error)
	RecordClock(ctx context.Context, matchID, action string, elapsedSeconds, adjustmentSeconds int, note string) (projection.State, error)
	Checkpoint(ctx context.Context, matchID string) (projection.State, error)

	GetState(ctx context.Context, matchID string) (projection.State, error)
	GetEvents(ctx context.Context, matchID string, limit int) ([]model.Event, error)
	ListMatches(ctx context.Context) ([]MatchSummary, error)
	Templates(ctx context.Context) []template.RuleTemplate
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	matchesHandler   *MatchesHandler
	eventsHandler    *EventsHandler
	templatesHandler *TemplatesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxEventLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		matchesHandler:   NewMatchesHandler(deps, maxEventLimit),
		eventsHandler:    NewEventsHandler(deps),
		templatesHandler: NewTemplatesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /templates", MetricsMiddleware(s.templatesHandler.HandleListTemplates, "templates"))

	mux.HandleFunc("POST /matches", MetricsMiddleware(s.matchesHandler.HandleCreateMatch, "matches"))
	mux.HandleFunc("GET /matches", MetricsMiddleware(s.matchesHandler.HandleListMatches, "matches"))
	mux.HandleFunc("GET /matches/{id}", MetricsMiddleware(s.matchesHandler.HandleGetMatch, "match"))
	mux.HandleFunc("GET /matches/{id}/events", MetricsMiddleware(s.matchesHandler.HandleGetEvents, "match_events"))

	mux.HandleFunc("POST /matches/{id}/goals", MetricsMiddleware(s.eventsHandler.HandleRecordGoal, "goals"))
	mux.HandleFunc("POST /matches/{id}/goals/undo", MetricsMiddleware(s.eventsHandler.HandleUndoGoal, "goals_undo"))
	mux.HandleFunc("POST /matches/{id}/period", MetricsMiddleware(s.eventsHandler.HandleAdvancePeriod, "period"))
	mux.HandleFunc("POST /matches/{id}/turnovers", MetricsMiddleware(s.eventsHandler.HandleRecordTurnover, "turnovers"))
	mux.HandleFunc("POST /matches/{id}/timeouts", MetricsMiddleware(s.eventsHandler.HandleCallTimeout, "timeouts"))
	mux.HandleFunc("POST /matches/{id}/substitutions", MetricsMiddleware(s.eventsHandler.HandleMakeSubstitution, "substitutions"))
	mux.HandleFunc("POST /matches/{id}/notes", MetricsMiddleware(s.eventsHandler.HandleAddNote, "notes"))
	mux.HandleFunc("POST /matches/{id}/clock", MetricsMiddleware(s.eventsHandler.HandleRecordClock, "clock"))
	mux.HandleFunc("POST /matches/{id}/checkpoint", MetricsMiddleware(s.eventsHandler.HandleCheckpoint, "checkpoint"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type undoResponse struct {
	Undone bool             `json:"undone"`
	State  projection.State `json:"state"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates domain and store errors into status codes.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	var rej *match.RejectionError
	switch {
	case errors.As(err, &rej):
		writeError(w, http.StatusUnprocessableEntity, "rejected", errors.New(rej.Reason))
	case errors.Is(err, match.ErrSetupIncomplete):
		writeError(w, http.StatusBadRequest, "setup_incomplete", Wrap(op, err))
	case errors.Is(err, model.ErrInvalidEvent):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	case errors.Is(err, service.ErrUnknownTemplate):
		writeError(w, http.StatusBadRequest, "unknown_template", Wrap(op, err))
	case errors.Is(err, match.ErrMatchEnded):
		writeError(w, http.StatusConflict, "match_ended", Wrap(op, err))
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

func parseTeam(raw string, required bool) (model.TeamKey, error) {
	switch model.TeamKey(raw) {
	case model.TeamHome, model.TeamAway:
		return model.TeamKey(raw), nil
	case "":
		if !required {
			return "", nil
		}
	}
	return "", errors.New("team must be home or away")
}
