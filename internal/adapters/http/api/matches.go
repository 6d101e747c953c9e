// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// MatchesHandler handles match directory and read requests.
type MatchesHandler struct {
	deps          Dependencies
	maxEventLimit int
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps Dependencies, maxEventLimit int) *MatchesHandler {
	return &MatchesHandler{deps: deps, maxEventLimit: maxEventLimit}
}

// createMatchRequest mirrors the schema for POST /matches.
type createMatchRequest struct {
	TemplateID string `json:"template_id"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
}

func (r createMatchRequest) validate() error {
	switch {
	case strings.TrimSpace(r.TemplateID) == "":
		return errors.New("missing template_id")
	case strings.TrimSpace(r.HomeTeam) == "":
		return errors.New("missing home_team")
	case strings.TrimSpace(r.AwayTeam) == "":
		return errors.New("missing away_team")
	}
	return nil
}

// HandleCreateMatch handles POST /matches requests.
func (h *MatchesHandler) HandleCreateMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_match"
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	st, err := h.deps.CreateMatch(r.Context(), req.TemplateID, req.HomeTeam, req.AwayTeam)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// HandleListMatches handles GET /matches requests.
func (h *MatchesHandler) HandleListMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_matches"
	matches, err := h.deps.ListMatches(r.Context())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	if matches == nil {
		matches = []MatchSummary{}
	}
	writeJSON(w, http.StatusOK, matches)
}

// HandleGetMatch handles GET /matches/{id} requests.
func (h *MatchesHandler) HandleGetMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_match"
	st, err := h.deps.GetState(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleGetEvents handles GET /matches/{id}/events?limit=N requests.
// Without a limit the full ordered log is returned.
func (h *MatchesHandler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_events"

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxEventLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	events, err := h.deps.GetEvents(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
