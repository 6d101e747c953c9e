// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	repository "github.com/okian/courtside/internal/adapters/repository"
	match "github.com/okian/courtside/internal/domain/match"
	model "github.com/okian/courtside/internal/domain/model"
	projection "github.com/okian/courtside/internal/domain/projection"
	template "github.com/okian/courtside/internal/domain/template"
	"github.com/okian/courtside/pkg/logger"
	"github.com/okian/courtside/pkg/metrics"
)

// MatchSummary is a directory row enriched with the projected score.
type MatchSummary struct {
	repository.MatchRecord
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	GameState string `json:"game_state"`
}

// Stats is a point-in-time snapshot for the stats endpoint.
type Stats struct {
	Matches       int `json:"matches"`
	ActiveMatches int `json:"active_matches"`
	EndedMatches  int `json:"ended_matches"`
	LiveSessions  int `json:"live_sessions"`
}

// Service owns the store, the template registry, and one controller per
// match. Controllers are created on demand and resumed from the log, so
// a restart loses nothing but warm state.
type Service struct {
	mu sync.RWMutex

	store       repository.Store
	registry    *template.Registry
	controllers map[string]*match.Controller

	// Configuration
	storePath     string
	templatesFile string
	source        model.Source

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		controllers: make(map[string]*match.Controller),
		source:      model.Source{DeviceID: "courtside", Platform: "server"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the store and loads rule templates.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting match service...")

	s.registry = template.NewRegistry()
	if s.templatesFile != "" {
		n, err := s.registry.LoadFile(s.templatesFile)
		if err != nil {
			return fmt.Errorf("load rule templates: %w", err)
		}
		s.logger.Info(ctx, "loaded rule templates from file",
			logger.String("path", s.templatesFile),
			logger.Int("templates", n),
		)
	}

	if s.storePath != "" {
		store, err := repository.NewSQLiteStore(ctx, s.storePath)
		if err != nil {
			return fmt.Errorf("open match store: %w", err)
		}
		s.store = instrument(store)
		s.logger.Info(ctx, "using sqlite store", logger.String("path", s.storePath))
	} else {
		s.store = instrument(repository.NewMemoryStore())
		s.logger.Info(ctx, "using in-memory store")
	}

	s.started = true
	s.logger.Info(ctx, "match service started",
		logger.Int("templates", len(s.registry.All())),
	)
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping match service...")
	if err := s.store.Close(); err != nil {
		s.logger.Error(context.Background(), "closing store", logger.Error(err))
	}
	s.controllers = make(map[string]*match.Controller)
	s.started = false
	s.logger.Info(context.Background(), "match service stopped")
}

// CreateMatch starts a new match under the named rule template and
// returns its initial projected state.
func (s *Service) CreateMatch(ctx context.Context, templateID, homeTeam, awayTeam string) (projection.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmpl, ok := s.registry.ByID(templateID)
	if !ok {
		return projection.State{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, templateID)
	}

	c, err := match.Start(ctx, s.store, tmpl, homeTeam, awayTeam, match.WithSource(s.source))
	if err != nil {
		return projection.State{}, err
	}
	s.controllers[c.MatchID()] = c

	st := c.State()
	metrics.RecordMatchStarted()
	metrics.UpdateActiveMatches(s.liveSessionsLocked())
	s.logger.Info(ctx, "match created",
		logger.String("matchID", c.MatchID()),
		logger.String("template", templateID),
		logger.String("home", st.Teams.Home.Name),
		logger.String("away", st.Teams.Away.Name),
	)
	return st, nil
}

// RecordGoal validates and appends a goal for a match.
func (s *Service) RecordGoal(ctx context.Context, matchID string, team model.TeamKey, position, zoneID string) (projection.State, error) {
	c, err := s.controllerFor(ctx, matchID)
	if err != nil {
		return projection.State{}, err
	}
	st, err := c.RecordGoal(ctx, team, position, zoneID)
	return st, s.observe(ctx, matchID, model.TypeGoalScored, err)
}

// UndoGoal reverses the most recent goal with a compensating event.
// The returned flag reports whether anything was actually reversed.
func (s *Service) UndoGoal(ctx context.Context, matchID string) (projection.State, bool, error) {
	c, err := s.controllerFor(ctx, matchID)
	if err != nil {
		return projection.State{}, false, err
	}
	st, undone, err := c.UndoLastGoal(ctx)
	if err == nil && !undone {
		metrics.RecordUndoNoop()
		s.logger.Debug(ctx, "undo with no goal to reverse", logger.String("matchID", matchID))
		return st, false, nil
	}
	return st, undone, s.observe(ctx, matchID, model.TypeGoalRemoved, err)
}

// AdvancePeriod moves the match to the next period, or ends it when the
// final period closes.
func (s *Service) AdvancePeriod(ctx context.Context, matchID string) (projection.State, error) {
	c, err := s.controllerFor(ctx, matchID)
	if err != nil {
		return projection.State{}, err
	}
	before := len(c.State().Events)
	st, err := c.AdvancePeriod(ctx)
	if err != nil {
		return st, s.observe(ctx, matchID, model.TypePeriodTransition, err)
	}
	// Mid-match an advance appends an end/start pair; count each event.
	for range st.Events[before:] {
		metrics.RecordEventAppended(string(model.TypePeriodTransition))
	}

	if st.GameState == projection.GameEnded {
		if err := s.store.UpdateMatchStatus(ctx, matchID, repository.StatusEnded); err != nil {
			return st, err
		}
		metrics.RecordMatchEnded()
		winner, draw := st.Winner()
		if draw {
			s.logger.Info(ctx, "match ended in a draw", logger.String("matchID", matchID))
		} else {
			s.logger.Info(ctx, "match ended",
				logger.String("matchID", matchID),
				logger.String("winner", winner),
			)
		}

		s.mu.Lock()
		delete(s.controllers, matchID)
		metrics.UpdateActiveMatches(s.liveSessionsLocked())
		s.mu.Unlock()
	}
	return st, nil
}

// RecordTurnover appends a possession-change fact.
func (s *Service) RecordTurnover(ctx context.Context, matchID string, team model.TeamKey, cause model.TurnoverCause, clockSeconds int, note string) (projection.State, error) {
	c, err := s.controllerFor(ctx, matchID)
	if err != nil {
		return projection.State{}, err
	}
	st, err := c.RecordTurnover(ctx, team, cause, clockSeconds, note)
	return st, s.observe(ctx, matchID, model.TypeTurnoverRecorded, err)
}

// CallTimeout appends a stoppage fact.
func (s *Service) CallTimeout(ctx context.Context, matchID string, team model.TeamKey, category string, clockSeconds int) (projection.State, error) {
	c, err := s.controllerFor(ctx, matchID)
	if err != nil {
		return projection.State{}, err
	}
	st, err := c.CallTimeout(ctx, team, category, clockSeconds)
	return st, s.observe(ctx, matchID, model.TypeTimeoutCalled, err)
}

// MakeSubstitution appends a player swap.
func (s *Service) MakeSubstitution(ctx context.Context, matchID string, team model.TeamKey, playerOut, playerIn, positionOut, positionIn string, clockSeconds int) (projection.State, error) {
	c, err := s.controllerFor(ctx, matchID)
	if err != nil {
		return projection.State{}, err
	}
	st, err := c.MakeSubstitution(ctx, team, playerOut, playerIn, positionOut, positionIn, clockSeconds)
	return st, s.observe(ctx, matchID, model.TypeSubstitutionMade, err)
}

// AddNote appends a free-text annotation.
func (s *Service) AddNote(ctx context.Context, matchID, message string, clockSeconds int) (projection.State, error) {
	c, err := s.controllerFor(ctx, matchID)
	if err != nil {
		return projection.State{}, err
	}
	st, err := c.AddNote(ctx, message, clockSeconds)
	return st, s.observe(ctx, matchID, model.TypeNoteAdded, err)
}

// RecordClock appends a clock fact.
func (s *Service) RecordClock(ctx context.Context, matchID, action string, elapsedSeconds, adjustmentSeconds int, note string) (projection.State, error) {
	c, err := s.controllerFor(ctx, matchID)
	if err != nil {
		return projection.State{}, err
	}
	st, err := c.RecordClock(ctx, action, elapsedSeconds, adjustmentSeconds, note)
	return st, s.observe(ctx, matchID, model.TypeClock, err)
}

// Checkpoint appends a sync checkpoint for the match.
func (s *Service) Checkpoint(ctx context.Context, matchID string) (projection.State, error) {
	c, err := s.controllerFor(ctx, matchID)
	if err != nil {
		return projection.State{}, err
	}
	st, err := c.Checkpoint(ctx)
	return st, s.observe(ctx, matchID, model.TypeSyncCheckpoint, err)
}

// GetState returns the projected state for a match.
func (s *Service) GetState(ctx context.Context, matchID string) (projection.State, error) {
	c, err := s.controllerFor(ctx, matchID)
	if err != nil {
		return projection.State{}, err
	}
	return c.State(), nil
}

// GetEvents returns the tail of the match's event log, newest last.
// A limit of zero returns the full log.
func (s *Service) GetEvents(ctx context.Context, matchID string, limit int) ([]model.Event, error) {
	c, err := s.controllerFor(ctx, matchID)
	if err != nil {
		return nil, err
	}
	events := c.State().Events
	if limit > 0 && limit < len(events) {
		events = events[len(events)-limit:]
	}
	out := make([]model.Event, len(events))
	copy(out, events)
	return out, nil
}

// ListMatches returns the match directory with projected scores, most
// recently created first.
func (s *Service) ListMatches(ctx context.Context) ([]MatchSummary, error) {
	recs, err := s.store.ListMatches(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MatchSummary, 0, len(recs))
	for _, rec := range recs {
		st, err := s.GetState(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, MatchSummary{
			MatchRecord: rec,
			HomeScore:   st.Teams.Home.Score,
			AwayScore:   st.Teams.Away.Score,
			GameState:   string(st.GameState),
		})
	}
	return out, nil
}

// Templates returns every registered rule template.
func (s *Service) Templates(ctx context.Context) []template.RuleTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.All()
}

// GetStats returns service statistics.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	recs, err := s.store.ListMatches(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Matches: len(recs)}
	for _, rec := range recs {
		switch rec.Status {
		case repository.StatusEnded:
			stats.EndedMatches++
		default:
			stats.ActiveMatches++
		}
	}

	s.mu.RLock()
	stats.LiveSessions = len(s.controllers)
	s.mu.RUnlock()
	return stats, nil
}

// controllerFor returns the live controller for a match, resuming it
// from the log on first touch after a restart.
func (s *Service) controllerFor(ctx context.Context, matchID string) (*match.Controller, error) {
	s.mu.RLock()
	c, ok := s.controllers[matchID]
	s.mu.RUnlock()
	if ok {
		return c, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.controllers[matchID]; ok {
		return c, nil
	}

	rec, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	tmpl, ok := s.registry.ByID(rec.TemplateID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, rec.TemplateID)
	}

	start := time.Now()
	c, err = match.Resume(ctx, s.store, tmpl, matchID, match.WithSource(s.source))
	if err != nil {
		return nil, err
	}
	replayed := len(c.State().Events)
	metrics.RecordReplay(replayed)
	metrics.RecordProjectionLatency(time.Since(start).Seconds() * 1000)
	s.logger.Debug(ctx, "resumed match from log",
		logger.String("matchID", matchID),
		logger.Int("events", replayed),
	)

	s.controllers[matchID] = c
	return c, nil
}

// observe funnels per-operation metrics and logging in one place so the
// op methods stay flat. It returns err unchanged.
func (s *Service) observe(ctx context.Context, matchID string, t model.Type, err error) error {
	if err == nil {
		metrics.RecordEventAppended(string(t))
		return nil
	}

	var rej *match.RejectionError
	if errors.As(err, &rej) {
		metrics.RecordValidationRejection()
		s.logger.Info(ctx, "intent rejected by rules",
			logger.String("matchID", matchID),
			logger.String("type", string(t)),
			logger.String("reason", rej.Reason),
		)
		return err
	}

	s.logger.Error(ctx, "operation failed",
		logger.String("matchID", matchID),
		logger.String("type", string(t)),
		logger.Error(err),
	)
	return err
}

func (s *Service) liveSessionsLocked() int {
	return len(s.controllers)
}
