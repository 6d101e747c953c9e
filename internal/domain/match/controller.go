// Package match orchestrates intents into validated, appended events.
//
// A Controller owns one match's event log: it builds candidate events,
// runs them through the rules engine, appends them through the storage
// collaborator, and folds them into the projected state. All operations
// are serialized behind a mutex so sequence numbers stay gap-free.
package match

import (
	"context"
	"strings"
	"sync"
	"time"

	repository "github.com/okian/courtside/internal/adapters/repository"
	model "github.com/okian/courtside/internal/domain/model"
	projection "github.com/okian/courtside/internal/domain/projection"
	rules "github.com/okian/courtside/internal/domain/rules"
	template "github.com/okian/courtside/internal/domain/template"
)

const matchVersion = 1

// Controller is the single writer for one match's event log.
type Controller struct {
	mu sync.Mutex

	matchID string
	tmpl    *template.RuleTemplate
	store   repository.Store

	state   projection.State
	nextSeq int

	// Identity/time collaborators; overridable for tests.
	newID  func() string
	now    func() time.Time
	source model.Source
}

// Start creates a new match: it registers the directory record and
// emits the mandatory match_created and opening period_transition
// events. Fails with ErrSetupIncomplete if either team name is empty.
func Start(ctx context.Context, store repository.Store, tmpl *template.RuleTemplate, homeTeam, awayTeam string, opts ...Option) (*Controller, error) {
	homeTeam = strings.TrimSpace(homeTeam)
	awayTeam = strings.TrimSpace(awayTeam)
	if homeTeam == "" || awayTeam == "" {
		return nil, ErrSetupIncomplete
	}

	c := newController(store, tmpl, opts...)
	c.matchID = c.newID()

	rec := repository.MatchRecord{
		ID:         c.matchID,
		Name:       homeTeam + " vs " + awayTeam,
		HomeTeam:   homeTeam,
		AwayTeam:   awayTeam,
		TemplateID: tmpl.ID,
		CreatedAt:  c.now(),
		Status:     repository.StatusActive,
	}
	if err := store.CreateMatch(ctx, rec); err != nil {
		return nil, err
	}

	if _, err := c.append(ctx, model.MatchCreatedPayload{
		TemplateID: tmpl.ID,
		MatchName:  rec.Name,
		HomeTeam:   homeTeam,
		AwayTeam:   awayTeam,
	}); err != nil {
		return nil, err
	}

	opening, _ := tmpl.Period(0)
	if _, err := c.append(ctx, model.PeriodTransitionPayload{
		PeriodIndex: 0,
		PeriodLabel: opening.Label,
		Reason:      model.PeriodStart,
	}); err != nil {
		return nil, err
	}

	return c, nil
}

// Resume rebuilds a controller for an existing match by replaying its
// log from the store. Returns the store's error unchanged when the log
// cannot be loaded; it never fabricates state from an empty log.
func Resume(ctx context.Context, store repository.Store, tmpl *template.RuleTemplate, matchID string, opts ...Option) (*Controller, error) {
	events, err := store.LoadEvents(ctx, matchID)
	if err != nil {
		return nil, err
	}

	c := newController(store, tmpl, opts...)
	c.matchID = matchID
	c.state = projection.Reduce(tmpl, events)
	c.nextSeq = len(events)
	return c, nil
}

func newController(store repository.Store, tmpl *template.RuleTemplate, opts ...Option) *Controller {
	c := &Controller{
		tmpl:   tmpl,
		store:  store,
		state:  projection.State{GameState: projection.GameSetup},
		newID:  defaultIDGenerator,
		now:    time.Now,
		source: model.Source{DeviceID: "courtside", Platform: "server"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MatchID returns the match identity.
func (c *Controller) MatchID() string {
	return c.matchID
}

// Template returns the rule template fixed at match creation.
func (c *Controller) Template() *template.RuleTemplate {
	return c.tmpl
}

// State returns the current projected state.
func (c *Controller) State() projection.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RecordGoal validates and appends a goal_scored event. The point value
// is resolved from the named zone; goals without a zone are worth one.
// A rules rejection returns a *RejectionError and leaves the log
// untouched.
func (c *Controller) RecordGoal(ctx context.Context, team model.TeamKey, position, zoneID string) (projection.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireActive(); err != nil {
		return c.state, err
	}

	points := 1
	if zone, found := c.tmpl.ZoneByID(zoneID); found {
		points = zone.Points
	}

	payload := model.GoalScoredPayload{
		Team:         team,
		Position:     position,
		LocationZone: zoneID,
		Points:       points,
		PeriodIndex:  c.state.Period.Index,
	}
	if res := rules.ValidateGoal(payload, c.tmpl); !res.OK {
		return c.state, &RejectionError{Reason: res.Reason}
	}

	if _, err := c.append(ctx, payload); err != nil {
		return c.state, err
	}
	return c.state, nil
}

// UndoLastGoal reverses the most recent goal not already compensated by
// appending a goal_removed event referencing it. The log itself is never
// edited. Returns undone=false (a silent no-op) when no candidate
// remains.
func (c *Controller) UndoLastGoal(ctx context.Context) (projection.State, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireActive(); err != nil {
		return c.state, false, err
	}

	goal, found := projection.LastUncompensatedGoal(c.state.Events)
	if !found {
		return c.state, false, nil
	}

	if _, err := c.append(ctx, model.GoalRemovedPayload{
		ReplacedEventID: goal.EventID,
		Reason:          "manual",
	}); err != nil {
		return c.state, false, err
	}
	return c.state, true, nil
}

// AdvancePeriod ends the current period and, unless it was the last
// defined period, starts the next. Ending the last period leaves no
// subsequent start, which the projection folds into the ended state.
func (c *Controller) AdvancePeriod(ctx context.Context) (projection.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireActive(); err != nil {
		return c.state, err
	}

	current := c.state.Period.Index
	currentDef, _ := c.tmpl.Period(current)
	if _, err := c.append(ctx, model.PeriodTransitionPayload{
		PeriodIndex: current,
		PeriodLabel: currentDef.Label,
		Reason:      model.PeriodEnd,
	}); err != nil {
		return c.state, err
	}

	next, hasNext := c.tmpl.Period(current + 1)
	if !hasNext {
		return c.state, nil
	}
	if _, err := c.append(ctx, model.PeriodTransitionPayload{
		PeriodIndex: current + 1,
		PeriodLabel: next.Label,
		Reason:      model.PeriodStart,
	}); err != nil {
		return c.state, err
	}
	return c.state, nil
}

// RecordTurnover appends a turnover_recorded event.
func (c *Controller) RecordTurnover(ctx context.Context, team model.TeamKey, cause model.TurnoverCause, clockSeconds int, note string) (projection.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireActive(); err != nil {
		return c.state, err
	}
	if _, err := c.append(ctx, model.TurnoverRecordedPayload{
		Team:             team,
		PeriodIndex:      c.state.Period.Index,
		ClockTimeSeconds: clockSeconds,
		Cause:            cause,
		Note:             note,
	}); err != nil {
		return c.state, err
	}
	return c.state, nil
}

// CallTimeout appends a timeout_called event. The category must be one
// of the template's stoppage categories. Team is empty for official
// stoppages.
func (c *Controller) CallTimeout(ctx context.Context, team model.TeamKey, category string, clockSeconds int) (projection.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireActive(); err != nil {
		return c.state, err
	}

	payload := model.TimeoutCalledPayload{
		Team:             team,
		PeriodIndex:      c.state.Period.Index,
		ClockTimeSeconds: clockSeconds,
		Category:         category,
	}
	if res := rules.ValidateTimeout(payload, c.tmpl); !res.OK {
		return c.state, &RejectionError{Reason: res.Reason}
	}

	if _, err := c.append(ctx, payload); err != nil {
		return c.state, err
	}
	return c.state, nil
}

// MakeSubstitution appends a substitution_made event, enforcing the
// template's per-period quota in traditional mode.
func (c *Controller) MakeSubstitution(ctx context.Context, team model.TeamKey, playerOut, playerIn, positionOut, positionIn string, clockSeconds int) (projection.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireActive(); err != nil {
		return c.state, err
	}

	payload := model.SubstitutionMadePayload{
		PeriodIndex:      c.state.Period.Index,
		ClockTimeSeconds: clockSeconds,
		Team:             team,
		PlayerOutID:      playerOut,
		PlayerInID:       playerIn,
		PositionOut:      positionOut,
		PositionIn:       positionIn,
	}
	prior := projection.CountSubstitutions(c.state.Events, team, c.state.Period.Index)
	if res := rules.ValidateSubstitution(payload, c.tmpl, prior); !res.OK {
		return c.state, &RejectionError{Reason: res.Reason}
	}

	if _, err := c.append(ctx, payload); err != nil {
		return c.state, err
	}
	return c.state, nil
}

// AddNote appends a note_added event.
func (c *Controller) AddNote(ctx context.Context, message string, clockSeconds int) (projection.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireActive(); err != nil {
		return c.state, err
	}
	if _, err := c.append(ctx, model.NoteAddedPayload{
		PeriodIndex:      c.state.Period.Index,
		ClockTimeSeconds: clockSeconds,
		Message:          message,
	}); err != nil {
		return c.state, err
	}
	return c.state, nil
}

// RecordClock appends a clock event. Clock events are recorded facts;
// nothing here drives a ticking timer.
func (c *Controller) RecordClock(ctx context.Context, action string, elapsedSeconds, adjustmentSeconds int, note string) (projection.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireActive(); err != nil {
		return c.state, err
	}
	if _, err := c.append(ctx, model.ClockPayload{
		Action:            action,
		PeriodIndex:       c.state.Period.Index,
		ElapsedSeconds:    elapsedSeconds,
		AdjustmentSeconds: adjustmentSeconds,
		Note:              note,
	}); err != nil {
		return c.state, err
	}
	return c.state, nil
}

// Checkpoint appends a sync_checkpoint event stamping how many events
// the emitting side had folded, so diverging replicas can be spotted
// when logs are reconciled.
func (c *Controller) Checkpoint(ctx context.Context) (projection.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireActive(); err != nil {
		return c.state, err
	}
	if _, err := c.append(ctx, model.SyncCheckpointPayload{
		ProjectionVersion: c.nextSeq,
	}); err != nil {
		return c.state, err
	}
	return c.state, nil
}

func (c *Controller) requireActive() error {
	if c.state.GameState == projection.GameEnded {
		return ErrMatchEnded
	}
	return nil
}

// append builds the event envelope, checks its shape, writes it through
// the store, and folds it into the state. The sequence counter advances
// only after a successful append, so a storage failure leaves the log
// and the projection exactly as they were.
func (c *Controller) append(ctx context.Context, payload model.Payload) (model.Event, error) {
	e := model.Event{
		MatchID:      c.matchID,
		EventID:      c.newID(),
		Type:         payload.EventType(),
		CreatedAt:    c.now(),
		Source:       c.source,
		Sequence:     c.nextSeq,
		MatchVersion: matchVersion,
		Payload:      payload,
	}
	if err := e.Validate(); err != nil {
		return model.Event{}, err
	}
	if err := c.store.AppendEvent(ctx, e); err != nil {
		return model.Event{}, err
	}
	c.nextSeq++
	c.state = projection.Apply(c.state, c.tmpl, e)
	return e, nil
}
