// Package rules implements rule-template-driven validation of match events.
//
// Validation is a pure function of (event payload, template) — no hidden
// state, fully deterministic, safe to call speculatively before appending.
package rules

import (
	"fmt"
	"slices"

	model "github.com/okian/courtside/internal/domain/model"
	template "github.com/okian/courtside/internal/domain/template"
)

// Result is the outcome of a validation check. A rejected result carries
// a human-readable reason naming the offending identifier.
type Result struct {
	OK     bool
	Reason string
}

func ok() Result { return Result{OK: true} }

func reject(format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}

// ValidateGoal decides whether a candidate scoring event is legal under
// the template. The checks run in order:
//
//  1. A template with neither zones nor an allowed-scorers list accepts
//     any goal (open scoring escape hatch).
//  2. A declared position must appear in the allowed-scorers list.
//  3. A goal without a target zone is legal; the zone is optional metadata.
//  4. A named zone must exist in the template.
//  5. A zone restricted to certain roles requires the position to be one.
//  6. The claimed points must equal the zone's configured points.
func ValidateGoal(p model.GoalScoredPayload, tmpl *template.RuleTemplate) Result {
	if tmpl.OpenScoring() {
		return ok()
	}

	if len(tmpl.Scoring.AllowedScorers) > 0 && p.Position != "" &&
		!slices.Contains(tmpl.Scoring.AllowedScorers, p.Position) {
		return reject("position %s is not permitted to score in this rule set", p.Position)
	}

	if p.LocationZone == "" {
		return ok()
	}

	zone, found := tmpl.ZoneByID(p.LocationZone)
	if !found {
		return reject("zone %s is not configured", p.LocationZone)
	}

	if len(zone.RestrictedToRoles) > 0 && p.Position != "" &&
		!slices.Contains(zone.RestrictedToRoles, p.Position) {
		return reject("position %s cannot score from zone %s", p.Position, zone.Label)
	}

	if zone.Points != p.Points {
		return reject("expected %d point(s) for zone %s but received %d",
			zone.Points, zone.Label, p.Points)
	}

	return ok()
}

// ValidateTimeout checks the stoppage category against the template's
// configured clock stoppage categories.
func ValidateTimeout(p model.TimeoutCalledPayload, tmpl *template.RuleTemplate) Result {
	if !tmpl.AllowsStoppage(p.Category) {
		return reject("stoppage category %s is not configured in this rule set", p.Category)
	}
	return ok()
}

// ValidateSubstitution checks the per-period substitution quota.
// priorInPeriod is the number of substitutions the same team already made
// in the current period, counted from the event log by the caller.
func ValidateSubstitution(p model.SubstitutionMadePayload, tmpl *template.RuleTemplate, priorInPeriod int) Result {
	if tmpl.Substitutions.Mode != template.SubstitutionTraditional {
		return ok()
	}
	if limit := tmpl.Substitutions.MaxPerPeriod; limit > 0 && priorInPeriod >= limit {
		return reject("team %s has used all %d substitutions for this period", p.Team, limit)
	}
	return ok()
}
