// Package template defines declarative, per-sport rule configuration.
//
// A RuleTemplate is pure data selected once at match creation; it never
// changes mid-match. It governs legal scoring zones, period structure,
// clock stoppage categories, and substitution rules.
package template

// PeriodDefinition describes one playing period.
type PeriodDefinition struct {
	Label           string `json:"label" koanf:"label"`
	DurationSeconds int    `json:"duration_seconds" koanf:"duration_seconds"`
	BreakSeconds    int    `json:"break_seconds,omitempty" koanf:"break_seconds"`
}

// ZoneDefinition describes a scoring zone and its point value.
type ZoneDefinition struct {
	ID                string   `json:"id" koanf:"id"`
	Label             string   `json:"label" koanf:"label"`
	Points            int      `json:"points" koanf:"points"`
	RestrictedToRoles []string `json:"restricted_to_roles,omitempty" koanf:"restricted_to_roles"`
}

// ScoringRules groups the scoring configuration.
type ScoringRules struct {
	Zones          []ZoneDefinition `json:"zones" koanf:"zones"`
	AllowedScorers []string         `json:"allowed_scorers,omitempty" koanf:"allowed_scorers"`
}

// ClockRules groups the clock configuration.
type ClockRules struct {
	StoppageCategories []string `json:"stoppage_categories" koanf:"stoppage_categories"`
}

// Substitution modes.
const (
	SubstitutionTraditional = "traditional"
	SubstitutionRolling     = "rolling"
)

// SubstitutionRules groups the substitution configuration.
type SubstitutionRules struct {
	Mode         string `json:"mode" koanf:"mode"`
	MaxPerPeriod int    `json:"max_per_period,omitempty" koanf:"max_per_period"`
}

// RuleTemplate is the full rule configuration for one sport variant.
type RuleTemplate struct {
	ID            string            `json:"id" koanf:"id"`
	Sport         string            `json:"sport" koanf:"sport"`
	Name          string            `json:"name" koanf:"name"`
	Version       string            `json:"version" koanf:"version"`
	Periods       []PeriodDefinition `json:"periods" koanf:"periods"`
	Scoring       ScoringRules      `json:"scoring" koanf:"scoring"`
	Clock         ClockRules        `json:"clock" koanf:"clock"`
	Substitutions SubstitutionRules `json:"substitutions" koanf:"substitutions"`
}

// ZoneByID looks up a scoring zone by id.
func (t *RuleTemplate) ZoneByID(id string) (ZoneDefinition, bool) {
	for _, z := range t.Scoring.Zones {
		if z.ID == id {
			return z, true
		}
	}
	return ZoneDefinition{}, false
}

// PeriodCount returns the number of defined periods.
func (t *RuleTemplate) PeriodCount() int {
	return len(t.Periods)
}

// Period returns the period definition at index i.
func (t *RuleTemplate) Period(i int) (PeriodDefinition, bool) {
	if i < 0 || i >= len(t.Periods) {
		return PeriodDefinition{}, false
	}
	return t.Periods[i], true
}

// OpenScoring reports whether the template declares neither zones nor an
// allowed-scorers list; such templates accept any scoring event.
func (t *RuleTemplate) OpenScoring() bool {
	return len(t.Scoring.Zones) == 0 && len(t.Scoring.AllowedScorers) == 0
}

// AllowsStoppage reports whether category is a configured stoppage kind.
// A template with no categories configured accepts any category.
func (t *RuleTemplate) AllowsStoppage(category string) bool {
	if len(t.Clock.StoppageCategories) == 0 {
		return true
	}
	for _, c := range t.Clock.StoppageCategories {
		if c == category {
			return true
		}
	}
	return false
}
