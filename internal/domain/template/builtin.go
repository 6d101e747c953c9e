package template

// Built-in template ids.
const (
	NetballStandardID = "netball-standard-1"
	NetballFast5ID    = "netball-fast5-1"
)

const minutes = 60

// netballStandard is the World Netball standard ruleset: four 15-minute
// quarters and a single one-point goal circle restricted to GA and GS.
func netballStandard() RuleTemplate {
	return RuleTemplate{
		ID:      NetballStandardID,
		Sport:   "netball",
		Name:    "Netball (World Netball Standard)",
		Version: "0.1.0",
		Periods: []PeriodDefinition{
			{Label: "Q1", DurationSeconds: 15 * minutes, BreakSeconds: 3 * minutes},
			{Label: "Q2", DurationSeconds: 15 * minutes, BreakSeconds: 12 * minutes},
			{Label: "Q3", DurationSeconds: 15 * minutes, BreakSeconds: 3 * minutes},
			{Label: "Q4", DurationSeconds: 15 * minutes},
		},
		Scoring: ScoringRules{
			Zones: []ZoneDefinition{
				{ID: "circle", Label: "Goal Circle", Points: 1, RestrictedToRoles: []string{"GA", "GS"}},
			},
		},
		Clock: ClockRules{
			StoppageCategories: []string{"team", "injury", "official"},
		},
		Substitutions: SubstitutionRules{Mode: SubstitutionRolling},
	}
}

// netballFast5 is the Fast5 variant: four 6-minute quarters with tiered
// shooting zones worth 1, 2, and 3 points.
func netballFast5() RuleTemplate {
	return RuleTemplate{
		ID:      NetballFast5ID,
		Sport:   "netball",
		Name:    "Netball Fast5",
		Version: "0.1.0",
		Periods: []PeriodDefinition{
			{Label: "Q1", DurationSeconds: 6 * minutes, BreakSeconds: 2 * minutes},
			{Label: "Q2", DurationSeconds: 6 * minutes, BreakSeconds: 6 * minutes},
			{Label: "Q3", DurationSeconds: 6 * minutes, BreakSeconds: 2 * minutes},
			{Label: "Q4", DurationSeconds: 6 * minutes},
		},
		Scoring: ScoringRules{
			Zones: []ZoneDefinition{
				{ID: "inner", Label: "Inner Circle", Points: 1, RestrictedToRoles: []string{"GA", "GS"}},
				{ID: "outer", Label: "Outer Circle", Points: 2, RestrictedToRoles: []string{"GA", "GS"}},
				{ID: "super", Label: "Super Shot", Points: 3, RestrictedToRoles: []string{"GA", "GS"}},
			},
		},
		Clock: ClockRules{
			StoppageCategories: []string{"team", "injury", "official"},
		},
		Substitutions: SubstitutionRules{Mode: SubstitutionRolling},
	}
}

// Builtin returns the templates compiled into the binary.
func Builtin() []RuleTemplate {
	return []RuleTemplate{netballStandard(), netballFast5()}
}
