package rules_test

import (
	"testing"

	model "github.com/okian/courtside/internal/domain/model"
	rules "github.com/okian/courtside/internal/domain/rules"
	template "github.com/okian/courtside/internal/domain/template"
	. "github.com/smartystreets/goconvey/convey"
)

func fast5() *template.RuleTemplate {
	tmpl, ok := template.NewRegistry().ByID(template.NetballFast5ID)
	So(ok, ShouldBeTrue)
	return tmpl
}

func TestValidateGoal(t *testing.T) {
	Convey("Given the Fast5 template", t, func() {
		tmpl := fast5()

		Convey("When GA shoots from the outer circle for 2", func() {
			res := rules.ValidateGoal(model.GoalScoredPayload{
				Team: model.TeamHome, Position: "GA", LocationZone: "outer", Points: 2,
			}, tmpl)

			Convey("Then the goal should be legal", func() {
				So(res.OK, ShouldBeTrue)
			})
		})

		Convey("When C shoots from the inner circle", func() {
			res := rules.ValidateGoal(model.GoalScoredPayload{
				Team: model.TeamAway, Position: "C", LocationZone: "inner", Points: 1,
			}, tmpl)

			Convey("Then the goal should be rejected naming the position and zone", func() {
				So(res.OK, ShouldBeFalse)
				So(res.Reason, ShouldContainSubstring, "C")
				So(res.Reason, ShouldContainSubstring, "Inner Circle")
			})
		})

		Convey("When the claimed points do not match the zone", func() {
			res := rules.ValidateGoal(model.GoalScoredPayload{
				Team: model.TeamHome, Position: "GS", LocationZone: "outer", Points: 1,
			}, tmpl)

			Convey("Then the rejection should name expected and received points", func() {
				So(res.OK, ShouldBeFalse)
				So(res.Reason, ShouldContainSubstring, "expected 2 point(s)")
				So(res.Reason, ShouldContainSubstring, "Outer Circle")
				So(res.Reason, ShouldContainSubstring, "received 1")
			})
		})

		Convey("When the zone is not configured", func() {
			res := rules.ValidateGoal(model.GoalScoredPayload{
				Team: model.TeamHome, Position: "GA", LocationZone: "midcourt", Points: 1,
			}, tmpl)

			Convey("Then the rejection should name the unknown zone id", func() {
				So(res.OK, ShouldBeFalse)
				So(res.Reason, ShouldContainSubstring, "midcourt")
				So(res.Reason, ShouldContainSubstring, "not configured")
			})
		})

		Convey("When no zone is declared", func() {
			res := rules.ValidateGoal(model.GoalScoredPayload{
				Team: model.TeamHome, Position: "GA", Points: 1,
			}, tmpl)

			Convey("Then the goal should be legal; the zone is optional metadata", func() {
				So(res.OK, ShouldBeTrue)
			})
		})
	})

	Convey("Given a template with an allowed-scorers list", t, func() {
		tmpl := &template.RuleTemplate{
			ID:      "restricted",
			Periods: []template.PeriodDefinition{{Label: "H1"}},
			Scoring: template.ScoringRules{AllowedScorers: []string{"GA", "GS"}},
		}

		Convey("When a wing attack shoots", func() {
			res := rules.ValidateGoal(model.GoalScoredPayload{
				Team: model.TeamHome, Position: "WA", Points: 1,
			}, tmpl)

			Convey("Then the goal should be rejected naming the position", func() {
				So(res.OK, ShouldBeFalse)
				So(res.Reason, ShouldContainSubstring, "WA")
			})
		})
	})

	Convey("Given a template with no zones and no allowed scorers", t, func() {
		open := &template.RuleTemplate{
			ID:      "open",
			Periods: []template.PeriodDefinition{{Label: "H1"}},
		}

		Convey("When any goal is submitted", func() {
			res := rules.ValidateGoal(model.GoalScoredPayload{
				Team: model.TeamAway, Position: "C", LocationZone: "anywhere", Points: 7,
			}, open)

			Convey("Then it should be unconditionally legal", func() {
				So(res.OK, ShouldBeTrue)
			})
		})
	})
}

func TestValidateTimeout(t *testing.T) {
	Convey("Given the standard netball template", t, func() {
		tmpl, ok := template.NewRegistry().ByID(template.NetballStandardID)
		So(ok, ShouldBeTrue)

		Convey("Then configured stoppage categories should pass", func() {
			res := rules.ValidateTimeout(model.TimeoutCalledPayload{
				Team: model.TeamHome, Category: "injury",
			}, tmpl)
			So(res.OK, ShouldBeTrue)
		})

		Convey("And unknown categories should be rejected by name", func() {
			res := rules.ValidateTimeout(model.TimeoutCalledPayload{
				Team: model.TeamHome, Category: "tv_break",
			}, tmpl)
			So(res.OK, ShouldBeFalse)
			So(res.Reason, ShouldContainSubstring, "tv_break")
		})
	})
}

func TestValidateSubstitution(t *testing.T) {
	Convey("Given a traditional template capped at 2 substitutions per period", t, func() {
		tmpl := &template.RuleTemplate{
			ID:      "capped",
			Periods: []template.PeriodDefinition{{Label: "H1"}},
			Substitutions: template.SubstitutionRules{
				Mode:         template.SubstitutionTraditional,
				MaxPerPeriod: 2,
			},
		}
		sub := model.SubstitutionMadePayload{
			Team: model.TeamHome, PlayerOutID: "p1", PlayerInID: "p2",
		}

		Convey("Then substitutions under the quota should pass", func() {
			So(rules.ValidateSubstitution(sub, tmpl, 1).OK, ShouldBeTrue)
		})

		Convey("And the quota boundary should reject", func() {
			res := rules.ValidateSubstitution(sub, tmpl, 2)
			So(res.OK, ShouldBeFalse)
			So(res.Reason, ShouldContainSubstring, "substitutions")
		})
	})

	Convey("Given a rolling-substitution template", t, func() {
		tmpl, ok := template.NewRegistry().ByID(template.NetballFast5ID)
		So(ok, ShouldBeTrue)
		sub := model.SubstitutionMadePayload{
			Team: model.TeamAway, PlayerOutID: "p1", PlayerInID: "p2",
		}

		Convey("Then there is no quota regardless of prior count", func() {
			So(rules.ValidateSubstitution(sub, tmpl, 50).OK, ShouldBeTrue)
		})
	})
}
