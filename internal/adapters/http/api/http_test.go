package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	api "github.com/okian/courtside/internal/adapters/http/api"
	service "github.com/okian/courtside/internal/app"
	projection "github.com/okian/courtside/internal/domain/projection"
	template "github.com/okian/courtside/internal/domain/template"
	"github.com/okian/courtside/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	svc := service.New()
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc, 100).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeState(rec *httptest.ResponseRecorder) projection.State {
	var st projection.State
	_ = json.Unmarshal(rec.Body.Bytes(), &st)
	return st
}

func createMatch(mux *http.ServeMux, templateID string) projection.State {
	rec := do(mux, http.MethodPost, "/matches", map[string]string{
		"template_id": templateID,
		"home_team":   "Swifts",
		"away_team":   "Ferns",
	})
	return decodeState(rec)
}

func TestCreateMatchEndpoint(t *testing.T) {
	Convey("Given the API", t, func() {
		mux := newTestMux(t)

		Convey("When posting a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/matches", bytes.NewBufferString("{"))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should be a bad request", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting with a missing team name", func() {
			rec := do(mux, http.MethodPost, "/matches", map[string]string{
				"template_id": template.NetballFast5ID,
				"home_team":   "Swifts",
			})

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When posting with an unknown template", func() {
			rec := do(mux, http.MethodPost, "/matches", map[string]string{
				"template_id": "quidditch-1",
				"home_team":   "Swifts",
				"away_team":   "Ferns",
			})

			Convey("Then the template should be reported unknown", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "unknown_template")
			})
		})

		Convey("When posting a valid match", func() {
			rec := do(mux, http.MethodPost, "/matches", map[string]string{
				"template_id": template.NetballFast5ID,
				"home_team":   "Swifts",
				"away_team":   "Ferns",
			})

			Convey("Then the created state should come back", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)
				st := decodeState(rec)
				So(st.MatchID, ShouldNotBeEmpty)
				So(st.GameState, ShouldEqual, projection.GameActive)
				So(st.Teams.Home.Name, ShouldEqual, "Swifts")
			})
		})
	})
}

func TestGoalEndpoints(t *testing.T) {
	Convey("Given an active fast5 match", t, func() {
		mux := newTestMux(t)
		st := createMatch(mux, template.NetballFast5ID)

		Convey("When a GA scores from the super zone", func() {
			rec := do(mux, http.MethodPost, "/matches/"+st.MatchID+"/goals", map[string]string{
				"team": "home", "position": "GA", "zone_id": "super",
			})

			Convey("Then the score should reflect the zone value", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)
				So(decodeState(rec).Teams.Home.Score, ShouldEqual, 3)
			})
		})

		Convey("When a centre attempts to score", func() {
			rec := do(mux, http.MethodPost, "/matches/"+st.MatchID+"/goals", map[string]string{
				"team": "home", "position": "C", "zone_id": "inner",
			})

			Convey("Then the rules rejection should map to 422", func() {
				So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(rec.Body.String(), ShouldContainSubstring, "rejected")
			})
		})

		Convey("When a goal arrives without a position", func() {
			rec := do(mux, http.MethodPost, "/matches/"+st.MatchID+"/goals", map[string]string{
				"team": "home", "zone_id": "inner",
			})

			Convey("Then the rules engine should accept the optional metadata gap", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)
				So(decodeState(rec).Teams.Home.Score, ShouldEqual, 1)
			})
		})

		Convey("When the team key is invalid", func() {
			rec := do(mux, http.MethodPost, "/matches/"+st.MatchID+"/goals", map[string]string{
				"team": "them", "position": "GA",
			})

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When undoing a recorded goal", func() {
			do(mux, http.MethodPost, "/matches/"+st.MatchID+"/goals", map[string]string{
				"team": "away", "position": "GS", "zone_id": "inner",
			})
			rec := do(mux, http.MethodPost, "/matches/"+st.MatchID+"/goals/undo", nil)

			Convey("Then the undo should be acknowledged", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Undone bool             `json:"undone"`
					State  projection.State `json:"state"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Undone, ShouldBeTrue)
				So(resp.State.Teams.Away.Score, ShouldEqual, 0)
			})

			Convey("And a second undo should report a no-op", func() {
				rec := do(mux, http.MethodPost, "/matches/"+st.MatchID+"/goals/undo", nil)
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"undone":false`)
			})
		})
	})
}

func TestPeriodAndLifecycleEndpoints(t *testing.T) {
	Convey("Given an active fast5 match", t, func() {
		mux := newTestMux(t)
		st := createMatch(mux, template.NetballFast5ID)

		Convey("When advancing through every period", func() {
			var last *httptest.ResponseRecorder
			for i := 0; i < 4; i++ {
				last = do(mux, http.MethodPost, "/matches/"+st.MatchID+"/period", nil)
				So(last.Code, ShouldEqual, http.StatusOK)
			}

			Convey("Then the match should be ended", func() {
				So(decodeState(last).GameState, ShouldEqual, projection.GameEnded)
			})

			Convey("And further intents should conflict", func() {
				rec := do(mux, http.MethodPost, "/matches/"+st.MatchID+"/goals", map[string]string{
					"team": "home", "position": "GA", "zone_id": "inner",
				})
				So(rec.Code, ShouldEqual, http.StatusConflict)
				So(rec.Body.String(), ShouldContainSubstring, "match_ended")
			})
		})
	})
}

func TestSupplementalEndpoints(t *testing.T) {
	Convey("Given an active standard match", t, func() {
		mux := newTestMux(t)
		st := createMatch(mux, template.NetballStandardID)
		base := "/matches/" + st.MatchID

		Convey("When recording a turnover", func() {
			rec := do(mux, http.MethodPost, base+"/turnovers", map[string]any{
				"team": "away", "cause": "intercept", "clock_seconds": 312,
			})
			So(rec.Code, ShouldEqual, http.StatusCreated)
		})

		Convey("When recording a turnover with an unknown cause", func() {
			rec := do(mux, http.MethodPost, base+"/turnovers", map[string]any{
				"team": "away", "cause": "gravity",
			})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When calling a timeout without a team", func() {
			rec := do(mux, http.MethodPost, base+"/timeouts", map[string]any{
				"category": "official", "clock_seconds": 100,
			})
			So(rec.Code, ShouldEqual, http.StatusCreated)
		})

		Convey("When calling a timeout with an unknown category", func() {
			rec := do(mux, http.MethodPost, base+"/timeouts", map[string]any{
				"category": "tea-break",
			})
			So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("When substituting, noting, and adjusting the clock", func() {
			rec := do(mux, http.MethodPost, base+"/substitutions", map[string]any{
				"team": "home", "player_out": "p7", "player_in": "p12",
				"position_out": "GD", "position_in": "GD", "clock_seconds": 200,
			})
			So(rec.Code, ShouldEqual, http.StatusCreated)

			rec = do(mux, http.MethodPost, base+"/notes", map[string]any{
				"message": "ball replaced", "clock_seconds": 45,
			})
			So(rec.Code, ShouldEqual, http.StatusCreated)

			rec = do(mux, http.MethodPost, base+"/clock", map[string]any{
				"action": "adjust", "elapsed_seconds": 45, "adjustment_seconds": -5,
			})
			So(rec.Code, ShouldEqual, http.StatusCreated)
		})

		Convey("When the clock action is unknown", func() {
			rec := do(mux, http.MethodPost, base+"/clock", map[string]any{
				"action": "rewind",
			})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When checkpointing", func() {
			rec := do(mux, http.MethodPost, base+"/checkpoint", nil)
			So(rec.Code, ShouldEqual, http.StatusCreated)
		})
	})
}

func TestReadEndpoints(t *testing.T) {
	Convey("Given a match with a goal", t, func() {
		mux := newTestMux(t)
		st := createMatch(mux, template.NetballFast5ID)
		do(mux, http.MethodPost, "/matches/"+st.MatchID+"/goals", map[string]string{
			"team": "home", "position": "GS", "zone_id": "inner",
		})

		Convey("When listing the directory", func() {
			rec := do(mux, http.MethodGet, "/matches", nil)

			Convey("Then the summary should carry the projected score", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var matches []api.MatchSummary
				So(json.Unmarshal(rec.Body.Bytes(), &matches), ShouldBeNil)
				So(matches, ShouldHaveLength, 1)
				So(matches[0].HomeScore, ShouldEqual, 1)
			})
		})

		Convey("When reading the state of an unknown match", func() {
			rec := do(mux, http.MethodGet, "/matches/ghost", nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When reading the event log", func() {
			rec := do(mux, http.MethodGet, "/matches/"+st.MatchID+"/events", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)

			Convey("And a limit above the cap should be refused", func() {
				rec := do(mux, http.MethodGet, "/matches/"+st.MatchID+"/events?limit=5000", nil)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "limit_exceeded")
			})

			Convey("And a garbage limit should be refused", func() {
				rec := do(mux, http.MethodGet, "/matches/"+st.MatchID+"/events?limit=lots", nil)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When listing templates", func() {
			rec := do(mux, http.MethodGet, "/templates", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, template.NetballStandardID)
		})

		Convey("When reading stats", func() {
			rec := do(mux, http.MethodGet, "/stats", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"matches":1`)
		})

		Convey("When scraping health metrics", func() {
			rec := do(mux, http.MethodGet, "/healthz", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}
