package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	repository "github.com/okian/courtside/internal/adapters/repository"
	model "github.com/okian/courtside/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func record(id string) repository.MatchRecord {
	return repository.MatchRecord{
		ID:         id,
		Name:       "Swifts vs Ferns",
		HomeTeam:   "Swifts",
		AwayTeam:   "Ferns",
		TemplateID: "netball-fast5-1",
		CreatedAt:  time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC),
		Status:     repository.StatusActive,
	}
}

func event(matchID string, seq int, p model.Payload) model.Event {
	return model.Event{
		MatchID:      matchID,
		EventID:      matchID + "-evt-" + string(rune('a'+seq)),
		Type:         p.EventType(),
		CreatedAt:    time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC).Add(time.Duration(seq) * time.Second),
		Source:       model.Source{DeviceID: "bench-tablet", Platform: "web"},
		Sequence:     seq,
		MatchVersion: 1,
		Payload:      p,
	}
}

// storeContract exercises the Store behavior shared by every implementation.
func storeContract(t *testing.T, open func(t *testing.T) repository.Store) {
	t.Helper()
	ctx := context.Background()

	Convey("When creating a match", func() {
		s := open(t)
		defer s.Close()
		So(s.CreateMatch(ctx, record("match-1")), ShouldBeNil)

		Convey("Then it should be retrievable", func() {
			rec, err := s.GetMatch(ctx, "match-1")
			So(err, ShouldBeNil)
			So(rec.HomeTeam, ShouldEqual, "Swifts")
			So(rec.Status, ShouldEqual, repository.StatusActive)
		})

		Convey("And creating it again should report a duplicate", func() {
			So(s.CreateMatch(ctx, record("match-1")), ShouldWrap, repository.ErrDuplicateMatch)
		})

		Convey("And a status update should stick", func() {
			So(s.UpdateMatchStatus(ctx, "match-1", repository.StatusEnded), ShouldBeNil)
			rec, err := s.GetMatch(ctx, "match-1")
			So(err, ShouldBeNil)
			So(rec.Status, ShouldEqual, repository.StatusEnded)
		})
	})

	Convey("When the match is unknown", func() {
		s := open(t)
		defer s.Close()

		Convey("Then reads and updates should report not found", func() {
			_, err := s.GetMatch(ctx, "ghost")
			So(err, ShouldWrap, repository.ErrNotFound)
			So(s.UpdateMatchStatus(ctx, "ghost", repository.StatusEnded), ShouldWrap, repository.ErrNotFound)
			_, err = s.LoadEvents(ctx, "ghost")
			So(err, ShouldWrap, repository.ErrNotFound)
		})
	})

	Convey("When appending events in order", func() {
		s := open(t)
		defer s.Close()
		So(s.CreateMatch(ctx, record("match-2")), ShouldBeNil)

		So(s.AppendEvent(ctx, event("match-2", 0, model.MatchCreatedPayload{
			TemplateID: "netball-fast5-1", MatchName: "Swifts vs Ferns",
			HomeTeam: "Swifts", AwayTeam: "Ferns",
		})), ShouldBeNil)
		So(s.AppendEvent(ctx, event("match-2", 1, model.PeriodTransitionPayload{
			PeriodIndex: 0, PeriodLabel: "Q1", Reason: model.PeriodStart,
		})), ShouldBeNil)
		So(s.AppendEvent(ctx, event("match-2", 2, model.GoalScoredPayload{
			Team: model.TeamHome, Position: "GA", LocationZone: "outer", Points: 2,
		})), ShouldBeNil)

		Convey("Then the log should come back ordered with typed payloads", func() {
			events, err := s.LoadEvents(ctx, "match-2")
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 3)
			for i, e := range events {
				So(e.Sequence, ShouldEqual, i)
			}
			goal, ok := events[2].Payload.(model.GoalScoredPayload)
			So(ok, ShouldBeTrue)
			So(goal.Points, ShouldEqual, 2)
			So(events[0].Source.DeviceID, ShouldEqual, "bench-tablet")
		})

		Convey("And reusing a sequence slot should conflict", func() {
			err := s.AppendEvent(ctx, event("match-2", 2, model.NoteAddedPayload{Message: "dup"}))
			So(err, ShouldWrap, repository.ErrSequenceConflict)
		})
	})

	Convey("When listing matches", func() {
		s := open(t)
		defer s.Close()
		first := record("match-3")
		second := record("match-4")
		second.CreatedAt = first.CreatedAt.Add(time.Minute)
		So(s.CreateMatch(ctx, first), ShouldBeNil)
		So(s.CreateMatch(ctx, second), ShouldBeNil)

		Convey("Then the newest match should come first", func() {
			recs, err := s.ListMatches(ctx)
			So(err, ShouldBeNil)
			So(recs, ShouldHaveLength, 2)
			So(recs[0].ID, ShouldEqual, "match-4")
			So(recs[1].ID, ShouldEqual, "match-3")
		})
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		storeContract(t, func(t *testing.T) repository.Store {
			return repository.NewMemoryStore()
		})
	})

	Convey("Given a closed in-memory store", t, func() {
		s := repository.NewMemoryStore()
		So(s.Close(), ShouldBeNil)

		Convey("Then operations should report the closed kind", func() {
			So(s.CreateMatch(context.Background(), record("late")), ShouldWrap, repository.ErrClosed)
			_, err := s.ListMatches(context.Background())
			So(err, ShouldWrap, repository.ErrClosed)
		})
	})
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given a sqlite store on disk", t, func() {
		storeContract(t, func(t *testing.T) repository.Store {
			s, err := repository.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "court.db"))
			So(err, ShouldBeNil)
			return s
		})
	})

	Convey("Given a sqlite store that is reopened", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "court.db")

		s, err := repository.NewSQLiteStore(ctx, path)
		So(err, ShouldBeNil)
		So(s.CreateMatch(ctx, record("match-9")), ShouldBeNil)
		So(s.AppendEvent(ctx, event("match-9", 0, model.MatchCreatedPayload{
			TemplateID: "netball-standard-1", MatchName: "Swifts vs Ferns",
			HomeTeam: "Swifts", AwayTeam: "Ferns",
		})), ShouldBeNil)
		So(s.Close(), ShouldBeNil)

		Convey("When opening the same file again", func() {
			reopened, err := repository.NewSQLiteStore(ctx, path)
			So(err, ShouldBeNil)
			defer reopened.Close()

			Convey("Then the log should survive the restart", func() {
				events, err := reopened.LoadEvents(ctx, "match-9")
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 1)
				So(events[0].Type, ShouldEqual, model.TypeMatchCreated)
			})
		})
	})
}
