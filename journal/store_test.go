package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/nstehr/vimy/vimy-planner/goals"
	"github.com/nstehr/vimy/vimy-planner/planner"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testPlan(day int) planner.Plan {
	return planner.Plan{
		ID:     uuid.New(),
		Day:    day,
		Player: "red",
		Tasks: goals.Vec{
			{Kind: goals.KindBuyArmy, Town: 1, Creature: "archer", Amount: 2, Value: 6, Cost: 200, Priority: goals.TierUrgent},
			{Kind: goals.KindRecruitHero, Town: 1, Hero: 102, Value: 40, Cost: 2500, Priority: goals.TierUrgent},
		},
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i, err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("Close #%d: %v", i, err)
		}
	}
}

func TestRecordAndReadPlan(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p := testPlan(3)

	if err := s.Record(ctx, p, "red"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	got, err := s.Plan(ctx, p.ID.String())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].Rank != 0 || got[0].Kind != "BuyArmy" || got[0].Tier != "urgent" || got[0].Cost != 200 {
		t.Errorf("row 0 = %+v", got[0])
	}
	if got[1].Hero != 102 || got[1].Kind != "RecruitHero" {
		t.Errorf("row 1 = %+v", got[1])
	}
	if got[0].Description == "" {
		t.Error("description not stored")
	}
}

func TestBestNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, day := range []int{1, 2, 3} {
		if err := s.Record(ctx, testPlan(day), "red"); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Record(ctx, testPlan(9), "blue"); err != nil {
		t.Fatal(err)
	}

	best, err := s.Best(ctx, "red", 2)
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if len(best) != 2 || best[0].Day != 3 || best[1].Day != 2 {
		t.Fatalf("best = %+v", best)
	}
	for _, e := range best {
		if e.Rank != 0 || e.Player != "red" {
			t.Errorf("unexpected row %+v", e)
		}
	}
}

func TestRecordEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.RecordEvent(ctx, uuid.NewString(), "red", 4, "town_lost", "Tower (7)"); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	n, err := s.EventCount(ctx, "red")
	if err != nil || n != 1 {
		t.Fatalf("EventCount = %d, %v", n, err)
	}
}

func TestNilStoreIsNoop(t *testing.T) {
	var s *Store
	if err := s.Record(context.Background(), testPlan(1), "red"); err != nil {
		t.Errorf("Record on nil store: %v", err)
	}
	if err := s.RecordEvent(context.Background(), "p", "red", 1, "new_day", ""); err != nil {
		t.Errorf("RecordEvent on nil store: %v", err)
	}
	if got, err := s.Best(context.Background(), "red", 5); err != nil || len(got) != 0 {
		t.Errorf("Best on nil store = %v, %v", got, err)
	}
	if got, err := s.Plan(context.Background(), "p"); err != nil || len(got) != 0 {
		t.Errorf("Plan on nil store = %v, %v", got, err)
	}
	if n, err := s.EventCount(context.Background(), "red"); err != nil || n != 0 {
		t.Errorf("EventCount on nil store = %d, %v", n, err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close on nil store: %v", err)
	}
}

func TestRecordCancelled(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Record(ctx, testPlan(1), "red"); err == nil {
		t.Error("expected error for cancelled context")
	}
}
