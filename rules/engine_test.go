package rules

import (
	"testing"

	"github.com/nstehr/vimy/vimy-planner/goals"
	"github.com/nstehr/vimy/vimy-planner/model"
)

func testState(gold int, towns int) model.GameState {
	gs := model.GameState{Day: 2, Player: "red", Treasury: model.Resources{model.Gold: gold}}
	for i := 1; i <= towns; i++ {
		gs.Towns = append(gs.Towns, model.Town{ID: i, Owner: "red"})
	}
	return gs
}

func TestDefaultRulesCompile(t *testing.T) {
	engine, err := NewEngine(DefaultRules())
	if err != nil {
		t.Fatalf("NewEngine(DefaultRules()) failed: %v", err)
	}
	if len(engine.rules) != 6 {
		t.Errorf("expected 6 rules, got %d", len(engine.rules))
	}
	// Verify priority ordering (descending).
	for i := 1; i < len(engine.rules); i++ {
		if engine.rules[i].Priority > engine.rules[i-1].Priority {
			t.Errorf("rules not sorted by priority: %s (%d) > %s (%d)",
				engine.rules[i].Name, engine.rules[i].Priority,
				engine.rules[i-1].Name, engine.rules[i-1].Priority)
		}
	}
}

func TestApplyVetoes(t *testing.T) {
	engine, err := NewEngine(DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		gold int
		goal goals.Goal
		keep bool
	}{
		{"unaffordable", 100, goals.Goal{Kind: goals.KindBuyArmy, Town: 1, Cost: 200, Priority: goals.TierDefence}, false},
		{"affordable", 100, goals.Goal{Kind: goals.KindRecruitHero, Town: 1, Hero: 4, Cost: 50, Priority: goals.TierDefence}, true},
		{"economy breaches reserve", 1000, goals.Goal{Kind: goals.KindBuyArmy, Town: 1, Cost: 600, Priority: goals.TierEconomy}, false},
		{"economy within reserve", 1000, goals.Goal{Kind: goals.KindBuyArmy, Town: 1, Cost: 400, Priority: goals.TierEconomy}, true},
		{"defence ignores reserve", 1000, goals.Goal{Kind: goals.KindBuyArmy, Town: 1, Cost: 600, Priority: goals.TierDefence}, true},
	}
	for _, tc := range tests {
		got := engine.Apply(testState(tc.gold, 2), goals.Vec{tc.goal})
		if kept := len(got) == 1; kept != tc.keep {
			t.Errorf("%s: kept = %v, want %v", tc.name, kept, tc.keep)
		}
	}
}

func TestApplyBoosts(t *testing.T) {
	engine, err := NewEngine(DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	tasks := goals.Vec{
		{Kind: goals.KindBuyArmy, Town: 1, Value: 10, Priority: goals.TierUrgent},
		{Kind: goals.KindBuyArmy, Town: 1, Value: 10, Priority: goals.TierDefence, Turn: 5},
		{Kind: goals.KindBuyArmy, Town: 2, Value: 10, Priority: goals.TierEconomy},
	}
	got := engine.Apply(testState(5000, 2), tasks)
	want := []float64{25, 12.5, 12.5}
	if len(got) != len(want) {
		t.Fatalf("Apply returned %d goals, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Value != want[i] {
			t.Errorf("goal %d value = %v, want %v", i, got[i].Value, want[i])
		}
	}
	if tasks[0].Value != 10 {
		t.Error("Apply modified its input")
	}
}

func TestApplyPromotesLastTown(t *testing.T) {
	engine, err := NewEngine(DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	g := goals.Goal{Kind: goals.KindBuildDefences, Town: 1, Amount: 1, Danger: 5, Turn: 1, Priority: goals.TierDefence}
	got := engine.Apply(testState(5000, 1), goals.Vec{g})
	if len(got) != 1 || got[0].Priority != goals.TierUrgent {
		t.Errorf("last town goal = %+v, want urgent", got)
	}
	got = engine.Apply(testState(5000, 2), goals.Vec{g})
	if got[0].Priority != goals.TierDefence {
		t.Errorf("goal with two towns = %v tier, want defence", got[0].Priority)
	}
}

func TestSwapKeepsOldRulesOnError(t *testing.T) {
	engine, err := NewEngine(DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	bad := []*Rule{{Name: "broken", ConditionSrc: `Gold >`, Action: Veto}}
	if err := engine.Swap(bad); err == nil {
		t.Fatal("Swap with invalid condition should fail")
	}
	if n := len(engine.Rules()); n != 6 {
		t.Errorf("after failed swap: %d rules, want 6", n)
	}

	veto := []*Rule{{Name: "veto-all", ConditionSrc: `true`, Action: Veto}}
	if err := engine.Swap(veto); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if got := engine.Apply(testState(0, 1), goals.Vec{goals.Idle()}); len(got) != 0 {
		t.Errorf("veto-all kept %v", got)
	}
}

func TestNewEngineRejectsMissingAction(t *testing.T) {
	if _, err := NewEngine([]*Rule{{Name: "noop", ConditionSrc: `true`}}); err == nil {
		t.Error("NewEngine should reject a rule without an action")
	}
}
