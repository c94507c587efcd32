package scenario

import (
	"context"
	"strings"
	"testing"

	"github.com/nstehr/vimy/vimy-planner/agent"
	"github.com/nstehr/vimy/vimy-planner/gamedata"
	"github.com/nstehr/vimy/vimy-planner/goals"
	"github.com/nstehr/vimy/vimy-planner/planner"
	"github.com/nstehr/vimy/vimy-planner/rules"
)

func runScenario(t *testing.T, sc *Scenario) planner.Plan {
	t.Helper()
	engine, err := rules.NewEngine(rules.DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	a := agent.New(nil, planner.New(planner.Config{}, engine), agent.Options{HireCost: 2500})
	a.SetTerrain(sc.Terrain)
	plan, _ := a.PlanTurn(context.Background(), sc.State)
	return plan
}

func TestLoadSiege(t *testing.T) {
	sc, err := Load("testdata/siege.lua", gamedata.Default(), 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sc.Name != "rampart siege" || sc.Seed != 11 {
		t.Errorf("name %q seed %d", sc.Name, sc.Seed)
	}
	if len(sc.State.Towns) != 2 || sc.State.Towns[1].Name != "Rampart" {
		t.Fatalf("towns = %+v", sc.State.Towns)
	}
	if len(sc.State.Hostiles) != 1 {
		t.Fatalf("hostiles = %+v", sc.State.Hostiles)
	}
	stacks := sc.State.Hostiles[0].Stacks
	if len(stacks) != 1 || stacks[0].Creature != "griffin" || stacks[0].Count != 10 || stacks[0].Power != 351 {
		t.Errorf("rolled hostile stacks = %+v", stacks)
	}
	if army := sc.State.Tavern[0].Army; len(army) != 1 || army[0].Creature != "monk" || army[0].Count != 2 {
		t.Errorf("rolled tavern army = %+v", army)
	}

	plan := runScenario(t, sc)
	if err := sc.Check(plan); err != nil {
		t.Errorf("Check: %v\n%s", err, Summary(plan))
	}
}

func TestLoadQuietDefaultsName(t *testing.T) {
	sc, err := Load("testdata/quiet.lua", gamedata.Default(), 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sc.Name != "quiet" {
		t.Errorf("Name = %q, want file stem", sc.Name)
	}
	if sc.State.Heroes != nil {
		t.Errorf("empty table should decode as nil, got %+v", sc.State.Heroes)
	}
	plan := runScenario(t, sc)
	if err := sc.Check(plan); err != nil {
		t.Errorf("Check: %v", err)
	}
}

func TestRandomStacksFollowSeed(t *testing.T) {
	first, err := Load("testdata/horde.lua", gamedata.Default(), 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := Load("testdata/horde.lua", gamedata.Default(), 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	a, b := first.State.Hostiles[0].Stacks, second.State.Hostiles[0].Stacks
	if len(a) != 1 || len(b) != 1 || a[0] != b[0] {
		t.Fatalf("same seed rolled %+v and %+v", a, b)
	}
	if a[0].Count < 10 || a[0].Count > 20 {
		t.Errorf("count %d outside 10..20", a[0].Count)
	}
	if a[0].Creature != "pikeman" && a[0].Creature != "halberdier" {
		t.Errorf("creature = %q", a[0].Creature)
	}
	override, err := Load("testdata/horde.lua", gamedata.Default(), 12345)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if override.Seed != 12345 {
		t.Errorf("Seed = %d, want override", override.Seed)
	}
	if first.Terrain == nil || first.Terrain.Cols != 2 || first.Terrain.Grid[1] != 4 {
		t.Errorf("terrain = %+v", first.Terrain)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing file", "testdata/nope.lua"},
		{"malformed creature", "testdata/broken.lua"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(tc.path, gamedata.Default(), 0); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCheck(t *testing.T) {
	plan := planner.Plan{Tasks: goals.Vec{
		{Kind: goals.KindBuyArmy, Town: 1, Priority: goals.TierUrgent},
		{Kind: goals.KindIdle},
	}}
	tests := []struct {
		name    string
		expect  Expectation
		wantErr string
	}{
		{"empty matches", Expectation{}, ""},
		{"kind case-insensitive", Expectation{Top: "buyarmy", Town: 1, Tier: "Urgent"}, ""},
		{"wrong kind", Expectation{Top: "RecruitHero"}, "want RecruitHero"},
		{"wrong town", Expectation{Town: 2}, "town 1"},
		{"wrong tier", Expectation{Tier: "economy"}, "tier"},
		{"too few", Expectation{MinTasks: 3}, "at least 3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := (&Scenario{Expect: tc.expect}).Check(plan)
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}
