package planner

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/nstehr/vimy/vimy-planner/goals"
	"github.com/nstehr/vimy/vimy-planner/model"
	"github.com/nstehr/vimy/vimy-planner/threat"
)

const (
	kindLoop goals.Kind = 200 + iota
	kindFanOut
)

func init() {
	goals.Register(kindLoop, goals.Ops{
		Name:      "Loop",
		Decompose: func(_ *goals.GameContext, g goals.Goal) goals.Vec { return goals.Vec{g, g} },
	})
	goals.Register(kindFanOut, goals.Ops{
		Name: "FanOut",
		Decompose: func(_ *goals.GameContext, g goals.Goal) goals.Vec {
			out := make(goals.Vec, 4)
			for i := range out {
				out[i] = goals.Goal{Kind: kindFanOut, Amount: g.Amount*4 + i + 1}
			}
			return out
		},
	})
}

func stack(count, power int) []model.Stack {
	return []model.Stack{{Creature: "pikeman", Count: count, Power: power}}
}

func scenario() *goals.GameContext {
	return &goals.GameContext{
		State: model.GameState{
			Day:      4,
			Player:   "red",
			Treasury: model.Resources{model.Gold: 2000},
			Towns: []model.Town{
				{ID: 1, Name: "A", Owner: "red", X: 10, Y: 10, Garrison: stack(4, 1),
					Dwellings: []model.Dwelling{{Creature: "archer", Available: 5, Cost: 100, Power: 3}}},
				{ID: 2, Name: "B", Owner: "red", X: 60, Y: 60, Garrison: stack(4, 1)},
			},
			Hostiles: []model.Army{{ID: 50, Owner: "blue", X: 10, Y: 13, MovePoints: 100, Stacks: stack(10, 1)}},
			Tavern:   []model.TavernHero{{ID: 101, Army: stack(3, 1)}},
		},
		Estimator: threat.Estimator{Horizon: 7},
		HireCost:  2000,
	}
}

func TestPlanScenario(t *testing.T) {
	e := New(Config{}, nil)
	p := e.Plan(context.Background(), scenario(), DefaultRoots())
	if p.Truncated {
		t.Error("plan should not be truncated")
	}
	if p.Day != 4 || p.Player != "red" {
		t.Errorf("plan day/player = %d/%s", p.Day, p.Player)
	}
	best := p.Best()
	if best.Kind != goals.KindBuyArmy || best.Creature != "archer" || best.Amount != 2 {
		t.Errorf("best = %v, want 2 archers for the defence", best)
	}
	var recruit bool
	for _, task := range p.Tasks {
		if !task.Executable() {
			t.Errorf("task %v is not executable", task)
		}
		if task.Kind == goals.KindRecruitHero && task.Town == 1 {
			recruit = true
		}
	}
	if !recruit {
		t.Errorf("tasks %v lack a RecruitHero for town 1", p.Tasks)
	}
}

func TestPlanDeterministic(t *testing.T) {
	e := New(Config{}, nil)
	a := e.Plan(context.Background(), scenario(), DefaultRoots())
	b := e.Plan(context.Background(), scenario(), DefaultRoots())
	if len(a.Tasks) != len(b.Tasks) {
		t.Fatalf("task counts differ: %d vs %d", len(a.Tasks), len(b.Tasks))
	}
	for i := range a.Tasks {
		if a.Tasks[i].String() != b.Tasks[i].String() || a.Tasks[i].Seq() != b.Tasks[i].Seq() {
			t.Errorf("task %d differs: %v vs %v", i, a.Tasks[i], b.Tasks[i])
		}
	}
	if a.ID == b.ID {
		t.Error("plan ids should be unique")
	}
}

func TestPlanCycleTerminates(t *testing.T) {
	e := New(Config{MaxDepth: 5}, nil)
	p := e.Plan(context.Background(), scenario(), goals.Vec{{Kind: kindLoop}})
	if !p.Truncated {
		t.Error("cyclic plan should be truncated")
	}
	if p.Depth != 5 {
		t.Errorf("depth = %d, want 5", p.Depth)
	}
	if len(p.Tasks) != 1 || p.Best().Kind != goals.KindIdle {
		t.Errorf("tasks = %v, want idle fallback", p.Tasks)
	}
}

func TestPlanIterationBound(t *testing.T) {
	e := New(Config{MaxDepth: 100, MaxIterations: 50}, nil)
	p := e.Plan(context.Background(), scenario(), goals.Vec{{Kind: kindFanOut}})
	if !p.Truncated || p.Visited != 50 {
		t.Errorf("truncated=%v visited=%d, want true/50", p.Truncated, p.Visited)
	}
}

func TestPlanKeepsBestSoFar(t *testing.T) {
	e := New(Config{MaxDepth: 3}, nil)
	roots := goals.Vec{{Kind: kindLoop}, goals.DefenceBehavior()}
	p := e.Plan(context.Background(), scenario(), roots)
	if !p.Truncated {
		t.Error("plan should be truncated")
	}
	if p.Best().Kind == goals.KindIdle {
		t.Errorf("best = %v, want the defence task found before the bound", p.Best())
	}
}

func TestPlanCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := New(Config{}, nil).Plan(ctx, scenario(), DefaultRoots())
	if !p.Truncated || p.Best().Kind != goals.KindIdle {
		t.Errorf("cancelled plan = %+v, want truncated idle", p)
	}
}

func TestPlanNoThreatsIdles(t *testing.T) {
	gc := scenario()
	gc.State.Hostiles = nil
	gc.State.Towns[0].Dwellings = nil
	p := New(Config{}, nil).Plan(context.Background(), gc, DefaultRoots())
	if len(p.Tasks) != 1 || p.Best().Kind != goals.KindIdle {
		t.Errorf("tasks = %v, want idle", p.Tasks)
	}
}

type vetoAll struct{}

func (vetoAll) Apply(model.GameState, goals.Vec) goals.Vec { return nil }

func TestPlanRulesVetoFallsBackToIdle(t *testing.T) {
	p := New(Config{}, vetoAll{}).Plan(context.Background(), scenario(), DefaultRoots())
	if p.Best().Kind != goals.KindIdle {
		t.Errorf("best = %v, want idle", p.Best())
	}
}

type warnCounter struct {
	mu   sync.Mutex
	msgs map[string]int
}

func (w *warnCounter) Enabled(_ context.Context, l slog.Level) bool { return l >= slog.LevelWarn }

func (w *warnCounter) Handle(_ context.Context, r slog.Record) error {
	w.mu.Lock()
	w.msgs[r.Message]++
	w.mu.Unlock()
	return nil
}

func (w *warnCounter) WithAttrs([]slog.Attr) slog.Handler { return w }
func (w *warnCounter) WithGroup(string) slog.Handler      { return w }

func TestPlanUnregisteredKindWarnsOnce(t *testing.T) {
	w := &warnCounter{msgs: map[string]int{}}
	prev := slog.Default()
	slog.SetDefault(slog.New(w))
	t.Cleanup(func() { slog.SetDefault(prev) })

	const kindUnknown goals.Kind = 250
	roots := append(DefaultRoots(), goals.Goal{Kind: kindUnknown}, goals.Goal{Kind: kindUnknown, Town: 1})
	p := New(Config{}, nil).Plan(context.Background(), scenario(), roots)

	if n := w.msgs["goal kind not registered"]; n != 1 {
		t.Errorf("logged %d warnings for the unregistered kind, want 1", n)
	}
	for _, g := range p.Tasks {
		if g.Kind == kindUnknown {
			t.Errorf("unregistered goal in plan: %v", g)
		}
	}
	if p.Best().Kind == goals.KindIdle {
		t.Error("registered roots should still produce tasks")
	}
}
