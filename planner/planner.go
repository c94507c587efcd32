// Package planner drives goal decomposition: it expands root goals level by
// level until only atomic goals remain, then ranks them into a plan.
package planner

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nstehr/vimy/vimy-planner/goals"
	"github.com/nstehr/vimy/vimy-planner/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultMaxDepth      = 8
	DefaultMaxIterations = 2048
)

// Config bounds a planning pass. Zero values use the defaults.
type Config struct {
	MaxDepth      int // decomposition levels
	MaxIterations int // goals visited
}

// Rules adjusts a ranked set of atomic goals (boost, veto). The result is
// re-ranked by the engine.
type Rules interface {
	Apply(gs model.GameState, tasks goals.Vec) goals.Vec
}

// Engine runs planning passes. It holds no per-pass state and may be shared.
type Engine struct {
	cfg    Config
	rules  Rules
	tracer trace.Tracer
}

// Plan is the ranked outcome of one pass. Tasks is never empty.
type Plan struct {
	ID        uuid.UUID
	Day       int
	Player    string
	Tasks     goals.Vec
	Truncated bool // a bound or cancellation cut the pass short
	Depth     int
	Visited   int
}

// Best is the task to execute this turn.
func (p Plan) Best() goals.Goal { return p.Tasks[0] }

// New returns an engine. rules may be nil.
func New(cfg Config, rules Rules) *Engine {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	return &Engine{cfg: cfg, rules: rules, tracer: otel.Tracer("github.com/nstehr/vimy/vimy-planner/planner")}
}

func (e *Engine) Config() Config { return e.cfg }

// DefaultRoots are the top-level goals seeded every turn.
func DefaultRoots() goals.Vec {
	return goals.Vec{goals.DefenceBehavior(), goals.BuyArmyBehavior()}
}

// Plan decomposes roots against gc and returns the ranked atomic goals.
// Hitting a bound or a cancelled ctx keeps whatever was found so far; if
// nothing executable was found the plan holds a single Idle goal.
func (e *Engine) Plan(ctx context.Context, gc *goals.GameContext, roots goals.Vec) Plan {
	plan := Plan{ID: uuid.New(), Day: gc.State.Day, Player: gc.State.Player}
	ctx, span := e.tracer.Start(ctx, "planner.pass", trace.WithAttributes(
		attribute.String("plan.id", plan.ID.String()),
		attribute.Int("game.day", gc.State.Day),
		attribute.String("game.player", gc.State.Player),
	))
	defer span.End()

	var tasks goals.Vec
	unknown := make(map[goals.Kind]bool)
	seq := 0
	frontier := make(goals.Vec, 0, len(roots))
	for _, g := range roots {
		frontier = append(frontier, g.WithSeq(seq))
		seq++
	}

expand:
	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			slog.Warn("planning pass cancelled", "plan", plan.ID, "error", err)
			plan.Truncated = true
			break
		}
		atLimit := plan.Depth >= e.cfg.MaxDepth

		var next goals.Vec
		for _, g := range frontier {
			if plan.Visited >= e.cfg.MaxIterations {
				slog.Warn("planning iteration bound hit", "plan", plan.ID, "visited", plan.Visited)
				plan.Truncated = true
				break expand
			}
			plan.Visited++

			if !goals.Registered(g.Kind) {
				if !unknown[g.Kind] {
					unknown[g.Kind] = true
					slog.Warn("goal kind not registered", "plan", plan.ID, "kind", int(g.Kind))
				}
				continue
			}
			if g.Atomic() {
				if g.Executable() {
					tasks = append(tasks, g)
				} else {
					slog.Debug("dropping goal without target", "goal", g.String())
				}
				continue
			}
			if atLimit {
				plan.Truncated = true
				continue
			}
			for _, c := range g.Decompose(gc) {
				if next.Contains(c) {
					continue
				}
				next = append(next, c.WithSeq(seq))
				seq++
			}
		}
		if atLimit {
			if plan.Truncated {
				slog.Warn("planning depth bound hit", "plan", plan.ID, "depth", plan.Depth)
			}
			break
		}
		frontier = next
		plan.Depth++
	}

	plan.Tasks = e.rank(gc.State, tasks)
	for i, t := range plan.Tasks {
		slog.Debug("planned task", "plan", plan.ID, "rank", i, "task", t.String(), "tier", t.Priority, "score", t.Score())
	}

	span.SetAttributes(
		attribute.Int("plan.tasks", len(plan.Tasks)),
		attribute.Int("plan.depth", plan.Depth),
		attribute.Bool("plan.truncated", plan.Truncated),
	)
	return plan
}

// rank orders tasks, lets the rules adjust them, re-orders and drops
// duplicates keeping the better ranked copy.
func (e *Engine) rank(gs model.GameState, tasks goals.Vec) goals.Vec {
	goals.Rank(tasks)
	if e.rules != nil {
		tasks = e.rules.Apply(gs, tasks)
		goals.Rank(tasks)
	}
	tasks = tasks.Dedup()
	if len(tasks) == 0 {
		tasks = goals.Vec{goals.Idle().WithSeq(0)}
	}
	return tasks
}
