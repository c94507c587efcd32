package rules

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/vimy/vimy-planner/goals"
	"github.com/nstehr/vimy/vimy-planner/model"
)

// Engine runs compiled rules against every planned goal.
// Rules fire in priority order; exclusive rules block lower-priority rules
// in the same category for that goal.
type Engine struct {
	mu    sync.RWMutex
	rules []*Rule
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled}, nil
}

// Apply returns tasks with every rule applied. Vetoed goals are left out;
// order is preserved and the caller re-ranks.
func (e *Engine) Apply(gs model.GameState, tasks goals.Vec) goals.Vec {
	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	out := make(goals.Vec, 0, len(tasks))
	for _, g := range tasks {
		if e.applyOne(rules, gs, &g) {
			out = append(out, g)
		}
	}
	return out
}

func (e *Engine) applyOne(rules []*Rule, gs model.GameState, g *goals.Goal) bool {
	env := newGoalEnv(gs, *g)
	fired := make(map[string]bool) // category → exclusive rule already fired
	for _, r := range rules {
		if fired[r.Category] {
			continue
		}

		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}
		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "category", r.Category, "goal", g.String())
		if !r.Action(env, g) {
			return false
		}
		if r.Exclusive {
			fired[r.Category] = true
		}
	}
	return true
}

// Swap atomically replaces the rule set. Compiles first; if compilation
// fails the old rules remain active.
func (e *Engine) Swap(newRules []*Rule) error {
	compiled, err := compileRules(newRules)
	if err != nil {
		return err
	}
	names := make([]string, len(compiled))
	for i, r := range compiled {
		names[i] = r.Name
	}
	e.mu.Lock()
	e.rules = compiled
	e.mu.Unlock()
	slog.Info("rule set swapped", "count", len(compiled), "rules", names)
	return nil
}

// Rules returns the active rule names in evaluation order.
func (e *Engine) Rules() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		if r.Action == nil {
			return nil, fmt.Errorf("rule %q has no action", r.Name)
		}
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(GoalEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
