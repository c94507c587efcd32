package rules

import (
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/vimy/vimy-planner/goals"
)

// ActionFunc adjusts a planned goal when a rule's condition is true.
// Returning false vetoes the goal: it is dropped from the plan.
type ActionFunc func(env GoalEnv, g *goals.Goal) bool

// Rule is the atomic unit of ranking policy: a condition → action pair.
// The engine evaluates rules by priority and uses Category + Exclusive
// to keep two adjustments of the same kind from stacking on one goal.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Category     string      // grouping for exclusive semantics
	Exclusive    bool        // if true, blocks lower-priority rules in same category
	ConditionSrc string      // expr source (preserved for serialization)
	program      *vm.Program // compiled bytecode
	Action       ActionFunc
}
