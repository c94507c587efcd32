package rules

import (
	"log/slog"

	"github.com/nstehr/vimy/vimy-planner/goals"
)

// Boost scales a goal's value by factor.
func Boost(factor float64) ActionFunc {
	return func(env GoalEnv, g *goals.Goal) bool {
		g.Value *= factor
		return true
	}
}

// Veto drops the goal from the plan.
func Veto(env GoalEnv, g *goals.Goal) bool {
	slog.Debug("goal vetoed", "goal", g.String(), "gold", env.Gold)
	return false
}

// Promote raises a goal to at least tier.
func Promote(tier goals.Tier) ActionFunc {
	return func(env GoalEnv, g *goals.Goal) bool {
		if g.Priority < tier {
			g.Priority = tier
		}
		return true
	}
}
