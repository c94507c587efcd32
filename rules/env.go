package rules

import (
	"github.com/nstehr/vimy/vimy-planner/goals"
	"github.com/nstehr/vimy/vimy-planner/model"
)

// GoalEnv exposes one planned goal and the treasury to expr conditions.
type GoalEnv struct {
	Kind   string
	Tier   string
	Atomic bool
	Town   int
	Hero   int
	Danger int
	Turn   int
	Value  float64
	Cost   int
	Gold   int
	Day    int
	Towns  int
}

func newGoalEnv(gs model.GameState, g goals.Goal) GoalEnv {
	return GoalEnv{
		Kind:   g.Kind.String(),
		Tier:   g.Priority.String(),
		Atomic: g.Atomic(),
		Town:   g.Town,
		Hero:   g.Hero,
		Danger: int(g.Danger),
		Turn:   g.Turn,
		Value:  g.Value,
		Cost:   g.Cost,
		Gold:   gs.Treasury.Gold(),
		Day:    gs.Day,
		Towns:  len(gs.OwnedTowns()),
	}
}

// GoldAfter is the gold left once the goal's cost is paid.
func (e GoalEnv) GoldAfter() int { return e.Gold - e.Cost }

func (e GoalEnv) Affordable() bool { return e.Cost <= e.Gold }

func (e GoalEnv) Urgent() bool { return e.Tier == goals.TierUrgent.String() }

// IsDefence is true for goals in either defence tier.
func (e GoalEnv) IsDefence() bool {
	return e.Tier == goals.TierDefence.String() || e.Tier == goals.TierUrgent.String()
}

func (e GoalEnv) IsEconomy() bool { return e.Tier == goals.TierEconomy.String() }

// LastTown is true when the goal concerns the player's only town.
func (e GoalEnv) LastTown() bool { return e.Towns == 1 && e.Town != 0 }
