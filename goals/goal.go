package goals

import (
	"github.com/nstehr/vimy/vimy-planner/model"
	"github.com/nstehr/vimy/vimy-planner/threat"
)

// Goal is one node of the planning tree. Town and Hero are ids into the
// snapshot of the current pass (0 = no target); goals never outlive a pass.
type Goal struct {
	Kind     Kind
	Town     int
	Hero     int
	Value    float64 // benefit if achieved
	Cost     int     // gold-equivalent
	Priority Tier
	Turn     int // turns until the goal must be done, 0 = now
	Danger   uint64
	Amount   int // kind-specific quantity: units to buy, fort level, danger margin
	Creature string
	Policy   Policy
	Children Vec

	seq int
}

// Vec is the ordered output of one decomposition.
type Vec []Goal

// GameContext is everything a decomposer may read. It is shared by every
// decomposer of a pass and must be treated as read-only.
type GameContext struct {
	State     model.GameState
	Estimator threat.Estimator
	// HireCost is the gold price of recruiting a tavern hero.
	HireCost int
	// GoldReserve is gold economy purchases must leave untouched.
	GoldReserve int
}

// DefaultHireCost is the tavern price of a hero.
const DefaultHireCost = 2500

func (gc *GameContext) hireCost() int {
	if gc.HireCost <= 0 {
		return DefaultHireCost
	}
	return gc.HireCost
}

func (gc *GameContext) gold() int { return gc.State.Treasury.Gold() }

// ops falls back to the zero Ops (non-atomic, no children) for an
// unregistered kind.
func (g Goal) ops() Ops {
	ops, _ := lookup(g.Kind)
	return ops
}

// Atomic reports whether g is an executable action.
func (g Goal) Atomic() bool { return g.ops().Atomic }

// Executable is true for atomic goals that either target something or are
// the idle fallback. Anything else has to be decomposed or dropped.
func (g Goal) Executable() bool {
	if !g.Atomic() {
		return false
	}
	return g.Kind == KindIdle || g.Town != 0 || g.Hero != 0
}

// Decompose expands g one level. Atomic and unknown goals yield nothing.
func (g Goal) Decompose(gc *GameContext) Vec {
	ops := g.ops()
	if ops.Atomic || ops.Decompose == nil {
		return nil
	}
	return ops.Decompose(gc, g)
}

func (g Goal) String() string {
	ops := g.ops()
	if ops.Describe == nil {
		return g.Kind.String()
	}
	return ops.Describe(g)
}

// Equal reports whether g and o stand for the same intent.
func (g Goal) Equal(o Goal) bool {
	if g.Kind != o.Kind {
		return false
	}
	if eq := g.ops().Equal; eq != nil {
		return eq(g, o)
	}
	return g.Town == o.Town && g.Hero == o.Hero && g.Amount == o.Amount && g.Creature == o.Creature
}

// Seq is the insertion order assigned by the planner.
func (g Goal) Seq() int { return g.seq }

// WithSeq returns a copy of g carrying insertion order n.
func (g Goal) WithSeq(n int) Goal {
	g.seq = n
	return g
}

// Idle is the terminal fallback: do nothing this turn.
func Idle() Goal { return Goal{Kind: KindIdle, Priority: TierIdle} }

// DefenceBehavior is the root goal that defends every owned town.
func DefenceBehavior() Goal { return Goal{Kind: KindDefenceBehavior, Priority: TierDefence} }

// BuyArmyBehavior is the root goal that spends spare gold on troops.
func BuyArmyBehavior() Goal { return Goal{Kind: KindBuyArmyBehavior, Priority: TierEconomy} }

// Contains reports whether v holds a goal equal to g.
func (v Vec) Contains(g Goal) bool {
	for _, x := range v {
		if x.Equal(g) {
			return true
		}
	}
	return false
}

// Dedup keeps the first goal of every group of equal goals.
func (v Vec) Dedup() Vec {
	out := make(Vec, 0, len(v))
	for _, g := range v {
		if !out.Contains(g) {
			out = append(out, g)
		}
	}
	return out
}
