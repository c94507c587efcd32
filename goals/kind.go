// Package goals implements the planning tree: a closed set of goal kinds
// sharing one dispatch table of operations, the ranking order over goals,
// and the per-kind decomposers.
package goals

import (
	"fmt"
	"sync"
)

// Kind tags the variant of a Goal.
type Kind int

const (
	KindIdle Kind = iota
	KindComposite
	KindDefenceBehavior
	KindDefence
	KindBuyArmyBehavior
	KindBuyArmy
	KindRecruitHero
	KindMoveReinforcements
	KindBuildDefences
)

// Tier is the coarse priority band of a goal. Higher tiers always outrank
// lower ones regardless of value.
type Tier int

const (
	TierIdle Tier = iota
	TierExploration
	TierEconomy
	TierDefence
	TierUrgent
)

var tierNames = [...]string{"idle", "exploration", "economy", "defence", "urgent"}

func (t Tier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

// Ops is the behaviour shared by every goal of one kind.
type Ops struct {
	Name string
	// Atomic goals are executable actions and are never decomposed.
	Atomic bool
	// Decompose returns the subgoals of g. It must not modify gc.
	Decompose func(gc *GameContext, g Goal) Vec
	// Describe is diagnostic only. Nil falls back to the kind name.
	Describe func(g Goal) string
	// Equal reports whether two goals of this kind stand for the same
	// intent. Nil compares the defining fields.
	Equal func(a, b Goal) bool
}

var (
	opsMu sync.RWMutex
	table = make(map[Kind]Ops)
)

// Register installs the operations for k, replacing any earlier entry.
func Register(k Kind, ops Ops) {
	if ops.Name == "" {
		ops.Name = fmt.Sprintf("kind(%d)", int(k))
	}
	opsMu.Lock()
	table[k] = ops
	opsMu.Unlock()
}

// Registered reports whether k has operations installed.
func Registered(k Kind) bool {
	_, ok := lookup(k)
	return ok
}

func lookup(k Kind) (Ops, bool) {
	opsMu.RLock()
	ops, ok := table[k]
	opsMu.RUnlock()
	return ops, ok
}

func (k Kind) String() string {
	if ops, ok := lookup(k); ok {
		return ops.Name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func init() {
	Register(KindIdle, Ops{Name: "Idle", Atomic: true, Describe: func(Goal) string { return "Idle" }})
	Register(KindComposite, Ops{Name: "Composite", Decompose: decomposeComposite, Describe: describeComposite, Equal: equalComposite})
	Register(KindDefenceBehavior, Ops{
		Name:      "DefenceBehavior",
		Decompose: decomposeDefenceBehavior,
		Describe:  func(Goal) string { return "Defend towns" },
		Equal:     func(a, b Goal) bool { return true },
	})
	Register(KindDefence, Ops{
		Name:      "Defence",
		Decompose: decomposeDefence,
		Describe:  describeDefence,
		Equal:     func(a, b Goal) bool { return a.Town == b.Town },
	})
	Register(KindBuyArmyBehavior, Ops{
		Name:      "BuyArmyBehavior",
		Decompose: decomposeBuyArmyBehavior,
		Describe:  func(Goal) string { return "Buy army" },
		Equal:     func(a, b Goal) bool { return true },
	})
	Register(KindBuyArmy, Ops{
		Name:     "BuyArmy",
		Atomic:   true,
		Describe: describeBuyArmy,
		Equal:    func(a, b Goal) bool { return a.Town == b.Town && a.Creature == b.Creature },
	})
	Register(KindRecruitHero, Ops{
		Name:     "RecruitHero",
		Atomic:   true,
		Describe: describeRecruitHero,
		Equal:    func(a, b Goal) bool { return a.Hero == b.Hero },
	})
	Register(KindMoveReinforcements, Ops{
		Name:     "MoveReinforcements",
		Atomic:   true,
		Describe: describeMoveReinforcements,
		Equal:    func(a, b Goal) bool { return a.Town == b.Town && a.Hero == b.Hero },
	})
	Register(KindBuildDefences, Ops{
		Name:     "BuildDefences",
		Atomic:   true,
		Describe: describeBuildDefences,
		Equal:    func(a, b Goal) bool { return a.Town == b.Town && a.Amount == b.Amount },
	})
}
