package rules

import (
	"fmt"

	"github.com/nstehr/vimy/vimy-planner/goals"
)

// CompileDoctrine generates a complete rule set from a doctrine's weights.
// Conditions are built with fmt.Sprintf from interpolated values, so
// every generated expression compiles.
func CompileDoctrine(d Doctrine) []*Rule {
	d.Validate()
	var rules []*Rule

	// --- Budget vetoes ---

	rules = append(rules, &Rule{
		Name:         "unaffordable",
		Priority:     1000,
		Category:     "budget",
		Exclusive:    true,
		ConditionSrc: `Atomic && !Affordable()`,
		Action:       Veto,
	})

	rules = append(rules, &Rule{
		Name:         "gold-reserve",
		Priority:     900,
		Category:     "budget",
		Exclusive:    true,
		ConditionSrc: fmt.Sprintf(`IsEconomy() && Kind == "BuyArmy" && GoldAfter() < %d`, d.GoldReserve),
		Action:       Veto,
	})

	// --- Weighting ---
	// Urgent and ordinary defence share a category so only one boost applies.

	rules = append(rules, &Rule{
		Name:         "urgent-defence",
		Priority:     800,
		Category:     "defence",
		Exclusive:    true,
		ConditionSrc: `Urgent()`,
		Action:       Boost(d.UrgencyBoost * lerpf(0.5, 2, d.DefencePriority)),
	})

	rules = append(rules, &Rule{
		Name:         "defence-weight",
		Priority:     700,
		Category:     "defence",
		Exclusive:    true,
		ConditionSrc: `IsDefence()`,
		Action:       Boost(lerpf(0.5, 2, d.DefencePriority)),
	})

	rules = append(rules, &Rule{
		Name:         "economy-weight",
		Priority:     600,
		Category:     "economy",
		Exclusive:    true,
		ConditionSrc: `IsEconomy()`,
		Action:       Boost(lerpf(0.5, 2, d.EconomyPriority)),
	})

	// A threatened last town is always urgent.
	rules = append(rules, &Rule{
		Name:         "last-town",
		Priority:     500,
		Category:     "survival",
		Exclusive:    true,
		ConditionSrc: fmt.Sprintf(`LastTown() && Danger > 0 && Turn <= %d`, lerp(1, 3, d.DefencePriority)),
		Action:       Promote(goals.TierUrgent),
	})

	return rules
}

// DefaultRules is the rule set of the default doctrine.
func DefaultRules() []*Rule { return CompileDoctrine(DefaultDoctrine()) }
