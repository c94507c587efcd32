package threat

import "github.com/nstehr/vimy/vimy-planner/model"

// Strength is the summed fight value of an army.
func Strength(stacks []model.Stack) uint64 {
	var total uint64
	for _, s := range stacks {
		if s.Count <= 0 || s.Power <= 0 {
			continue
		}
		total += uint64(s.Count) * uint64(s.Power)
	}
	return total
}

// FortMultiplier scales garrison strength by fortification level
// (0 none, 1 fort, 2 citadel, 3 castle).
func FortMultiplier(level int) float64 {
	switch {
	case level <= 0:
		return 1
	case level >= 3:
		return 1.75
	default:
		return 1 + 0.25*float64(level)
	}
}

// TownDefence is the strength available to defend town right now: the
// garrison scaled by the fort plus the armies of any garrisoned or visiting
// hero.
func TownDefence(gs model.GameState, town model.Town) uint64 {
	total := uint64(float64(Strength(town.Garrison)) * FortMultiplier(town.FortLevel))
	for _, id := range []int{town.GarrisonHero, town.VisitingHero} {
		if id == 0 {
			continue
		}
		if h, ok := gs.Hero(id); ok {
			total += Strength(h.Army)
		}
	}
	return total
}

// resourceWeight is the gold-equivalent of one unit of each resource.
var resourceWeight = map[string]int{
	model.Gold: 1,
	"wood":     125,
	"ore":      125,
}

const rareResourceWeight = 250

// GoldValue converts a resource bundle into gold-equivalent value.
func GoldValue(r model.Resources) int {
	total := 0
	for name, amount := range r {
		w, ok := resourceWeight[name]
		if !ok {
			w = rareResourceWeight
		}
		total += amount * w
	}
	return total
}
