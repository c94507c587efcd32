package goals

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/nstehr/vimy/vimy-planner/model"
	"github.com/nstehr/vimy/vimy-planner/threat"
)

// urgency maps arrival turns to a tier: a threat that can strike this turn
// outranks everything else.
func urgency(turn int) Tier {
	if turn <= 0 {
		return TierUrgent
	}
	return TierDefence
}

// decomposeDefenceBehavior evaluates every owned town against its dominant
// threat. Towns without a known threat are skipped.
func decomposeDefenceBehavior(gc *GameContext, _ Goal) Vec {
	var tasks Vec
	for _, town := range gc.State.OwnedTowns() {
		h := gc.Estimator.DominantThreat(gc.State, town)
		if !h.Known() {
			continue
		}
		slog.Debug("town threatened", "town", town.Name, "danger", h.Danger, "turn", h.Turn, "threat", h.Threat)
		tasks = evaluateDefence(gc, tasks, town, h)
	}
	return tasks
}

// evaluateDefence adds a Defence goal when the threat exceeds what the town
// can field now, then considers hiring a hero for it.
func evaluateDefence(gc *GameContext, tasks Vec, town model.Town, h threat.HitMapInfo) Vec {
	defence := threat.TownDefence(gc.State, town)
	if h.Danger <= defence {
		return tasks
	}
	margin := h.Danger - defence
	tasks = append(tasks, Goal{
		Kind:     KindDefence,
		Town:     town.ID,
		Value:    float64(margin),
		Priority: urgency(h.Turn),
		Turn:     h.Turn,
		Danger:   h.Danger,
		Amount:   int(margin),
	})
	return evaluateRecruitingHero(gc, tasks, h, town)
}

// evaluateRecruitingHero adds a RecruitHero goal when no hero can defend
// town before the threat arrives and the treasury covers the hire. Any
// failed check skips silently.
func evaluateRecruitingHero(gc *GameContext, tasks Vec, h threat.HitMapInfo, town model.Town) Vec {
	if town.HasHero() {
		return tasks
	}
	for _, hero := range gc.State.OwnedHeroes() {
		if threat.Strength(hero.Army) == 0 {
			continue
		}
		if turns, ok := gc.Estimator.HeroArrivalTurns(hero, town.X, town.Y); ok && turns <= h.Turn {
			return tasks
		}
	}
	cost := gc.hireCost()
	if gc.gold() < cost {
		return tasks
	}
	best, ok := bestTavernHero(gc.State.Tavern)
	if !ok {
		return tasks
	}
	return append(tasks, Goal{
		Kind:     KindRecruitHero,
		Town:     town.ID,
		Hero:     best.ID,
		Value:    float64(threat.Strength(best.Army)),
		Cost:     cost,
		Priority: urgency(h.Turn),
		Turn:     h.Turn,
		Danger:   h.Danger,
	})
}

func bestTavernHero(tavern []model.TavernHero) (model.TavernHero, bool) {
	if len(tavern) == 0 {
		return model.TavernHero{}, false
	}
	best := tavern[0]
	for _, th := range tavern[1:] {
		s, bs := threat.Strength(th.Army), threat.Strength(best.Army)
		if s > bs || (s == bs && th.ID < best.ID) {
			best = th
		}
	}
	return best, true
}

// fortCost is the gold price of each fortification level.
var fortCost = map[int]int{1: 5000, 2: 2500, 3: 5000}

const maxFortLevel = 3

// decomposeDefence turns a threatened town into concrete reinforcements:
// heroes that can arrive in time, troops bought from the town's dwellings
// up to the danger margin, and the next fort level.
func decomposeDefence(gc *GameContext, g Goal) Vec {
	town, ok := gc.State.Town(g.Town)
	if !ok {
		return nil
	}
	var out Vec
	margin := g.Amount

	for _, hero := range gc.State.OwnedHeroes() {
		if hero.ID == town.GarrisonHero || hero.ID == town.VisitingHero {
			continue
		}
		strength := threat.Strength(hero.Army)
		if strength == 0 {
			continue
		}
		turns, ok := gc.Estimator.HeroArrivalTurns(hero, town.X, town.Y)
		if !ok || turns > g.Turn {
			continue
		}
		out = append(out, Goal{
			Kind:     KindMoveReinforcements,
			Town:     town.ID,
			Hero:     hero.ID,
			Value:    float64(min(int(strength), margin)),
			Priority: g.Priority,
			Turn:     turns,
			Danger:   g.Danger,
		})
	}

	out = append(out, purchase(town, gc.gold(), margin, g.Priority, g.Turn)...)

	if next := town.FortLevel + 1; next <= maxFortLevel && gc.gold() >= fortCost[next] {
		gain := float64(threat.Strength(town.Garrison)) * (threat.FortMultiplier(next) - threat.FortMultiplier(town.FortLevel))
		if gain > 0 {
			out = append(out, Goal{
				Kind:     KindBuildDefences,
				Town:     town.ID,
				Value:    gain,
				Cost:     fortCost[next],
				Priority: g.Priority,
				Turn:     g.Turn,
				Danger:   g.Danger,
				Amount:   next,
			})
		}
	}
	return out
}

// purchase buys troops from town's dwellings, best power per gold first,
// until target strength is covered (target <= 0 means no cap) or budget runs
// out. One BuyArmy goal is produced per dwelling used.
func purchase(town model.Town, budget, target int, tier Tier, turn int) Vec {
	dwellings := append([]model.Dwelling(nil), town.Dwellings...)
	sort.SliceStable(dwellings, func(i, j int) bool {
		return efficiency(dwellings[i]) > efficiency(dwellings[j])
	})

	var out Vec
	bought := 0
	for _, d := range dwellings {
		if budget <= 0 || (target > 0 && bought >= target) {
			break
		}
		if d.Available <= 0 || d.Cost <= 0 || d.Power <= 0 {
			continue
		}
		count := min(d.Available, budget/d.Cost)
		if target > 0 {
			need := (target - bought + d.Power - 1) / d.Power
			count = min(count, need)
		}
		if count <= 0 {
			continue
		}
		budget -= count * d.Cost
		bought += count * d.Power
		out = append(out, Goal{
			Kind:     KindBuyArmy,
			Town:     town.ID,
			Creature: d.Creature,
			Amount:   count,
			Value:    float64(count * d.Power),
			Cost:     count * d.Cost,
			Priority: tier,
			Turn:     turn,
		})
	}
	return out
}

func efficiency(d model.Dwelling) float64 {
	if d.Cost <= 0 {
		return 0
	}
	return float64(d.Power) / float64(d.Cost)
}

func describeDefence(g Goal) string {
	return fmt.Sprintf("Defence town=%d danger=%d margin=%d turn=%d", g.Town, g.Danger, g.Amount, g.Turn)
}
