// Package threat estimates how dangerous visible hostile armies are to the
// player's towns. Everything here is a pure function of the snapshot.
package threat

import (
	"sort"

	"github.com/nstehr/vimy/vimy-planner/model"
)

// HitMapInfo is the threat a single hostile army poses to one location.
// The zero value means no known threat.
type HitMapInfo struct {
	Danger uint64 // army strength
	Turn   int    // turns until arrival, 0 = can strike this turn
	Threat int    // hostile army id
	Owner  string
}

func (h HitMapInfo) Known() bool { return h.Danger > 0 }

// Mode selects how multiple threats on one town are combined.
type Mode string

const (
	// ModeDominant evaluates the single most dangerous threat.
	ModeDominant Mode = "dominant"
	// ModeAdditive adds every threat that arrives no later than the dominant one.
	ModeAdditive Mode = "additive"
)

// DefaultHorizon is how many turns ahead threats are considered.
const DefaultHorizon = 7

// Estimator computes hit-map entries. A nil Terrain treats the map as plain
// land; Horizon <= 0 uses DefaultHorizon.
type Estimator struct {
	Terrain *model.TerrainGrid
	Horizon int
	Mode    Mode
}

func (e Estimator) horizon() int {
	if e.Horizon <= 0 {
		return DefaultHorizon
	}
	return e.Horizon
}

// ArrivalTurns estimates how many turns army needs to reach (x, y). False
// means the army cannot get there at all.
func (e Estimator) ArrivalTurns(a model.Army, x, y int) (int, bool) {
	cost, ok := e.Terrain.TravelCost(a.X, a.Y, x, y)
	if !ok {
		return 0, false
	}
	return TurnsToReach(a.MovePoints, cost)
}

// HeroArrivalTurns is ArrivalTurns for one of the player's heroes.
func (e Estimator) HeroArrivalTurns(h model.Hero, x, y int) (int, bool) {
	cost, ok := e.Terrain.TravelCost(h.X, h.Y, x, y)
	if !ok {
		return 0, false
	}
	return TurnsToReach(h.MovePoints, cost)
}

// TurnsToReach converts a movement cost into whole turns for a mover with
// the given daily movement points. A cost within one day's movement is turn 0.
func TurnsToReach(points, cost int) (int, bool) {
	if cost <= 0 {
		return 0, true
	}
	if points <= 0 {
		return 0, false
	}
	return (cost - 1) / points, true
}

// TownThreats lists every hostile army able to reach town within the
// horizon, most dangerous first (army id breaks ties). Armies that cannot
// reach the town are ignored.
func (e Estimator) TownThreats(gs model.GameState, town model.Town) []HitMapInfo {
	var out []HitMapInfo
	for _, a := range gs.Hostiles {
		if gs.Friendly(a.Owner) {
			continue
		}
		danger := Strength(a.Stacks)
		if danger == 0 {
			continue
		}
		turn, ok := e.ArrivalTurns(a, town.X, town.Y)
		if !ok || turn > e.horizon() {
			continue
		}
		out = append(out, HitMapInfo{Danger: danger, Turn: turn, Threat: a.ID, Owner: a.Owner})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Danger != out[j].Danger {
			return out[i].Danger > out[j].Danger
		}
		return out[i].Threat < out[j].Threat
	})
	return out
}

// DominantThreat returns the threat the town is evaluated against. In
// ModeAdditive the danger of every threat arriving no later than the
// dominant one is added to it.
func (e Estimator) DominantThreat(gs model.GameState, town model.Town) HitMapInfo {
	threats := e.TownThreats(gs, town)
	if len(threats) == 0 {
		return HitMapInfo{}
	}
	dom := threats[0]
	if e.Mode == ModeAdditive {
		for _, t := range threats[1:] {
			if t.Turn <= dom.Turn {
				dom.Danger += t.Danger
			}
		}
	}
	return dom
}

// HitMap returns the dominant threat for each owned town that has one,
// keyed by town id.
func (e Estimator) HitMap(gs model.GameState) map[int]HitMapInfo {
	out := make(map[int]HitMapInfo)
	for _, t := range gs.OwnedTowns() {
		if h := e.DominantThreat(gs, t); h.Known() {
			out[t.ID] = h
		}
	}
	return out
}
