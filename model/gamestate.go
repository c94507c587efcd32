package model

import "sort"

// GameState is the read-only snapshot the planner works from. The simulation
// sends a fresh one every turn; nothing in the planner mutates it.
type GameState struct {
	Day       int          `json:"day"`
	Player    string       `json:"player"`
	Allies    []string     `json:"allies,omitempty"`
	Treasury  Resources    `json:"treasury"`
	Towns     []Town       `json:"towns"`
	Heroes    []Hero       `json:"heroes"`
	Hostiles  []Army       `json:"hostiles"`
	Tavern    []TavernHero `json:"tavern"`
	MapWidth  int          `json:"mapWidth"`
	MapHeight int          `json:"mapHeight"`
}

// Resources maps a resource name ("gold", "wood", ...) to an amount.
type Resources map[string]int

const Gold = "gold"

func (r Resources) Gold() int { return r[Gold] }

// Covers reports whether r holds at least cost of every resource.
func (r Resources) Covers(cost Resources) bool {
	for k, v := range cost {
		if r[k] < v {
			return false
		}
	}
	return true
}

// Add returns the element-wise sum without modifying either operand.
func (r Resources) Add(o Resources) Resources {
	out := make(Resources, len(r)+len(o))
	for k, v := range r {
		out[k] += v
	}
	for k, v := range o {
		out[k] += v
	}
	return out
}

type Town struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Owner        string     `json:"owner"`
	X            int        `json:"x"`
	Y            int        `json:"y"`
	FortLevel    int        `json:"fortLevel"`
	Garrison     []Stack    `json:"garrison"`
	GarrisonHero int        `json:"garrisonHero,omitempty"`
	VisitingHero int        `json:"visitingHero,omitempty"`
	Dwellings    []Dwelling `json:"dwellings,omitempty"`
}

// HasHero is true when a hero is garrisoned in or visiting the town.
func (t Town) HasHero() bool { return t.GarrisonHero != 0 || t.VisitingHero != 0 }

type Hero struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Owner      string  `json:"owner"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	MovePoints int     `json:"movePoints"`
	Army       []Stack `json:"army"`
}

// Army is a hostile force visible to the player: an enemy hero or a roaming
// monster stack.
type Army struct {
	ID         int     `json:"id"`
	Owner      string  `json:"owner"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	MovePoints int     `json:"movePoints"`
	Stacks     []Stack `json:"stacks"`
	Hero       bool    `json:"hero"`
}

// Stack is one creature slot. Power is the per-unit fight value supplied by
// the simulation.
type Stack struct {
	Creature string `json:"creature"`
	Count    int    `json:"count"`
	Power    int    `json:"power"`
}

// Dwelling is a recruitable creature source inside a town.
type Dwelling struct {
	Creature  string `json:"creature"`
	Available int    `json:"available"`
	Cost      int    `json:"cost"` // gold per unit
	Power     int    `json:"power"`
}

// TavernHero is a hero that can be hired this turn.
type TavernHero struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	Army []Stack `json:"army"`
}

func (gs GameState) Town(id int) (Town, bool) {
	for _, t := range gs.Towns {
		if t.ID == id {
			return t, true
		}
	}
	return Town{}, false
}

func (gs GameState) Hero(id int) (Hero, bool) {
	for _, h := range gs.Heroes {
		if h.ID == id {
			return h, true
		}
	}
	return Hero{}, false
}

// OwnedTowns returns the player's towns ordered by id.
func (gs GameState) OwnedTowns() []Town {
	var out []Town
	for _, t := range gs.Towns {
		if t.Owner == gs.Player {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// OwnedHeroes returns the player's heroes ordered by id.
func (gs GameState) OwnedHeroes() []Hero {
	var out []Hero
	for _, h := range gs.Heroes {
		if h.Owner == gs.Player {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Friendly reports whether owner is the player or one of its allies.
func (gs GameState) Friendly(owner string) bool {
	if owner == gs.Player {
		return true
	}
	for _, a := range gs.Allies {
		if a == owner {
			return true
		}
	}
	return false
}
