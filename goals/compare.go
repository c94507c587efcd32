package goals

import "sort"

// CostScale is the gold amount that halves a goal's score.
const CostScale = 1000.0

// Score is value normalised by cost.
func (g Goal) Score() float64 {
	cost := float64(g.Cost)
	if cost < 0 {
		cost = 0
	}
	return g.Value / (1 + cost/CostScale)
}

// Less orders goals best first: higher tier, then higher score, then
// sooner turn, then earlier insertion.
func Less(a, b Goal) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if sa, sb := a.Score(), b.Score(); sa != sb {
		return sa > sb
	}
	if a.Turn != b.Turn {
		return a.Turn < b.Turn
	}
	return a.seq < b.seq
}

// Rank sorts v in place, best first.
func Rank(v Vec) {
	sort.SliceStable(v, func(i, j int) bool { return Less(v[i], v[j]) })
}
