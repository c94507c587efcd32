package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nstehr/vimy/vimy-planner/model"
	"github.com/nstehr/vimy/vimy-planner/threat"
)

// EventKind identifies a change between two snapshots that invalidates the
// previous plan.
type EventKind string

const (
	EventNewThreat    EventKind = "new_threat"
	EventTownLost     EventKind = "town_lost"
	EventHeroLost     EventKind = "hero_lost"
	EventNewDay       EventKind = "new_day"
	EventFirstContact EventKind = "first_contact"
)

// Event represents a significant game event detected by diffing consecutive
// snapshots. Events are attached to the planning pass log and to the plan
// reply so the execution layer knows why the plan changed.
type Event struct {
	Kind   EventKind
	Day    int
	Detail string
}

func (e Event) String() string { return fmt.Sprintf("%s: %s", e.Kind, e.Detail) }

// stateSnapshot captures the diffable fields of one snapshot.
type stateSnapshot struct {
	day         int
	towns       map[int]string // id → name for owned towns
	heroes      map[int]string // id → name for owned heroes
	threats     map[int]int    // town id → dominant hostile army id
	enemiesSeen bool
}

// takeSnapshot captures the current diffable state for the next comparison.
func takeSnapshot(gs model.GameState, hitmap map[int]threat.HitMapInfo) stateSnapshot {
	snap := stateSnapshot{
		day:         gs.Day,
		towns:       make(map[int]string),
		heroes:      make(map[int]string),
		threats:     make(map[int]int, len(hitmap)),
		enemiesSeen: len(gs.Hostiles) > 0,
	}
	for _, t := range gs.OwnedTowns() {
		snap.towns[t.ID] = t.Name
	}
	for _, h := range gs.OwnedHeroes() {
		snap.heroes[h.ID] = h.Name
	}
	for town, h := range hitmap {
		snap.threats[town] = h.Threat
	}
	return snap
}

// detectEvents compares the current snapshot against the previous one and
// returns any triggered events in a stable order. Returns nil if prev is nil
// (first snapshot).
func detectEvents(gs model.GameState, hitmap map[int]threat.HitMapInfo, prev *stateSnapshot) []Event {
	if prev == nil {
		return nil
	}

	var events []Event
	cur := takeSnapshot(gs, hitmap)

	if cur.day != prev.day {
		events = append(events, Event{
			Kind:   EventNewDay,
			Day:    gs.Day,
			Detail: fmt.Sprintf("Day %d → %d", prev.day, cur.day),
		})
	}

	for _, id := range sortedKeys(prev.towns) {
		if _, ok := cur.towns[id]; !ok {
			events = append(events, Event{
				Kind:   EventTownLost,
				Day:    gs.Day,
				Detail: fmt.Sprintf("Lost town %s (id %d)", prev.towns[id], id),
			})
		}
	}

	for _, id := range sortedKeys(prev.heroes) {
		if _, ok := cur.heroes[id]; !ok {
			events = append(events, Event{
				Kind:   EventHeroLost,
				Day:    gs.Day,
				Detail: fmt.Sprintf("Lost hero %s (id %d)", prev.heroes[id], id),
			})
		}
	}

	// A town is newly threatened when its dominant threat changed to an
	// army that was not threatening it before.
	for _, town := range sortedKeys(cur.threats) {
		army := cur.threats[town]
		if before, ok := prev.threats[town]; ok && before == army {
			continue
		}
		h := hitmap[town]
		events = append(events, Event{
			Kind:   EventNewThreat,
			Day:    gs.Day,
			Detail: fmt.Sprintf("Town %d threatened by army %d (%s), danger %d in %d turns", town, army, h.Owner, h.Danger, h.Turn),
		})
	}

	if !prev.enemiesSeen && cur.enemiesSeen {
		events = append(events, Event{
			Kind:   EventFirstContact,
			Day:    gs.Day,
			Detail: fmt.Sprintf("First contact: %d hostile armies visible", len(gs.Hostiles)),
		})
	}

	return events
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func hasEventKind(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// formatEvents renders events as a "Recent Events" block for debug logs.
func formatEvents(events []Event) string {
	if len(events) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nRecent Events:\n")
	for _, e := range events {
		fmt.Fprintf(&b, "- [day %d] %s: %s\n", e.Day, e.Kind, e.Detail)
	}
	return b.String()
}
