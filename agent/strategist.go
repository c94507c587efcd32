package agent

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/nstehr/vimy/vimy-planner/model"
	"github.com/nstehr/vimy/vimy-planner/rules"
	"github.com/nstehr/vimy/vimy-planner/threat"
)

// Strategist switches the rule engine between the configured doctrine and a
// defensive one as the situation changes. It runs before each planning pass
// so a given sequence of snapshots always yields the same rule sets.
type Strategist struct {
	mu        sync.Mutex
	engine    *rules.Engine
	base      rules.Doctrine
	defensive rules.Doctrine
	current   string
	active    rules.Doctrine
	calmDays  int // calm days required before reverting to base
	calm      int
	lastDay   int
}

// NewStrategist creates a strategist starting on base.
func NewStrategist(engine *rules.Engine, base rules.Doctrine, calmDays int) *Strategist {
	if calmDays <= 0 {
		calmDays = 3
	}
	defensive, err := rules.LoadDoctrine("turtle")
	if err != nil {
		defensive = base
	}
	return &Strategist{
		engine:    engine,
		base:      base,
		defensive: defensive,
		current:   base.Name,
		active:    base,
		calmDays:  calmDays,
	}
}

// Current is the name of the active doctrine.
func (s *Strategist) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Doctrine is the active doctrine.
func (s *Strategist) Doctrine() rules.Doctrine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Observe updates the posture from the latest snapshot. It switches to the
// defensive doctrine when a town was lost or more than half of the towns
// are threatened, and back after calmDays days without any threat.
func (s *Strategist) Observe(gs model.GameState, hitmap map[int]threat.HitMapInfo, events []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	towns := len(gs.OwnedTowns())
	siege := hasEventKind(events, EventTownLost) || (towns > 0 && 2*len(hitmap) > towns)

	if len(hitmap) == 0 {
		if gs.Day != s.lastDay {
			s.calm++
		}
	} else {
		s.calm = 0
	}
	s.lastDay = gs.Day

	switch {
	case siege && s.current != s.defensive.Name:
		s.swap(s.defensive, gs, hitmap)
	case !siege && s.current != s.base.Name && s.calm >= s.calmDays:
		s.swap(s.base, gs, hitmap)
	}
}

func (s *Strategist) swap(d rules.Doctrine, gs model.GameState, hitmap map[int]threat.HitMapInfo) {
	slog.Info("doctrine changed",
		"from", s.current,
		"to", d.Name,
		"rationale", d.Rationale,
		"defence", d.DefencePriority,
		"economy", d.EconomyPriority,
		"reserve", d.GoldReserve,
	)
	slog.Debug("situation", "summary", summarize(gs, hitmap))
	if err := s.engine.Swap(rules.CompileDoctrine(d)); err != nil {
		slog.Error("strategist rule swap failed", "error", err)
		return
	}
	s.current = d.Name
	s.active = d
}

// summarize produces a human-readable text summary of the snapshot.
func summarize(gs model.GameState, hitmap map[int]threat.HitMapInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Day: %d | Player: %s\n", gs.Day, gs.Player)
	fmt.Fprintf(&b, "Treasury: %d gold (%d gold-equivalent)\n", gs.Treasury.Gold(), threat.GoldValue(gs.Treasury))
	for _, t := range gs.OwnedTowns() {
		fmt.Fprintf(&b, "Town %s (id %d): defence %d", t.Name, t.ID, threat.TownDefence(gs, t))
		if h, ok := hitmap[t.ID]; ok {
			fmt.Fprintf(&b, ", threat %d from %s in %d turns", h.Danger, h.Owner, h.Turn)
		}
		fmt.Fprintln(&b)
	}
	fmt.Fprintf(&b, "Heroes: %d | Hostiles visible: %d | Tavern: %d\n", len(gs.OwnedHeroes()), len(gs.Hostiles), len(gs.Tavern))
	return b.String()
}
