package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nstehr/vimy/vimy-planner/goals"
	"github.com/nstehr/vimy/vimy-planner/ipc"
	"github.com/nstehr/vimy/vimy-planner/model"
	"github.com/nstehr/vimy/vimy-planner/planner"
	"github.com/nstehr/vimy/vimy-planner/threat"
)

// Journal records finished plans. journal.Store implements it.
type Journal interface {
	Record(ctx context.Context, p planner.Plan, player string) error
}

// eventJournal is implemented by journals that also keep the events that
// triggered a replan.
type eventJournal interface {
	RecordEvent(ctx context.Context, planID, player string, day int, kind, detail string) error
}

// Options are the per-player planning parameters.
type Options struct {
	HireCost      int
	GoldReserve   int // used when no Strategist is set
	ThreatHorizon int
	ThreatMode    threat.Mode
}

// Agent owns the decision-making for a single player session.
type Agent struct {
	Conn       *ipc.Connection
	Player     string
	Planner    *planner.Engine
	Strategist *Strategist // optional
	Journal    Journal     // optional
	opts       Options

	mu      sync.Mutex
	terrain *model.TerrainGrid
	prev    *stateSnapshot
}

func New(conn *ipc.Connection, engine *planner.Engine, opts Options) *Agent {
	return &Agent{Conn: conn, Planner: engine, opts: opts}
}

// HandleHello completes the handshake and stores the terrain grid.
func (a *Agent) HandleHello(_ context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}

	var tg *model.TerrainGrid
	if hello.Terrain != nil {
		tg = terrainFromWire(hello.Terrain)
		if err := tg.Validate(); err != nil {
			return nil, fmt.Errorf("hello from %s: %w", hello.Player, err)
		}
	}

	a.mu.Lock()
	a.Player = hello.Player
	if a.Conn != nil {
		a.Conn.Player = hello.Player
	}
	if tg != nil {
		a.terrain = tg
		slog.Info("terrain grid set", "cols", a.terrain.Cols, "rows", a.terrain.Rows, "cellW", a.terrain.CellW, "cellH", a.terrain.CellH)
	}
	a.mu.Unlock()
	slog.Info("player identified", "player", hello.Player)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok"})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// SetTerrain replaces the terrain grid used for travel estimates. A nil grid
// falls back to straight-line distance.
func (a *Agent) SetTerrain(tg *model.TerrainGrid) {
	a.mu.Lock()
	a.terrain = tg
	a.mu.Unlock()
}

// HandleGameState plans the turn for the received snapshot and replies with
// the ranked tasks.
func (a *Agent) HandleGameState(ctx context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
	var gs model.GameState
	if err := json.Unmarshal(env.Data, &gs); err != nil {
		return nil, fmt.Errorf("unmarshal GameState: %w", err)
	}
	if gs.Player == "" {
		gs.Player = a.Player
	}

	slog.Info("game state received",
		"player", gs.Player,
		"day", gs.Day,
		"gold", gs.Treasury.Gold(),
		"towns", len(gs.OwnedTowns()),
		"heroes", len(gs.OwnedHeroes()),
		"hostiles", len(gs.Hostiles),
	)

	plan, events := a.PlanTurn(ctx, gs)
	reply, err := ipc.NewEnvelope(ipc.TypePlan, toPlanMessage(plan, events))
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// PlanTurn runs one planning pass over gs.
func (a *Agent) PlanTurn(ctx context.Context, gs model.GameState) (planner.Plan, []Event) {
	a.mu.Lock()
	defer a.mu.Unlock()

	est := threat.Estimator{Terrain: a.terrain, Horizon: a.opts.ThreatHorizon, Mode: a.opts.ThreatMode}
	hitmap := est.HitMap(gs)
	events := detectEvents(gs, hitmap, a.prev)
	snap := takeSnapshot(gs, hitmap)
	a.prev = &snap

	if len(events) > 0 {
		slog.Info("plan invalidated", "player", gs.Player, "events", len(events))
		slog.Debug("events", "detail", formatEvents(events))
	}
	reserve := a.opts.GoldReserve
	if a.Strategist != nil {
		a.Strategist.Observe(gs, hitmap, events)
		reserve = a.Strategist.Doctrine().GoldReserve
	}

	gc := &goals.GameContext{
		State:       gs,
		Estimator:   est,
		HireCost:    a.opts.HireCost,
		GoldReserve: reserve,
	}
	plan := a.Planner.Plan(ctx, gc, planner.DefaultRoots())
	slog.Info("plan ready",
		"plan", plan.ID,
		"player", gs.Player,
		"day", gs.Day,
		"tasks", len(plan.Tasks),
		"best", plan.Best().String(),
		"truncated", plan.Truncated,
	)

	if a.Journal != nil {
		if err := a.Journal.Record(ctx, plan, gs.Player); err != nil {
			slog.Error("journal write failed", "plan", plan.ID, "error", err)
		}
		if ej, ok := a.Journal.(eventJournal); ok {
			for _, e := range events {
				if err := ej.RecordEvent(ctx, plan.ID.String(), gs.Player, e.Day, string(e.Kind), e.Detail); err != nil {
					slog.Error("journal event write failed", "plan", plan.ID, "event", e.Kind, "error", err)
					break
				}
			}
		}
	}
	return plan, events
}

func terrainFromWire(td *ipc.TerrainData) *model.TerrainGrid {
	grid := make([]model.TerrainType, len(td.Grid))
	for i, v := range td.Grid {
		grid[i] = model.TerrainType(v)
	}
	return &model.TerrainGrid{Cols: td.Cols, Rows: td.Rows, CellW: td.CellW, CellH: td.CellH, Grid: grid}
}

func toPlanMessage(p planner.Plan, events []Event) ipc.PlanMessage {
	msg := ipc.PlanMessage{
		ID:        p.ID.String(),
		Day:       p.Day,
		Player:    p.Player,
		Truncated: p.Truncated,
		Tasks:     make([]ipc.TaskMessage, len(p.Tasks)),
	}
	for _, e := range events {
		msg.Events = append(msg.Events, e.String())
	}
	for i, t := range p.Tasks {
		msg.Tasks[i] = ipc.TaskMessage{
			Kind:        t.Kind.String(),
			Tier:        t.Priority.String(),
			Town:        t.Town,
			Hero:        t.Hero,
			Creature:    t.Creature,
			Amount:      t.Amount,
			Turn:        t.Turn,
			Value:       t.Value,
			Cost:        t.Cost,
			Description: t.String(),
		}
	}
	return msg
}
