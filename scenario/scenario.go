// Package scenario loads planning scenarios written in Lua. A scenario
// script returns a table describing one game snapshot plus the decision the
// planner is expected to reach:
//
//	return {
//	  name = "siege",
//	  seed = 7,
//	  state = { day = 3, player = "red", treasury = { gold = 3000 }, towns = { ... } },
//	  expect = { top = "RecruitHero", town = 2 },
//	}
//
// Hostile armies and tavern heroes may give their troops as random stack
// specs under "random" instead of explicit stacks; these are rolled with the
// scenario seed against the game tables.
package scenario

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
	"github.com/nstehr/vimy/vimy-planner/content"
	"github.com/nstehr/vimy/vimy-planner/gamedata"
	"github.com/nstehr/vimy/vimy-planner/model"
	"github.com/nstehr/vimy/vimy-planner/planner"
	"github.com/nstehr/vimy/vimy-planner/random"
)

// Scenario is one loaded script.
type Scenario struct {
	Name     string
	Seed     int64
	Doctrine string // empty keeps the configured doctrine
	State    model.GameState
	Terrain  *model.TerrainGrid
	Expect   Expectation
}

// Expectation is checked against the resulting plan. Zero fields are not
// checked.
type Expectation struct {
	Top      string `json:"top"`
	Town     int    `json:"town"`
	Hero     int    `json:"hero"`
	Tier     string `json:"tier"`
	MinTasks int    `json:"minTasks"`
}

type rawScenario struct {
	Name     string          `json:"name"`
	Seed     int64           `json:"seed"`
	Doctrine string          `json:"doctrine"`
	State    json.RawMessage `json:"state"`
	Terrain  *rawTerrain     `json:"terrain"`
	Expect   Expectation     `json:"expect"`
}

type rawTerrain struct {
	Cols  int   `json:"cols"`
	Rows  int   `json:"rows"`
	CellW int   `json:"cellW"`
	CellH int   `json:"cellH"`
	Grid  []int `json:"grid"`
}

// Load runs the script at path and builds the scenario. Random stacks are
// resolved against data. A non-zero seed overrides the script's own.
func Load(path string, data *gamedata.Registry, seed int64) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeTable {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return a table")
	}
	fields := tableToMap(state, -1)
	state.Pop(1)

	sc, err := build(fields, data, seed)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if strings.TrimSpace(sc.Name) == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

func build(fields map[string]any, data *gamedata.Registry, seed int64) (*Scenario, error) {
	if seed == 0 {
		seed = seedOf(fields)
	}
	rng := random.New(seed)
	if err := rollStacks(fields, data, rng); err != nil {
		return nil, err
	}

	blob, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	var raw rawScenario
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(raw.State) == 0 || string(raw.State) == "null" {
		return nil, fmt.Errorf("missing state")
	}

	sc := &Scenario{Name: raw.Name, Seed: rng.Seed(), Doctrine: raw.Doctrine, Expect: raw.Expect}
	if err := json.Unmarshal(raw.State, &sc.State); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if t := raw.Terrain; t != nil {
		grid := make([]model.TerrainType, len(t.Grid))
		for i, v := range t.Grid {
			grid[i] = model.TerrainType(v)
		}
		tg := &model.TerrainGrid{Cols: t.Cols, Rows: t.Rows, CellW: t.CellW, CellH: t.CellH, Grid: grid}
		if err := tg.Validate(); err != nil {
			return nil, err
		}
		sc.Terrain = tg
	}
	return sc, nil
}

func seedOf(fields map[string]any) int64 {
	if v, ok := fields["seed"].(int); ok && v != 0 {
		return int64(v)
	}
	seed, err := random.NewSeed()
	if err != nil {
		return 1
	}
	return seed
}

// rollStacks replaces every "random" list under state.hostiles and
// state.tavern with concrete stacks.
func rollStacks(fields map[string]any, data *gamedata.Registry, rng *random.Generator) error {
	st, ok := fields["state"].(map[string]any)
	if !ok {
		return nil
	}
	r := content.NewResolver(data, nil)
	for _, group := range []struct{ key, stacks string }{
		{"hostiles", "stacks"},
		{"tavern", "army"},
	} {
		list, _ := st[group.key].([]any)
		for i, item := range list {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			spec, ok := entry["random"]
			if !ok {
				continue
			}
			blob, err := json.Marshal(spec)
			if err != nil {
				return err
			}
			rolled, err := r.Creatures(content.Parse(string(blob)), rng)
			if err != nil {
				return fmt.Errorf("%s[%d]: %w", group.key, i, err)
			}
			stacks := make([]any, 0, len(rolled))
			for _, cs := range rolled {
				c, _ := data.Creature(cs.Creature)
				stacks = append(stacks, map[string]any{"creature": c.Name, "count": cs.Count, "power": c.Power})
			}
			slog.Debug("rolled stacks", "group", group.key, "index", i, "stacks", len(stacks))
			delete(entry, "random")
			entry[group.stacks] = stacks
		}
	}
	return nil
}

// Check compares the plan with the expectation.
func (s *Scenario) Check(p planner.Plan) error {
	e := s.Expect
	if len(p.Tasks) < e.MinTasks {
		return fmt.Errorf("plan has %d tasks, want at least %d", len(p.Tasks), e.MinTasks)
	}
	best := p.Best()
	if e.Top != "" && !strings.EqualFold(best.Kind.String(), e.Top) {
		return fmt.Errorf("best task is %s, want %s", best, e.Top)
	}
	if e.Town != 0 && best.Town != e.Town {
		return fmt.Errorf("best task targets town %d, want %d", best.Town, e.Town)
	}
	if e.Hero != 0 && best.Hero != e.Hero {
		return fmt.Errorf("best task uses hero %d, want %d", best.Hero, e.Hero)
	}
	if e.Tier != "" && best.Priority.String() != strings.ToLower(e.Tier) {
		return fmt.Errorf("best task tier is %s, want %s", best.Priority, e.Tier)
	}
	return nil
}

// Summary renders the plan as one line per task.
func Summary(p planner.Plan) string {
	var b strings.Builder
	for i, g := range p.Tasks {
		fmt.Fprintf(&b, "%2d. [%s] %s (score %.2f)\n", i+1, g.Priority, g, g.Score())
	}
	return b.String()
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo returns a slice for sequence tables, a map otherwise and nil
// for an empty table.
func tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count == 0 {
		return nil
	}
	if isArray && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}
	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
