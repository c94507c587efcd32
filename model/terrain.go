package model

import "fmt"

// TerrainType classifies a coarse grid zone.
type TerrainType byte

const (
	Land  TerrainType = 0 // passable ground
	Water TerrainType = 1 // naval only
	Cliff TerrainType = 2 // impassable (rock, mountain)
	Rough TerrainType = 3 // passable at a penalty (swamp, snow, sand)
	Road  TerrainType = 4 // passable at a discount
)

// BaseStepCost is the movement-point cost of one tile of plain land.
const BaseStepCost = 100

var stepCost = map[TerrainType]int{
	Land:  BaseStepCost,
	Rough: 175,
	Road:  75,
}

// TerrainGrid is a coarse grid over the adventure map.
// Each zone covers CellW x CellH map tiles and stores a single TerrainType.
type TerrainGrid struct {
	Cols  int           // grid columns
	Rows  int           // grid rows
	CellW int           // map tiles per grid column
	CellH int           // map tiles per grid row
	Grid  []TerrainType // row-major: Grid[row*Cols + col]
}

// At returns the terrain type at grid coordinates (col, row).
// Returns Land for out-of-bounds coordinates.
func (g *TerrainGrid) At(col, row int) TerrainType {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return Land
	}
	i := row*g.Cols + col
	if i >= len(g.Grid) {
		return Land
	}
	return g.Grid[i]
}

// Validate reports a grid whose cell count does not match its dimensions.
func (g *TerrainGrid) Validate() error {
	if g.Cols < 0 || g.Rows < 0 || len(g.Grid) != g.Cols*g.Rows {
		return fmt.Errorf("terrain grid has %d cells, want %dx%d", len(g.Grid), g.Cols, g.Rows)
	}
	return nil
}

// AtMapPos converts map coordinates to coarse grid coordinates and returns
// the terrain type. Returns Land for out-of-bounds or zero-sized cells.
func (g *TerrainGrid) AtMapPos(mapX, mapY int) TerrainType {
	if g == nil || g.CellW <= 0 || g.CellH <= 0 {
		return Land
	}
	return g.At(mapX/g.CellW, mapY/g.CellH)
}

// StepCost returns the movement cost of entering the tile at (mapX, mapY) and
// false when the tile cannot be crossed on land.
func (g *TerrainGrid) StepCost(mapX, mapY int) (int, bool) {
	c, ok := stepCost[g.AtMapPos(mapX, mapY)]
	return c, ok
}

// TravelCost estimates the movement points needed to walk from (x0, y0) to
// (x1, y1). The estimate follows the straight line, one tile per diagonal or
// orthogonal step, and reports false if it crosses water or cliffs. A nil
// grid treats the whole map as plain land.
func (g *TerrainGrid) TravelCost(x0, y0, x1, y1 int) (int, bool) {
	total := 0
	x, y := x0, y0
	for x != x1 || y != y1 {
		x += sign(x1 - x)
		y += sign(y1 - y)
		c, ok := g.StepCost(x, y)
		if !ok {
			return 0, false
		}
		total += c
	}
	return total, true
}

// ZoneCenter returns the map coordinates of the center of the grid zone
// at (col, row).
func (g *TerrainGrid) ZoneCenter(col, row int) (int, int) {
	x := col*g.CellW + g.CellW/2
	y := row*g.CellH + g.CellH/2
	return x, y
}

// HasWater returns true if any zone in the grid is classified as Water.
func (g *TerrainGrid) HasWater() bool {
	for _, t := range g.Grid {
		if t == Water {
			return true
		}
	}
	return false
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
