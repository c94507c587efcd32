package model

import "testing"

func sampleGrid() *TerrainGrid {
	return &TerrainGrid{
		Cols:  4,
		Rows:  4,
		CellW: 8,
		CellH: 8,
		Grid: []TerrainType{
			Land, Land, Water, Water,
			Land, Land, Water, Water,
			Cliff, Road, Land, Land,
			Cliff, Rough, Land, Land,
		},
	}
}

func TestTerrainGridAt(t *testing.T) {
	grid := sampleGrid()

	tests := []struct {
		col, row int
		want     TerrainType
	}{
		{0, 0, Land},
		{2, 0, Water},
		{0, 2, Cliff},
		{1, 2, Road},
		{1, 3, Rough},
		{3, 3, Land},
	}
	for _, tc := range tests {
		got := grid.At(tc.col, tc.row)
		if got != tc.want {
			t.Errorf("At(%d, %d) = %d, want %d", tc.col, tc.row, got, tc.want)
		}
	}
}

func TestTerrainGridAtOutOfBounds(t *testing.T) {
	grid := &TerrainGrid{
		Cols:  2,
		Rows:  2,
		CellW: 4,
		CellH: 4,
		Grid:  []TerrainType{Water, Water, Water, Water},
	}

	// Out-of-bounds should return Land (safe default).
	if got := grid.At(-1, 0); got != Land {
		t.Errorf("At(-1, 0) = %d, want Land", got)
	}
	if got := grid.At(0, -1); got != Land {
		t.Errorf("At(0, -1) = %d, want Land", got)
	}
	if got := grid.At(2, 0); got != Land {
		t.Errorf("At(2, 0) = %d, want Land", got)
	}
	if got := grid.At(0, 2); got != Land {
		t.Errorf("At(0, 2) = %d, want Land", got)
	}
}

func TestTerrainGridAtMapPos(t *testing.T) {
	grid := sampleGrid()

	tests := []struct {
		mapX, mapY int
		want       TerrainType
	}{
		{0, 0, Land},   // col=0, row=0
		{4, 0, Land},   // col=0, row=0 (just inside)
		{16, 0, Water}, // col=2, row=0
		{24, 16, Land}, // col=3, row=2
		{0, 16, Cliff}, // col=0, row=2
		{8, 16, Road},  // col=1, row=2
	}
	for _, tc := range tests {
		got := grid.AtMapPos(tc.mapX, tc.mapY)
		if got != tc.want {
			t.Errorf("AtMapPos(%d, %d) = %d, want %d", tc.mapX, tc.mapY, got, tc.want)
		}
	}
}

func TestTerrainGridAtMapPosZeroCells(t *testing.T) {
	grid := &TerrainGrid{
		Cols:  2,
		Rows:  2,
		CellW: 0,
		CellH: 0,
		Grid:  []TerrainType{Water, Water, Water, Water},
	}
	if got := grid.AtMapPos(5, 5); got != Land {
		t.Errorf("AtMapPos with zero cells = %d, want Land", got)
	}
}

func TestTerrainGridZoneCenter(t *testing.T) {
	grid := &TerrainGrid{Cols: 4, Rows: 4, CellW: 8, CellH: 8}

	x, y := grid.ZoneCenter(0, 0)
	if x != 4 || y != 4 {
		t.Errorf("ZoneCenter(0,0) = (%d,%d), want (4,4)", x, y)
	}

	x, y = grid.ZoneCenter(1, 2)
	if x != 12 || y != 20 {
		t.Errorf("ZoneCenter(1,2) = (%d,%d), want (12,20)", x, y)
	}
}

func TestTerrainGridHasWater(t *testing.T) {
	noWater := &TerrainGrid{
		Cols: 2, Rows: 2, CellW: 4, CellH: 4,
		Grid: []TerrainType{Land, Land, Cliff, Land},
	}
	if noWater.HasWater() {
		t.Error("HasWater() should be false for land-only grid")
	}

	withWater := &TerrainGrid{
		Cols: 2, Rows: 2, CellW: 4, CellH: 4,
		Grid: []TerrainType{Land, Water, Cliff, Land},
	}
	if !withWater.HasWater() {
		t.Error("HasWater() should be true for grid with water")
	}
}

func TestTravelCost(t *testing.T) {
	grid := sampleGrid()

	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           int
		ok             bool
	}{
		{"same tile", 3, 3, 3, 3, 0, true},
		{"straight land", 0, 0, 5, 0, 500, true},
		{"diagonal land", 0, 0, 4, 4, 400, true},
		{"into water", 12, 0, 17, 0, 0, false},
		{"across cliff", 10, 20, 2, 20, 0, false},
		{"along road", 8, 20, 14, 20, 450, true},
		{"through rough", 8, 24, 10, 24, 350, true},
	}
	for _, tc := range tests {
		got, ok := grid.TravelCost(tc.x0, tc.y0, tc.x1, tc.y1)
		if ok != tc.ok || got != tc.want {
			t.Errorf("%s: TravelCost = (%d, %v), want (%d, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTravelCostNilGrid(t *testing.T) {
	var grid *TerrainGrid
	got, ok := grid.TravelCost(0, 0, 3, 1)
	if !ok || got != 300 {
		t.Errorf("nil grid TravelCost = (%d, %v), want (300, true)", got, ok)
	}
}

func TestTerrainGridValidate(t *testing.T) {
	tests := []struct {
		name    string
		grid    TerrainGrid
		wantErr bool
	}{
		{"matching", TerrainGrid{Cols: 2, Rows: 2, Grid: []TerrainType{Land, Water, Cliff, Road}}, false},
		{"empty", TerrainGrid{}, false},
		{"short", TerrainGrid{Cols: 10, Rows: 10, Grid: []TerrainType{Land}}, true},
		{"long", TerrainGrid{Cols: 1, Rows: 1, Grid: []TerrainType{Land, Land}}, true},
		{"negative", TerrainGrid{Cols: -1, Rows: 0}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.grid.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestTerrainGridAtShortGrid(t *testing.T) {
	g := &TerrainGrid{Cols: 10, Rows: 10, CellW: 8, CellH: 8, Grid: []TerrainType{Cliff}}
	if got := g.At(4, 5); got != Land {
		t.Errorf("At(4, 5) = %v, want Land past the end of the grid", got)
	}
	if got := g.At(0, 0); got != Cliff {
		t.Errorf("At(0, 0) = %v, want Cliff", got)
	}
	if _, ok := g.TravelCost(0, 0, 70, 70); ok {
		t.Error("TravelCost starting on a cliff should be unreachable")
	}
}
