package ipc

// These constants must stay in sync with the turn-execution layer.
const (
	TypeHello     = "hello"
	TypeAck       = "ack"
	TypeGameState = "game_state"
	TypePlan      = "plan"
)

type HelloMessage struct {
	Player  string       `json:"player"`
	Terrain *TerrainData `json:"terrain,omitempty"`
}

// TerrainData carries the coarse terrain grid of the adventure map.
// Optional; without it the planner treats the map as plain land.
type TerrainData struct {
	Cols  int   `json:"cols"`
	Rows  int   `json:"rows"`
	CellW int   `json:"cellW"`
	CellH int   `json:"cellH"`
	Grid  []int `json:"grid"`
}

type AckMessage struct {
	Status string `json:"status"`
}

// PlanMessage is the reply to a game_state: the ranked tasks for this turn.
// The execution layer applies Tasks[0].
type PlanMessage struct {
	ID        string        `json:"id"`
	Day       int           `json:"day"`
	Player    string        `json:"player"`
	Truncated bool          `json:"truncated,omitempty"`
	Events    []string      `json:"events,omitempty"`
	Tasks     []TaskMessage `json:"tasks"`
}

type TaskMessage struct {
	Kind        string  `json:"kind"`
	Tier        string  `json:"tier"`
	Town        int     `json:"town,omitempty"`
	Hero        int     `json:"hero,omitempty"`
	Creature    string  `json:"creature,omitempty"`
	Amount      int     `json:"amount,omitempty"`
	Turn        int     `json:"turn"`
	Value       float64 `json:"value"`
	Cost        int     `json:"cost"`
	Description string  `json:"description"`
}
