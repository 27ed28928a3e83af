// Package scene folds a range of turn snapshots into the scene record that
// the animated viewer plays back.
package scene

// GameTypeSinglePlayer is the only control type produced: every scene is
// built from one player's turn files.
const GameTypeSinglePlayer = "singleplayer"

// Record is the complete scene. Every per-turn sequence is indexed by the
// offset of the turn within the processed range.
type Record struct {
	Control          *Control      `json:"control" yaml:"control"`
	Movement         [][]Move      `json:"movement" yaml:"movement"`
	ShipBuilds       [][]Point     `json:"shipBuilds" yaml:"shipBuilds"`
	StarbaseBuilds   [][]Point     `json:"starbaseBuilds" yaml:"starbaseBuilds"`
	ShipsDestroyed   [][]Point     `json:"shipsDestroyed" yaml:"shipsDestroyed"`
	EnemiesDestroyed [][]Point     `json:"enemiesDestroyed" yaml:"enemiesDestroyed"`
	Minefields       [][]Minefield `json:"minefields" yaml:"minefields"`
}

// Control is the scene metadata taken from the first turn.
type Control struct {
	Type       string `json:"type" yaml:"type"`
	FirstTurn  int    `json:"firstTurn" yaml:"firstTurn"`
	Turns      int    `json:"turns" yaml:"turns"`
	Name       string `json:"name" yaml:"name"`
	PlayerID   int    `json:"playerId" yaml:"playerId"`
	PlayerName string `json:"playerName" yaml:"playerName"`
	Background string `json:"background" yaml:"background"`
}

type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Move is a ship's position and the point it can reach this turn.
type Move struct {
	X       int `json:"x" yaml:"x"`
	Y       int `json:"y" yaml:"y"`
	TargetX int `json:"targetX" yaml:"targetX"`
	TargetY int `json:"targetY" yaml:"targetY"`
}

// Minefield carries both radii so the viewer can interpolate between turns.
type Minefield struct {
	X         int `json:"x" yaml:"x"`
	Y         int `json:"y" yaml:"y"`
	OwnerID   int `json:"ownerId" yaml:"ownerId"`
	Radius    int `json:"radius" yaml:"radius"`
	OldRadius int `json:"oldRadius" yaml:"oldRadius"`
}

// TurnResult is everything one turn contributes to the record.
type TurnResult struct {
	Movement         []Move
	ShipBuilds       []Point
	StarbaseBuilds   []Point
	ShipsDestroyed   []Point
	EnemiesDestroyed []Point
	Minefields       []Minefield
}

// NewRecord returns an empty record whose sequences encode as [] rather
// than null.
func NewRecord() *Record {
	return &Record{
		Movement:         [][]Move{},
		ShipBuilds:       [][]Point{},
		StarbaseBuilds:   [][]Point{},
		ShipsDestroyed:   [][]Point{},
		EnemiesDestroyed: [][]Point{},
		Minefields:       [][]Minefield{},
	}
}

// Append adds one turn to every sequence.
func (r *Record) Append(t TurnResult) {
	r.Movement = append(r.Movement, orEmpty(t.Movement))
	r.ShipBuilds = append(r.ShipBuilds, orEmpty(t.ShipBuilds))
	r.StarbaseBuilds = append(r.StarbaseBuilds, orEmpty(t.StarbaseBuilds))
	r.ShipsDestroyed = append(r.ShipsDestroyed, orEmpty(t.ShipsDestroyed))
	r.EnemiesDestroyed = append(r.EnemiesDestroyed, orEmpty(t.EnemiesDestroyed))
	r.Minefields = append(r.Minefields, orEmpty(t.Minefields))
}

// Len returns the number of turns appended so far.
func (r *Record) Len() int {
	return len(r.Movement)
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
