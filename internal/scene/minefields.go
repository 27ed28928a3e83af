package scene

import (
	"sort"

	"vgapview/internal/snapshot"
)

// mineState is the last known state of a minefield id.
type mineState struct {
	X       int
	Y       int
	OwnerID int
	Radius  int
}

// MinefieldTracker links minefields across turns by id. A field that was
// reported last turn and is missing now is emitted once more with radius 0
// so the viewer can shrink it away, then forgotten.
type MinefieldTracker struct {
	history map[int]mineState
}

func NewMinefieldTracker() *MinefieldTracker {
	return &MinefieldTracker{history: make(map[int]mineState)}
}

// Step consumes one turn's minefields and returns the records to draw. The
// second result is the number of vanished fields emitted at radius 0.
func (t *MinefieldTracker) Step(fields []snapshot.Minefield) ([]Minefield, int) {
	out := make([]Minefield, 0, len(fields)+len(t.history))
	current := make(map[int]mineState, len(fields))

	for _, f := range fields {
		current[f.ID] = mineState{X: f.X, Y: f.Y, OwnerID: f.OwnerID, Radius: f.Radius}

		m := Minefield{X: f.X, Y: f.Y, OwnerID: f.OwnerID, Radius: f.Radius}
		if prev, ok := t.history[f.ID]; ok {
			m.OldRadius = prev.Radius
			delete(t.history, f.ID)
		}
		out = append(out, m)
	}

	// Whatever is left was seen last turn only.
	ids := make([]int, 0, len(t.history))
	for id := range t.history {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		prev := t.history[id]
		out = append(out, Minefield{
			X:         prev.X,
			Y:         prev.Y,
			OwnerID:   prev.OwnerID,
			Radius:    0,
			OldRadius: prev.Radius,
		})
	}

	t.history = current
	return out, len(ids)
}

// Known returns the number of minefield ids carried into the next turn.
func (t *MinefieldTracker) Known() int {
	return len(t.history)
}
