// Package snapshot reads per-turn game state files and hands them to the
// scene pipeline as validated, immutable Turn values.
package snapshot

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no snapshot exists for a turn.
	ErrNotFound = errors.New("snapshot not found")
	// ErrMalformed is returned when a snapshot cannot be parsed or lacks a
	// required field.
	ErrMalformed = errors.New("snapshot malformed")
)

// Loader supplies one parsed snapshot per turn number.
type Loader interface {
	Load(ctx context.Context, turn int) (*Turn, error)
}

// Turn is one turn's complete state as seen by a single player.
type Turn struct {
	Number     int
	GameName   string
	Player     Player
	Maps       []string
	Ships      []Ship
	Messages   []Message
	Minefields []Minefield
}

// Player is the viewing player of a snapshot.
type Player struct {
	ID       int
	Username string
}

type Ship struct {
	OwnerID int
	X       int
	Y       int
	TargetX int
	TargetY int
	Warp    int
}

// Message is a free-text event report attached to a map position.
type Message struct {
	Type    int
	OwnerID int
	X       int
	Y       int
	Body    string
}

// Minefield ids are stable only within the file that reports them.
type Minefield struct {
	ID      int
	OwnerID int
	X       int
	Y       int
	Radius  int
}
