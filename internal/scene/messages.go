package scene

import (
	"strings"

	"vgapview/internal/log"
	"vgapview/internal/snapshot"
)

// Message type codes of the turn file format.
const (
	MessageTypeCombat       = 6
	MessageTypeConstruction = 11
)

// EventKind is what a classified message contributes to the scene.
type EventKind int

const (
	EventNone EventKind = iota
	EventStarbaseBuilt
	EventShipBuilt
	EventEnemyDestroyed
	EventShipDestroyed
)

func (k EventKind) String() string {
	switch k {
	case EventStarbaseBuilt:
		return "starbase-built"
	case EventShipBuilt:
		return "ship-built"
	case EventEnemyDestroyed:
		return "enemy-destroyed"
	case EventShipDestroyed:
		return "ship-destroyed"
	default:
		return "none"
	}
}

// Destroy reports whether the event marks a destruction.
func (k EventKind) Destroy() bool {
	return k == EventEnemyDestroyed || k == EventShipDestroyed
}

// messageRule matches one phrase in messages of one type.
type messageRule struct {
	messageType int
	ownOnly     bool
	phrase      string
	kind        EventKind
}

// messageRules is ordered: the specific starbase phrase must be tried
// before the general construction phrase, and "has destroyed" before
// "has been destroyed". Combat rules match messages of any owner.
var messageRules = []messageRule{
	{MessageTypeConstruction, true, "new starbase has been constructed", EventStarbaseBuilt},
	{MessageTypeConstruction, true, "has been constructed", EventShipBuilt},
	{MessageTypeCombat, false, "has destroyed", EventEnemyDestroyed},
	{MessageTypeCombat, false, "has been destroyed", EventShipDestroyed},
}

// Classify returns the event a message stands for, or EventNone.
func Classify(m snapshot.Message, playerID int) EventKind {
	for _, r := range messageRules {
		if m.Type != r.messageType {
			continue
		}
		if r.ownOnly && m.OwnerID != playerID {
			continue
		}
		if strings.Contains(m.Body, r.phrase) {
			return r.kind
		}
	}
	return EventNone
}

// MessageEvents are the per-turn lists produced from a turn's messages.
type MessageEvents struct {
	ShipBuilds       []Point
	StarbaseBuilds   []Point
	ShipsDestroyed   []Point
	EnemiesDestroyed []Point
}

// ClassifyMessages sorts a turn's messages into event lists. Destroy
// positions go through jitter once each; build positions are kept as is.
func ClassifyMessages(messages []snapshot.Message, playerID int, jitter *Jitter) MessageEvents {
	ev := MessageEvents{
		ShipBuilds:       []Point{},
		StarbaseBuilds:   []Point{},
		ShipsDestroyed:   []Point{},
		EnemiesDestroyed: []Point{},
	}

	for _, m := range messages {
		kind := Classify(m, playerID)
		if kind == EventNone {
			continue
		}
		log.Debug("message classified", "kind", kind.String(), "type", m.Type, "x", m.X, "y", m.Y)

		p := Point{X: m.X, Y: m.Y}
		if kind.Destroy() {
			p = jitter.Apply(p)
		}

		switch kind {
		case EventStarbaseBuilt:
			ev.StarbaseBuilds = append(ev.StarbaseBuilds, p)
		case EventShipBuilt:
			ev.ShipBuilds = append(ev.ShipBuilds, p)
		case EventEnemyDestroyed:
			ev.EnemiesDestroyed = append(ev.EnemiesDestroyed, p)
		case EventShipDestroyed:
			ev.ShipsDestroyed = append(ev.ShipsDestroyed, p)
		}
	}

	return ev
}
