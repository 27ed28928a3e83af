package snapshot

import (
	"encoding/json"
	"fmt"
)

// turnFile mirrors the subset of a planets.nu turn file that the scene
// builder reads. Pointers mark fields whose absence must be detected.
type turnFile struct {
	Rst *struct {
		Settings *struct {
			Turn *int   `json:"turn"`
			Name string `json:"name"`
		} `json:"settings"`
		Player *struct {
			ID       *int   `json:"id"`
			Username string `json:"username"`
		} `json:"player"`
		Maps       []string       `json:"maps"`
		Ships      []shipRow      `json:"ships"`
		Messages   []messageRow   `json:"messages"`
		Minefields []minefieldRow `json:"minefields"`
	} `json:"rst"`
}

type shipRow struct {
	OwnerID int `json:"ownerid"`
	X       int `json:"x"`
	Y       int `json:"y"`
	TargetX int `json:"targetx"`
	TargetY int `json:"targety"`
	Warp    int `json:"warp"`
}

type messageRow struct {
	MessageType int    `json:"messagetype"`
	OwnerID     int    `json:"ownerid"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Body        string `json:"body"`
}

type minefieldRow struct {
	ID      *int `json:"id"`
	OwnerID *int `json:"ownerid"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Radius  int  `json:"radius"`
}

// DecodeBytes parses a turn file and validates the fields the pipeline
// depends on.
func DecodeBytes(data []byte) (*Turn, error) {
	var f turnFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return f.toTurn()
}

func (f *turnFile) toTurn() (*Turn, error) {
	rst := f.Rst
	switch {
	case rst == nil:
		return nil, malformed("missing rst")
	case rst.Settings == nil:
		return nil, malformed("missing rst.settings")
	case rst.Settings.Turn == nil:
		return nil, malformed("missing rst.settings.turn")
	case rst.Player == nil:
		return nil, malformed("missing rst.player")
	case rst.Player.ID == nil:
		return nil, malformed("missing rst.player.id")
	case rst.Ships == nil:
		return nil, malformed("missing rst.ships")
	case rst.Messages == nil:
		return nil, malformed("missing rst.messages")
	case rst.Minefields == nil:
		return nil, malformed("missing rst.minefields")
	}

	t := &Turn{
		Number:   *rst.Settings.Turn,
		GameName: rst.Settings.Name,
		Player: Player{
			ID:       *rst.Player.ID,
			Username: rst.Player.Username,
		},
		Maps:       rst.Maps,
		Ships:      make([]Ship, 0, len(rst.Ships)),
		Messages:   make([]Message, 0, len(rst.Messages)),
		Minefields: make([]Minefield, 0, len(rst.Minefields)),
	}

	for _, s := range rst.Ships {
		t.Ships = append(t.Ships, Ship(s))
	}
	for _, m := range rst.Messages {
		t.Messages = append(t.Messages, Message{
			Type:    m.MessageType,
			OwnerID: m.OwnerID,
			X:       m.X,
			Y:       m.Y,
			Body:    m.Body,
		})
	}

	seen := make(map[int]bool, len(rst.Minefields))
	for i, m := range rst.Minefields {
		if m.ID == nil {
			return nil, malformed(fmt.Sprintf("minefield %d has no id", i))
		}
		if m.OwnerID == nil {
			return nil, malformed(fmt.Sprintf("minefield %d has no ownerid", *m.ID))
		}
		if seen[*m.ID] {
			return nil, malformed(fmt.Sprintf("duplicate minefield id %d", *m.ID))
		}
		seen[*m.ID] = true
		t.Minefields = append(t.Minefields, Minefield{
			ID:      *m.ID,
			OwnerID: *m.OwnerID,
			X:       m.X,
			Y:       m.Y,
			Radius:  m.Radius,
		})
	}

	return t, nil
}

func malformed(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformed, reason)
}
