package scene

import "vgapview/internal/snapshot"

// ExtractControl builds the scene metadata from the first turn of the range.
func ExtractControl(t *snapshot.Turn, start, end int) *Control {
	c := &Control{
		Type:       GameTypeSinglePlayer,
		FirstTurn:  t.Number,
		Turns:      end - start + 1,
		Name:       t.GameName,
		PlayerID:   t.Player.ID,
		PlayerName: t.Player.Username,
	}
	if len(t.Maps) > 0 {
		c.Background = t.Maps[0]
	}
	return c
}
