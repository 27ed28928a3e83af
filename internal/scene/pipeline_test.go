package scene

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vgapview/internal/snapshot"
)

// memLoader serves turns from a map.
type memLoader map[int]*snapshot.Turn

func (m memLoader) Load(ctx context.Context, turn int) (*snapshot.Turn, error) {
	t, ok := m[turn]
	if !ok {
		return nil, fmt.Errorf("%w: turn %d", snapshot.ErrNotFound, turn)
	}
	return t, nil
}

func newTurn(n int, minefields ...snapshot.Minefield) *snapshot.Turn {
	return &snapshot.Turn{
		Number:     n,
		GameName:   "Sector Alpha",
		Player:     snapshot.Player{ID: 3, Username: "dave"},
		Maps:       []string{"http://example.com/map.jpg"},
		Ships:      []snapshot.Ship{},
		Messages:   []snapshot.Message{},
		Minefields: minefields,
	}
}

func runPipeline(t *testing.T, loader snapshot.Loader, start, end int, opts ...Option) (*Record, error) {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(1, 1)))}, opts...)
	return NewPipeline(loader, start, end, opts...).Run(context.Background())
}

func TestPipelineMinefieldScenario(t *testing.T) {
	field := snapshot.Minefield{ID: 5, OwnerID: 3, X: 1500, Y: 2500, Radius: 20}
	loader := memLoader{
		1: newTurn(1, field),
		2: newTurn(2, field),
		3: newTurn(3),
		4: newTurn(4),
	}

	rec, err := runPipeline(t, loader, 1, 3)
	require.NoError(t, err)

	require.Len(t, rec.Minefields, 3)
	assert.Equal(t, []Minefield{{X: 1500, Y: 2500, OwnerID: 3, Radius: 20, OldRadius: 0}}, rec.Minefields[0])
	assert.Equal(t, []Minefield{{X: 1500, Y: 2500, OwnerID: 3, Radius: 20, OldRadius: 20}}, rec.Minefields[1])
	assert.Equal(t, []Minefield{{X: 1500, Y: 2500, OwnerID: 3, Radius: 0, OldRadius: 20}}, rec.Minefields[2])

	// One more turn: the field is gone for good.
	rec, err = runPipeline(t, loader, 1, 4)
	require.NoError(t, err)
	require.Len(t, rec.Minefields, 4)
	assert.Empty(t, rec.Minefields[3])
}

func TestPipelineControlFromFirstTurnOnly(t *testing.T) {
	loader := memLoader{}
	for n := 1; n <= 10; n++ {
		turn := newTurn(n + 40)
		if n > 1 {
			turn.GameName = fmt.Sprintf("renamed %d", n)
			turn.Maps = []string{fmt.Sprintf("map%d.jpg", n)}
			turn.Player.Username = "someone else"
		}
		loader[n] = turn
	}

	rec, err := runPipeline(t, loader, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, &Control{
		Type:       GameTypeSinglePlayer,
		FirstTurn:  41,
		Turns:      10,
		Name:       "Sector Alpha",
		PlayerID:   3,
		PlayerName: "dave",
		Background: "http://example.com/map.jpg",
	}, rec.Control)
}

func TestPipelineEverySequenceHasOneEntryPerTurn(t *testing.T) {
	loader := memLoader{}
	for n := 3; n <= 7; n++ {
		loader[n] = newTurn(n)
	}
	loader[5].Ships = []snapshot.Ship{
		{OwnerID: 3, X: 0, Y: 0, TargetX: 10, TargetY: 0, Warp: 9},
		{OwnerID: 8, X: 0, Y: 0, TargetX: 10, TargetY: 0, Warp: 9},
	}
	loader[6].Messages = []snapshot.Message{
		{Type: MessageTypeCombat, OwnerID: 8, X: 100, Y: 100, Body: "Ship A has destroyed Ship B"},
		{Type: MessageTypeCombat, OwnerID: 8, X: 100, Y: 100, Body: "Ship C has destroyed Ship D"},
	}

	var seen []int
	rec, err := runPipeline(t, loader, 3, 7, WithProgress(func(turn int) { seen = append(seen, turn) }))
	require.NoError(t, err)

	assert.Equal(t, []int{3, 4, 5, 6, 7}, seen)
	assert.Equal(t, 5, rec.Control.Turns)
	for name, n := range map[string]int{
		"movement":         len(rec.Movement),
		"shipBuilds":       len(rec.ShipBuilds),
		"starbaseBuilds":   len(rec.StarbaseBuilds),
		"shipsDestroyed":   len(rec.ShipsDestroyed),
		"enemiesDestroyed": len(rec.EnemiesDestroyed),
		"minefields":       len(rec.Minefields),
	} {
		assert.Equal(t, 5, n, name)
	}

	assert.Equal(t, []Move{{X: 0, Y: 0, TargetX: 10, TargetY: 0}}, rec.Movement[2])
	require.Len(t, rec.EnemiesDestroyed[3], 2)
	assert.NotEqual(t, rec.EnemiesDestroyed[3][0], rec.EnemiesDestroyed[3][1], "colocated kills are spread apart")
}

func TestPipelineMissingTurnStopsRun(t *testing.T) {
	loader := memLoader{1: newTurn(1), 2: newTurn(2), 4: newTurn(4)}

	rec, err := runPipeline(t, loader, 1, 4)
	require.Error(t, err)

	var turnErr *TurnError
	require.ErrorAs(t, err, &turnErr)
	assert.Equal(t, 3, turnErr.Turn)
	assert.ErrorIs(t, err, snapshot.ErrNotFound)
	assert.Contains(t, err.Error(), "turn 3")

	// Turns before the failure are kept.
	assert.Equal(t, 2, rec.Len())
}

func TestPipelineInvalidRange(t *testing.T) {
	rec, err := runPipeline(t, memLoader{}, 5, 4)
	require.Error(t, err)
	assert.Equal(t, 0, rec.Len())
}

func TestPipelineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec, err := NewPipeline(memLoader{1: newTurn(1)}, 1, 1).Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, rec.Len())
}

func TestPipelineJitterCycleSpansTurns(t *testing.T) {
	kill := snapshot.Message{Type: MessageTypeCombat, OwnerID: 8, X: 100, Y: 100, Body: "Ship A has destroyed Ship B"}
	loader := memLoader{1: newTurn(1), 2: newTurn(2)}
	loader[1].Messages = []snapshot.Message{kill}
	loader[2].Messages = []snapshot.Message{kill}

	rec, err := runPipeline(t, loader, 1, 2)
	require.NoError(t, err)

	// First marker of the run heads east.
	require.Len(t, rec.EnemiesDestroyed[0], 1)
	first := rec.EnemiesDestroyed[0][0]
	assert.Greater(t, first.X, 100)
	assert.Equal(t, 100, first.Y)

	// The next turn carries on with the second direction instead of
	// starting over.
	require.Len(t, rec.EnemiesDestroyed[1], 1)
	second := rec.EnemiesDestroyed[1][0]
	assert.Less(t, second.X, 100)
	assert.Less(t, second.Y, 100)
}
