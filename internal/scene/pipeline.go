package scene

import (
	"context"
	"fmt"
	"math/rand/v2"

	"vgapview/internal/log"
	"vgapview/internal/snapshot"
)

// TurnError reports the turn at which a run stopped.
type TurnError struct {
	Turn int
	Err  error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn %d: %v", e.Turn, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRand sets the source of jitter magnitudes.
func WithRand(rng *rand.Rand) Option {
	return func(p *Pipeline) {
		p.jitter = NewJitter(rng)
	}
}

// WithProgress registers a callback invoked after each turn is folded in.
func WithProgress(fn func(turn int)) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// Pipeline folds turns start..end, in order, into a Record. A Pipeline
// runs once; build a new one for another range.
type Pipeline struct {
	loader snapshot.Loader
	start  int
	end    int

	playerID int
	jitter   *Jitter
	mines    *MinefieldTracker
	record   *Record
	progress func(turn int)
}

func NewPipeline(loader snapshot.Loader, start, end int, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader: loader,
		start:  start,
		end:    end,
		mines:  NewMinefieldTracker(),
		record: NewRecord(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.jitter == nil {
		p.jitter = NewJitter(nil)
	}
	return p
}

// Run processes the whole range. On failure the record holds the turns
// completed before the failing one and the error is a *TurnError.
func (p *Pipeline) Run(ctx context.Context) (*Record, error) {
	if p.end < p.start {
		return p.record, fmt.Errorf("invalid turn range %d..%d", p.start, p.end)
	}

	for n := p.start; n <= p.end; n++ {
		if err := ctx.Err(); err != nil {
			return p.record, &TurnError{Turn: n, Err: err}
		}

		t, err := p.loader.Load(ctx, n)
		if err != nil {
			return p.record, &TurnError{Turn: n, Err: err}
		}
		if t.Number != n {
			log.Warn("turn file reports a different turn", "requested", n, "reported", t.Number)
		}

		if n == p.start {
			p.record.Control = ExtractControl(t, p.start, p.end)
			p.playerID = t.Player.ID
			log.Debug("scene control", "game", p.record.Control.Name, "player", p.playerID, "first_turn", p.record.Control.FirstTurn)
		}

		p.record.Append(p.step(n, t))

		if p.progress != nil {
			p.progress(n)
		}
	}

	return p.record, nil
}

// step computes one turn's contribution.
func (p *Pipeline) step(n int, t *snapshot.Turn) TurnResult {
	log.Debug("processing turn", "turn", n, "game_turn", t.Number, "player", p.playerID,
		"ships", len(t.Ships), "messages", len(t.Messages), "minefields", len(t.Minefields))

	moves := ProjectShips(t.Ships, p.playerID)
	events := ClassifyMessages(t.Messages, p.playerID, p.jitter)
	fields, recouped := p.mines.Step(t.Minefields)

	log.Debug("turn folded", "turn", n, "moves", len(moves),
		"ship_builds", len(events.ShipBuilds), "starbase_builds", len(events.StarbaseBuilds),
		"ships_destroyed", len(events.ShipsDestroyed), "enemies_destroyed", len(events.EnemiesDestroyed),
		"recouped_minefields", recouped, "tracked_minefields", p.mines.Known())

	return TurnResult{
		Movement:         moves,
		ShipBuilds:       events.ShipBuilds,
		StarbaseBuilds:   events.StarbaseBuilds,
		ShipsDestroyed:   events.ShipsDestroyed,
		EnemiesDestroyed: events.EnemiesDestroyed,
		Minefields:       fields,
	}
}
