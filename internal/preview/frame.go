// Package preview draws a still frame of one scene turn. It is a debugging
// aid for checking a record without the web viewer, not a player.
package preview

import (
	"fmt"
	"image"
	"image/color"

	"vgapview/internal/scene"
)

// DefaultWorld is the edge length of the game map in light years.
const DefaultWorld = 4000

type Options struct {
	// Width of the square output image in pixels.
	Width int
	// World is the map edge length in game units.
	World float64
	// Frame is the animation position within the turn, 0 to 1.
	Frame float64
}

var (
	ownMinefieldFill     = color.NRGBA{0, 255, 0, 64}
	ownMinefieldEdge     = color.NRGBA{0, 255, 0, 102}
	foreignMinefieldFill = color.NRGBA{255, 0, 0, 64}
	foreignMinefieldEdge = color.NRGBA{255, 0, 0, 102}
	moveTrail            = color.NRGBA{0, 255, 0, 255}
)

// fading returns col with the alpha the viewer uses for event glyphs at
// frame f.
func fading(r, g, b uint8, f float64) color.NRGBA {
	a := (1.0 - f) + 0.25
	if a > 1 {
		a = 1
	}
	return color.NRGBA{r, g, b, uint8(a * 255)}
}

// Render draws turn index turn of rec at opts.Frame.
func Render(rec *scene.Record, turn int, opts Options) (*image.RGBA, error) {
	if turn < 0 || turn >= rec.Len() {
		return nil, fmt.Errorf("turn index %d out of range (scene has %d turns)", turn, rec.Len())
	}
	for _, n := range []int{len(rec.ShipBuilds), len(rec.StarbaseBuilds), len(rec.ShipsDestroyed), len(rec.EnemiesDestroyed), len(rec.Minefields)} {
		if n <= turn {
			return nil, fmt.Errorf("scene is truncated: a sequence has only %d turns", n)
		}
	}
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.World <= 0 {
		opts.World = DefaultWorld
	}
	f := opts.Frame
	if f < 0 || f > 1 {
		return nil, fmt.Errorf("frame %.2f outside 0..1", f)
	}

	playerID := 0
	if rec.Control != nil {
		playerID = rec.Control.PlayerID
	}

	c := newCanvas(opts.Width, opts.World)

	for _, m := range rec.Minefields[turn] {
		r := float64(m.OldRadius) + float64(m.Radius-m.OldRadius)*f
		fill, edge := foreignMinefieldFill, foreignMinefieldEdge
		if m.OwnerID == playerID {
			fill, edge = ownMinefieldFill, ownMinefieldEdge
		}
		c.disc(float64(m.X), float64(m.Y), r, fill)
		c.ring(float64(m.X), float64(m.Y), r, 1, edge)
	}

	for _, mv := range rec.Movement[turn] {
		x, y := float64(mv.X), float64(mv.Y)
		c.line(x, y, x+float64(mv.TargetX-mv.X)*f, y+float64(mv.TargetY-mv.Y)*f, 2, moveTrail)
	}

	for _, b := range rec.ShipBuilds[turn] {
		c.ring(float64(b.X), float64(b.Y), 50*f, 6, fading(0, 255, 255, f))
	}
	for _, b := range rec.StarbaseBuilds[turn] {
		c.ring(float64(b.X), float64(b.Y), 100*f, 20, fading(255, 255, 255, f))
	}
	for _, d := range rec.ShipsDestroyed[turn] {
		c.ring(float64(d.X), float64(d.Y), 30*f, 10, fading(255, 0, 0, f))
	}
	for _, d := range rec.EnemiesDestroyed[turn] {
		c.ring(float64(d.X), float64(d.Y), 30*(1-f), 5, fading(255, 255, 255, f))
	}

	return c.img, nil
}
