package scene

import (
	"math"
	"math/rand/v2"

	"vgapview/internal/log"
)

const diag = math.Sqrt2 / 2

// jitterDirections is walked in order, one step per call. Consecutive
// entries point roughly away from each other so a burst of markers on one
// spot spreads out quickly.
var jitterDirections = [8][2]float64{
	{1, 0},
	{-diag, -diag},
	{0, 1},
	{diag, -diag},
	{-1, 0},
	{diag, diag},
	{0, -1},
	{-diag, diag},
}

// jitterScales are the offset magnitudes a call can pick from.
var jitterScales = [3]int{5, 10, 15}

// Jitter offsets destroy markers so events at the same coordinate do not
// draw on top of each other. Direction cycles with the call count; the
// magnitude is random.
type Jitter struct {
	count int
	rng   *rand.Rand
}

// NewJitter creates a generator drawing magnitudes from rng. A nil rng is
// seeded from the runtime.
func NewJitter(rng *rand.Rand) *Jitter {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Jitter{rng: rng}
}

// Apply returns p moved one jitter step. Every call advances the direction.
func (j *Jitter) Apply(p Point) Point {
	dir := jitterDirections[j.count%len(jitterDirections)]
	scale := float64(jitterScales[j.rng.IntN(len(jitterScales))])

	out := Point{
		X: p.X + int(math.Round(dir[0]*scale)),
		Y: p.Y + int(math.Round(dir[1]*scale)),
	}

	log.Debug("jitter", "begin_x", p.X, "begin_y", p.Y, "end_x", out.X, "end_y", out.Y, "rscale", scale)

	j.count++
	return out
}

// Count returns the number of points jittered so far.
func (j *Jitter) Count() int {
	return j.count
}
