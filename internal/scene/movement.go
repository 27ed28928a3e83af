package scene

import (
	"math"

	"vgapview/internal/snapshot"
)

// Project returns how far a ship at (x, y) heading for (targetX, targetY)
// gets in one turn. A ship covers at most warp² light years per turn, so
// longer moves are cut short along the same heading. Coordinates are
// truncated toward zero.
func Project(x, y, targetX, targetY, warp int) (int, int) {
	dx := float64(targetX - x)
	dy := float64(targetY - y)
	if dx == 0 && dy == 0 {
		return targetX, targetY
	}

	scale := float64(warp*warp) / math.Hypot(dx, dy)
	if scale > 1.0 {
		scale = 1.0
	}

	return int(float64(x) + dx*scale), int(float64(y) + dy*scale)
}

// ProjectShips returns the moves of the ships owned by playerID, in
// snapshot order.
func ProjectShips(ships []snapshot.Ship, playerID int) []Move {
	moves := make([]Move, 0, len(ships))
	for _, s := range ships {
		if s.OwnerID != playerID {
			continue
		}
		tx, ty := Project(s.X, s.Y, s.TargetX, s.TargetY, s.Warp)
		moves = append(moves, Move{X: s.X, Y: s.Y, TargetX: tx, TargetY: ty})
	}
	return moves
}
