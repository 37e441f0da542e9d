package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// IntegrateMotion advances every blob of every player toward p.Target,
// the fixed world-space point set by the last applied update_position
// (see ApplyUpdates), by one tick of elapsed wall time dt (spec §4.6,
// C6). It also refreshes each blob's swept AABB and recomputes the
// player's derived COM/zoom/vision-AABB once all of its blobs have
// moved.
//
// p.Target does not move as the blob approaches it, so the
// displacement shrinks tick over tick and motion actually converges
// (spec §8 scenario 2). Recomputing the target from the player's own
// COM every tick would instead chase a receding point for a
// single-blob player, since its COM tracks its own live position.
//
// Grounded on sonpython-slether/server/snake.go's Move (advance along
// a heading, clamp against the boundary) generalized from slether's
// fixed-speed single-direction motion to the spec's "ease toward a
// point, slow down near it" blob motion, and from snake's circular
// world-clamp to the spec's square clamp on each axis independently.
func IntegrateMotion(store *EntityStore, dt float64) {
	for _, p := range store.Players {
		for _, b := range p.Blobs {
			d := p.Target.Sub(b.Pos)
			m2 := d.Dot(d)

			if m2 > 0 {
				if m2 > b.R*b.R {
					scale := b.R / math.Sqrt(m2)
					d = d.Mul(scale)
				}

				step := d.Mul(dt * TPS)
				newPos := b.Pos.Add(step)
				lo := -WorldRadius + b.R
				hi := WorldRadius - b.R
				newPos[0] = clampAxis(newPos.X(), lo, hi)
				newPos[1] = clampAxis(newPos.Y(), lo, hi)

				b.Vel = d.Mul(TPS)
				b.Pos = newPos
			} else {
				b.Vel = mgl64.Vec2{0, 0}
			}

			b.AABB = SweptAABB(b.Pos, b.Vel, b.R, b.R)
		}
		p.RecomputeDerived()
	}
}

func clampAxis(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
