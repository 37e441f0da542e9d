package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned bounding box: four scalars (min_x, min_y,
// max_x, max_y). Grounded on sonpython-slether's use of raw (x,y)
// pairs for every spatial computation, generalized to the explicit
// box type spec §3/§4.1 calls for.
type AABB struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewAABB builds the static box centered on pos with half-extents
// (wr, hr) on each axis (spec §4.1: aabb(x, y, wr, hr)).
func NewAABB(pos mgl64.Vec2, wr, hr float64) AABB {
	return AABB{
		MinX: pos.X() - wr,
		MinY: pos.Y() - hr,
		MaxX: pos.X() + wr,
		MaxY: pos.Y() + hr,
	}
}

// SweptAABB projects one tick of motion forward and returns the box
// enclosing both the current and projected position (spec §4.1).
func SweptAABB(pos, vel mgl64.Vec2, wr, hr float64) AABB {
	next := pos.Add(vel.Mul(1.0 / TPS))
	return AABB{
		MinX: math.Min(pos.X(), next.X()) - wr,
		MinY: math.Min(pos.Y(), next.Y()) - hr,
		MaxX: math.Max(pos.X(), next.X()) + wr,
		MaxY: math.Max(pos.Y(), next.Y()) + hr,
	}
}

// Overlaps is the standard separating-axis test (spec §3).
func (a AABB) Overlaps(b AABB) bool {
	return !(a.MaxX < b.MinX || a.MinX > b.MaxX || a.MaxY < b.MinY || a.MinY > b.MaxY)
}

// Center returns the midpoint of the box.
func (a AABB) Center() mgl64.Vec2 {
	return mgl64.Vec2{(a.MinX + a.MaxX) / 2, (a.MinY + a.MaxY) / 2}
}

// Width and Height return the box's extent on each axis.
func (a AABB) Width() float64  { return a.MaxX - a.MinX }
func (a AABB) Height() float64 { return a.MaxY - a.MinY }
