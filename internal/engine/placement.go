package engine

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// PlacementKind distinguishes which entity kind a placement search is
// looking for — only the player-blob kind gets the food-overlap
// exception (spec §4.4 step 4).
type PlacementKind uint8

const (
	PlacementPlayerBlob PlacementKind = iota
	PlacementFood
	PlacementVirus
)

// Placement is the successful result of FindPlacement: a collision-
// free position plus the entity's own AABB and the grid cells it
// occupies (spec §4.4 "Contract").
type Placement struct {
	Pos   mgl64.Vec2
	AABB  AABB
	Cells []int64
}

// FindPlacement runs the random-sampling collision-free placement
// search (spec §4.4). It never mutates the grid or store — the caller
// inserts the returned placement afterward.
//
// Grounded on sonpython-slether/server/food.go's randomCirclePoint +
// clampToCircle (uniform sampling inside the world), generalized from
// slether's "spawn anywhere, ignore collisions" policy to the spec's
// collision-checked search against the grid, and adding the
// empty-cell retargeting optimization spec §4.4 step 5 describes.
func FindPlacement(grid *Grid, store *EntityStore, rng *rand.Rand, kind PlacementKind, r float64, maxAttempts int) (Placement, bool) {
	p, ok, _ := findPlacementCounted(grid, store, rng, kind, r, maxAttempts)
	return p, ok
}

// findPlacementCounted is FindPlacement's implementation, additionally
// reporting how many attempts it actually spent — used by the food
// spawn loop in spawn.go to share one attempt budget across every
// food item placed in a tick (spec §4.4: "food uses
// MAXIMUM_FOOD_SPAWNING_ATTEMPTS as a global cap across the tick's
// food-spawn loop").
func findPlacementCounted(grid *Grid, store *EntityStore, rng *rand.Rand, kind PlacementKind, r float64, maxAttempts int) (Placement, bool, int) {
	ignoreFood := kind == PlacementPlayerBlob

	haveRetarget := false
	var retargetCX, retargetCY int32

	bound := WorldRadius - r
	if bound < 0 {
		bound = 0
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		var x, y float64
		if haveRetarget {
			x = float64(retargetCX)*GridCellSize + MinSeparationDistance
			y = float64(retargetCY)*GridCellSize + MinSeparationDistance
			haveRetarget = false
		} else {
			x = (rng.Float64()*2 - 1) * bound
			y = (rng.Float64()*2 - 1) * bound
		}

		pos := mgl64.Vec2{x, y}
		pad := r + MinSeparationDistance
		candidate := NewAABB(pos, pad, pad)
		cells := grid.CellsIntersecting(candidate)

		conflict := false
		emptyCells := 0
		var lastEmptyKey int64

		for _, key := range cells {
			if !grid.Has(key) {
				emptyCells++
				lastEmptyKey = key
				continue
			}
			for _, h := range grid.IterCell(key) {
				blob, obj, ok := store.Resolve(h)
				if !ok {
					continue
				}
				var entAABB AABB
				isFood := false
				if blob != nil {
					entAABB = blob.AABB
				} else {
					entAABB = obj.AABB
					isFood = obj.Kind == ObjectFood
				}
				if ignoreFood && isFood {
					continue
				}
				if entAABB.Overlaps(candidate) {
					conflict = true
					break
				}
			}
			if conflict {
				break
			}
		}

		if !conflict {
			actualAABB := NewAABB(pos, r, r)
			return Placement{
				Pos:   pos,
				AABB:  actualAABB,
				Cells: grid.CellsIntersecting(actualAABB),
			}, true, attempt + 1
		}

		if emptyCells == 1 {
			cxU32 := uint32(lastEmptyKey >> 32)
			cyU32 := uint32(lastEmptyKey)
			retargetCX = int32(cxU32)
			retargetCY = int32(cyU32)
			haveRetarget = true
		}
	}

	return Placement{}, false, maxAttempts
}
