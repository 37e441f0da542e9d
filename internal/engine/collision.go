package engine

import "math"

// ResolveCollisions implements the one unambiguous rule spec.md's own
// data model already commits to — "Food is inert and consumable"
// (spec §3) — and nothing else. Spec §9 open question (a) leaves
// blob-vs-blob and blob-vs-virus interactions (consumption, splitting)
// to the implementer and explicitly declines to define them; this
// repo does not invent that design space.
//
// A blob whose AABB overlaps a Food's AABB consumes it: the blob's
// area grows by the food's area (r becomes sqrt(r² + food_r²)) and the food is
// removed from both the entity store and the grid. Grounded on
// sonpython-slether/server/game_loop.go's collectFood (radius-query
// the grid around each head, remove matched food, grow the snake).
func ResolveCollisions(grid *Grid, store *EntityStore) {
	for _, p := range store.Players {
		for _, b := range p.Blobs {
			for _, key := range grid.CellsIntersecting(b.AABB) {
				for _, h := range grid.IterCell(key) {
					if h.Kind != HandleWorldObject {
						continue
					}
					_, obj, ok := store.Resolve(h)
					if !ok || obj.Kind != ObjectFood {
						continue
					}
					if !b.AABB.Overlaps(obj.AABB) {
						continue
					}
					consumeFood(b, obj)
					store.RemoveObject(obj.ID)
				}
			}
		}
		p.RecomputeDerived()
	}
}

// consumeFood grows a blob by a food pellet's mass. Area-proportional
// growth keeps radius growth consistent with the r^2-weighted mass
// model used for center-of-mass elsewhere in this package (spec §3).
func consumeFood(b *Blob, food *WorldObject) {
	mass := b.R*b.R + food.R*food.R
	b.R = math.Sqrt(mass)
	b.AABB = NewAABB(b.Pos, b.R, b.R)
}
