package engine

import "math/rand"

// VirusRadius is the fixed radius new Virus objects are created with.
// No tick step currently spawns one (see SpawnVirus doc) — the value
// exists so collision/placement math has a concrete number to use in
// tests that exercise the stub directly.
const VirusRadius = 40.0

// SpawnVirus runs the ordinary placement search for a Virus and, on
// success, inserts it into store and grid.
//
// Spec §9 open question (c): "Virus placement and behavior are
// declared in the entity taxonomy but not driven by any loop in the
// source — leave as a stub, do not invent semantics." Accordingly this
// function exists (so C2/C3/C4 already treat Virus uniformly with
// Food, satisfying the data model in spec §3) but the tick scheduler
// in scheduler.go never calls it, and nothing else in this repository
// (tests included) calls it either.
func SpawnVirus(grid *Grid, store *EntityStore, rng *rand.Rand) (*WorldObject, bool) {
	placement, ok := FindPlacement(grid, store, rng, PlacementVirus, VirusRadius, MaximumPlayerSpawningAttempts)
	if !ok {
		return nil, false
	}
	v := newWorldObject(ObjectVirus, placement.Pos, VirusRadius)
	v.AABB = placement.AABB
	store.InsertObject(v)
	h := WorldObjectHandle(v.ID)
	for _, key := range placement.Cells {
		grid.Insert(h, key)
		v.Cells[key] = struct{}{}
	}
	return v, true
}
