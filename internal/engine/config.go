package engine

import "time"

// World and simulation constants. All are fixed at process start and
// never mutated afterward (spec §9 "global mutable state").
//
// Grounded on sonpython-slether/server/config.go's layout: one const
// block per concern, values expressed in pixels unless noted.
const (
	// WorldRadius is the half-extent of the square world, centered on
	// the origin (spec §3).
	WorldRadius = 3000.0

	// GridCellSize is the edge length of one spatial-grid cell.
	GridCellSize = 150.0

	// InitialPlayerRadius is the radius a freshly spawned blob is
	// created with, and the floor every blob radius must respect.
	InitialPlayerRadius = 20.0

	MinFoodRadius = 4.0
	MaxFoodRadius = 10.0

	// MinSeparationDistance pads every placement-search candidate AABB
	// so spawned entities don't spawn touching.
	MinSeparationDistance = 6.0

	// TPS is ticks per second for the fixed-rate scheduler.
	TPS = 60

	TickInterval = time.Second / TPS

	ClientWidthPixels  = 1920.0
	ClientHeightPixels = 1080.0

	MaximumPlayerSpawningAttempts = 32
	MaximumFoodSpawningAttempts   = 64

	// FoodPerJoin is the potential food mass every new player adds to
	// the world's food budget (spec §3).
	FoodPerJoin = 100.0

	// FoodSpawnFraction is the share of food_amount converted into
	// spawned food mass each tick, after the decay in foodbudget.go
	// has run (spec §9 open question b treats the whole dynamic as
	// tunable policy).
	FoodSpawnFraction = 0.1

	// MaxDT bounds a single tick's elapsed-time contribution, per
	// spec §4.6 step 4 ("dt ... clamped to <= 10ms").
	MaxDT = 0.010

	// TickOverrunWarnEvery throttles the "tick took too long" warning
	// to once per this many consecutive overruns (spec §4.9 step 3).
	TickOverrunWarnEvery = 30
)
