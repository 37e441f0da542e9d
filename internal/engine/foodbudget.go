package engine

import "math"

// FoodBudget tracks food_amount: a scalar accumulating "potential food
// mass" over time (spec §3). It is a policy knob, not physics — spec
// §9 open question (b) explicitly calls its decay formula unusual and
// says to treat it as tunable.
//
// Owned exclusively by the tick thread (spec §5 "shared resources").
type FoodBudget struct {
	Amount float64

	// DecayEnabled toggles the per-tick food_amount decay formula.
	// NewFoodBudget sets it to true; callers may clear the field
	// afterward to disable decay.
	DecayEnabled bool
}

// NewFoodBudget creates a food budget with decay enabled by default.
func NewFoodBudget() *FoodBudget {
	return &FoodBudget{DecayEnabled: true}
}

// OnPlayerJoined adds the per-join food mass contribution (spec §3).
func (f *FoodBudget) OnPlayerJoined() {
	f.Amount += FoodPerJoin
}

// Tick applies the per-tick decay named in spec §9(b):
//
//	food_amount -= food_amount - log(food_amount + 1)
//
// which simplifies to food_amount = log(food_amount + 1), but is
// written out in the spec's own form here since the point is policy
// tunability, not the arithmetic identity. Decay can take food_amount
// below MinFoodRadius (log(101) ≈ 4.6, log(5.6) ≈ 1.7); the only
// floor applied is zero, so the amount never goes negative.
func (f *FoodBudget) Tick() {
	if !f.DecayEnabled {
		return
	}
	f.Amount -= f.Amount - math.Log(f.Amount+1)
	if f.Amount < 0 {
		f.Amount = 0
	}
}

// SpawnableMass returns how much food mass may be converted into
// spawned food this tick (spec §4.4 "food uses
// MAXIMUM_FOOD_SPAWNING_ATTEMPTS as a global cap"), and debits it from
// the budget. Call once per tick before running the food-spawn loop.
func (f *FoodBudget) SpawnableMass() float64 {
	convert := f.Amount * FoodSpawnFraction
	f.Amount -= convert
	return convert
}
