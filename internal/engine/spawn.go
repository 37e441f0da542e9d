package engine

import (
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// pendingJoin tracks a queued join_game request across ticks so the
// outer 10-second deadline (spec §5/§7, enforced by the gateway) can
// be backed by a concrete per-tick retry count on this side.
type pendingJoin struct {
	msg         JoinGameMsg
	failedTicks int
}

// SpawnFood converts the food budget's spawnable mass into Food
// objects, up to MaximumFoodSpawningAttempts total placement attempts
// shared across every item this tick (spec §4.4, C4). Returns the
// number of food items actually spawned.
//
// Grounded on sonpython-slether/server/world.go's MaintainFoodCount
// (spawn up to a per-tick cap while a deficit remains), generalized
// from slether's fixed target-count deficit to the spec's accumulating
// food_amount budget.
func SpawnFood(grid *Grid, store *EntityStore, rng *rand.Rand, budget *FoodBudget, logger *log.Logger) int {
	mass := budget.SpawnableMass()
	remainingAttempts := MaximumFoodSpawningAttempts
	spawned := 0

	for mass >= MinFoodRadius && remainingAttempts > 0 {
		r := MinFoodRadius + rng.Float64()*(MaxFoodRadius-MinFoodRadius)

		placement, ok, used := findPlacementCounted(grid, store, rng, PlacementFood, r, remainingAttempts)
		remainingAttempts -= used
		if !ok {
			if logger != nil {
				logger.Error("food placement exhausted", "radius", r)
			}
			break
		}

		food := newWorldObject(ObjectFood, placement.Pos, r)
		food.AABB = placement.AABB
		store.InsertObject(food)
		h := WorldObjectHandle(food.ID)
		for _, key := range placement.Cells {
			grid.Insert(h, key)
			food.Cells[key] = struct{}{}
		}

		mass -= r
		spawned++
	}

	return spawned
}

// spawnQueue holds join_game requests between the tick they arrive and
// the tick they successfully spawn (or are dropped).
type spawnQueue struct {
	pending []pendingJoin
}

func newSpawnQueue() *spawnQueue {
	return &spawnQueue{}
}

// enqueue appends newly drained join_game messages in arrival order.
func (q *spawnQueue) enqueue(joins []JoinGameMsg) {
	for _, j := range joins {
		q.pending = append(q.pending, pendingJoin{msg: j})
	}
}

// spawnQueuedPlayers attempts to place every queued joining player
// (spec §4.4/§5 "Spawning a player and emitting its join_game are
// part of the same tick step"). Callers get back the players that
// spawned successfully this tick (for join_game broadcasts) and the
// UUIDs dropped after exhausting their retry budget (spec §7
// "Placement exhaustion ... player attempts are re-tried on subsequent
// ticks up to an outer ... deadline").
func (q *spawnQueue) spawnQueuedPlayers(grid *Grid, store *EntityStore, budget *FoodBudget, rng *rand.Rand, logger *log.Logger) (spawned []*Player, dropped []uuid.UUID) {
	var stillPending []pendingJoin

	for _, pj := range q.pending {
		placement, ok := FindPlacement(grid, store, rng, PlacementPlayerBlob, InitialPlayerRadius, MaximumPlayerSpawningAttempts)
		if !ok {
			pj.failedTicks++
			if logger != nil {
				logger.Error("player placement exhausted", "uuid", pj.msg.UUID, "failed_ticks", pj.failedTicks)
			}
			if pj.failedTicks >= MaximumPlayerSpawningAttempts {
				dropped = append(dropped, pj.msg.UUID)
				continue
			}
			stillPending = append(stillPending, pj)
			continue
		}

		p := NewPlayer(pj.msg.UUID, pj.msg.Username, placement.Pos)
		p.Blobs[0].AABB = placement.AABB
		store.InsertPlayer(p)
		h := PlayerBlobHandle(p.ID, 0)
		for _, key := range placement.Cells {
			grid.Insert(h, key)
			p.Blobs[0].Cells[key] = struct{}{}
		}
		budget.OnPlayerJoined()
		spawned = append(spawned, p)
	}

	q.pending = stillPending
	return spawned, dropped
}
