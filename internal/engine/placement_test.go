package engine

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestFindPlacementAvoidsExistingEntities(t *testing.T) {
	grid := NewGrid(100)
	store := NewEntityStore(grid)
	rng := rand.New(rand.NewSource(1))

	obj := newWorldObject(ObjectVirus, mgl64.Vec2{0, 0}, VirusRadius)
	obj.AABB = NewAABB(obj.Pos, VirusRadius, VirusRadius)
	store.InsertObject(obj)
	h := WorldObjectHandle(obj.ID)
	for _, key := range grid.CellsIntersecting(obj.AABB) {
		grid.Insert(h, key)
		obj.Cells[key] = struct{}{}
	}

	for i := 0; i < 50; i++ {
		placement, ok := FindPlacement(grid, store, rng, PlacementVirus, 10, MaximumFoodSpawningAttempts)
		if !ok {
			continue
		}
		if placement.AABB.Overlaps(obj.AABB) {
			t.Fatalf("placement %v overlaps existing virus AABB %v", placement.AABB, obj.AABB)
		}
	}
}

func TestFindPlacementPlayerBlobIgnoresFood(t *testing.T) {
	grid := NewGrid(100)
	store := NewEntityStore(grid)
	rng := rand.New(rand.NewSource(2))

	// The food's AABB is stretched over the whole world so that every
	// candidate position overlaps it.
	food := newWorldObject(ObjectFood, mgl64.Vec2{0, 0}, MinFoodRadius)
	food.AABB = NewAABB(food.Pos, WorldRadius, WorldRadius)
	store.InsertObject(food)
	h := WorldObjectHandle(food.ID)
	for _, key := range grid.CellsIntersecting(food.AABB) {
		grid.Insert(h, key)
		food.Cells[key] = struct{}{}
	}

	_, ok, used := findPlacementCounted(grid, store, rng, PlacementPlayerBlob, InitialPlayerRadius, 1)
	if !ok {
		t.Fatal("expected a player-blob placement to succeed on the very first attempt despite food overlap")
	}
	if used != 1 {
		t.Errorf("attempts used = %d, want 1", used)
	}
}

func TestFindPlacementZeroBudgetUsesNoAttempts(t *testing.T) {
	grid := NewGrid(10)
	store := NewEntityStore(grid)
	rng := rand.New(rand.NewSource(3))

	obj := newWorldObject(ObjectVirus, mgl64.Vec2{0, 0}, 1.0)
	obj.AABB = NewAABB(obj.Pos, 1.0, 1.0)
	store.InsertObject(obj)
	h := WorldObjectHandle(obj.ID)
	for _, key := range grid.CellsIntersecting(obj.AABB) {
		grid.Insert(h, key)
	}

	_, _, used := findPlacementCounted(grid, store, rng, PlacementVirus, 1.0, 0)
	if used != 0 {
		t.Errorf("attempts used with a zero budget should be 0, got %d", used)
	}
}
