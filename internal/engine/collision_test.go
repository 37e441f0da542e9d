package engine

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

func TestResolveCollisionsConsumesOverlappingFood(t *testing.T) {
	grid := NewGrid(GridCellSize)
	store := NewEntityStore(grid)

	p := NewPlayer(uuid.New(), "kate", mgl64.Vec2{0, 0})
	store.InsertPlayer(p)
	h := PlayerBlobHandle(p.ID, 0)
	for _, key := range grid.CellsIntersecting(p.Blobs[0].AABB) {
		grid.Insert(h, key)
	}

	food := newWorldObject(ObjectFood, mgl64.Vec2{5, 0}, MinFoodRadius)
	food.AABB = NewAABB(food.Pos, MinFoodRadius, MinFoodRadius)
	store.InsertObject(food)
	foodHandle := WorldObjectHandle(food.ID)
	for _, key := range grid.CellsIntersecting(food.AABB) {
		grid.Insert(foodHandle, key)
		food.Cells[key] = struct{}{}
	}

	wantR := math.Sqrt(InitialPlayerRadius*InitialPlayerRadius + MinFoodRadius*MinFoodRadius)

	ResolveCollisions(grid, store)

	if p.Blobs[0].R != wantR {
		t.Errorf("blob radius after consuming food = %v, want %v", p.Blobs[0].R, wantR)
	}
	if _, ok := store.LookupObject(food.ID); ok {
		t.Error("expected consumed food to be removed from the store")
	}
}

func TestResolveCollisionsIgnoresDistantFood(t *testing.T) {
	grid := NewGrid(GridCellSize)
	store := NewEntityStore(grid)

	p := NewPlayer(uuid.New(), "leo", mgl64.Vec2{0, 0})
	store.InsertPlayer(p)

	food := newWorldObject(ObjectFood, mgl64.Vec2{1000, 1000}, MinFoodRadius)
	food.AABB = NewAABB(food.Pos, MinFoodRadius, MinFoodRadius)
	store.InsertObject(food)

	ResolveCollisions(grid, store)

	if p.Blobs[0].R != InitialPlayerRadius {
		t.Errorf("blob radius changed despite no overlap: %v", p.Blobs[0].R)
	}
	if _, ok := store.LookupObject(food.ID); !ok {
		t.Error("distant food should not be consumed")
	}
}
