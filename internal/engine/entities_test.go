package engine

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

func TestNewPlayerDerivedFields(t *testing.T) {
	p := NewPlayer(uuid.New(), "alice", mgl64.Vec2{0, 0})

	wantZoom := math.Log(InitialPlayerRadius)/100 + 0.03
	if math.Abs(p.Zoom-wantZoom) > 1e-9 {
		t.Errorf("Zoom = %v, want %v", p.Zoom, wantZoom)
	}
	if p.COM.X() != 0 || p.COM.Y() != 0 {
		t.Errorf("COM = %v, want (0,0)", p.COM)
	}

	wantHalfW := (ClientWidthPixels / 2) * p.Zoom
	gotHalfW := p.VisionAABB.Width() / 2
	if math.Abs(gotHalfW-wantHalfW) > 1e-9 {
		t.Errorf("vision half-width = %v, want %v", gotHalfW, wantHalfW)
	}
}

func TestRecomputeDerivedWeightsByAreaNotCount(t *testing.T) {
	p := NewPlayer(uuid.New(), "bob", mgl64.Vec2{0, 0})
	p.Blobs = []*Blob{
		newBlob(mgl64.Vec2{0, 0}, 10),
		newBlob(mgl64.Vec2{100, 0}, 30),
	}
	p.RecomputeDerived()

	r1sq, r2sq := 10.0*10.0, 30.0*30.0
	wantCOMX := (r1sq*0 + r2sq*100) / (r1sq + r2sq)
	if math.Abs(p.COM.X()-wantCOMX) > 1e-9 {
		t.Errorf("COM.X = %v, want %v (r^2-weighted, not count-weighted)", p.COM.X(), wantCOMX)
	}
}

func TestEntityStoreRemovePlayerScrubsGrid(t *testing.T) {
	grid := NewGrid(GridCellSize)
	store := NewEntityStore(grid)

	p := NewPlayer(uuid.New(), "carol", mgl64.Vec2{0, 0})
	h := PlayerBlobHandle(p.ID, 0)
	key := CellKey(0, 0)
	p.Blobs[0].Cells[key] = struct{}{}
	grid.Insert(h, key)
	store.InsertPlayer(p)

	if !grid.Has(key) {
		t.Fatal("setup: expected cell present before removal")
	}

	store.RemovePlayer(p.ID)

	if grid.Has(key) {
		t.Error("expected RemovePlayer to scrub every cell the player's blobs occupied")
	}
	if _, ok := store.LookupPlayer(p.ID); ok {
		t.Error("expected player to be gone from the store after RemovePlayer")
	}
}

func TestEntityStoreRemoveObjectScrubsGrid(t *testing.T) {
	grid := NewGrid(GridCellSize)
	store := NewEntityStore(grid)

	obj := newWorldObject(ObjectFood, mgl64.Vec2{0, 0}, MinFoodRadius)
	h := WorldObjectHandle(obj.ID)
	key := CellKey(0, 0)
	obj.Cells[key] = struct{}{}
	grid.Insert(h, key)
	store.InsertObject(obj)

	store.RemoveObject(obj.ID)

	if grid.Has(key) {
		t.Error("expected RemoveObject to scrub the object's grid cells")
	}
}

func TestResolveReportsStaleHandleAsMiss(t *testing.T) {
	grid := NewGrid(GridCellSize)
	store := NewEntityStore(grid)

	h := WorldObjectHandle(uuid.New())
	if _, _, ok := store.Resolve(h); ok {
		t.Error("expected Resolve to report a miss for a handle with no backing entity")
	}
}
