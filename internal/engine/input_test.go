package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

func TestIngestorUpdatePositionCoalesces(t *testing.T) {
	in := NewIngestor()
	id := uuid.New()

	in.UpdatePosition(UpdatePositionMsg{UUID: id, X: 10, Y: 10})
	in.UpdatePosition(UpdatePositionMsg{UUID: id, X: 20, Y: 20})

	_, updates, _ := in.Drain()
	if len(updates) != 1 {
		t.Fatalf("expected exactly one coalesced update, got %d", len(updates))
	}
	if got := updates[id]; got.X != 20 || got.Y != 20 {
		t.Errorf("expected the last update_position to win, got %+v", got)
	}
}

func TestIngestorJoinPreservesArrivalOrder(t *testing.T) {
	in := NewIngestor()
	a, b := uuid.New(), uuid.New()

	in.Join(JoinGameMsg{UUID: a, Username: "a"})
	in.Join(JoinGameMsg{UUID: b, Username: "b"})

	joins, _, _ := in.Drain()
	if len(joins) != 2 || joins[0].UUID != a || joins[1].UUID != b {
		t.Errorf("expected joins in arrival order [a,b], got %+v", joins)
	}
}

func TestDrainIsAtomicAndResets(t *testing.T) {
	in := NewIngestor()
	in.Join(JoinGameMsg{UUID: uuid.New()})
	in.UpdatePosition(UpdatePositionMsg{UUID: uuid.New(), X: 1, Y: 1})
	in.Leave(uuid.New())

	joins, updates, leaves := in.Drain()
	if len(joins) != 1 || len(updates) != 1 || len(leaves) != 1 {
		t.Fatalf("unexpected first drain result: %d joins, %d updates, %d leaves", len(joins), len(updates), len(leaves))
	}

	joins, updates, leaves = in.Drain()
	if len(joins) != 0 || len(updates) != 0 || len(leaves) != 0 {
		t.Errorf("expected second drain to be empty, got %d joins, %d updates, %d leaves", len(joins), len(updates), len(leaves))
	}
}

func TestIngestorLeaveQueuesForTickThreadRemoval(t *testing.T) {
	in := NewIngestor()
	a, b := uuid.New(), uuid.New()

	in.Leave(a)
	in.Leave(b)

	_, _, leaves := in.Drain()
	if len(leaves) != 2 || leaves[0] != a || leaves[1] != b {
		t.Errorf("expected leaves in arrival order [a,b], got %+v", leaves)
	}
}

func TestApplyUpdatesDiscardsUnknownUUID(t *testing.T) {
	grid := NewGrid(GridCellSize)
	store := NewEntityStore(grid)

	// Should not panic even though no player exists for this UUID.
	ApplyUpdates(store, map[uuid.UUID]UpdatePositionMsg{uuid.New(): {X: 1, Y: 1}})
}

func TestApplyUpdatesTranslatesScreenToWorldTarget(t *testing.T) {
	grid := NewGrid(GridCellSize)
	store := NewEntityStore(grid)

	p := NewPlayer(uuid.New(), "dave", mgl64.Vec2{0, 0})
	store.InsertPlayer(p)

	ApplyUpdates(store, map[uuid.UUID]UpdatePositionMsg{
		p.ID: {X: ClientWidthPixels, Y: ClientHeightPixels / 2},
	})

	clientXWorld := (ClientWidthPixels - ClientWidthPixels/2) * p.Zoom
	clientYWorld := (ClientHeightPixels/2 - ClientHeightPixels/2) * p.Zoom
	wantX := p.COM.X() + clientXWorld
	wantY := p.COM.Y() - clientYWorld
	if p.Target.X() != wantX {
		t.Errorf("Target.X = %v, want %v", p.Target.X(), wantX)
	}
	if p.Target.Y() != wantY {
		t.Errorf("Target.Y = %v, want %v", p.Target.Y(), wantY)
	}
}
