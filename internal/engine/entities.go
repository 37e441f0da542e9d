package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Blob is a single circular entity controlled by a player (spec §3).
type Blob struct {
	Pos   mgl64.Vec2
	R     float64
	Vel   mgl64.Vec2
	AABB  AABB
	Cells map[int64]struct{}
}

func newBlob(pos mgl64.Vec2, r float64) *Blob {
	b := &Blob{Pos: pos, R: r, Cells: make(map[int64]struct{})}
	b.AABB = NewAABB(pos, r, r)
	return b
}

// Player is a connected participant controlling one or more Blobs
// (spec §3).
type Player struct {
	ID       uuid.UUID
	Username string
	Blobs    []*Blob

	// Target is the fixed world-space point blobs ease toward, computed
	// once when a player:update_position message is applied (spec §4.5
	// / §4.6 step 1): com + client_x_world, com - client_y_world, using
	// the COM as of that moment. It stays fixed between updates so the
	// displacement to it shrinks as a blob approaches (spec §8 scenario
	// 2 "approaches ... asymptotically"), rather than being recomputed
	// from the blob's own moving COM every tick.
	Target mgl64.Vec2

	COM        mgl64.Vec2
	Zoom       float64
	VisionAABB AABB
}

// NewPlayer creates a player with a single initial blob at pos.
func NewPlayer(id uuid.UUID, username string, pos mgl64.Vec2) *Player {
	p := &Player{
		ID:       id,
		Username: username,
		Blobs:    []*Blob{newBlob(pos, InitialPlayerRadius)},
		Target:   pos,
	}
	p.RecomputeDerived()
	return p
}

// RecomputeDerived recomputes COM, Zoom and VisionAABB from the
// current blob set (spec §3/§4.6): com weighted by r^2 (area), zoom
// monotone in total radius, vision_aabb centered on com.
func (p *Player) RecomputeDerived() {
	var totalMass, totalR, comX, comY float64
	for _, b := range p.Blobs {
		mass := b.R * b.R
		totalMass += mass
		totalR += b.R
		comX += mass * b.Pos.X()
		comY += mass * b.Pos.Y()
	}
	// totalMass == 0 is impossible: every Player has >=1 blob with
	// r > 0 (spec §4.6 "Numerics").
	p.COM = mgl64.Vec2{comX / totalMass, comY / totalMass}
	p.Zoom = math.Log(totalR)/100 + 0.03
	p.VisionAABB = NewAABB(p.COM, (ClientWidthPixels/2)*p.Zoom, (ClientHeightPixels/2)*p.Zoom)
}

// WorldObjectKind tags the WorldObject variant (spec §3).
type WorldObjectKind uint8

const (
	ObjectFood WorldObjectKind = iota
	ObjectVirus
)

// WorldObject is an inert or obstacle entity: Food or Virus (spec §3).
type WorldObject struct {
	ID    uuid.UUID
	Kind  WorldObjectKind
	Pos   mgl64.Vec2
	R     float64
	AABB  AABB
	Cells map[int64]struct{}
}

func newWorldObject(kind WorldObjectKind, pos mgl64.Vec2, r float64) *WorldObject {
	o := &WorldObject{ID: uuid.New(), Kind: kind, Pos: pos, R: r, Cells: make(map[int64]struct{})}
	o.AABB = NewAABB(pos, r, r)
	return o
}

// EntityStore owns every Player and WorldObject, and provides stable
// handles for the grid (spec §3/§4.3).
//
// Grounded on sonpython-slether/server/world.go's
// map[string]*Snake / map[string]*Food pair, generalized to the
// Player/Blob/WorldObject taxonomy and to scrubbing grid membership on
// removal, which slether's World never had to do (it rebuilds its
// grid wholesale every tick instead of reconciling it — see
// membership.go for why this spec does the latter).
type EntityStore struct {
	grid    *Grid
	Players map[uuid.UUID]*Player
	Objects map[uuid.UUID]*WorldObject
}

// NewEntityStore creates an empty store bound to grid for cell scrubs
// on removal.
func NewEntityStore(grid *Grid) *EntityStore {
	return &EntityStore{
		grid:    grid,
		Players: make(map[uuid.UUID]*Player),
		Objects: make(map[uuid.UUID]*WorldObject),
	}
}

// InsertPlayer registers a player. Caller is responsible for inserting
// its blob handles into the grid (placement search owns that step).
func (s *EntityStore) InsertPlayer(p *Player) {
	s.Players[p.ID] = p
}

// RemovePlayer deletes a player and scrubs every cell every one of its
// blobs occupied.
func (s *EntityStore) RemovePlayer(id uuid.UUID) {
	p, ok := s.Players[id]
	if !ok {
		return
	}
	for i, b := range p.Blobs {
		h := PlayerBlobHandle(id, i)
		for key := range b.Cells {
			s.grid.Remove(h, key)
		}
	}
	delete(s.Players, id)
}

// InsertObject registers a Food/Virus. Caller inserts grid cells.
func (s *EntityStore) InsertObject(o *WorldObject) {
	s.Objects[o.ID] = o
}

// RemoveObject deletes a world object and scrubs its grid cells.
func (s *EntityStore) RemoveObject(id uuid.UUID) {
	o, ok := s.Objects[id]
	if !ok {
		return
	}
	h := WorldObjectHandle(id)
	for key := range o.Cells {
		s.grid.Remove(h, key)
	}
	delete(s.Objects, id)
}

// LookupPlayer returns a player by ID, if present.
func (s *EntityStore) LookupPlayer(id uuid.UUID) (*Player, bool) {
	p, ok := s.Players[id]
	return p, ok
}

// LookupObject returns a world object by ID, if present.
func (s *EntityStore) LookupObject(id uuid.UUID) (*WorldObject, bool) {
	o, ok := s.Objects[id]
	return o, ok
}

// Resolve dereferences a Handle to its (blob, object) pair. Exactly
// one of the two returns is non-nil on success; ok is false if the
// handle is stale (entity removed, cell not yet swept — spec §9
// "treated as a lookup miss and skipped with a warn").
func (s *EntityStore) Resolve(h Handle) (blob *Blob, obj *WorldObject, ok bool) {
	switch h.Kind {
	case HandlePlayerBlob:
		p, found := s.Players[h.PlayerID]
		if !found || h.BlobIndex < 0 || h.BlobIndex >= len(p.Blobs) {
			return nil, nil, false
		}
		return p.Blobs[h.BlobIndex], nil, true
	default:
		o, found := s.Objects[h.ObjectID]
		if !found {
			return nil, nil, false
		}
		return nil, o, true
	}
}
