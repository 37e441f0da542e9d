package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// HandleKind tags which entity kind a Handle refers to (spec §3
// "Entity handle").
type HandleKind uint8

const (
	HandlePlayerBlob HandleKind = iota
	HandleWorldObject
)

// Handle is a tagged, stable identifier for an entity. It decouples
// the grid from entity ownership: the grid stores handles, never
// pointers or copies (spec §9 "Cyclic/back references").
//
// Handle is comparable (safe as a map key) — both UUID fields are
// [16]byte arrays, not pointers.
type Handle struct {
	Kind      HandleKind
	PlayerID  uuid.UUID // valid when Kind == HandlePlayerBlob
	BlobIndex int       // valid when Kind == HandlePlayerBlob
	ObjectID  uuid.UUID // valid when Kind == HandleWorldObject
}

// PlayerBlobHandle builds a handle for a player's Nth blob.
func PlayerBlobHandle(playerID uuid.UUID, blobIndex int) Handle {
	return Handle{Kind: HandlePlayerBlob, PlayerID: playerID, BlobIndex: blobIndex}
}

// WorldObjectHandle builds a handle for a Food or Virus object.
func WorldObjectHandle(objectID uuid.UUID) Handle {
	return Handle{Kind: HandleWorldObject, ObjectID: objectID}
}

// String renders the wire form spec §9 requires be preserved:
// "{uuid}" for world objects, "{uuid}:{blob_index}" for player blobs.
// This is serialization-only — in-memory code must always use the
// struct form above.
func (h Handle) String() string {
	switch h.Kind {
	case HandlePlayerBlob:
		return fmt.Sprintf("%s:%d", h.PlayerID, h.BlobIndex)
	default:
		return h.ObjectID.String()
	}
}
