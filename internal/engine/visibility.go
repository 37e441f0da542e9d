package engine

import (
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// OtherBlobEntry is one other player's blob visible to a player.
type OtherBlobEntry struct {
	Handle Handle
	Pos    mgl64.Vec2
	R      float64
	Vel    mgl64.Vec2
}

// WorldObjectEntry is one Food/Virus visible to a player.
type WorldObjectEntry struct {
	Handle Handle
	Kind   WorldObjectKind
	Pos    mgl64.Vec2
	R      float64
}

// VisibilityResult is everything a player's tick_update needs about
// its surroundings (spec §4.8, C8).
type VisibilityResult struct {
	OtherBlobs     []OtherBlobEntry
	WorldObjects   []WorldObjectEntry
	PlayerMetadata map[uuid.UUID]struct{}
}

// GatherVisibility extracts everything visible to player: other
// blobs and world objects whose AABB overlaps the player's vision
// AABB, plus the set of every other player UUID touched while
// sweeping the vision cells (spec §4.8). Read-only on grid and store.
//
// Grounded on sonpython-slether/server/world.go's SnakesInViewport /
// FoodInViewport (viewport-rectangle membership test over the grid),
// generalized from slether's two bespoke per-kind scans into one
// handle-driven sweep, and adding the player_metadata "touched"
// tracking the spec calls for (slether has no stale-cache eviction
// concept since its client always receives the full viewport list).
func GatherVisibility(grid *Grid, store *EntityStore, player *Player, logger *log.Logger) VisibilityResult {
	cells := grid.CellsIntersecting(player.VisionAABB)
	seen := make(map[Handle]struct{})
	metadata := make(map[uuid.UUID]struct{})
	var otherBlobs []OtherBlobEntry
	var worldObjects []WorldObjectEntry

	for _, key := range cells {
		for _, h := range grid.IterCell(key) {
			if h.Kind == HandlePlayerBlob && h.PlayerID != player.ID {
				metadata[h.PlayerID] = struct{}{}
			}

			if _, dup := seen[h]; dup {
				continue
			}

			blob, obj, ok := store.Resolve(h)
			if !ok {
				if logger != nil {
					logger.Warn("stale handle in grid cell, skipping", "handle", h.String())
				}
				continue
			}

			switch h.Kind {
			case HandlePlayerBlob:
				if h.PlayerID == player.ID {
					continue
				}
				if !blob.AABB.Overlaps(player.VisionAABB) {
					continue
				}
				seen[h] = struct{}{}
				otherBlobs = append(otherBlobs, OtherBlobEntry{Handle: h, Pos: blob.Pos, R: blob.R, Vel: blob.Vel})
			default:
				if !obj.AABB.Overlaps(player.VisionAABB) {
					continue
				}
				seen[h] = struct{}{}
				worldObjects = append(worldObjects, WorldObjectEntry{Handle: h, Kind: obj.Kind, Pos: obj.Pos, R: obj.R})
			}
		}
	}

	return VisibilityResult{OtherBlobs: otherBlobs, WorldObjects: worldObjects, PlayerMetadata: metadata}
}
