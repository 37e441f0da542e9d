package engine

// ReconcileMembership updates every blob's grid membership to match
// its post-integration AABB (spec §4.7, C7). Food and Virus cell sets
// are set at placement and cleared at removal; they never move, so
// they are untouched here.
func ReconcileMembership(grid *Grid, store *EntityStore) {
	for id, p := range store.Players {
		for i, b := range p.Blobs {
			h := PlayerBlobHandle(id, i)
			newKeys := grid.CellsIntersecting(b.AABB)

			if sameCellSet(b.Cells, newKeys) {
				continue
			}

			newSet := make(map[int64]struct{}, len(newKeys))
			for _, k := range newKeys {
				newSet[k] = struct{}{}
			}

			for k := range b.Cells {
				if _, still := newSet[k]; !still {
					grid.Remove(h, k)
				}
			}
			for k := range newSet {
				if _, had := b.Cells[k]; !had {
					grid.Insert(h, k)
				}
			}
			b.Cells = newSet
		}
	}
}

// sameCellSet reports whether keys (as a slice, possibly with
// duplicates from CellsIntersecting) is exactly the set already in
// cells.
func sameCellSet(cells map[int64]struct{}, keys []int64) bool {
	seen := make(map[int64]struct{}, len(keys))
	for _, k := range keys {
		seen[k] = struct{}{}
	}
	if len(seen) != len(cells) {
		return false
	}
	for k := range seen {
		if _, ok := cells[k]; !ok {
			return false
		}
	}
	return true
}
