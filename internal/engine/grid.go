package engine

import "math"

// Grid is a uniform spatial hash: integer cell coordinates map to the
// set of entity handles whose AABB currently intersects that cell
// (spec §3/§4.2 "Spatial grid").
//
// Grounded on sonpython-slether/server/spatial_grid.go's
// map[cellKey][]gridEntry hash grid, generalized from slether's two
// hardcoded entry kinds (food / snake segment) to the spec's single
// handle abstraction, and from slether's radius-query API to the
// AABB-range query §4.2 specifies.
//
// Single-writer: the tick thread owns every Insert/Remove/Query call
// (spec §5). Grid holds only handles, never entities.
type Grid struct {
	cellSize float64
	cells    map[int64]map[Handle]struct{}
}

// NewGrid creates an empty grid with the given cell edge length.
func NewGrid(cellSize float64) *Grid {
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[int64]map[Handle]struct{}),
	}
}

// CellKey packs integer cell coordinates into the 64-bit key spec §3
// defines: (cx_u32 << 32) | cy_u32, two's-complement truncation to 32
// bits per axis.
func CellKey(cx, cy int32) int64 {
	return (int64(uint32(cx)) << 32) | int64(uint32(cy))
}

// cellCoord floors a single axis coordinate into its cell index.
func cellCoord(v, cellSize float64) int32 {
	return int32(math.Floor(v / cellSize))
}

// CellsIntersecting iterates the integer rectangle covered by box and
// returns one key per cell (spec §4.2).
func (g *Grid) CellsIntersecting(box AABB) []int64 {
	minCX := cellCoord(box.MinX, g.cellSize)
	maxCX := cellCoord(box.MaxX, g.cellSize)
	minCY := cellCoord(box.MinY, g.cellSize)
	maxCY := cellCoord(box.MaxY, g.cellSize)

	keys := make([]int64, 0, int(maxCX-minCX+1)*int(maxCY-minCY+1))
	for cx := minCX; cx <= maxCX; cx++ {
		for cy := minCY; cy <= maxCY; cy++ {
			keys = append(keys, CellKey(cx, cy))
		}
	}
	return keys
}

// Insert adds handle to the named cell. Idempotent.
func (g *Grid) Insert(h Handle, key int64) {
	set, ok := g.cells[key]
	if !ok {
		set = make(map[Handle]struct{}, 4)
		g.cells[key] = set
	}
	set[h] = struct{}{}
}

// Remove drops handle from the named cell. If the cell becomes empty
// its entry is dropped from the map entirely (spec §3 invariant
// "empty cells are removed"). Idempotent.
func (g *Grid) Remove(h Handle, key int64) {
	set, ok := g.cells[key]
	if !ok {
		return
	}
	delete(set, h)
	if len(set) == 0 {
		delete(g.cells, key)
	}
}

// IterCell returns every handle currently registered in the named
// cell. The returned slice is a snapshot; mutating the grid afterward
// does not affect it.
func (g *Grid) IterCell(key int64) []Handle {
	set, ok := g.cells[key]
	if !ok {
		return nil
	}
	out := make([]Handle, 0, len(set))
	for h := range set {
		out = append(out, h)
	}
	return out
}

// CellCount reports how many non-empty cells the grid holds. Used by
// tests asserting invariant 6 (empty cells never persist).
func (g *Grid) CellCount() int {
	return len(g.cells)
}

// Has reports whether a cell currently has any entries. Because Remove
// drops cells that become empty, an absent cell is an empty one; the
// placement-search retargeting optimization in spec §4.4 step 5 relies
// on this.
func (g *Grid) Has(key int64) bool {
	_, ok := g.cells[key]
	return ok
}
