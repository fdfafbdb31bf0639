// Package mesh infers the topology of an unstructured panel mesh:
// vertex deduplication, panel adjacency, and Kutta-edge extraction. It
// owns the Mesh container consumed by the wake and solver layers.
package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DedupTol is the per-component tolerance within which two vertices are
// considered the same mesh vertex.
const DedupTol = 1e-8

// cellKey quantizes a vertex onto the dedup grid.
type cellKey [3]int64

// vertexPool deduplicates vertices using a cell hash so lookups stay
// O(1) per vertex instead of scanning the whole pool. Cells are sized
// to the dedup tolerance; a candidate may land in any of the 27
// neighboring cells of its match, so all are probed.
type vertexPool struct {
	verts []r3.Vec
	cells map[cellKey][]int
}

func newVertexPool(capHint int) *vertexPool {
	return &vertexPool{
		verts: make([]r3.Vec, 0, capHint),
		cells: make(map[cellKey][]int, capHint),
	}
}

func keyFor(v r3.Vec) cellKey {
	return cellKey{
		int64(math.Floor(v.X / DedupTol)),
		int64(math.Floor(v.Y / DedupTol)),
		int64(math.Floor(v.Z / DedupTol)),
	}
}

func sameVertex(a, b r3.Vec) bool {
	return math.Abs(a.X-b.X) <= DedupTol &&
		math.Abs(a.Y-b.Y) <= DedupTol &&
		math.Abs(a.Z-b.Z) <= DedupTol
}

// add returns the pool index for v, inserting it if no existing vertex
// matches within tolerance.
func (p *vertexPool) add(v r3.Vec) int {
	k := keyFor(v)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				nk := cellKey{k[0] + dx, k[1] + dy, k[2] + dz}
				for _, i := range p.cells[nk] {
					if sameVertex(p.verts[i], v) {
						return i
					}
				}
			}
		}
	}
	i := len(p.verts)
	p.verts = append(p.verts, v)
	p.cells[k] = append(p.cells[k], i)
	return i
}

// DedupVertices collapses a vertex list onto a deduplicated pool.
// remap[i] gives the pool index of input vertex i.
func DedupVertices(verts []r3.Vec) (pool []r3.Vec, remap []int) {
	p := newVertexPool(len(verts))
	remap = make([]int, len(verts))
	for i, v := range verts {
		remap[i] = p.add(v)
	}
	return p.verts, remap
}
