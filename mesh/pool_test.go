package mesh

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestDedupVertices(t *testing.T) {
	verts := []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 1e-9},  // within tolerance of vertex 0
		{X: 1, Y: 1e-6, Z: 0},  // beyond tolerance of vertex 1
		{X: 1, Y: 0, Z: -5e-9}, // within tolerance of vertex 1
	}

	pool, remap := DedupVertices(verts)

	if len(pool) != 3 {
		t.Fatalf("pool size = %d, want 3", len(pool))
	}
	if remap[0] != remap[2] {
		t.Errorf("vertices 0 and 2 should collapse: remap %v", remap)
	}
	if remap[1] != remap[4] {
		t.Errorf("vertices 1 and 4 should collapse: remap %v", remap)
	}
	if remap[1] == remap[3] {
		t.Errorf("vertices 1 and 3 should stay distinct: remap %v", remap)
	}
	for i, r := range remap {
		if !sameVertex(pool[r], verts[i]) {
			t.Errorf("remap[%d] points at %v, far from %v", i, pool[r], verts[i])
		}
	}
}

func TestDedupVerticesEmpty(t *testing.T) {
	pool, remap := DedupVertices(nil)
	if len(pool) != 0 || len(remap) != 0 {
		t.Errorf("dedup of empty input: pool %v, remap %v", pool, remap)
	}
}

func TestDedupVerticesCellBoundary(t *testing.T) {
	// Two points closer than tolerance but straddling a hash-cell
	// boundary must still collapse.
	a := r3.Vec{X: 1e-8 - 1e-10}
	b := r3.Vec{X: 1e-8 + 1e-10}

	pool, remap := DedupVertices([]r3.Vec{a, b})
	if len(pool) != 1 || remap[0] != remap[1] {
		t.Errorf("boundary-straddling points did not collapse: pool %v, remap %v", pool, remap)
	}
}
