package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"gopan/geometry"
	"gopan/telemetry"
)

// Raw is the unprocessed panel data handed over by a mesh reader:
// a vertex list (possibly with duplicates), per-panel vertex indices,
// optional per-panel cell data, and optional pre-supplied Kutta edges
// given as vertex-index pairs.
type Raw struct {
	Vertices   []r3.Vec
	PanelVerts [][]int
	Normals    []r3.Vec
	Centroids  []r3.Vec
	Areas      []float64
	KuttaEdges [][2]int
}

// Options controls mesh construction. The Kutta threshold is an
// explicit flag/value pair: with FindKuttaEdges false and no edges in
// the file, the mesh simply has no Kutta edges and the wake is trivial.
// FindKuttaEdges forces a threshold scan even when the file supplies
// edges.
type Options struct {
	FindKuttaEdges bool
	KuttaAngle     float64 // radians
	CG             r3.Vec
	Verbose        bool
}

// Mesh is a collection of panels with inferred topology. Panel normals
// are assumed outward; they are never sign-corrected here.
type Mesh struct {
	Panels     []geometry.Panel
	Vertices   []r3.Vec
	PanelVerts [][]int

	Centroids []r3.Vec
	Normals   []r3.Vec
	Areas     []float64

	Adjacency  *Adjacency
	KuttaEdges []geometry.KuttaEdge

	CG         r3.Vec
	MomentArms []r3.Vec
}

// New builds a mesh from raw panel data: deduplicates the vertex pool,
// constructs panel records, infers adjacency, and resolves Kutta edges
// per opts.
func New(raw Raw, opts Options) (*Mesh, error) {
	pool, remap := DedupVertices(raw.Vertices)

	nPanels := len(raw.PanelVerts)
	panelVerts := make([][]int, nPanels)
	for i, verts := range raw.PanelVerts {
		panelVerts[i] = make([]int, len(verts))
		for k, v := range verts {
			if v < 0 || v >= len(raw.Vertices) {
				return nil, fmt.Errorf("mesh: panel %d references vertex %d outside pool of %d", i, v, len(raw.Vertices))
			}
			panelVerts[i][k] = remap[v]
		}
	}

	haveCellData := len(raw.Normals) == nPanels && len(raw.Centroids) == nPanels && len(raw.Areas) == nPanels

	m := &Mesh{
		Vertices:   pool,
		PanelVerts: panelVerts,
		Panels:     make([]geometry.Panel, nPanels),
		Centroids:  make([]r3.Vec, nPanels),
		Normals:    make([]r3.Vec, nPanels),
		Areas:      make([]float64, nPanels),
		CG:         opts.CG,
	}

	for i, verts := range panelVerts {
		vs := make([]r3.Vec, len(verts))
		for k, v := range verts {
			vs[k] = pool[v]
		}
		var p geometry.Panel
		var err error
		if haveCellData {
			p, err = geometry.PanelFromData(vs, raw.Centroids[i], raw.Normals[i], raw.Areas[i])
		} else {
			p, err = geometry.NewPanel(vs)
		}
		if err != nil {
			return nil, fmt.Errorf("mesh: panel %d: %w", i, err)
		}
		m.Panels[i] = p
		m.Centroids[i] = p.Centroid
		m.Normals[i] = p.Normal
		m.Areas[i] = p.Area
	}

	neighbors := BuildAdjacency(panelVerts, len(pool))

	switch {
	case opts.FindKuttaEdges:
		edges, adj, err := ExtractKuttaEdges(m.Panels, neighbors, opts.KuttaAngle)
		if err != nil {
			return nil, err
		}
		m.KuttaEdges = edges
		m.Adjacency = adj
	case len(raw.KuttaEdges) > 0:
		edges, err := edgesFromPairs(raw.KuttaEdges, remap, pool, panelVerts)
		if err != nil {
			return nil, err
		}
		m.KuttaEdges = edges
		m.Adjacency = PartitionByEdges(neighbors, edges)
	default:
		m.Adjacency = PartitionByEdges(neighbors, nil)
	}

	m.MomentArms = make([]r3.Vec, nPanels)
	for i, c := range m.Centroids {
		m.MomentArms[i] = r3.Sub(c, m.CG)
	}

	if opts.Verbose {
		telemetry.Logf("Mesh: %d panels, %d vertices, %d Kutta edges", nPanels, len(pool), len(m.KuttaEdges))
	}
	return m, nil
}

// edgesFromPairs resolves file-supplied edge vertex pairs to oriented
// KuttaEdge records. The file's vertex order is trusted for
// orientation; the owning panels are the two panels containing both
// endpoints.
func edgesFromPairs(pairs [][2]int, remap []int, pool []r3.Vec, panelVerts [][]int) ([]geometry.KuttaEdge, error) {
	byVertex := make([][]int, len(pool))
	for i, verts := range panelVerts {
		for _, v := range verts {
			byVertex[v] = append(byVertex[v], i)
		}
	}

	edges := make([]geometry.KuttaEdge, 0, len(pairs))
	for _, pair := range pairs {
		if pair[0] < 0 || pair[0] >= len(remap) || pair[1] < 0 || pair[1] >= len(remap) {
			return nil, fmt.Errorf("mesh: Kutta edge references vertex outside pool: %v", pair)
		}
		v0, v1 := remap[pair[0]], remap[pair[1]]
		var owners []int
		for _, i := range byVertex[v0] {
			for _, j := range byVertex[v1] {
				if i == j {
					owners = append(owners, i)
				}
			}
		}
		if len(owners) != 2 {
			return nil, fmt.Errorf("%w: edge %v owned by %d panels, want 2", ErrDegenerateEdge, pair, len(owners))
		}
		lo, hi := owners[0], owners[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		edges = append(edges, geometry.KuttaEdge{
			V0:     pool[v0],
			V1:     pool[v1],
			Panels: [2]int{lo, hi},
		})
	}
	return edges, nil
}

// VTKData returns the deduplicated vertex pool and per-panel index
// lists in VTK cell format (leading vertex count), for the export
// layer.
func (m *Mesh) VTKData() ([]r3.Vec, [][]int) {
	cells := make([][]int, len(m.PanelVerts))
	for i, verts := range m.PanelVerts {
		cell := make([]int, 0, len(verts)+1)
		cell = append(cell, len(verts))
		cell = append(cell, verts...)
		cells[i] = cell
	}
	return m.Vertices, cells
}

// NumPanels returns the panel count.
func (m *Mesh) NumPanels() int { return len(m.Panels) }
