package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"gopan/geometry"
)

// foldedRaw is a two-quad mesh folded 90 degrees along the x=1 line,
// with the shared vertices duplicated as a facet-soup reader would
// deliver them.
func foldedRaw() Raw {
	return Raw{
		Vertices: []r3.Vec{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 1, Y: 0, Z: 0}, // duplicate of 1
			{X: 1, Y: 0, Z: 1},
			{X: 1, Y: 1, Z: 1},
			{X: 1, Y: 1, Z: 0}, // duplicate of 2
		},
		PanelVerts: [][]int{
			{0, 1, 2, 3},
			{4, 5, 6, 7},
		},
	}
}

func TestNewDedupsAndFindsEdges(t *testing.T) {
	m, err := New(foldedRaw(), Options{FindKuttaEdges: true, KuttaAngle: math.Pi / 4})
	require.NoError(t, err)

	assert.Equal(t, 2, m.NumPanels())
	assert.Len(t, m.Vertices, 6, "duplicated fold vertices should collapse")

	require.Len(t, m.KuttaEdges, 1)
	e := m.KuttaEdges[0]
	assert.Equal(t, [2]int{0, 1}, e.Panels)
	assert.InDelta(t, 0, r3.Norm(r3.Sub(e.V0, r3.Vec{X: 1, Y: 0, Z: 0})), 1e-12)
	assert.InDelta(t, 0, r3.Norm(r3.Sub(e.V1, r3.Vec{X: 1, Y: 1, Z: 0})), 1e-12)

	assert.Equal(t, []int{1}, m.Adjacency.AcrossKutta(0))
	assert.Empty(t, m.Adjacency.NotAcross(0))
}

func TestNewWithoutKuttaScan(t *testing.T) {
	m, err := New(foldedRaw(), Options{})
	require.NoError(t, err)

	assert.Empty(t, m.KuttaEdges)
	assert.Equal(t, []int{1}, m.Adjacency.Neighbors(0))
	assert.Equal(t, []int{1}, m.Adjacency.NotAcross(0), "without a scan every neighbor is same-surface")
}

func TestNewEdgesFromFilePairs(t *testing.T) {
	raw := foldedRaw()
	// File supplies the fold edge by (pre-dedup) vertex indices, in its
	// own orientation.
	raw.KuttaEdges = [][2]int{{2, 1}}

	m, err := New(raw, Options{})
	require.NoError(t, err)

	require.Len(t, m.KuttaEdges, 1)
	e := m.KuttaEdges[0]
	assert.Equal(t, [2]int{0, 1}, e.Panels)
	assert.InDelta(t, 0, r3.Norm(r3.Sub(e.V0, r3.Vec{X: 1, Y: 1, Z: 0})), 1e-12, "file vertex order is kept")
	assert.InDelta(t, 0, r3.Norm(r3.Sub(e.V1, r3.Vec{X: 1, Y: 0, Z: 0})), 1e-12)

	assert.Equal(t, []int{1}, m.Adjacency.AcrossKutta(0))
}

func TestNewEdgePairBadOwnership(t *testing.T) {
	raw := foldedRaw()
	// Edge 0-3 lies on the boundary: only one panel owns it.
	raw.KuttaEdges = [][2]int{{0, 3}}

	_, err := New(raw, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegenerateEdge)
}

func TestNewRejectsZeroAreaPanel(t *testing.T) {
	raw := Raw{
		Vertices: []r3.Vec{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 2, Y: 0, Z: 0},
		},
		PanelVerts: [][]int{{0, 1, 2}},
	}
	_, err := New(raw, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, geometry.ErrZeroArea), "err = %v", err)
}

func TestNewRejectsOutOfRangeVertex(t *testing.T) {
	raw := Raw{
		Vertices:   []r3.Vec{{}, {X: 1}, {Y: 1}},
		PanelVerts: [][]int{{0, 1, 7}},
	}
	_, err := New(raw, Options{})
	require.Error(t, err)
}

func TestNewUsesSuppliedCellData(t *testing.T) {
	raw := foldedRaw()
	raw.Normals = []r3.Vec{{Z: 1}, {X: -1}}
	raw.Centroids = []r3.Vec{{X: 0.25, Y: 0.25}, {X: 1, Y: 0.5, Z: 0.5}}
	raw.Areas = []float64{2.0, 3.0}

	m, err := New(raw, Options{})
	require.NoError(t, err)

	// Supplied cell data overrides anything derivable from vertices.
	assert.Equal(t, 2.0, m.Areas[0])
	assert.Equal(t, 3.0, m.Areas[1])
	assert.Equal(t, r3.Vec{X: 0.25, Y: 0.25}, m.Centroids[0])
	assert.Equal(t, r3.Vec{X: -1}, m.Normals[1])
}

func TestMomentArms(t *testing.T) {
	cg := r3.Vec{X: 0.5, Y: 0.5, Z: 0}
	m, err := New(foldedRaw(), Options{CG: cg})
	require.NoError(t, err)

	require.Len(t, m.MomentArms, 2)
	for i := range m.MomentArms {
		want := r3.Sub(m.Centroids[i], cg)
		assert.InDelta(t, 0, r3.Norm(r3.Sub(m.MomentArms[i], want)), 1e-12)
	}
}

func TestVTKData(t *testing.T) {
	m, err := New(foldedRaw(), Options{})
	require.NoError(t, err)

	points, cells := m.VTKData()
	assert.Len(t, points, 6)
	require.Len(t, cells, 2)
	for _, cell := range cells {
		require.Equal(t, cell[0], len(cell)-1, "leading count must match cell size")
		for _, v := range cell[1:] {
			assert.Less(t, v, len(points))
		}
	}
}
