// Package wake models the trailing vortex system attached to a mesh's
// Kutta edges. Three variants share one contract: None contributes
// nothing, Fixed trails straight semi-infinite filaments in a
// direction set by the flow condition, and Relaxed additionally bends
// segmented filaments toward force-free streamlines across solve
// iterations.
package wake

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"gopan/geometry"
)

// BodyVelocityFunc returns the body-induced velocity at each of the
// given points under the current doublet solution. It is supplied by
// the external body solver when relaxing the wake.
type BodyVelocityFunc func(points []r3.Vec) []r3.Vec

// Wake is the contract shared by all wake variants.
//
// SetFilamentDirection must be called whenever the flow condition
// changes, before influence evaluation. Update advances the wake shape
// by one relaxation pass and is a no-op for variants without shape
// freedom.
type Wake interface {
	// SetFilamentDirection sets filament geometry from the current
	// freestream velocity and body rotation rate.
	SetFilamentDirection(vInf, omega r3.Vec)

	// InfluenceMatrix returns the per-unit-strength induced velocity of
	// the whole wake system at each field point, scattered onto the
	// bracketing panels' columns.
	InfluenceMatrix(points []r3.Vec, nPanels int, vInf, omega r3.Vec) (*Influence, error)

	// Update relaxes the wake shape using the current doublet strengths
	// and the body-induced velocity function. No-op where the shape is
	// not free.
	Update(body BodyVelocityFunc, mu []float64, vInf, omega r3.Vec) error

	// VTKData returns wake geometry as a vertex list and VTK-style line
	// cells (leading vertex count), plus the line count. length sizes
	// any filament segment of notional infinite extent.
	VTKData(length float64) ([]r3.Vec, [][]int, int)
}

// None is the zero-contribution wake used for non-lifting bodies. It
// satisfies the full contract so callers never branch on wake presence.
type None struct{}

// SetFilamentDirection is a no-op.
func (None) SetFilamentDirection(vInf, omega r3.Vec) {}

// InfluenceMatrix returns an all-zero influence.
func (None) InfluenceMatrix(points []r3.Vec, nPanels int, vInf, omega r3.Vec) (*Influence, error) {
	return NewInfluence(len(points), nPanels), nil
}

// Update is a no-op.
func (None) Update(body BodyVelocityFunc, mu []float64, vInf, omega r3.Vec) error { return nil }

// VTKData returns empty geometry.
func (None) VTKData(length float64) ([]r3.Vec, [][]int, int) { return nil, nil, 0 }

// arrangeKuttaVertices collects the unique vertices terminating the
// given Kutta edges and, for each, the panel pair of an edge flowing
// into it (vertex is the edge's V0) and out of it (vertex is V1). A
// vertex may terminate several coincident edges; the in/out pairs then
// come from whichever edge claims each role.
//
// Edge vertices come from one deduplicated pool, so exact comparison
// identifies them. Vertices are ordered lexicographically so wake
// construction is deterministic.
func arrangeKuttaVertices(edges []geometry.KuttaEdge) (verts []r3.Vec, inbound, outbound [][2]int, hasIn, hasOut []bool) {
	index := make(map[r3.Vec]int)
	for _, e := range edges {
		for _, v := range [2]r3.Vec{e.V0, e.V1} {
			if _, ok := index[v]; !ok {
				index[v] = len(verts)
				verts = append(verts, v)
			}
		}
	}
	sort.Slice(verts, func(i, j int) bool {
		a, b := verts[i], verts[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	for i, v := range verts {
		index[v] = i
	}

	n := len(verts)
	inbound = make([][2]int, n)
	outbound = make([][2]int, n)
	hasIn = make([]bool, n)
	hasOut = make([]bool, n)
	for _, e := range edges {
		i0 := index[e.V0]
		inbound[i0] = e.Panels
		hasIn[i0] = true
		i1 := index[e.V1]
		outbound[i1] = e.Panels
		hasOut[i1] = true
	}
	return verts, inbound, outbound, hasIn, hasOut
}
