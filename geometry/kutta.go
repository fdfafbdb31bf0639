package geometry

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// KuttaEdge is a sharp trailing edge shared by exactly two adjacent
// panels, at which the Kutta condition is enforced by an attached wake
// sheet. V0 and V1 are ordered to match the winding of the first owning
// panel; that ordering fixes the circulation sign of every wake element
// built on the edge. Panels holds the owning panel indices with
// Panels[0] < Panels[1].
type KuttaEdge struct {
	V0, V1 r3.Vec
	Panels [2]int
}

// Influence returns the velocity induced at p by the edge treated as a
// finite vortex segment of unit circulation, directed V0 -> V1.
func (e KuttaEdge) Influence(p r3.Vec) (r3.Vec, error) {
	return SegmentInfluence(e.V0, e.V1, p)
}

// Midpoint returns the edge midpoint.
func (e KuttaEdge) Midpoint() r3.Vec {
	return r3.Scale(0.5, r3.Add(e.V0, e.V1))
}

// Length returns the edge length.
func (e KuttaEdge) Length() float64 {
	return r3.Norm(r3.Sub(e.V1, e.V0))
}
