// Package geometry provides the elemental records of a panel-method
// surface: flat triangular and quadrilateral panels, Kutta edges, and
// the vortex influence kernels built on them.
package geometry

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrZeroArea indicates a degenerate panel whose vertices are collinear
// or coincident. Such panels must be rejected before they reach the
// solver; they cannot carry a doublet strength.
var ErrZeroArea = errors.New("geometry: panel has zero area")

// minArea is the area below which a panel is considered degenerate.
const minArea = 1e-10

// Panel is an immutable flat surface element with 3 or 4 vertices in
// ring order. The normal is taken as given (or as computed from the
// winding) and is never sign-corrected; meshes must supply outward
// normals.
type Panel struct {
	Vertices []r3.Vec
	Centroid r3.Vec
	Normal   r3.Vec
	Area     float64
}

// NewTri builds a triangular panel from three vertices in ring order.
// The normal follows the right-hand rule on the winding.
func NewTri(v0, v1, v2 r3.Vec) (Panel, error) {
	n := r3.Cross(r3.Sub(v1, v0), r3.Sub(v2, v0))
	area := 0.5 * r3.Norm(n)
	if area < minArea {
		return Panel{}, fmt.Errorf("%w: vertices %v, %v, %v", ErrZeroArea, v0, v1, v2)
	}
	return Panel{
		Vertices: []r3.Vec{v0, v1, v2},
		Centroid: r3.Scale(1.0/3.0, r3.Add(v0, r3.Add(v1, v2))),
		Normal:   r3.Unit(n),
		Area:     area,
	}, nil
}

// NewQuad builds a quadrilateral panel from four vertices in ring
// order. Centroid and normal are area-weighted over the two triangles
// (v0,v1,v2) and (v0,v2,v3).
func NewQuad(v0, v1, v2, v3 r3.Vec) (Panel, error) {
	n0 := r3.Cross(r3.Sub(v1, v0), r3.Sub(v2, v0))
	n1 := r3.Cross(r3.Sub(v2, v0), r3.Sub(v3, v0))
	a0 := 0.5 * r3.Norm(n0)
	a1 := 0.5 * r3.Norm(n1)
	area := a0 + a1
	if area < minArea {
		return Panel{}, fmt.Errorf("%w: vertices %v, %v, %v, %v", ErrZeroArea, v0, v1, v2, v3)
	}
	c0 := r3.Scale(1.0/3.0, r3.Add(v0, r3.Add(v1, v2)))
	c1 := r3.Scale(1.0/3.0, r3.Add(v0, r3.Add(v2, v3)))
	centroid := r3.Scale(1.0/area, r3.Add(r3.Scale(a0, c0), r3.Scale(a1, c1)))
	return Panel{
		Vertices: []r3.Vec{v0, v1, v2, v3},
		Centroid: centroid,
		Normal:   r3.Unit(r3.Add(n0, n1)),
		Area:     area,
	}, nil
}

// NewPanel builds a panel from 3 or 4 vertices in ring order.
func NewPanel(verts []r3.Vec) (Panel, error) {
	switch len(verts) {
	case 3:
		return NewTri(verts[0], verts[1], verts[2])
	case 4:
		return NewQuad(verts[0], verts[1], verts[2], verts[3])
	default:
		return Panel{}, fmt.Errorf("geometry: panel must have 3 or 4 vertices, got %d", len(verts))
	}
}

// PanelFromData builds a panel from vertices plus externally supplied
// centroid, normal, and area (as read from a mesh file that carries
// cell data). The normal is trusted as-is; the area is still validated.
func PanelFromData(verts []r3.Vec, centroid, normal r3.Vec, area float64) (Panel, error) {
	if len(verts) != 3 && len(verts) != 4 {
		return Panel{}, fmt.Errorf("geometry: panel must have 3 or 4 vertices, got %d", len(verts))
	}
	if area < minArea {
		return Panel{}, fmt.Errorf("%w: supplied area %g", ErrZeroArea, area)
	}
	vs := make([]r3.Vec, len(verts))
	copy(vs, verts)
	return Panel{Vertices: vs, Centroid: centroid, Normal: normal, Area: area}, nil
}
