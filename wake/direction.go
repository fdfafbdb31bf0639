package wake

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrMissingNormal indicates a constrained direction model built
	// without a usable constraint-plane normal.
	ErrMissingNormal = errors.New("wake: constrained direction model requires a nonzero plane normal")

	// ErrMissingDirection indicates a custom direction model built
	// without a usable direction vector.
	ErrMissingDirection = errors.New("wake: custom direction model requires a nonzero direction")
)

// DirectionModel computes the trailing direction of a vortex filament
// anchored at vertex, for the given flow condition. Implementations are
// pure; all state is fixed at construction.
type DirectionModel interface {
	Direction(vertex, vInf, omega r3.Vec) r3.Vec
}

// Freestream trails filaments along the freestream velocity.
type Freestream struct{}

// Direction returns the freestream unit vector.
func (Freestream) Direction(_, vInf, _ r3.Vec) r3.Vec {
	return r3.Unit(vInf)
}

// FreestreamAndRotation trails filaments along the local total
// velocity, freestream plus rigid rotation (-omega x vertex).
type FreestreamAndRotation struct{}

// Direction returns the local velocity unit vector.
func (FreestreamAndRotation) Direction(vertex, vInf, omega r3.Vec) r3.Vec {
	return r3.Unit(r3.Sub(vInf, r3.Cross(omega, vertex)))
}

// FreestreamConstrained trails filaments along the freestream projected
// onto a fixed constraint plane (e.g. a symmetry plane).
type FreestreamConstrained struct {
	normal r3.Vec
}

// NewFreestreamConstrained validates the plane normal at construction.
func NewFreestreamConstrained(normal r3.Vec) (FreestreamConstrained, error) {
	if r3.Norm(normal) == 0 {
		return FreestreamConstrained{}, ErrMissingNormal
	}
	return FreestreamConstrained{normal: r3.Unit(normal)}, nil
}

// Direction returns the in-plane freestream unit vector.
func (m FreestreamConstrained) Direction(_, vInf, _ r3.Vec) r3.Vec {
	return r3.Unit(projectOntoPlane(vInf, m.normal))
}

// FreestreamAndRotationConstrained combines the local-velocity rule
// with the constraint-plane projection.
type FreestreamAndRotationConstrained struct {
	normal r3.Vec
}

// NewFreestreamAndRotationConstrained validates the plane normal at
// construction.
func NewFreestreamAndRotationConstrained(normal r3.Vec) (FreestreamAndRotationConstrained, error) {
	if r3.Norm(normal) == 0 {
		return FreestreamAndRotationConstrained{}, ErrMissingNormal
	}
	return FreestreamAndRotationConstrained{normal: r3.Unit(normal)}, nil
}

// Direction returns the in-plane local velocity unit vector.
func (m FreestreamAndRotationConstrained) Direction(vertex, vInf, omega r3.Vec) r3.Vec {
	v := r3.Sub(vInf, r3.Cross(omega, vertex))
	return r3.Unit(projectOntoPlane(v, m.normal))
}

// Custom trails every filament along one fixed direction, independent
// of the flow condition.
type Custom struct {
	dir r3.Vec
}

// NewCustom validates and normalizes the direction at construction.
func NewCustom(dir r3.Vec) (Custom, error) {
	if r3.Norm(dir) == 0 {
		return Custom{}, ErrMissingDirection
	}
	return Custom{dir: r3.Unit(dir)}, nil
}

// Direction returns the fixed direction.
func (m Custom) Direction(_, _, _ r3.Vec) r3.Vec { return m.dir }

// projectOntoPlane removes the component of v along the unit normal n.
func projectOntoPlane(v, n r3.Vec) r3.Vec {
	return r3.Sub(v, r3.Scale(r3.Dot(n, v), n))
}
