package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrSingularPoint indicates a field point lying on (or numerically on)
// a vortex filament's line. The Biot-Savart kernels are singular there;
// evaluating anyway would feed non-finite velocities into the solve
// with no visible symptom, so the condition is surfaced instead.
var ErrSingularPoint = errors.New("geometry: field point coincides with vortex filament")

const (
	fourPiInv   = 1.0 / (4.0 * math.Pi)
	singularTol = 1e-12
)

// RayInfluence returns the velocity induced at p by a semi-infinite
// straight vortex filament of unit circulation starting at origin and
// extending along the unit vector dir:
//
//	V = (1/4pi) (dir x r) / (|r| (|r| - dir.r)),  r = p - origin
//
// The kernel is singular for p on the filament ray.
func RayInfluence(origin, dir, p r3.Vec) (r3.Vec, error) {
	r := r3.Sub(p, origin)
	rMag := r3.Norm(r)
	denom := rMag * (rMag - r3.Dot(dir, r))
	if math.Abs(denom) < singularTol {
		return r3.Vec{}, fmt.Errorf("%w: point %v on ray from %v along %v", ErrSingularPoint, p, origin, dir)
	}
	return r3.Scale(fourPiInv/denom, r3.Cross(dir, r)), nil
}

// SegmentInfluence returns the velocity induced at p by a finite
// straight vortex segment of unit circulation from a to b:
//
//	V = (1/4pi) (|r0|+|r1|) (r0 x r1) / (|r0||r1| (|r0||r1| + r0.r1))
//
// with r0 = p - a and r1 = p - b. In the limit of b receding to
// infinity along a unit vector u this converges to RayInfluence(a, u, p).
// The kernel is singular for p on the segment's line.
func SegmentInfluence(a, b, p r3.Vec) (r3.Vec, error) {
	r0 := r3.Sub(p, a)
	r1 := r3.Sub(p, b)
	r0Mag := r3.Norm(r0)
	r1Mag := r3.Norm(r1)
	denom := r0Mag * r1Mag * (r0Mag*r1Mag + r3.Dot(r0, r1))
	if math.Abs(denom) < singularTol {
		return r3.Vec{}, fmt.Errorf("%w: point %v on segment %v -> %v", ErrSingularPoint, p, a, b)
	}
	return r3.Scale(fourPiInv*(r0Mag+r1Mag)/denom, r3.Cross(r0, r1)), nil
}
