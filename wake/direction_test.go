package wake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func assertUnit(t *testing.T, v r3.Vec) {
	t.Helper()
	assert.InDelta(t, 1.0, r3.Norm(v), 1e-12)
}

func TestFreestreamDirection(t *testing.T) {
	d := Freestream{}.Direction(r3.Vec{X: 100}, r3.Vec{X: -100, Z: 0}, r3.Vec{Y: 5})
	assert.Equal(t, r3.Vec{X: -1}, d)
}

func TestFreestreamAndRotationDirection(t *testing.T) {
	// omega = z-hat, vertex on the x axis: rotation adds -omega x r =
	// (0, -1, 0) per unit radius per unit rate.
	vertex := r3.Vec{X: 2}
	vInf := r3.Vec{Z: -3}
	omega := r3.Vec{Z: 1}

	d := FreestreamAndRotation{}.Direction(vertex, vInf, omega)
	want := r3.Unit(r3.Vec{Y: -2, Z: -3})
	assert.InDelta(t, 0, r3.Norm(r3.Sub(d, want)), 1e-12)
	assertUnit(t, d)
}

func TestFreestreamConstrainedDirection(t *testing.T) {
	m, err := NewFreestreamConstrained(r3.Vec{Z: 2}) // non-unit normal is normalized
	require.NoError(t, err)

	d := m.Direction(r3.Vec{}, r3.Vec{X: 1, Z: 1}, r3.Vec{})
	assert.InDelta(t, 0, r3.Norm(r3.Sub(d, r3.Vec{X: 1})), 1e-12)
	assertUnit(t, d)
}

func TestFreestreamConstrainedRequiresNormal(t *testing.T) {
	_, err := NewFreestreamConstrained(r3.Vec{})
	assert.ErrorIs(t, err, ErrMissingNormal)
}

func TestFreestreamAndRotationConstrainedDirection(t *testing.T) {
	m, err := NewFreestreamAndRotationConstrained(r3.Vec{Y: 1})
	require.NoError(t, err)

	// Local velocity (0, -2, -3) as above; the y component is projected
	// out.
	d := m.Direction(r3.Vec{X: 2}, r3.Vec{Z: -3}, r3.Vec{Z: 1})
	assert.InDelta(t, 0, r3.Norm(r3.Sub(d, r3.Vec{Z: -1})), 1e-12)
}

func TestFreestreamAndRotationConstrainedRequiresNormal(t *testing.T) {
	_, err := NewFreestreamAndRotationConstrained(r3.Vec{})
	assert.ErrorIs(t, err, ErrMissingNormal)
}

func TestCustomDirection(t *testing.T) {
	m, err := NewCustom(r3.Vec{X: 3, Y: 4})
	require.NoError(t, err)

	d := m.Direction(r3.Vec{X: 9}, r3.Vec{Z: -1}, r3.Vec{Y: 2})
	assert.InDelta(t, 0.6, d.X, 1e-12)
	assert.InDelta(t, 0.8, d.Y, 1e-12)
	assert.InDelta(t, 0.0, d.Z, 1e-12)
}

func TestCustomRequiresDirection(t *testing.T) {
	_, err := NewCustom(r3.Vec{})
	assert.ErrorIs(t, err, ErrMissingDirection)
}

func TestProjectOntoPlane(t *testing.T) {
	n := r3.Unit(r3.Vec{X: 1, Y: 1, Z: 1})
	v := r3.Vec{X: 1, Y: -2, Z: 0.5}

	p := projectOntoPlane(v, n)
	assert.InDelta(t, 0, r3.Dot(p, n), 1e-12, "projection must be orthogonal to the normal")

	// Projecting twice changes nothing.
	pp := projectOntoPlane(p, n)
	assert.InDelta(t, 0, r3.Norm(r3.Sub(p, pp)), 1e-12)

	// A vector already in the plane is untouched.
	inPlane := r3.Vec{X: 1, Y: -1, Z: 0}
	assert.InDelta(t, 0, r3.Norm(r3.Sub(inPlane, projectOntoPlane(inPlane, n))), 1e-12)
}
