package wake

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Influence is the wake influence tensor: for each field point and each
// panel, the velocity induced at that point per unit strength of that
// panel. The row for a point is assembled by scattering each vortex
// element's contribution onto the columns of its bracketing panels.
type Influence struct {
	nPoints int
	nPanels int
	data    []r3.Vec // row-major, nPoints x nPanels
}

// NewInfluence returns a zeroed nPoints x nPanels influence tensor.
func NewInfluence(nPoints, nPanels int) *Influence {
	return &Influence{
		nPoints: nPoints,
		nPanels: nPanels,
		data:    make([]r3.Vec, nPoints*nPanels),
	}
}

// Dims returns (points, panels).
func (m *Influence) Dims() (int, int) { return m.nPoints, m.nPanels }

// At returns the induced velocity at field point i per unit strength of
// panel j.
func (m *Influence) At(i, j int) r3.Vec {
	return m.data[i*m.nPanels+j]
}

// add accumulates v into entry (i, j). Rows are disjoint, so concurrent
// writers confined to distinct point ranges never race.
func (m *Influence) add(i, j int, v r3.Vec) {
	m.data[i*m.nPanels+j] = r3.Add(m.data[i*m.nPanels+j], v)
}

// Component returns one Cartesian component of the tensor as a dense
// points x panels matrix (axis 0, 1, 2 for x, y, z), in the form the
// linear-system assembly consumes.
func (m *Influence) Component(axis int) *mat.Dense {
	d := mat.NewDense(m.nPoints, m.nPanels, nil)
	for i := 0; i < m.nPoints; i++ {
		for j := 0; j < m.nPanels; j++ {
			v := m.data[i*m.nPanels+j]
			switch axis {
			case 0:
				d.Set(i, j, v.X)
			case 1:
				d.Set(i, j, v.Y)
			default:
				d.Set(i, j, v.Z)
			}
		}
	}
	return d
}
