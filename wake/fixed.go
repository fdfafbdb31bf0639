package wake

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"

	"gopan/geometry"
)

// ErrMissingModel indicates a wake variant constructed without its
// required direction model.
var ErrMissingModel = errors.New("wake: direction model is required")

// Fixed is the horseshoe-vortex wake: each Kutta edge carries a bound
// segment, and each unique Kutta vertex trails one straight
// semi-infinite filament whose direction is a pure function of the flow
// condition. The wake has no shape state beyond those directions.
type Fixed struct {
	edges    []geometry.KuttaEdge
	vertices []r3.Vec
	inbound  [][2]int
	outbound [][2]int
	hasIn    []bool
	hasOut   []bool
	dirs     []r3.Vec
	model    DirectionModel
}

// NewFixed builds a fixed-direction wake over the given Kutta edges.
// The direction model is required; missing parameters fail here, not at
// first use.
func NewFixed(edges []geometry.KuttaEdge, model DirectionModel) (*Fixed, error) {
	if model == nil {
		return nil, ErrMissingModel
	}
	verts, inbound, outbound, hasIn, hasOut := arrangeKuttaVertices(edges)
	return &Fixed{
		edges:    edges,
		vertices: verts,
		inbound:  inbound,
		outbound: outbound,
		hasIn:    hasIn,
		hasOut:   hasOut,
		dirs:     make([]r3.Vec, len(verts)),
		model:    model,
	}, nil
}

// NumFilaments returns the trailing filament count.
func (w *Fixed) NumFilaments() int { return len(w.vertices) }

// SetFilamentDirection recomputes every filament direction from the
// flow condition via the direction model.
func (w *Fixed) SetFilamentDirection(vInf, omega r3.Vec) {
	for i, v := range w.vertices {
		w.dirs[i] = w.model.Direction(v, vInf, omega)
	}
}

// InfluenceMatrix accumulates, per field point, the bound Kutta-edge
// segment terms and each trailing filament's semi-infinite term,
// scattered with opposite signs onto the bracketing panel columns. The
// sign convention encodes the doublet-strength jump across the wake
// sheet; flipping it flips the sign of computed lift.
func (w *Fixed) InfluenceMatrix(points []r3.Vec, nPanels int, vInf, omega r3.Vec) (*Influence, error) {
	m := NewInfluence(len(points), nPanels)
	err := forEachChunk(len(points), func(start, end int) error {
		for r := start; r < end; r++ {
			p := points[r]

			for _, e := range w.edges {
				v, err := e.Influence(p)
				if err != nil {
					return err
				}
				m.add(r, e.Panels[0], r3.Scale(-1, v))
				m.add(r, e.Panels[1], v)
			}

			for i, vertex := range w.vertices {
				v, err := geometry.RayInfluence(vertex, w.dirs[i], p)
				if err != nil {
					return err
				}
				if w.hasOut[i] {
					m.add(r, w.outbound[i][0], r3.Scale(-1, v))
					m.add(r, w.outbound[i][1], v)
				}
				if w.hasIn[i] {
					m.add(r, w.inbound[i][0], v)
					m.add(r, w.inbound[i][1], r3.Scale(-1, v))
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Update is a no-op; a fixed-direction wake has no shape freedom.
func (w *Fixed) Update(body BodyVelocityFunc, mu []float64, vInf, omega r3.Vec) error {
	return nil
}

// VTKData returns each filament as a two-point line of the given
// length along its current direction.
func (w *Fixed) VTKData(length float64) ([]r3.Vec, [][]int, int) {
	verts := make([]r3.Vec, 0, 2*len(w.vertices))
	lines := make([][]int, 0, len(w.vertices))
	for i, v := range w.vertices {
		verts = append(verts, v, r3.Add(v, r3.Scale(length, w.dirs[i])))
		lines = append(lines, []int{2, 2 * i, 2*i + 1})
	}
	return verts, lines, len(w.vertices)
}
