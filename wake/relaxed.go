package wake

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"gopan/geometry"
)

// anchorNudge offsets the first velocity evaluation off the filament
// anchors, where the bound Kutta-edge segments terminate and the
// kernels are singular. The nudge affects only where velocity is
// sampled, never where a station is placed.
const anchorNudge = 0.01

// RelaxedOptions configures a relaxed wake. Zero Segments or
// SegmentLength take the defaults below; CorrectorIterations is used
// as given (zero is a valid, predictor-only scheme).
type RelaxedOptions struct {
	Segments            int
	SegmentLength       float64
	CorrectorIterations int
	EndInfinite         bool
}

const (
	defaultSegments      = 20
	defaultSegmentLength = 1.0
)

// Relaxed is the iterative wake: segmented filaments anchored at the
// Kutta vertices, bent one station at a time toward local streamlines
// by Update. Filament storage is allocated once at construction and
// overwritten in place by each relaxation pass.
type Relaxed struct {
	edges          []geometry.KuttaEdge
	filaments      []*Filament
	segments       int
	segmentLength  float64
	correctorIters int
}

// NewRelaxed builds a relaxed wake over the given Kutta edges.
func NewRelaxed(edges []geometry.KuttaEdge, opts RelaxedOptions) (*Relaxed, error) {
	if opts.Segments < 0 || opts.CorrectorIterations < 0 {
		return nil, fmt.Errorf("wake: negative segment or corrector count: %+v", opts)
	}
	if opts.SegmentLength < 0 {
		return nil, fmt.Errorf("wake: negative segment length %g", opts.SegmentLength)
	}
	segments := opts.Segments
	if segments == 0 {
		segments = defaultSegments
	}
	segmentLength := opts.SegmentLength
	if segmentLength == 0 {
		segmentLength = defaultSegmentLength
	}

	verts, inbound, outbound, hasIn, hasOut := arrangeKuttaVertices(edges)
	filaments := make([]*Filament, len(verts))
	for i, v := range verts {
		filaments[i] = newFilament(v, inbound[i], outbound[i], hasIn[i], hasOut[i], segments, segmentLength, opts.EndInfinite)
	}
	return &Relaxed{
		edges:          edges,
		filaments:      filaments,
		segments:       segments,
		segmentLength:  segmentLength,
		correctorIters: opts.CorrectorIterations,
	}, nil
}

// NumFilaments returns the trailing filament count.
func (w *Relaxed) NumFilaments() int { return len(w.filaments) }

// Filaments exposes the filament set for inspection.
func (w *Relaxed) Filaments() []*Filament { return w.filaments }

// SetFilamentDirection lays every filament out straight along the
// local freestream-plus-rotation velocity at its anchor. This resets
// any previously relaxed shape.
func (w *Relaxed) SetFilamentDirection(vInf, omega r3.Vec) {
	for _, f := range w.filaments {
		u := r3.Unit(r3.Sub(vInf, r3.Cross(omega, f.Origin)))
		f.InitPoints(u)
	}
}

// InfluenceMatrix accumulates, per field point, the bound Kutta-edge
// terms and every filament's segment-sum influence, scattered with
// opposite signs onto the bracketing panel columns.
func (w *Relaxed) InfluenceMatrix(points []r3.Vec, nPanels int, vInf, omega r3.Vec) (*Influence, error) {
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

			for _, f := range w.filaments {
				v, err := f.Influence(p)
				if err != nil {
					return err
				}
				if f.HasOutbound {
					m.add(r, f.Outbound[0], r3.Scale(-1, v))
					m.add(r, f.Outbound[1], v)
				}
				if f.HasInbound {
					m.add(r, f.Inbound[0], v)
					m.add(r, f.Inbound[1], r3.Scale(-1, v))
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

// Update advances every filament by one pass of explicit
// predictor-corrector streamline integration under the current doublet
// strengths mu. One marching point per filament walks downstream
// station by station; each station advances a fixed segment length
// along the unit direction of the local total velocity. Each corrector
// pass re-advances from the station's start point along the average of
// the start and predicted velocities.
//
// Filament geometry is read (for induced velocities) in its pre-update
// shape throughout and committed only at the end, so no evaluation
// observes a half-moved wake. Anchors never move.
func (w *Relaxed) Update(body BodyVelocityFunc, mu []float64, vInf, omega r3.Vec) error {
	n := len(w.filaments)
	if n == 0 {
		return nil
	}

	newLocs := make([][]r3.Vec, n)
	for i := range newLocs {
		newLocs[i] = make([]r3.Vec, w.segments)
	}

	curr := make([]r3.Vec, n)
	eval := make([]r3.Vec, n)
	next := make([]r3.Vec, n)
	for i, f := range w.filaments {
		curr[i] = f.Points[0]
	}

	for seg := 1; seg <= w.segments; seg++ {
		// On the first station the marching points sit exactly on the
		// Kutta vertices; sample velocity slightly downstream instead.
		for i := range curr {
			if seg == 1 {
				eval[i] = r3.Add(curr[i], r3.Scale(anchorNudge, w.filaments[i].Dir))
			} else {
				eval[i] = curr[i]
			}
		}

		v0, err := w.totalVelocity(eval, body, mu, vInf, omega, true)
		if err != nil {
			return err
		}

		// Predictor.
		for i := range next {
			next[i] = r3.Add(curr[i], r3.Scale(w.segmentLength, r3.Unit(v0[i])))
		}

		// Corrector: always re-advance from the station start point.
		for c := 0; c < w.correctorIters; c++ {
			v1, err := w.totalVelocity(next, body, mu, vInf, omega, false)
			if err != nil {
				return err
			}
			for i := range next {
				avg := r3.Scale(0.5, r3.Add(v0[i], v1[i]))
				next[i] = r3.Add(curr[i], r3.Scale(w.segmentLength, r3.Unit(avg)))
			}
		}

		for i := range next {
			newLocs[i][seg-1] = next[i]
			curr[i] = next[i]
		}
	}

	for i, f := range w.filaments {
		copy(f.Points[1:], newLocs[i])
	}
	return nil
}

// totalVelocity returns the total flow velocity at each point:
// body-induced, freestream, rigid rotation (predictor only, matching
// the integration scheme), and the induced velocity of every Kutta
// edge and every filament other than the point's own.
func (w *Relaxed) totalVelocity(points []r3.Vec, body BodyVelocityFunc, mu []float64, vInf, omega r3.Vec, withRotation bool) ([]r3.Vec, error) {
	v := make([]r3.Vec, len(points))
	if body != nil {
		bv := body(points)
		if len(bv) != len(points) {
			return nil, fmt.Errorf("wake: body velocity returned %d values for %d points", len(bv), len(points))
		}
		copy(v, bv)
	}
	for i, p := range points {
		v[i] = r3.Add(v[i], vInf)
		if withRotation {
			v[i] = r3.Sub(v[i], r3.Cross(omega, p))
		}
	}

	ind, err := w.inducedByOthers(points, mu)
	if err != nil {
		return nil, err
	}
	for i := range v {
		v[i] = r3.Add(v[i], ind[i])
	}
	return v, nil
}

// inducedByOthers returns the velocity induced at each marching point
// by all Kutta edges and by every filament except the point's own,
// scaled by the doublet-strength jumps in mu. Excluding the point's own
// filament avoids the near-singular self-term.
func (w *Relaxed) inducedByOthers(points []r3.Vec, mu []float64) ([]r3.Vec, error) {
	ind := make([]r3.Vec, len(points))
	err := forEachChunk(len(points), func(start, end int) error {
		for i := start; i < end; i++ {
			p := points[i]

			for j, f := range w.filaments {
				if j == i {
					continue
				}
				v, err := f.Influence(p)
				if err != nil {
					return err
				}
				if f.HasOutbound {
					ind[i] = r3.Add(ind[i], r3.Scale(mu[f.Outbound[1]]-mu[f.Outbound[0]], v))
				}
				if f.HasInbound {
					ind[i] = r3.Add(ind[i], r3.Scale(mu[f.Inbound[0]]-mu[f.Inbound[1]], v))
				}
			}

			for _, e := range w.edges {
				v, err := e.Influence(p)
				if err != nil {
					return err
				}
				ind[i] = r3.Add(ind[i], r3.Scale(mu[e.Panels[1]]-mu[e.Panels[0]], v))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ind, nil
}

// VTKData returns the relaxed wake geometry: every filament's station
// points joined by line cells. A notionally infinite terminal segment
// is drawn at the given length. The count is the number of line cells.
func (w *Relaxed) VTKData(length float64) ([]r3.Vec, [][]int, int) {
	var verts []r3.Vec
	var lines [][]int
	base := 0
	for _, f := range w.filaments {
		for j, p := range f.Points {
			verts = append(verts, p)
			if j != len(f.Points)-1 {
				lines = append(lines, []int{2, base + j, base + j + 1})
			}
		}
		if f.EndInfinite {
			last := len(verts) - 1
			u := r3.Unit(r3.Sub(verts[last], verts[last-1]))
			verts[last] = r3.Add(verts[last-1], r3.Scale(length, u))
		}
		base += len(f.Points)
	}
	return verts, lines, len(w.filaments) * w.segments
}
