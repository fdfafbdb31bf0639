package wake

import (
	"gonum.org/v1/gonum/spatial/r3"

	"gopan/geometry"
)

// Filament is a segmented trailing vortex filament anchored at a Kutta
// vertex. Points[0] is the anchor and never moves; the remaining points
// are laid out straight by InitPoints and then bent in place by wake
// relaxation. The point slice is allocated once and overwritten, never
// resized.
//
// Inbound and Outbound hold the panel pairs of the Kutta edges flowing
// into and out of the anchor, when present; they receive the filament's
// influence with opposite signs.
type Filament struct {
	Origin r3.Vec
	Points []r3.Vec
	Dir    r3.Vec

	Inbound     [2]int
	Outbound    [2]int
	HasInbound  bool
	HasOutbound bool

	SegmentLength float64
	EndInfinite   bool
}

func newFilament(origin r3.Vec, inbound, outbound [2]int, hasIn, hasOut bool, segments int, segmentLength float64, endInfinite bool) *Filament {
	return &Filament{
		Origin:        origin,
		Points:        make([]r3.Vec, segments+1),
		Inbound:       inbound,
		Outbound:      outbound,
		HasInbound:    hasIn,
		HasOutbound:   hasOut,
		SegmentLength: segmentLength,
		EndInfinite:   endInfinite,
	}
}

// InitPoints lays the filament out straight from its anchor along the
// unit direction dir, one segment length apart.
func (f *Filament) InitPoints(dir r3.Vec) {
	f.Dir = dir
	f.Points[0] = f.Origin
	for i := 1; i < len(f.Points); i++ {
		f.Points[i] = r3.Add(f.Origin, r3.Scale(float64(i)*f.SegmentLength, dir))
	}
}

// Influence returns the velocity induced at p by the whole filament at
// unit circulation: the sum over its straight segments, with the
// terminal segment evaluated as a semi-infinite ray when EndInfinite is
// set.
func (f *Filament) Influence(p r3.Vec) (r3.Vec, error) {
	var total r3.Vec
	last := len(f.Points) - 1

	finiteEnd := last
	if f.EndInfinite {
		finiteEnd = last - 1
	}
	for i := 0; i < finiteEnd; i++ {
		v, err := geometry.SegmentInfluence(f.Points[i], f.Points[i+1], p)
		if err != nil {
			return r3.Vec{}, err
		}
		total = r3.Add(total, v)
	}

	if f.EndInfinite {
		u := r3.Unit(r3.Sub(f.Points[last], f.Points[last-1]))
		v, err := geometry.RayInfluence(f.Points[last-1], u, p)
		if err != nil {
			return r3.Vec{}, err
		}
		total = r3.Add(total, v)
	}
	return total, nil
}
