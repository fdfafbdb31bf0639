package wake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"gopan/geometry"
)

func TestNewRelaxedDefaults(t *testing.T) {
	w, err := NewRelaxed(singleEdge(), RelaxedOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, w.NumFilaments())
	for _, f := range w.Filaments() {
		assert.Len(t, f.Points, defaultSegments+1)
		assert.Equal(t, defaultSegmentLength, f.SegmentLength)
	}
}

func TestNewRelaxedRejectsNegativeOptions(t *testing.T) {
	cases := []RelaxedOptions{
		{Segments: -1},
		{CorrectorIterations: -2},
		{SegmentLength: -0.5},
	}
	for _, opts := range cases {
		_, err := NewRelaxed(singleEdge(), opts)
		assert.Error(t, err, "%+v", opts)
	}
}

func TestRelaxedSetFilamentDirection(t *testing.T) {
	w, err := NewRelaxed(singleEdge(), RelaxedOptions{Segments: 3, SegmentLength: 0.5})
	require.NoError(t, err)

	vInf := r3.Vec{Z: -2}
	w.SetFilamentDirection(vInf, r3.Vec{})

	for _, f := range w.Filaments() {
		require.Len(t, f.Points, 4)
		assert.Equal(t, f.Origin, f.Points[0])
		for k := 1; k < len(f.Points); k++ {
			want := r3.Add(f.Origin, r3.Vec{Z: -0.5 * float64(k)})
			assert.InDelta(t, 0, r3.Norm(r3.Sub(f.Points[k], want)), 1e-14)
		}
	}
}

func TestRelaxedUpdateUniformFlow(t *testing.T) {
	// In a uniform flow with zero doublet strengths, one predictor step
	// per station carries each marching point exactly one segment length
	// along the flow.
	const segLen = 2.0
	w, err := NewRelaxed(singleEdge(), RelaxedOptions{Segments: 1, SegmentLength: segLen})
	require.NoError(t, err)

	vInf := r3.Vec{Z: -3}
	w.SetFilamentDirection(vInf, r3.Vec{})
	require.NoError(t, w.Update(nil, []float64{0, 0}, vInf, r3.Vec{}))

	for _, f := range w.Filaments() {
		want := r3.Add(f.Origin, r3.Vec{Z: -segLen})
		assert.InDelta(t, 0, r3.Norm(r3.Sub(f.Points[1], want)), 1e-13)
	}
}

func TestRelaxedUpdateKeepsAnchors(t *testing.T) {
	w, err := NewRelaxed(singleEdge(), RelaxedOptions{Segments: 4, SegmentLength: 0.5, CorrectorIterations: 1})
	require.NoError(t, err)

	vInf := r3.Vec{X: -1, Z: -0.3}
	w.SetFilamentDirection(vInf, r3.Vec{})
	mu := []float64{0.7, -0.4}
	for pass := 0; pass < 3; pass++ {
		require.NoError(t, w.Update(nil, mu, vInf, r3.Vec{}))
	}

	for i, f := range w.Filaments() {
		assert.Equal(t, f.Origin, f.Points[0], "filament %d anchor moved", i)
	}
}

func TestRelaxedCorrectorConvergedInUniformFlow(t *testing.T) {
	// With uniform velocity everywhere the corrector average equals the
	// predictor velocity, so extra corrector passes change nothing.
	vInf := r3.Vec{Z: -3}
	mu := []float64{0, 0}

	pred, err := NewRelaxed(singleEdge(), RelaxedOptions{Segments: 3, SegmentLength: 1})
	require.NoError(t, err)
	pred.SetFilamentDirection(vInf, r3.Vec{})
	require.NoError(t, pred.Update(nil, mu, vInf, r3.Vec{}))

	corr, err := NewRelaxed(singleEdge(), RelaxedOptions{Segments: 3, SegmentLength: 1, CorrectorIterations: 3})
	require.NoError(t, err)
	corr.SetFilamentDirection(vInf, r3.Vec{})
	require.NoError(t, corr.Update(nil, mu, vInf, r3.Vec{}))

	for i := range pred.Filaments() {
		fp, fc := pred.Filaments()[i], corr.Filaments()[i]
		for k := range fp.Points {
			assert.InDelta(t, 0, r3.Norm(r3.Sub(fp.Points[k], fc.Points[k])), 1e-13, "filament %d point %d", i, k)
		}
	}
}

func TestRelaxedUpdateUsesBodyVelocity(t *testing.T) {
	// Zero freestream plus a body field returning a uniform velocity is
	// indistinguishable from that freestream.
	w, err := NewRelaxed(singleEdge(), RelaxedOptions{Segments: 1, SegmentLength: 1.5})
	require.NoError(t, err)

	w.SetFilamentDirection(r3.Vec{Z: -1}, r3.Vec{}) // establishes a downstream nudge direction
	body := func(points []r3.Vec) []r3.Vec {
		v := make([]r3.Vec, len(points))
		for i := range v {
			v[i] = r3.Vec{Z: -4}
		}
		return v
	}
	require.NoError(t, w.Update(body, []float64{0, 0}, r3.Vec{}, r3.Vec{}))

	for _, f := range w.Filaments() {
		want := r3.Add(f.Origin, r3.Vec{Z: -1.5})
		assert.InDelta(t, 0, r3.Norm(r3.Sub(f.Points[1], want)), 1e-13)
	}
}

func TestRelaxedUpdateBodyLengthMismatch(t *testing.T) {
	w, err := NewRelaxed(singleEdge(), RelaxedOptions{Segments: 1})
	require.NoError(t, err)
	w.SetFilamentDirection(r3.Vec{Z: -1}, r3.Vec{})

	body := func(points []r3.Vec) []r3.Vec { return nil }
	err = w.Update(body, []float64{0, 0}, r3.Vec{Z: -1}, r3.Vec{})
	require.Error(t, err)
}

func TestStraightEndInfiniteFilamentMatchesRay(t *testing.T) {
	// A straight filament whose terminal segment extends to infinity is
	// one semi-infinite ray split into pieces; the split must not change
	// the induced velocity.
	origin := r3.Vec{X: 1, Y: 2, Z: 0}
	dir := r3.Unit(r3.Vec{X: -1, Z: -0.5})
	f := newFilament(origin, [2]int{}, [2]int{}, false, false, 5, 0.8, true)
	f.InitPoints(dir)

	points := []r3.Vec{
		{X: 0, Y: 0, Z: 1},
		{X: 3, Y: 2.5, Z: -1},
		{X: -2, Y: 1, Z: 2},
	}
	for _, p := range points {
		got, err := f.Influence(p)
		require.NoError(t, err)
		want, err := geometry.RayInfluence(origin, dir, p)
		require.NoError(t, err)
		assert.InDelta(t, 0, r3.Norm(r3.Sub(got, want)), 1e-12, "point %v", p)
	}
}

func TestRelaxedInfluenceMatchesFixedWhenStraight(t *testing.T) {
	// Before any relaxation, a straight end-infinite wake and the fixed
	// horseshoe wake are the same vortex system.
	edges := singleEdge()
	vInf := r3.Vec{X: -1}

	relaxed, err := NewRelaxed(edges, RelaxedOptions{Segments: 6, SegmentLength: 1, EndInfinite: true})
	require.NoError(t, err)
	relaxed.SetFilamentDirection(vInf, r3.Vec{})

	fixed, err := NewFixed(edges, Freestream{})
	require.NoError(t, err)
	fixed.SetFilamentDirection(vInf, r3.Vec{})

	points := []r3.Vec{
		{X: 0.5, Y: 0.5, Z: 1},
		{X: 4, Y: -2, Z: 0.5},
		{X: -1, Y: 3, Z: -2},
	}
	mr, err := relaxed.InfluenceMatrix(points, 2, vInf, r3.Vec{})
	require.NoError(t, err)
	mf, err := fixed.InfluenceMatrix(points, 2, vInf, r3.Vec{})
	require.NoError(t, err)

	for i := range points {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, 0, r3.Norm(r3.Sub(mr.At(i, j), mf.At(i, j))), 1e-12, "point %d panel %d", i, j)
		}
	}
}

func TestRelaxedInfluenceColumnsCancel(t *testing.T) {
	w, err := NewRelaxed(singleEdge(), RelaxedOptions{Segments: 4, SegmentLength: 0.5})
	require.NoError(t, err)
	w.SetFilamentDirection(r3.Vec{X: -1, Z: -0.2}, r3.Vec{})

	points := []r3.Vec{{X: 0.3, Y: 0.4, Z: 0.9}, {X: 2, Y: 2, Z: -1}}
	m, err := w.InfluenceMatrix(points, 2, r3.Vec{X: -1, Z: -0.2}, r3.Vec{})
	require.NoError(t, err)

	for i := range points {
		assert.InDelta(t, 0, r3.Norm(r3.Add(m.At(i, 0), m.At(i, 1))), 1e-14, "row %d", i)
	}
}

func TestRelaxedVTKData(t *testing.T) {
	w, err := NewRelaxed(singleEdge(), RelaxedOptions{Segments: 3, SegmentLength: 1})
	require.NoError(t, err)
	w.SetFilamentDirection(r3.Vec{Z: -1}, r3.Vec{})

	verts, lines, count := w.VTKData(20)
	assert.Equal(t, 2*3, count)
	assert.Len(t, verts, 2*4)
	require.Len(t, lines, 2*3)
	for _, line := range lines {
		require.Len(t, line, 3)
		assert.Equal(t, 2, line[0])
	}
}

func TestRelaxedVTKDataStretchesInfiniteEnd(t *testing.T) {
	w, err := NewRelaxed(singleEdge(), RelaxedOptions{Segments: 3, SegmentLength: 1, EndInfinite: true})
	require.NoError(t, err)
	w.SetFilamentDirection(r3.Vec{Z: -1}, r3.Vec{})

	const length = 25.0
	verts, _, _ := w.VTKData(length)
	require.Len(t, verts, 8)

	// Last vertex of each filament is redrawn at the requested length
	// from its penultimate station.
	for f := 0; f < 2; f++ {
		pen, tip := verts[f*4+2], verts[f*4+3]
		assert.InDelta(t, length, r3.Norm(r3.Sub(tip, pen)), 1e-12, "filament %d", f)
	}
}
