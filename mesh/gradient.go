package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Gradient returns a least-squares estimate of the surface gradient of
// phi at each panel centroid. phi holds the scalar value at each
// centroid in panel order. The stencil for a panel is its not-across-
// Kutta neighbors only, so the fit never reaches across a potential
// discontinuity.
//
// Each panel needs at least three such neighbors. The solve goes
// through the SVD so a planar stencil (every centroid offset in one
// plane, the usual case on flat patches) yields the minimum-norm
// in-plane gradient instead of failing.
func (m *Mesh) Gradient(phi []float64) ([]r3.Vec, error) {
	if len(phi) != len(m.Panels) {
		return nil, fmt.Errorf("mesh: gradient input has %d values for %d panels", len(phi), len(m.Panels))
	}

	grad := make([]r3.Vec, len(m.Panels))
	var svd mat.SVD
	var x mat.VecDense
	for i := range m.Panels {
		stencil := m.Adjacency.NotAcross(i)
		if len(stencil) < 3 {
			return nil, fmt.Errorf("mesh: panel %d has %d same-surface neighbors, need >= 3 for gradient", i, len(stencil))
		}

		a := mat.NewDense(len(stencil), 3, nil)
		b := mat.NewVecDense(len(stencil), nil)
		for k, j := range stencil {
			d := r3.Sub(m.Centroids[j], m.Centroids[i])
			a.Set(k, 0, d.X)
			a.Set(k, 1, d.Y)
			a.Set(k, 2, d.Z)
			b.SetVec(k, phi[j]-phi[i])
		}

		if !svd.Factorize(a, mat.SVDThin) {
			return nil, fmt.Errorf("mesh: gradient factorization failed at panel %d", i)
		}
		rank := svd.Rank(1e-12)
		if rank == 0 {
			return nil, fmt.Errorf("mesh: panel %d gradient stencil is degenerate", i)
		}
		svd.SolveVecTo(&x, b, rank)
		grad[i] = r3.Vec{X: x.AtVec(0), Y: x.AtVec(1), Z: x.AtVec(2)}
	}
	return grad, nil
}
