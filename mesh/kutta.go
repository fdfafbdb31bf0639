package mesh

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"gopan/geometry"
)

// ErrDegenerateEdge indicates a discontinuous adjacent panel pair whose
// shared vertices do not form a single well-defined edge (more than two
// coincident vertex pairs, or two that are not ring-adjacent). Emitting
// a partial edge would corrupt the wake silently, so this is fatal.
var ErrDegenerateEdge = errors.New("mesh: degenerate Kutta edge")

// coincidentTol is the distance below which two panel vertices are
// treated as the same physical point when resolving a shared edge.
const coincidentTol = 1e-10

// Adjacency answers neighbor queries for a mesh: all neighbors of a
// panel, those across a Kutta edge, and those not across one. All
// slices are sorted and symmetric.
type Adjacency struct {
	neighbors [][]int
	across    [][]int
	notAcross [][]int
}

// Neighbors returns the indices of all panels sharing a vertex with panel i.
func (a *Adjacency) Neighbors(i int) []int { return a.neighbors[i] }

// AcrossKutta returns the neighbors of panel i separated from it by a
// surface discontinuity exceeding the Kutta threshold.
func (a *Adjacency) AcrossKutta(i int) []int { return a.across[i] }

// NotAcross returns the neighbors of panel i on the same smooth surface
// patch. These feed gradient stencils, which must not reach across a
// potential jump.
func (a *Adjacency) NotAcross(i int) []int { return a.notAcross[i] }

// NumPanels returns the panel count the adjacency was built for.
func (a *Adjacency) NumPanels() int { return len(a.neighbors) }

// ExtractKuttaEdges walks every adjacent panel pair, flags pairs whose
// dihedral angle exceeds threshold (radians), and builds an oriented
// edge from each flagged pair's coincident vertices. Edge vertices are
// stored in the winding order of the lower-indexed panel, which fixes
// the circulation sign of downstream wake elements.
//
// It also partitions each panel's neighbor list into across/not-across
// sets. The partition follows the dihedral test: a flagged pair that
// shares only one vertex forms no edge but still partitions as across.
func ExtractKuttaEdges(panels []geometry.Panel, neighbors [][]int, threshold float64) ([]geometry.KuttaEdge, *Adjacency, error) {
	n := len(panels)
	adj := &Adjacency{
		neighbors: neighbors,
		across:    make([][]int, n),
		notAcross: make([][]int, n),
	}

	var edges []geometry.KuttaEdge
	for i := 0; i < n; i++ {
		for _, j := range neighbors[i] {
			if j <= i {
				continue
			}
			cosTheta := r3.Dot(panels[i].Normal, panels[j].Normal)
			theta := math.Acos(math.Max(-1.0, math.Min(1.0, cosTheta)))
			if theta <= threshold {
				adj.notAcross[i] = append(adj.notAcross[i], j)
				adj.notAcross[j] = append(adj.notAcross[j], i)
				continue
			}
			adj.across[i] = append(adj.across[i], j)
			adj.across[j] = append(adj.across[j], i)

			edge, ok, err := sharedEdge(panels[i], panels[j], i, j)
			if err != nil {
				return nil, nil, err
			}
			if ok {
				edges = append(edges, edge)
			}
		}
	}
	return edges, adj, nil
}

// sharedEdge resolves the coincident vertex pairs between two panels
// and orients the edge along panel i's winding. Fewer than two
// coincident vertices means the panels meet at a point, not an edge.
func sharedEdge(pi, pj geometry.Panel, i, j int) (geometry.KuttaEdge, bool, error) {
	ring := len(pi.Vertices)
	var ringIdx []int
	for ii, vi := range pi.Vertices {
		for _, vj := range pj.Vertices {
			if r3.Norm(r3.Sub(vi, vj)) < coincidentTol {
				ringIdx = append(ringIdx, ii)
				break
			}
		}
	}

	switch {
	case len(ringIdx) < 2:
		return geometry.KuttaEdge{}, false, nil
	case len(ringIdx) > 2:
		return geometry.KuttaEdge{}, false, fmt.Errorf("%w: panels %d and %d share %d coincident vertices", ErrDegenerateEdge, i, j, len(ringIdx))
	}

	a, b := ringIdx[0], ringIdx[1] // a < b by traversal order
	va, vb := pi.Vertices[a], pi.Vertices[b]
	switch {
	case b == a+1:
		// Forward traversal of panel i's ring.
		return geometry.KuttaEdge{V0: va, V1: vb, Panels: [2]int{i, j}}, true, nil
	case a == 0 && b == ring-1:
		// Ring wraparound: (last, 0) is the forward pair.
		return geometry.KuttaEdge{V0: vb, V1: va, Panels: [2]int{i, j}}, true, nil
	default:
		return geometry.KuttaEdge{}, false, fmt.Errorf("%w: panels %d and %d share non-adjacent ring vertices %d and %d", ErrDegenerateEdge, i, j, a, b)
	}
}

// PartitionByEdges builds the across/not-across partition from a
// pre-supplied edge set, for meshes whose Kutta edges come from the
// mesh file rather than a threshold scan.
func PartitionByEdges(neighbors [][]int, edges []geometry.KuttaEdge) *Adjacency {
	n := len(neighbors)
	adj := &Adjacency{
		neighbors: neighbors,
		across:    make([][]int, n),
		notAcross: make([][]int, n),
	}
	paired := make(map[[2]int]bool, len(edges))
	for _, e := range edges {
		paired[e.Panels] = true
	}
	for i := 0; i < n; i++ {
		for _, j := range neighbors[i] {
			lo, hi := i, j
			if lo > hi {
				lo, hi = hi, lo
			}
			if paired[[2]int{lo, hi}] {
				adj.across[i] = append(adj.across[i], j)
			} else {
				adj.notAcross[i] = append(adj.notAcross[i], j)
			}
		}
	}
	return adj
}
