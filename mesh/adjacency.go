package mesh

import "sort"

// BuildAdjacency returns, for each panel, the sorted indices of all
// panels sharing at least one vertex with it. panelVerts holds each
// panel's vertex indices into a deduplicated pool of nVerts vertices.
//
// The result is symmetric (j in adj[i] iff i in adj[j]) and lists each
// neighbor once. An inverted vertex->panels index keeps the cost near
// linear in mesh size; buildAdjacencyBrute is the quadratic reference
// with the identical contract.
func BuildAdjacency(panelVerts [][]int, nVerts int) [][]int {
	byVertex := make([][]int, nVerts)
	for i, verts := range panelVerts {
		for _, v := range verts {
			byVertex[v] = append(byVertex[v], i)
		}
	}

	n := len(panelVerts)
	adj := make([][]int, n)
	// seen[j] == i+1 marks j already recorded as a neighbor of i.
	seen := make([]int, n)
	for i, verts := range panelVerts {
		for _, v := range verts {
			for _, j := range byVertex[v] {
				if j == i || seen[j] == i+1 {
					continue
				}
				seen[j] = i + 1
				adj[i] = append(adj[i], j)
			}
		}
		sort.Ints(adj[i])
	}
	return adj
}

// buildAdjacencyBrute is the O(N^2) pairwise reference implementation.
func buildAdjacencyBrute(panelVerts [][]int) [][]int {
	n := len(panelVerts)
	adj := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if sharesVertex(panelVerts[i], panelVerts[j]) {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}
	for i := range adj {
		sort.Ints(adj[i])
	}
	return adj
}

func sharesVertex(a, b []int) bool {
	for _, va := range a {
		for _, vb := range b {
			if va == vb {
				return true
			}
		}
	}
	return false
}
