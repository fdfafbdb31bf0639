package meshio

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"gopan/mesh"
	"gopan/wake"
)

// WriteMeshVTK exports a mesh as legacy ASCII VTK polydata with panel
// area, centroid, and normal cell data, and any Kutta edges as LINES.
// The filename must carry the .vtk extension.
func WriteMeshVTK(path string, m *mesh.Mesh) error {
	if !strings.HasSuffix(path, ".vtk") {
		return fmt.Errorf("meshio: VTK export requires .vtk extension, got %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("meshio: creating %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	writeVTKHeader(w, "gopan mesh file")

	verts, cells := m.VTKData()
	writePoints(w, verts)

	size := 0
	for _, c := range cells {
		size += len(c)
	}
	fmt.Fprintf(w, "POLYGONS %d %d\n", len(cells), size)
	for _, c := range cells {
		writeCell(w, c)
	}

	if len(m.KuttaEdges) > 0 {
		// Edge endpoints live in the same pool as the panel vertices;
		// match them by exact position.
		index := make(map[r3.Vec]int, len(verts))
		for i, v := range verts {
			index[v] = i
		}
		fmt.Fprintf(w, "LINES %d %d\n", len(m.KuttaEdges), 3*len(m.KuttaEdges))
		for _, e := range m.KuttaEdges {
			writeCell(w, []int{2, index[e.V0], index[e.V1]})
		}
	}

	fmt.Fprintf(w, "CELL_DATA %d\n", m.NumPanels())
	fmt.Fprintln(w, "SCALARS panel_area float 1")
	fmt.Fprintln(w, "LOOKUP_TABLE default")
	for _, a := range m.Areas {
		fmt.Fprintf(w, "%-20.12g\n", a)
	}
	fmt.Fprintln(w, "VECTORS panel_centroids float")
	for _, c := range m.Centroids {
		writeVec(w, c)
	}
	fmt.Fprintln(w, "NORMALS panel_normals float")
	for _, n := range m.Normals {
		writeVec(w, n)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("meshio: writing %s: %w", path, err)
	}
	return nil
}

// WriteWakeVTK exports wake filament geometry as VTK polydata lines.
// length sizes filament segments of notional infinite extent.
func WriteWakeVTK(path string, wk wake.Wake, length float64) error {
	if !strings.HasSuffix(path, ".vtk") {
		return fmt.Errorf("meshio: VTK export requires .vtk extension, got %s", path)
	}
	verts, lines, _ := wk.VTKData(length)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("meshio: creating %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	writeVTKHeader(w, "gopan wake file")
	writePoints(w, verts)

	size := 0
	for _, l := range lines {
		size += len(l)
	}
	fmt.Fprintf(w, "LINES %d %d\n", len(lines), size)
	for _, l := range lines {
		writeCell(w, l)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("meshio: writing %s: %w", path, err)
	}
	return nil
}

func writeVTKHeader(w *bufio.Writer, title string) {
	fmt.Fprintln(w, "# vtk DataFile Version 3.0")
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "ASCII")
	fmt.Fprintln(w, "DATASET POLYDATA")
}

func writePoints(w *bufio.Writer, verts []r3.Vec) {
	fmt.Fprintf(w, "POINTS %d float\n", len(verts))
	for _, v := range verts {
		writeVec(w, v)
	}
}

func writeVec(w *bufio.Writer, v r3.Vec) {
	fmt.Fprintf(w, "%-20.12g %-20.12g %-20.12g\n", v.X, v.Y, v.Z)
}

func writeCell(w *bufio.Writer, cell []int) {
	for i, c := range cell {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}
