package meshio

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"

	"gopan/mesh"
)

// Cell-data array names used in solver VTK files.
const (
	arrayPanelArea      = "panel_area"
	arrayPanelCentroids = "panel_centroids"
	arrayPanelNormals   = "panel_normals"
)

// tokens walks a VTK file word by word.
type tokens struct {
	sc *bufio.Scanner
}

func (t *tokens) next() (string, bool) {
	if !t.sc.Scan() {
		return "", false
	}
	return t.sc.Text(), true
}

func (t *tokens) mustNext() (string, error) {
	w, ok := t.next()
	if !ok {
		return "", fmt.Errorf("meshio: unexpected end of VTK file")
	}
	return w, nil
}

func (t *tokens) int() (int, error) {
	w, err := t.mustNext()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(w)
}

func (t *tokens) float() (float64, error) {
	w, err := t.mustNext()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(w, 64)
}

func (t *tokens) vec() (r3.Vec, error) {
	x, err := t.float()
	if err != nil {
		return r3.Vec{}, err
	}
	y, err := t.float()
	if err != nil {
		return r3.Vec{}, err
	}
	z, err := t.float()
	if err != nil {
		return r3.Vec{}, err
	}
	return r3.Vec{X: x, Y: y, Z: z}, nil
}

func (t *tokens) skip(n int) error {
	for i := 0; i < n; i++ {
		if _, err := t.mustNext(); err != nil {
			return err
		}
	}
	return nil
}

// ReadVTK reads a legacy ASCII VTK polydata mesh: POINTS and POLYGONS
// define the panels, LINES (if present) list pre-supplied Kutta edges
// as vertex pairs, and CELL_DATA arrays named panel_area,
// panel_centroids, and panel_normals carry precomputed panel data.
// Unknown cell-data arrays are skipped.
func ReadVTK(path string) (mesh.Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return mesh.Raw{}, fmt.Errorf("meshio: reading %s: %w", path, err)
	}

	// Skip the two header lines (version comment and title) before
	// word-tokenizing; a free-text title could contain keywords.
	for i := 0; i < 2; i++ {
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			data = data[idx+1:]
		}
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)
	t := &tokens{sc: sc}

	var raw mesh.Raw
	for {
		w, ok := t.next()
		if !ok {
			break
		}
		switch w {
		case "POINTS":
			n, err := t.int()
			if err != nil {
				return mesh.Raw{}, fmt.Errorf("meshio: POINTS count: %w", err)
			}
			if _, err := t.mustNext(); err != nil { // dtype
				return mesh.Raw{}, err
			}
			raw.Vertices = make([]r3.Vec, n)
			for i := 0; i < n; i++ {
				if raw.Vertices[i], err = t.vec(); err != nil {
					return mesh.Raw{}, fmt.Errorf("meshio: POINTS entry %d: %w", i, err)
				}
			}
		case "POLYGONS":
			n, err := t.int()
			if err != nil {
				return mesh.Raw{}, fmt.Errorf("meshio: POLYGONS count: %w", err)
			}
			if _, err := t.int(); err != nil { // list size
				return mesh.Raw{}, err
			}
			raw.PanelVerts = make([][]int, n)
			for i := 0; i < n; i++ {
				k, err := t.int()
				if err != nil {
					return mesh.Raw{}, fmt.Errorf("meshio: polygon %d: %w", i, err)
				}
				cell := make([]int, k)
				for j := 0; j < k; j++ {
					if cell[j], err = t.int(); err != nil {
						return mesh.Raw{}, fmt.Errorf("meshio: polygon %d vertex %d: %w", i, j, err)
					}
				}
				raw.PanelVerts[i] = cell
			}
		case "LINES":
			n, err := t.int()
			if err != nil {
				return mesh.Raw{}, fmt.Errorf("meshio: LINES count: %w", err)
			}
			if _, err := t.int(); err != nil {
				return mesh.Raw{}, err
			}
			for i := 0; i < n; i++ {
				k, err := t.int()
				if err != nil {
					return mesh.Raw{}, fmt.Errorf("meshio: line %d: %w", i, err)
				}
				if k != 2 {
					return mesh.Raw{}, fmt.Errorf("meshio: line %d has %d vertices, Kutta edges must have 2", i, k)
				}
				a, err := t.int()
				if err != nil {
					return mesh.Raw{}, err
				}
				b, err := t.int()
				if err != nil {
					return mesh.Raw{}, err
				}
				raw.KuttaEdges = append(raw.KuttaEdges, [2]int{a, b})
			}
		case "CELL_DATA":
			n, err := t.int()
			if err != nil {
				return mesh.Raw{}, fmt.Errorf("meshio: CELL_DATA count: %w", err)
			}
			if err := readCellData(t, n, &raw); err != nil {
				return mesh.Raw{}, err
			}
		}
	}

	if len(raw.Vertices) == 0 || len(raw.PanelVerts) == 0 {
		return mesh.Raw{}, fmt.Errorf("meshio: %s has no POINTS/POLYGONS data", path)
	}
	return raw, nil
}

// readCellData consumes cell-data arrays until the token stream ends or
// an unrecognized section keyword appears.
func readCellData(t *tokens, n int, raw *mesh.Raw) error {
	for {
		w, ok := t.next()
		if !ok {
			return nil
		}
		switch w {
		case "SCALARS":
			name, err := t.mustNext()
			if err != nil {
				return err
			}
			if _, err := t.mustNext(); err != nil { // dtype
				return err
			}
			// Optional component count, then LOOKUP_TABLE <name>.
			comps := 1
			w, err := t.mustNext()
			if err != nil {
				return err
			}
			if w != "LOOKUP_TABLE" {
				if comps, err = strconv.Atoi(w); err != nil {
					return fmt.Errorf("meshio: SCALARS %s: bad component count %q", name, w)
				}
				if w, err = t.mustNext(); err != nil {
					return err
				}
			}
			if w != "LOOKUP_TABLE" {
				return fmt.Errorf("meshio: SCALARS %s: expected LOOKUP_TABLE, got %q", name, w)
			}
			if _, err = t.mustNext(); err != nil { // table name
				return err
			}
			if name == arrayPanelArea && comps == 1 {
				raw.Areas = make([]float64, n)
				for i := 0; i < n; i++ {
					if raw.Areas[i], err = t.float(); err != nil {
						return fmt.Errorf("meshio: %s entry %d: %w", name, i, err)
					}
				}
			} else if err := t.skip(n * comps); err != nil {
				return err
			}
		case "VECTORS", "NORMALS":
			name, err := t.mustNext()
			if err != nil {
				return err
			}
			if _, err := t.mustNext(); err != nil { // dtype
				return err
			}
			var dst *[]r3.Vec
			switch name {
			case arrayPanelCentroids:
				dst = &raw.Centroids
			case arrayPanelNormals:
				dst = &raw.Normals
			}
			if dst == nil {
				if err := t.skip(3 * n); err != nil {
					return err
				}
				continue
			}
			*dst = make([]r3.Vec, n)
			for i := 0; i < n; i++ {
				if (*dst)[i], err = t.vec(); err != nil {
					return fmt.Errorf("meshio: %s entry %d: %w", name, i, err)
				}
			}
		default:
			// Not a cell-data keyword; nothing else follows in the
			// files we write, so stop here.
			return nil
		}
	}
}
