// Package meshio reads and writes the mesh and result file formats the
// solver exchanges with the outside world: STL and legacy-VTK meshes
// in, VTK geometry and CSV case data out.
package meshio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"

	"gopan/mesh"
	"gopan/telemetry"
)

// stlRecordSize is the byte size of one binary STL facet record:
// normal + 3 vertices as float32 triples, plus the attribute word.
const stlRecordSize = 50

// ReadSTL reads an STL file (ASCII or binary, auto-detected) into raw
// mesh data. Zero-area facets are skipped with a warning, matching the
// downstream requirement that no panel have zero area. Vertices are
// not deduplicated here; mesh.New handles that.
func ReadSTL(path string) (mesh.Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return mesh.Raw{}, fmt.Errorf("meshio: reading %s: %w", path, err)
	}
	if isASCIISTL(data) {
		return parseASCIISTL(data)
	}
	return parseBinarySTL(data)
}

// isASCIISTL detects the ASCII variant. The "solid" prefix alone is not
// enough (binary exporters write it too), so the body is checked for a
// facet keyword.
func isASCIISTL(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.HasPrefix(bytes.TrimSpace(head), []byte("solid")) && bytes.Contains(head, []byte("facet"))
}

func parseASCIISTL(data []byte) (mesh.Raw, error) {
	var raw mesh.Raw
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Split(bufio.ScanWords)

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}
	readFloat := func() (float64, error) {
		w, ok := next()
		if !ok {
			return 0, fmt.Errorf("meshio: unexpected end of ASCII STL")
		}
		return strconv.ParseFloat(w, 64)
	}
	readVec := func() (r3.Vec, error) {
		x, err := readFloat()
		if err != nil {
			return r3.Vec{}, err
		}
		y, err := readFloat()
		if err != nil {
			return r3.Vec{}, err
		}
		z, err := readFloat()
		if err != nil {
			return r3.Vec{}, err
		}
		return r3.Vec{X: x, Y: y, Z: z}, nil
	}

	facet := 0
	for {
		w, ok := next()
		if !ok {
			break
		}
		if w != "facet" {
			continue
		}
		// facet normal nx ny nz
		if w, ok = next(); !ok || w != "normal" {
			return mesh.Raw{}, fmt.Errorf("meshio: malformed facet %d in ASCII STL", facet)
		}
		if _, err := readVec(); err != nil {
			return mesh.Raw{}, fmt.Errorf("meshio: facet %d normal: %w", facet, err)
		}
		// outer loop
		next()
		next()
		var tri [3]r3.Vec
		for k := 0; k < 3; k++ {
			if w, ok = next(); !ok || w != "vertex" {
				return mesh.Raw{}, fmt.Errorf("meshio: malformed vertex in facet %d", facet)
			}
			v, err := readVec()
			if err != nil {
				return mesh.Raw{}, fmt.Errorf("meshio: facet %d vertex %d: %w", facet, k, err)
			}
			tri[k] = v
		}
		appendFacet(&raw, tri, facet)
		facet++
	}
	return raw, nil
}

func parseBinarySTL(data []byte) (mesh.Raw, error) {
	if len(data) < 84 {
		return mesh.Raw{}, fmt.Errorf("meshio: binary STL truncated: %d bytes", len(data))
	}
	count := binary.LittleEndian.Uint32(data[80:84])
	if int64(len(data)) < 84+int64(count)*stlRecordSize {
		return mesh.Raw{}, fmt.Errorf("meshio: binary STL claims %d facets but is %d bytes", count, len(data))
	}

	var raw mesh.Raw
	off := 84
	for i := 0; i < int(count); i++ {
		rec := data[off : off+stlRecordSize]
		var tri [3]r3.Vec
		for k := 0; k < 3; k++ {
			base := 12 + 12*k // skip the normal triple
			tri[k] = r3.Vec{
				X: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[base:]))),
				Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[base+4:]))),
				Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[base+8:]))),
			}
		}
		appendFacet(&raw, tri, i)
		off += stlRecordSize
	}
	return raw, nil
}

// appendFacet adds a triangle to the raw mesh, dropping degenerate
// facets so zero-area panels never reach mesh construction.
func appendFacet(raw *mesh.Raw, tri [3]r3.Vec, facet int) {
	cross := r3.Cross(r3.Sub(tri[1], tri[0]), r3.Sub(tri[2], tri[0]))
	if r3.Norm(cross) < 2e-10 {
		telemetry.Logf("Warning: facet %d has zero area, skipping", facet)
		return
	}
	base := len(raw.Vertices)
	raw.Vertices = append(raw.Vertices, tri[0], tri[1], tri[2])
	raw.PanelVerts = append(raw.PanelVerts, []int{base, base + 1, base + 2})
}
