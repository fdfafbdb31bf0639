package meshio

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/spatial/r3"

	"gopan/mesh"
)

// CaseRecord is one panel's row in the tabular case-data export.
type CaseRecord struct {
	CpX  float64 `csv:"cpx"`
	CpY  float64 `csv:"cpy"`
	CpZ  float64 `csv:"cpz"`
	Nx   float64 `csv:"nx"`
	Ny   float64 `csv:"ny"`
	Nz   float64 `csv:"nz"`
	Area float64 `csv:"area"`
	U    float64 `csv:"u"`
	V    float64 `csv:"v"`
	W    float64 `csv:"w"`
	VMag float64 `csv:"V"`
	CP   float64 `csv:"C_P"`
	DFx  float64 `csv:"dFx"`
	DFy  float64 `csv:"dFy"`
	DFz  float64 `csv:"dFz"`
	Circ float64 `csv:"circ"`
}

// WriteCaseData writes solved per-panel results alongside the panel
// geometry as CSV: control point, normal, area, surface velocity,
// pressure coefficient, force contribution, and circulation strength.
func WriteCaseData(path string, m *mesh.Mesh, vel []r3.Vec, cP, mu []float64, dF []r3.Vec) error {
	n := m.NumPanels()
	if len(vel) != n || len(cP) != n || len(dF) != n || len(mu) < n {
		return fmt.Errorf("meshio: case data lengths (v=%d, C_P=%d, dF=%d, mu=%d) do not cover %d panels",
			len(vel), len(cP), len(dF), len(mu), n)
	}

	records := make([]CaseRecord, n)
	for i := 0; i < n; i++ {
		records[i] = CaseRecord{
			CpX:  m.Centroids[i].X,
			CpY:  m.Centroids[i].Y,
			CpZ:  m.Centroids[i].Z,
			Nx:   m.Normals[i].X,
			Ny:   m.Normals[i].Y,
			Nz:   m.Normals[i].Z,
			Area: m.Areas[i],
			U:    vel[i].X,
			V:    vel[i].Y,
			W:    vel[i].Z,
			VMag: r3.Norm(vel[i]),
			CP:   cP[i],
			DFx:  dF[i].X,
			DFy:  dF[i].Y,
			DFz:  dF[i].Z,
			Circ: mu[i],
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("meshio: creating %s: %w", path, err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&records, f); err != nil {
		return fmt.Errorf("meshio: writing case data: %w", err)
	}
	return nil
}
