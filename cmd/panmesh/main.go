// Package main provides the mesh-topology and wake-geometry driver:
// it loads a mesh, infers adjacency and Kutta edges, builds the
// configured wake model, evaluates the wake influence at the panel
// control points, and exports VTK geometry for inspection.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopan/config"
	"gopan/mesh"
	"gopan/meshio"
	"gopan/telemetry"
	"gopan/wake"
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	meshPath := flag.String("mesh", "", "Mesh file (.stl or .vtk); overrides config")
	outputDir := flag.String("output", "", "Output directory; overrides config")
	verbose := flag.Bool("verbose", false, "Verbose logging")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	if *meshPath != "" {
		cfg.Mesh.File = *meshPath
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *verbose {
		cfg.Output.Verbose = true
	}
	if cfg.Mesh.File == "" {
		log.Fatal("a mesh file is required (config mesh.file or --mesh)")
	}

	perf := telemetry.NewPerfCollector()

	perf.StartPhase(telemetry.PhaseMeshLoad)
	raw, err := readMesh(cfg.Mesh.File)
	if err != nil {
		log.Fatalf("failed to read mesh: %v", err)
	}

	perf.StartPhase(telemetry.PhaseTopology)
	m, err := mesh.New(raw, mesh.Options{
		FindKuttaEdges: cfg.Mesh.FindKutta,
		KuttaAngle:     cfg.Derived.KuttaAngleRad,
		CG:             cfg.Derived.CG,
		Verbose:        cfg.Output.Verbose,
	})
	if err != nil {
		log.Fatalf("failed to build mesh: %v", err)
	}

	perf.StartPhase(telemetry.PhaseWakeBuild)
	wk, err := buildWake(cfg, m)
	if err != nil {
		log.Fatalf("failed to build wake: %v", err)
	}
	wk.SetFilamentDirection(cfg.Derived.VInf, cfg.Derived.Omega)

	perf.StartPhase(telemetry.PhaseInfluence)
	infl, err := wk.InfluenceMatrix(m.Centroids, m.NumPanels(), cfg.Derived.VInf, cfg.Derived.Omega)
	if err != nil {
		log.Fatalf("failed to evaluate wake influence: %v", err)
	}
	rows, cols := infl.Dims()
	telemetry.Logf("Wake influence: %d points x %d panels", rows, cols)

	if cfg.Output.Dir != "" {
		perf.StartPhase(telemetry.PhaseExport)
		if err := export(cfg, m, wk); err != nil {
			log.Fatalf("failed to export: %v", err)
		}
	}

	if cfg.Output.Verbose {
		perf.Report()
	}
}

// readMesh dispatches on the file extension.
func readMesh(path string) (mesh.Raw, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return meshio.ReadSTL(path)
	case ".vtk":
		return meshio.ReadVTK(path)
	default:
		return mesh.Raw{}, fmt.Errorf("unsupported mesh file type %q", filepath.Ext(path))
	}
}

// buildWake constructs the configured wake variant over the mesh's
// Kutta edges.
func buildWake(cfg *config.Config, m *mesh.Mesh) (wake.Wake, error) {
	switch cfg.Wake.Model {
	case "none", "":
		return wake.None{}, nil
	case "fixed":
		model, err := directionModel(cfg)
		if err != nil {
			return nil, err
		}
		w, err := wake.NewFixed(m.KuttaEdges, model)
		if err != nil {
			return nil, err
		}
		return w, nil
	case "relaxed":
		w, err := wake.NewRelaxed(m.KuttaEdges, wake.RelaxedOptions{
			Segments:            cfg.Wake.Segments,
			SegmentLength:       cfg.Wake.SegmentLength,
			CorrectorIterations: cfg.Wake.CorrectorIterations,
			EndInfinite:         cfg.Wake.EndSegmentInfinite,
		})
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fmt.Errorf("unknown wake model %q", cfg.Wake.Model)
	}
}

// directionModel builds the configured direction variant, validating
// its parameters up front.
func directionModel(cfg *config.Config) (wake.DirectionModel, error) {
	switch cfg.Wake.Direction {
	case "freestream", "":
		return wake.Freestream{}, nil
	case "freestream_constrained":
		m, err := wake.NewFreestreamConstrained(cfg.Derived.NormalDir)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "freestream_and_rotation":
		return wake.FreestreamAndRotation{}, nil
	case "freestream_and_rotation_constrained":
		m, err := wake.NewFreestreamAndRotationConstrained(cfg.Derived.NormalDir)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "custom":
		m, err := wake.NewCustom(cfg.Derived.CustomDir)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown wake direction %q", cfg.Wake.Direction)
	}
}

// export writes mesh and wake geometry plus the effective config into
// the output directory.
func export(cfg *config.Config, m *mesh.Mesh, wk wake.Wake) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := meshio.WriteMeshVTK(filepath.Join(cfg.Output.Dir, "mesh.vtk"), m); err != nil {
		return err
	}
	if _, lines, _ := wk.VTKData(cfg.Output.WakeLength); len(lines) > 0 {
		if err := meshio.WriteWakeVTK(filepath.Join(cfg.Output.Dir, "wake.vtk"), wk, cfg.Output.WakeLength); err != nil {
			return err
		}
	}
	return cfg.WriteYAML(filepath.Join(cfg.Output.Dir, "config.yaml"))
}
