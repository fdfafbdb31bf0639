// Package config provides configuration loading and access for panel
// and wake runs.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all run configuration parameters.
type Config struct {
	Mesh   MeshConfig   `yaml:"mesh"`
	Flow   FlowConfig   `yaml:"flow"`
	Wake   WakeConfig   `yaml:"wake"`
	Output OutputConfig `yaml:"output"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// MeshConfig holds mesh source and topology parameters.
type MeshConfig struct {
	File          string    `yaml:"file"`        // Mesh file path (.stl or .vtk)
	FindKutta     bool      `yaml:"find_kutta"`  // Scan for Kutta edges; false with no file edges means no wake
	KuttaAngleDeg float64   `yaml:"kutta_angle"` // Dihedral threshold in degrees
	CG            []float64 `yaml:"cg"`          // Center of gravity, mesh coordinates
}

// FlowConfig holds the flow condition.
type FlowConfig struct {
	Velocity []float64 `yaml:"velocity"` // Freestream velocity vector
	Omega    []float64 `yaml:"omega"`    // Body-fixed rotation rates
}

// WakeConfig holds wake model parameters.
type WakeConfig struct {
	Model               string    `yaml:"model"`                // none, fixed, relaxed
	Direction           string    `yaml:"direction"`            // freestream, freestream_constrained, freestream_and_rotation, freestream_and_rotation_constrained, custom
	NormalDir           []float64 `yaml:"normal_dir"`           // Constraint-plane normal for constrained directions
	CustomDir           []float64 `yaml:"custom_dir"`           // Fixed direction for the custom model
	Segments            int       `yaml:"segments"`             // Relaxed: stations per filament
	SegmentLength       float64   `yaml:"segment_length"`       // Relaxed: station spacing
	CorrectorIterations int       `yaml:"corrector_iterations"` // Relaxed: corrector passes per station
	EndSegmentInfinite  bool      `yaml:"end_segment_infinite"` // Relaxed: treat terminal segment as semi-infinite
}

// OutputConfig holds export parameters.
type OutputConfig struct {
	Dir        string  `yaml:"dir"`         // Output directory ("" = no file output)
	WakeLength float64 `yaml:"wake_length"` // Drawn length of infinite filament segments
	Verbose    bool    `yaml:"verbose"`
}

// DerivedConfig holds values computed from the loaded configuration.
type DerivedConfig struct {
	KuttaAngleRad float64
	CG            r3.Vec
	VInf          r3.Vec
	Omega         r3.Vec
	NormalDir     r3.Vec
	CustomDir     r3.Vec
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.KuttaAngleRad = c.Mesh.KuttaAngleDeg * math.Pi / 180.0

	var err error
	if c.Derived.CG, err = asVec(c.Mesh.CG, "mesh.cg"); err != nil {
		return err
	}
	if c.Derived.VInf, err = asVec(c.Flow.Velocity, "flow.velocity"); err != nil {
		return err
	}
	if c.Derived.Omega, err = asVec(c.Flow.Omega, "flow.omega"); err != nil {
		return err
	}
	if c.Derived.NormalDir, err = asVec(c.Wake.NormalDir, "wake.normal_dir"); err != nil {
		return err
	}
	if c.Derived.CustomDir, err = asVec(c.Wake.CustomDir, "wake.custom_dir"); err != nil {
		return err
	}
	return nil
}

func asVec(v []float64, field string) (r3.Vec, error) {
	switch len(v) {
	case 0:
		return r3.Vec{}, nil
	case 3:
		return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
	default:
		return r3.Vec{}, fmt.Errorf("config: %s must have 3 components, got %d", field, len(v))
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
