package telemetry

import (
	"time"
)

// Phase names for a solver run.
const (
	PhaseMeshLoad  = "mesh_load"
	PhaseTopology  = "topology"
	PhaseWakeBuild = "wake_build"
	PhaseInfluence = "influence"
	PhaseWakeRelax = "wake_relax"
	PhaseExport    = "export"
)

// PerfCollector accumulates named phase timings for a batch run.
// Phases may repeat; repeated phases accumulate.
type PerfCollector struct {
	order      []string
	totals     map[string]time.Duration
	phaseStart time.Time
	lastPhase  string
	runStart   time.Time
}

// NewPerfCollector creates an empty collector and starts the run clock.
func NewPerfCollector() *PerfCollector {
	return &PerfCollector{
		totals:   make(map[string]time.Duration),
		runStart: time.Now(),
	}
}

// StartPhase begins timing a phase, ending the previous one if any.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.record(p.lastPhase, now.Sub(p.phaseStart))
	}
	p.phaseStart = now
	p.lastPhase = name
}

// End finishes the current phase.
func (p *PerfCollector) End() {
	if p.lastPhase != "" {
		p.record(p.lastPhase, time.Since(p.phaseStart))
		p.lastPhase = ""
	}
}

func (p *PerfCollector) record(name string, d time.Duration) {
	if _, seen := p.totals[name]; !seen {
		p.order = append(p.order, name)
	}
	p.totals[name] += d
}

// Total returns the wall time since the collector was created.
func (p *PerfCollector) Total() time.Duration {
	return time.Since(p.runStart)
}

// Phase returns the accumulated duration of a named phase.
func (p *PerfCollector) Phase(name string) time.Duration {
	return p.totals[name]
}

// Report logs each phase's share of the run.
func (p *PerfCollector) Report() {
	p.End()
	total := p.Total()
	Logf("=== Run time: %s ===", total.Round(time.Microsecond))
	for _, name := range p.order {
		d := p.totals[name]
		pct := float64(0)
		if total > 0 {
			pct = float64(d) / float64(total) * 100
		}
		Logf("  %-12s %12s  %5.1f%%", name, d.Round(time.Microsecond), pct)
	}
}
