package agg

import (
	"time"

	"github.com/san-kum/aglogen/internal/geom"
	"github.com/san-kum/aglogen/internal/metrics"
)

// Status tracks the lifecycle of a run.
type Status string

const (
	StatusGrowing   Status = "growing"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Particle is one deposited primary particle. Index is the 1-based
// deposition order; indices in a finished aggregate are contiguous.
type Particle struct {
	Index    int       `json:"index"`
	Position geom.Vec3 `json:"position"`
	Radius   float64   `json:"radius"`
}

// Summary collects the derived morphology measurements of one aggregate.
type Summary struct {
	Df               float64 `json:"df"`
	DfStdErr         float64 `json:"df_std_err"`
	Kf               float64 `json:"kf"`
	R2               float64 `json:"r2"`
	Rg               float64 `json:"rg"`
	Porosity         float64 `json:"porosity"`
	CoordinationMean float64 `json:"coordination_mean"`
	CoordinationStd  float64 `json:"coordination_std"`
	Components       int     `json:"components"`

	// PrincipalMoments are the inertia-tensor eigenvalues, ascending;
	// PrincipalAxes[i] is the unit eigenvector of PrincipalMoments[i].
	PrincipalMoments [3]float64    `json:"principal_moments"`
	PrincipalAxes    [3][3]float64 `json:"principal_axes"`
	Anisotropy       float64       `json:"anisotropy"`
	Asphericity      float64       `json:"asphericity"`
	Acylindricity    float64       `json:"acylindricity"`
}

// Result is a finished simulation run.
type Result struct {
	Params    Params             `json:"params"`
	Status    Status             `json:"status"`
	Particles []Particle         `json:"particles"`
	RgTrace   []metrics.RgSample `json:"rg_trace"`
	Summary   Summary            `json:"summary"`
	Elapsed   time.Duration      `json:"elapsed"`
}

// Spheres returns the particle geometry, in deposition order.
func (r *Result) Spheres() []geom.Sphere {
	spheres := make([]geom.Sphere, len(r.Particles))
	for i, p := range r.Particles {
		spheres[i] = geom.NewSphere(p.Position, p.Radius)
	}
	return spheres
}

// MeanRadius returns the arithmetic mean primary particle radius.
func (r *Result) MeanRadius() float64 {
	if len(r.Particles) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range r.Particles {
		sum += p.Radius
	}
	return sum / float64(len(r.Particles))
}

// recorder accumulates particles in deposition order and maintains the
// growth trace. The recorded radius of gyration is clamped to its running
// maximum so the trace is non-decreasing even when an interior adhesion
// momentarily shrinks Rg.
type recorder struct {
	particles []Particle
	trace     []metrics.RgSample
	acc       metrics.RgAccumulator
	maxRg     float64

	// checkpoint, when set, restricts trace samples to selected counts.
	checkpoint map[int]bool
}

func newRecorder(n int) *recorder {
	return &recorder{
		particles: make([]Particle, 0, n),
		trace:     make([]metrics.RgSample, 0, n),
	}
}

func (r *recorder) deposit(s geom.Sphere) {
	r.particles = append(r.particles, Particle{
		Index:    len(r.particles) + 1,
		Position: s.Center,
		Radius:   s.Radius,
	})
	r.acc.Add(s)
	if rg := r.acc.Rg(); rg > r.maxRg {
		r.maxRg = rg
	}
	n := len(r.particles)
	if r.checkpoint == nil || r.checkpoint[n] {
		r.trace = append(r.trace, metrics.RgSample{N: n, Rg: r.maxRg})
	}
}

func (r *recorder) count() int  { return len(r.particles) }
func (r *recorder) rg() float64 { return r.maxRg }
