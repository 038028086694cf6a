package agg

import "fmt"

// Algorithm selects the aggregation mechanism.
type Algorithm string

const (
	// DLA grows one aggregate by diffusion-limited random walks.
	DLA Algorithm = "dla"
	// CCA merges clusters pairwise until one remains.
	CCA Algorithm = "cca"
	// Ballistic grows one aggregate by straight-line particle trajectories.
	Ballistic Algorithm = "ballistic"
	// BallisticCC merges clusters pairwise along straight trajectories.
	BallisticCC Algorithm = "ballistic_cc"
	// Tunable places each particle to track a prescribed fractal scaling.
	Tunable Algorithm = "tunable"
	// Limiting generates deterministic reference geometries with known
	// fractal dimension.
	Limiting Algorithm = "limiting"
)

// Algorithms lists every supported mechanism, in presentation order.
func Algorithms() []Algorithm {
	return []Algorithm{DLA, CCA, Ballistic, BallisticCC, Tunable, Limiting}
}

// Geometry names a deterministic limiting-case arrangement.
type Geometry string

const (
	// One-dimensional arrangements, Df = 1.
	GeomChain   Geometry = "chain"
	GeomCross2D Geometry = "cross2d"
	GeomCross3D Geometry = "cross3d"

	// Two-dimensional arrangements, Df = 2.
	GeomPlane       Geometry = "plane"
	GeomDoublePlane Geometry = "double_plane"
	GeomTriplePlane Geometry = "triple_plane"

	// Three-dimensional packings, Df = 3.
	GeomCuboctahedron Geometry = "cuboctahedron"
	GeomSimpleCubic   Geometry = "simple_cubic"
	GeomFCC           Geometry = "fcc"
)

// Geometries lists every supported limiting-case arrangement.
func Geometries() []Geometry {
	return []Geometry{
		GeomChain, GeomCross2D, GeomCross3D,
		GeomPlane, GeomDoublePlane, GeomTriplePlane,
		GeomCuboctahedron, GeomSimpleCubic, GeomFCC,
	}
}

// PairSelection chooses how cluster-cluster algorithms pick merge partners.
type PairSelection string

const (
	// SelectUniform picks any two distinct clusters with equal probability.
	SelectUniform PairSelection = "uniform"
	// SelectMobility favors small clusters, which diffuse faster.
	SelectMobility PairSelection = "mobility"
)

// Params configures a single simulation run. Fields apply per algorithm;
// Validate rejects combinations the selected algorithm cannot honor.
type Params struct {
	Algorithm Algorithm `yaml:"algorithm" json:"algorithm"`

	// N is the number of primary particles in the finished aggregate.
	// Limiting-case geometries built from complete shells may round it up
	// to the next complete figure.
	N int `yaml:"n" json:"n"`

	// Seed drives the run's private random stream. Equal seeds with equal
	// parameters reproduce runs bit for bit.
	Seed int64 `yaml:"seed" json:"seed"`

	// RadiusMin and RadiusMax bound the primary particle radius. Equal
	// values give a monodisperse aggregate.
	RadiusMin float64 `yaml:"radius_min" json:"radius_min"`
	RadiusMax float64 `yaml:"radius_max" json:"radius_max"`

	// StickingProbability is the chance that a geometric contact becomes
	// an adhesion. Applies to DLA and Ballistic.
	StickingProbability float64 `yaml:"sticking_probability" json:"sticking_probability"`

	// LaunchFactor scales the launch radius relative to the cluster
	// radius of gyration. EscapeFactor scales the kill radius relative to
	// the launch radius. DLA only.
	LaunchFactor float64 `yaml:"launch_factor" json:"launch_factor"`
	EscapeFactor float64 `yaml:"escape_factor" json:"escape_factor"`

	// MaxWalkSteps bounds one random walk; MaxAttempts bounds consecutive
	// failed placements before the run reports non-convergence.
	MaxWalkSteps int `yaml:"max_walk_steps" json:"max_walk_steps"`
	MaxAttempts  int `yaml:"max_attempts" json:"max_attempts"`

	// Selection picks merge partners for CCA.
	Selection PairSelection `yaml:"selection,omitempty" json:"selection,omitempty"`

	// TargetDf and TargetKf prescribe the scaling law for Tunable.
	TargetDf float64 `yaml:"target_df,omitempty" json:"target_df,omitempty"`
	TargetKf float64 `yaml:"target_kf,omitempty" json:"target_kf,omitempty"`

	// MaxRotations bounds the candidate-orientation search per particle
	// in Tunable.
	MaxRotations int `yaml:"max_rotations,omitempty" json:"max_rotations,omitempty"`

	// Geometry selects the limiting-case arrangement.
	Geometry Geometry `yaml:"geometry,omitempty" json:"geometry,omitempty"`

	// Sintering controls the inter-particle overlap at adhesion.
	Sintering Sintering `yaml:"sintering" json:"sintering"`
}

// DefaultParams returns a runnable configuration for the given algorithm.
func DefaultParams(alg Algorithm) Params {
	p := Params{
		Algorithm:           alg,
		N:                   200,
		Seed:                1,
		RadiusMin:           1,
		RadiusMax:           1,
		StickingProbability: 1,
		LaunchFactor:        2,
		EscapeFactor:        3,
		MaxWalkSteps:        200_000,
		MaxAttempts:         20_000,
		Selection:           SelectMobility,
		MaxRotations:        25,
		Sintering:           NoSintering(),
	}
	switch alg {
	case Tunable:
		p.TargetDf = 1.8
		p.TargetKf = 1.3
	case Limiting:
		p.Geometry = GeomChain
		p.N = 50
	}
	return p
}

// Validate reports the first parameter inconsistency found, wrapped in
// ErrInvalidParameter.
func (p Params) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
	}

	switch p.Algorithm {
	case DLA, CCA, Ballistic, BallisticCC, Tunable, Limiting:
	default:
		return bad("unknown algorithm %q", p.Algorithm)
	}
	if p.N < 1 {
		return bad("n must be positive, got %d", p.N)
	}
	if p.RadiusMin <= 0 || p.RadiusMax <= 0 {
		return bad("radii must be positive, got [%g, %g]", p.RadiusMin, p.RadiusMax)
	}
	if p.RadiusMin > p.RadiusMax {
		return bad("radius_min %g exceeds radius_max %g", p.RadiusMin, p.RadiusMax)
	}
	if err := p.Sintering.validate(); err != nil {
		return err
	}

	switch p.Algorithm {
	case DLA, Ballistic:
		if p.StickingProbability <= 0 || p.StickingProbability > 1 {
			return bad("sticking probability must be in (0, 1], got %g", p.StickingProbability)
		}
		if p.MaxAttempts < 1 {
			return bad("max_attempts must be positive, got %d", p.MaxAttempts)
		}
		if p.Algorithm == DLA {
			if p.LaunchFactor < 1 {
				return bad("launch_factor must be at least 1, got %g", p.LaunchFactor)
			}
			if p.EscapeFactor <= 1 {
				return bad("escape_factor must exceed 1, got %g", p.EscapeFactor)
			}
			if p.MaxWalkSteps < 1 {
				return bad("max_walk_steps must be positive, got %d", p.MaxWalkSteps)
			}
		}
	case CCA, BallisticCC:
		if p.MaxAttempts < 1 {
			return bad("max_attempts must be positive, got %d", p.MaxAttempts)
		}
		if p.Sintering.Mode != SinterNone {
			return bad("cluster-cluster merging places clusters at exact touch; sintering is not supported")
		}
		if p.Algorithm == CCA {
			switch p.Selection {
			case SelectUniform, SelectMobility:
			default:
				return bad("unknown pair selection %q", p.Selection)
			}
		}
	case Tunable:
		if p.TargetDf < 1 || p.TargetDf > 3 {
			return bad("target_df must be in [1, 3], got %g", p.TargetDf)
		}
		if p.TargetKf <= 0 {
			return bad("target_kf must be positive, got %g", p.TargetKf)
		}
		if p.MaxRotations < 1 {
			return bad("max_rotations must be positive, got %d", p.MaxRotations)
		}
		if p.RadiusMin != p.RadiusMax {
			return bad("tunable aggregation is monodisperse; radius bounds must match")
		}
	case Limiting:
		valid := false
		for _, g := range Geometries() {
			if g == p.Geometry {
				valid = true
				break
			}
		}
		if !valid {
			return bad("unknown geometry %q", p.Geometry)
		}
		if p.RadiusMin != p.RadiusMax {
			return bad("limiting geometries are monodisperse; radius bounds must match")
		}
		if p.Sintering.Mode != SinterNone && p.Sintering.Mode != SinterFixed {
			return bad("limiting geometries require a fixed sintering coefficient")
		}
	}
	return nil
}
