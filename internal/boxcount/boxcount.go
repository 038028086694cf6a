// Package boxcount measures the surface fractal dimension of an
// aggregate by multiscale box counting. Sphere surfaces are sampled with
// a deterministic Fibonacci lattice, sample points are voxelized through
// Morton codes, and the box-count curve is fit over an automatically
// detected linear region.
package boxcount

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/aglogen/internal/geom"
)

var (
	// ErrInvalidParameter indicates out-of-range analysis settings.
	ErrInvalidParameter = errors.New("boxcount: invalid parameter")

	// ErrCancelled indicates the analysis honored a cooperative abort.
	ErrCancelled = errors.New("boxcount: analysis cancelled")
)

// Params configures one analysis.
type Params struct {
	// SurfacePoints is the number of sample points per sphere.
	SurfacePoints int `yaml:"surface_points" json:"surface_points"`

	// Precision is the finest subdivision depth in bits per axis.
	Precision int `yaml:"precision" json:"precision"`

	// ExcludeFinest forces that many of the finest scales out of the fit,
	// overriding the automatic detector. Fine scales resolve individual
	// sphere surfaces and read as voxelization noise. Zero leaves the
	// exclusion to the detector.
	ExcludeFinest int `yaml:"exclude_finest" json:"exclude_finest"`

	// AutoRegion enables automatic linear-region detection.
	AutoRegion bool `yaml:"auto_region" json:"auto_region"`
}

// DefaultParams returns the standard analysis configuration.
func DefaultParams() Params {
	return Params{
		SurfacePoints: 64,
		Precision:     18,
		AutoRegion:    true,
	}
}

func (p Params) validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
	}
	if p.SurfacePoints < 4 {
		return bad("surface_points must be at least 4, got %d", p.SurfacePoints)
	}
	if p.Precision < 2 || p.Precision > MaxPrecision {
		return bad("precision must be in [2, %d], got %d", MaxPrecision, p.Precision)
	}
	if p.ExcludeFinest < 0 {
		return bad("exclude_finest must be non-negative, got %d", p.ExcludeFinest)
	}
	return nil
}

// Level is the box count at one subdivision scale.
type Level struct {
	// BoxSize is the box edge length in input units.
	BoxSize float64 `json:"box_size"`
	// Count is the number of occupied boxes.
	Count int `json:"count"`
}

// Result is one finished analysis. When fewer than two usable scales
// exist the result is zero-valued with Reliable false; that is a report,
// not an error.
type Result struct {
	Df        float64 `json:"df"`
	Intercept float64 `json:"intercept"`
	StdErr    float64 `json:"std_err"`
	CI95      float64 `json:"ci95"`
	R2        float64 `json:"r2"`
	Levels    []Level `json:"levels"`

	// Residuals[i] is the log-space residual of Levels[i] against the
	// final fit, reported for excluded levels too.
	Residuals []float64 `json:"residuals"`

	// Used bounds the fitted linear region: Levels[:Used] entered the
	// fit, Levels[Used:] are the fine scales excluded as voxelization
	// noise. Excluded is their count.
	Used     int  `json:"used"`
	Excluded int  `json:"excluded"`
	Reliable bool `json:"reliable"`
}

// Analyze measures the box-counting dimension of the sphere surfaces.
func Analyze(ctx context.Context, spheres []geom.Sphere, p Params) (Result, error) {
	if err := p.validate(); err != nil {
		return Result{}, err
	}

	points := samplePoints(spheres, p.SurfacePoints)
	if len(points) == 0 {
		return Result{Reliable: false}, nil
	}
	if err := ctxErr(ctx); err != nil {
		return Result{}, err
	}

	codes, side := voxelize(points, p.Precision)
	sort.Slice(codes, func(a, b int) bool { return codes[a] < codes[b] })
	if err := ctxErr(ctx); err != nil {
		return Result{}, err
	}

	levels := countLevels(codes, side, p.Precision, len(points))
	res := fitRegion(levels, p)
	res.Levels = levels
	return res, nil
}

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
	default:
		return nil
	}
}

// samplePoints covers every sphere surface with a Fibonacci lattice. The
// lattice is deterministic, so equal inputs voxelize identically.
func samplePoints(spheres []geom.Sphere, perSphere int) []geom.Vec3 {
	golden := math.Pi * (3 - math.Sqrt(5))
	points := make([]geom.Vec3, 0, len(spheres)*perSphere)
	for _, s := range spheres {
		for i := 0; i < perSphere; i++ {
			y := 1 - 2*(float64(i)+0.5)/float64(perSphere)
			ring := math.Sqrt(1 - y*y)
			phi := golden * float64(i)
			dir := geom.V(math.Cos(phi)*ring, y, math.Sin(phi)*ring)
			points = append(points, s.Center.Add(dir.Scale(s.Radius)))
		}
	}
	return points
}

// voxelize maps the points into a cube grid of 2^precision cells per
// axis and returns their Morton codes plus the cube edge length.
func voxelize(points []geom.Vec3, precision int) ([]uint64, float64) {
	min := points[0]
	max := points[0]
	for _, pt := range points[1:] {
		min = geom.V(math.Min(min.X, pt.X), math.Min(min.Y, pt.Y), math.Min(min.Z, pt.Z))
		max = geom.V(math.Max(max.X, pt.X), math.Max(max.Y, pt.Y), math.Max(max.Z, pt.Z))
	}
	side := math.Max(max.X-min.X, math.Max(max.Y-min.Y, max.Z-min.Z))
	if side == 0 {
		side = 1
	}

	cells := float64(uint64(1) << precision)
	clampCell := func(v float64) uint32 {
		c := v * cells
		if c < 0 {
			return 0
		}
		if c >= cells {
			return uint32(cells) - 1
		}
		return uint32(c)
	}

	codes := make([]uint64, len(points))
	for i, pt := range points {
		cx := clampCell((pt.X - min.X) / side)
		cy := clampCell((pt.Y - min.Y) / side)
		cz := clampCell((pt.Z - min.Z) / side)
		codes[i] = mortonEncode(cx, cy, cz)
	}
	return codes, side
}

// countLevels counts occupied boxes at every depth, coarsest first.
// Truncated sorted codes stay sorted, so each level is one linear pass.
// Saturated scales, where every box holds one point or all points share
// one box, carry no scaling information and are dropped.
func countLevels(codes []uint64, side float64, precision, npoints int) []Level {
	levels := make([]Level, 0, precision)
	for depth := 1; depth <= precision; depth++ {
		shift := uint(3 * (precision - depth))
		count := 0
		var prev uint64
		for i, c := range codes {
			c >>= shift
			if i == 0 || c != prev {
				count++
				prev = c
			}
		}
		if count <= 1 || count >= npoints {
			continue
		}
		levels = append(levels, Level{
			BoxSize: side / float64(uint64(1)<<depth),
			Count:   count,
		})
	}
	return levels
}
