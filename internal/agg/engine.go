package agg

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/aglogen/internal/metrics"
	"github.com/san-kum/aglogen/internal/rng"
)

const (
	// cancelInterval is the number of inner-loop iterations between
	// context polls.
	cancelInterval = 1024

	// contactTolerance is the relative slack when detecting contacts in
	// the finished aggregate.
	contactTolerance = 1e-9
)

// Run executes one simulation to completion. The returned result carries
// the particles in deposition order, the growth trace, and the derived
// morphology summary. Failures are reported through *Error wrapping one
// of the package sentinels.
func Run(ctx context.Context, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	rs := rng.New(p.Seed)
	rec := newRecorder(p.N)

	var err error
	switch p.Algorithm {
	case DLA:
		err = growDLA(ctx, p, rs, rec)
	case Ballistic:
		err = growBallistic(ctx, p, rs, rec)
	case CCA, BallisticCC:
		err = growClusterCluster(ctx, p, rs, rec)
	case Tunable:
		err = growTunable(ctx, p, rs, rec)
	case Limiting:
		err = growLimiting(p, rec)
	}
	if err != nil {
		return nil, err
	}

	res := &Result{
		Params:    p,
		Status:    StatusCompleted,
		Particles: rec.particles,
		RgTrace:   rec.trace,
		Elapsed:   time.Since(start),
	}
	if err := summarize(res, rec); err != nil {
		return nil, err
	}
	return res, nil
}

func summarize(res *Result, rec *recorder) error {
	spheres := res.Spheres()

	fit := metrics.FitFractalDimension(res.RgTrace, res.MeanRadius())
	res.Summary.Df = fit.Df
	res.Summary.DfStdErr = fit.DfStdErr
	res.Summary.Kf = fit.Kf
	res.Summary.R2 = fit.R2
	res.Summary.Rg = rec.rg()
	res.Summary.Porosity = metrics.Porosity(spheres)

	coord, err := metrics.Coordination(spheres, contactTolerance)
	if err != nil {
		return fmt.Errorf("agg: summarize: %w", err)
	}
	res.Summary.CoordinationMean = coord.Mean
	res.Summary.CoordinationStd = coord.Std
	res.Summary.Components = coord.Components

	if len(spheres) >= 2 {
		shape, err := metrics.InertiaTensor(spheres)
		if err != nil {
			return fmt.Errorf("agg: summarize: %w", err)
		}
		res.Summary.PrincipalMoments = shape.PrincipalMoments
		res.Summary.PrincipalAxes = shape.PrincipalAxes
		res.Summary.Anisotropy = shape.Anisotropy
		res.Summary.Asphericity = shape.Asphericity
		res.Summary.Acylindricity = shape.Acylindricity
	}
	return nil
}

// cancelled polls the context without blocking.
func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
