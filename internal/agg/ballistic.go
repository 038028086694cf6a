package agg

import (
	"context"
	"sort"

	"github.com/san-kum/aglogen/internal/geom"
	"github.com/san-kum/aglogen/internal/rng"
	"github.com/san-kum/aglogen/internal/spatial"
)

type rayHit struct {
	t   float64
	idx int
}

// growBallistic grows one aggregate from straight-line trajectories. Each
// particle launches from a sphere enclosing the cluster, aims through the
// cluster core, and adheres at its first accepted intersection. A missed
// or rejected trajectory counts toward the attempt budget; there is no
// escape radius and no re-walk.
func growBallistic(ctx context.Context, p Params, rs *rng.Stream, rec *recorder) error {
	grid := spatial.NewGrid(p.RadiusMax * 4)
	spheres := make([]geom.Sphere, 0, p.N)

	deposit := func(s geom.Sphere) {
		grid.Insert(len(spheres), s)
		spheres = append(spheres, s)
		rec.deposit(s)
	}

	deposit(geom.NewSphere(geom.Zero(), rs.Range(p.RadiusMin, p.RadiusMax)))

	failures := 0
	var hits []rayHit
	var near []int
	for rec.count() < p.N {
		if cancelled(ctx) {
			return runErr(Ballistic, rec.count(), ErrCancelled)
		}
		if failures >= p.MaxAttempts {
			return runErr(Ballistic, rec.count(), ErrNonConvergence)
		}

		radius := rs.Range(p.RadiusMin, p.RadiusMax)
		launch := 2*rec.rg() + 4*(p.RadiusMax+radius)
		origin := rs.UnitVector().Scale(launch)
		target := rs.UnitVector().Scale(0.1 * radius * rs.Float())
		dir := target.Sub(origin).Normalize()

		hits = hits[:0]
		for j, s := range spheres {
			if t, ok := geom.RaySphere(origin, dir, s.Center, s.Radius+radius); ok {
				hits = append(hits, rayHit{t: t, idx: j})
			}
		}
		sort.Slice(hits, func(a, b int) bool { return hits[a].t < hits[b].t })

		stuck := false
		for _, h := range hits {
			if rs.Float() > p.StickingProbability {
				continue
			}
			impact := origin.Add(dir.Scale(h.t))
			place, ok := adherePoint(spheres, grid, &near, h.idx, impact, radius, p.Sintering.sample(rs), rs)
			if !ok {
				break
			}
			deposit(geom.NewSphere(place, radius))
			stuck = true
			break
		}

		if stuck {
			failures = 0
		} else {
			failures++
		}
	}
	return nil
}
