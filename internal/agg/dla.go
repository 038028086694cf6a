package agg

import (
	"context"

	"github.com/san-kum/aglogen/internal/geom"
	"github.com/san-kum/aglogen/internal/rng"
	"github.com/san-kum/aglogen/internal/spatial"
)

// growDLA grows one aggregate by diffusion-limited random walks. Each
// walker launches from a sphere around the cluster, steps in uniform
// random directions, and adheres on first accepted contact. Walkers that
// cross the kill radius or exhaust their step budget are discarded and
// count toward the attempt budget.
func growDLA(ctx context.Context, p Params, rs *rng.Stream, rec *recorder) error {
	grid := spatial.NewGrid(p.RadiusMax * 4)
	spheres := make([]geom.Sphere, 0, p.N)

	deposit := func(s geom.Sphere) {
		grid.Insert(len(spheres), s)
		spheres = append(spheres, s)
		rec.deposit(s)
	}

	deposit(geom.NewSphere(geom.Zero(), rs.Range(p.RadiusMin, p.RadiusMax)))

	steps := 0
	failures := 0
	var buf, near []int
	for rec.count() < p.N {
		if failures >= p.MaxAttempts {
			return runErr(DLA, rec.count(), ErrNonConvergence)
		}

		radius := rs.Range(p.RadiusMin, p.RadiusMax)
		launch := p.LaunchFactor*rec.rg() + 2*(p.RadiusMax+radius)
		kill := p.EscapeFactor * launch
		killSq := kill * kill
		stepLen := 0.5 * radius

		pos := rs.UnitVector().Scale(launch)
		stuck := false
		for step := 0; step < p.MaxWalkSteps; step++ {
			steps++
			if steps%cancelInterval == 0 && cancelled(ctx) {
				return runErr(DLA, rec.count(), ErrCancelled)
			}

			prev := pos
			pos = pos.Add(rs.UnitVector().Scale(stepLen))
			if pos.LengthSq() > killSq {
				break
			}

			walker := geom.NewSphere(pos, radius)
			buf = grid.Neighbors(walker, buf[:0])
			hit := -1
			best := 0.0
			for _, j := range buf {
				d := pos.DistanceTo(spheres[j].Center)
				if d < spheres[j].Radius+radius && (hit < 0 || d < best) {
					best = d
					hit = j
				}
			}
			if hit < 0 {
				continue
			}
			if rs.Float() > p.StickingProbability {
				// Rejected contact: retract the step and keep diffusing.
				pos = prev
				continue
			}

			place, ok := adherePoint(spheres, grid, &near, hit, pos, radius, p.Sintering.sample(rs), rs)
			if !ok {
				pos = prev
				continue
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

// adherePoint backs the incoming particle off to the sintered contact
// distance along its approach direction, then verifies the placement does
// not over-penetrate any other deposited particle.
func adherePoint(spheres []geom.Sphere, grid *spatial.Grid, near *[]int,
	hit int, pos geom.Vec3, radius, coeff float64, rs *rng.Stream) (geom.Vec3, bool) {

	partner := spheres[hit]
	dir := pos.Sub(partner.Center)
	if dir.LengthSq() == 0 {
		dir = rs.UnitVector()
	} else {
		dir = dir.Normalize()
	}
	place := partner.Center.Add(dir.Scale(coeff * (partner.Radius + radius)))

	cand := geom.NewSphere(place, radius)
	*near = grid.Neighbors(cand, (*near)[:0])
	for _, j := range *near {
		if j == hit {
			continue
		}
		if place.DistanceTo(spheres[j].Center) < coeff*(spheres[j].Radius+radius)-1e-9 {
			return geom.Vec3{}, false
		}
	}
	return place, true
}
