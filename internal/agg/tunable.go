package agg

import (
	"context"
	"math"

	"github.com/san-kum/aglogen/internal/geom"
	"github.com/san-kum/aglogen/internal/rng"
)

// growTunable places particles one at a time so the aggregate tracks the
// scaling law N = kf*(Rg/rp)^Df. For each addition the required distance
// gamma from the current center of mass follows from the target radius of
// gyration; the particle is placed on the intersection circle of the
// gamma sphere and the contact sphere of a randomly chosen anchor. When
// no anchor admits a non-overlapping placement the prescribed geometry is
// unreachable and the run fails with ErrDegenerateGeometry.
func growTunable(ctx context.Context, p Params, rs *rng.Stream, rec *recorder) error {
	rp := p.RadiusMin
	spheres := make([]geom.Sphere, 0, p.N)
	var comSum geom.Vec3

	deposit := func(s geom.Sphere) {
		spheres = append(spheres, s)
		comSum = comSum.Add(s.Center)
		rec.deposit(s)
	}

	deposit(geom.NewSphere(geom.Zero(), rp))
	if p.N >= 2 {
		c := p.Sintering.sample(rs) * 2 * rp
		deposit(geom.NewSphere(rs.UnitVector().Scale(c), rp))
	}

	for rec.count() < p.N {
		if cancelled(ctx) {
			return runErr(Tunable, rec.count(), ErrCancelled)
		}

		n := len(spheres) + 1
		com := comSum.Scale(1 / float64(len(spheres)))
		prevRg := rec.acc.Rg()

		gamma, ok := gammaDistance(n, rp, prevRg, p.TargetDf, p.TargetKf)
		if !ok {
			return runErr(Tunable, rec.count(), ErrDegenerateGeometry)
		}

		contact := p.Sintering.sample(rs) * 2 * rp
		pos, ok := placeOnGammaSphere(rs, spheres, com, gamma, contact, p.MaxRotations)
		if !ok {
			return runErr(Tunable, rec.count(), ErrDegenerateGeometry)
		}
		deposit(geom.NewSphere(pos, rp))
	}
	return nil
}

// gammaDistance solves the parallel-axis relation for the center-of-mass
// distance of the next particle. Reports false when the scaling law
// demands a distance the geometry cannot realize.
func gammaDistance(n int, rp, prevRg, df, kf float64) (float64, bool) {
	nf := float64(n)
	self := 0.6 * rp * rp
	targetRg2 := rp * rp * math.Pow(nf/kf, 2/df)

	gamma2 := nf / (nf - 1) * (nf*(targetRg2-self) - (nf-1)*(prevRg*prevRg-self))
	if gamma2 <= 0 {
		return 0, false
	}
	return math.Sqrt(gamma2), true
}

// placeOnGammaSphere tries anchors in random order. For each anchor the
// valid positions lie on the circle where the sphere of radius gamma
// about the center of mass meets the anchor's contact sphere; successive
// spins about the anchor axis search that circle for a placement clear of
// every other particle.
func placeOnGammaSphere(rs *rng.Stream, spheres []geom.Sphere, com geom.Vec3,
	gamma, contact float64, maxRotations int) (geom.Vec3, bool) {

	candidates := make([]int, 0, len(spheres))
	for i, s := range spheres {
		d := s.Center.DistanceTo(com)
		if d > gamma-contact && d < gamma+contact {
			candidates = append(candidates, i)
		}
	}
	// Random candidate order, one shuffle per placement.
	for i := len(candidates) - 1; i > 0; i-- {
		j := rs.Intn(i + 1)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}

	for _, idx := range candidates {
		anchor := spheres[idx]
		d := anchor.Center.DistanceTo(com)
		if d == 0 {
			continue
		}
		cosAlpha := (d*d + gamma*gamma - contact*contact) / (2 * d * gamma)
		if cosAlpha < -1 || cosAlpha > 1 {
			continue
		}
		alpha := math.Acos(cosAlpha)

		axis := anchor.Center.Sub(com).Normalize()
		tilt, _ := perpBasis(axis)
		base := axis.Rotate(tilt, alpha).Scale(gamma)

		for spin := 0; spin < maxRotations; spin++ {
			beta := rs.Range(0, 2*math.Pi)
			pos := com.Add(base.Rotate(axis, beta))
			if clearOfAll(spheres, idx, pos, contact) {
				return pos, true
			}
		}
	}
	return geom.Vec3{}, false
}

func clearOfAll(spheres []geom.Sphere, anchor int, pos geom.Vec3, contact float64) bool {
	for i, s := range spheres {
		if i == anchor {
			continue
		}
		if pos.DistanceTo(s.Center) < contact-1e-9 {
			return false
		}
	}
	return true
}
