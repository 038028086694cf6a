package agg

import (
	"context"
	"math"

	"github.com/san-kum/aglogen/internal/geom"
	"github.com/san-kum/aglogen/internal/rng"
)

// growClusterCluster merges a population of singleton clusters pairwise
// until one aggregate remains. Each attempt picks two clusters, gives the
// mobile one a random orientation and approach line, and translates it to
// first contact. The two variants differ in how partners are picked and
// how far off-axis the approach may start: the diffusive variant samples
// the full collision cross-section, while the ballistic variant fires
// through the core with a small impact parameter.
func growClusterCluster(ctx context.Context, p Params, rs *rng.Stream, rec *recorder) error {
	clusters := make([]*cluster, p.N)
	for i := range clusters {
		r := rs.Range(p.RadiusMin, p.RadiusMax)
		clusters[i] = newSingleton(geom.NewSphere(geom.Zero(), r))
	}

	offsetScale := 1.0
	selection := p.Selection
	if p.Algorithm == BallisticCC {
		offsetScale = 0.35
		selection = SelectUniform
	}

	failures := 0
	for len(clusters) > 1 {
		if cancelled(ctx) {
			return runErr(p.Algorithm, rec.count(), ErrCancelled)
		}
		if failures >= p.MaxAttempts {
			return runErr(p.Algorithm, rec.count(), ErrNonConvergence)
		}

		i, j := pickPair(rs, clusters, selection)
		// The larger cluster stays put.
		if clusters[j].size() > clusters[i].size() {
			i, j = j, i
		}
		stationary, mobile := clusters[i], clusters[j]

		mobile.rotate(rs.UnitVector(), rs.Range(0, 2*math.Pi))

		dir := rs.UnitVector()
		gap := stationary.bound + mobile.bound + 4*p.RadiusMax
		offset := diskOffset(rs, dir, offsetScale*(stationary.bound+mobile.bound))
		start := stationary.com.Sub(dir.Scale(gap)).Add(offset)
		mobile.translate(start.Sub(mobile.com))

		t, ok := stationary.sweep(mobile, dir)
		if !ok {
			failures++
			continue
		}
		mobile.translate(dir.Scale(t))
		stationary.absorb(mobile)

		clusters[j] = clusters[len(clusters)-1]
		clusters = clusters[:len(clusters)-1]
		failures = 0
	}

	// Renumber by merge order: the surviving cluster holds particles in
	// the order they joined it.
	for _, s := range clusters[0].spheres {
		rec.deposit(s)
	}
	return nil
}

// pickPair selects two distinct cluster indices. Mobility weighting
// favors small clusters, which diffuse faster.
func pickPair(rs *rng.Stream, clusters []*cluster, selection PairSelection) (int, int) {
	n := len(clusters)
	if selection != SelectMobility {
		i := rs.Intn(n)
		j := rs.Intn(n - 1)
		if j >= i {
			j++
		}
		return i, j
	}

	weights := make([]float64, n)
	total := 0.0
	for k, c := range clusters {
		weights[k] = 1 / math.Sqrt(float64(c.size()))
		total += weights[k]
	}
	i := pickWeighted(rs, weights, total, -1)
	j := pickWeighted(rs, weights, total-weights[i], i)
	return i, j
}

func pickWeighted(rs *rng.Stream, weights []float64, total float64, skip int) int {
	x := rs.Float() * total
	for k, w := range weights {
		if k == skip {
			continue
		}
		x -= w
		if x <= 0 {
			return k
		}
	}
	// Floating-point slack: fall back to the last eligible index.
	for k := len(weights) - 1; k >= 0; k-- {
		if k != skip {
			return k
		}
	}
	return 0
}
