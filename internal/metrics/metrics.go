// Package metrics derives scalar descriptors from a finished aggregate:
// radius of gyration, fractal dimension and prefactor from the growth
// trace, coordination statistics, inertia-tensor shape descriptors, and
// porosity.
package metrics

import (
	"math"

	"github.com/san-kum/aglogen/internal/geom"
)

// RgSample is one (N, Rg) point of the growth trace.
type RgSample struct {
	N  int     `json:"n"`
	Rg float64 `json:"rg"`
}

// CenterOfMass returns the r³-weighted centroid of the spheres.
func CenterOfMass(spheres []geom.Sphere) geom.Vec3 {
	var total float64
	var cg geom.Vec3
	for _, s := range spheres {
		m := s.Radius * s.Radius * s.Radius
		cg = cg.Add(s.Center.Scale(m))
		total += m
	}
	if total == 0 {
		return geom.Zero()
	}
	return cg.Scale(1 / total)
}

// RadiusOfGyration computes Rg = sqrt(Ip/mp) with
// Ip = sum((3/5)r^5 + r^3*d^2), mp = sum(r^3), d the distance from the
// particle center to the center of mass. The (3/5)r^5 term accounts for
// the spheres' own volume, so a single sphere has Rg = sqrt(3/5)*r.
func RadiusOfGyration(spheres []geom.Sphere) float64 {
	if len(spheres) == 0 {
		return 0
	}
	cg := CenterOfMass(spheres)

	var ip, mp float64
	for _, s := range spheres {
		d := s.Center.DistanceTo(cg)
		r3 := s.Radius * s.Radius * s.Radius
		r5 := r3 * s.Radius * s.Radius
		ip += (3.0/5.0)*r5 + r3*d*d
		mp += r3
	}
	if mp == 0 {
		return 0
	}
	return math.Sqrt(ip / mp)
}

// RgAccumulator tracks the radius of gyration incrementally as particles
// are deposited, in O(1) per particle. It keeps running sums of mass,
// weighted centroid, weighted second moment and the sphere self-term.
type RgAccumulator struct {
	mass     float64   // sum r^3
	centroid geom.Vec3 // sum r^3 * x
	second   float64   // sum r^3 * |x|^2
	self     float64   // sum (3/5) r^5
	count    int
}

// Add deposits one sphere into the accumulator.
func (a *RgAccumulator) Add(s geom.Sphere) {
	r3 := s.Radius * s.Radius * s.Radius
	a.mass += r3
	a.centroid = a.centroid.Add(s.Center.Scale(r3))
	a.second += r3 * s.Center.LengthSq()
	a.self += (3.0 / 5.0) * r3 * s.Radius * s.Radius
	a.count++
}

// Rg returns the current radius of gyration.
func (a *RgAccumulator) Rg() float64 {
	if a.mass == 0 {
		return 0
	}
	// Parallel-axis form: sum r^3 |x - cg|^2 = second - |sum r^3 x|^2 / mass.
	ip := a.self + a.second - a.centroid.LengthSq()/a.mass
	if ip < 0 {
		ip = 0
	}
	return math.Sqrt(ip / a.mass)
}

// Count returns the number of deposited spheres.
func (a *RgAccumulator) Count() int { return a.count }

// Porosity returns 1 - (particle volume / bounding volume), with the
// bounding volume taken as the sphere of radius 2*Rg around the center of
// mass.
func Porosity(spheres []geom.Sphere) float64 {
	if len(spheres) == 0 {
		return 1
	}
	var volume float64
	for _, s := range spheres {
		volume += (4.0 / 3.0) * math.Pi * s.Radius * s.Radius * s.Radius
	}
	rg := RadiusOfGyration(spheres)
	bounding := (4.0 / 3.0) * math.Pi * math.Pow(2*rg, 3)
	if bounding <= 0 {
		return 1
	}
	return 1 - math.Min(1, volume/bounding)
}
