package agg

import (
	"math"

	"github.com/san-kum/aglogen/internal/geom"
	"github.com/san-kum/aglogen/internal/rng"
)

// cluster is a rigid group of particles used by the cluster-cluster
// algorithms. com is the mass-weighted center; bound is the radius of the
// enclosing sphere about com.
type cluster struct {
	spheres []geom.Sphere
	com     geom.Vec3
	bound   float64
}

func newSingleton(s geom.Sphere) *cluster {
	c := &cluster{spheres: []geom.Sphere{s}}
	c.refresh()
	return c
}

func (c *cluster) size() int { return len(c.spheres) }

// refresh recomputes the center of mass and enclosing radius.
func (c *cluster) refresh() {
	var mass float64
	var weighted geom.Vec3
	for _, s := range c.spheres {
		m := s.Radius * s.Radius * s.Radius
		mass += m
		weighted = weighted.Add(s.Center.Scale(m))
	}
	c.com = weighted.Scale(1 / mass)

	c.bound = 0
	for _, s := range c.spheres {
		if r := s.Center.DistanceTo(c.com) + s.Radius; r > c.bound {
			c.bound = r
		}
	}
}

// rotate spins the cluster about its center of mass.
func (c *cluster) rotate(axis geom.Vec3, angle float64) {
	for i, s := range c.spheres {
		c.spheres[i].Center = c.com.Add(s.Center.Sub(c.com).Rotate(axis, angle))
	}
}

// translate shifts every particle by delta.
func (c *cluster) translate(delta geom.Vec3) {
	for i := range c.spheres {
		c.spheres[i].Center = c.spheres[i].Center.Add(delta)
	}
	c.com = c.com.Add(delta)
}

// sweep finds the smallest travel distance along dir at which any mobile
// particle first touches a stationary one. Returns false when the
// trajectory misses entirely.
func (c *cluster) sweep(mobile *cluster, dir geom.Vec3) (float64, bool) {
	tmin := math.MaxFloat64
	found := false
	for _, m := range mobile.spheres {
		for _, s := range c.spheres {
			t, ok := geom.RaySphere(m.Center, dir, s.Center, s.Radius+m.Radius)
			if ok && t < tmin {
				tmin = t
				found = true
			}
		}
	}
	return tmin, found
}

// absorb appends the mobile cluster's particles and refreshes geometry.
func (c *cluster) absorb(mobile *cluster) {
	c.spheres = append(c.spheres, mobile.spheres...)
	c.refresh()
}

// perpBasis returns two orthonormal vectors spanning the plane normal
// to d.
func perpBasis(d geom.Vec3) (geom.Vec3, geom.Vec3) {
	ref := geom.V(1, 0, 0)
	if math.Abs(d.X) > 0.9 {
		ref = geom.V(0, 1, 0)
	}
	u := d.Cross(ref).Normalize()
	v := d.Cross(u)
	return u, v
}

// diskOffset samples a point uniformly from the disk of the given radius
// in the plane normal to d.
func diskOffset(rs *rng.Stream, d geom.Vec3, radius float64) geom.Vec3 {
	u, v := perpBasis(d)
	r := radius * math.Sqrt(rs.Float())
	phi := 2 * math.Pi * rs.Float()
	return u.Scale(r * math.Cos(phi)).Add(v.Scale(r * math.Sin(phi)))
}
