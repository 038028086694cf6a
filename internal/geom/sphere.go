package geom

import "math"

// Sphere is a particle primitive: a center and a radius.
type Sphere struct {
	Center Vec3
	Radius float64
}

func NewSphere(center Vec3, radius float64) Sphere {
	return Sphere{Center: center, Radius: radius}
}

// Overlaps reports whether the two spheres interpenetrate.
func (s Sphere) Overlaps(o Sphere) bool {
	return s.Center.DistanceTo(o.Center) < s.Radius+o.Radius
}

// Touches reports whether the spheres are in contact within tolerance.
func (s Sphere) Touches(o Sphere, tolerance float64) bool {
	dist := s.Center.DistanceTo(o.Center)
	contact := s.Radius + o.Radius
	return math.Abs(dist-contact) <= tolerance
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// BoundsOf returns the tight AABB around a set of spheres.
func BoundsOf(spheres []Sphere) AABB {
	if len(spheres) == 0 {
		return AABB{}
	}
	min := V(math.Inf(1), math.Inf(1), math.Inf(1))
	max := V(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for _, s := range spheres {
		c, r := s.Center, s.Radius
		min.X = math.Min(min.X, c.X-r)
		min.Y = math.Min(min.Y, c.Y-r)
		min.Z = math.Min(min.Z, c.Z-r)
		max.X = math.Max(max.X, c.X+r)
		max.Y = math.Max(max.Y, c.Y+r)
		max.Z = math.Max(max.Z, c.Z+r)
	}
	return AABB{Min: min, Max: max}
}

func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// RaySphere returns the smallest positive t for which a point starting at
// origin and moving along dir reaches distance `contact` from the sphere
// center at `target`. Returns false when the ray misses.
func RaySphere(origin, dir, target Vec3, contact float64) (float64, bool) {
	d := target.Sub(origin)
	a := dir.Dot(dir)
	b := -2 * d.Dot(dir)
	c := d.Dot(d) - contact*contact

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sqrtDisc := math.Sqrt(disc)
	t1 := (-b - sqrtDisc) / (2 * a)
	t2 := (-b + sqrtDisc) / (2 * a)
	switch {
	case t1 > 1e-10:
		return t1, true
	case t2 > 1e-10:
		return t2, true
	}
	return 0, false
}
