package geom

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

func V(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func Zero() Vec3 { return Vec3{} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSq() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

func (v Vec3) Length() float64 { return math.Sqrt(v.LengthSq()) }

func (v Vec3) DistanceTo(o Vec3) float64 { return v.Sub(o).Length() }

// Normalize returns the unit vector, or the zero vector for zero input.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Rotate rotates v around a unit axis by angle radians (Rodrigues formula).
func (v Vec3) Rotate(axis Vec3, angle float64) Vec3 {
	cosA := math.Cos(angle)
	sinA := math.Sin(angle)
	cross := axis.Cross(v)
	dot := axis.Dot(v)
	return v.Scale(cosA).
		Add(cross.Scale(sinA)).
		Add(axis.Scale(dot * (1 - cosA)))
}
