package metrics

import (
	"errors"
	"math"

	"github.com/san-kum/aglogen/internal/geom"
)

// ErrTooFewParticles is returned when an aggregate is too small for
// inertia-tensor analysis.
var ErrTooFewParticles = errors.New("metrics: inertia tensor needs at least 2 particles")

// InertiaResult holds the eigen-decomposition of the inertia tensor and
// the derived shape descriptors.
type InertiaResult struct {
	// PrincipalMoments are the eigenvalues, ascending.
	PrincipalMoments [3]float64 `json:"principal_moments"`
	// PrincipalAxes[i] is the unit eigenvector of PrincipalMoments[i].
	PrincipalAxes [3][3]float64 `json:"principal_axes"`
	// Anisotropy is I_max / I_min.
	Anisotropy float64 `json:"anisotropy"`
	// Asphericity is (I3 - (I1+I2)/2) / trace.
	Asphericity float64 `json:"asphericity"`
	// Acylindricity is (I2 - I1) / trace.
	Acylindricity float64 `json:"acylindricity"`
}

// InertiaTensor builds the mass-weighted inertia tensor about the center
// of mass (mass ~ r³) and decomposes it. Collinear aggregates get their
// smallest moment floored so the descriptors stay finite.
func InertiaTensor(spheres []geom.Sphere) (InertiaResult, error) {
	if len(spheres) < 2 {
		return InertiaResult{}, ErrTooFewParticles
	}

	cg := CenterOfMass(spheres)

	var ixx, iyy, izz, ixy, ixz, iyz float64
	for _, s := range spheres {
		p := s.Center.Sub(cg)
		m := s.Radius * s.Radius * s.Radius
		rSq := p.LengthSq()

		ixx += m * (rSq - p.X*p.X)
		iyy += m * (rSq - p.Y*p.Y)
		izz += m * (rSq - p.Z*p.Z)
		ixy -= m * p.X * p.Y
		ixz -= m * p.X * p.Z
		iyz -= m * p.Y * p.Z
	}

	tensor := [3][3]float64{
		{ixx, ixy, ixz},
		{ixy, iyy, iyz},
		{ixz, iyz, izz},
	}

	values, vectors := jacobiEigen(tensor)

	// Sort ascending, carrying eigenvectors along.
	order := [3]int{0, 1, 2}
	for i := 0; i < 2; i++ {
		for j := i + 1; j < 3; j++ {
			if values[order[j]] < values[order[i]] {
				order[i], order[j] = order[j], order[i]
			}
		}
	}

	var res InertiaResult
	for i, idx := range order {
		res.PrincipalMoments[i] = math.Max(1e-10, values[idx])
		for row := 0; row < 3; row++ {
			res.PrincipalAxes[i][row] = vectors[row][idx]
		}
	}

	i1, i2, i3 := res.PrincipalMoments[0], res.PrincipalMoments[1], res.PrincipalMoments[2]
	res.Anisotropy = i3 / i1

	trace := i1 + i2 + i3
	if trace > 0 {
		res.Asphericity = (i3 - 0.5*(i1+i2)) / trace
		res.Acylindricity = (i2 - i1) / trace
	}
	return res, nil
}

// jacobiEigen diagonalizes a symmetric 3x3 matrix with cyclic Jacobi
// rotations. Column j of the returned vectors is the eigenvector of
// eigenvalue j.
func jacobiEigen(a [3][3]float64) (values [3]float64, vectors [3][3]float64) {
	v := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	for sweep := 0; sweep < 50; sweep++ {
		off := a[0][1]*a[0][1] + a[0][2]*a[0][2] + a[1][2]*a[1][2]
		if off < 1e-24 {
			break
		}
		for p := 0; p < 2; p++ {
			for q := p + 1; q < 3; q++ {
				if math.Abs(a[p][q]) < 1e-30 {
					continue
				}
				theta := (a[q][q] - a[p][p]) / (2 * a[p][q])
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				for k := 0; k < 3; k++ {
					akp, akq := a[k][p], a[k][q]
					a[k][p] = c*akp - s*akq
					a[k][q] = s*akp + c*akq
				}
				for k := 0; k < 3; k++ {
					apk, aqk := a[p][k], a[q][k]
					a[p][k] = c*apk - s*aqk
					a[q][k] = s*apk + c*aqk
				}
				for k := 0; k < 3; k++ {
					vkp, vkq := v[k][p], v[k][q]
					v[k][p] = c*vkp - s*vkq
					v[k][q] = s*vkp + c*vkq
				}
			}
		}
	}

	return [3]float64{a[0][0], a[1][1], a[2][2]}, v
}
