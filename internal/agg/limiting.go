package agg

import (
	"math"
	"sort"

	"github.com/san-kum/aglogen/internal/geom"
)

// growLimiting builds a deterministic reference geometry with a known
// fractal dimension. Shell-based figures round the particle count up to
// the next complete figure so their exact scaling holds; trace samples
// for those figures are taken at shell boundaries only.
func growLimiting(p Params, rec *recorder) error {
	r := p.RadiusMin
	spacing := 2 * r
	if p.Sintering.Mode == SinterFixed {
		spacing *= p.Sintering.Coefficient
	}

	var centers []geom.Vec3
	var checkpoints []int
	switch p.Geometry {
	case GeomChain:
		centers = chainCenters(p.N, spacing, []geom.Vec3{geom.V(1, 0, 0)})
	case GeomCross2D:
		centers = chainCenters(p.N, spacing, []geom.Vec3{
			geom.V(1, 0, 0), geom.V(-1, 0, 0), geom.V(0, 1, 0), geom.V(0, -1, 0),
		})
	case GeomCross3D:
		centers = chainCenters(p.N, spacing, []geom.Vec3{
			geom.V(1, 0, 0), geom.V(-1, 0, 0), geom.V(0, 1, 0),
			geom.V(0, -1, 0), geom.V(0, 0, 1), geom.V(0, 0, -1),
		})
	case GeomPlane:
		centers, checkpoints = hexLayers(p.N, spacing, 1)
	case GeomDoublePlane:
		centers, checkpoints = hexLayers(p.N, spacing, 2)
	case GeomTriplePlane:
		centers, checkpoints = hexLayers(p.N, spacing, 3)
	case GeomCuboctahedron:
		centers, checkpoints = cuboctahedronShells(p.N, spacing)
	case GeomSimpleCubic:
		centers = latticeBall(p.N, spacing, func(i, j, k int) bool { return true }, 1)
	case GeomFCC:
		centers = latticeBall(p.N, spacing, func(i, j, k int) bool {
			return (i+j+k)%2 == 0
		}, math.Sqrt2)
	}

	if checkpoints != nil {
		rec.checkpoint = make(map[int]bool, len(checkpoints))
		for _, c := range checkpoints {
			rec.checkpoint[c] = true
		}
	}
	for _, c := range centers {
		rec.deposit(geom.NewSphere(c, r))
	}
	return nil
}

// chainCenters grows straight arms round-robin from a shared origin.
func chainCenters(n int, spacing float64, arms []geom.Vec3) []geom.Vec3 {
	centers := make([]geom.Vec3, 0, n)
	centers = append(centers, geom.Zero())
	step := 1
	for len(centers) < n {
		for _, arm := range arms {
			if len(centers) == n {
				break
			}
			centers = append(centers, arm.Scale(float64(step)*spacing))
		}
		step++
	}
	return centers
}

// hexLayers stacks close-packed hexagonal layers and grows them ring by
// ring across all layers at once, so the trace stays radial. The count
// rounds up to complete rings.
func hexLayers(n int, spacing float64, layers int) ([]geom.Vec3, []int) {
	rings := 0
	for layers*hexCount(rings) < n {
		rings++
	}

	height := spacing * math.Sqrt(2.0/3.0)
	offsetX := spacing / 2
	offsetY := spacing / (2 * math.Sqrt(3))

	origin := func(layer int) geom.Vec3 {
		z := float64(layer) * height
		if layer%2 == 1 {
			return geom.V(offsetX, offsetY, z)
		}
		return geom.V(0, 0, z)
	}

	var centers []geom.Vec3
	var checkpoints []int
	for k := 0; k <= rings; k++ {
		for l := 0; l < layers; l++ {
			for _, axial := range hexRing(k) {
				q, rr := axial[0], axial[1]
				x := spacing * (float64(q) + float64(rr)/2)
				y := spacing * math.Sqrt(3) / 2 * float64(rr)
				centers = append(centers, origin(l).Add(geom.V(x, y, 0)))
			}
		}
		checkpoints = append(checkpoints, len(centers))
	}
	return centers, checkpoints
}

// hexCount is the number of sites within ring k of a hexagonal layer.
func hexCount(k int) int {
	return 1 + 3*k*(k+1)
}

// hexRing enumerates axial coordinates of ring k, walking its six edges.
func hexRing(k int) [][2]int {
	if k == 0 {
		return [][2]int{{0, 0}}
	}
	dirs := [6][2]int{{1, 0}, {1, -1}, {0, -1}, {-1, 0}, {-1, 1}, {0, 1}}
	cur := [2]int{-k, k}
	ring := make([][2]int, 0, 6*k)
	for _, d := range dirs {
		for j := 0; j < k; j++ {
			ring = append(ring, cur)
			cur[0] += d[0]
			cur[1] += d[1]
		}
	}
	return ring
}

// cuboctahedronShells builds complete cuboctahedral shells of an FCC
// lattice: sites with even index parity, max coordinate at most K, and
// coordinate sum at most 2K. Shell K holds (2K+1)(5K^2+5K+3)/3 sites.
func cuboctahedronShells(n int, spacing float64) ([]geom.Vec3, []int) {
	shells := 0
	for cuboctahedronCount(shells) < n {
		shells++
	}

	type site struct {
		shell   int
		distSq  int
		i, j, k int
	}
	var sites []site
	for i := -shells; i <= shells; i++ {
		for j := -shells; j <= shells; j++ {
			for k := -shells; k <= shells; k++ {
				if (i+j+k)%2 != 0 {
					continue
				}
				maxAbs := maxInt(absInt(i), maxInt(absInt(j), absInt(k)))
				absSum := absInt(i) + absInt(j) + absInt(k)
				shell := maxInt(maxAbs, (absSum+1)/2)
				if shell > shells {
					continue
				}
				sites = append(sites, site{shell, i*i + j*j + k*k, i, j, k})
			}
		}
	}
	sort.Slice(sites, func(a, b int) bool {
		sa, sb := sites[a], sites[b]
		if sa.shell != sb.shell {
			return sa.shell < sb.shell
		}
		if sa.distSq != sb.distSq {
			return sa.distSq < sb.distSq
		}
		if sa.i != sb.i {
			return sa.i < sb.i
		}
		if sa.j != sb.j {
			return sa.j < sb.j
		}
		return sa.k < sb.k
	})

	scale := spacing / math.Sqrt2
	centers := make([]geom.Vec3, len(sites))
	var checkpoints []int
	for idx, s := range sites {
		centers[idx] = geom.V(float64(s.i)*scale, float64(s.j)*scale, float64(s.k)*scale)
		if idx+1 == len(centers) || sites[idx+1].shell != s.shell {
			checkpoints = append(checkpoints, idx+1)
		}
	}
	return centers, checkpoints
}

// cuboctahedronCount is the cumulative site count through shell K.
func cuboctahedronCount(k int) int {
	return (2*k + 1) * (5*k*k + 5*k + 3) / 3
}

// latticeBall takes the n lattice sites nearest the origin, in radial
// order. keep filters sites; unit is the lattice nearest-neighbor
// distance in index units.
func latticeBall(n int, spacing float64, keep func(i, j, k int) bool, unit float64) []geom.Vec3 {
	type site struct {
		distSq  int
		i, j, k int
	}
	// A cube of side 2R+1 holds at least n kept sites once its inscribed
	// ball does; grow R until enough sites are inside the ball.
	var sites []site
	for radius := 1; ; radius++ {
		sites = sites[:0]
		limit := radius * radius
		for i := -radius; i <= radius; i++ {
			for j := -radius; j <= radius; j++ {
				for k := -radius; k <= radius; k++ {
					if !keep(i, j, k) {
						continue
					}
					d := i*i + j*j + k*k
					if d <= limit {
						sites = append(sites, site{d, i, j, k})
					}
				}
			}
		}
		if len(sites) >= n {
			break
		}
	}

	sort.Slice(sites, func(a, b int) bool {
		sa, sb := sites[a], sites[b]
		if sa.distSq != sb.distSq {
			return sa.distSq < sb.distSq
		}
		if sa.i != sb.i {
			return sa.i < sb.i
		}
		if sa.j != sb.j {
			return sa.j < sb.j
		}
		return sa.k < sb.k
	})

	scale := spacing / unit
	centers := make([]geom.Vec3, n)
	for idx := 0; idx < n; idx++ {
		s := sites[idx]
		centers[idx] = geom.V(float64(s.i)*scale, float64(s.j)*scale, float64(s.k)*scale)
	}
	return centers
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
