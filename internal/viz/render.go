package viz

import (
	"sort"

	"github.com/san-kum/aglogen/internal/geom"
)

// Plane selects the orthographic projection axis pair.
type Plane string

const (
	PlaneXY Plane = "xy"
	PlaneXZ Plane = "xz"
	PlaneYZ Plane = "yz"
)

// Render projects the aggregate onto the plane and draws it as filled
// circles on a Braille canvas. Particles are drawn back to front along
// the discarded axis.
func Render(spheres []geom.Sphere, plane Plane, width, height int) string {
	canvas := NewCanvas(width, height)
	if len(spheres) == 0 {
		return canvas.String()
	}

	type disc struct {
		u, v, depth, r float64
	}
	discs := make([]disc, len(spheres))
	for i, s := range spheres {
		var d disc
		switch plane {
		case PlaneXZ:
			d = disc{u: s.Center.X, v: s.Center.Z, depth: s.Center.Y, r: s.Radius}
		case PlaneYZ:
			d = disc{u: s.Center.Y, v: s.Center.Z, depth: s.Center.X, r: s.Radius}
		default:
			d = disc{u: s.Center.X, v: s.Center.Y, depth: s.Center.Z, r: s.Radius}
		}
		discs[i] = d
	}
	sort.Slice(discs, func(a, b int) bool { return discs[a].depth < discs[b].depth })

	minU, maxU := discs[0].u, discs[0].u
	minV, maxV := discs[0].v, discs[0].v
	for _, d := range discs {
		minU = minFloat(minU, d.u-d.r)
		maxU = maxFloat(maxU, d.u+d.r)
		minV = minFloat(minV, d.v-d.r)
		maxV = maxFloat(maxV, d.v+d.r)
	}

	dotsW := float64(width * 2)
	dotsH := float64(height * 4)
	spanU := maxU - minU
	spanV := maxV - minV
	if spanU == 0 {
		spanU = 1
	}
	if spanV == 0 {
		spanV = 1
	}
	scale := minFloat(dotsW/spanU, dotsH/spanV)

	// Center the drawing.
	offU := (dotsW - spanU*scale) / 2
	offV := (dotsH - spanV*scale) / 2

	for _, d := range discs {
		x := int((d.u-minU)*scale + offU)
		// Screen y grows downward.
		y := int(dotsH - ((d.v-minV)*scale + offV))
		canvas.FillCircle(x, y, int(d.r*scale))
	}
	return canvas.String()
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
