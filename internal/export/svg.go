// Package export writes aggregates and growth traces as SVG files.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/aglogen/internal/geom"
	"github.com/san-kum/aglogen/internal/metrics"
	"github.com/san-kum/aglogen/internal/viz"
)

// AggregateToSVG projects the aggregate onto the plane and draws it as
// vector circles, back to front along the discarded axis. size is the
// output edge length in pixels.
func AggregateToSVG(spheres []geom.Sphere, plane viz.Plane, size int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a14"/>
`, size, size, size, size))
	if len(spheres) == 0 {
		sb.WriteString("</svg>")
		return sb.String()
	}

	type disc struct {
		u, v, depth, r float64
	}
	discs := make([]disc, len(spheres))
	minDepth, maxDepth := 0.0, 0.0
	for i, s := range spheres {
		var d disc
		switch plane {
		case viz.PlaneXZ:
			d = disc{u: s.Center.X, v: s.Center.Z, depth: s.Center.Y, r: s.Radius}
		case viz.PlaneYZ:
			d = disc{u: s.Center.Y, v: s.Center.Z, depth: s.Center.X, r: s.Radius}
		default:
			d = disc{u: s.Center.X, v: s.Center.Y, depth: s.Center.Z, r: s.Radius}
		}
		discs[i] = d
		if i == 0 || d.depth < minDepth {
			minDepth = d.depth
		}
		if i == 0 || d.depth > maxDepth {
			maxDepth = d.depth
		}
	}
	sort.Slice(discs, func(a, b int) bool { return discs[a].depth < discs[b].depth })

	minU, maxU := discs[0].u, discs[0].u
	minV, maxV := discs[0].v, discs[0].v
	for _, d := range discs {
		minU = min(minU, d.u-d.r)
		maxU = max(maxU, d.u+d.r)
		minV = min(minV, d.v-d.r)
		maxV = max(maxV, d.v+d.r)
	}
	spanU := maxU - minU
	spanV := maxV - minV
	if spanU == 0 {
		spanU = 1
	}
	if spanV == 0 {
		spanV = 1
	}
	margin := float64(size) * 0.04
	scale := min((float64(size)-2*margin)/spanU, (float64(size)-2*margin)/spanV)
	offU := (float64(size) - spanU*scale) / 2
	offV := (float64(size) - spanV*scale) / 2

	depthSpan := maxDepth - minDepth
	if depthSpan == 0 {
		depthSpan = 1
	}
	for _, d := range discs {
		cx := (d.u-minU)*scale + offU
		// SVG y grows downward.
		cy := float64(size) - ((d.v-minV)*scale + offV)
		// Shade nearer particles brighter.
		shade := 90 + int(150*(d.depth-minDepth)/depthSpan)
		sb.WriteString(fmt.Sprintf(
			"<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"rgb(%d,%d,255)\" stroke=\"#0a0a14\" stroke-width=\"0.5\"/>\n",
			cx, cy, d.r*scale, shade/2, shade))
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// TraceToSVG draws the radius-of-gyration growth trace as a polyline.
func TraceToSVG(trace []metrics.RgSample, width, height int) string {
	if len(trace) < 2 {
		return ""
	}
	maxN := trace[len(trace)-1].N
	maxRg := 0.0
	for _, s := range trace {
		if s.Rg > maxRg {
			maxRg = s.Rg
		}
	}
	if maxRg == 0 || maxN < 2 {
		return ""
	}

	margin := 10.0
	spanX := float64(width) - 2*margin
	spanY := float64(height) - 2*margin
	points := make([]string, len(trace))
	for i, s := range trace {
		x := margin + spanX*float64(s.N-1)/float64(maxN-1)
		y := float64(height) - margin - spanY*s.Rg/maxRg
		points[i] = fmt.Sprintf("%.1f,%.1f", x, y)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a14"/>
<polyline points="%s" fill="none" stroke="#00ccff" stroke-width="1.5"/>
</svg>`, width, height, width, height, strings.Join(points, " "))
}
