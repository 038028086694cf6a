package export

import (
	"strings"
	"testing"

	"github.com/san-kum/aglogen/internal/geom"
	"github.com/san-kum/aglogen/internal/metrics"
	"github.com/san-kum/aglogen/internal/viz"
)

func TestAggregateToSVG(t *testing.T) {
	spheres := []geom.Sphere{
		geom.NewSphere(geom.Zero(), 1),
		geom.NewSphere(geom.V(2, 0, 0), 1),
		geom.NewSphere(geom.V(2, 2, 1), 1),
	}
	out := AggregateToSVG(spheres, viz.PlaneXY, 400)

	if !strings.HasPrefix(out, `<?xml version="1.0"`) {
		t.Error("missing XML header")
	}
	if strings.Count(out, "<circle") != 3 {
		t.Errorf("drew %d circles, want 3", strings.Count(out, "<circle"))
	}
	if !strings.HasSuffix(out, "</svg>") {
		t.Error("unterminated SVG document")
	}
}

func TestAggregateToSVGEmpty(t *testing.T) {
	out := AggregateToSVG(nil, viz.PlaneXY, 400)
	if strings.Contains(out, "<circle") {
		t.Error("empty aggregate should draw nothing")
	}
	if !strings.HasSuffix(out, "</svg>") {
		t.Error("unterminated SVG document")
	}
}

func TestTraceToSVG(t *testing.T) {
	trace := []metrics.RgSample{{N: 1, Rg: 0.77}, {N: 2, Rg: 1.26}, {N: 3, Rg: 1.71}}
	out := TraceToSVG(trace, 600, 300)
	if !strings.Contains(out, "<polyline") {
		t.Error("missing polyline")
	}

	if TraceToSVG(trace[:1], 600, 300) != "" {
		t.Error("single sample should yield empty output")
	}
}
