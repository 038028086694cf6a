package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/aglogen/internal/boxcount"
	"github.com/san-kum/aglogen/internal/metrics"
)

// TracePlot draws the radius-of-gyration growth trace.
func TracePlot(trace []metrics.RgSample, width int) string {
	if len(trace) == 0 {
		return "no trace data"
	}
	data := make([]float64, len(trace))
	for i, sample := range trace {
		data[i] = sample.Rg
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(width),
		asciigraph.Caption("radius of gyration vs deposition"),
	)
}

// ScalingPlot draws ln N against ln(Rg/rp); the slope is the fractal
// dimension.
func ScalingPlot(trace []metrics.RgSample, width int) string {
	data := make([]float64, 0, len(trace))
	for _, sample := range trace {
		if sample.N < 2 || sample.Rg <= 0 {
			continue
		}
		data = append(data, math.Log(float64(sample.N)))
	}
	if len(data) == 0 {
		return "no scaling data"
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(width),
		asciigraph.Caption("ln N along the growth trace"),
	)
}

// BoxCountPlot draws ln(occupied boxes) from coarse to fine scales.
func BoxCountPlot(levels []boxcount.Level, width int) string {
	if len(levels) == 0 {
		return "no box count data"
	}
	data := make([]float64, len(levels))
	for i, level := range levels {
		data[i] = math.Log(float64(level.Count))
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(width),
		asciigraph.Caption("ln box count, coarse to fine"),
	)
}
