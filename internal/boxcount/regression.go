package boxcount

import "math"

// Region-detection thresholds: a finer scale is rejected when it is both
// a strong outlier against the current fit and degrades the best R^2
// seen so far.
const (
	residualLimit = 2.0
	r2DropLimit   = 0.02
	r2KeepSlack   = 0.01
	seedPoints    = 4
)

type lineFit struct {
	slope     float64
	intercept float64
	r2        float64
	stdErr    float64
}

func fitLine(xs, ys []float64) lineFit {
	n := float64(len(xs))
	var sx, sy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
	}
	mx, my := sx/n, sy/n

	var sxx, sxy, syy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return lineFit{}
	}

	fit := lineFit{slope: sxy / sxx}
	fit.intercept = my - fit.slope*mx

	var sse float64
	for i := range xs {
		r := ys[i] - (fit.slope*xs[i] + fit.intercept)
		sse += r * r
	}
	if syy > 1e-15 {
		fit.r2 = 1 - sse/syy
	}
	if len(xs) > 2 {
		fit.stdErr = math.Sqrt(sse / (n - 2) / sxx)
	}
	return fit
}

// fitRegion fits ln(count) against ln(1/boxSize). The fit is anchored at
// the coarse end: the automatic detector seeds it with the coarsest
// scales and extends toward finer ones, since scales past the fractal
// regime resolve individual sphere surfaces and show up as outliers. A
// manual ExcludeFinest count forces the fine-end boundary instead of the
// detector. The reported fit covers the accepted range with the best
// R^2, not merely the range where extension stopped.
func fitRegion(levels []Level, p Params) Result {
	var res Result
	if len(levels) < 2 {
		return res
	}

	xs := make([]float64, len(levels))
	ys := make([]float64, len(levels))
	for i, l := range levels {
		xs[i] = math.Log(1 / l.BoxSize)
		ys[i] = math.Log(float64(l.Count))
	}

	used := len(levels)
	switch {
	case p.ExcludeFinest > 0:
		used = len(levels) - p.ExcludeFinest
	case p.AutoRegion && len(levels) > seedPoints:
		fit := fitLine(xs[:seedPoints], ys[:seedPoints])
		bestUsed := seedPoints
		bestR2 := fit.r2
		for k := seedPoints; k < len(levels); k++ {
			resid := ys[k] - (fit.slope*xs[k] + fit.intercept)
			stdResid := 0.0
			if fit.stdErr > 1e-15 {
				stdResid = math.Abs(resid) / fit.stdErr
			}
			trial := fitLine(xs[:k+1], ys[:k+1])
			if stdResid > residualLimit && bestR2-trial.r2 > r2DropLimit {
				break
			}
			fit = trial
			if trial.r2 > bestR2-r2KeepSlack {
				bestUsed = k + 1
				if trial.r2 > bestR2 {
					bestR2 = trial.r2
				}
			}
		}
		used = bestUsed
	}
	if used < 2 {
		return res
	}

	final := fitLine(xs[:used], ys[:used])
	res.Df = final.slope
	res.Intercept = final.intercept
	res.StdErr = final.stdErr
	res.CI95 = 1.96 * final.stdErr
	res.R2 = final.r2
	res.Residuals = make([]float64, len(levels))
	for i := range levels {
		res.Residuals[i] = ys[i] - (final.slope*xs[i] + final.intercept)
	}
	res.Used = used
	res.Excluded = len(levels) - used
	res.Reliable = true
	return res
}
