package metrics

import "math"

// FractalFit is the result of regressing log(N) against log(Rg/rp) over a
// growth trace: N = kf * (Rg/rp)^Df.
type FractalFit struct {
	Df       float64 `json:"df"`
	Kf       float64 `json:"kf"`
	DfStdErr float64 `json:"df_std_err"`
	R2       float64 `json:"r2"`
	Samples  int     `json:"samples"`
}

// Fraction of the trace (by particle count) excluded as the small-N
// transient before fitting. The early points of any growth trace curve
// away from the asymptotic power law.
const transientFraction = 0.25

// FitFractalDimension fits Df and kf to the trace. rp is the primary
// particle radius used to non-dimensionalize Rg. Samples with N <= 1 or
// Rg <= 0 are ignored; samples below transientFraction of the final N are
// dropped when at least three remain above it.
func FitFractalDimension(trace []RgSample, rp float64) FractalFit {
	if rp <= 0 || len(trace) < 2 {
		return FractalFit{Df: 0, Kf: 0}
	}

	maxN := 0
	for _, s := range trace {
		if s.N > maxN {
			maxN = s.N
		}
	}
	cutoff := float64(maxN) * transientFraction

	var xs, ys []float64
	for _, s := range trace {
		if s.N <= 1 || s.Rg <= 0 {
			continue
		}
		if float64(s.N) < cutoff {
			continue
		}
		xs = append(xs, math.Log(s.Rg/rp))
		ys = append(ys, math.Log(float64(s.N)))
	}

	// Too few asymptotic samples: fall back to every usable point.
	if len(xs) < 3 {
		xs = xs[:0]
		ys = ys[:0]
		for _, s := range trace {
			if s.N <= 1 || s.Rg <= 0 {
				continue
			}
			xs = append(xs, math.Log(s.Rg/rp))
			ys = append(ys, math.Log(float64(s.N)))
		}
	}
	if len(xs) < 2 {
		return FractalFit{}
	}

	slope, intercept, r2, se := olsFit(xs, ys)

	df := math.Min(3, math.Max(1, slope))
	kf := math.Exp(intercept)

	return FractalFit{
		Df:       df,
		Kf:       kf,
		DfStdErr: se,
		R2:       r2,
		Samples:  len(xs),
	}
}

// olsFit returns slope, intercept, R² and the standard error of the slope.
func olsFit(x, y []float64) (slope, intercept, r2, stdErr float64) {
	n := float64(len(x))
	var sumX, sumY, sumXX, sumXY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXX += x[i] * x[i]
		sumXY += x[i] * y[i]
	}

	denom := n*sumXX - sumX*sumX
	if math.Abs(denom) < 1e-15 {
		return 0, sumY / n, 0, math.Inf(1)
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for i := range x {
		pred := intercept + slope*x[i]
		ssRes += (y[i] - pred) * (y[i] - pred)
		ssTot += (y[i] - meanY) * (y[i] - meanY)
	}

	if ssTot > 1e-15 {
		r2 = 1 - ssRes/ssTot
	}
	mse := ssRes / math.Max(1, n-2)
	sxx := sumXX - sumX*sumX/n
	stdErr = math.Sqrt(mse / math.Max(1e-15, sxx))
	return slope, intercept, r2, stdErr
}
