package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/aglogen/internal/geom"
)

func chain(n int, spacing float64) []geom.Sphere {
	spheres := make([]geom.Sphere, n)
	for i := range spheres {
		spheres[i] = geom.NewSphere(geom.V(float64(i)*spacing, 0, 0), 1)
	}
	return spheres
}

func TestCenterOfMass(t *testing.T) {
	spheres := []geom.Sphere{
		geom.NewSphere(geom.Zero(), 1),
		geom.NewSphere(geom.V(2, 0, 0), 1),
	}
	cg := CenterOfMass(spheres)
	if math.Abs(cg.X-1) > 1e-12 || math.Abs(cg.Y) > 1e-12 || math.Abs(cg.Z) > 1e-12 {
		t.Errorf("unexpected center of mass: %+v", cg)
	}
}

func TestCenterOfMassWeighted(t *testing.T) {
	// A sphere with twice the radius carries 8x the mass.
	spheres := []geom.Sphere{
		geom.NewSphere(geom.Zero(), 2),
		geom.NewSphere(geom.V(9, 0, 0), 1),
	}
	cg := CenterOfMass(spheres)
	if math.Abs(cg.X-1) > 1e-12 {
		t.Errorf("expected x=1, got %f", cg.X)
	}
}

func TestRadiusOfGyrationSingleSphere(t *testing.T) {
	rg := RadiusOfGyration([]geom.Sphere{geom.NewSphere(geom.Zero(), 1)})
	want := math.Sqrt(3.0 / 5.0)
	if math.Abs(rg-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, rg)
	}
}

func TestRadiusOfGyrationChainFormula(t *testing.T) {
	// For a chain of n unit spheres at spacing d:
	// Rg^2 = 3/5 + d^2*(n^2-1)/12.
	for _, n := range []int{2, 10, 50} {
		rg := RadiusOfGyration(chain(n, 2))
		want := math.Sqrt(3.0/5.0 + 4*float64(n*n-1)/12)
		if math.Abs(rg-want) > 1e-9 {
			t.Errorf("n=%d: expected %f, got %f", n, want, rg)
		}
	}
}

func TestRgAccumulatorMatchesBatch(t *testing.T) {
	spheres := []geom.Sphere{
		geom.NewSphere(geom.Zero(), 1),
		geom.NewSphere(geom.V(2, 0, 0), 1.2),
		geom.NewSphere(geom.V(2, 2.2, 0), 0.9),
		geom.NewSphere(geom.V(-1.8, 0.3, 1.1), 1.05),
	}

	var acc RgAccumulator
	for i, s := range spheres {
		acc.Add(s)
		got := acc.Rg()
		want := RadiusOfGyration(spheres[:i+1])
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("after %d spheres: incremental %f, batch %f", i+1, got, want)
		}
	}
	if acc.Count() != len(spheres) {
		t.Errorf("count %d, want %d", acc.Count(), len(spheres))
	}
}

func TestFitFractalDimensionPowerLaw(t *testing.T) {
	// Synthetic exact power law N = 1.3 * (Rg/rp)^1.8.
	var trace []RgSample
	for n := 2; n <= 200; n++ {
		rg := math.Pow(float64(n)/1.3, 1/1.8)
		trace = append(trace, RgSample{N: n, Rg: rg})
	}

	fit := FitFractalDimension(trace, 1)
	if math.Abs(fit.Df-1.8) > 0.01 {
		t.Errorf("Df=%f, want 1.8", fit.Df)
	}
	if math.Abs(fit.Kf-1.3) > 0.05 {
		t.Errorf("Kf=%f, want 1.3", fit.Kf)
	}
	if fit.R2 < 0.999 {
		t.Errorf("R2=%f too low for exact power law", fit.R2)
	}
}

func TestFitFractalDimensionChain(t *testing.T) {
	// Prefixes of a touching chain: Df must come out at 1.
	var trace []RgSample
	for n := 1; n <= 50; n++ {
		trace = append(trace, RgSample{N: n, Rg: RadiusOfGyration(chain(n, 2))})
	}

	fit := FitFractalDimension(trace, 1)
	if math.Abs(fit.Df-1.0) > 0.02 {
		t.Errorf("chain Df=%f, want 1.00 +/- 0.02", fit.Df)
	}
}

func TestFitFractalDimensionDegenerate(t *testing.T) {
	fit := FitFractalDimension([]RgSample{{N: 1, Rg: 0.77}}, 1)
	if fit.Df != 0 {
		t.Errorf("expected zero fit for single sample, got Df=%f", fit.Df)
	}
}

func TestPorosityRange(t *testing.T) {
	p := Porosity(chain(10, 2))
	if p <= 0 || p >= 1 {
		t.Errorf("porosity %f outside (0, 1)", p)
	}

	if got := Porosity(nil); got != 1 {
		t.Errorf("empty porosity %f, want 1", got)
	}
}
