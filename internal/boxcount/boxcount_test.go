package boxcount

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/aglogen/internal/geom"
)

func sphereChain(n int) []geom.Sphere {
	spheres := make([]geom.Sphere, n)
	for i := range spheres {
		spheres[i] = geom.NewSphere(geom.V(float64(i)*2, 0, 0), 1)
	}
	return spheres
}

func sphereGrid(nx, ny, nz int) []geom.Sphere {
	var spheres []geom.Sphere
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				c := geom.V(float64(i)*2, float64(j)*2, float64(k)*2)
				spheres = append(spheres, geom.NewSphere(c, 1))
			}
		}
	}
	return spheres
}

func TestMortonEncodeAxes(t *testing.T) {
	cases := []struct {
		x, y, z uint32
		want    uint64
	}{
		{0, 0, 0, 0},
		{1, 0, 0, 1},
		{0, 1, 0, 2},
		{0, 0, 1, 4},
		{1, 1, 1, 7},
		{2, 0, 0, 8},
		{3, 3, 3, 63},
	}
	for _, tc := range cases {
		if got := mortonEncode(tc.x, tc.y, tc.z); got != tc.want {
			t.Errorf("encode(%d,%d,%d)=%d, want %d", tc.x, tc.y, tc.z, got, tc.want)
		}
	}
}

func TestMortonTruncationIsParentCell(t *testing.T) {
	coords := []uint32{0, 1, 5, 100, 1<<21 - 1}
	for _, x := range coords {
		for _, y := range coords {
			for _, z := range coords {
				full := mortonEncode(x, y, z)
				parent := mortonEncode(x>>1, y>>1, z>>1)
				if full>>3 != parent {
					t.Fatalf("truncation of (%d,%d,%d) is not the parent cell", x, y, z)
				}
			}
		}
	}
}

func TestAnalyzeChainNearOne(t *testing.T) {
	res, err := Analyze(context.Background(), sphereChain(50), DefaultParams())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Df < 0.85 || res.Df > 1.5 {
		t.Errorf("chain Df=%f, want near 1", res.Df)
	}
	if res.Used < 5 {
		t.Errorf("only %d scales used, want a linear region of at least 5", res.Used)
	}
	if res.R2 <= 0.99 {
		t.Errorf("chain fit R2=%f, want above 0.99", res.R2)
	}
}

func TestAnalyzePlaneNearTwo(t *testing.T) {
	res, err := Analyze(context.Background(), sphereGrid(20, 20, 1), DefaultParams())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Df < 1.6 || res.Df > 2.4 {
		t.Errorf("plane Df=%f, want near 2", res.Df)
	}
}

func TestAnalyzeBlockNearThree(t *testing.T) {
	res, err := Analyze(context.Background(), sphereGrid(8, 8, 8), DefaultParams())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Df < 2.5 || res.Df > 3.3 {
		t.Errorf("block Df=%f, want near 3", res.Df)
	}
}

func TestAnalyzeCountsMonotone(t *testing.T) {
	res, err := Analyze(context.Background(), sphereChain(30), DefaultParams())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Levels) < 3 {
		t.Fatalf("too few levels: %d", len(res.Levels))
	}
	for i := 1; i < len(res.Levels); i++ {
		prev, cur := res.Levels[i-1], res.Levels[i]
		if cur.BoxSize >= prev.BoxSize {
			t.Fatalf("levels not ordered coarse to fine at %d", i)
		}
		if cur.Count < prev.Count {
			t.Fatalf("occupied boxes decreased from %d to %d at finer scale", prev.Count, cur.Count)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	a, err := Analyze(context.Background(), sphereChain(20), DefaultParams())
	if err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	b, err := Analyze(context.Background(), sphereChain(20), DefaultParams())
	if err != nil {
		t.Fatalf("second analyze: %v", err)
	}
	if a.Df != b.Df || a.Used != b.Used || len(a.Levels) != len(b.Levels) {
		t.Error("repeated analysis differs")
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	res, err := Analyze(context.Background(), nil, DefaultParams())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Reliable || res.Df != 0 {
		t.Errorf("empty input should be an unreliable zero result, got %+v", res)
	}
}

func TestAnalyzeExcludeAllScales(t *testing.T) {
	p := DefaultParams()
	p.ExcludeFinest = 1000
	res, err := Analyze(context.Background(), sphereChain(10), p)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Reliable {
		t.Error("excluding every scale must yield an unreliable result")
	}
}

func TestAnalyzeExcludeFinestOverridesDetector(t *testing.T) {
	p := DefaultParams()
	p.ExcludeFinest = 2
	res, err := Analyze(context.Background(), sphereGrid(6, 6, 6), p)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Excluded != 2 {
		t.Errorf("excluded %d scales, want exactly the 2 forced ones", res.Excluded)
	}
	if res.Used != len(res.Levels)-2 {
		t.Errorf("fitted region ends at %d, want %d", res.Used, len(res.Levels)-2)
	}
	// The forced boundary trims the fine end: the fitted region keeps the
	// coarsest scales.
	if len(res.Levels) > 2 && res.Levels[0].BoxSize <= res.Levels[res.Used-1].BoxSize {
		t.Error("fitted region is not anchored at the coarse end")
	}
}

func TestAnalyzeFitDiagnostics(t *testing.T) {
	res, err := Analyze(context.Background(), sphereChain(50), DefaultParams())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Residuals) != len(res.Levels) {
		t.Fatalf("got %d residuals for %d levels", len(res.Residuals), len(res.Levels))
	}
	// ln(count) = Df*ln(1/boxSize) + intercept must reproduce the counts
	// inside the fitted region.
	for i := 0; i < res.Used; i++ {
		predicted := res.Df*math.Log(1/res.Levels[i].BoxSize) + res.Intercept
		if math.Abs(math.Log(float64(res.Levels[i].Count))-predicted-res.Residuals[i]) > 1e-9 {
			t.Fatalf("residual %d inconsistent with the reported fit", i)
		}
		if math.Abs(res.Residuals[i]) > 0.5 {
			t.Errorf("residual %d = %f too large inside the fitted region", i, res.Residuals[i])
		}
	}
}

func TestAnalyzeInvalidParams(t *testing.T) {
	cases := []func(*Params){
		func(p *Params) { p.SurfacePoints = 1 },
		func(p *Params) { p.Precision = 0 },
		func(p *Params) { p.Precision = MaxPrecision + 1 },
		func(p *Params) { p.ExcludeFinest = -1 },
	}
	for i, mutate := range cases {
		p := DefaultParams()
		mutate(&p)
		if _, err := Analyze(context.Background(), sphereChain(5), p); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("case %d: expected ErrInvalidParameter, got %v", i, err)
		}
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Analyze(ctx, sphereChain(5), DefaultParams()); !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
}
