package storage

import (
	"context"
	"testing"

	"github.com/san-kum/aglogen/internal/agg"
	"github.com/san-kum/aglogen/internal/boxcount"
)

func sampleResult(t *testing.T) *agg.Result {
	t.Helper()
	p := agg.DefaultParams(agg.Limiting)
	p.Geometry = agg.GeomChain
	p.N = 10
	res, err := agg.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("sample run: %v", err)
	}
	return res
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	res := sampleResult(t)
	analysis, err := boxcount.Analyze(context.Background(), res.Spheres(), boxcount.DefaultParams())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	runID, err := store.Save(res, &analysis)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Algorithm != agg.Limiting {
		t.Errorf("algorithm %q, want %q", meta.Algorithm, agg.Limiting)
	}
	if meta.N != len(res.Particles) {
		t.Errorf("n = %d, want %d", meta.N, len(res.Particles))
	}
	if meta.BoxCounting == nil {
		t.Error("box counting analysis not persisted")
	}
	if meta.Summary.Rg != res.Summary.Rg {
		t.Errorf("rg %f, want %f", meta.Summary.Rg, res.Summary.Rg)
	}

	particles, err := store.LoadParticles(runID)
	if err != nil {
		t.Fatalf("load particles: %v", err)
	}
	if len(particles) != len(res.Particles) {
		t.Fatalf("loaded %d particles, want %d", len(particles), len(res.Particles))
	}
	for i := range particles {
		if particles[i] != res.Particles[i] {
			t.Fatalf("particle %d differs after round trip: %+v vs %+v", i, particles[i], res.Particles[i])
		}
	}

	trace, err := store.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace: %v", err)
	}
	if len(trace) != len(res.RgTrace) {
		t.Fatalf("loaded %d trace samples, want %d", len(trace), len(res.RgTrace))
	}
	for i := range trace {
		if trace[i] != res.RgTrace[i] {
			t.Fatalf("trace sample %d differs: %+v vs %+v", i, trace[i], res.RgTrace[i])
		}
	}
}

func TestListEmptyAndPopulated(t *testing.T) {
	store := New(t.TempDir())

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list before init: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	res := sampleResult(t)
	if _, err := store.Save(res, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Save(res, nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err = store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("listed %d runs, want 2", len(runs))
	}
	for _, meta := range runs {
		if meta.BoxCounting != nil {
			t.Error("unexpected analysis on run saved without one")
		}
	}
}

func TestLoadMissingRun(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Load("absent"); err == nil {
		t.Error("expected error for missing run")
	}
}
