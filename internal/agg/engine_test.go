package agg

import (
	"context"
	"errors"
	"testing"
)

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Params)
	}{
		{"unknown algorithm", func(p *Params) { p.Algorithm = "levy" }},
		{"zero particles", func(p *Params) { p.N = 0 }},
		{"negative radius", func(p *Params) { p.RadiusMin = -1 }},
		{"inverted radii", func(p *Params) { p.RadiusMin = 2; p.RadiusMax = 1 }},
		{"sticking above one", func(p *Params) { p.StickingProbability = 1.5 }},
		{"zero sticking", func(p *Params) { p.StickingProbability = 0 }},
		{"launch below one", func(p *Params) { p.LaunchFactor = 0.5 }},
		{"escape at one", func(p *Params) { p.EscapeFactor = 1 }},
		{"zero walk budget", func(p *Params) { p.MaxWalkSteps = 0 }},
		{"zero attempt budget", func(p *Params) { p.MaxAttempts = 0 }},
		{"bad sintering coefficient", func(p *Params) { p.Sintering = FixedSintering(1.2) }},
		{"bad sintering mode", func(p *Params) { p.Sintering.Mode = "cubic" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams(DLA)
			tc.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestValidatePerAlgorithm(t *testing.T) {
	p := DefaultParams(Tunable)
	p.TargetDf = 3.5
	if err := p.Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("target_df out of range accepted: %v", err)
	}

	p = DefaultParams(CCA)
	p.Sintering = FixedSintering(0.9)
	if err := p.Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("sintered cluster-cluster accepted: %v", err)
	}

	p = DefaultParams(Limiting)
	p.Geometry = "pyramid"
	if err := p.Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown geometry accepted: %v", err)
	}

	for _, alg := range Algorithms() {
		if err := DefaultParams(alg).Validate(); err != nil {
			t.Errorf("%s defaults invalid: %v", alg, err)
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	for _, alg := range []Algorithm{DLA, Ballistic, CCA, BallisticCC, Tunable} {
		t.Run(string(alg), func(t *testing.T) {
			p := DefaultParams(alg)
			p.N = 40
			p.Seed = 77

			a, err := Run(context.Background(), p)
			if err != nil {
				t.Fatalf("first run: %v", err)
			}
			b, err := Run(context.Background(), p)
			if err != nil {
				t.Fatalf("second run: %v", err)
			}

			if len(a.Particles) != len(b.Particles) {
				t.Fatalf("particle counts differ: %d vs %d", len(a.Particles), len(b.Particles))
			}
			for i := range a.Particles {
				if a.Particles[i] != b.Particles[i] {
					t.Fatalf("particle %d differs: %+v vs %+v", i, a.Particles[i], b.Particles[i])
				}
			}
		})
	}
}

func TestRunSeedsDiffer(t *testing.T) {
	p := DefaultParams(DLA)
	p.N = 30

	p.Seed = 1
	a, err := Run(context.Background(), p)
	if err != nil {
		t.Fatalf("seed 1: %v", err)
	}
	p.Seed = 2
	b, err := Run(context.Background(), p)
	if err != nil {
		t.Fatalf("seed 2: %v", err)
	}

	same := true
	for i := range a.Particles {
		if a.Particles[i] != b.Particles[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical aggregates")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := DefaultParams(DLA)
	p.N = 500
	_, err := Run(ctx, p)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}

	var re *Error
	if !errors.As(err, &re) {
		t.Fatal("cancellation not wrapped in *Error")
	}
	if re.Algorithm != DLA {
		t.Errorf("wrapped algorithm %q, want %q", re.Algorithm, DLA)
	}
}

func TestRunNonConvergence(t *testing.T) {
	// One-step walks from the launch sphere can never reach the seed, so
	// the attempt budget must trip.
	p := DefaultParams(DLA)
	p.N = 10
	p.MaxWalkSteps = 1
	p.MaxAttempts = 5

	_, err := Run(context.Background(), p)
	if !errors.Is(err, ErrNonConvergence) {
		t.Fatalf("expected ErrNonConvergence, got %v", err)
	}
}

func TestRunDegenerateGeometry(t *testing.T) {
	// A huge prefactor demands a radius of gyration below the single
	// sphere minimum; the scaling is unreachable.
	p := DefaultParams(Tunable)
	p.N = 10
	p.TargetDf = 3
	p.TargetKf = 100

	_, err := Run(context.Background(), p)
	if !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatalf("expected ErrDegenerateGeometry, got %v", err)
	}
}

func TestRunIndicesContiguous(t *testing.T) {
	p := DefaultParams(CCA)
	p.N = 30
	res, err := Run(context.Background(), p)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for i, particle := range res.Particles {
		if particle.Index != i+1 {
			t.Fatalf("particle %d has index %d", i, particle.Index)
		}
	}
	if res.Status != StatusCompleted {
		t.Errorf("status %q, want %q", res.Status, StatusCompleted)
	}
}
