// Package batch runs parametric simulation studies on a bounded worker
// pool and aggregates their morphology statistics.
package batch

import (
	"context"
	"math"
	"runtime"
	"sync"

	"github.com/san-kum/aglogen/internal/agg"
	"github.com/san-kum/aglogen/internal/boxcount"
)

// Outcome is the result of one job in a study.
type Outcome struct {
	Index    int
	Params   agg.Params
	Result   *agg.Result
	Analysis *boxcount.Result
	Err      error
}

// Runner executes jobs concurrently. Analysis, when set, runs box
// counting on every completed aggregate.
type Runner struct {
	// Workers bounds concurrency; zero or negative means one per CPU.
	Workers int

	Analysis *boxcount.Params

	// OnDone, when set, is called after each finished job. Calls are
	// serialized.
	OnDone func(done, total int)
}

// SeedSweep derives one job per seed from a base parameter set.
func SeedSweep(base agg.Params, runs int, seedStart int64) []agg.Params {
	jobs := make([]agg.Params, runs)
	for i := range jobs {
		jobs[i] = base
		jobs[i].Seed = seedStart + int64(i)
	}
	return jobs
}

// Run executes every job and returns outcomes in job order. Individual
// failures are recorded per outcome and do not stop the study.
func (r Runner) Run(ctx context.Context, jobs []agg.Params) []Outcome {
	outcomes := make([]Outcome, len(jobs))

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	var mu sync.Mutex
	done := 0
	finish := func(idx int, out Outcome) {
		mu.Lock()
		defer mu.Unlock()
		outcomes[idx] = out
		done++
		if r.OnDone != nil {
			r.OnDone(done, len(jobs))
		}
	}

	queue := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				finish(idx, r.runOne(ctx, idx, jobs[idx]))
			}
		}()
	}

	for idx := range jobs {
		queue <- idx
	}
	close(queue)
	wg.Wait()

	return outcomes
}

func (r Runner) runOne(ctx context.Context, idx int, params agg.Params) Outcome {
	out := Outcome{Index: idx, Params: params}

	out.Result, out.Err = agg.Run(ctx, params)
	if out.Err != nil || r.Analysis == nil {
		return out
	}

	analysis, err := boxcount.Analyze(ctx, out.Result.Spheres(), *r.Analysis)
	if err != nil {
		out.Err = err
		return out
	}
	out.Analysis = &analysis
	return out
}

// FirstError returns the first recorded failure, if any.
func FirstError(outcomes []Outcome) error {
	for _, out := range outcomes {
		if out.Err != nil {
			return out.Err
		}
	}
	return nil
}

// Stats summarizes the completed runs of a study.
type Stats struct {
	Completed int
	Failed    int
	MeanDf    float64
	StdDf     float64
	MeanKf    float64
	MeanRg    float64
}

// Aggregate computes study-level statistics over completed outcomes.
func Aggregate(outcomes []Outcome) Stats {
	var stats Stats
	var dfs []float64
	for _, out := range outcomes {
		if out.Err != nil || out.Result == nil {
			stats.Failed++
			continue
		}
		stats.Completed++
		dfs = append(dfs, out.Result.Summary.Df)
		stats.MeanKf += out.Result.Summary.Kf
		stats.MeanRg += out.Result.Summary.Rg
	}
	if stats.Completed == 0 {
		return stats
	}

	n := float64(stats.Completed)
	stats.MeanKf /= n
	stats.MeanRg /= n
	for _, df := range dfs {
		stats.MeanDf += df
	}
	stats.MeanDf /= n
	var sq float64
	for _, df := range dfs {
		d := df - stats.MeanDf
		sq += d * d
	}
	stats.StdDf = math.Sqrt(sq / n)
	return stats
}
