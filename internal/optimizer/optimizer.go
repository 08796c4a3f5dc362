// Package optimizer searches propellant-to-stage assignments for the one
// that maximizes a rocket's total delta-v, optionally under per-stage
// propellant-volume limits. The search enumerates the full assignment space
// (|catalog|^stages candidates) across a bounded worker pool and reduces
// deterministically: ties go to the earliest-generated candidate no matter
// which worker finishes first.
package optimizer

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/papapumpkin/apogee/internal/propellant"
	"github.com/papapumpkin/apogee/internal/vehicle"
)

// StageBudget holds the fixed mass figures for one stage position. The
// search never alters a budget; only the propellant assigned to it varies.
type StageBudget struct {
	DryMass        float64 // kg
	PropellantMass float64 // kg
	PayloadMass    float64 // kg
}

// Options configures a search. The zero value is valid: no volume limits,
// one worker per CPU, and the ten best candidates retained for inspection.
type Options struct {
	// VolumeLimits caps each stage's propellant volume in m³. When non-nil
	// it must hold one limit per stage; candidates exceeding any limit are
	// dropped whole. Nil means unconstrained.
	VolumeLimits []float64

	// Workers bounds the evaluation pool. Values < 1 mean runtime.NumCPU.
	Workers int

	// KeepTop is how many ranked candidates to retain in the result beyond
	// the best one. Values < 0 disable ranking; 0 means the default of 10.
	KeepTop int
}

const defaultKeepTop = 10

// Candidate is one fully evaluated propellant assignment.
type Candidate struct {
	// Index is the candidate's position in generation order; it is the
	// tie-break key and stable across serial and parallel runs.
	Index  int
	Rocket vehicle.Rocket
	DeltaV float64
}

// Result reports the outcome of a search.
type Result struct {
	Best      Candidate
	Evaluated int // total candidates generated (|catalog|^stages)
	Feasible  int // candidates that passed the volume filter
	Ranked    []Candidate
}

// FindBest enumerates every propellant assignment for the given stage
// budgets and returns the one with the highest total delta-v. Ties are won
// by the earliest-generated candidate. It returns ErrNoFeasibleSolution when
// the space is empty or fully filtered out, and surfaces any
// vehicle.ErrInvalidConfiguration immediately: invalid masses are shared by
// every candidate built from that budget, so they are a caller bug rather
// than a bad candidate.
func FindBest(budgets []StageBudget, catalog *propellant.Catalog, opts Options) (Result, error) {
	if opts.VolumeLimits != nil && len(opts.VolumeLimits) != len(budgets) {
		return Result{}, fmt.Errorf("volume limits: got %d, want one per stage (%d)",
			len(opts.VolumeLimits), len(budgets))
	}

	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	keepTop := opts.KeepTop
	if keepTop == 0 {
		keepTop = defaultKeepTop
	}

	type job struct {
		index int
		combo []int
	}
	type outcome struct {
		cand     Candidate
		feasible bool
		err      error
	}

	jobs := make(chan job, workers)
	outcomes := make(chan outcome, workers)
	stop := make(chan struct{})

	// Producer: walk the assignment space in generation order.
	go func() {
		defer close(jobs)
		gen := newGenerator(catalog.Len(), len(budgets))
		i := 0
		for combo, ok := gen.next(); ok; combo, ok = gen.next() {
			select {
			case jobs <- job{index: i, combo: combo}:
			case <-stop:
				return
			}
			i++
		}
	}()

	// Workers: build and score one fresh rocket per candidate.
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				rocket := buildRocket(budgets, catalog, j.combo)
				// Score before filtering so invalid masses surface even
				// when every candidate is volume-excluded.
				dv, err := rocket.TotalDeltaV()
				if err != nil {
					outcomes <- outcome{
						cand: Candidate{Index: j.index},
						err:  fmt.Errorf("candidate %d: %w", j.index, err),
					}
					continue
				}
				if !withinVolumeLimits(rocket, opts.VolumeLimits) {
					outcomes <- outcome{cand: Candidate{Index: j.index}}
					continue
				}
				outcomes <- outcome{
					cand:     Candidate{Index: j.index, Rocket: rocket, DeltaV: dv},
					feasible: true,
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	// Reducer: max by delta-v, lowest generation index on ties. Errors are
	// likewise reduced by generation index so the surfaced failure does not
	// depend on worker scheduling.
	res := Result{Best: Candidate{Index: -1}}
	var firstErr error
	firstErrIdx := -1
	stopped := false
	for o := range outcomes {
		res.Evaluated++
		if o.err != nil {
			if firstErrIdx < 0 || o.cand.Index < firstErrIdx {
				firstErr = o.err
				firstErrIdx = o.cand.Index
			}
			if !stopped {
				close(stop)
				stopped = true
			}
			continue
		}
		if !o.feasible {
			continue
		}
		res.Feasible++
		if better(o.cand, res.Best) {
			res.Best = o.cand
		}
		if keepTop > 0 {
			res.Ranked = append(res.Ranked, o.cand)
			if len(res.Ranked) > 4*keepTop {
				sortRanked(res.Ranked)
				res.Ranked = res.Ranked[:keepTop]
			}
		}
	}
	if firstErr != nil {
		return Result{}, firstErr
	}
	if res.Best.Index < 0 {
		return Result{}, fmt.Errorf("%w: %d candidates evaluated, %d feasible",
			ErrNoFeasibleSolution, res.Evaluated, res.Feasible)
	}

	if keepTop > 0 {
		sortRanked(res.Ranked)
		if len(res.Ranked) > keepTop {
			res.Ranked = res.Ranked[:keepTop]
		}
	}
	return res, nil
}

// better reports whether a should replace b as the running best. Strict
// greater-than on score, so of equal-scoring candidates the one generated
// first is retained.
func better(a, b Candidate) bool {
	if b.Index < 0 {
		return true
	}
	if a.DeltaV != b.DeltaV {
		return a.DeltaV > b.DeltaV
	}
	return a.Index < b.Index
}

// buildRocket assembles a candidate: budget i keeps its masses and takes the
// i-th propellant of the assignment.
func buildRocket(budgets []StageBudget, catalog *propellant.Catalog, combo []int) vehicle.Rocket {
	stages := make([]vehicle.Stage, len(budgets))
	for i, b := range budgets {
		stages[i] = vehicle.Stage{
			Propellant:     catalog.At(combo[i]),
			DryMass:        b.DryMass,
			PropellantMass: b.PropellantMass,
			PayloadMass:    b.PayloadMass,
		}
	}
	return vehicle.Rocket{Stages: stages}
}

// withinVolumeLimits reports whether every stage's propellant volume fits
// its limit. A candidate either fully satisfies all limits or is dropped;
// limit violations are expected and never an error.
func withinVolumeLimits(r vehicle.Rocket, limits []float64) bool {
	if limits == nil {
		return true
	}
	for i, s := range r.Stages {
		if s.PropellantVolume() > limits[i] {
			return false
		}
	}
	return true
}

func sortRanked(cands []Candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].DeltaV != cands[j].DeltaV {
			return cands[i].DeltaV > cands[j].DeltaV
		}
		return cands[i].Index < cands[j].Index
	})
}
