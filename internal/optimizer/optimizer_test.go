package optimizer

import (
	"errors"
	"math"
	"testing"

	"github.com/papapumpkin/apogee/internal/propellant"
	"github.com/papapumpkin/apogee/internal/vehicle"
)

// testCatalog builds a catalog and fails the test on construction errors.
func testCatalog(t *testing.T, props ...propellant.Propellant) *propellant.Catalog {
	t.Helper()
	c, err := propellant.NewCatalog(props...)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

// saturnVBudgets are the demonstration S-IC/S-II/S-IVB mass figures.
func saturnVBudgets() []StageBudget {
	return []StageBudget{
		{DryMass: 137000, PropellantMass: 2077000, PayloadMass: 73706.5601077},
		{DryMass: 40100, PropellantMass: 456100},
		{DryMass: 15200, PropellantMass: 107800},
	}
}

func TestFindBest_EvaluatesFullSpace(t *testing.T) {
	t.Parallel()

	catalog := propellant.Builtin()
	res, err := FindBest(saturnVBudgets(), catalog, Options{Workers: 4})
	if err != nil {
		t.Fatalf("FindBest: %v", err)
	}

	if want := 64; res.Evaluated != want { // 4^3
		t.Errorf("Evaluated = %d, want %d", res.Evaluated, want)
	}
	if res.Feasible != res.Evaluated {
		t.Errorf("Feasible = %d, want %d (no volume limits)", res.Feasible, res.Evaluated)
	}
}

func TestFindBest_TwoByTwo(t *testing.T) {
	t.Parallel()

	// Scenario: 2 propellants, 2 stages, no limits → 4 candidates, and the
	// best assigns the higher-isp propellant everywhere.
	low := propellant.Propellant{Name: "low", Isp: 263, Density: 806}
	high := propellant.Propellant{Name: "high", Isp: 421, Density: 71}
	catalog := testCatalog(t, low, high)

	budgets := []StageBudget{
		{DryMass: 1000, PropellantMass: 9000},
		{DryMass: 500, PropellantMass: 2000},
	}

	res, err := FindBest(budgets, catalog, Options{Workers: 2})
	if err != nil {
		t.Fatalf("FindBest: %v", err)
	}

	if res.Evaluated != 4 {
		t.Errorf("Evaluated = %d, want 4", res.Evaluated)
	}
	for i, s := range res.Best.Rocket.Stages {
		if s.Propellant.Name != "high" {
			t.Errorf("stage %d propellant = %q, want %q", i, s.Propellant.Name, "high")
		}
	}
	// high,high is generated last of the four (index 3).
	if res.Best.Index != 3 {
		t.Errorf("Best.Index = %d, want 3", res.Best.Index)
	}
}

func TestFindBest_ZeroStages(t *testing.T) {
	t.Parallel()

	res, err := FindBest(nil, propellant.Builtin(), Options{})
	if err != nil {
		t.Fatalf("FindBest: %v", err)
	}
	if res.Evaluated != 1 {
		t.Errorf("Evaluated = %d, want exactly 1 empty candidate", res.Evaluated)
	}
	if res.Best.DeltaV != 0 {
		t.Errorf("Best.DeltaV = %f, want 0", res.Best.DeltaV)
	}
}

func TestFindBest_EmptyCatalog(t *testing.T) {
	t.Parallel()

	catalog := testCatalog(t)
	_, err := FindBest([]StageBudget{{DryMass: 1000, PropellantMass: 500}}, catalog, Options{})
	if !errors.Is(err, ErrNoFeasibleSolution) {
		t.Errorf("FindBest error = %v, want ErrNoFeasibleSolution", err)
	}
}

func TestFindBest_TieBreakKeepsFirstGenerated(t *testing.T) {
	t.Parallel()

	// Identical isp means identical delta-v for every assignment; the
	// earliest-generated candidate (all stages on the first catalog entry)
	// must win regardless of worker scheduling.
	a := propellant.Propellant{Name: "alpha", Isp: 300, Density: 1000}
	b := propellant.Propellant{Name: "beta", Isp: 300, Density: 500}
	catalog := testCatalog(t, a, b)

	budgets := []StageBudget{
		{DryMass: 1000, PropellantMass: 4000},
		{DryMass: 800, PropellantMass: 1600},
	}

	for _, workers := range []int{1, 8} {
		res, err := FindBest(budgets, catalog, Options{Workers: workers})
		if err != nil {
			t.Fatalf("FindBest(workers=%d): %v", workers, err)
		}
		if res.Best.Index != 0 {
			t.Errorf("workers=%d: Best.Index = %d, want 0 (first generated wins ties)",
				workers, res.Best.Index)
		}
		for i, s := range res.Best.Rocket.Stages {
			if s.Propellant.Name != "alpha" {
				t.Errorf("workers=%d: stage %d = %q, want %q", workers, i, s.Propellant.Name, "alpha")
			}
		}
	}
}

func TestFindBest_VolumeLimitExcludesBest(t *testing.T) {
	t.Parallel()

	// LH2/LOX has the highest isp but very low density, so its volume
	// explodes. A tight limit must push the optimizer to a denser choice
	// even though LH2/LOX would score highest.
	catalog := propellant.Builtin()
	budgets := []StageBudget{{DryMass: 10000, PropellantMass: 80000}}

	unconstrained, err := FindBest(budgets, catalog, Options{})
	if err != nil {
		t.Fatalf("FindBest (no limits): %v", err)
	}
	if got := unconstrained.Best.Rocket.Stages[0].Propellant.Name; got != "LH2/LOX" {
		t.Fatalf("unconstrained best = %q, want LH2/LOX", got)
	}

	// 80000 kg of LH2/LOX needs ≈ 1127 m³; 200 m³ rules it out but leaves
	// the denser propellants feasible.
	limited, err := FindBest(budgets, catalog, Options{VolumeLimits: []float64{200}})
	if err != nil {
		t.Fatalf("FindBest (limited): %v", err)
	}
	best := limited.Best.Rocket.Stages[0]
	if best.Propellant.Name == "LH2/LOX" {
		t.Error("volume-excluded propellant returned as best")
	}
	if vol := best.PropellantVolume(); vol > 200 {
		t.Errorf("best stage volume = %f m³, exceeds the 200 m³ limit", vol)
	}
	if limited.Feasible >= limited.Evaluated {
		t.Errorf("Feasible = %d, want < Evaluated = %d", limited.Feasible, limited.Evaluated)
	}
}

func TestFindBest_AllCandidatesFiltered(t *testing.T) {
	t.Parallel()

	catalog := propellant.Builtin()
	budgets := []StageBudget{{DryMass: 10000, PropellantMass: 80000}}

	// Below every propellant's minimum achievable volume (densest is Solid
	// at 1500 kg/m³ → ≈ 53 m³).
	_, err := FindBest(budgets, catalog, Options{VolumeLimits: []float64{1}})
	if !errors.Is(err, ErrNoFeasibleSolution) {
		t.Errorf("FindBest error = %v, want ErrNoFeasibleSolution", err)
	}
}

func TestFindBest_InvalidBudgetSurfaces(t *testing.T) {
	t.Parallel()

	catalog := propellant.Builtin()
	budgets := []StageBudget{
		{DryMass: 1000, PropellantMass: 500},
		{DryMass: 0, PropellantMass: 100, PayloadMass: 0}, // mass ratio undefined
	}

	_, err := FindBest(budgets, catalog, Options{Workers: 4})
	if !errors.Is(err, vehicle.ErrInvalidConfiguration) {
		t.Errorf("FindBest error = %v, want vehicle.ErrInvalidConfiguration", err)
	}
}

func TestFindBest_InvalidBudgetBeatsVolumeFilter(t *testing.T) {
	t.Parallel()

	// Even when every candidate would be volume-excluded, invalid masses
	// are a caller bug and must surface, not dissolve into "no solution".
	catalog := propellant.Builtin()
	budgets := []StageBudget{{DryMass: 0, PropellantMass: 100}}

	_, err := FindBest(budgets, catalog, Options{VolumeLimits: []float64{0.000001}})
	if !errors.Is(err, vehicle.ErrInvalidConfiguration) {
		t.Errorf("FindBest error = %v, want vehicle.ErrInvalidConfiguration", err)
	}
}

func TestFindBest_VolumeLimitCountMismatch(t *testing.T) {
	t.Parallel()

	catalog := propellant.Builtin()
	budgets := []StageBudget{{DryMass: 1000, PropellantMass: 500}}

	_, err := FindBest(budgets, catalog, Options{VolumeLimits: []float64{10, 20}})
	if err == nil {
		t.Error("FindBest accepted mismatched volume limit count")
	}
}

func TestFindBest_ParallelMatchesSerial(t *testing.T) {
	t.Parallel()

	catalog := propellant.Builtin()
	budgets := saturnVBudgets()

	serial, err := FindBest(budgets, catalog, Options{Workers: 1})
	if err != nil {
		t.Fatalf("FindBest(workers=1): %v", err)
	}
	parallel, err := FindBest(budgets, catalog, Options{Workers: 8})
	if err != nil {
		t.Fatalf("FindBest(workers=8): %v", err)
	}

	if serial.Best.Index != parallel.Best.Index {
		t.Errorf("Best.Index: serial %d, parallel %d", serial.Best.Index, parallel.Best.Index)
	}
	if math.Abs(serial.Best.DeltaV-parallel.Best.DeltaV) > 1e-9 {
		t.Errorf("Best.DeltaV: serial %f, parallel %f", serial.Best.DeltaV, parallel.Best.DeltaV)
	}
}

func TestFindBest_MonotonicInIsp(t *testing.T) {
	t.Parallel()

	// Holding masses fixed, a strictly higher-isp propellant on one stage
	// strictly increases that candidate's total delta-v, so the optimizer
	// must always assign the highest-isp propellant when unconstrained.
	base := propellant.Propellant{Name: "base", Isp: 300, Density: 1000}
	better := propellant.Propellant{Name: "better", Isp: 301, Density: 1000}
	catalog := testCatalog(t, base, better)

	budgets := []StageBudget{
		{DryMass: 2000, PropellantMass: 6000},
		{DryMass: 1000, PropellantMass: 3000},
	}

	res, err := FindBest(budgets, catalog, Options{})
	if err != nil {
		t.Fatalf("FindBest: %v", err)
	}
	for i, s := range res.Best.Rocket.Stages {
		if s.Propellant.Name != "better" {
			t.Errorf("stage %d propellant = %q, want %q", i, s.Propellant.Name, "better")
		}
	}
}

func TestFindBest_RankedOrdering(t *testing.T) {
	t.Parallel()

	catalog := propellant.Builtin()
	res, err := FindBest(saturnVBudgets(), catalog, Options{KeepTop: 5})
	if err != nil {
		t.Fatalf("FindBest: %v", err)
	}

	if len(res.Ranked) != 5 {
		t.Fatalf("len(Ranked) = %d, want 5", len(res.Ranked))
	}
	if res.Ranked[0].Index != res.Best.Index {
		t.Errorf("Ranked[0].Index = %d, want Best.Index = %d", res.Ranked[0].Index, res.Best.Index)
	}
	for i := 1; i < len(res.Ranked); i++ {
		prev, cur := res.Ranked[i-1], res.Ranked[i]
		if cur.DeltaV > prev.DeltaV {
			t.Errorf("Ranked[%d].DeltaV = %f > Ranked[%d].DeltaV = %f", i, cur.DeltaV, i-1, prev.DeltaV)
		}
		if cur.DeltaV == prev.DeltaV && cur.Index < prev.Index {
			t.Errorf("Ranked tie at %d broken against generation order", i)
		}
	}
}
