package optimizer

import (
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/secretMoi/Purefin/internal/config"
	"github.com/secretMoi/Purefin/internal/simulation"
	"go.uber.org/zap"
)

func exampleInputs() simulation.Inputs {
	return simulation.Inputs{
		GrossSalaryMonthly:  4000,
		InsuranceAnnual:     2000,
		PhoneMonthly:        50,
		InternetMonthly:     50,
		CarMonthly:          600,
		MealVouchersMonthly: 160,
		RestaurantMonthly:   200,
		PensionAnnual:       3000,
		OtherAnnual:         5000,
	}
}

func newTestSolver(t *testing.T, cfg config.SolverConfig) *Solver {
	t.Helper()
	solver, err := NewSolver(zap.NewNop(), nil, cfg)
	if err != nil {
		t.Fatalf("NewSolver() error = %v", err)
	}
	return solver
}

func TestSolveRequiredRevenueConverges(t *testing.T) {
	summary := SolveRequiredRevenue(60000, exampleInputs())

	if !summary.Converged {
		t.Fatalf("expected convergence, got %+v", summary)
	}
	if summary.Revenue != 113614 {
		t.Fatalf("expected revenue 113614, got %v", summary.Revenue)
	}
	if summary.Iterations != 12 {
		t.Fatalf("expected 12 iterations, got %d", summary.Iterations)
	}
	if math.Abs(summary.Achieved-60000) >= 5 {
		t.Fatalf("expected combined net within 5 of target, got %v", summary.Achieved)
	}
	check := simulation.Calculate(exampleInputs().WithRevenue(summary.Revenue))
	if check.NetCombinedAnnual != summary.Achieved {
		t.Fatalf("achieved %v does not match recalculation %v", summary.Achieved, check.NetCombinedAnnual)
	}
	if len(summary.Notes) != 0 {
		t.Fatalf("expected no notes on convergence, got %v", summary.Notes)
	}
}

func TestSolveRequiredRevenueWithinToleranceAcrossTargets(t *testing.T) {
	solver := newTestSolver(t, config.DefaultSolverConfig())
	for target := 20000.0; target <= 200000; target += 7500 {
		summary := solver.SolveRequiredRevenue(target, exampleInputs())
		if !summary.Converged {
			t.Fatalf("target %v did not converge: %+v", target, summary)
		}
		if summary.Revenue < target || summary.Revenue > math.Ceil(target*5) {
			t.Fatalf("target %v: revenue %v outside search bracket", target, summary.Revenue)
		}
		// Rounding the revenue up moves the objective by at most one unit.
		if math.Abs(summary.Gap) >= 6 {
			t.Fatalf("target %v: gap %v too large", target, summary.Gap)
		}
		if summary.Revenue != math.Ceil(summary.Revenue) {
			t.Fatalf("target %v: revenue %v is not a whole number", target, summary.Revenue)
		}
	}
}

func TestSolveIgnoresFixedRevenue(t *testing.T) {
	withRevenue := exampleInputs()
	withRevenue.Revenue = 999999

	a := SolveRequiredRevenue(60000, exampleInputs())
	b := SolveRequiredRevenue(60000, withRevenue)
	if a.Revenue != b.Revenue {
		t.Fatalf("fixed revenue leaked into the search: %v vs %v", a.Revenue, b.Revenue)
	}
}

func TestSolvePersonalObjectiveFlagsNonConvergence(t *testing.T) {
	solver := newTestSolver(t, config.SolverConfig{Objective: config.ObjectivePersonal})

	summary := solver.SolveRequiredRevenue(60000, exampleInputs())
	if summary.Converged {
		t.Fatalf("personal net does not depend on revenue; expected non-convergence, got %+v", summary)
	}
	if summary.Iterations != 50 {
		t.Fatalf("expected the iteration cap to be reached, got %d", summary.Iterations)
	}
	if summary.Revenue != 300000 {
		t.Fatalf("expected the initial upper bound to be returned, got %v", summary.Revenue)
	}
	notes := strings.Join(summary.Notes, "\n")
	if !strings.Contains(notes, "upper bound") {
		t.Fatalf("expected an upper bound note, got %q", notes)
	}
}

func TestSolveInsufficientUpperBound(t *testing.T) {
	solver := newTestSolver(t, config.SolverConfig{UpperBoundFactor: 1})

	summary := solver.SolveRequiredRevenue(60000, exampleInputs())
	if summary.Converged {
		t.Fatalf("expected non-convergence with a collapsed bracket, got %+v", summary)
	}
	if summary.Revenue != 60000 {
		t.Fatalf("expected revenue 60000, got %v", summary.Revenue)
	}
	if summary.Achieved >= 60000 {
		t.Fatalf("expected the returned revenue to fall short, got %v", summary.Achieved)
	}
	if len(summary.Notes) != 2 {
		t.Fatalf("expected two notes, got %v", summary.Notes)
	}
}

func TestSolveMaxIterationsRespected(t *testing.T) {
	solver := newTestSolver(t, config.SolverConfig{MaxIterations: 3, Tolerance: 0.0001})

	summary := solver.SolveRequiredRevenue(60000, exampleInputs())
	if summary.Iterations != 3 {
		t.Fatalf("expected 3 iterations, got %d", summary.Iterations)
	}
	if summary.Converged {
		t.Fatalf("expected non-convergence with 3 iterations")
	}
	// Best upper bound found must over-shoot the target, never under-shoot.
	if summary.Achieved < 60000 {
		t.Fatalf("expected an upper bound revenue, achieved %v", summary.Achieved)
	}
}

func TestSolveNonPositiveTarget(t *testing.T) {
	summary := SolveRequiredRevenue(0, simulation.Inputs{})
	if summary.Revenue != 0 || !summary.Converged || summary.Iterations != 0 {
		t.Fatalf("expected zero revenue for zero target, got %+v", summary)
	}

	// With expenses but no revenue the combined net is negative: unreachable.
	summary = SolveRequiredRevenue(-1, exampleInputs())
	if summary.Converged {
		t.Fatalf("expected flagged result, got %+v", summary)
	}

	summary = SolveRequiredRevenue(math.Inf(1), exampleInputs())
	if summary.Converged || len(summary.Notes) == 0 || summary.Target != 0 {
		t.Fatalf("expected rejected infinite target, got %+v", summary)
	}
}

func TestSolveHugeTargetsStayFinite(t *testing.T) {
	tests := []struct {
		name            string
		target          float64
		expectSearched  bool
		expectNoteMatch string
	}{
		{"Upper bound overflows", 1e308, false, "overflows"},
		{"Largest float", math.MaxFloat64, false, "overflows"},
		{"Finite but unreachable", 1e200, true, "does not reach the target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := SolveRequiredRevenue(tt.target, exampleInputs())

			if summary.Converged {
				t.Fatalf("expected unconverged result, got %+v", summary)
			}
			for name, value := range map[string]float64{
				"Revenue":    summary.Revenue,
				"Achieved":   summary.Achieved,
				"Gap":        summary.Gap,
				"UpperBound": summary.UpperBound,
			} {
				if math.IsNaN(value) || math.IsInf(value, 0) {
					t.Errorf("%s = %v, expected a finite value", name, value)
				}
			}
			if searched := summary.Iterations > 0; searched != tt.expectSearched {
				t.Errorf("Iterations = %d, expected searched=%v", summary.Iterations, tt.expectSearched)
			}
			if !strings.Contains(strings.Join(summary.Notes, " "), tt.expectNoteMatch) {
				t.Errorf("expected a note containing %q, got %v", tt.expectNoteMatch, summary.Notes)
			}
		})
	}
}

func TestSolveConcurrentCallsAgree(t *testing.T) {
	solver := newTestSolver(t, config.DefaultSolverConfig())
	expected := solver.SolveRequiredRevenue(75000, exampleInputs())

	var wg sync.WaitGroup
	results := make([]float64, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = solver.SolveRequiredRevenue(75000, exampleInputs()).Revenue
		}(i)
	}
	wg.Wait()

	for i, revenue := range results {
		if revenue != expected.Revenue {
			t.Fatalf("goroutine %d returned %v, expected %v", i, revenue, expected.Revenue)
		}
	}
}

func TestNewSolverRejectsInvalidConfig(t *testing.T) {
	if _, err := NewSolver(nil, nil, config.SolverConfig{Objective: "dividends"}); err == nil {
		t.Fatal("expected error for unsupported objective")
	}

	solver := newTestSolver(t, config.SolverConfig{})
	personal, err := solver.WithObjective("personal")
	if err != nil {
		t.Fatalf("WithObjective() error = %v", err)
	}
	if personal.Config().Objective != config.ObjectivePersonal {
		t.Fatalf("expected personal objective, got %q", personal.Config().Objective)
	}
	if solver.Config().Objective != config.ObjectiveCombined {
		t.Fatalf("original solver must be unchanged, got %q", solver.Config().Objective)
	}
}
