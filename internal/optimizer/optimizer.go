// Package optimizer inverts the forward calculation: it searches the company
// revenue needed to reach a target net income.
package optimizer

import (
	"fmt"
	"math"

	"github.com/secretMoi/Purefin/internal/config"
	"github.com/secretMoi/Purefin/internal/simulation"
	"github.com/secretMoi/Purefin/pkg/format"
	"github.com/secretMoi/Purefin/pkg/mathutil"
	"github.com/secretMoi/Purefin/pkg/optimization"
	"go.uber.org/zap"
)

// Solver runs the required-revenue bisection. It is immutable after
// construction and safe for concurrent use.
type Solver struct {
	logger *zap.Logger
	calc   *simulation.Calculator
	cfg    config.SolverConfig
}

// NewSolver constructs a Solver. A nil logger or calculator falls back to a
// no-op logger and the default calculator.
func NewSolver(logger *zap.Logger, calc *simulation.Calculator, cfg config.SolverConfig) (*Solver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if calc == nil {
		calc = simulation.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{logger: logger, calc: calc, cfg: cfg}, nil
}

var defaultSolver = &Solver{
	logger: zap.NewNop(),
	calc:   simulation.Default(),
	cfg:    config.DefaultSolverConfig(),
}

// SolveRequiredRevenue searches with the default calculator and settings.
func SolveRequiredRevenue(targetNetAnnual float64, fixed simulation.Inputs) optimization.Summary {
	return defaultSolver.SolveRequiredRevenue(targetNetAnnual, fixed)
}

// Config returns the solver settings.
func (s *Solver) Config() config.SolverConfig {
	return s.cfg
}

// Calculator returns the engine the solver evaluates.
func (s *Solver) Calculator() *simulation.Calculator {
	return s.calc
}

// WithObjective returns a copy of the solver targeting another objective.
func (s *Solver) WithObjective(objective string) (*Solver, error) {
	cfg := s.cfg
	cfg.Objective = objective
	return NewSolver(s.logger, s.calc, cfg)
}

// SolveRequiredRevenue returns the revenue at which the objective reaches
// targetNetAnnual. fixed.Revenue is ignored.
//
// The search assumes the objective never decreases as revenue grows. It starts
// from [target, target × UpperBoundFactor] and stops as soon as the objective
// lies within Tolerance of the target. When MaxIterations is exhausted the
// tightest upper bound found is returned with Converged set to false.
func (s *Solver) SolveRequiredRevenue(targetNetAnnual float64, fixed simulation.Inputs) optimization.Summary {
	fixed = fixed.Clamped()
	summary := optimization.Summary{
		Objective: s.cfg.Objective,
		Target:    targetNetAnnual,
	}

	if !mathutil.IsFinite(targetNetAnnual) {
		summary.Target = 0
		summary.Notes = []string{"target net income must be a finite number"}
		s.finish(&summary, 0, fixed)
		return summary
	}

	if targetNetAnnual <= 0 {
		s.finish(&summary, 0, fixed)
		summary.Converged = summary.Achieved > targetNetAnnual || mathutil.WithinTolerance(summary.Achieved, targetNetAnnual, s.cfg.Tolerance)
		if !summary.Converged {
			summary.Notes = []string{fmt.Sprintf("target %s is not reachable even with zero revenue", format.Currency(targetNetAnnual))}
		}
		return summary
	}

	low := targetNetAnnual
	high := targetNetAnnual * s.cfg.UpperBoundFactor
	if !mathutil.IsFinite(high) {
		s.finish(&summary, 0, fixed)
		summary.Notes = []string{fmt.Sprintf(
			"upper bound for target %g overflows; no revenue was searched", targetNetAnnual,
		)}
		return summary
	}
	initialHigh := high
	best := high
	summary.LowerBound = low
	summary.UpperBound = high

	for summary.Iterations < s.cfg.MaxIterations {
		mid := (low + high) / 2
		value := s.objective(s.calc.Calculate(fixed.WithRevenue(mid)))
		summary.Iterations++

		if mathutil.WithinTolerance(value, targetNetAnnual, s.cfg.Tolerance) {
			summary.Converged = true
			s.finish(&summary, math.Ceil(mid), fixed)
			return summary
		}
		if value < targetNetAnnual {
			low = mid
		} else {
			best = mid
			high = mid
		}
	}

	s.finish(&summary, math.Ceil(best), fixed)
	summary.Notes = append(summary.Notes, fmt.Sprintf(
		"no revenue within %s of the target after %d iterations",
		format.Currency(s.cfg.Tolerance), summary.Iterations,
	))
	if best == initialHigh && summary.Achieved < targetNetAnnual {
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"upper bound %s does not reach the target; the returned revenue is not a solution",
			format.Currency(initialHigh),
		))
	}
	return summary
}

func (s *Solver) finish(summary *optimization.Summary, revenue float64, fixed simulation.Inputs) {
	summary.Revenue = revenue
	summary.Achieved = s.objective(s.calc.Calculate(fixed.WithRevenue(revenue)))
	summary.Gap = summary.Achieved - summary.Target

	s.logger.Debug("required revenue search finished",
		zap.String("op", "optimizer.SolveRequiredRevenue"),
		zap.String("objective", summary.Objective),
		zap.Float64("target", summary.Target),
		zap.Float64("revenue", summary.Revenue),
		zap.Float64("achieved", summary.Achieved),
		zap.Int("iterations", summary.Iterations),
		zap.Bool("converged", summary.Converged),
	)
}

func (s *Solver) objective(res simulation.Result) float64 {
	if s.cfg.Objective == config.ObjectivePersonal {
		return res.NetAnnual
	}
	return res.NetCombinedAnnual
}
