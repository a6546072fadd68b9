// Package forecast evaluates the scenarios of a configuration: each active
// scenario is calculated, and its required revenue solved when it carries a
// net income target.
package forecast

import (
	"context"
	"fmt"
	"strings"

	"github.com/secretMoi/Purefin/internal/config"
	"github.com/secretMoi/Purefin/internal/optimizer"
	"github.com/secretMoi/Purefin/internal/simulation"
	"github.com/secretMoi/Purefin/pkg/constants"
	"github.com/secretMoi/Purefin/pkg/mathutil"
	"github.com/secretMoi/Purefin/pkg/optimization"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Forecast holds the outcome of one scenario.
type Forecast struct {
	Name     string                   `json:"name"`
	Inputs   simulation.Inputs        `json:"inputs"`
	Result   simulation.Result        `json:"result"`
	Expenses []simulation.ExpenseLine `json:"expenses"`
	Solve    *optimization.Summary    `json:"solve,omitempty"`

	// DailyRate is the revenue spread over DaysWorked, zero when no day
	// count was given.
	DailyRate  float64  `json:"dailyRate,omitempty"`
	DaysWorked float64  `json:"daysWorked,omitempty"`
	Notes      []string `json:"notes,omitempty"`
}

// GetForecast evaluates every active scenario concurrently. Results keep the
// file order of the scenarios. Scenario inputs are validated first; the
// first invalid scenario aborts the run.
func GetForecast(ctx context.Context, logger *zap.Logger, conf config.Configuration, solver *optimizer.Solver) ([]Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if solver == nil {
		var err error
		solver, err = optimizer.NewSolver(logger, nil, conf.Solver)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize solver: %w", err)
		}
	}

	active := make([]config.Scenario, 0, len(conf.Scenarios))
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "forecast.GetForecast"),
			)
			continue
		}
		if err := scenario.Inputs.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
		active = append(active, scenario)
	}

	results := make([]Forecast, len(active))
	g, ctx := errgroup.WithContext(ctx)
	for i, scenario := range active {
		i, scenario := i, scenario
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = evaluate(scenario, solver)
			logger.Debug("scenario evaluated",
				zap.String("op", "forecast.GetForecast"),
				zap.String("scenario", scenario.Name),
				zap.Float64("revenue", results[i].Result.Revenue),
				zap.Float64("netAnnual", results[i].Result.NetAnnual),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func evaluate(scenario config.Scenario, solver *optimizer.Solver) Forecast {
	inputs := scenario.Inputs
	result := Forecast{
		Name:       strings.TrimSpace(scenario.Name),
		DaysWorked: scenario.DaysWorked,
	}

	if scenario.Solves() {
		summary := solver.SolveRequiredRevenue(scenario.TargetNetMonthly*constants.MonthsPerYear, inputs)
		inputs = inputs.WithRevenue(summary.Revenue)
		result.Solve = &summary
		if !summary.Converged {
			result.Notes = append(result.Notes, summary.Notes...)
		}
	}

	result.Inputs = inputs
	result.Result = solver.Calculator().Calculate(inputs)
	result.Expenses = solver.Calculator().ExpenseLines(inputs)
	if scenario.DaysWorked > 0 {
		result.DailyRate = mathutil.Round(mathutil.SafeDivide(result.Result.Revenue, scenario.DaysWorked))
	}
	if result.Result.Reserves < 0 {
		result.Notes = append(result.Notes, "company expenses exceed revenue; reserves are negative")
	}
	return result
}
