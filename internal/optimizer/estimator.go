package optimizer

import (
	"github.com/secretMoi/Purefin/internal/simulation"
	"github.com/secretMoi/Purefin/pkg/constants"
	"github.com/secretMoi/Purefin/pkg/mathutil"
	"github.com/secretMoi/Purefin/pkg/optimization"
	"go.uber.org/zap"
)

// EstimatorPreset is the remuneration package assumed when the caller does not
// provide one: a modest salary with car, phone, internet, meal vouchers and
// restaurant costs paid by the company.
func EstimatorPreset() simulation.Inputs {
	return simulation.Inputs{
		GrossSalaryMonthly:  2500,
		CarMonthly:          600,
		PhoneMonthly:        50,
		InternetMonthly:     50,
		MealVouchersMonthly: 160,
		RestaurantMonthly:   200,
	}
}

// EstimateDailyRate solves the revenue needed for targetNetMonthly and spreads
// it over daysWorked. A zero day count yields a zero rate.
func (s *Solver) EstimateDailyRate(targetNetMonthly, daysWorked float64, fixed simulation.Inputs) optimization.Estimate {
	summary := s.SolveRequiredRevenue(targetNetMonthly*constants.MonthsPerYear, fixed)
	estimate := optimization.Estimate{
		TargetNetMonthly: targetNetMonthly,
		DaysWorked:       daysWorked,
		DailyRate:        mathutil.Round(mathutil.SafeDivide(summary.Revenue, daysWorked)),
		Summary:          summary,
	}

	s.logger.Debug("daily rate estimated",
		zap.String("op", "optimizer.EstimateDailyRate"),
		zap.Float64("targetNetMonthly", targetNetMonthly),
		zap.Float64("daysWorked", daysWorked),
		zap.Float64("dailyRate", estimate.DailyRate),
		zap.Bool("converged", summary.Converged),
	)
	return estimate
}
