package integration

import (
	"context"
	"encoding/csv"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/secretMoi/Purefin/internal/config"
	"github.com/secretMoi/Purefin/internal/forecast"
	"github.com/secretMoi/Purefin/internal/optimizer"
	"github.com/secretMoi/Purefin/internal/simulation"
	"github.com/secretMoi/Purefin/internal/snapshot"
	"github.com/secretMoi/Purefin/pkg/output"
	"github.com/secretMoi/Purefin/pkg/testutil"
	"go.uber.org/zap"
)

const exampleConfig = "../../config.yaml.example"

func runExample(t *testing.T) (*config.Configuration, []forecast.Forecast) {
	t.Helper()
	logger := zap.NewNop()

	// Load and process the example configuration exactly as main() does
	conf, err := config.LoadConfiguration(exampleConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if err := conf.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	solver, err := optimizer.NewSolver(logger, nil, conf.Solver)
	if err != nil {
		t.Fatalf("NewSolver() error = %v", err)
	}
	results, err := forecast.GetForecast(context.Background(), logger, *conf, solver)
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	return conf, results
}

// TestMainIntegrationBaseline pins the reference figures of the example
// configuration.
func TestMainIntegrationBaseline(t *testing.T) {
	conf, results := runExample(t)

	warnings := conf.ValidateConfiguration()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "salary only") {
		t.Errorf("expected a single reduced-rate warning for the salary only scenario, got %v", warnings)
	}

	expectedScenarios := []string{
		"current contract",
		"target 5k net per month",
		"salary only",
	}
	if len(results) != len(expectedScenarios) {
		t.Fatalf("Expected %d scenarios, got %d", len(expectedScenarios), len(results))
	}
	for i, expected := range expectedScenarios {
		if results[i].Name != expected {
			t.Errorf("Expected scenario %d to be %q, got %q", i, expected, results[i].Name)
		}
	}

	current := testutil.FindScenario(results, "current contract")
	res := current.Result
	testutil.AssertClose(t, "grossSalaryAnnual", res.GrossSalaryAnnual, 48000, 0.001)
	testutil.AssertClose(t, "socialContributions", res.SocialContributions, 10479.81, 0.01)
	testutil.AssertClose(t, "ipp", res.IPP, 11682.21, 0.01)
	testutil.AssertClose(t, "netAnnual", res.NetAnnual, 25837.98, 0.01)
	testutil.AssertClose(t, "corpTax", res.CorpTax, 10004.80, 0.01)
	testutil.AssertClose(t, "reserves", res.Reserves, 39275.20, 0.01)
	testutil.AssertClose(t, "dailyRate", current.DailyRate, 545.45, 0.001)

	target := testutil.FindScenario(results, "target 5k net per month")
	if target.Solve == nil || !target.Solve.Converged {
		t.Fatalf("expected converged solve, got %+v", target.Solve)
	}
	testutil.AssertClose(t, "solved revenue", target.Result.Revenue, 113614, 0)
	if math.Abs(target.Result.NetCombinedAnnual-60000) >= 6 {
		t.Errorf("solved combined net %v too far from 60000", target.Result.NetCombinedAnnual)
	}

	salaryOnly := testutil.FindScenario(results, "salary only")
	if salaryOnly.Result.ReducedRateApplied {
		t.Error("salary below the minimum must not get the reduced corporate rate")
	}
	testutil.AssertClose(t, "salary only corpTax", salaryOnly.Result.CorpTax, 0.25*(90000-42000), 0.001)

	if testutil.FindScenario(results, "lower salary experiment") != nil {
		t.Error("inactive scenario must not be evaluated")
	}
}

func TestCSVOutputFormat(t *testing.T) {
	_, results := runExample(t)

	data, err := output.CsvString(results)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}
	if len(records) != len(results)+1 {
		t.Fatalf("expected %d CSV rows, got %d", len(results)+1, len(records))
	}
	for i, result := range results {
		if records[i+1][0] != result.Name {
			t.Errorf("row %d scenario = %q, expected %q", i+1, records[i+1][0], result.Name)
		}
	}
}

// TestSnapshotRoundTrip stores every example scenario and verifies the
// stored figures against a recalculation.
func TestSnapshotRoundTrip(t *testing.T) {
	_, results := runExample(t)

	for _, result := range results {
		t.Run(result.Name, func(t *testing.T) {
			rec, err := snapshot.New(result.Name, result.Inputs, nil)
			if err != nil {
				t.Fatalf("snapshot.New() error = %v", err)
			}
			if err := rec.Verify(nil); err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			testutil.AssertClose(t, "stored netAnnual", rec.CalculatedNetAnnual.InexactFloat64(), result.Result.NetAnnual, 0.005)
			testutil.AssertClose(t, "stored reserves", rec.CalculatedReserves.InexactFloat64(), result.Result.Reserves, 0.005)
		})
	}
}

func TestPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}

	var conf config.Configuration
	for i := 0; i < 200; i++ {
		in := testutil.ExampleInputs()
		in.GrossSalaryMonthly = float64(2000 + i*25)
		conf.Scenarios = append(conf.Scenarios, config.Scenario{
			Name:             "scenario",
			Active:           true,
			Inputs:           in,
			TargetNetMonthly: float64(3000 + i*20),
		})
	}
	conf.Solver.Normalize()

	start := time.Now()
	results, err := forecast.GetForecast(context.Background(), zap.NewNop(), conf, nil)
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	elapsed := time.Since(start)

	if len(results) != 200 {
		t.Fatalf("expected 200 results, got %d", len(results))
	}
	for i, result := range results {
		if result.Solve == nil {
			t.Fatalf("result %d was not solved", i)
		}
	}
	if elapsed > 5*time.Second {
		t.Errorf("solving 200 scenarios took %v", elapsed)
	}
	t.Logf("solved 200 scenarios in %v", elapsed)
}

func TestDataConsistency(t *testing.T) {
	in := testutil.ExampleInputs()
	first := simulation.Calculate(in)
	for i := 0; i < 10; i++ {
		if got := simulation.Calculate(in); got != first {
			t.Fatalf("run %d produced a different result", i)
		}
	}
}
