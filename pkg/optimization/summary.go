// Package optimization provides shared data structures for solver results.
package optimization

// Summary captures the outcome of one required-revenue search.
type Summary struct {
	Objective  string   `json:"objective"`
	Target     float64  `json:"target"`
	Revenue    float64  `json:"revenue"`
	Achieved   float64  `json:"achieved"`
	Gap        float64  `json:"gap"`
	LowerBound float64  `json:"lowerBound"`
	UpperBound float64  `json:"upperBound"`
	Iterations int      `json:"iterations"`
	Converged  bool     `json:"converged"`
	Notes      []string `json:"notes,omitempty"`
}

// Estimate is a required revenue expressed as a daily rate.
type Estimate struct {
	TargetNetMonthly float64 `json:"targetNetMonthly"`
	DaysWorked       float64 `json:"daysWorked"`
	DailyRate        float64 `json:"dailyRate"`
	Summary          Summary `json:"summary"`
}
