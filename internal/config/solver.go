package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/secretMoi/Purefin/pkg/constants"
)

const (
	// ObjectiveCombined targets net salary plus company reserves.
	ObjectiveCombined = "combined"
	// ObjectivePersonal targets the personal net salary alone.
	ObjectivePersonal = "personal"
)

// SolverConfig tunes the required-revenue search.
type SolverConfig struct {
	Tolerance        float64 `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations    int     `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
	UpperBoundFactor float64 `yaml:"upperBoundFactor,omitempty" mapstructure:"upperBoundFactor"`
	Objective        string  `yaml:"objective,omitempty" mapstructure:"objective"`
}

// DefaultSolverConfig returns the normalized default solver settings.
func DefaultSolverConfig() SolverConfig {
	var cfg SolverConfig
	cfg.Normalize()
	return cfg
}

// CanonicalObjective returns the canonical identifier for a solver objective.
func CanonicalObjective(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ObjectiveCombined
	}
	switch strings.ToLower(trimmed) {
	case "combined", "total", "net_combined", "netcombined":
		return ObjectiveCombined
	case "personal", "net", "netannual", "net_annual":
		return ObjectivePersonal
	default:
		return strings.ToLower(trimmed)
	}
}

// Normalize ensures defaults and canonical values are applied before validation.
func (s *SolverConfig) Normalize() {
	if s == nil {
		return
	}
	s.Objective = CanonicalObjective(s.Objective)
	if s.Tolerance <= 0 {
		s.Tolerance = constants.DefaultSolverTolerance
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = constants.DefaultSolverMaxIterations
	}
	if s.UpperBoundFactor <= 0 {
		s.UpperBoundFactor = constants.DefaultSolverUpperBoundFactor
	}
}

// Validate returns an error when the solver configuration is unsupported.
func (s *SolverConfig) Validate() error {
	if s == nil {
		return fmt.Errorf("solver configuration cannot be nil")
	}

	s.Normalize()

	switch s.Objective {
	case ObjectiveCombined, ObjectivePersonal:
	default:
		return fmt.Errorf("solver objective %q is not supported", s.Objective)
	}
	if math.IsNaN(s.Tolerance) || math.IsInf(s.Tolerance, 0) {
		return fmt.Errorf("solver tolerance must be finite")
	}
	if math.IsNaN(s.UpperBoundFactor) || math.IsInf(s.UpperBoundFactor, 0) || s.UpperBoundFactor < 1 {
		return fmt.Errorf("solver upper bound factor %.2f must be at least 1", s.UpperBoundFactor)
	}
	if s.MaxIterations > 1000 {
		return fmt.Errorf("solver maxIterations %d exceeds the limit of 1000", s.MaxIterations)
	}
	return nil
}
