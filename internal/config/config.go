// Package config defines the data structures related to configuration and
// includes functions for loading and validating the scenario file.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/secretMoi/Purefin/internal/simulation"
	"github.com/secretMoi/Purefin/pkg/constants"
	"github.com/secretMoi/Purefin/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for purefin.
type Configuration struct {
	Scenarios []Scenario    `yaml:"scenarios" mapstructure:"scenarios"`
	Solver    SolverConfig  `yaml:"solver,omitempty" mapstructure:"solver"`
	Logging   LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Output    OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv
}

// Scenario is one named set of simulation inputs. When TargetNetMonthly is
// set, the required revenue is solved instead of using Inputs.Revenue.
type Scenario struct {
	Name             string            `yaml:"name" mapstructure:"name"`
	Active           bool              `yaml:"active" mapstructure:"active"`
	Inputs           simulation.Inputs `yaml:"inputs" mapstructure:"inputs"`
	TargetNetMonthly float64           `yaml:"targetNetMonthly,omitempty" mapstructure:"targetNetMonthly"`
	DaysWorked       float64           `yaml:"daysWorked,omitempty" mapstructure:"daysWorked"`
}

// Solves reports whether the scenario asks for a required revenue.
func (s Scenario) Solves() bool {
	return s.TargetNetMonthly > 0
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML configuration held in memory.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.Solver.Normalize()
	return &configuration, nil
}

// ActiveScenarios returns the scenarios flagged active, in file order.
func (c *Configuration) ActiveScenarios() []Scenario {
	return lo.Filter(c.Scenarios, func(s Scenario, _ int) bool {
		return s.Active
	})
}

// Validate returns an error for settings that make the run impossible:
// invalid solver settings, negative or non-finite inputs, bad day counts.
func (c *Configuration) Validate() error {
	var errs []error
	if err := c.Solver.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := validation.ValidateLogFormat(c.Logging.Format); err != nil {
		errs = append(errs, err)
	}
	for _, scenario := range c.Scenarios {
		if err := scenario.Inputs.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("scenario %q: %w", scenario.Name, err))
		}
		if err := validation.ValidateAmount("targetNetMonthly", scenario.TargetNetMonthly); err != nil {
			errs = append(errs, fmt.Errorf("scenario %q: %w", scenario.Name, err))
		}
		if err := validation.ValidateDaysWorked(scenario.DaysWorked); err != nil {
			errs = append(errs, fmt.Errorf("scenario %q: %w", scenario.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(c.ActiveScenarios()) == 0 {
		warnings = append(warnings, "No active scenarios; nothing will be calculated")
	}

	seen := make(map[string]struct{})
	minimumSalary := simulation.DefaultRules().CorpMinimumSalary
	for i, scenario := range c.Scenarios {
		name := strings.TrimSpace(scenario.Name)
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("Scenario #%d has no name", i+1))
		}
		if _, dup := seen[name]; dup && name != "" {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' is defined more than once", name))
		}
		seen[name] = struct{}{}

		if !scenario.Active {
			continue
		}
		if scenario.Solves() && scenario.Inputs.Revenue > 0 {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' sets both revenue and targetNetMonthly; revenue will be solved and the configured value ignored", name))
		}
		if scenario.DaysWorked > 0 && !scenario.Solves() && scenario.Inputs.Revenue == 0 {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' sets daysWorked without revenue or targetNetMonthly; daily rate will be zero", name))
		}
		salaryAnnual := scenario.Inputs.GrossSalaryMonthly * constants.MonthsPerYear
		if salaryAnnual > 0 && salaryAnnual < minimumSalary {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' pays %.2f per year, below the %.2f minimum for the reduced corporate rate", name, salaryAnnual, minimumSalary))
		}
	}

	return warnings
}
