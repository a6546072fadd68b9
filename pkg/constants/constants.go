// Package constants provides shared constants for the purefin application.
package constants

// Calendar constants
const (
	// MonthsPerYear converts monthly amounts to annual ones and back.
	MonthsPerYear = 12

	// DefaultDaysWorkedPerYear is the billable day count assumed by the daily
	// rate estimator.
	DefaultDaysWorkedPerYear = 220
)

// Currency constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyDecimalPlaces is the number of decimals kept on stored amounts.
	CurrencyDecimalPlaces = 2

	// MaxAmount is the largest monetary input accepted, in euros.
	MaxAmount = 1e12

	// CurrencySymbol is the symbol used when formatting amounts.
	CurrencySymbol = "€"
)

// Solver defaults
const (
	// DefaultSolverTolerance is the absolute distance, in euros, at which the
	// revenue search stops early.
	DefaultSolverTolerance = 5.0

	// DefaultSolverMaxIterations caps the bisection loop.
	DefaultSolverMaxIterations = 50

	// DefaultSolverUpperBoundFactor multiplies the target to obtain the
	// initial upper revenue bound.
	DefaultSolverUpperBoundFactor = 5.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides (PUREFIN_ADDRESS, ...).
	EnvPrefix = "PUREFIN"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":5209"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
