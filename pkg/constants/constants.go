// Package constants provides shared constants for the growth-forecast application.
package constants

// DateTimeLayout is the format expected for the optional calendar start date
// and used for calendar labels in output.
const DateTimeLayout = "2006-01"

// Calendar constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// MonthsPerQuarter is the number of months in a quarter
	MonthsPerQuarter = 3

	// WeeksPerMonth converts weekly figures to monthly ones
	WeeksPerMonth = 52.0 / 12.0

	// DaysPerMonth converts daily capacity limits to monthly ones
	DaysPerMonth = 30.0
)

// Cost driver types that change how a cost item is spread per month.
const (
	DriverMonthly   = "monthly"
	DriverQuarterly = "quarterly"
	DriverYearly    = "yearly"
	DriverPerUnit   = "perUnit"
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyDecimalPlaces is the number of fractional digits printed for currency
	CurrencyDecimalPlaces = 2

	// DefaultHorizonMonths is used when a configuration leaves the horizon unset
	DefaultHorizonMonths = 12

	// DefaultSeasonCoefficient applies when no seasonality is configured
	DefaultSeasonCoefficient = 1.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON emits the raw computation results
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix namespaces environment overrides read by viper
	EnvPrefix = "GROWTH"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultMaxHorizonMonths caps the horizon the API will simulate (50 years)
	DefaultMaxHorizonMonths = 600
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
