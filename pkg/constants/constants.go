// Package constants provides shared constants for the budget-drilldown application.
package constants

// Chart thresholds, all expressed as fractions of a total.
const (
	// DefaultOtherThreshold is the share below which pie slices are combined into "Other".
	DefaultOtherThreshold = 0.03

	// DefaultLeaderThreshold is the share below which a label moves off the slice onto a
	// leader line in a side column.
	DefaultLeaderThreshold = 0.08

	// DefaultLabelThreshold is the share at or above which a slice is always labeled.
	DefaultLabelThreshold = 0.07

	// DefaultLabelTopN is the number of largest slices that are labeled regardless of share.
	DefaultLabelTopN = 8

	// DefaultLabelPad is the minimum vertical gap between two external labels, in pixels.
	DefaultLabelPad = 8.0
)

// Sentinel names used by the aggregation and bucketing layers.
const (
	// OtherKey is the display key of the synthetic bucket of small slices.
	OtherKey = "Other"

	// UnlabeledKey replaces a missing budget, department or account.
	UnlabeledKey = "(Unlabeled)"

	// DefaultOrganization is stripped from department and account names.
	DefaultOrganization = "City of Moody"
)

// Default TSV column headers.
const (
	DefaultTypeColumn       = "Type"
	DefaultBudgetColumn     = "Budget"
	DefaultDepartmentColumn = "Department"
	DefaultAccountColumn    = "Account"
	DefaultAmountColumn     = "2025-2026 Approved"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultEnvFile is loaded into the environment before the configuration, when present.
	DefaultEnvFile = ".env"

	// EnvPrefix prefixes environment overrides, e.g. BUDGET_CHART_OTHERTHRESHOLD.
	EnvPrefix = "BUDGET"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for TSV datasets (4 MB)
	DefaultMaxUploadSizeBytes int64 = 4 * 1024 * 1024
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100
)
