// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/budget-drilldown/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateThreshold checks that a chart threshold is a fraction strictly between 0 and 1.
func ValidateThreshold(name string, value float64) error {
	if value <= 0 || value >= 1 {
		return fmt.Errorf("%s must be a fraction between 0 and 1, got %v", name, value)
	}
	return nil
}
