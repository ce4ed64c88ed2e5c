// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/budget-drilldown/internal/aggregate"
	"github.com/iwvelando/budget-drilldown/pkg/constants"
	"github.com/iwvelando/budget-drilldown/pkg/validation"
	"github.com/spf13/viper"
)

// Source kinds.
const (
	SourceURL    = "url"
	SourceFile   = "file"
	SourceSheets = "sheets"
)

// Configuration holds all configuration for budget-drilldown.
type Configuration struct {
	Sources []Source
	Columns Columns
	Chart   Chart
	Names   Names
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// Source is one place budget rows are read from.
type Source struct {
	Name            string
	Kind            string // url, file, sheets
	Location        string // URL or file path
	SpreadsheetID   string
	Range           string
	CredentialsFile string
}

// Columns maps record fields to TSV header names.
type Columns struct {
	Type       string
	Budget     string
	Department string
	Account    string
	Amount     string
}

// Chart holds the pie thresholds, all fractions of a total.
type Chart struct {
	OtherThreshold  float64
	LeaderThreshold float64
	LabelThreshold  float64
	LabelTopN       int
	LabelPad        float64
}

// Names configures display-name cleanup.
type Names struct {
	Organization string
	Patterns     []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("columns.type", constants.DefaultTypeColumn)
	v.SetDefault("columns.budget", constants.DefaultBudgetColumn)
	v.SetDefault("columns.department", constants.DefaultDepartmentColumn)
	v.SetDefault("columns.account", constants.DefaultAccountColumn)
	v.SetDefault("columns.amount", constants.DefaultAmountColumn)

	v.SetDefault("chart.otherThreshold", constants.DefaultOtherThreshold)
	v.SetDefault("chart.leaderThreshold", constants.DefaultLeaderThreshold)
	v.SetDefault("chart.labelThreshold", constants.DefaultLabelThreshold)
	v.SetDefault("chart.labelTopN", constants.DefaultLabelTopN)
	v.SetDefault("chart.labelPad", constants.DefaultLabelPad)

	v.SetDefault("names.organization", constants.DefaultOrganization)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with BUDGET_ override
// file values, e.g. BUDGET_CHART_OTHERTHRESHOLD.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}
	return decode(v)
}

// Default returns the configuration used when no file is given.
func Default() *Configuration {
	conf, err := decode(newViper())
	if err != nil {
		// Defaults alone always decode.
		panic(err)
	}
	return conf
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	for i := range configuration.Sources {
		configuration.Sources[i].Kind = strings.ToLower(strings.TrimSpace(configuration.Sources[i].Kind))
		if configuration.Sources[i].Name == "" {
			configuration.Sources[i].Name = fmt.Sprintf("source-%d", i+1)
		}
	}
	return &configuration, nil
}

// NameCleaner builds the display-name cleaner described by Names.
func (conf *Configuration) NameCleaner() (aggregate.NameCleaner, error) {
	return aggregate.NewNameCleaner(conf.Names.Organization, conf.Names.Patterns...)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(conf.Sources) == 0 {
		warnings = append(warnings, "no data sources configured; upload a dataset to the server or add sources")
	}
	for _, src := range conf.Sources {
		switch src.Kind {
		case SourceURL, SourceFile:
			if strings.TrimSpace(src.Location) == "" {
				warnings = append(warnings, fmt.Sprintf("source '%s' has no location", src.Name))
			}
		case SourceSheets:
			if strings.TrimSpace(src.SpreadsheetID) == "" {
				warnings = append(warnings, fmt.Sprintf("source '%s' has no spreadsheetId", src.Name))
			}
		default:
			warnings = append(warnings, fmt.Sprintf("source '%s' has unknown kind '%s'", src.Name, src.Kind))
		}
	}

	seen := make(map[string]string)
	for _, col := range []struct{ field, header string }{
		{"type", conf.Columns.Type},
		{"budget", conf.Columns.Budget},
		{"department", conf.Columns.Department},
		{"account", conf.Columns.Account},
		{"amount", conf.Columns.Amount},
	} {
		if first, dup := seen[col.header]; dup {
			warnings = append(warnings, fmt.Sprintf("columns '%s' and '%s' both use header '%s'", first, col.field, col.header))
			continue
		}
		seen[col.header] = col.field
	}

	thresholds := []struct {
		name  string
		value float64
	}{
		{"otherThreshold", conf.Chart.OtherThreshold},
		{"leaderThreshold", conf.Chart.LeaderThreshold},
		{"labelThreshold", conf.Chart.LabelThreshold},
	}
	for _, th := range thresholds {
		if err := validation.ValidateThreshold(th.name, th.value); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	if conf.Chart.LabelTopN < 1 {
		warnings = append(warnings, fmt.Sprintf("labelTopN should be at least 1, got %d", conf.Chart.LabelTopN))
	}

	if _, err := conf.NameCleaner(); err != nil {
		warnings = append(warnings, err.Error())
	}

	return warnings
}
