package main

import (
	"path/filepath"
	"testing"

	"github.com/iwvelando/budget-drilldown/internal/aggregate"
	"github.com/iwvelando/budget-drilldown/internal/config"
	"github.com/iwvelando/budget-drilldown/internal/navigator"
	"github.com/iwvelando/budget-drilldown/pkg/constants"
	"github.com/iwvelando/budget-drilldown/pkg/testutil"
	"go.uber.org/zap"
)

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    config.LoggingConfig
		override  string
		wantError bool
	}{
		{name: "defaults", config: config.LoggingConfig{}},
		{name: "console debug", config: config.LoggingConfig{Level: "debug", Format: "console"}},
		{name: "override wins", config: config.LoggingConfig{Level: "bogus"}, override: "warn"},
		{name: "invalid level", config: config.LoggingConfig{Level: "loud"}, wantError: true},
		{name: "invalid format", config: config.LoggingConfig{Format: "xml"}, wantError: true},
		{
			name:   "output file",
			config: config.LoggingConfig{OutputFile: filepath.Join(t.TempDir(), "logs", "app.log")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.config, tt.override)
			if tt.wantError {
				if err == nil {
					t.Errorf("initializeLogger() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("initializeLogger() error = %v", err)
			}
			_ = logger.Sync()
		})
	}
}

func TestSelectView(t *testing.T) {
	clean, err := aggregate.NewNameCleaner(constants.DefaultOrganization)
	if err != nil {
		t.Fatalf("NewNameCleaner() error = %v", err)
	}
	idx := aggregate.NewIndex(testutil.SampleRecords(), clean)

	tests := []struct {
		name      string
		target    drillTarget
		wantTitle string
		wantLevel navigator.Level
		wantError bool
	}{
		{name: "section", target: drillTarget{Section: "revenue"}, wantTitle: "Revenues", wantLevel: navigator.LevelBudgets},
		{name: "budget", target: drillTarget{Section: "expense", Budget: "General Fund"}, wantTitle: "General Fund", wantLevel: navigator.LevelDepartments},
		{name: "department", target: drillTarget{Section: "expense", Budget: "General Fund", Department: "Police"}, wantTitle: "Police", wantLevel: navigator.LevelAccounts},
		{name: "unknown section", target: drillTarget{Section: "assets"}, wantError: true},
		{name: "department without budget", target: drillTarget{Section: "expense", Department: "Police"}, wantError: true},
		{name: "missing budget", target: drillTarget{Section: "expense", Budget: "Nope"}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := navigator.New(idx, navigator.Options{}, zap.NewNop())
			view, err := selectView(nav, tt.target)
			if tt.wantError {
				if err == nil {
					t.Errorf("selectView() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("selectView() error = %v", err)
			}
			if view.Title != tt.wantTitle || view.Level != tt.wantLevel {
				t.Errorf("selectView() = %q/%s, want %q/%s", view.Title, view.Level, tt.wantTitle, tt.wantLevel)
			}
			if !nav.Active() {
				t.Errorf("expected an active drill session")
			}
		})
	}
}
