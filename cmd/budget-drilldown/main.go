package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/iwvelando/budget-drilldown/internal/aggregate"
	"github.com/iwvelando/budget-drilldown/internal/config"
	"github.com/iwvelando/budget-drilldown/internal/flow"
	"github.com/iwvelando/budget-drilldown/internal/loader"
	"github.com/iwvelando/budget-drilldown/internal/navigator"
	"github.com/iwvelando/budget-drilldown/internal/records"
	"github.com/iwvelando/budget-drilldown/internal/server"
	"github.com/iwvelando/budget-drilldown/pkg/constants"
	"github.com/iwvelando/budget-drilldown/pkg/output"
	"github.com/iwvelando/budget-drilldown/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
	case "json":
		config = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}
		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

// drillTarget is the view requested on the command line.
type drillTarget struct {
	Section    string
	Budget     string
	Department string
}

// selectView builds the view for a command-line drill target.
func selectView(nav *navigator.Navigator, target drillTarget) (navigator.ViewState, error) {
	section, ok := records.ParseSection(target.Section)
	if !ok {
		return navigator.ViewState{}, fmt.Errorf("unknown section %q, expected one of revenue, expense, less", target.Section)
	}
	if target.Department != "" && target.Budget == "" {
		return navigator.ViewState{}, errors.New("-department requires -budget")
	}

	var view navigator.ViewState
	switch {
	case target.Department != "":
		view = nav.AccountView(section, target.Budget, target.Department)
	case target.Budget != "":
		view = nav.BudgetView(section, target.Budget)
	default:
		view = nav.SectionView(section)
	}

	opened, ok := nav.Open(view)
	if !ok {
		return navigator.ViewState{}, fmt.Errorf("no data for %s", view.Title)
	}
	return opened, nil
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	serve := flag.Bool("serve", false, "run the drilldown API server instead of printing")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	sectionFlag := flag.String("section", "", "print a drill view for this section (revenue, expense, less)")
	budgetFlag := flag.String("budget", "", "budget to drill into (requires -section)")
	departmentFlag := flag.String("department", "", "department to drill into (requires -budget)")
	flowFlag := flag.Bool("flow", false, "print the revenue to expense flow graph")
	flag.Parse()

	// A missing .env is normal.
	_ = godotenv.Load(constants.DefaultEnvFile)

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		if !*serve || !errors.Is(err, fs.ErrNotExist) {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
			os.Exit(1)
		}
		conf = config.Default()
	}

	var serverConf *server.Config
	loggingConf := conf.Logging
	if *serve {
		serverConf, err = server.LoadConfig(*serverConfigLocation)
		if err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *serverConfigLocation, err)
			os.Exit(1)
		}
		if serverConf.Logging != (config.LoggingConfig{}) {
			loggingConf = serverConf.Logging
		}
	}

	logger, err := initializeLogger(loggingConf, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	clean, err := conf.NameCleaner()
	if err != nil {
		logger.Fatal("failed to build name cleaner",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ld, err := loader.FromConfig(conf, logger)
	if err != nil {
		logger.Fatal("failed to configure data sources",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	recs, err := ld.Load(ctx)
	switch {
	case err == nil:
	case *serve && errors.Is(err, loader.ErrNoSources):
		logger.Info("starting with an empty dataset; upload one to /api/dataset",
			zap.String("op", "main"),
		)
	case errors.Is(err, loader.ErrSchemaMissing):
		logger.Fatal("budget data is missing required columns",
			zap.String("op", "main"),
			zap.Error(err),
		)
	default:
		logger.Fatal("failed to load budget data",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	idx := aggregate.NewIndex(recs, clean)

	if *serve {
		if err := runServer(ctx, logger, serverConf, conf, idx, clean); err != nil {
			logger.Fatal("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	var result interface{}
	switch {
	case *flowFlag:
		result = flow.FromIndex(idx)
	case *sectionFlag != "" || *budgetFlag != "" || *departmentFlag != "":
		nav := navigator.New(idx, navigator.Options{OtherThreshold: conf.Chart.OtherThreshold}, logger)
		view, err := selectView(nav, drillTarget{Section: *sectionFlag, Budget: *budgetFlag, Department: *departmentFlag})
		if err != nil {
			logger.Fatal("failed to build drill view",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		result = view
	default:
		result = idx.Summary()
	}

	if err := output.Render(os.Stdout, outputFormat, result); err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func runServer(ctx context.Context, logger *zap.Logger, serverConf *server.Config, conf *config.Configuration, idx *aggregate.Index, clean aggregate.NameCleaner) error {
	handler := server.NewHandler(logger, idx, server.Options{
		Chart:         conf.Chart,
		Columns:       conf.Columns,
		Clean:         clean,
		MaxUploadSize: serverConf.UploadSizeBytes(),
		Version:       strings.TrimSpace(version),
	})

	srv := &http.Server{Addr: serverConf.Address, Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("op", "main.runServer"),
			zap.String("address", serverConf.Address),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down",
		zap.String("op", "main.runServer"),
	)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConf.ShutdownTimeoutDuration())
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
