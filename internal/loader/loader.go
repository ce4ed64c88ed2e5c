// Package loader fetches budget tables from the configured sources and turns
// them into records.
package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwvelando/budget-drilldown/internal/config"
	"github.com/iwvelando/budget-drilldown/internal/records"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoSources is returned by Load when nothing is configured.
var ErrNoSources = errors.New("no data sources configured")

// Loader reads every source concurrently.
type Loader struct {
	sources []Source
	columns config.Columns
	logger  *zap.Logger
}

// New creates a Loader for the given sources.
func New(sources []Source, columns config.Columns, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{sources: sources, columns: columns, logger: logger}
}

// FromConfig builds a Loader from the configured sources.
func FromConfig(conf *config.Configuration, logger *zap.Logger) (*Loader, error) {
	sources := make([]Source, 0, len(conf.Sources))
	for _, sc := range conf.Sources {
		src, err := NewSource(sc)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return New(sources, conf.Columns, logger), nil
}

// Load fetches all sources and returns their records concatenated in the
// configured order. The first failing source cancels the rest.
func (l *Loader) Load(ctx context.Context) ([]records.Record, error) {
	if len(l.sources) == 0 {
		return nil, ErrNoSources
	}

	results := make([][]records.Record, len(l.sources))
	g, gCtx := errgroup.WithContext(ctx)
	for i, src := range l.sources {
		i, src := i, src
		g.Go(func() error {
			table, err := src.Fetch(gCtx)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Name(), err)
			}
			recs, err := Records(table, l.columns)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Name(), err)
			}
			l.logger.Debug("loaded source",
				zap.String("op", "loader.Load"),
				zap.String("source", src.Name()),
				zap.Int("rows", len(table.Rows)),
				zap.Int("records", len(recs)),
			)
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.logger.Error("failed to load budget data",
			zap.String("op", "loader.Load"),
			zap.Error(err),
		)
		return nil, err
	}

	var all []records.Record
	for _, recs := range results {
		all = append(all, recs...)
	}
	l.logger.Info("budget data loaded",
		zap.String("op", "loader.Load"),
		zap.Int("sources", len(l.sources)),
		zap.Int("records", len(all)),
	)
	return all, nil
}
