package loader

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/budget-drilldown/internal/config"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Source fetches one table of budget rows.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Table, error)
}

// NewSource builds the Source described by one configuration entry.
func NewSource(sc config.Source) (Source, error) {
	switch sc.Kind {
	case config.SourceURL:
		return &URLSource{SourceName: sc.Name, URL: sc.Location}, nil
	case config.SourceFile:
		return &FileSource{SourceName: sc.Name, Path: sc.Location}, nil
	case config.SourceSheets:
		return &SheetsSource{
			SourceName:      sc.Name,
			SpreadsheetID:   sc.SpreadsheetID,
			Range:           sc.Range,
			CredentialsFile: sc.CredentialsFile,
		}, nil
	}
	return nil, fmt.Errorf("source %s: unknown kind %q", sc.Name, sc.Kind)
}

// URLSource downloads a published TSV document.
type URLSource struct {
	SourceName string
	URL        string
	Client     *http.Client
}

func (s *URLSource) Name() string { return s.SourceName }

func (s *URLSource) Fetch(ctx context.Context) (Table, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return Table{}, fmt.Errorf("build request for %s: %w", s.URL, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return Table{}, fmt.Errorf("fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Table{}, fmt.Errorf("fetch %s: unexpected status %s", s.URL, resp.Status)
	}
	return ReadTSV(resp.Body)
}

// FileSource reads a TSV file from disk.
type FileSource struct {
	SourceName string
	Path       string
}

func (s *FileSource) Name() string { return s.SourceName }

func (s *FileSource) Fetch(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return Table{}, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()
	return ReadTSV(f)
}

// SheetsSource reads a range of a Google spreadsheet. The first row of the
// range is the header.
type SheetsSource struct {
	SourceName      string
	SpreadsheetID   string
	Range           string
	CredentialsFile string

	// Options are appended to the client options, mostly for tests.
	Options []goption.ClientOption
}

func (s *SheetsSource) Name() string { return s.SourceName }

func (s *SheetsSource) Fetch(ctx context.Context) (Table, error) {
	opts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsReadonlyScope)}
	if s.CredentialsFile != "" {
		opts = append(opts, goption.WithCredentialsFile(s.CredentialsFile))
	}
	opts = append(opts, s.Options...)

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return Table{}, fmt.Errorf("create sheets service: %w", err)
	}

	rng := s.Range
	if rng == "" {
		rng = "A:Z"
	}
	resp, err := svc.Spreadsheets.Values.Get(s.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return Table{}, fmt.Errorf("read %s: %w", rng, err)
	}
	return valuesTable(resp.Values), nil
}

func valuesTable(values [][]interface{}) Table {
	if len(values) == 0 {
		return Table{}
	}
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = valueString(v)
		}
	}
	return Table{Header: rows[0], Rows: rows[1:]}
}

// valueString renders a cell without exponent notation so ParseMoney can read it.
func valueString(v interface{}) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return strings.TrimSpace(x)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
