package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/iwvelando/budget-drilldown/internal/config"
	"github.com/iwvelando/budget-drilldown/internal/records"
)

// ErrSchemaMissing is returned when a required column header is absent.
var ErrSchemaMissing = errors.New("required column missing")

// Table is a header row plus data rows, as read from any source.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadTSV reads tab-separated values with a header row.
func ReadTSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read TSV: %w", err)
	}
	if len(all) == 0 {
		return Table{}, nil
	}
	return Table{Header: all[0], Rows: all[1:]}, nil
}

// columnIndex maps each record field to its position in a header row.
type columnIndex struct {
	typ, budget, department, account, amount int
}

func detectColumns(header []string, cols config.Columns) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := positions[h]; !dup {
			positions[h] = i
		}
	}

	var missing []string
	find := func(name string) int {
		i, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	idx := columnIndex{
		typ:        find(cols.Type),
		budget:     find(cols.Budget),
		department: find(cols.Department),
		account:    find(cols.Account),
		amount:     find(cols.Amount),
	}
	if len(missing) > 0 {
		return columnIndex{}, fmt.Errorf("%w: %s", ErrSchemaMissing, strings.Join(missing, ", "))
	}
	return idx, nil
}

// Records converts a table into budget records using the configured column names.
// Rows are returned as read, including ones that are not Valid.
func Records(table Table, cols config.Columns) ([]records.Record, error) {
	idx, err := detectColumns(table.Header, cols)
	if err != nil {
		return nil, err
	}

	out := make([]records.Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		if blank(row) {
			continue
		}
		section, _ := records.ParseSection(cell(row, idx.typ))
		out = append(out, records.Record{
			Section:    section,
			Budget:     strings.TrimSpace(cell(row, idx.budget)),
			Department: strings.TrimSpace(cell(row, idx.department)),
			Account:    strings.TrimSpace(cell(row, idx.account)),
			Amount:     ParseMoney(cell(row, idx.amount)),
		})
	}
	return out, nil
}

// ParseTSV reads a TSV document straight into records.
func ParseTSV(r io.Reader, cols config.Columns) ([]records.Record, error) {
	table, err := ReadTSV(r)
	if err != nil {
		return nil, err
	}
	return Records(table, cols)
}

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ParseMoney strips currency symbols, separators and spaces before parsing.
// Anything that still does not parse is zero.
func ParseMoney(s string) float64 {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
