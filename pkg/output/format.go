// Package output provides utilities for formatting and displaying budget tables,
// drill views and flow graphs.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/budget-drilldown/internal/aggregate"
	"github.com/iwvelando/budget-drilldown/internal/flow"
	"github.com/iwvelando/budget-drilldown/internal/navigator"
	"github.com/iwvelando/budget-drilldown/pkg/constants"
	"github.com/iwvelando/budget-drilldown/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Render writes v in the requested format. v must be an aggregate.Summary,
// a navigator.ViewState or a flow.Graph.
func Render(w io.Writer, format string, v interface{}) error {
	if format == constants.OutputFormatJSON {
		return JSONFormat(w, v)
	}

	pretty := format == constants.OutputFormatPretty
	if !pretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("unsupported output format %q", format)
	}

	switch x := v.(type) {
	case aggregate.Summary:
		if pretty {
			PrettySummary(w, x)
			return nil
		}
		return CsvSummary(w, x)
	case navigator.ViewState:
		if pretty {
			PrettyView(w, x)
			return nil
		}
		return CsvView(w, x)
	case flow.Graph:
		if pretty {
			PrettyFlow(w, x)
			return nil
		}
		return CsvFlow(w, x)
	}
	return fmt.Errorf("cannot render %T", v)
}

// JSONFormat writes v as indented JSON.
func JSONFormat(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrettySummary outputs the budget table in a human-readable form.
func PrettySummary(w io.Writer, s aggregate.Summary) {
	p := message.NewPrinter(language.English)
	for _, section := range s.Sections {
		if len(section.Budgets) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(w, "--- %s ---\n", section.Label)
		_, _ = fmt.Fprintf(w, "Budget                         | Amount          | Accounts\n")
		_, _ = fmt.Fprintf(w, "______                         | ______          | ________\n")
		for _, b := range section.Budgets {
			more := ""
			if b.Drillable {
				more = " (more)"
			}
			_, _ = p.Fprintf(w, "%-30s | $%14.2f | %d%s\n", b.Budget, b.Total, b.Accounts, more)
		}
		_, _ = p.Fprintf(w, "%-30s | $%14.2f |\n\n", "Total "+section.Label, section.Total)
	}
	_, _ = p.Fprintf(w, "%-30s | $%14.2f |\n", "Revenue - Expense - LESS", s.Net)
}

// CsvSummary outputs the budget table in comma-separated value format.
func CsvSummary(w io.Writer, s aggregate.Summary) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"section", "budget", "amount", "accounts", "drillable"})
	for _, section := range s.Sections {
		for _, b := range section.Budgets {
			_ = cw.Write([]string{
				string(section.Section), b.Budget, money(b.Total),
				strconv.Itoa(b.Accounts), strconv.FormatBool(b.Drillable),
			})
		}
	}
	_ = cw.Write([]string{"NET", "", money(s.Net), "", ""})
	cw.Flush()
	return cw.Error()
}

// PrettyView outputs one drill level, each item with its share of the root total.
func PrettyView(w io.Writer, v navigator.ViewState) {
	p := message.NewPrinter(language.English)
	_, _ = fmt.Fprintf(w, "--- %s ---\n", v.Title)
	if v.Subhead != "" {
		_, _ = fmt.Fprintf(w, "%s\n", v.Subhead)
	}
	if v.Empty() {
		_, _ = fmt.Fprintf(w, "(no data)\n")
		return
	}
	_, _ = fmt.Fprintf(w, "Item                           | Amount          | %% of %s\n", v.RootLabel)
	_, _ = fmt.Fprintf(w, "____                           | ______          | ____\n")
	for _, item := range v.Items {
		key := item.Key
		if item.IsOther() {
			key = fmt.Sprintf("%s (%d items)", item.Key, len(item.Members))
		}
		_, _ = p.Fprintf(w, "%-30s | $%14.2f | %5.1f%%\n", key, item.Value, v.Percent(item))
	}
	_, _ = p.Fprintf(w, "%-30s | $%14.2f | %5.1f%%\n", "Total", v.Total(), mathutil.CalculatePercentage(v.Total(), v.RootTotal))
}

// CsvView outputs one drill level in comma-separated value format. Members of
// an Other bucket follow it with their parent in the last column.
func CsvView(w io.Writer, v navigator.ViewState) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"key", "amount", "percent", "parent"})
	for _, item := range v.Items {
		_ = cw.Write([]string{item.Key, money(item.Value), pct(v.Percent(item)), ""})
		for _, m := range item.Members {
			_ = cw.Write([]string{m.Key, money(m.Value), pct(v.Percent(m)), item.Key})
		}
	}
	cw.Flush()
	return cw.Error()
}

// PrettyFlow outputs the flow graph as a list of edges.
func PrettyFlow(w io.Writer, g flow.Graph) {
	p := message.NewPrinter(language.English)
	_, _ = fmt.Fprintf(w, "--- Budget flow ---\n")
	for _, e := range g.Edges {
		_, _ = p.Fprintf(w, "%-30s -> %-30s $%14.2f\n", g.Name(e.From), g.Name(e.To), e.Value)
	}
	if bal, ok := g.Balance(); ok {
		_, _ = p.Fprintf(w, "%s: $%.2f\n", bal.Name, bal.Value)
	}
	_, _ = fmt.Fprintf(w, "%s\n", strings.Repeat("_", 5))
	_, _ = p.Fprintf(w, "Inflow $%.2f | Outflow $%.2f\n", g.Inflow(flow.HubID), g.Outflow(flow.HubID))
}

// CsvFlow outputs the flow graph edges in comma-separated value format.
func CsvFlow(w io.Writer, g flow.Graph) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"from", "to", "amount"})
	for _, e := range g.Edges {
		_ = cw.Write([]string{g.Name(e.From), g.Name(e.To), money(e.Value)})
	}
	cw.Flush()
	return cw.Error()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
