package aggregate

import (
	"github.com/iwvelando/budget-drilldown/internal/records"
)

// Index is built once per data load and shared by the navigator, the flow
// builder and the presentation layers.
type Index struct {
	clean     NameCleaner
	bySection map[records.Section][]records.Record
	budgets   map[records.Section][]Node
	accounts  map[records.Section]map[string][]Node
}

// BudgetSummary is one row of the budget table.
type BudgetSummary struct {
	Budget    string  `json:"budget"`
	Total     float64 `json:"total"`
	Accounts  int     `json:"accounts"`
	Drillable bool    `json:"drillable"`
}

// SectionSummary groups the budget rows of one section.
type SectionSummary struct {
	Section records.Section `json:"section"`
	Label   string          `json:"label"`
	Budgets []BudgetSummary `json:"budgets"`
	Total   float64         `json:"total"`
}

// Summary is the top-level budget table.
type Summary struct {
	Sections []SectionSummary `json:"sections"`
	Net      float64          `json:"net"`
}

// NewIndex drops invalid records and precomputes the per-section budget and
// budget-to-account groupings. A nil cleaner leaves names untouched.
func NewIndex(recs []records.Record, clean NameCleaner) *Index {
	idx := &Index{
		clean:     clean,
		bySection: make(map[records.Section][]records.Record),
		budgets:   make(map[records.Section][]Node),
		accounts:  make(map[records.Section]map[string][]Node),
	}

	for _, r := range recs {
		if !r.Valid() {
			continue
		}
		idx.bySection[r.Section] = append(idx.bySection[r.Section], r)
	}

	for _, section := range records.Sections {
		recs := idx.bySection[section]
		idx.budgets[section] = Aggregate(recs, idx.Chain(section))

		byBudget := make(map[string][]Node)
		accountChain := KeyChain{Section: section, Keys: []Key{Budget, Account}, Clean: clean}
		for _, b := range idx.budgets[section] {
			byBudget[b.Key] = Aggregate(recs, accountChain, b.Key)
		}
		idx.accounts[section] = byBudget
	}

	return idx
}

// Chain returns the budget -> department -> account chain for a section.
func (idx *Index) Chain(section records.Section) KeyChain {
	return KeyChain{Section: section, Keys: []Key{Budget, Department, Account}, Clean: idx.clean}
}

// Clean applies the index's name cleaner.
func (idx *Index) Clean(name string) string {
	if idx.clean == nil {
		return name
	}
	return idx.clean(name)
}

// Records returns the valid records of a section.
func (idx *Index) Records(section records.Section) []records.Record {
	return idx.bySection[section]
}

// Len is the number of valid records across all sections.
func (idx *Index) Len() int {
	n := 0
	for _, recs := range idx.bySection {
		n += len(recs)
	}
	return n
}

// Total sums every valid record of a section.
func (idx *Index) Total(section records.Section) float64 {
	return records.Total(idx.bySection[section])
}

// Net is revenue minus expenses minus LESS.
func (idx *Index) Net() float64 {
	return idx.Total(records.Revenue) - idx.Total(records.Expense) - idx.Total(records.Less)
}

// Budgets returns the budget totals of a section, largest first.
func (idx *Index) Budgets(section records.Section) []Node {
	return idx.budgets[section]
}

// BudgetAccounts returns the accounts of one budget across all departments.
func (idx *Index) BudgetAccounts(section records.Section, budget string) []Node {
	return idx.accounts[section][budget]
}

// Departments returns the department split of one budget.
func (idx *Index) Departments(section records.Section, budget string) []Node {
	return Aggregate(idx.bySection[section], idx.Chain(section), budget)
}

// Accounts returns the accounts of one department within one budget.
func (idx *Index) Accounts(section records.Section, budget, department string) []Node {
	return Aggregate(idx.bySection[section], idx.Chain(section), budget, department)
}

// Summary builds the budget table. A budget is drillable when it has more than
// one distinct account.
func (idx *Index) Summary() Summary {
	var summary Summary
	for _, section := range records.Sections {
		ss := SectionSummary{Section: section, Label: section.Label(), Total: idx.Total(section)}
		for _, b := range idx.budgets[section] {
			n := len(idx.accounts[section][b.Key])
			ss.Budgets = append(ss.Budgets, BudgetSummary{
				Budget:    b.Key,
				Total:     b.Value,
				Accounts:  n,
				Drillable: n > 1,
			})
		}
		summary.Sections = append(summary.Sections, ss)
	}
	summary.Net = idx.Net()
	return summary
}
