// Package records defines the budget rows consumed by the aggregation core.
package records

import (
	"regexp"
	"strings"
)

// Section is the category of a budget row.
type Section string

const (
	Revenue Section = "REVENUE"
	Expense Section = "EXPENSE"
	Less    Section = "LESS"
)

// Sections lists the known sections in table order.
var Sections = []Section{Revenue, Expense, Less}

// ParseSection normalizes a raw type cell. The second return is false for unknown types.
func ParseSection(raw string) (Section, bool) {
	s := Section(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range Sections {
		if s == known {
			return s, true
		}
	}
	return "", false
}

// Label is the human-facing name of a section.
func (s Section) Label() string {
	switch s {
	case Revenue:
		return "Revenues"
	case Expense:
		return "Expenses"
	case Less:
		return "LESS"
	}
	return string(s)
}

// Record is one approved budget line.
type Record struct {
	Section    Section
	Budget     string
	Department string // raw cell, may list several departments
	Account    string
	Amount     float64
}

// Valid reports whether a record can take part in aggregation.
func (r Record) Valid() bool {
	return r.Section != "" && r.Budget != "" && r.Amount > 0
}

var departmentSeparator = regexp.MustCompile(`[;,]`)

// Departments splits the raw department cell on ';' or ','.
func (r Record) Departments() []string {
	return SplitDepartments(r.Department)
}

// SplitDepartments splits a department cell, dropping empty entries.
func SplitDepartments(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	var out []string
	for _, part := range departmentSeparator.Split(cell, -1) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Filter returns the records of one section.
func Filter(recs []Record, section Section) []Record {
	var out []Record
	for _, r := range recs {
		if r.Section == section {
			out = append(out, r)
		}
	}
	return out
}

// Total sums record amounts.
func Total(recs []Record) float64 {
	var total float64
	for _, r := range recs {
		total += r.Amount
	}
	return total
}
