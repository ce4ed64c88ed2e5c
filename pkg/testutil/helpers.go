// Package testutil provides common fixtures and lookups for testing.
package testutil

import (
	"github.com/iwvelando/budget-drilldown/internal/aggregate"
	"github.com/iwvelando/budget-drilldown/internal/records"
)

// FindNode finds a node by key in a slice of nodes.
// Returns a pointer to the node if found, nil otherwise.
func FindNode(nodes []aggregate.Node, key string) *aggregate.Node {
	for i := range nodes {
		if nodes[i].Key == key {
			return &nodes[i]
		}
	}
	return nil
}

// SampleRecords is a small municipal budget: two revenue budgets, three expense
// budgets (one shared by several departments) and one LESS line.
func SampleRecords() []records.Record {
	return []records.Record{
		{Section: records.Revenue, Budget: "Property Tax", Department: "Finance", Account: "Ad Valorem", Amount: 600000},
		{Section: records.Revenue, Budget: "Property Tax", Department: "Finance", Account: "Delinquent", Amount: 20000},
		{Section: records.Revenue, Budget: "Sales Tax", Department: "Finance", Account: "Local Option", Amount: 380000},

		{Section: records.Expense, Budget: "General Fund", Department: "City of Moody - Police", Account: "Salaries", Amount: 300000},
		{Section: records.Expense, Budget: "General Fund", Department: "Police", Account: "Vehicles", Amount: 60000},
		{Section: records.Expense, Budget: "General Fund", Department: "Police", Account: "Radios", Amount: 6000},
		{Section: records.Expense, Budget: "General Fund", Department: "Fire", Account: "Salaries", Amount: 250000},
		{Section: records.Expense, Budget: "General Fund", Department: "Fire", Account: "Equipment", Amount: 12000},
		{Section: records.Expense, Budget: "General Fund", Department: "Police; Fire", Account: "Dispatch", Amount: 40000},
		{Section: records.Expense, Budget: "General Fund", Department: "Parks", Account: "Mowing", Amount: 9000},
		{Section: records.Expense, Budget: "General Fund", Department: "Library (City of Moody)", Account: "Books", Amount: 8000},
		{Section: records.Expense, Budget: "Streets", Department: "Public Works", Account: "Paving", Amount: 150000},
		{Section: records.Expense, Budget: "Debt Service", Department: "Finance", Account: "Bond Payment", Amount: 50000},

		{Section: records.Less, Budget: "Capital Reserve", Department: "Finance", Account: "Transfer Out", Amount: 45000},
	}
}
