// Package aggregate groups budget records into value-sorted named totals.
//
// Records are narrowed by an ordered key chain (budget, department, account) and
// grouped by the next key in the chain. A record that lists several departments
// contributes an equal share of its amount to each of them, and keeps only that
// share when it is narrowed further, so every level sums to its parent slice.
package aggregate

import (
	"sort"

	"github.com/iwvelando/budget-drilldown/internal/records"
	"github.com/iwvelando/budget-drilldown/pkg/constants"
)

// Node is a named total. Members is only set on the synthetic Other node and
// holds a private copy of the nodes it replaced.
type Node struct {
	Key     string  `json:"key"`
	Value   float64 `json:"value"`
	Members []Node  `json:"members,omitempty"`
}

// IsOther reports whether the node is a bucket of smaller nodes.
func (n Node) IsOther() bool {
	return len(n.Members) > 0
}

// Key extracts the grouping values of a record at one level of the chain.
type Key struct {
	Name   string
	values func(records.Record) []string
}

var (
	// Budget groups by the budget line.
	Budget = Key{Name: "budget", values: func(r records.Record) []string { return []string{r.Budget} }}

	// Department groups by department, splitting multi-department rows evenly.
	Department = Key{Name: "department", values: func(r records.Record) []string { return r.Departments() }}

	// Account groups by ledger account.
	Account = Key{Name: "account", values: func(r records.Record) []string { return []string{r.Account} }}
)

// KeyChain describes one drill hierarchy. An empty Section matches every record.
type KeyChain struct {
	Section records.Section
	Keys    []Key
	Clean   NameCleaner
}

// extract returns the cleaned values of key for r; missing values become UnlabeledKey.
func (c KeyChain) extract(key Key, r records.Record) []string {
	raw := key.values(r)
	if len(raw) == 0 {
		return []string{constants.UnlabeledKey}
	}
	out := make([]string, len(raw))
	for i, v := range raw {
		if c.Clean != nil {
			v = c.Clean(v)
		}
		if v == "" {
			v = constants.UnlabeledKey
		}
		out[i] = v
	}
	return out
}

// Aggregate keeps the records of chain.Section that match path level by level
// and groups them by the key that follows the path. It returns nil when nothing
// matches or the path is as long as the chain.
func Aggregate(recs []records.Record, chain KeyChain, path ...string) []Node {
	if len(path) >= len(chain.Keys) {
		return nil
	}

	sums := make(map[string]float64)
	for _, r := range recs {
		if chain.Section != "" && r.Section != chain.Section {
			continue
		}

		weight, ok := chain.narrow(r, path)
		if !ok {
			continue
		}

		groups := chain.extract(chain.Keys[len(path)], r)
		share := r.Amount * weight / float64(len(groups))
		for _, g := range groups {
			sums[g] += share
		}
	}

	if len(sums) == 0 {
		return nil
	}

	nodes := make([]Node, 0, len(sums))
	for key, value := range sums {
		nodes = append(nodes, Node{Key: key, Value: value})
	}
	SortDescending(nodes)
	return nodes
}

// narrow returns the fraction of r that belongs to path, or false when r is outside it.
func (c KeyChain) narrow(r records.Record, path []string) (float64, bool) {
	weight := 1.0
	for i, want := range path {
		values := c.extract(c.Keys[i], r)
		hits := 0
		for _, v := range values {
			if v == want {
				hits++
			}
		}
		if hits == 0 {
			return 0, false
		}
		weight *= float64(hits) / float64(len(values))
	}
	return weight, true
}

// SortDescending orders nodes by value, largest first, breaking ties by key.
func SortDescending(nodes []Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Value != nodes[j].Value {
			return nodes[i].Value > nodes[j].Value
		}
		return nodes[i].Key < nodes[j].Key
	})
}

// Total sums node values.
func Total(nodes []Node) float64 {
	var total float64
	for _, n := range nodes {
		total += n.Value
	}
	return total
}

// Find returns the node with the given key.
func Find(nodes []Node, key string) (Node, bool) {
	for _, n := range nodes {
		if n.Key == key {
			return n, true
		}
	}
	return Node{}, false
}
