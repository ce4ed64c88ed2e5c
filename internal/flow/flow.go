// Package flow builds the two-tier money flow behind the budget flow diagram:
// every revenue source feeds a single hub, and the hub feeds every sink. Any
// difference between the two sides is routed through a balance node so that
// the hub always conserves flow.
package flow

import (
	"sort"

	"github.com/iwvelando/budget-drilldown/internal/aggregate"
	"github.com/iwvelando/budget-drilldown/internal/records"
	"github.com/iwvelando/budget-drilldown/pkg/mathutil"
)

// Kind classifies a node.
type Kind string

const (
	Source  Kind = "source"
	Hub     Kind = "hub"
	Sink    Kind = "sink"
	Balance Kind = "balance"
)

const (
	// HubID identifies the single intermediate node.
	HubID = "hub"
	// BalanceID identifies the surplus or shortfall node.
	BalanceID = "balance"

	// HubName is the display name of the single intermediate node.
	HubName = "Budget"
	// SurplusName labels a positive balance.
	SurplusName = "Surplus"
	// ShortfallName labels a negative balance.
	ShortfallName = "Shortfall"
)

// Node is a point in the graph. ID is unique within the graph and carries the
// kind, so a source and a sink may share a display name. A balance node carries
// a signed value.
type Node struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Kind  Kind    `json:"kind"`
	Value float64 `json:"value"`
}

// Edge moves a non-negative amount between two node IDs.
type Edge struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Value float64 `json:"value"`
}

// Graph is an ordered node and edge list ready for a Sankey-style layout.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Inflow sums the edges entering a node, to the cent.
func (g Graph) Inflow(id string) float64 {
	var cents int64
	for _, e := range g.Edges {
		if e.To == id {
			cents += mathutil.Cents(e.Value)
		}
	}
	return mathutil.FromCents(cents)
}

// Outflow sums the edges leaving a node, to the cent.
func (g Graph) Outflow(id string) float64 {
	var cents int64
	for _, e := range g.Edges {
		if e.From == id {
			cents += mathutil.Cents(e.Value)
		}
	}
	return mathutil.FromCents(cents)
}

// Name returns the display name of a node ID, or the ID itself when the graph
// has no such node.
func (g Graph) Name(id string) string {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n.Name
		}
	}
	return id
}

// Balance returns the balance node, if any.
func (g Graph) Balance() (Node, bool) {
	for _, n := range g.Nodes {
		if n.Kind == Balance {
			return n, true
		}
	}
	return Node{}, false
}

// SourceID is the node ID of a revenue source.
func SourceID(name string) string {
	return string(Source) + ":" + name
}

// SinkID is the node ID of a spending sink.
func SinkID(name string) string {
	return string(Sink) + ":" + name
}

// Build creates the graph from source and sink totals. Values are rounded to
// the cent, entries are ordered largest first and non-positive entries are
// skipped. A surplus drains from the hub into a balance node; a shortfall feeds
// the hub from one. Only an exactly balanced budget adds no balance node.
func Build(sources, sinks map[string]float64) Graph {
	srcNodes := sorted(sources)
	sinkNodes := sorted(sinks)

	var g Graph
	var inflow, outflow int64
	for _, n := range srcNodes {
		id := SourceID(n.Key)
		g.Nodes = append(g.Nodes, Node{ID: id, Name: n.Key, Kind: Source, Value: n.Value})
		g.Edges = append(g.Edges, Edge{From: id, To: HubID, Value: n.Value})
		inflow += mathutil.Cents(n.Value)
	}

	hubIndex := len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{ID: HubID, Name: HubName, Kind: Hub})

	for _, n := range sinkNodes {
		id := SinkID(n.Key)
		g.Nodes = append(g.Nodes, Node{ID: id, Name: n.Key, Kind: Sink, Value: n.Value})
		g.Edges = append(g.Edges, Edge{From: HubID, To: id, Value: n.Value})
		outflow += mathutil.Cents(n.Value)
	}

	balance := inflow - outflow
	switch {
	case balance == 0:
	case balance > 0:
		value := mathutil.FromCents(balance)
		g.Nodes = append(g.Nodes, Node{ID: BalanceID, Name: SurplusName, Kind: Balance, Value: value})
		g.Edges = append(g.Edges, Edge{From: HubID, To: BalanceID, Value: value})
	default:
		value := mathutil.FromCents(balance)
		g.Nodes = append(g.Nodes, Node{ID: BalanceID, Name: ShortfallName, Kind: Balance, Value: value})
		g.Edges = append(g.Edges, Edge{From: BalanceID, To: HubID, Value: -value})
	}

	g.Nodes[hubIndex].Value = g.Inflow(HubID)
	return g
}

// FromIndex builds the budget-wide flow: revenue budgets are sources, expense
// and LESS budgets are sinks.
func FromIndex(idx *aggregate.Index) Graph {
	sources := totals(idx.Budgets(records.Revenue))
	sinks := totals(idx.Budgets(records.Expense))
	for key, value := range totals(idx.Budgets(records.Less)) {
		sinks[key] += value
	}
	return Build(sources, sinks)
}

func totals(nodes []aggregate.Node) map[string]float64 {
	out := make(map[string]float64, len(nodes))
	for _, n := range nodes {
		out[n.Key] += n.Value
	}
	return out
}

func sorted(values map[string]float64) []aggregate.Node {
	nodes := make([]aggregate.Node, 0, len(values))
	for key, value := range values {
		value = mathutil.Round(value)
		if value <= 0 {
			continue
		}
		nodes = append(nodes, aggregate.Node{Key: key, Value: value})
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Value != nodes[j].Value {
			return nodes[i].Value > nodes[j].Value
		}
		return nodes[i].Key < nodes[j].Key
	})
	return nodes
}
