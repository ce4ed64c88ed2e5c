// Package bucket collapses small slices into a single "Other" node so that a
// chart stays legible.
package bucket

import (
	"sort"

	"github.com/iwvelando/budget-drilldown/internal/aggregate"
	"github.com/iwvelando/budget-drilldown/pkg/constants"
)

// Result holds the outcome of one bucketing call. Other is nil when nothing
// was bucketed.
type Result struct {
	Kept  []aggregate.Node
	Other *aggregate.Node
}

// Nodes returns the kept nodes largest first with Other, if any, last.
func (r Result) Nodes() []aggregate.Node {
	out := make([]aggregate.Node, 0, len(r.Kept)+1)
	out = append(out, r.Kept...)
	aggregate.SortDescending(out)
	if r.Other != nil {
		out = append(out, *r.Other)
	}
	return out
}

// Bucketed reports whether an Other node was produced.
func (r Result) Bucketed() bool {
	return r.Other != nil
}

// BucketOther groups every item whose share of total is below threshold into
// one Other node. When those items add up to less than threshold themselves,
// the next smallest items are pulled in until Other clears it. Both sides of
// the comparison are fractions of total.
//
// The input is returned unchanged when nothing is small, when Other would
// hold fewer than two items, or when it would swallow every item. A
// non-positive total falls back to the sum of the items.
func BucketOther(items []aggregate.Node, total, threshold float64) Result {
	unchanged := Result{Kept: items}
	if len(items) < 2 || threshold <= 0 {
		return unchanged
	}
	if total <= 0 {
		total = aggregate.Total(items)
	}
	if total <= 0 {
		return unchanged
	}

	asc := make([]aggregate.Node, len(items))
	copy(asc, items)
	sort.SliceStable(asc, func(i, j int) bool {
		if asc[i].Value != asc[j].Value {
			return asc[i].Value < asc[j].Value
		}
		return asc[i].Key < asc[j].Key
	})

	n := 0
	var otherSum float64
	for n < len(asc) && asc[n].Value/total < threshold {
		otherSum += asc[n].Value
		n++
	}
	if n == 0 {
		return unchanged
	}

	for otherSum/total < threshold && n < len(asc) {
		otherSum += asc[n].Value
		n++
	}

	if n == len(asc) || n < 2 {
		return unchanged
	}

	members := Clone(asc[:n])
	aggregate.SortDescending(members)

	kept := asc[n:]
	aggregate.SortDescending(kept)

	return Result{
		Kept: kept,
		Other: &aggregate.Node{
			Key:     constants.OtherKey,
			Value:   otherSum,
			Members: members,
		},
	}
}

// Clone deep-copies nodes so that an Other node never shares members with
// its input or with another Other node.
func Clone(nodes []aggregate.Node) []aggregate.Node {
	out := make([]aggregate.Node, len(nodes))
	for i, n := range nodes {
		out[i] = aggregate.Node{Key: n.Key, Value: n.Value}
		if n.IsOther() {
			out[i].Members = Clone(n.Members)
		}
	}
	return out
}

// Flatten expands every Other node back into its members.
func Flatten(nodes []aggregate.Node) []aggregate.Node {
	var out []aggregate.Node
	for _, n := range nodes {
		if n.IsOther() {
			out = append(out, Flatten(n.Members)...)
			continue
		}
		out = append(out, n)
	}
	return out
}
