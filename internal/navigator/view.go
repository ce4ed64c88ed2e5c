package navigator

import (
	"fmt"

	"github.com/iwvelando/budget-drilldown/internal/aggregate"
	"github.com/iwvelando/budget-drilldown/internal/bucket"
	"github.com/iwvelando/budget-drilldown/internal/records"
	"github.com/iwvelando/budget-drilldown/pkg/constants"
	"github.com/iwvelando/budget-drilldown/pkg/mathutil"
)

// Level is the kind of item a view shows.
type Level int

const (
	LevelBudgets Level = iota
	LevelDepartments
	LevelAccounts
)

func (l Level) String() string {
	switch l {
	case LevelBudgets:
		return "budgets"
	case LevelDepartments:
		return "departments"
	case LevelAccounts:
		return "accounts"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Path locates a view in the budget hierarchy.
type Path struct {
	Section    records.Section `json:"section"`
	Budget     string          `json:"budget,omitempty"`
	Department string          `json:"department,omitempty"`
}

// ViewState is one pie in a drill session. Items are ordered largest first
// with Other, when present, last. RootTotal is the percentage denominator and
// does not change for the lifetime of a session.
type ViewState struct {
	Title     string           `json:"title"`
	Subhead   string           `json:"subhead"`
	Level     Level            `json:"level"`
	Path      Path             `json:"path"`
	Items     []aggregate.Node `json:"items"`
	RootTotal float64          `json:"rootTotal"`
	RootLabel string           `json:"rootLabel"`
	Bucketed  bool             `json:"bucketed"`
	Expanded  bool             `json:"expanded"`
}

// Empty reports whether the view has nothing to draw.
func (v ViewState) Empty() bool {
	return len(v.Items) == 0
}

// Total sums the visible items. It differs from RootTotal below the first level.
func (v ViewState) Total() float64 {
	return aggregate.Total(v.Items)
}

// Percent is the share of node in the session's root total, scaled to 0-100.
func (v ViewState) Percent(node aggregate.Node) float64 {
	return mathutil.CalculatePercentage(node.Value, v.RootTotal)
}

// Find returns the visible item with the given key. The Other key resolves to
// the bucketed node even when a real item carries the same name.
func (v ViewState) Find(key string) (aggregate.Node, bool) {
	if key == constants.OtherKey {
		for _, item := range v.Items {
			if item.IsOther() {
				return item, true
			}
		}
	}
	return aggregate.Find(v.Items, key)
}

func (v ViewState) clone() ViewState {
	out := v
	out.Items = bucket.Clone(v.Items)
	return out
}

// ViewSpec describes a view to construct. Bucket must be set explicitly for a
// level to get an Other node; an expanded Other is built with Bucket false so
// a second Other cannot appear on that level.
type ViewSpec struct {
	Title     string
	Subhead   string
	Level     Level
	Path      Path
	Items     []aggregate.Node
	RootTotal float64
	RootLabel string
	Bucket    bool
	Expanded  bool
}

// NewView sorts the items, buckets them when requested and fills a missing
// root total with the item sum.
func NewView(spec ViewSpec, otherThreshold float64) ViewState {
	items := make([]aggregate.Node, len(spec.Items))
	copy(items, spec.Items)
	aggregate.SortDescending(items)

	view := ViewState{
		Title:     spec.Title,
		Subhead:   spec.Subhead,
		Level:     spec.Level,
		Path:      spec.Path,
		Items:     items,
		RootTotal: spec.RootTotal,
		RootLabel: spec.RootLabel,
		Expanded:  spec.Expanded,
	}

	if spec.Bucket {
		result := bucket.BucketOther(items, aggregate.Total(items), otherThreshold)
		view.Items = result.Nodes()
		view.Bucketed = result.Bucketed()
	}

	if view.RootTotal <= 0 {
		view.RootTotal = aggregate.Total(items)
	}
	if view.RootLabel == "" {
		view.RootLabel = "Total"
	}
	return view
}
