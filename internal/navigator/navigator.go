// Package navigator keeps the drill-down state of the budget charts: the
// current view and a history stack of the views it was reached from.
//
// A session starts with Open (or the first DrillIn) and captures the root
// total of that first view. Every view pushed afterwards reports percentages
// against that same total, so a slice never looks bigger just because the
// user drilled into a smaller parent.
//
// A Navigator is not safe for concurrent use.
package navigator

import (
	"fmt"

	"github.com/iwvelando/budget-drilldown/internal/aggregate"
	"github.com/iwvelando/budget-drilldown/internal/bucket"
	"github.com/iwvelando/budget-drilldown/internal/records"
	"github.com/iwvelando/budget-drilldown/pkg/constants"
	"go.uber.org/zap"
)

// Options tunes view construction.
type Options struct {
	OtherThreshold float64
}

// Navigator owns the navigation stack of one drill session.
type Navigator struct {
	index     *aggregate.Index
	threshold float64
	logger    *zap.Logger

	root    *ViewState
	current *ViewState
	history []ViewState
}

// New creates a navigator over an aggregation index.
func New(index *aggregate.Index, opts Options, logger *zap.Logger) *Navigator {
	if logger == nil {
		logger = zap.NewNop()
	}
	threshold := opts.OtherThreshold
	if threshold <= 0 {
		threshold = constants.DefaultOtherThreshold
	}
	return &Navigator{index: index, threshold: threshold, logger: logger}
}

// Current returns the active view; false means the navigator is not drilled in.
func (n *Navigator) Current() (ViewState, bool) {
	if n.current == nil {
		return ViewState{}, false
	}
	return n.current.clone(), true
}

// Depth is the number of views on the history stack.
func (n *Navigator) Depth() int {
	return len(n.history)
}

// Active reports whether a drill session is in progress.
func (n *Navigator) Active() bool {
	return n.current != nil
}

// Open discards any running session and starts a new one at view.
func (n *Navigator) Open(view ViewState) (ViewState, bool) {
	if view.Empty() {
		n.logger.Debug("no data for view",
			zap.String("op", "navigator.Open"),
			zap.String("title", view.Title),
		)
		cur, _ := n.Current()
		return cur, false
	}
	n.root, n.current, n.history = nil, nil, nil
	return n.DrillIn(view)
}

// DrillIn pushes the current view and makes next current. The first view of a
// session fixes the root total; later views inherit it. An empty next is
// refused and leaves the state untouched.
func (n *Navigator) DrillIn(next ViewState) (ViewState, bool) {
	if next.Empty() {
		n.logger.Debug("refusing to drill into an empty view",
			zap.String("op", "navigator.DrillIn"),
			zap.String("title", next.Title),
		)
		cur, _ := n.Current()
		return cur, false
	}

	next = next.clone()
	if n.current == nil {
		if next.RootTotal <= 0 {
			next.RootTotal = next.Total()
		}
		root := next.clone()
		n.root = &root
	} else {
		n.history = append(n.history, *n.current)
		next.RootTotal = n.root.RootTotal
		next.RootLabel = n.root.RootLabel
	}
	n.current = &next

	n.logger.Debug("drilled in",
		zap.String("op", "navigator.DrillIn"),
		zap.String("title", next.Title),
		zap.Stringer("level", next.Level),
		zap.Int("depth", len(n.history)),
	)
	return next.clone(), true
}

// ExpandOther drills into the members of an Other node. The expanded level is
// never bucketed again.
func (n *Navigator) ExpandOther(other aggregate.Node) (ViewState, bool) {
	if n.current == nil || !other.IsOther() {
		cur, _ := n.Current()
		return cur, false
	}
	next := NewView(ViewSpec{
		Title:    n.current.Title,
		Subhead:  n.current.Subhead,
		Level:    n.current.Level,
		Path:     n.current.Path,
		Items:    other.Members,
		Bucket:   false,
		Expanded: true,
	}, n.threshold)
	return n.DrillIn(next)
}

// Select handles a click on a visible item: Other expands, a budget opens its
// departments, a department opens its accounts. Items that do not break down
// into more than one child are ignored.
func (n *Navigator) Select(key string) (ViewState, bool) {
	if n.current == nil {
		return ViewState{}, false
	}
	item, ok := n.current.Find(key)
	if !ok {
		return n.current.clone(), false
	}
	if item.IsOther() {
		return n.ExpandOther(item)
	}

	path := n.current.Path
	var next ViewState
	switch n.current.Level {
	case LevelBudgets:
		next = n.BudgetView(path.Section, item.Key)
	case LevelDepartments:
		next = n.AccountView(path.Section, path.Budget, item.Key)
	}

	if len(bucket.Flatten(next.Items)) < 2 {
		n.logger.Debug("item does not break down further",
			zap.String("op", "navigator.Select"),
			zap.String("key", key),
			zap.Stringer("level", n.current.Level),
		)
		return n.current.clone(), false
	}
	return n.DrillIn(next)
}

// Back returns to the previous view. With an empty history it leaves drill
// mode and returns false so the caller can show the top-level table.
func (n *Navigator) Back() (ViewState, bool) {
	if len(n.history) == 0 {
		n.root, n.current = nil, nil
		return ViewState{}, false
	}
	prev := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	n.current = &prev
	return prev.clone(), true
}

// Reset clears the history and returns to the first view of the session.
func (n *Navigator) Reset() (ViewState, bool) {
	n.history = nil
	if n.root == nil {
		n.current = nil
		return ViewState{}, false
	}
	root := n.root.clone()
	n.current = &root
	return root.clone(), true
}

// SectionView shows the budgets of a section.
func (n *Navigator) SectionView(section records.Section) ViewState {
	return NewView(ViewSpec{
		Title:     section.Label(),
		Subhead:   "Budgets",
		Level:     LevelBudgets,
		Path:      Path{Section: section},
		Items:     n.index.Budgets(section),
		RootLabel: fmt.Sprintf("%s total", section.Label()),
		Bucket:    true,
	}, n.threshold)
}

// BudgetView shows how a budget splits across departments. A budget held by a
// single department goes straight to its accounts.
func (n *Navigator) BudgetView(section records.Section, budget string) ViewState {
	depts := n.index.Departments(section, budget)
	if len(depts) == 1 {
		return n.AccountView(section, budget, depts[0].Key)
	}
	return NewView(ViewSpec{
		Title:     budget,
		Subhead:   fmt.Sprintf("%s • Departments", section.Label()),
		Level:     LevelDepartments,
		Path:      Path{Section: section, Budget: budget},
		Items:     depts,
		RootLabel: fmt.Sprintf("%s total", budget),
		Bucket:    true,
	}, n.threshold)
}

// AccountView shows the accounts of one department within a budget.
func (n *Navigator) AccountView(section records.Section, budget, department string) ViewState {
	return NewView(ViewSpec{
		Title:     department,
		Subhead:   fmt.Sprintf("From budget: %s", budget),
		Level:     LevelAccounts,
		Path:      Path{Section: section, Budget: budget, Department: department},
		Items:     n.index.Accounts(section, budget, department),
		RootLabel: fmt.Sprintf("Total for %s", department),
		Bucket:    true,
	}, n.threshold)
}
