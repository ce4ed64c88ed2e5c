package integration

import (
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/iwvelando/budget-drilldown/internal/aggregate"
	"github.com/iwvelando/budget-drilldown/internal/bucket"
	"github.com/iwvelando/budget-drilldown/internal/labels"
	"github.com/iwvelando/budget-drilldown/internal/navigator"
	"github.com/iwvelando/budget-drilldown/internal/records"
	"github.com/iwvelando/budget-drilldown/pkg/constants"
	"github.com/iwvelando/budget-drilldown/pkg/mathutil"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// syntheticRecords builds a large budget with a long tail of small accounts.
func syntheticRecords(n int, seed int64) []records.Record {
	rng := rand.New(rand.NewSource(seed))
	out := make([]records.Record, 0, n)
	for i := 0; i < n; i++ {
		section := records.Expense
		if i%5 == 0 {
			section = records.Revenue
		}
		dept := fmt.Sprintf("Dept %02d", rng.Intn(40))
		if i%17 == 0 {
			dept += fmt.Sprintf("; Dept %02d", rng.Intn(40))
		}
		out = append(out, records.Record{
			Section:    section,
			Budget:     fmt.Sprintf("Fund %02d", rng.Intn(25)),
			Department: dept,
			Account:    fmt.Sprintf("Account %03d", rng.Intn(300)),
			Amount:     mathutil.Round(rng.ExpFloat64() * 10000),
		})
	}
	return out
}

// TestPerformance times the load-to-drill path on a large synthetic budget.
func TestPerformance(t *testing.T) {
	recs := syntheticRecords(50000, 1)

	start := time.Now()
	idx := aggregate.NewIndex(recs, nil)
	indexTime := time.Since(start)

	start = time.Now()
	summary := idx.Summary()
	summaryTime := time.Since(start)

	start = time.Now()
	nav := navigator.New(idx, navigator.Options{}, zap.NewNop())
	budget := summary.Sections[1].Budgets[0].Budget
	view, ok := nav.Open(nav.BudgetView(records.Expense, budget))
	if !ok {
		t.Fatalf("Open(%s) refused", budget)
	}
	for _, item := range view.Items {
		if !item.IsOther() {
			if _, ok := nav.Select(item.Key); ok {
				nav.Back()
			}
		}
	}
	drillTime := time.Since(start)

	totalTime := indexTime + summaryTime + drillTime

	t.Logf("Performance metrics:")
	t.Logf("  Build index: %v", indexTime)
	t.Logf("  Summary: %v", summaryTime)
	t.Logf("  Drill every department: %v", drillTime)
	t.Logf("  Total time: %v", totalTime)

	if totalTime > 10*time.Second {
		t.Errorf("Total processing time %v exceeds 10 second threshold", totalTime)
	}

	for _, section := range []records.Section{records.Revenue, records.Expense} {
		want := records.Total(records.Filter(recs, section))
		if got := idx.Total(section); !mathutil.WithinTolerance(got, want, 1e-3) {
			t.Errorf("%s index total %v, want %v", section, got, want)
		}
	}
}

// TestDataConsistency validates that repeated runs produce identical views.
func TestDataConsistency(t *testing.T) {
	recs := syntheticRecords(5000, 7)

	var previous []aggregate.Node
	for i := 0; i < 5; i++ {
		idx := aggregate.NewIndex(recs, nil)
		nav := navigator.New(idx, navigator.Options{OtherThreshold: constants.DefaultOtherThreshold}, zap.NewNop())
		view := nav.SectionView(records.Expense)

		if previous != nil {
			if len(previous) != len(view.Items) {
				t.Fatalf("run %d: %d items, previous run had %d", i, len(view.Items), len(previous))
			}
			for j := range previous {
				if previous[j].Key != view.Items[j].Key || previous[j].Value != view.Items[j].Value {
					t.Fatalf("run %d: item %d differs: %+v vs %+v", i, j, view.Items[j], previous[j])
				}
			}
		}
		previous = view.Items
	}
}

// TestBucketConservationAtScale checks that bucketing never loses value on long tails.
func TestBucketConservationAtScale(t *testing.T) {
	recs := syntheticRecords(20000, 3)
	items := aggregate.Aggregate(recs, aggregate.KeyChain{
		Section: records.Expense,
		Keys:    []aggregate.Key{aggregate.Account},
	})

	for _, theta := range []float64{0.01, 0.03, 0.05, 0.2} {
		total := aggregate.Total(items)
		result := bucket.BucketOther(items, total, theta)
		if got := aggregate.Total(result.Nodes()); !mathutil.WithinTolerance(got, total, 1e-6) {
			t.Errorf("theta %v: bucketed total %v, want %v", theta, got, total)
		}
		if result.Other != nil && len(result.Kept) == 0 {
			t.Errorf("theta %v: Other swallowed every item", theta)
		}
	}
}

// TestLabelResolverScaling resolves many labels that fit the band and expects no overlap.
func TestLabelResolverScaling(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	band := labels.Band{MinY: -400, MaxY: 400}
	const pad = 8.0

	boxes := make([]labels.Box, 30)
	for i := range boxes {
		boxes[i] = labels.Box{
			Key:     fmt.Sprintf("label %d", i),
			AnchorY: band.MinY + rng.Float64()*band.Height(),
			Column:  labels.Right,
			Height:  16,
		}
	}
	if !band.Fits(boxes, pad) {
		t.Fatal("test boxes should fit the band")
	}

	start := time.Now()
	resolved := labels.Resolve(boxes, band, pad)
	t.Logf("Resolved %d labels in %v", len(resolved), time.Since(start))

	for i := 1; i < len(resolved); i++ {
		prev, cur := resolved[i-1], resolved[i]
		if gap := (cur.Y - cur.Height/2) - (prev.Y + prev.Height/2); gap < pad-1e-9 {
			t.Errorf("labels %s and %s overlap (gap %v)", prev.Key, cur.Key, gap)
		}
	}
}

func BenchmarkNewIndex(b *testing.B) {
	recs := syntheticRecords(20000, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		aggregate.NewIndex(recs, nil)
	}
}

func BenchmarkPlanPie(b *testing.B) {
	items := aggregate.Aggregate(syntheticRecords(5000, 2), aggregate.KeyChain{
		Section: records.Expense,
		Keys:    []aggregate.Key{aggregate.Budget},
	})
	m := labels.NewRuneMeasurer()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		labels.PlanPie(items, 900, m, labels.PlanOptions{})
	}
}
