package testutil

import (
	"testing"

	"github.com/iwvelando/budget-drilldown/internal/aggregate"
	"github.com/iwvelando/budget-drilldown/internal/records"
)

func TestFindNode(t *testing.T) {
	nodes := []aggregate.Node{{Key: "Police", Value: 10}, {Key: "Fire", Value: 5}}

	if got := FindNode(nodes, "Fire"); got == nil || got.Value != 5 {
		t.Fatalf("FindNode(Fire) = %+v, expected value 5", got)
	}
	if got := FindNode(nodes, "Parks"); got != nil {
		t.Fatalf("FindNode(Parks) = %+v, expected nil", got)
	}

	// The returned pointer aliases the slice element.
	FindNode(nodes, "Police").Value = 11
	if nodes[0].Value != 11 {
		t.Errorf("expected FindNode to return a pointer into the slice")
	}
}

func TestSampleRecordsAreValid(t *testing.T) {
	recs := SampleRecords()
	if len(recs) == 0 {
		t.Fatal("expected sample records")
	}
	for i, r := range recs {
		if !r.Valid() {
			t.Errorf("sample record %d is not valid: %+v", i, r)
		}
	}
	if got := records.Total(records.Filter(recs, records.Revenue)); got != 1000000 {
		t.Errorf("expected revenue total 1000000, got %v", got)
	}
}
