package labels

import (
	"math"
	"math/rand"
	"testing"
)

func assertSeparated(t *testing.T, boxes []Box, band Band, pad float64) {
	t.Helper()
	for i, b := range boxes {
		if b.Y-b.Height/2 < band.MinY-1e-9 || b.Y+b.Height/2 > band.MaxY+1e-9 {
			t.Errorf("box %d (%s) at %v with height %v leaves band %+v", i, b.Key, b.Y, b.Height, band)
		}
		if i == 0 {
			continue
		}
		prev := boxes[i-1]
		if need := prev.Height/2 + b.Height/2 + pad; math.Abs(b.Y-prev.Y) < need-1e-9 {
			t.Errorf("boxes %d and %d are %v apart, need %v", i-1, i, math.Abs(b.Y-prev.Y), need)
		}
	}
}

func TestResolveLeavesSeparatedBoxesAlone(t *testing.T) {
	boxes := []Box{
		{Key: "a", AnchorY: -100, Height: 20},
		{Key: "b", AnchorY: 0, Height: 20},
		{Key: "c", AnchorY: 100, Height: 20},
	}

	out := Resolve(boxes, Band{MinY: -200, MaxY: 200}, 8)

	for i, b := range out {
		if b.Y != boxes[i].AnchorY {
			t.Errorf("box %s moved from %v to %v", b.Key, boxes[i].AnchorY, b.Y)
		}
	}
}

func TestResolvePushesOverlapsApart(t *testing.T) {
	boxes := []Box{
		{Key: "b", AnchorY: 5, Height: 30},
		{Key: "a", AnchorY: 0, Height: 30},
		{Key: "c", AnchorY: 10, Height: 30},
	}
	band := Band{MinY: -200, MaxY: 200}

	out := Resolve(boxes, band, 8)

	if out[0].Key != "a" || out[1].Key != "b" || out[2].Key != "c" {
		t.Fatalf("expected anchor order a, b, c, got %s, %s, %s", out[0].Key, out[1].Key, out[2].Key)
	}
	assertSeparated(t, out, band, 8)
	if boxes[0].Y != 0 {
		t.Error("expected the input slice to be left untouched")
	}
}

func TestResolvePileUpAtBottom(t *testing.T) {
	boxes := []Box{
		{Key: "a", AnchorY: 95, Height: 20},
		{Key: "b", AnchorY: 95, Height: 20},
		{Key: "c", AnchorY: 95, Height: 20},
	}
	band := Band{MinY: 0, MaxY: 100}

	out := Resolve(boxes, band, 0)

	assertSeparated(t, out, band, 0)
	if out[2].Y != 90 {
		t.Errorf("expected last box against the bottom at 90, got %v", out[2].Y)
	}
}

func TestResolvePileUpAtTop(t *testing.T) {
	boxes := []Box{
		{Key: "a", AnchorY: -500, Height: 40},
		{Key: "b", AnchorY: -490, Height: 40},
		{Key: "c", AnchorY: -480, Height: 40},
	}
	band := Band{MinY: -100, MaxY: 100}

	out := Resolve(boxes, band, 6)

	assertSeparated(t, out, band, 6)
	if out[0].Y != -80 {
		t.Errorf("expected first box against the top at -80, got %v", out[0].Y)
	}
}

func TestResolveNonOverlapProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	band := Band{MinY: -300, MaxY: 300}
	pad := 8.0

	for trial := 0; trial < 500; trial++ {
		n := 1 + rng.Intn(10)
		boxes := make([]Box, n)
		for i := range boxes {
			boxes[i] = Box{
				AnchorY: band.MinY - 50 + rng.Float64()*(band.Height()+100),
				Height:  20 + rng.Float64()*60,
			}
		}
		if !band.Fits(boxes, pad) {
			continue
		}

		out := Resolve(boxes, band, pad)
		if len(out) != n {
			t.Fatalf("trial %d: expected %d boxes, got %d", trial, n, len(out))
		}
		assertSeparated(t, out, band, pad)
	}
}

func TestResolveOverfullStaysInBand(t *testing.T) {
	var boxes []Box
	for i := 0; i < 12; i++ {
		boxes = append(boxes, Box{AnchorY: float64(i * 5), Height: 40})
	}
	band := Band{MinY: -100, MaxY: 100}
	if band.Fits(boxes, 8) {
		t.Fatal("expected the fixture not to fit")
	}

	out := Resolve(boxes, band, 8)

	for i, b := range out {
		if b.Y < band.MinY+b.Height/2-1e-9 || b.Y > band.MaxY-b.Height/2+1e-9 {
			t.Errorf("box %d at %v leaves the band", i, b.Y)
		}
	}
}

func TestResolveEmpty(t *testing.T) {
	if out := Resolve(nil, Band{MinY: 0, MaxY: 10}, 8); len(out) != 0 {
		t.Errorf("expected no boxes, got %+v", out)
	}
}

func TestResolveColumnsIndependently(t *testing.T) {
	boxes := []Box{
		{Key: "l1", AnchorY: 0, Height: 30, Column: Left},
		{Key: "r1", AnchorY: 0, Height: 30, Column: Right},
		{Key: "l2", AnchorY: 1, Height: 30, Column: Left},
	}

	out := ResolveColumns(boxes, Band{MinY: -200, MaxY: 200}, 8)

	if len(out) != 3 {
		t.Fatalf("expected three boxes, got %d", len(out))
	}
	if out[2].Key != "r1" || out[2].Y != 0 {
		t.Errorf("expected right column box untouched, got %+v", out[2])
	}
	if math.Abs(out[1].Y-out[0].Y) < 38 {
		t.Errorf("expected left boxes separated, got %v and %v", out[0].Y, out[1].Y)
	}
}
