// Package labels places the external labels of a pie chart.
//
// Layout is two-phase: every label is first measured at its column width
// through a Measurer, then Resolve spreads the measured boxes vertically so
// that they do not overlap.
package labels

import (
	"sort"

	"github.com/iwvelando/budget-drilldown/pkg/mathutil"
)

// Column is the side of the chart a label sits on.
type Column string

const (
	Left  Column = "left"
	Right Column = "right"
)

// Box is one measured label. Y is the resolved vertical center.
type Box struct {
	Key     string  `json:"key"`
	AnchorY float64 `json:"anchorY"`
	Column  Column  `json:"column"`
	Height  float64 `json:"height"`
	Y       float64 `json:"y"`
}

// Band is the vertical range labels must stay in.
type Band struct {
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

// Height of the band.
func (b Band) Height() float64 {
	return b.MaxY - b.MinY
}

// Fits reports whether boxes stacked with pad between them fit in the band.
func (b Band) Fits(boxes []Box, pad float64) bool {
	if len(boxes) == 0 {
		return true
	}
	need := pad * float64(len(boxes)-1)
	for _, box := range boxes {
		need += box.Height
	}
	return need <= b.Height()
}

func gap(a, b Box, pad float64) float64 {
	return a.Height/2 + b.Height/2 + pad
}

// Resolve positions the boxes of a single column and returns them ordered by
// anchor. When the boxes fit in the band, adjacent boxes end at least
// gap(a, b, pad) apart and inside the band. When they do not fit, every box is
// still clamped into the band and some overlap remains.
func Resolve(boxes []Box, band Band, pad float64) []Box {
	out := make([]Box, len(boxes))
	copy(out, boxes)
	if len(out) == 0 {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AnchorY < out[j].AnchorY })
	for i := range out {
		out[i].Y = out[i].AnchorY
	}

	forward(out, pad, nil)

	// The last box has no successor, so it is pulled into the band first and
	// the rest are resolved against it.
	last := &out[len(out)-1]
	last.Y = minFloat(last.Y, band.MaxY-last.Height/2)
	for i := len(out) - 2; i >= 0; i-- {
		need := gap(out[i], out[i+1], pad)
		if out[i+1].Y-out[i].Y < need {
			out[i].Y = out[i+1].Y - need
		}
	}

	for i := range out {
		out[i].Y = mathutil.Clamp(out[i].Y, band.MinY+out[i].Height/2, band.MaxY-out[i].Height/2)
	}

	forward(out, pad, &band)
	return out
}

// forward pushes each box down until it clears its predecessor. With a band,
// boxes are not pushed past its bottom.
func forward(boxes []Box, pad float64, band *Band) {
	for i := 1; i < len(boxes); i++ {
		need := gap(boxes[i-1], boxes[i], pad)
		if boxes[i].Y-boxes[i-1].Y < need {
			y := boxes[i-1].Y + need
			if band != nil {
				y = minFloat(y, band.MaxY-boxes[i].Height/2)
			}
			boxes[i].Y = y
		}
	}
}

// ResolveColumns resolves the left and right columns independently and
// returns the left boxes followed by the right ones.
func ResolveColumns(boxes []Box, band Band, pad float64) []Box {
	var left, right []Box
	for _, b := range boxes {
		if b.Column == Left {
			left = append(left, b)
		} else {
			right = append(right, b)
		}
	}
	return append(Resolve(left, band, pad), Resolve(right, band, pad)...)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
