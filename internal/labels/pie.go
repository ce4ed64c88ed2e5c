package labels

import (
	"math"
	"sort"

	"github.com/iwvelando/budget-drilldown/internal/aggregate"
	"github.com/iwvelando/budget-drilldown/pkg/constants"
	"github.com/iwvelando/budget-drilldown/pkg/format"
	"github.com/iwvelando/budget-drilldown/pkg/mathutil"
)

const (
	minChartWidth  = 360
	maxChartWidth  = 1100
	minChartHeight = 420
	viewportGutter = 24
	labelMargin    = 8
	labelOffset    = 14
	textInset      = 14
	narrowViewport = 420
)

// Point is a position relative to the pie center.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Geometry is the pie layout for one viewport width. Coordinates are relative
// to the pie center, y growing downwards.
type Geometry struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	OuterRadius float64 `json:"outerRadius"`
	InnerRadius float64 `json:"innerRadius"`
	ColumnWidth float64 `json:"columnWidth"`
	LeftX       float64 `json:"leftX"`
	RightX      float64 `json:"rightX"`
	Band        Band    `json:"band"`
}

// NewGeometry sizes the chart for a viewport width.
func NewGeometry(viewportWidth float64) Geometry {
	width := mathutil.Clamp(viewportWidth-viewportGutter, minChartWidth, maxChartWidth)
	height := math.Max(minChartHeight, math.Round(width*0.8))
	outer := math.Min(width, height) * 0.40

	minColumn := 120.0
	if viewportWidth < narrowViewport {
		minColumn = 108
	}
	column := math.Min(220, math.Max(minColumn, width*0.32))

	return Geometry{
		Width:       width,
		Height:      height,
		OuterRadius: outer,
		InnerRadius: math.Round(outer * 0.55),
		ColumnWidth: column,
		LeftX:       -width/2 + labelMargin + column/2,
		RightX:      width/2 - labelMargin - column/2,
		Band:        Band{MinY: -height/2 + labelMargin, MaxY: height/2 - labelMargin},
	}
}

// Slice is one wedge. Angles are in radians, clockwise from twelve o'clock.
type Slice struct {
	Key        string  `json:"key"`
	Value      float64 `json:"value"`
	Share      float64 `json:"share"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
	Other      bool    `json:"other"`
}

func (s Slice) centroid(radius float64) Point {
	a := (s.StartAngle + s.EndAngle) / 2
	return Point{X: radius * math.Sin(a), Y: -radius * math.Cos(a)}
}

// Slices lays items out around the circle in the given order.
func Slices(items []aggregate.Node) []Slice {
	total := aggregate.Total(items)
	out := make([]Slice, 0, len(items))
	angle := 0.0
	for _, item := range items {
		share := mathutil.Share(item.Value, total)
		end := angle + share*2*math.Pi
		out = append(out, Slice{
			Key:        item.Key,
			Value:      item.Value,
			Share:      share,
			StartAngle: angle,
			EndAngle:   end,
			Other:      item.IsOther(),
		})
		angle = end
	}
	return out
}

// Callout is an external label with its leader line from the slice.
type Callout struct {
	Box       Box      `json:"box"`
	X         float64  `json:"x"`
	Value     float64  `json:"value"`
	ValueText string   `json:"valueText"`
	Leader    [3]Point `json:"leader"`
}

// InlineLabel is drawn on the slice itself.
type InlineLabel struct {
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
	ValueText string  `json:"valueText"`
	At        Point   `json:"at"`
}

// PlanOptions holds the labeling thresholds, all fractions of the visible total.
type PlanOptions struct {
	LeaderThreshold float64
	LabelThreshold  float64
	TopN            int
	Pad             float64
}

func (o PlanOptions) withDefaults() PlanOptions {
	if o.LeaderThreshold <= 0 {
		o.LeaderThreshold = constants.DefaultLeaderThreshold
	}
	if o.LabelThreshold <= 0 {
		o.LabelThreshold = constants.DefaultLabelThreshold
	}
	if o.TopN <= 0 {
		o.TopN = constants.DefaultLabelTopN
	}
	if o.Pad <= 0 {
		o.Pad = constants.DefaultLabelPad
	}
	return o
}

// Plan is everything a renderer needs to draw one pie.
type Plan struct {
	Geometry Geometry      `json:"geometry"`
	Slices   []Slice       `json:"slices"`
	Inline   []InlineLabel `json:"inline"`
	Callouts []Callout     `json:"callouts"`
}

// PlanPie decides which slices get a label and where. A slice is labeled when
// its share reaches LabelThreshold or it is among the TopN largest. Labeled
// slices at or above LeaderThreshold are labeled inline; the rest go to the
// side column nearest to them, are measured at the column width and then
// resolved so that they do not overlap.
func PlanPie(items []aggregate.Node, viewportWidth float64, m Measurer, opts PlanOptions) Plan {
	opts = opts.withDefaults()
	geo := NewGeometry(viewportWidth)
	slices := Slices(items)
	plan := Plan{Geometry: geo, Slices: slices}
	if len(slices) == 0 {
		return plan
	}

	ranked := make([]float64, len(slices))
	for i, s := range slices {
		ranked[i] = s.Value
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ranked)))
	cutoff := ranked[minInt(opts.TopN, len(ranked))-1]

	midRadius := (geo.InnerRadius + geo.OuterRadius) / 2
	labelRadius := geo.OuterRadius + labelOffset
	textWidth := geo.ColumnWidth - textInset

	var boxes []Box
	anchors := make(map[string]Slice)
	for _, s := range slices {
		if s.Share < opts.LabelThreshold && s.Value < cutoff {
			continue
		}
		if s.Share >= opts.LeaderThreshold {
			plan.Inline = append(plan.Inline, InlineLabel{
				Key:       s.Key,
				Value:     s.Value,
				ValueText: valueText(s),
				At:        s.centroid(midRadius),
			})
			continue
		}

		at := s.centroid(labelRadius)
		column := Left
		if at.X >= 0 {
			column = Right
		}
		boxes = append(boxes, Box{
			Key:     s.Key,
			AnchorY: at.Y,
			Column:  column,
			Height:  m.Measure(s.Key, textWidth),
		})
		anchors[s.Key] = s
	}

	for _, box := range ResolveColumns(boxes, geo.Band, opts.Pad) {
		s := anchors[box.Key]
		x, edge := geo.LeftX, geo.LeftX+geo.ColumnWidth/2
		if box.Column == Right {
			x, edge = geo.RightX, geo.RightX-geo.ColumnWidth/2
		}
		outer := s.centroid(labelRadius)
		plan.Callouts = append(plan.Callouts, Callout{
			Box:       box,
			X:         x,
			Value:     s.Value,
			ValueText: valueText(s),
			Leader: [3]Point{
				s.centroid(midRadius),
				{X: outer.X * 0.88, Y: outer.Y * 0.88},
				{X: edge, Y: box.Y},
			},
		})
	}
	return plan
}

// valueText is the second label line, e.g. "$12,000 • 4.8%".
func valueText(s Slice) string {
	return format.Dollars(s.Value) + " • " + format.Percent(s.Share*constants.PercentageMultiplier)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
