package labels

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Measurer returns the rendered height of a label whose title wraps at width.
type Measurer interface {
	Measure(text string, width float64) float64
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(text string, width float64) float64

// Measure calls f.
func (f MeasurerFunc) Measure(text string, width float64) float64 {
	return f(text, width)
}

// RuneMeasurer approximates text layout on a fixed grid: each terminal cell
// (as reported by go-runewidth) is CellWidth pixels wide. A label is a
// wrapped title followed by one value line.
type RuneMeasurer struct {
	CellWidth  float64
	LineHeight float64
	ValueLine  float64
	PadTop     float64
	PadBottom  float64
}

// NewRuneMeasurer returns a measurer for 16px text at 1.15 line height.
func NewRuneMeasurer() RuneMeasurer {
	return RuneMeasurer{
		CellWidth:  7,
		LineHeight: 16 * 1.15,
		ValueLine:  18,
		PadTop:     8,
		PadBottom:  8,
	}
}

// Lines wraps text on whitespace so that no line is wider than width. A word
// that is wider than width on its own gets a line to itself.
func (m RuneMeasurer) Lines(text string, width float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	cells := math.MaxInt32
	if m.CellWidth > 0 && width > 0 {
		cells = int(width / m.CellWidth)
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if runewidth.StringWidth(candidate) > cells {
			lines = append(lines, line)
			line = w
			continue
		}
		line = candidate
	}
	return append(lines, line)
}

// Measure implements Measurer.
func (m RuneMeasurer) Measure(text string, width float64) float64 {
	n := len(m.Lines(text, width))
	if n < 1 {
		n = 1
	}
	return m.PadTop + float64(n)*m.LineHeight + m.ValueLine + m.PadBottom
}
