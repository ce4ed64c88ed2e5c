package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCents(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		cents int64
	}{
		{"Whole dollars", 100, 10000},
		{"Fraction", 0.1, 10},
		{"Rounds up", 100.006, 10001},
		{"Negative", -12.34, -1234},
		{"Zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cents(tt.input); got != tt.cents {
				t.Errorf("Cents(%v) = %d, expected %d", tt.input, got, tt.cents)
			}
			if got := Cents(FromCents(tt.cents)); got != tt.cents {
				t.Errorf("Cents(FromCents(%d)) = %d", tt.cents, got)
			}
		})
	}
}

func TestShareAndPercentage(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		total   float64
		share   float64
		percent float64
	}{
		{"Half", 50, 100, 0.5, 50},
		{"Small slice", 5, 105, 5.0 / 105.0, 500.0 / 105.0},
		{"Zero total", 10, 0, 0, 0},
		{"Negative total", 10, -5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Share(tt.value, tt.total); !WithinTolerance(got, tt.share, 1e-9) {
				t.Errorf("Share(%v, %v) = %v, expected %v", tt.value, tt.total, got, tt.share)
			}
			if got := CalculatePercentage(tt.value, tt.total); !WithinTolerance(got, tt.percent, 1e-9) {
				t.Errorf("CalculatePercentage(%v, %v) = %v, expected %v", tt.value, tt.total, got, tt.percent)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name                string
		val, lo, hi, expect float64
	}{
		{"Inside", 5, 0, 10, 5},
		{"Below", -3, 0, 10, 0},
		{"Above", 12, 0, 10, 10},
		{"Inverted bounds", 5, 8, 2, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.val, tt.lo, tt.hi); got != tt.expect {
				t.Errorf("Clamp(%v, %v, %v) = %v, expected %v", tt.val, tt.lo, tt.hi, got, tt.expect)
			}
		})
	}
}

func TestSum(t *testing.T) {
	if got := Sum(); got != 0 {
		t.Errorf("Sum() = %v, expected 0", got)
	}
	if got := Sum(100, 50, 0.25); got != 150.25 {
		t.Errorf("Sum() = %v, expected 150.25", got)
	}
}
