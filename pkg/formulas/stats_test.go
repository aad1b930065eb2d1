package formulas

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected float64
	}{
		{name: "simple values", data: []float64{1, 2, 3, 4, 5}, expected: 3},
		{name: "single value", data: []float64{42}, expected: 42},
		{name: "empty slice", data: []float64{}, expected: 0},
		{name: "negative values", data: []float64{-2, 2}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Mean(tt.data)
			if !almostEqual(result, tt.expected) {
				t.Errorf("Mean(%v) = %f, want %f", tt.data, result, tt.expected)
			}
		})
	}
}

func TestStdDev(t *testing.T) {
	// Sample stddev of {2, 4, 4, 4, 5, 5, 7, 9} with n-1 divisor
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	result := StdDev(data)
	expected := math.Sqrt(32.0 / 7.0)
	if !almostEqual(result, expected) {
		t.Errorf("StdDev = %f, want %f", result, expected)
	}

	if StdDev([]float64{}) != 0 {
		t.Error("StdDev of empty slice should be 0")
	}

	// Single element has zero degrees of freedom
	if !math.IsNaN(StdDev([]float64{5})) {
		t.Error("StdDev of single element should be NaN")
	}
}

func TestCalculateReturns(t *testing.T) {
	tests := []struct {
		name     string
		prices   []float64
		expected []float64
	}{
		{
			name:     "rising prices",
			prices:   []float64{100, 110, 121},
			expected: []float64{0.10, 0.10},
		},
		{
			name:     "falling prices",
			prices:   []float64{100, 90},
			expected: []float64{-0.10},
		},
		{
			name:     "single price",
			prices:   []float64{100},
			expected: []float64{},
		},
		{
			name:     "empty",
			prices:   []float64{},
			expected: []float64{},
		},
		{
			name:     "zero previous price yields zero return",
			prices:   []float64{0, 100},
			expected: []float64{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateReturns(tt.prices)
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d returns, got %d", len(tt.expected), len(result))
			}
			for i := range result {
				if !almostEqual(result[i], tt.expected[i]) {
					t.Errorf("return[%d] = %f, want %f", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}

	t.Run("perfect positive", func(t *testing.T) {
		y := []float64{2, 4, 6, 8, 10}
		if r := Correlation(x, y); !almostEqual(r, 1.0) {
			t.Errorf("expected 1.0, got %f", r)
		}
	})

	t.Run("perfect negative", func(t *testing.T) {
		y := []float64{10, 8, 6, 4, 2}
		if r := Correlation(x, y); !almostEqual(r, -1.0) {
			t.Errorf("expected -1.0, got %f", r)
		}
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		if r := Correlation(x, []float64{1, 2}); r != 0 {
			t.Errorf("expected 0, got %f", r)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if r := Correlation(nil, nil); r != 0 {
			t.Errorf("expected 0, got %f", r)
		}
	})
}
