package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateCorrelationMatrix(t *testing.T) {
	t.Run("empty input yields empty matrix", func(t *testing.T) {
		matrix := CalculateCorrelationMatrix(map[string]Series{})
		assert.True(t, matrix.Empty())
		assert.NotNil(t, matrix.Tickers)
		assert.NotNil(t, matrix.Matrix)
	})

	t.Run("fewer than two common dates yields empty matrix", func(t *testing.T) {
		historical := map[string]Series{
			"EWLD.PA": seriesOf(
				[2]interface{}{"2026-01-05", 29.0},
				[2]interface{}{"2026-01-06", 29.5},
			),
			"PE500.PA": seriesOf(
				[2]interface{}{"2026-01-06", 43.0},
				[2]interface{}{"2026-01-07", 43.5},
			),
		}
		matrix := CalculateCorrelationMatrix(historical)
		assert.True(t, matrix.Empty())
	})

	t.Run("perfectly correlated series", func(t *testing.T) {
		historical := map[string]Series{
			"EWLD.PA": seriesOf(
				[2]interface{}{"2026-01-05", 100.0},
				[2]interface{}{"2026-01-06", 110.0},
				[2]interface{}{"2026-01-07", 99.0},
				[2]interface{}{"2026-01-08", 105.0},
			),
			"PE500.PA": seriesOf(
				// Same returns, double the scale
				[2]interface{}{"2026-01-05", 200.0},
				[2]interface{}{"2026-01-06", 220.0},
				[2]interface{}{"2026-01-07", 198.0},
				[2]interface{}{"2026-01-08", 210.0},
			),
		}

		matrix := CalculateCorrelationMatrix(historical)
		require.Equal(t, []string{"EWLD.PA", "PE500.PA"}, matrix.Tickers)
		require.Len(t, matrix.Matrix, 2)
		assert.InDelta(t, 1.0, matrix.Matrix[0][1], 1e-9)
	})

	t.Run("diagonal and symmetry", func(t *testing.T) {
		historical := map[string]Series{
			"EWLD.PA": seriesOf(
				[2]interface{}{"2026-01-05", 100.0},
				[2]interface{}{"2026-01-06", 104.0},
				[2]interface{}{"2026-01-07", 101.0},
				[2]interface{}{"2026-01-08", 106.0},
			),
			"PAEEM.PA": seriesOf(
				[2]interface{}{"2026-01-05", 18.0},
				[2]interface{}{"2026-01-06", 17.5},
				[2]interface{}{"2026-01-07", 18.2},
				[2]interface{}{"2026-01-08", 17.9},
			),
			"PE500.PA": seriesOf(
				[2]interface{}{"2026-01-05", 43.0},
				[2]interface{}{"2026-01-06", 43.8},
				[2]interface{}{"2026-01-07", 42.9},
				[2]interface{}{"2026-01-08", 44.1},
			),
		}

		matrix := CalculateCorrelationMatrix(historical)
		require.Len(t, matrix.Tickers, 3)
		assert.Equal(t, []string{"EWLD.PA", "PAEEM.PA", "PE500.PA"}, matrix.Tickers)

		for i := range matrix.Matrix {
			assert.Equal(t, 1.0, matrix.Matrix[i][i], "diagonal must be exactly 1.0")
			for j := range matrix.Matrix[i] {
				assert.InDelta(t, matrix.Matrix[j][i], matrix.Matrix[i][j], 1e-9,
					"matrix must equal its transpose")
				assert.False(t, math.IsNaN(matrix.Matrix[i][j]))
			}
		}
	})

	t.Run("ticker with no data is dropped not zeroed", func(t *testing.T) {
		historical := map[string]Series{
			"EWLD.PA": seriesOf(
				[2]interface{}{"2026-01-05", 100.0},
				[2]interface{}{"2026-01-06", 104.0},
				[2]interface{}{"2026-01-07", 101.0},
			),
			"PCEU.PA": {},
		}

		matrix := CalculateCorrelationMatrix(historical)
		assert.Equal(t, []string{"EWLD.PA"}, matrix.Tickers)
		require.Len(t, matrix.Matrix, 1)
		assert.Equal(t, 1.0, matrix.Matrix[0][0])
	})
}
