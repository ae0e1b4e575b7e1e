package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquareResult is the outcome of a chi-square test of independence
type ChiSquareResult struct {
	Chi2     float64
	P        float64
	DoF      int
	N        float64
	CramersV float64
}

// ChiSquare runs a chi-square test of independence on a contingency table
// (rows × columns of observed counts). Yates' continuity correction is
// applied when there is exactly one degree of freedom. A table with zero
// degrees of freedom yields chi2 = 0 and p = 1.
func ChiSquare(table [][]float64) (ChiSquareResult, error) {
	rows := len(table)
	if rows == 0 {
		return ChiSquareResult{}, fmt.Errorf("empty contingency table")
	}
	cols := len(table[0])
	if cols == 0 {
		return ChiSquareResult{}, fmt.Errorf("empty contingency table")
	}

	rowSums := make([]float64, rows)
	colSums := make([]float64, cols)
	var n float64
	for i, row := range table {
		if len(row) != cols {
			return ChiSquareResult{}, fmt.Errorf("ragged contingency table: row %d has %d columns, want %d", i, len(row), cols)
		}
		for j, v := range row {
			if v < 0 {
				return ChiSquareResult{}, fmt.Errorf("negative count %v at (%d, %d)", v, i, j)
			}
			rowSums[i] += v
			colSums[j] += v
			n += v
		}
	}
	if n == 0 {
		return ChiSquareResult{}, fmt.Errorf("contingency table has no observations")
	}

	dof := (rows - 1) * (cols - 1)
	result := ChiSquareResult{DoF: dof, N: n}
	if dof == 0 {
		result.Chi2 = 0
		result.P = 1
		result.CramersV = CramersV(0, n, rows, cols)
		return result, nil
	}

	var chi2 float64
	for i := range table {
		for j := range table[i] {
			expected := rowSums[i] * colSums[j] / n
			if expected == 0 {
				return ChiSquareResult{}, fmt.Errorf("zero expected frequency at (%d, %d)", i, j)
			}
			diff := table[i][j] - expected
			if dof == 1 {
				// Yates: shrink |O-E| by 0.5 but never past zero
				adj := math.Min(0.5, math.Abs(diff))
				diff = math.Abs(diff) - adj
			}
			chi2 += diff * diff / expected
		}
	}

	result.Chi2 = chi2
	result.P = distuv.ChiSquared{K: float64(dof)}.Survival(chi2)
	result.CramersV = CramersV(chi2, n, rows, cols)
	return result, nil
}

// CramersV is the chi-square effect size sqrt(chi2 / (n * min(r-1, c-1))).
// NaN when the denominator is not positive (1×N, N×1 or empty tables).
func CramersV(chi2, n float64, rows, cols int) float64 {
	denom := n * float64(min(rows-1, cols-1))
	if denom <= 0 {
		return math.NaN()
	}
	return math.Sqrt(chi2 / denom)
}
