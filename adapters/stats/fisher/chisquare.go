package fisher

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquareYates runs the chi-square test of independence on a 2x2 table
// with Yates continuity correction. It is a large-count approximation to the
// exact test, used as a cross-check when every expected cell count is at
// least five; callers should prefer ExactGreater for small tables.
func ChiSquareYates(t ContingencyTable) (statistic, pValue float64) {
	n := float64(t.Total())
	if n == 0 {
		return 0, 1
	}

	row1 := float64(t.A + t.B)
	row2 := float64(t.C + t.D)
	col1 := float64(t.A + t.C)
	col2 := float64(t.B + t.D)
	if row1 == 0 || row2 == 0 || col1 == 0 || col2 == 0 {
		// A zero marginal makes the statistic degenerate.
		return 0, 1
	}

	diff := math.Abs(float64(t.A)*float64(t.D)-float64(t.B)*float64(t.C)) - n/2
	if diff < 0 {
		diff = 0
	}
	statistic = n * diff * diff / (row1 * row2 * col1 * col2)

	chi2 := distuv.ChiSquared{K: 1}
	pValue = 1 - chi2.CDF(statistic)
	if pValue < 0 {
		pValue = 0
	}
	return statistic, pValue
}

// ExpectedCellsAtLeast reports whether every expected cell count of the
// table reaches the given minimum, the usual admissibility rule for the
// chi-square approximation.
func ExpectedCellsAtLeast(t ContingencyTable, minExpected float64) bool {
	n := float64(t.Total())
	if n == 0 {
		return false
	}

	rows := [2]float64{float64(t.A + t.B), float64(t.C + t.D)}
	cols := [2]float64{float64(t.A + t.C), float64(t.B + t.D)}
	for _, r := range rows {
		for _, c := range cols {
			if r*c/n < minExpected {
				return false
			}
		}
	}
	return true
}
