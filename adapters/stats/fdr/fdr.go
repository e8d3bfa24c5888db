// Package fdr implements multiple-testing correction for families of
// simultaneous hypothesis tests.
package fdr

import "sort"

// MethodBH is the Benjamini-Hochberg step-up procedure.
const MethodBH = "BH"

// BenjaminiHochberg returns the BH-adjusted p-values (q-values) for a family
// of raw p-values, in the same order as the input.
//
// The adjusted values satisfy the step-up properties: q_i >= p_i for every
// test, every q is clamped to [0, 1], and sorting by raw p-value ascending
// yields monotonically non-decreasing q-values.
func BenjaminiHochberg(pValues []float64) []float64 {
	m := len(pValues)
	if m == 0 {
		return nil
	}

	// Rank tests by raw p-value ascending.
	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return pValues[order[i]] < pValues[order[j]]
	})

	// q_i = p_i * m / rank_i, then enforce monotonicity with a running
	// minimum from the largest rank down.
	adjusted := make([]float64, m)
	running := 1.0
	for i := m - 1; i >= 0; i-- {
		idx := order[i]
		rank := i + 1
		q := pValues[idx] * float64(m) / float64(rank)
		if q < running {
			running = q
		}
		adjusted[idx] = running
	}

	for i, q := range adjusted {
		if q > 1 {
			adjusted[i] = 1
		} else if q < 0 {
			adjusted[i] = 0
		}
	}
	return adjusted
}
