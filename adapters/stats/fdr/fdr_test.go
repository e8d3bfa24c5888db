package fdr

import (
	"math"
	"sort"
	"testing"
)

func TestBenjaminiHochberg(t *testing.T) {
	t.Run("known values", func(t *testing.T) {
		// Hand-computed step-up: sorted p = [0.002, 0.01, 0.03, 0.04],
		// raw q = [0.008, 0.025, 0.04, 0.04], already monotone.
		p := []float64{0.01, 0.04, 0.03, 0.002}
		want := []float64{0.025, 0.04, 0.04, 0.008}

		q := BenjaminiHochberg(p)
		for i := range want {
			if math.Abs(q[i]-want[i]) > 1e-12 {
				t.Errorf("q[%d] = %v, want %v", i, q[i], want[i])
			}
		}
	})

	t.Run("adjusted never below raw", func(t *testing.T) {
		p := []float64{0.001, 0.2, 0.04, 0.9, 0.3, 0.0004, 0.11}
		q := BenjaminiHochberg(p)
		for i := range p {
			if q[i] < p[i] {
				t.Errorf("q[%d] = %v below p = %v", i, q[i], p[i])
			}
		}
	})

	t.Run("monotone in p order", func(t *testing.T) {
		p := []float64{0.03, 0.001, 0.3, 0.02, 0.6, 0.0005}
		q := BenjaminiHochberg(p)

		order := make([]int, len(p))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(i, j int) bool { return p[order[i]] < p[order[j]] })

		for i := 1; i < len(order); i++ {
			if q[order[i]] < q[order[i-1]] {
				t.Errorf("q not monotone: q=%v at p=%v below q=%v at p=%v",
					q[order[i]], p[order[i]], q[order[i-1]], p[order[i-1]])
			}
		}
	})

	t.Run("clamped to one", func(t *testing.T) {
		q := BenjaminiHochberg([]float64{0.9, 0.95, 0.99})
		for i, v := range q {
			if v > 1 {
				t.Errorf("q[%d] = %v exceeds 1", i, v)
			}
		}
	})

	t.Run("single test unchanged", func(t *testing.T) {
		q := BenjaminiHochberg([]float64{0.031})
		if len(q) != 1 || q[0] != 0.031 {
			t.Errorf("got %v, want [0.031]", q)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if q := BenjaminiHochberg(nil); q != nil {
			t.Errorf("got %v, want nil", q)
		}
	})

	t.Run("stricter threshold never admits more", func(t *testing.T) {
		p := []float64{0.001, 0.02, 0.04, 0.3, 0.5, 0.007}
		q := BenjaminiHochberg(p)

		countBelow := func(threshold float64) int {
			n := 0
			for _, v := range q {
				if v < threshold {
					n++
				}
			}
			return n
		}

		thresholds := []float64{0.2, 0.1, 0.05, 0.01, 0.001}
		for i := 1; i < len(thresholds); i++ {
			if countBelow(thresholds[i]) > countBelow(thresholds[i-1]) {
				t.Errorf("threshold %v admits more results than %v",
					thresholds[i], thresholds[i-1])
			}
		}
	})
}
