package fisher

import (
	"fmt"
	"math"

	"kenrich/domain/gene"
)

// ContingencyTable is the 2x2 table behind a single enrichment test.
//
//	            in group   not in group
//	in DEGs        A            B
//	not in DEGs    C            D
type ContingencyTable struct {
	A int `json:"a"` // in DEGs and in group
	B int `json:"b"` // in DEGs, not in group
	C int `json:"c"` // not in DEGs, in group
	D int `json:"d"` // not in DEGs, not in group
}

// NewContingencyTable builds the table for DEG set degs against group genes
// within the background universe. DEGs absent from the universe still count
// in cell B; the universe bounds only cell D.
func NewContingencyTable(degs, group, universe gene.Set) ContingencyTable {
	overlap := degs.Intersect(group)
	return ContingencyTable{
		A: overlap.Len(),
		B: degs.Difference(group).Len(),
		C: group.Difference(degs).Len(),
		D: universe.Difference(degs).Difference(group).Len(),
	}
}

// Total returns the grand total of the table.
func (t ContingencyTable) Total() int {
	return t.A + t.B + t.C + t.D
}

// Validate checks cell counts for negative values.
func (t ContingencyTable) Validate() error {
	if t.A < 0 || t.B < 0 || t.C < 0 || t.D < 0 {
		return fmt.Errorf("contingency table has negative cell: %+v", t)
	}
	return nil
}

// OddsRatio returns the sample odds ratio (A*D)/(B*C). When B*C is zero the
// ratio is +Inf for a non-zero numerator and NaN when the numerator is zero
// as well, matching the conventions of common statistics libraries.
func (t ContingencyTable) OddsRatio() float64 {
	num := float64(t.A) * float64(t.D)
	den := float64(t.B) * float64(t.C)
	if den == 0 {
		if num == 0 {
			return math.NaN()
		}
		return math.Inf(1)
	}
	return num / den
}

// ExactGreater runs Fisher's exact test with the one-sided "greater"
// alternative: the probability of observing an overlap at least as large as
// A under the hypergeometric null. Returns the odds ratio and p-value.
func ExactGreater(t ContingencyTable) (oddsRatio, pValue float64, err error) {
	if err := t.Validate(); err != nil {
		return 0, 1, err
	}

	n := t.Total()
	if n == 0 {
		return 0, 1, fmt.Errorf("contingency table is empty")
	}

	// Hypergeometric parameters: draw the DEG list (A+B genes) from a
	// universe of n genes containing A+C group members.
	draws := t.A + t.B
	successes := t.A + t.C

	maxOverlap := draws
	if successes < draws {
		maxOverlap = successes
	}

	// Upper-tail sum in log space. Each term is
	// C(successes, k) * C(n-successes, draws-k) / C(n, draws).
	logDenom := logChoose(n, draws)
	p := 0.0
	for k := t.A; k <= maxOverlap; k++ {
		logTerm := logChoose(successes, k) + logChoose(n-successes, draws-k) - logDenom
		p += math.Exp(logTerm)
	}

	// Summation error can push the tail fractionally past 1.
	if p > 1 {
		p = 1
	}
	if p < 0 {
		p = 0
	}

	return t.OddsRatio(), p, nil
}

// logChoose returns log C(n, k) via the log-gamma function.
func logChoose(n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	if k == 0 || k == n {
		return 0
	}
	ln1, _ := math.Lgamma(float64(n + 1))
	lk1, _ := math.Lgamma(float64(k + 1))
	lnk1, _ := math.Lgamma(float64(n - k + 1))
	return ln1 - lk1 - lnk1
}
