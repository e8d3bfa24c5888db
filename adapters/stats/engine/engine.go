// Package engine runs the per-group enrichment sweep: one Fisher test per
// Key Event, then a single Benjamini-Hochberg correction across the family.
package engine

import (
	"context"
	"fmt"
	"math"

	"kenrich/adapters/stats/fdr"
	"kenrich/adapters/stats/fisher"
	"kenrich/domain/enrichment"
	"kenrich/domain/gene"
	"kenrich/domain/keventset"
	"kenrich/internal"
)

// Config controls one enrichment sweep.
type Config struct {
	// FDRThreshold is the adjusted p-value cutoff for significance.
	FDRThreshold float64
	// MinOverlap is the smallest DEG/group overlap worth testing. Groups
	// below it are skipped before the test, so they do not count toward
	// the correction family.
	MinOverlap int
	// Logger receives per-group cross-check diagnostics at debug level.
	// Nil disables them.
	Logger *internal.Logger
}

// DefaultConfig mirrors the conventional 0.05 FDR cutoff and skips groups
// with no overlapping genes at all.
func DefaultConfig() Config {
	return Config{
		FDRThreshold: 0.05,
		MinOverlap:   1,
	}
}

// Engine performs gene-set enrichment sweeps.
type Engine struct {
	cfg Config
}

// New creates an enrichment engine.
func New(cfg Config) *Engine {
	if cfg.FDRThreshold <= 0 {
		cfg.FDRThreshold = 0.05
	}
	if cfg.MinOverlap < 1 {
		cfg.MinOverlap = 1
	}
	return &Engine{cfg: cfg}
}

// Enrich tests every named Key Event in the collection for overrepresentation
// of degs against the collection's background universe. The returned table
// contains every tested group with BH-adjusted p-values, sorted by adjusted
// p-value ascending; callers filter by threshold via Table.Significant.
func (e *Engine) Enrich(ctx context.Context, degs gene.Set, groups *keventset.Collection) (*enrichment.Table, error) {
	universe := groups.Universe()
	if universe.Len() == 0 {
		return nil, fmt.Errorf("background universe is empty")
	}

	table := &enrichment.Table{}

	// Sorted iteration keeps reruns byte-identical.
	for _, keID := range groups.SortedIDs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ke, _ := groups.Get(keID)
		overlap := degs.Intersect(ke.Genes)
		if overlap.Len() < e.cfg.MinOverlap {
			continue
		}
		if !ke.HasName() {
			continue
		}

		ct := fisher.NewContingencyTable(degs, ke.Genes, universe)
		oddsRatio, pValue, err := fisher.ExactGreater(ct)
		if err != nil {
			return nil, fmt.Errorf("fisher test for %s: %w", keID, err)
		}

		if e.cfg.Logger != nil {
			if diff := CrossCheck(ct); !math.IsNaN(diff) {
				e.cfg.Logger.Debug("Chi-square cross-check for %s: exact and approximate p differ by %.3g", keID, diff)
			}
		}

		table.Results = append(table.Results, enrichment.Result{
			GroupID:          ke.ID,
			GroupName:        ke.Name,
			AOPs:             ke.AOPList(),
			Overlap:          overlap.Len(),
			GroupSize:        ke.Genes.Len(),
			PercentCovered:   float64(overlap.Len()) / float64(ke.Genes.Len()) * 100,
			OverlappingGenes: overlap.Sorted(),
			OddsRatio:        oddsRatio,
			PValue:           pValue,
		})
	}

	e.applyFDRCorrection(table)
	table.SortByQValue()
	return table, nil
}

// Significant runs Enrich and filters the table to the configured threshold.
func (e *Engine) Significant(ctx context.Context, degs gene.Set, groups *keventset.Collection) (*enrichment.Table, error) {
	table, err := e.Enrich(ctx, degs, groups)
	if err != nil {
		return nil, err
	}
	return table.Significant(e.cfg.FDRThreshold), nil
}

// applyFDRCorrection applies Benjamini-Hochberg across all tested groups.
func (e *Engine) applyFDRCorrection(table *enrichment.Table) {
	if table.IsEmpty() {
		return
	}

	pValues := make([]float64, table.Len())
	for i, r := range table.Results {
		pValues[i] = r.PValue
	}

	qValues := fdr.BenjaminiHochberg(pValues)
	for i := range table.Results {
		table.Results[i].QValue = qValues[i]
		table.Results[i].TotalComparisons = table.Len()
		table.Results[i].FDRMethod = fdr.MethodBH
	}
}

// CrossCheck compares the exact p-value of a result against the chi-square
// approximation and reports the absolute difference, or NaN when the table's
// expected counts are too small for the approximation to be admissible.
func CrossCheck(ct fisher.ContingencyTable) float64 {
	if !fisher.ExpectedCellsAtLeast(ct, 5) {
		return math.NaN()
	}
	_, exact, err := fisher.ExactGreater(ct)
	if err != nil {
		return math.NaN()
	}
	_, approx := fisher.ChiSquareYates(ct)
	return math.Abs(exact - approx)
}
