package enrichment

import (
	"sort"

	"kenrich/domain/core"
)

// Result is the outcome of testing one gene group for overrepresentation.
// INVARIANTS:
//   - Overlap <= min(DEG list size, GroupSize)
//   - 0 <= PValue <= QValue' where QValue' is QValue before clamping; the
//     stored QValue is always >= PValue and <= 1
//   - OverlappingGenes is sorted lexicographically
type Result struct {
	GroupID          string   `json:"group_id"`
	GroupName        string   `json:"group_name"`
	AOPs             string   `json:"aops,omitempty"`
	Overlap          int      `json:"overlap"`
	GroupSize        int      `json:"group_size"`
	PercentCovered   float64  `json:"percent_covered"`
	OverlappingGenes []string `json:"overlapping_genes"`
	OddsRatio        float64  `json:"odds_ratio"`
	PValue           float64  `json:"p_value"`
	QValue           float64  `json:"q_value"`
	TotalComparisons int      `json:"total_comparisons"`
	FDRMethod        string   `json:"fdr_method,omitempty"`
}

// Table is an ordered set of enrichment results for one analysis.
type Table struct {
	Results []Result `json:"results"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Results)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return len(t.Results) == 0
}

// SortByQValue orders rows by adjusted p-value ascending, breaking ties by
// raw p-value and then group ID so ordering is deterministic.
func (t *Table) SortByQValue() {
	sort.SliceStable(t.Results, func(i, j int) bool {
		a, b := t.Results[i], t.Results[j]
		if a.QValue != b.QValue {
			return a.QValue < b.QValue
		}
		if a.PValue != b.PValue {
			return a.PValue < b.PValue
		}
		return a.GroupID < b.GroupID
	})
}

// Significant returns the rows with adjusted p-value below threshold,
// preserving order.
func (t *Table) Significant(threshold float64) *Table {
	out := &Table{}
	for _, r := range t.Results {
		if r.QValue < threshold {
			out.Results = append(out.Results, r)
		}
	}
	return out
}

// Params captures the thresholds an analysis ran with.
type Params struct {
	PadjCutoff   float64 `json:"padj_cutoff"`
	Log2FCCutoff float64 `json:"log2fc_cutoff"`
	FDRThreshold float64 `json:"fdr_threshold"`
}

// Run is one complete analysis: its inputs, parameters, and result table.
type Run struct {
	ID           core.RunID     `json:"id"`
	Name         string         `json:"name"`
	SourceFile   string         `json:"source_file"`
	Params       Params         `json:"params"`
	DEGCount     int            `json:"deg_count"`
	UniverseSize int            `json:"universe_size"`
	TestedGroups int            `json:"tested_groups"`
	Table        Table          `json:"table"`
	CreatedAt    core.Timestamp `json:"created_at"`
}
