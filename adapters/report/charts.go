package report

import (
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"kenrich/domain/enrichment"
	"kenrich/domain/gene"
)

// HeatmapCell is one gene of a fold-change heatmap strip.
type HeatmapCell struct {
	Label  string  `json:"label"`
	Log2FC float64 `json:"log2_fc"`
}

// FoldChangeSummary describes the fold-change distribution of the genes in
// one heatmap, for color-scale calibration.
type FoldChangeSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Heatmap is the render-ready data for one group's fold-change strip.
type Heatmap struct {
	GroupName string            `json:"group_name"`
	Cells     []HeatmapCell     `json:"cells"`
	Summary   FoldChangeSummary `json:"summary"`
}

// BuildHeatmap assembles the heatmap for one enrichment result: overlapping
// genes labeled by symbol, ordered by descending log2 fold change.
func BuildHeatmap(result enrichment.Result, records []gene.Record, symbols gene.SymbolMap) *Heatmap {
	byID := make(map[string]gene.Record, len(records))
	for _, r := range records {
		byID[r.EnsemblID] = r
	}

	hm := &Heatmap{GroupName: result.GroupName}
	values := make([]float64, 0, len(result.OverlappingGenes))
	for _, id := range result.OverlappingGenes {
		rec, ok := byID[id]
		if !ok {
			continue
		}
		hm.Cells = append(hm.Cells, HeatmapCell{
			Label:  symbols.Resolve(id),
			Log2FC: rec.Log2FC,
		})
		values = append(values, rec.Log2FC)
	}

	sort.SliceStable(hm.Cells, func(i, j int) bool {
		return hm.Cells[i].Log2FC > hm.Cells[j].Log2FC
	})

	if len(values) > 0 {
		mean, _ := stats.Mean(values)
		median, _ := stats.Median(values)
		minV, _ := stats.Min(values)
		maxV, _ := stats.Max(values)
		hm.Summary = FoldChangeSummary{Mean: mean, Median: median, Min: minV, Max: maxV}
	}
	return hm
}

// BarRow is one bar of an enrichment significance chart.
type BarRow struct {
	Label       string  `json:"label"`
	NegLog10Q   float64 `json:"neg_log10_q"`
	GeneCount   int     `json:"gene_count"`
	Significant bool    `json:"significant"`
}

// BarChart is the render-ready data for a horizontal significance bar chart.
type BarChart struct {
	Rows []BarRow `json:"rows"`
	// ReferenceLine is the -log10 of the significance threshold, drawn as
	// the cutoff marker.
	ReferenceLine float64 `json:"reference_line"`
}

// BuildBarChart selects the top maxTerms rows of the table (assumed sorted
// by adjusted p-value ascending) and converts them to -log10 bars.
func BuildBarChart(table *enrichment.Table, threshold float64, maxTerms int) *BarChart {
	chart := &BarChart{ReferenceLine: -math.Log10(threshold)}
	for i, r := range table.Results {
		if i >= maxTerms {
			break
		}
		q := r.QValue
		if q <= 0 {
			// Guard against log of zero for vanishingly small q-values.
			q = math.SmallestNonzeroFloat64
		}
		chart.Rows = append(chart.Rows, BarRow{
			Label:       TruncateString(r.GroupName, 50),
			NegLog10Q:   -math.Log10(q),
			GeneCount:   r.Overlap,
			Significant: r.QValue < threshold,
		})
	}
	return chart
}

// Root and technical terms excluded from pathway-category charts; they carry
// no biological signal and crowd out informative terms.
var rootTerms = map[string]struct{}{
	"kegg root term":     {},
	"root":               {},
	"biological_process": {},
	"molecular_function": {},
	"cellular_component": {},
}

// FilterRootTerms drops root/technical category rows from a result table.
func FilterRootTerms(table *enrichment.Table) *enrichment.Table {
	out := &enrichment.Table{}
	for _, r := range table.Results {
		if _, isRoot := rootTerms[strings.ToLower(strings.TrimSpace(r.GroupName))]; isRoot {
			continue
		}
		out.Results = append(out.Results, r)
	}
	return out
}
