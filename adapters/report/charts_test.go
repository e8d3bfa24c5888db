package report

import (
	"math"
	"testing"

	"kenrich/domain/enrichment"
	"kenrich/domain/gene"
)

func TestBuildHeatmap(t *testing.T) {
	result := enrichment.Result{
		GroupName:        "Oxidative stress",
		OverlappingGenes: []string{"ENSG01", "ENSG02", "ENSG03"},
	}
	records := []gene.Record{
		{EnsemblID: "ENSG01", Log2FC: 1.5, Symbol: "TP53"},
		{EnsemblID: "ENSG02", Log2FC: -2.0, Symbol: "BRCA1"},
		{EnsemblID: "ENSG03", Log2FC: 3.0},
		{EnsemblID: "ENSG99", Log2FC: 9.9}, // not overlapping, ignored
	}
	symbols := gene.NewSymbolMap(records)

	hm := BuildHeatmap(result, records, symbols)

	if len(hm.Cells) != 3 {
		t.Fatalf("cells = %d, want 3", len(hm.Cells))
	}
	// Descending fold change, symbol labels where known.
	if hm.Cells[0].Label != "ENSG03" || hm.Cells[1].Label != "TP53" || hm.Cells[2].Label != "BRCA1" {
		t.Errorf("unexpected cell order: %+v", hm.Cells)
	}
	if hm.Cells[0].Log2FC != 3.0 {
		t.Errorf("top cell Log2FC = %v, want 3", hm.Cells[0].Log2FC)
	}

	if math.Abs(hm.Summary.Mean-(1.5-2.0+3.0)/3) > 1e-12 {
		t.Errorf("mean = %v", hm.Summary.Mean)
	}
	if hm.Summary.Min != -2.0 || hm.Summary.Max != 3.0 {
		t.Errorf("min/max = %v/%v", hm.Summary.Min, hm.Summary.Max)
	}
	if hm.Summary.Median != 1.5 {
		t.Errorf("median = %v, want 1.5", hm.Summary.Median)
	}
}

func TestBuildBarChart(t *testing.T) {
	table := &enrichment.Table{Results: []enrichment.Result{
		{GroupName: "A", QValue: 0.001, Overlap: 5},
		{GroupName: "B", QValue: 0.04, Overlap: 3},
		{GroupName: "C", QValue: 0.2, Overlap: 2},
		{GroupName: "D", QValue: 0.9, Overlap: 1},
	}}

	chart := BuildBarChart(table, 0.05, 3)

	if len(chart.Rows) != 3 {
		t.Fatalf("rows = %d, want maxTerms 3", len(chart.Rows))
	}
	if math.Abs(chart.ReferenceLine-(-math.Log10(0.05))) > 1e-12 {
		t.Errorf("reference line = %v", chart.ReferenceLine)
	}
	if math.Abs(chart.Rows[0].NegLog10Q-3) > 1e-12 {
		t.Errorf("first bar = %v, want 3", chart.Rows[0].NegLog10Q)
	}
	if !chart.Rows[0].Significant || !chart.Rows[1].Significant || chart.Rows[2].Significant {
		t.Errorf("significance flags wrong: %+v", chart.Rows)
	}
}

func TestBuildBarChartZeroQ(t *testing.T) {
	table := &enrichment.Table{Results: []enrichment.Result{
		{GroupName: "A", QValue: 0, Overlap: 5},
	}}
	chart := BuildBarChart(table, 0.05, 10)
	if math.IsInf(chart.Rows[0].NegLog10Q, 1) || math.IsNaN(chart.Rows[0].NegLog10Q) {
		t.Errorf("NegLog10Q = %v, want finite", chart.Rows[0].NegLog10Q)
	}
}

func TestFilterRootTerms(t *testing.T) {
	table := &enrichment.Table{Results: []enrichment.Result{
		{GroupName: "Oxidative stress"},
		{GroupName: "KEGG root term"},
		{GroupName: "biological_process"},
		{GroupName: "Apoptosis"},
	}}
	got := FilterRootTerms(table)
	if got.Len() != 2 {
		t.Fatalf("kept %d rows, want 2", got.Len())
	}
	if got.Results[0].GroupName != "Oxidative stress" || got.Results[1].GroupName != "Apoptosis" {
		t.Errorf("unexpected rows: %+v", got.Results)
	}
}
