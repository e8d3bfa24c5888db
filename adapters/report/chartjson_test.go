package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"kenrich/domain/core"
	"kenrich/domain/enrichment"
	"kenrich/domain/gene"
)

func chartRun() *enrichment.Run {
	return &enrichment.Run{
		ID:   core.RunID("run-1"),
		Name: "liver_tx",
		Params: enrichment.Params{
			PadjCutoff:   0.05,
			Log2FCCutoff: 1.0,
			FDRThreshold: 0.05,
		},
		Table: enrichment.Table{Results: []enrichment.Result{
			{
				GroupID:          "KE1",
				GroupName:        "Oxidative stress",
				Overlap:          2,
				GroupSize:        4,
				OverlappingGenes: []string{"ENSG01", "ENSG02"},
				PValue:           0.0001,
				QValue:           0.0004,
			},
			{GroupID: "KE9", GroupName: "KEGG root term", Overlap: 3, QValue: 0.001},
			{GroupID: "KE2", GroupName: "Cell cycle arrest", Overlap: 1, QValue: 0.3},
		}},
	}
}

func TestBuildChartBundle(t *testing.T) {
	records := []gene.Record{
		{EnsemblID: "ENSG01", Log2FC: 2.5, Symbol: "HMOX1"},
		{EnsemblID: "ENSG02", Log2FC: -1.2, Symbol: "NQO1"},
	}
	bundle := BuildChartBundle(chartRun(), records, gene.NewSymbolMap(records))

	if bundle.RunID != "run-1" || bundle.RunName != "liver_tx" {
		t.Errorf("run identity = %q/%q", bundle.RunID, bundle.RunName)
	}
	// Root terms and non-significant rows are excluded from charts.
	if len(bundle.BarChart.Rows) != 1 {
		t.Fatalf("bars = %d, want 1", len(bundle.BarChart.Rows))
	}
	if bundle.BarChart.Rows[0].Label != "Oxidative stress" {
		t.Errorf("bar label = %q", bundle.BarChart.Rows[0].Label)
	}
	if len(bundle.Heatmaps) != 1 {
		t.Fatalf("heatmaps = %d, want 1", len(bundle.Heatmaps))
	}
	hm := bundle.Heatmaps[0]
	if len(hm.Cells) != 2 || hm.Cells[0].Label != "HMOX1" {
		t.Errorf("heatmap cells = %+v", hm.Cells)
	}
}

func TestBuildChartBundleWithoutRecords(t *testing.T) {
	// Runs reloaded from a store carry no expression records; the bar
	// chart still renders and the heatmaps are simply empty.
	bundle := BuildChartBundle(chartRun(), nil, nil)
	if len(bundle.BarChart.Rows) != 1 {
		t.Fatalf("bars = %d, want 1", len(bundle.BarChart.Rows))
	}
	if len(bundle.Heatmaps) != 1 || len(bundle.Heatmaps[0].Cells) != 0 {
		t.Errorf("heatmaps = %+v", bundle.Heatmaps)
	}
}

func TestWriteChartJSON(t *testing.T) {
	records := []gene.Record{{EnsemblID: "ENSG01", Log2FC: 2.5, Symbol: "HMOX1"}}
	bundle := BuildChartBundle(chartRun(), records, gene.NewSymbolMap(records))

	path := filepath.Join(t.TempDir(), "charts", "liver_tx_charts.json")
	if err := WriteChartJSON(path, bundle); err != nil {
		t.Fatalf("WriteChartJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var decoded ChartBundle
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.RunID != "run-1" || decoded.FDRThreshold != 0.05 {
		t.Errorf("decoded header = %q/%v", decoded.RunID, decoded.FDRThreshold)
	}
	if len(decoded.BarChart.Rows) != 1 {
		t.Errorf("decoded bars = %d, want 1", len(decoded.BarChart.Rows))
	}
}
