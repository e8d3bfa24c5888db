package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"kenrich/domain/enrichment"
	"kenrich/domain/gene"
	"kenrich/internal/errors"
)

// DefaultMaxChartTerms caps the significance bar chart length.
const DefaultMaxChartTerms = 20

// ChartBundle packages the render-ready chart data of one run for plotting
// front ends: a significance bar chart plus one fold-change heatmap per
// enriched group.
type ChartBundle struct {
	RunID        string     `json:"run_id"`
	RunName      string     `json:"run_name,omitempty"`
	FDRThreshold float64    `json:"fdr_threshold"`
	BarChart     *BarChart  `json:"bar_chart"`
	Heatmaps     []*Heatmap `json:"heatmaps"`
}

// BuildChartBundle assembles chart data from a run's significant rows, with
// root and technical category terms dropped first. records may be empty, as
// for runs reloaded from a store; heatmaps then carry no cells.
func BuildChartBundle(run *enrichment.Run, records []gene.Record, symbols gene.SymbolMap) *ChartBundle {
	charted := FilterRootTerms(run.Table.Significant(run.Params.FDRThreshold))
	bundle := &ChartBundle{
		RunID:        string(run.ID),
		RunName:      run.Name,
		FDRThreshold: run.Params.FDRThreshold,
		BarChart:     BuildBarChart(charted, run.Params.FDRThreshold, DefaultMaxChartTerms),
	}
	for _, r := range charted.Results {
		bundle.Heatmaps = append(bundle.Heatmaps, BuildHeatmap(r, records, symbols))
	}
	return bundle
}

// WriteChartJSON writes a chart bundle as an indented JSON document.
func WriteChartJSON(path string, bundle *ChartBundle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create output directory for %s", path)
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode chart data")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
