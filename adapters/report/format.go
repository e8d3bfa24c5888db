package report

import (
	"fmt"
	"math"
	"strings"

	"kenrich/domain/enrichment"
	"kenrich/domain/gene"
)

// FormatScientific formats a value in scientific notation with the given
// number of decimals, e.g. 0.00001 -> "1.00e-05".
func FormatScientific(value float64, decimals int) string {
	if math.IsNaN(value) {
		return "NA"
	}
	return fmt.Sprintf("%.*e", decimals, value)
}

// FormatPercent formats a percentage value with one decimal, e.g. "45.5%".
func FormatPercent(value float64) string {
	if math.IsNaN(value) {
		return "NA"
	}
	return fmt.Sprintf("%.1f%%", value)
}

// FormatOddsRatio formats an odds ratio with two decimals; infinite ratios
// (empty off-diagonal cells) render as "Inf".
func FormatOddsRatio(value float64) string {
	if math.IsNaN(value) {
		return "NA"
	}
	if math.IsInf(value, 1) {
		return "Inf"
	}
	return fmt.Sprintf("%.2f", value)
}

// TruncateString shortens a string to maxLength, appending "..." when cut.
func TruncateString(text string, maxLength int) string {
	const suffix = "..."
	if len(text) <= maxLength {
		return text
	}
	return text[:maxLength-len(suffix)] + suffix
}

// DisplayRow is one enrichment result formatted for human consumption.
type DisplayRow struct {
	GroupID        string
	GroupName      string
	AOPs           string
	Overlap        int
	GroupSize      int
	PercentCovered string
	Genes          string
	OddsRatio      string
	PValue         string
	QValue         string
}

// DisplayHeaders is the column order for rendered result tables.
var DisplayHeaders = []string{
	"KE", "KE name", "AOP", "DEGs in KE", "KE size",
	"Percent of KE covered", "Overlapping DEGs",
	"Odds ratio", "p-value", "adjusted p-value",
}

// FormatTable converts a result table into display rows, translating
// overlapping Ensembl IDs to symbols where the symbol map knows them.
func FormatTable(table *enrichment.Table, symbols gene.SymbolMap) []DisplayRow {
	rows := make([]DisplayRow, 0, table.Len())
	for _, r := range table.Results {
		rows = append(rows, DisplayRow{
			GroupID:        r.GroupID,
			GroupName:      r.GroupName,
			AOPs:           r.AOPs,
			Overlap:        r.Overlap,
			GroupSize:      r.GroupSize,
			PercentCovered: FormatPercent(r.PercentCovered),
			Genes:          strings.Join(symbols.ResolveAll(r.OverlappingGenes), ", "),
			OddsRatio:      FormatOddsRatio(r.OddsRatio),
			PValue:         FormatScientific(r.PValue, 2),
			QValue:         FormatScientific(r.QValue, 2),
		})
	}
	return rows
}

// Cells returns the row's values in DisplayHeaders order.
func (d DisplayRow) Cells() []string {
	return []string{
		d.GroupID, d.GroupName, d.AOPs,
		fmt.Sprintf("%d", d.Overlap), fmt.Sprintf("%d", d.GroupSize),
		d.PercentCovered, d.Genes, d.OddsRatio, d.PValue, d.QValue,
	}
}
