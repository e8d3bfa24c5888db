package tabular

import (
	"fmt"
	"strconv"
	"strings"

	"kenrich/domain/gene"
	"kenrich/internal/errors"
)

// DEGLoadResult is the outcome of parsing one differential expression table.
type DEGLoadResult struct {
	Records []gene.Record
	Columns ColumnReport
	// SkippedRows counts rows dropped for unparseable or missing numeric
	// cells, mirroring the drop-NA behavior of expression pipelines.
	SkippedRows int
}

// LoadDEGTable maps table columns to canonical roles and parses each row
// into a gene.Record. Rows whose padj or log2FC cells are empty or
// non-numeric are skipped and counted, not fatal.
func LoadDEGTable(t *Table, mapping Mapping) (*DEGLoadResult, error) {
	report := ResolveColumns(t, mapping)
	if !report.Complete() {
		return nil, errors.ValidationError(fmt.Sprintf(
			"input table is missing required columns: %s", strings.Join(report.Missing(), ", ")))
	}

	result := &DEGLoadResult{Columns: report}
	for _, row := range t.Rows {
		padj, okP := parseFloat(row[report.Padj])
		log2fc, okF := parseFloat(row[report.Log2FC])
		ensembl := strings.TrimSpace(row[report.Ensembl])
		if !okP || !okF || ensembl == "" {
			result.SkippedRows++
			continue
		}

		rec := gene.Record{
			EnsemblID: ensembl,
			Log2FC:    log2fc,
			AdjP:      padj,
		}
		if report.Symbol != "" {
			rec.Symbol = cleanCell(row[report.Symbol])
		}
		result.Records = append(result.Records, rec)
	}

	if len(result.Records) == 0 {
		return nil, errors.ValidationError("no parseable rows in input table")
	}
	return result, nil
}

// FilterDEGs keeps the records that pass the significance and fold-change
// cutoffs and carry a valid Ensembl ID.
func FilterDEGs(records []gene.Record, padjCutoff, log2fcCutoff float64) []gene.Record {
	var out []gene.Record
	for _, r := range records {
		if r.AdjP < padjCutoff && abs(r.Log2FC) > log2fcCutoff && r.HasValidEnsemblID() {
			out = append(out, r)
		}
	}
	return out
}

// parseFloat parses a numeric cell, treating NA spellings as missing.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	switch strings.ToLower(s) {
	case "na", "nan", "none", "null":
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// cleanCell normalizes NA spellings to the empty string.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "na", "none", "null":
		return ""
	}
	return s
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
