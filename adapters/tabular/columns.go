package tabular

// Column alias families observed across DESeq2, edgeR, and limma exports.
// Auto-detection checks these in order; an explicit Mapping always wins.
var (
	PadjAliases    = []string{"padj", "adj_pvalue", "FDR", "qvalue", "adjusted_pvalue"}
	Log2FCAliases  = []string{"log2FoldChange", "log2FC", "logFC", "log2fc"}
	EnsemblAliases = []string{"human_ensembl_id", "ensembl_id", "ensembl", "gene_id"}
	PValueAliases  = []string{"pvalue", "p_value", "pval", "PValue"}
	SymbolAliases  = []string{"gene", "gene_name", "symbol", "gene_symbol", "Gene", "Gene Name"}
)

// Mapping assigns table columns to their canonical roles. Empty fields fall
// back to alias auto-detection.
type Mapping struct {
	Padj    string
	Log2FC  string
	Ensembl string
	Symbol  string
}

// ColumnReport records which canonical columns a table provides and under
// which header, for pre-flight validation feedback.
type ColumnReport struct {
	Padj    string
	Log2FC  string
	Ensembl string
	PValue  string
	Symbol  string
}

// Complete reports whether all columns required for enrichment were found.
// The symbol and raw p-value columns are optional.
func (r ColumnReport) Complete() bool {
	return r.Padj != "" && r.Log2FC != "" && r.Ensembl != ""
}

// Missing lists the required canonical columns that could not be resolved.
func (r ColumnReport) Missing() []string {
	var missing []string
	if r.Padj == "" {
		missing = append(missing, "adjusted p-value")
	}
	if r.Log2FC == "" {
		missing = append(missing, "log2 fold change")
	}
	if r.Ensembl == "" {
		missing = append(missing, "Ensembl ID")
	}
	return missing
}

// FindColumn returns the first alias present in the table's headers.
func FindColumn(t *Table, aliases []string) string {
	for _, alias := range aliases {
		if t.HasColumn(alias) {
			return alias
		}
	}
	return ""
}

// ResolveColumns applies the explicit mapping and fills the gaps from the
// alias families.
func ResolveColumns(t *Table, mapping Mapping) ColumnReport {
	report := ColumnReport{
		Padj:    mapping.Padj,
		Log2FC:  mapping.Log2FC,
		Ensembl: mapping.Ensembl,
		Symbol:  mapping.Symbol,
	}

	if report.Padj != "" && !t.HasColumn(report.Padj) {
		report.Padj = ""
	}
	if report.Log2FC != "" && !t.HasColumn(report.Log2FC) {
		report.Log2FC = ""
	}
	if report.Ensembl != "" && !t.HasColumn(report.Ensembl) {
		report.Ensembl = ""
	}
	if report.Symbol != "" && !t.HasColumn(report.Symbol) {
		report.Symbol = ""
	}

	if report.Padj == "" {
		report.Padj = FindColumn(t, PadjAliases)
	}
	if report.Log2FC == "" {
		report.Log2FC = FindColumn(t, Log2FCAliases)
	}
	if report.Ensembl == "" {
		report.Ensembl = FindColumn(t, EnsemblAliases)
	}
	if report.Symbol == "" {
		report.Symbol = FindColumn(t, SymbolAliases)
	}
	report.PValue = FindColumn(t, PValueAliases)

	return report
}
