package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"kenrich/adapters/jsonstore"
	"kenrich/adapters/postgres"
	"kenrich/adapters/report"
	"kenrich/adapters/stats/engine"
	"kenrich/adapters/tabular"
	"kenrich/app"
	"kenrich/domain/core"
	"kenrich/domain/enrichment"
	"kenrich/internal"
	"kenrich/internal/config"
	"kenrich/ports"
)

var (
	cfg    *config.Config
	logger *internal.Logger

	// enrich flags
	flagSheet      string
	flagName       string
	flagPadj       float64
	flagLog2FC     float64
	flagFDR        float64
	flagKEMap      string
	flagKEDesc     string
	flagOut        string
	flagFormats    []string
	flagColPadj    string
	flagColLog2FC  string
	flagColEnsembl string
	flagColSymbol  string
	flagNoStore    bool
)

var rootCmd = &cobra.Command{
	Use:   "kenrich",
	Short: "Key Event enrichment analysis for differential expression results",
	Long: `kenrich tests which Key Event gene groups are overrepresented among
the differentially expressed genes in an RNA-seq results table, using
one-sided Fisher's exact tests with Benjamini-Hochberg FDR correction.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger = internal.NewDefaultLogger()

		// Environment-derived defaults apply only where the user did
		// not pass an explicit flag.
		flags := cmd.Flags()
		if !flags.Changed("padj") {
			flagPadj = cfg.Thresholds.PadjCutoff
		}
		if !flags.Changed("log2fc") {
			flagLog2FC = cfg.Thresholds.Log2FCCutoff
		}
		if !flags.Changed("fdr") {
			flagFDR = cfg.Thresholds.FDRThreshold
		}
		if !flags.Changed("ke-map") {
			flagKEMap = cfg.Paths.KEMapFile
		}
		if !flags.Changed("ke-desc") {
			flagKEDesc = cfg.Paths.KEDescFile
		}
		if !flags.Changed("out") {
			flagOut = cfg.Paths.OutputDir
		}
		return nil
	},
}

var enrichCmd = &cobra.Command{
	Use:   "enrich <expression-table>",
	Short: "Run enrichment on a DESeq2-style results table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath := args[0]

		degSource := tabular.NewFileDEGSource(inputPath, logger)
		degSource.Sheet = flagSheet
		degSource.PadjCutoff = flagPadj
		degSource.Log2FCCutoff = flagLog2FC
		degSource.Mapping = tabular.Mapping{
			Padj:    flagColPadj,
			Log2FC:  flagColLog2FC,
			Ensembl: flagColEnsembl,
			Symbol:  flagColSymbol,
		}

		groupSource := tabular.NewKEMapGroupSource(flagKEMap, flagKEDesc, logger)

		repo, cleanup, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		eng := engine.New(engine.Config{FDRThreshold: flagFDR, MinOverlap: 1, Logger: logger})
		service := app.NewAnalysisService(eng, repo, logger)

		name := flagName
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		}

		result, err := service.Analyze(cmd.Context(), app.AnalysisRequest{
			Name:       name,
			SourceFile: inputPath,
			Params: enrichment.Params{
				PadjCutoff:   flagPadj,
				Log2FCCutoff: flagLog2FC,
				FDRThreshold: flagFDR,
			},
			DEGs:   degSource,
			Groups: groupSource,
		})
		if err != nil {
			return err
		}

		formats, err := app.ParseFormats(flagFormats)
		if err != nil {
			return err
		}
		if _, err := service.ExportReports(result, flagOut, formats); err != nil {
			return err
		}

		significant := result.Run.Table.Significant(flagFDR)
		fmt.Printf("Run %s: %d DEGs, %d groups tested, %d significant at FDR<%g\n",
			result.Run.ID, result.Run.DEGCount, result.Run.TestedGroups,
			significant.Len(), flagFDR)
		printTable(significant, result)
		return nil
	},
}

var sheetsCmd = &cobra.Command{
	Use:   "sheets <workbook>",
	Short: "List the sheets in an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := tabular.NewReader(args[0]).SheetNames()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <expression-table>",
	Short: "Verify a results table has the columns enrichment needs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := tabular.NewReader(args[0]).Read(flagSheet)
		if err != nil {
			return err
		}

		cols := tabular.ResolveColumns(table, tabular.Mapping{
			Padj:    flagColPadj,
			Log2FC:  flagColLog2FC,
			Ensembl: flagColEnsembl,
			Symbol:  flagColSymbol,
		})

		fmt.Printf("Rows: %d\n", len(table.Rows))
		printColumn("adjusted p-value", cols.Padj)
		printColumn("log2 fold change", cols.Log2FC)
		printColumn("Ensembl ID", cols.Ensembl)
		printColumn("raw p-value (optional)", cols.PValue)
		printColumn("gene symbol (optional)", cols.Symbol)

		if !cols.Complete() {
			return fmt.Errorf("missing required columns: %s", strings.Join(cols.Missing(), ", "))
		}
		fmt.Println("Table is ready for enrichment.")
		return nil
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, cleanup, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		runs, err := repo.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No stored runs.")
			return nil
		}
		for _, run := range runs {
			fmt.Printf("%s  %s  %s  %d DEGs, %d groups\n",
				run.ID, run.CreatedAt.Time().Format("2006-01-02 15:04"),
				run.Name, run.DEGCount, run.TestedGroups)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the significant results of a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := core.ParseRunID(args[0])
		if err != nil {
			return err
		}

		repo, cleanup, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		run, err := repo.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		significant := run.Table.Significant(run.Params.FDRThreshold)
		fmt.Printf("Run %s (%s): %d significant of %d tested at FDR<%g\n",
			run.ID, run.Name, significant.Len(), run.TestedGroups, run.Params.FDRThreshold)
		for _, row := range report.FormatTable(significant, nil) {
			fmt.Println(strings.Join(row.Cells(), "\t"))
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <run-id>",
	Short: "Regenerate report files from a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := core.ParseRunID(args[0])
		if err != nil {
			return err
		}

		repo, cleanup, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		run, err := repo.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		formats, err := app.ParseFormats(flagFormats)
		if err != nil {
			return err
		}

		// Stored runs keep Ensembl IDs only; symbols would need the
		// original expression table, so reports fall back to IDs.
		service := app.NewAnalysisService(nil, repo, logger)
		written, err := service.ExportReports(&app.AnalysisResult{Run: run}, flagOut, formats)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Println(path)
		}
		return nil
	},
}

// openRepository picks Postgres when DATABASE_URL is set, otherwise the
// file-backed store under the configured store directory.
func openRepository(ctx context.Context) (ports.ResultRepository, func(), error) {
	if flagNoStore {
		return nil, func() {}, nil
	}

	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewResultRepository(db), func() { db.Close() }, nil
	}

	repo, err := jsonstore.NewResultRepository(cfg.Paths.StoreDir)
	if err != nil {
		return nil, nil, err
	}
	return repo, func() {}, nil
}

func printTable(table *enrichment.Table, result *app.AnalysisResult) {
	if table.IsEmpty() {
		return
	}
	fmt.Println(strings.Join(report.DisplayHeaders, "\t"))
	for _, row := range report.FormatTable(table, result.Symbols) {
		fmt.Println(strings.Join(row.Cells(), "\t"))
	}
}

func printColumn(role, header string) {
	if header == "" {
		fmt.Printf("  %-24s MISSING\n", role)
		return
	}
	fmt.Printf("  %-24s %s\n", role, header)
}

func init() {
	enrichCmd.Flags().StringVar(&flagSheet, "sheet", "", "sheet name for Excel workbooks (default: first sheet)")
	enrichCmd.Flags().StringVar(&flagName, "name", "", "run name (default: input file stem)")
	enrichCmd.Flags().Float64Var(&flagPadj, "padj", 0.05, "adjusted p-value cutoff for calling a gene differentially expressed")
	enrichCmd.Flags().Float64Var(&flagLog2FC, "log2fc", 1.0, "absolute log2 fold change cutoff")
	enrichCmd.Flags().Float64Var(&flagFDR, "fdr", 0.05, "FDR threshold for reporting a group as enriched")
	enrichCmd.Flags().StringVar(&flagKEMap, "ke-map", "data/Genes_to_KEs.txt", "gene-to-Key-Event mapping file")
	enrichCmd.Flags().StringVar(&flagKEDesc, "ke-desc", "data/ke_descriptions.csv", "Key Event description file (optional)")
	enrichCmd.Flags().StringVar(&flagOut, "out", "out", "output directory for reports")
	enrichCmd.Flags().StringSliceVar(&flagFormats, "format", []string{"tsv"}, "report formats: tsv, xlsx, md, html, json (chart data)")
	enrichCmd.Flags().BoolVar(&flagNoStore, "no-store", false, "skip persisting the run")

	checkCmd.Flags().StringVar(&flagSheet, "sheet", "", "sheet name for Excel workbooks (default: first sheet)")

	for _, cmd := range []*cobra.Command{enrichCmd, checkCmd} {
		cmd.Flags().StringVar(&flagColPadj, "col-padj", "", "adjusted p-value column (default: auto-detect)")
		cmd.Flags().StringVar(&flagColLog2FC, "col-log2fc", "", "log2 fold change column (default: auto-detect)")
		cmd.Flags().StringVar(&flagColEnsembl, "col-ensembl", "", "Ensembl ID column (default: auto-detect)")
		cmd.Flags().StringVar(&flagColSymbol, "col-symbol", "", "gene symbol column (default: auto-detect)")
	}

	reportCmd.Flags().StringSliceVar(&flagFormats, "format", []string{"tsv"}, "report formats: tsv, xlsx, md, html, json (chart data)")
	reportCmd.Flags().StringVar(&flagOut, "out", "out", "output directory for reports")

	runsCmd.AddCommand(showCmd)
	rootCmd.AddCommand(enrichCmd, sheetsCmd, checkCmd, runsCmd, reportCmd)
}

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
