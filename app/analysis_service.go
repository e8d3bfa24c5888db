package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"kenrich/adapters/report"
	"kenrich/adapters/stats/engine"
	"kenrich/domain/core"
	"kenrich/domain/enrichment"
	"kenrich/domain/gene"
	"kenrich/domain/keventset"
	"kenrich/internal"
	"kenrich/ports"
)

// AnalysisService orchestrates a full enrichment analysis: load inputs,
// run the statistical engine, persist the run, and export reports.
type AnalysisService struct {
	engine *engine.Engine
	repo   ports.ResultRepository
	logger *internal.Logger
}

// NewAnalysisService creates an analysis service. repo may be nil when
// persistence is not wanted.
func NewAnalysisService(eng *engine.Engine, repo ports.ResultRepository, logger *internal.Logger) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{engine: eng, repo: repo, logger: logger}
}

// AnalysisRequest defines the inputs for one run.
type AnalysisRequest struct {
	Name       string
	SourceFile string
	Params     enrichment.Params
	DEGs       ports.DEGSource
	Groups     ports.GroupSource
}

// AnalysisResult bundles the stored run with the loaded records, which
// downstream report builders need for symbols and fold changes.
type AnalysisResult struct {
	Run     *enrichment.Run
	Records []gene.Record
	Groups  *keventset.Collection
	Symbols gene.SymbolMap
}

// Analyze runs the complete pipeline and persists the result.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	// 1. Load DEGs and gene groups concurrently
	var records []gene.Record
	var groups *keventset.Collection

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = req.DEGs.LoadDEGs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = req.Groups.LoadGroups(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 2. Test every group against the DEG set
	degSet := gene.SetFromRecords(records)
	table, err := s.engine.Enrich(ctx, degSet, groups)
	if err != nil {
		return nil, err
	}

	// 3. Assemble and persist the run
	run := &enrichment.Run{
		ID:           core.RunID(core.NewID()),
		Name:         req.Name,
		SourceFile:   req.SourceFile,
		Params:       req.Params,
		DEGCount:     degSet.Len(),
		UniverseSize: groups.Universe().Len(),
		TestedGroups: table.Len(),
		Table:        *table,
		CreatedAt:    core.Now(),
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to persist run %s: %w", run.ID, err)
		}
		s.logger.Info("Stored run %s (%d tested groups)", run.ID, run.TestedGroups)
	}

	return &AnalysisResult{
		Run:     run,
		Records: records,
		Groups:  groups,
		Symbols: gene.NewSymbolMap(records),
	}, nil
}

// GetRun loads a previously stored run.
func (s *AnalysisService) GetRun(ctx context.Context, id core.RunID) (*enrichment.Run, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("no result store configured")
	}
	return s.repo.Get(ctx, id)
}

// ListRuns returns stored runs, most recent first.
func (s *AnalysisService) ListRuns(ctx context.Context) ([]*enrichment.Run, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("no result store configured")
	}
	return s.repo.List(ctx)
}

// ReportFormat selects an export encoding.
type ReportFormat string

const (
	FormatTSV      ReportFormat = "tsv"
	FormatXLSX     ReportFormat = "xlsx"
	FormatMarkdown ReportFormat = "md"
	FormatHTML     ReportFormat = "html"
	// FormatJSON exports render-ready chart data instead of the results
	// table: the significance bar chart and per-group heatmaps.
	FormatJSON ReportFormat = "json"
)

// ExportReports writes the significant results in the requested formats.
// File names derive from the run name, falling back to the run ID.
func (s *AnalysisService) ExportReports(res *AnalysisResult, outDir string, formats []ReportFormat) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	significant := res.Run.Table.Significant(res.Run.Params.FDRThreshold)
	rows := report.FormatTable(significant, res.Symbols)
	base := res.Run.Name
	if base == "" {
		base = string(res.Run.ID)
	}

	var written []string
	for _, format := range formats {
		name := base + "_enrichment." + string(format)
		if format == FormatJSON {
			name = base + "_charts.json"
		}
		path := filepath.Join(outDir, name)
		var err error
		switch format {
		case FormatTSV:
			err = report.WriteTSV(path, rows)
		case FormatXLSX:
			err = report.WriteXLSX(path, rows)
		case FormatMarkdown:
			err = report.WriteMarkdown(path, report.BuildMarkdown(res.Run, rows))
		case FormatHTML:
			err = report.WriteHTML(path, report.BuildMarkdown(res.Run, rows))
		case FormatJSON:
			err = report.WriteChartJSON(path, report.BuildChartBundle(res.Run, res.Records, res.Symbols))
		default:
			err = fmt.Errorf("unknown report format: %s", format)
		}
		if err != nil {
			return written, err
		}
		s.logger.Info("Wrote %s", path)
		written = append(written, path)
	}
	return written, nil
}

// ParseFormats converts format names into ReportFormats, rejecting unknowns.
func ParseFormats(names []string) ([]ReportFormat, error) {
	var formats []ReportFormat
	for _, name := range names {
		switch ReportFormat(name) {
		case FormatTSV, FormatXLSX, FormatMarkdown, FormatHTML, FormatJSON:
			formats = append(formats, ReportFormat(name))
		default:
			return nil, fmt.Errorf("unknown report format %q (want tsv, xlsx, md, html, or json)", name)
		}
	}
	return formats, nil
}
