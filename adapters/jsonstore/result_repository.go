package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"kenrich/domain/core"
	"kenrich/domain/enrichment"
	"kenrich/ports"
)

// resultRepository stores runs as JSON files, one file per run.
// It is the default store when no database is configured.
type resultRepository struct {
	baseDir string
}

// NewResultRepository creates a file-backed result repository rooted at baseDir.
func NewResultRepository(baseDir string) (ports.ResultRepository, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &resultRepository{baseDir: baseDir}, nil
}

// storedResult mirrors enrichment.Result with the odds ratio encoded as a
// string, since encoding/json cannot represent Inf or NaN.
type storedResult struct {
	GroupID          string   `json:"group_id"`
	GroupName        string   `json:"group_name"`
	AOPs             string   `json:"aops,omitempty"`
	Overlap          int      `json:"overlap"`
	GroupSize        int      `json:"group_size"`
	PercentCovered   float64  `json:"percent_covered"`
	OverlappingGenes []string `json:"overlapping_genes"`
	OddsRatio        string   `json:"odds_ratio"`
	PValue           float64  `json:"p_value"`
	QValue           float64  `json:"q_value"`
	TotalComparisons int      `json:"total_comparisons"`
	FDRMethod        string   `json:"fdr_method,omitempty"`
}

type storedRun struct {
	ID           core.RunID        `json:"id"`
	Name         string            `json:"name"`
	SourceFile   string            `json:"source_file"`
	Params       enrichment.Params `json:"params"`
	DEGCount     int               `json:"deg_count"`
	UniverseSize int               `json:"universe_size"`
	TestedGroups int               `json:"tested_groups"`
	Results      []storedResult    `json:"results"`
	CreatedAt    core.Timestamp    `json:"created_at"`
}

func toStored(run *enrichment.Run) *storedRun {
	s := &storedRun{
		ID:           run.ID,
		Name:         run.Name,
		SourceFile:   run.SourceFile,
		Params:       run.Params,
		DEGCount:     run.DEGCount,
		UniverseSize: run.UniverseSize,
		TestedGroups: run.TestedGroups,
		CreatedAt:    run.CreatedAt,
	}
	for _, r := range run.Table.Results {
		s.Results = append(s.Results, storedResult{
			GroupID:          r.GroupID,
			GroupName:        r.GroupName,
			AOPs:             r.AOPs,
			Overlap:          r.Overlap,
			GroupSize:        r.GroupSize,
			PercentCovered:   r.PercentCovered,
			OverlappingGenes: r.OverlappingGenes,
			OddsRatio:        strconv.FormatFloat(r.OddsRatio, 'g', -1, 64),
			PValue:           r.PValue,
			QValue:           r.QValue,
			TotalComparisons: r.TotalComparisons,
			FDRMethod:        r.FDRMethod,
		})
	}
	return s
}

func fromStored(s *storedRun) (*enrichment.Run, error) {
	run := &enrichment.Run{
		ID:           s.ID,
		Name:         s.Name,
		SourceFile:   s.SourceFile,
		Params:       s.Params,
		DEGCount:     s.DEGCount,
		UniverseSize: s.UniverseSize,
		TestedGroups: s.TestedGroups,
		CreatedAt:    s.CreatedAt,
	}
	for _, r := range s.Results {
		oddsRatio, err := strconv.ParseFloat(r.OddsRatio, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid odds ratio %q for %s: %w", r.OddsRatio, r.GroupID, err)
		}
		run.Table.Results = append(run.Table.Results, enrichment.Result{
			GroupID:          r.GroupID,
			GroupName:        r.GroupName,
			AOPs:             r.AOPs,
			Overlap:          r.Overlap,
			GroupSize:        r.GroupSize,
			PercentCovered:   r.PercentCovered,
			OverlappingGenes: r.OverlappingGenes,
			OddsRatio:        oddsRatio,
			PValue:           r.PValue,
			QValue:           r.QValue,
			TotalComparisons: r.TotalComparisons,
			FDRMethod:        r.FDRMethod,
		})
	}
	return run, nil
}

func (r *resultRepository) runPath(id core.RunID) string {
	return filepath.Join(r.baseDir, string(id)+".json")
}

// Save writes the run to disk atomically via a temp file rename.
func (r *resultRepository) Save(ctx context.Context, run *enrichment.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(toStored(run), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	tmp, err := os.CreateTemp(r.baseDir, ".run-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write run: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.runPath(run.ID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to store run: %w", err)
	}
	return nil
}

// Get loads a single run by ID.
func (r *resultRepository) Get(ctx context.Context, id core.RunID) (*enrichment.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.runPath(id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run: %w", err)
	}

	var s storedRun
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse run %s: %w", id, err)
	}
	return fromStored(&s)
}

// List returns all stored runs, most recent first. Result tables are
// included since each run lives in a single file anyway.
func (r *resultRepository) List(ctx context.Context) ([]*enrichment.Run, error) {
	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	var runs []*enrichment.Run
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		run, err := r.Get(ctx, core.RunID(strings.TrimSuffix(name, ".json")))
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[j].CreatedAt.Before(runs[i].CreatedAt)
	})
	return runs, nil
}
