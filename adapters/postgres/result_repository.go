package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"kenrich/domain/core"
	"kenrich/domain/enrichment"
	"kenrich/ports"
)

// resultRepository implements ports.ResultRepository on Postgres.
type resultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new Postgres-backed result repository.
func NewResultRepository(db *sqlx.DB) ports.ResultRepository {
	return &resultRepository{db: db}
}

// EnsureSchema creates the analysis tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			source_file TEXT NOT NULL,
			padj_cutoff DOUBLE PRECISION NOT NULL,
			log2fc_cutoff DOUBLE PRECISION NOT NULL,
			fdr_threshold DOUBLE PRECISION NOT NULL,
			deg_count INTEGER NOT NULL,
			universe_size INTEGER NOT NULL,
			tested_groups INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS enrichment_results (
			run_id TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
			group_id TEXT NOT NULL,
			group_name TEXT NOT NULL DEFAULT '',
			aops TEXT NOT NULL DEFAULT '',
			overlap INTEGER NOT NULL,
			group_size INTEGER NOT NULL,
			percent_covered DOUBLE PRECISION NOT NULL,
			overlapping_genes JSONB NOT NULL,
			odds_ratio TEXT NOT NULL,
			p_value DOUBLE PRECISION NOT NULL,
			q_value DOUBLE PRECISION NOT NULL,
			total_comparisons INTEGER NOT NULL,
			fdr_method TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (run_id, group_id)
		)`,
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Save inserts a run and its result rows in one transaction.
func (r *resultRepository) Save(ctx context.Context, run *enrichment.Run) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO analysis_runs (
		id, name, source_file, padj_cutoff, log2fc_cutoff, fdr_threshold,
		deg_count, universe_size, tested_groups, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		run.ID, run.Name, run.SourceFile,
		run.Params.PadjCutoff, run.Params.Log2FCCutoff, run.Params.FDRThreshold,
		run.DEGCount, run.UniverseSize, run.TestedGroups, run.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, res := range run.Table.Results {
		genesJSON, err := json.Marshal(res.OverlappingGenes)
		if err != nil {
			return fmt.Errorf("failed to marshal overlap genes: %w", err)
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO enrichment_results (
			run_id, group_id, group_name, aops, overlap, group_size, percent_covered,
			overlapping_genes, odds_ratio, p_value, q_value, total_comparisons, fdr_method
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			run.ID, res.GroupID, res.GroupName, res.AOPs, res.Overlap, res.GroupSize,
			res.PercentCovered, genesJSON, encodeOddsRatio(res.OddsRatio), res.PValue, res.QValue,
			res.TotalComparisons, res.FDRMethod,
		)
		if err != nil {
			return fmt.Errorf("failed to insert result %s: %w", res.GroupID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// Get loads a run and its result rows, ordered by q-value ascending.
func (r *resultRepository) Get(ctx context.Context, id core.RunID) (*enrichment.Run, error) {
	run, err := r.scanRun(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT
		group_id, group_name, aops, overlap, group_size, percent_covered,
		overlapping_genes, odds_ratio, p_value, q_value, total_comparisons, fdr_method
	FROM enrichment_results WHERE run_id = $1
	ORDER BY q_value ASC, p_value ASC, group_id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var res enrichment.Result
		var genesJSON []byte
		var oddsRatio string
		err := rows.Scan(
			&res.GroupID, &res.GroupName, &res.AOPs, &res.Overlap, &res.GroupSize,
			&res.PercentCovered, &genesJSON, &oddsRatio, &res.PValue, &res.QValue,
			&res.TotalComparisons, &res.FDRMethod,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if err := json.Unmarshal(genesJSON, &res.OverlappingGenes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal overlap genes: %w", err)
		}
		if res.OddsRatio, err = decodeOddsRatio(oddsRatio); err != nil {
			return nil, fmt.Errorf("failed to decode odds ratio for %s: %w", res.GroupID, err)
		}
		run.Table.Results = append(run.Table.Results, res)
	}
	return run, rows.Err()
}

// List returns stored runs without their result tables, most recent first.
func (r *resultRepository) List(ctx context.Context) ([]*enrichment.Run, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		id, name, source_file, padj_cutoff, log2fc_cutoff, fdr_threshold,
		deg_count, universe_size, tested_groups, created_at
	FROM analysis_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*enrichment.Run
	for rows.Next() {
		run, err := scanRunRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *resultRepository) scanRun(ctx context.Context, id core.RunID) (*enrichment.Run, error) {
	row := r.db.QueryRowContext(ctx, `SELECT
		id, name, source_file, padj_cutoff, log2fc_cutoff, fdr_threshold,
		deg_count, universe_size, tested_groups, created_at
	FROM analysis_runs WHERE id = $1`, id)

	run, err := scanRunRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	return run, err
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRunRow(row rowScanner) (*enrichment.Run, error) {
	var run enrichment.Run
	var createdAt time.Time
	err := row.Scan(
		&run.ID, &run.Name, &run.SourceFile,
		&run.Params.PadjCutoff, &run.Params.Log2FCCutoff, &run.Params.FDRThreshold,
		&run.DEGCount, &run.UniverseSize, &run.TestedGroups, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	run.CreatedAt = core.NewTimestamp(createdAt)
	return &run, nil
}

// Odds ratios are stored as text because a one-sided test yields +Inf for
// perfect separation and NaN for empty margins, and DOUBLE PRECISION bound
// through the driver cannot carry either. strconv round-trips both.
func encodeOddsRatio(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func decodeOddsRatio(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
