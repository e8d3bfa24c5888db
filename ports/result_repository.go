package ports

import (
	"context"

	"kenrich/domain/core"
	"kenrich/domain/enrichment"
)

// ResultRepository persists completed analysis runs. Implementations must be
// safe to call from a single goroutine; the pipeline is synchronous.
type ResultRepository interface {
	// Save stores a run and its full result table.
	Save(ctx context.Context, run *enrichment.Run) error

	// Get loads a run by ID.
	Get(ctx context.Context, id core.RunID) (*enrichment.Run, error)

	// List returns stored runs, most recent first, without result tables.
	List(ctx context.Context) ([]*enrichment.Run, error)
}
