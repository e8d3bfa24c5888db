package ports

import (
	"context"

	"kenrich/domain/gene"
	"kenrich/domain/keventset"
)

// DEGSource supplies the differential expression records for an analysis,
// already filtered to the caller's significance cutoffs.
type DEGSource interface {
	LoadDEGs(ctx context.Context) ([]gene.Record, error)
}

// GroupSource supplies the gene groups (Key Events or pathway categories)
// to test, together with the background universe they imply.
type GroupSource interface {
	LoadGroups(ctx context.Context) (*keventset.Collection, error)
}
