package jsonstore

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kenrich/domain/core"
	"kenrich/domain/enrichment"
)

func sampleRun(id string, createdAt time.Time) *enrichment.Run {
	return &enrichment.Run{
		ID:         core.RunID(id),
		Name:       "liver_tx",
		SourceFile: "degs.csv",
		Params: enrichment.Params{
			PadjCutoff:   0.05,
			Log2FCCutoff: 1,
			FDRThreshold: 0.05,
		},
		DEGCount:     120,
		UniverseSize: 4000,
		TestedGroups: 2,
		Table: enrichment.Table{Results: []enrichment.Result{
			{
				GroupID:          "KE1",
				GroupName:        "Oxidative stress",
				AOPs:             "Aop:42",
				Overlap:          2,
				GroupSize:        4,
				PercentCovered:   50,
				OverlappingGenes: []string{"ENSG01", "ENSG02"},
				OddsRatio:        4,
				PValue:           0.00001,
				QValue:           0.0001,
				TotalComparisons: 2,
				FDRMethod:        "BH",
			},
			{
				GroupID:          "KE2",
				GroupName:        "Cell injury",
				Overlap:          3,
				GroupSize:        3,
				PercentCovered:   100,
				OverlappingGenes: []string{"ENSG03", "ENSG04", "ENSG05"},
				OddsRatio:        math.Inf(1),
				PValue:           0.0002,
				QValue:           0.0002,
				TotalComparisons: 2,
				FDRMethod:        "BH",
			},
		}},
		CreatedAt: core.NewTimestamp(createdAt),
	}
}

func TestResultRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := NewResultRepository(t.TempDir())
	require.NoError(t, err)

	original := sampleRun("run-1", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, repo.Save(ctx, original))

	loaded, err := repo.Get(ctx, original.ID)
	require.NoError(t, err)

	assert.Equal(t, original.ID, loaded.ID)
	assert.Equal(t, original.Params, loaded.Params)
	assert.Equal(t, original.DEGCount, loaded.DEGCount)
	require.Len(t, loaded.Table.Results, 2)
	assert.Equal(t, original.Table.Results[0], loaded.Table.Results[0])

	// Infinite odds ratios survive the string encoding.
	assert.True(t, math.IsInf(loaded.Table.Results[1].OddsRatio, 1))
}

func TestResultRepositoryGetMissing(t *testing.T) {
	repo, err := NewResultRepository(t.TempDir())
	require.NoError(t, err)

	_, err = repo.Get(context.Background(), core.RunID("no-such-run"))
	assert.Error(t, err)
}

func TestResultRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo, err := NewResultRepository(t.TempDir())
	require.NoError(t, err)

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Save(ctx, sampleRun("run-old", base.Add(-time.Hour))))
	require.NoError(t, repo.Save(ctx, sampleRun("run-new", base)))

	runs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, core.RunID("run-new"), runs[0].ID)
	assert.Equal(t, core.RunID("run-old"), runs[1].ID)
}

func TestResultRepositorySaveOverwrites(t *testing.T) {
	ctx := context.Background()
	repo, err := NewResultRepository(t.TempDir())
	require.NoError(t, err)

	run := sampleRun("run-1", time.Now().UTC())
	require.NoError(t, repo.Save(ctx, run))

	run.Name = "renamed"
	require.NoError(t, repo.Save(ctx, run))

	loaded, err := repo.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", loaded.Name)

	runs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
