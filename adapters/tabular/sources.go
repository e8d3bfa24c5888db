package tabular

import (
	"context"
	"os"

	"kenrich/domain/gene"
	"kenrich/domain/keventset"
	"kenrich/internal"
	"kenrich/internal/errors"
)

// FileDEGSource loads differential expression records from a delimited or
// Excel file and filters them to the configured cutoffs.
type FileDEGSource struct {
	Path         string
	Sheet        string
	Mapping      Mapping
	PadjCutoff   float64
	Log2FCCutoff float64

	logger *internal.Logger
}

// NewFileDEGSource creates a DEG source for the given file.
func NewFileDEGSource(path string, logger *internal.Logger) *FileDEGSource {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &FileDEGSource{
		Path:         path,
		PadjCutoff:   0.05,
		Log2FCCutoff: 1.0,
		logger:       logger,
	}
}

// LoadDEGs reads the table, maps its columns, and returns the records that
// pass the significance and fold-change cutoffs.
func (s *FileDEGSource) LoadDEGs(ctx context.Context) ([]gene.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader := NewReader(s.Path)
	table, err := reader.Read(s.Sheet)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read expression table")
	}

	loaded, err := LoadDEGTable(table, s.Mapping)
	if err != nil {
		return nil, err
	}
	if loaded.SkippedRows > 0 {
		s.logger.Warn("Skipped %d rows with unparseable values in %s", loaded.SkippedRows, s.Path)
	}

	filtered := FilterDEGs(loaded.Records, s.PadjCutoff, s.Log2FCCutoff)
	s.logger.Info("Loaded %d records, %d pass cutoffs (padj<%g, |log2FC|>%g)",
		len(loaded.Records), len(filtered), s.PadjCutoff, s.Log2FCCutoff)
	return filtered, nil
}

// KEMapGroupSource loads Key Event gene groups from a gene-to-KE mapping
// file, optionally overlaying names from a description file.
type KEMapGroupSource struct {
	MapPath  string
	DescPath string

	logger *internal.Logger
}

// NewKEMapGroupSource creates a group source from a mapping file. descPath
// may be empty or point at a missing file; descriptions are best-effort.
func NewKEMapGroupSource(mapPath, descPath string, logger *internal.Logger) *KEMapGroupSource {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &KEMapGroupSource{MapPath: mapPath, DescPath: descPath, logger: logger}
}

// LoadGroups builds the Key Event collection and its gene universe.
func (s *KEMapGroupSource) LoadGroups(ctx context.Context) (*keventset.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collection, err := LoadKEMapping(s.MapPath)
	if err != nil {
		return nil, err
	}

	if s.DescPath != "" {
		if _, statErr := os.Stat(s.DescPath); statErr == nil {
			if err := MergeKEDescriptions(collection, s.DescPath); err != nil {
				return nil, err
			}
		} else {
			s.logger.Debug("No KE description file at %s, using mapping names only", s.DescPath)
		}
	}

	s.logger.Info("Loaded %d Key Events over a universe of %d genes",
		collection.Len(), collection.Universe().Len())
	return collection, nil
}
