package tabular

import (
	"fmt"
	"strings"

	"kenrich/domain/keventset"
	"kenrich/internal/errors"
)

// Gene-to-KE mapping column names. The mapping file is a TSV with one row
// per (gene, KE) annotation; ke.name and AOP are optional enrichments.
const (
	colGene   = "Gene"
	colKE     = "KE"
	colKEName = "ke.name"
	colAOP    = "AOP"
)

// LoadKEMapping reads a gene-to-KE mapping file into a Collection. Rows
// with an empty gene or KE cell are dropped.
func LoadKEMapping(path string) (*keventset.Collection, error) {
	table, err := NewReader(path).Read("")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load KE mapping %s", path)
	}

	var missing []string
	for _, required := range []string{colGene, colKE} {
		if !table.HasColumn(required) {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, errors.ValidationError(fmt.Sprintf(
			"KE mapping file missing required columns: %s", strings.Join(missing, ", ")))
	}

	collection := keventset.NewCollection()
	for _, row := range table.Rows {
		collection.AddMapping(row[colGene], row[colKE], cleanCell(row[colKEName]), row[colAOP])
	}

	if collection.Len() == 0 {
		return nil, errors.ValidationError("KE mapping file has no usable rows")
	}
	return collection, nil
}

// MergeKEDescriptions overlays display names from a KE description table
// onto an existing collection. Descriptions are optional; a missing file is
// not an error for callers that check existence first.
func MergeKEDescriptions(collection *keventset.Collection, path string) error {
	table, err := NewReader(path).Read("")
	if err != nil {
		return errors.Wrapf(err, "failed to load KE descriptions %s", path)
	}

	if !table.HasColumn(colKE) {
		return errors.ValidationError("KE descriptions file missing 'KE' column")
	}

	nameCol := FindColumn(table, []string{colKEName, "name", "ke_name", "title"})
	if nameCol == "" {
		// Nothing to merge beyond the KE IDs themselves.
		return nil
	}

	for _, row := range table.Rows {
		collection.SetName(row[colKE], cleanCell(row[nameCol]))
	}
	return nil
}
