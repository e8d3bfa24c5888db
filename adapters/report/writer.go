package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"kenrich/internal/errors"
)

// WriteTSV writes display rows as a tab-separated results table.
func WriteTSV(path string, rows []DisplayRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create output directory for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := w.Write(DisplayHeaders); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	for _, row := range rows {
		if err := w.Write(row.Cells()); err != nil {
			return errors.Wrap(err, "failed to write row")
		}
	}
	w.Flush()
	return w.Error()
}

// WriteXLSX writes display rows as an Excel workbook with a single
// "Enrichment" sheet.
func WriteXLSX(path string, rows []DisplayRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create output directory for %s", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Enrichment"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return errors.Wrap(err, "failed to create sheet")
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(err, "failed to drop default sheet")
	}

	header := make([]interface{}, len(DisplayHeaders))
	for i, h := range DisplayHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write header row")
	}

	for i, row := range rows {
		cells := row.Cells()
		values := make([]interface{}, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		axis := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, axis, &values); err != nil {
			return errors.Wrapf(err, "failed to write row %d", i+2)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save workbook %s", path)
	}
	return nil
}
