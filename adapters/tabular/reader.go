package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"kenrich/internal/errors"
)

// Reader loads CSV, TSV, and Excel files into a uniform Table.
type Reader struct {
	filePath string
	fileType string // "csv", "tsv" or "xlsx"
}

// NewReader creates a reader for the given path, picking the parser from the
// file extension.
func NewReader(filePath string) *Reader {
	fileType := "csv"
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".tsv", ".txt":
		fileType = "tsv"
	case ".xlsx", ".xls":
		fileType = "xlsx"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// SheetNames lists the worksheets of an Excel file. Non-Excel files report
// an invalid-input error.
func (r *Reader) SheetNames() ([]string, error) {
	if r.fileType != "xlsx" {
		return nil, errors.InvalidInput(fmt.Sprintf("%s is not an Excel workbook", r.filePath))
	}
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open workbook %s", r.filePath)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// Read parses the file into a Table. For Excel files sheet selects the
// worksheet; an empty sheet name means the first sheet. CSV separators are
// sniffed across comma, semicolon, and tab, since exported DEG tables from
// European locales routinely use semicolons.
func (r *Reader) Read(sheet string) (*Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("input file %s", r.filePath))
	}

	switch r.fileType {
	case "xlsx":
		return r.readExcel(sheet)
	case "tsv":
		return r.readDelimited('\t')
	default:
		return r.readCSVSniffed()
	}
}

func (r *Reader) readExcel(sheet string) (*Table, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open workbook %s", r.filePath)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.InvalidInput("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", sheet)
	}
	if len(rows) < 2 {
		return nil, errors.InvalidInput(fmt.Sprintf("sheet %q must have a header row and at least one data row", sheet))
	}
	return buildTable(rows), nil
}

func (r *Reader) readDelimited(sep rune) (*Table, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", r.filePath)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", r.filePath)
	}
	if len(rows) < 2 {
		return nil, errors.InvalidInput("file must have a header row and at least one data row")
	}
	return buildTable(rows), nil
}

// readCSVSniffed tries comma, semicolon, then tab, keeping the first parse
// that yields more than one column.
func (r *Reader) readCSVSniffed() (*Table, error) {
	var lastErr error
	for _, sep := range []rune{',', ';', '\t'} {
		table, err := r.readDelimited(sep)
		if err != nil {
			lastErr = err
			continue
		}
		if len(table.Headers) > 1 {
			return table, nil
		}
		lastErr = errors.InvalidInput("only one column detected")
	}
	return nil, errors.Wrap(lastErr, "could not detect CSV separator")
}

// buildTable converts raw string rows into a Table with trimmed headers.
func buildTable(rows [][]string) *Table {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, h := range headerRow {
		headers[i] = strings.TrimSpace(h)
	}

	table := &Table{Headers: headers}
	for _, raw := range rows[1:] {
		row := make(Row, len(headers))
		for j, cell := range raw {
			if j < len(headers) {
				row[headers[j]] = strings.TrimSpace(cell)
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
