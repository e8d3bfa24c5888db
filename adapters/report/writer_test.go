package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"kenrich/domain/core"
	"kenrich/domain/enrichment"
)

func sampleRows() []DisplayRow {
	return []DisplayRow{{
		GroupID:        "KE1",
		GroupName:      "Oxidative stress",
		AOPs:           "Aop:42",
		Overlap:        2,
		GroupSize:      4,
		PercentCovered: "50.0%",
		Genes:          "TP53, ENSG02",
		OddsRatio:      "4.00",
		PValue:         "1.00e-05",
		QValue:         "1.00e-04",
	}}
}

func TestWriteTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.tsv")
	if err := WriteTSV(path, sampleRows()); err != nil {
		t.Fatalf("WriteTSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(records))
	}
	if !reflect.DeepEqual(records[0], DisplayHeaders) {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "KE1" || records[1][9] != "1.00e-04" {
		t.Errorf("data row = %v", records[1])
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")
	if err := WriteXLSX(path, sampleRows()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != "Enrichment" {
		t.Errorf("sheets = %v, want single Enrichment sheet", sheets)
	}
	rows, err := f.GetRows("Enrichment")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	if rows[1][1] != "Oxidative stress" {
		t.Errorf("KE name cell = %q", rows[1][1])
	}
}

func TestBuildMarkdown(t *testing.T) {
	run := &enrichment.Run{
		ID:           core.RunID("run-1"),
		Name:         "liver_tx",
		SourceFile:   "degs.csv",
		Params:       enrichment.Params{PadjCutoff: 0.05, Log2FCCutoff: 1, FDRThreshold: 0.05},
		DEGCount:     120,
		UniverseSize: 4000,
		TestedGroups: 85,
	}

	t.Run("with results", func(t *testing.T) {
		md := BuildMarkdown(run, sampleRows())
		for _, want := range []string{"# liver_tx", "DEGs after filtering: 120", "Oxidative stress", "1.00e-05"} {
			if !strings.Contains(md, want) {
				t.Errorf("markdown missing %q", want)
			}
		}

		page := string(RenderHTML(md))
		if !strings.Contains(page, "<table>") {
			t.Error("HTML did not render the results table")
		}
		if !strings.Contains(page, "<html>") {
			t.Error("HTML is not a complete page")
		}
	})

	t.Run("no results", func(t *testing.T) {
		md := BuildMarkdown(run, nil)
		if !strings.Contains(md, "No significantly enriched") {
			t.Error("markdown missing empty-result notice")
		}
	})
}
