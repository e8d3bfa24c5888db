package gene

import (
	"reflect"
	"testing"
)

func TestValidEnsemblID(t *testing.T) {
	cases := []struct {
		id    string
		valid bool
	}{
		{"ENSG00000141510", true},
		{"ENSMUSG00000059552", true},
		{"TP53", false},
		{"", false},
		{"ensg00000141510", false},
	}
	for _, tc := range cases {
		if got := ValidEnsemblID(tc.id); got != tc.valid {
			t.Errorf("ValidEnsemblID(%q) = %v, want %v", tc.id, got, tc.valid)
		}
	}
}

func TestSetOperations(t *testing.T) {
	a := NewSet("G1", "G2", "G3")
	b := NewSet("G2", "G3", "G4")

	if got := a.Intersect(b).Sorted(); !reflect.DeepEqual(got, []string{"G2", "G3"}) {
		t.Errorf("Intersect = %v", got)
	}
	if got := a.Difference(b).Sorted(); !reflect.DeepEqual(got, []string{"G1"}) {
		t.Errorf("Difference = %v", got)
	}
	if got := a.Union(b).Len(); got != 4 {
		t.Errorf("Union size = %d, want 4", got)
	}
	if !a.Contains("G1") || a.Contains("G4") {
		t.Error("Contains misbehaves")
	}
}

func TestSetSortedIsOrdered(t *testing.T) {
	s := NewSet("G3", "G1", "G2")
	if got := s.Sorted(); !reflect.DeepEqual(got, []string{"G1", "G2", "G3"}) {
		t.Errorf("Sorted = %v", got)
	}
}

func TestSymbolMap(t *testing.T) {
	records := []Record{
		{EnsemblID: "ENSG01", Symbol: "TP53"},
		{EnsemblID: "ENSG02"},
	}
	m := NewSymbolMap(records)

	if got := m.Resolve("ENSG01"); got != "TP53" {
		t.Errorf("Resolve = %q", got)
	}
	if got := m.Resolve("ENSG02"); got != "ENSG02" {
		t.Errorf("Resolve fallback = %q, want the ID itself", got)
	}
	if got := m.ResolveAll([]string{"ENSG01", "ENSG02"}); !reflect.DeepEqual(got, []string{"TP53", "ENSG02"}) {
		t.Errorf("ResolveAll = %v", got)
	}
}

func TestSetFromRecords(t *testing.T) {
	records := []Record{
		{EnsemblID: "ENSG01"},
		{EnsemblID: "ENSG02"},
		{EnsemblID: "ENSG01"}, // duplicate
	}
	s := SetFromRecords(records)
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}
