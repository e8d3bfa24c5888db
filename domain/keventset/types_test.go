package keventset

import (
	"reflect"
	"testing"
)

func TestKeyEventHasName(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"Oxidative stress", true},
		{"", false},
		{"   ", false},
		{"nan", false},
		{"NaN", false},
	}
	for _, tc := range cases {
		ke := KeyEvent{Name: tc.name}
		if got := ke.HasName(); got != tc.valid {
			t.Errorf("HasName(%q) = %v, want %v", tc.name, got, tc.valid)
		}
	}
}

func TestAOPList(t *testing.T) {
	ke := KeyEvent{AOPs: []string{"Aop:7", "Aop:42", "Aop:7", " ", "Aop:1"}}
	if got := ke.AOPList(); got != "Aop:1, Aop:42, Aop:7" {
		t.Errorf("AOPList = %q", got)
	}

	empty := KeyEvent{}
	if got := empty.AOPList(); got != "" {
		t.Errorf("AOPList of empty = %q", got)
	}
}

func TestCollectionAddMapping(t *testing.T) {
	c := NewCollection()
	c.AddMapping("ENSG01", "KE1", "Oxidative stress", "Aop:42")
	c.AddMapping("ENSG02", "KE1", "Different name later", "Aop:42")
	c.AddMapping("ENSG02", "KE2", "", "")
	c.AddMapping("", "KE3", "orphan", "")
	c.AddMapping("ENSG03", "", "orphan", "")

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}

	ke1, ok := c.Get("KE1")
	if !ok {
		t.Fatal("KE1 missing")
	}
	// First provided name wins.
	if ke1.Name != "Oxidative stress" {
		t.Errorf("name = %q", ke1.Name)
	}
	if ke1.Genes.Len() != 2 {
		t.Errorf("KE1 genes = %d, want 2", ke1.Genes.Len())
	}

	if c.Universe().Len() != 2 {
		t.Errorf("universe = %d, want 2", c.Universe().Len())
	}
	if got := c.SortedIDs(); !reflect.DeepEqual(got, []string{"KE1", "KE2"}) {
		t.Errorf("SortedIDs = %v", got)
	}
}

func TestCollectionSetName(t *testing.T) {
	c := NewCollection()
	c.AddMapping("ENSG01", "KE1", "", "")

	c.SetName("KE1", "Cell injury")
	ke, _ := c.Get("KE1")
	if ke.Name != "Cell injury" {
		t.Errorf("name = %q", ke.Name)
	}

	// Blank overlays keep the existing name.
	c.SetName("KE1", "  ")
	if ke.Name != "Cell injury" {
		t.Errorf("name overwritten by blank: %q", ke.Name)
	}

	// Unknown KEs are ignored rather than created.
	c.SetName("KE99", "Ghost")
	if c.Len() != 1 {
		t.Errorf("Len = %d after naming unknown KE", c.Len())
	}
}
