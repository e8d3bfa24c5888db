package enrichment

import "testing"

func TestSortByQValue(t *testing.T) {
	table := &Table{Results: []Result{
		{GroupID: "KE3", PValue: 0.02, QValue: 0.05},
		{GroupID: "KE1", PValue: 0.001, QValue: 0.01},
		{GroupID: "KE4", PValue: 0.01, QValue: 0.05},
		{GroupID: "KE2", PValue: 0.01, QValue: 0.05},
	}}

	table.SortByQValue()

	want := []string{"KE1", "KE2", "KE4", "KE3"}
	for i, id := range want {
		if table.Results[i].GroupID != id {
			t.Errorf("position %d = %s, want %s", i, table.Results[i].GroupID, id)
		}
	}
}

func TestSignificant(t *testing.T) {
	table := &Table{Results: []Result{
		{GroupID: "KE1", QValue: 0.01},
		{GroupID: "KE2", QValue: 0.05}, // exactly at threshold, excluded
		{GroupID: "KE3", QValue: 0.2},
	}}

	got := table.Significant(0.05)
	if got.Len() != 1 || got.Results[0].GroupID != "KE1" {
		t.Errorf("Significant = %+v, want KE1 only", got.Results)
	}

	if !table.Significant(0).IsEmpty() {
		t.Error("zero threshold must admit nothing")
	}
}
