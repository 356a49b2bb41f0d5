package app

import "testing"

func sampleHistory() *HistoryCollection {
	h := NewHistoryCollection()
	h.Replace([]SummaryRecord{
		{ID: 3, Filename: "c.pdf", TeamID: 2, TeamName: "study"},
		{ID: 2, Filename: "b.pdf"},
		{ID: 1, Filename: "a.pdf"},
	})
	return h
}

func TestHistory_PrependPutsNewestFirst(t *testing.T) {
	h := sampleHistory()
	h.Prepend(SummaryRecord{ID: 4, Filename: "d.pdf"})
	if h.Items[0].ID != 4 {
		t.Fatalf("head ID = %d, want 4", h.Items[0].ID)
	}
	if len(h.Items) != 4 {
		t.Fatalf("len = %d, want 4", len(h.Items))
	}
}

func TestHistory_PatchOneKeepsPosition(t *testing.T) {
	h := sampleHistory()
	if !h.PatchOne(SummaryRecord{ID: 2, Filename: "renamed.pdf"}) {
		t.Fatal("PatchOne missed an existing record")
	}
	if h.Items[1].Filename != "renamed.pdf" {
		t.Fatalf("patched filename = %q", h.Items[1].Filename)
	}
	// The edited entry does not move.
	if h.Items[0].ID != 3 || h.Items[2].ID != 1 {
		t.Fatalf("order changed: %+v", h.Items)
	}

	if h.PatchOne(SummaryRecord{ID: 99}) {
		t.Fatal("PatchOne matched a missing record")
	}
}

func TestHistory_FilterByScope(t *testing.T) {
	h := sampleHistory()

	tests := []struct {
		scope Scope
		want  int
	}{
		{ScopeAll, 3},
		{ScopePersonal, 2},
		{ScopeTeam, 1},
		{Scope(""), 3},
	}
	for _, tc := range tests {
		if got := len(h.Filter(tc.scope)); got != tc.want {
			t.Fatalf("Filter(%q) returned %d records, want %d", tc.scope, got, tc.want)
		}
	}

	// Filtering never mutates the collection.
	if len(h.Items) != 3 {
		t.Fatalf("underlying items changed: %d", len(h.Items))
	}
}

func TestHistory_ClearDropsEverything(t *testing.T) {
	h := sampleHistory()
	h.Clear()
	if len(h.Items) != 0 {
		t.Fatalf("items after clear: %d", len(h.Items))
	}
}
