package app

import "testing"

func sampleTree() TreeNode {
	return TreeNode{
		Name:       "a.pdf",
		Attributes: TreeAttributes{ID: 1, Filename: "a.pdf", Summary: "root summary"},
		Children: []TreeNode{
			{
				Name:       "b.pdf",
				Attributes: TreeAttributes{ID: 2, Filename: "b.pdf", ParentSummaryID: 1},
				Children: []TreeNode{
					{Name: "c.pdf", Attributes: TreeAttributes{ID: 3, Filename: "c.pdf", ParentSummaryID: 2}},
				},
			},
			{Name: "d.pdf", Attributes: TreeAttributes{ID: 4, Filename: "d.pdf", ParentSummaryID: 1}},
		},
	}
}

func TestFlattenTree_DepthFirstOrder(t *testing.T) {
	flat := FlattenTree(sampleTree())

	wantIDs := []int64{1, 2, 3, 4}
	wantDepths := []int{0, 1, 2, 1}
	if len(flat) != len(wantIDs) {
		t.Fatalf("len = %d, want %d", len(flat), len(wantIDs))
	}
	for i, fn := range flat {
		if fn.Node.Attributes.ID != wantIDs[i] {
			t.Fatalf("row %d ID = %d, want %d", i, fn.Node.Attributes.ID, wantIDs[i])
		}
		if fn.Depth != wantDepths[i] {
			t.Fatalf("row %d depth = %d, want %d", i, fn.Depth, wantDepths[i])
		}
	}
}

func TestTreeNode_RecordConversion(t *testing.T) {
	n := TreeNode{
		Name: "a.pdf",
		Attributes: TreeAttributes{
			ID: 9, Filename: "a.pdf", Summary: "s", TeamID: 2, TeamName: "study",
			Tags: []string{"x"},
		},
	}
	rec := n.Record()
	if rec.ID != 9 || rec.Filename != "a.pdf" || rec.TeamID != 2 || rec.TeamName != "study" {
		t.Fatalf("Record() = %+v", rec)
	}
	if !rec.Saved() {
		t.Fatal("converted record should count as saved")
	}
}

func TestTreeNode_PreviewCollapsesAndTruncates(t *testing.T) {
	n := TreeNode{
		Name:       "a.pdf",
		Attributes: TreeAttributes{Summary: "  line one\n\tline   two  "},
	}
	if got := n.Preview(0); got != "line one line two" {
		t.Fatalf("Preview(0) = %q", got)
	}
	if got := n.Preview(10); got != "line one …" {
		t.Fatalf("Preview(10) = %q", got)
	}

	empty := TreeNode{Name: "fallback.pdf"}
	if got := empty.Preview(0); got != "fallback.pdf" {
		t.Fatalf("empty summary preview = %q", got)
	}
}
