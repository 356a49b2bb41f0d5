package app

import (
	"context"
	"strings"
)

// FetchTree returns the backend-built lineage roots. Tree construction
// (grouping by parent) happens server-side; the client only picks a root
// and renders.
func (c *Client) FetchTree(ctx context.Context) ([]TreeNode, error) {
	return c.SummaryTree(ctx)
}

// FlatNode is one row of a depth-first rendering of a tree root.
type FlatNode struct {
	Depth int
	Node  TreeNode
}

// FlattenTree walks one root depth-first so the UI can render the tree as an
// indented list and address rows by index.
func FlattenTree(root TreeNode) []FlatNode {
	var out []FlatNode
	var walk func(n TreeNode, depth int)
	walk = func(n TreeNode, depth int) {
		out = append(out, FlatNode{Depth: depth, Node: n})
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	walk(root, 0)
	return out
}

// Preview derives the short hover text for a node from its attributes.
func (n TreeNode) Preview(maxLen int) string {
	text := strings.TrimSpace(n.Attributes.Summary)
	if text == "" {
		text = n.Name
	}
	text = strings.Join(strings.Fields(text), " ")
	if maxLen > 0 && len([]rune(text)) > maxLen {
		runes := []rune(text)
		return string(runes[:maxLen-1]) + "…"
	}
	return text
}
