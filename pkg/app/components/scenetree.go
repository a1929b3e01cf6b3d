package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/kerbaras/vnforge/pkg/app/styles"
	"github.com/kerbaras/vnforge/pkg/graph"
	"github.com/kerbaras/vnforge/pkg/novel"
)

// SceneTree renders the presentation tree of a novel.
func SceneTree(n *novel.Novel) string {
	root := graph.BuildTree(n)
	if root == nil {
		return styles.StatusError.Render(fmt.Sprintf("Start scene %q not found", n.StartSceneID))
	}
	return buildTree(root).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(styles.MutedStyle).
		RootStyle(styles.SceneTitleStyle).
		String()
}

func buildTree(node *graph.Node) *tree.Tree {
	t := tree.Root(nodeLabel(node))
	for _, child := range node.Children {
		if len(child.Children) == 0 {
			t.Child(nodeLabel(child))
			continue
		}
		t.Child(buildTree(child))
	}
	return t
}

func nodeLabel(node *graph.Node) string {
	label := fmt.Sprintf("%s [%s]", node.Scene.Name, node.Scene.ID)
	if node.Label != "" {
		label = styles.MutedStyle.Render(fmt.Sprintf("%q → ", node.Label)) + label
	}
	switch {
	case node.Repeat:
		label += styles.StatusWarning.Render(" ↺ repeat")
	case node.Scene.IsEnding():
		label += styles.StatusCompleted.Render(" ■ ending")
	}
	return label
}

// Orphans renders the list of unreachable scenes, or nothing.
func Orphans(n *novel.Novel) string {
	orphans := graph.Orphans(n)
	if len(orphans) == 0 {
		return ""
	}
	t := tree.Root(styles.StatusWarning.Render(fmt.Sprintf("Orphan scenes (%d)", len(orphans)))).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(styles.MutedStyle)
	for _, s := range orphans {
		t.Child(fmt.Sprintf("%s [%s]", s.Name, s.ID))
	}
	return t.String()
}
