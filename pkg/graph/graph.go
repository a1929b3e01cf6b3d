// Package graph derives the structural view of a novel: which scenes are
// reachable from the start, which are orphans, and a presentation tree that
// stays finite on cyclic stories.
package graph

import "github.com/kerbaras/vnforge/pkg/novel"

// Node is one entry of the presentation tree. A Repeat node points back at a
// scene already on the path from the root and has no children.
type Node struct {
	Scene    *novel.Scene
	Label    string // text of the choice leading here; empty for the root
	Repeat   bool
	Children []*Node
}

// Analysis bundles everything the structural view needs.
type Analysis struct {
	Root      *Node
	Reachable map[string]bool
	Orphans   []*novel.Scene
	Endings   []*novel.Scene
}

// Analyze computes the tree, the reachable set, the orphans and the endings.
func Analyze(n *novel.Novel) Analysis {
	reachable := Reachable(n)
	return Analysis{
		Root:      BuildTree(n),
		Reachable: reachable,
		Orphans:   orphans(n, reachable),
		Endings:   Endings(n),
	}
}

// Reachable runs a breadth-first search from the start scene along choice
// edges. A dangling start yields an empty set.
func Reachable(n *novel.Novel) map[string]bool {
	index := n.SceneIndex()
	visited := make(map[string]bool, len(index))
	if _, ok := index[n.StartSceneID]; !ok {
		return visited
	}

	queue := []string{n.StartSceneID}
	visited[n.StartSceneID] = true
	for head := 0; head < len(queue); head++ {
		scene := index[queue[head]]
		for _, choice := range scene.Choices {
			if visited[choice.NextSceneID] {
				continue
			}
			if _, ok := index[choice.NextSceneID]; !ok {
				continue
			}
			visited[choice.NextSceneID] = true
			queue = append(queue, choice.NextSceneID)
		}
	}
	return visited
}

// Orphans lists, in scene order, every scene unreachable from the start.
func Orphans(n *novel.Novel) []*novel.Scene {
	return orphans(n, Reachable(n))
}

func orphans(n *novel.Novel, reachable map[string]bool) []*novel.Scene {
	var out []*novel.Scene
	for i := range n.Scenes {
		if !reachable[n.Scenes[i].ID] {
			out = append(out, &n.Scenes[i])
		}
	}
	return out
}

// Endings lists the scenes without choices, in scene order.
func Endings(n *novel.Novel) []*novel.Scene {
	var out []*novel.Scene
	for i := range n.Scenes {
		if n.Scenes[i].IsEnding() {
			out = append(out, &n.Scenes[i])
		}
	}
	return out
}

// BuildTree expands the story depth-first from the start scene. Only the
// scenes on the current path count as ancestors, so a scene reached through
// two different paths is expanded twice, while a scene that is its own
// ancestor becomes a Repeat leaf. Choices to unknown scenes are left out.
// It returns nil when the start scene does not exist.
func BuildTree(n *novel.Novel) *Node {
	index := n.SceneIndex()
	start, ok := index[n.StartSceneID]
	if !ok {
		return nil
	}
	return expand(index, start, "", map[string]bool{})
}

func expand(index map[string]*novel.Scene, scene *novel.Scene, label string, ancestors map[string]bool) *Node {
	node := &Node{Scene: scene, Label: label}
	if ancestors[scene.ID] {
		node.Repeat = true
		return node
	}

	ancestors[scene.ID] = true
	defer delete(ancestors, scene.ID)

	for _, choice := range scene.Choices {
		next, ok := index[choice.NextSceneID]
		if !ok {
			continue
		}
		node.Children = append(node.Children, expand(index, next, choice.Text, ancestors))
	}
	return node
}

// Depth returns the number of levels below node, counting node itself as 1.
func Depth(node *Node) int {
	if node == nil {
		return 0
	}
	deepest := 0
	for _, child := range node.Children {
		if d := Depth(child); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// Walk visits the tree in pre-order, passing each node's depth.
func Walk(node *Node, fn func(node *Node, depth int)) {
	var walk func(*Node, int)
	walk = func(n *Node, depth int) {
		if n == nil {
			return
		}
		fn(n, depth)
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	walk(node, 0)
}
