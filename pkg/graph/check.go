package graph

import (
	"fmt"

	"github.com/kerbaras/vnforge/pkg/novel"
)

type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Issue is one structural problem found by Check.
type Issue struct {
	Severity Severity
	SceneID  string
	Message  string
}

// Check lists the structural problems of a novel. Errors break playback
// (a missing start scene, a choice into nothing, duplicate ids); warnings
// are tolerated by every consumer but are probably mistakes.
func Check(n *novel.Novel) []Issue {
	var issues []Issue
	add := func(sev Severity, sceneID, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, SceneID: sceneID, Message: fmt.Sprintf(format, args...)})
	}

	if _, ok := n.StartScene(); !ok {
		add(Error, "", "start scene %q does not exist", n.StartSceneID)
	}

	seen := map[string]bool{}
	for _, s := range n.Scenes {
		if seen[s.ID] {
			add(Error, s.ID, "duplicate scene id %q", s.ID)
		}
		seen[s.ID] = true
	}
	seen = map[string]bool{}
	for _, c := range n.Characters {
		if seen[c.ID] {
			add(Error, "", "duplicate character id %q", c.ID)
		}
		seen[c.ID] = true
		if len(c.Expressions) == 0 {
			add(Warning, "", "character %q has no expressions", c.ID)
		}
	}

	for i := range n.Scenes {
		s := &n.Scenes[i]
		for j, choice := range s.Choices {
			if _, ok := n.Scene(choice.NextSceneID); !ok {
				add(Error, s.ID, "choice %d leads to unknown scene %q", j+1, choice.NextSceneID)
			}
		}
		present := map[string]bool{}
		for _, id := range s.PresentCharacterIDs {
			if _, ok := n.Character(id); !ok {
				add(Warning, s.ID, "present character %q does not exist", id)
			}
			present[id] = true
		}
		if len(s.Dialogue) == 0 {
			add(Warning, s.ID, "scene has no dialogue")
		}
		for j, line := range s.Dialogue {
			id, ok := line.Speaker()
			if !ok {
				continue
			}
			c, found := n.Character(id)
			if !found {
				add(Warning, s.ID, "line %d is spoken by unknown character %q", j+1, id)
				continue
			}
			if !present[id] {
				add(Warning, s.ID, "line %d is spoken by %q, who is not present", j+1, id)
			}
			if line.ExpressionID != nil {
				if _, ok := c.Expression(*line.ExpressionID); !ok {
					add(Warning, s.ID, "line %d uses unknown expression %q of %q", j+1, *line.ExpressionID, id)
				}
			}
		}
	}

	for _, s := range Orphans(n) {
		add(Warning, s.ID, "scene is unreachable from the start")
	}
	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == Error {
			return true
		}
	}
	return false
}
