package components

import (
	"strings"
	"testing"

	"github.com/kerbaras/vnforge/pkg/novel"
)

func TestSceneTreeDemo(t *testing.T) {
	demo := novel.Demo()
	view := SceneTree(&demo)

	for _, want := range []string{
		"Cave Entrance [scene_1]",
		`"Bravely enter the cave." → Inside the Cave [scene_2]`,
		"The 'Duel' [scene_3a] ■ ending",
		"Game Night [scene_3b] ■ ending",
		"Safe Road Home [scene_4] ■ ending",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in tree:\n%s", want, view)
		}
	}
	if strings.Contains(view, "repeat") {
		t.Error("Did not expect repeat markers in an acyclic story")
	}
}

func TestSceneTreeMarksCycles(t *testing.T) {
	n := novel.AddChoice(novel.Demo(), "scene_4", "scene_1")
	view := SceneTree(&n)

	if !strings.Contains(view, "Cave Entrance [scene_1] ↺ repeat") {
		t.Errorf("Expected repeat marker:\n%s", view)
	}
}

func TestSceneTreeDanglingStart(t *testing.T) {
	n := novel.UpdateStartScene(novel.Demo(), "nowhere")
	if !strings.Contains(SceneTree(&n), `Start scene "nowhere" not found`) {
		t.Error("Expected missing start message")
	}
}

func TestOrphans(t *testing.T) {
	demo := novel.Demo()
	if Orphans(&demo) != "" {
		t.Error("Expected no orphans in the demo")
	}

	n := novel.AddScene(novel.Demo(), "scene_lost")
	view := Orphans(&n)
	if !strings.Contains(view, "Orphan scenes (1)") {
		t.Errorf("Expected orphan header:\n%s", view)
	}
	if !strings.Contains(view, "[scene_lost]") {
		t.Errorf("Expected orphan scene:\n%s", view)
	}
}
