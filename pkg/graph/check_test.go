package graph

import (
	"testing"

	"github.com/kerbaras/vnforge/pkg/novel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDemoIsClean(t *testing.T) {
	demo := novel.Demo()
	assert.Empty(t, Check(&demo))

	empty := novel.Empty()
	assert.Empty(t, Check(&empty))
}

func TestCheckFindsErrors(t *testing.T) {
	n := novel.Demo()
	n = novel.UpdateStartScene(n, "missing")
	n = novel.AddChoice(n, "scene_4", "nowhere")
	n.Scenes = append(n.Scenes, n.Scenes[0])

	issues := Check(&n)
	require.True(t, HasErrors(issues))

	var messages []string
	for _, issue := range issues {
		if issue.Severity == Error {
			messages = append(messages, issue.Message)
		}
	}
	assert.Contains(t, messages, `start scene "missing" does not exist`)
	assert.Contains(t, messages, `choice 1 leads to unknown scene "nowhere"`)
	assert.Contains(t, messages, `duplicate scene id "scene_1"`)
}

func TestCheckFindsWarnings(t *testing.T) {
	n := novel.Demo()
	n = novel.AddScene(n, "scene_lost")
	n.Scenes[2].PresentCharacterIDs = []string{}
	n = novel.UpdateDialogueLine(n, "scene_2", 1, novel.Line("char_hero", "char_hero_bored", "Hm."))

	issues := Check(&n)
	assert.False(t, HasErrors(issues))

	bySceneMessage := map[string]string{}
	for _, issue := range issues {
		assert.Equal(t, Warning, issue.Severity)
		bySceneMessage[issue.SceneID+": "+issue.Message] = issue.Severity.String()
	}
	assert.Contains(t, bySceneMessage, "scene_lost: scene is unreachable from the start")
	assert.Contains(t, bySceneMessage, `scene_3a: line 1 is spoken by "char_dragon", who is not present`)
	assert.Contains(t, bySceneMessage, `scene_2: line 2 uses unknown expression "char_hero_bored" of "char_hero"`)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "warning", Warning.String())
}
