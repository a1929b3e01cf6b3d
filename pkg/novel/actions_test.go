package novel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneIsIndependent(t *testing.T) {
	original := Demo()
	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Scenes[1].Dialogue[0].Text = "changed"
	*clone.Scenes[1].Dialogue[0].CharacterID = "someone"
	clone.Scenes[1].PresentCharacterIDs[0] = "x"
	clone.Characters[0].Expressions[0].ImageURL = ""

	assert.NotEqual(t, "changed", original.Scenes[1].Dialogue[0].Text)
	assert.Equal(t, "char_dragon", *original.Scenes[1].Dialogue[0].CharacterID)
	assert.Equal(t, "char_hero", original.Scenes[1].PresentCharacterIDs[0])
	assert.NotEmpty(t, original.Characters[0].Expressions[0].ImageURL)
}

func TestActionsDoNotMutateInput(t *testing.T) {
	before := Demo()
	snapshot := before.Clone()

	_ = DeleteCharacter(before, "char_dragon")
	_ = DeleteScene(before, "scene_2")
	_ = UpdateTitle(before, "other")
	_ = SetCharacterPresence(before, "scene_2", "char_hero", false)
	_ = DeleteDialogueLine(before, "scene_2", 0)
	_ = DeleteChoice(before, "scene_1", 0)

	assert.Equal(t, snapshot, before)
}

func TestDeleteCharacterCascades(t *testing.T) {
	after := DeleteCharacter(Demo(), "char_dragon")

	_, ok := after.Character("char_dragon")
	assert.False(t, ok)

	for _, scene := range after.Scenes {
		assert.NotContains(t, scene.PresentCharacterIDs, "char_dragon", scene.ID)
		for _, line := range scene.Dialogue {
			if line.CharacterID != nil {
				assert.NotEqual(t, "char_dragon", *line.CharacterID)
			} else {
				assert.Nil(t, line.ExpressionID)
			}
		}
	}

	scene2, _ := after.Scene("scene_2")
	assert.True(t, scene2.Dialogue[0].IsNarration())
	assert.Nil(t, scene2.Dialogue[0].ExpressionID)
	assert.Equal(t, "char_hero", *scene2.Dialogue[1].CharacterID)
	assert.Equal(t, []string{"char_hero"}, scene2.PresentCharacterIDs)
}

func TestDeleteScenePrunesChoices(t *testing.T) {
	after := DeleteScene(Demo(), "scene_4")

	_, ok := after.Scene("scene_4")
	assert.False(t, ok)

	for _, scene := range after.Scenes {
		for _, choice := range scene.Choices {
			assert.NotEqual(t, "scene_4", choice.NextSceneID)
		}
	}
	start, _ := after.Scene("scene_1")
	require.Len(t, start.Choices, 1)
	assert.Equal(t, "scene_2", start.Choices[0].NextSceneID)
}

func TestAddCharacterSeedsExpressions(t *testing.T) {
	after := AddCharacter(Empty(), "char_new")

	c, ok := after.Character("char_new")
	require.True(t, ok)
	assert.Equal(t, DefaultCharacterName, c.Name)
	require.Len(t, c.Expressions, 4)
	assert.Equal(t, "char_new_expr_1", c.Expressions[0].ID)
	assert.Equal(t, "neutral", c.Expressions[0].Name)
	assert.Equal(t, "angry", c.Expressions[3].Name)
}

func TestAddSceneHasOneLine(t *testing.T) {
	after := AddScene(Empty(), "scene_2")

	s, ok := after.Scene("scene_2")
	require.True(t, ok)
	require.Len(t, s.Dialogue, 1)
	assert.True(t, s.Dialogue[0].IsNarration())
	assert.True(t, s.IsEnding())
}

func TestSetCharacterPresence(t *testing.T) {
	n := AddCharacter(Empty(), "a")

	n = SetCharacterPresence(n, "scene_1", "a", true)
	n = SetCharacterPresence(n, "scene_1", "a", true)
	s, _ := n.Scene("scene_1")
	assert.Equal(t, []string{"a"}, s.PresentCharacterIDs)

	n = UpdateDialogueLine(n, "scene_1", 0, Line("a", "a_expr_2", "hello"))
	n = SetCharacterPresence(n, "scene_1", "a", false)
	s, _ = n.Scene("scene_1")
	assert.Empty(t, s.PresentCharacterIDs)
	assert.True(t, s.Dialogue[0].IsNarration())
	assert.Nil(t, s.Dialogue[0].ExpressionID)
	assert.Equal(t, "hello", s.Dialogue[0].Text)
}

func TestDialogueLineEdits(t *testing.T) {
	n := AddDialogueLine(Empty(), "scene_1")
	s, _ := n.Scene("scene_1")
	require.Len(t, s.Dialogue, 2)

	n = DeleteDialogueLine(n, "scene_1", 0)
	n = DeleteDialogueLine(n, "scene_1", 0)
	s, _ = n.Scene("scene_1")
	assert.Len(t, s.Dialogue, 1, "the last line is never deleted")

	narrated := DialogueLine{ExpressionID: Ref("stray"), Text: "x"}
	n = UpdateDialogueLine(n, "scene_1", 0, narrated)
	s, _ = n.Scene("scene_1")
	assert.Nil(t, s.Dialogue[0].ExpressionID)

	unchanged := UpdateDialogueLine(n, "scene_1", 5, narrated)
	assert.Equal(t, n, unchanged)
}

func TestReplaceDialogue(t *testing.T) {
	_, err := ReplaceDialogue(Empty(), "scene_1", nil)
	assert.ErrorIs(t, err, ErrMalformed)

	n, err := ReplaceDialogue(Empty(), "scene_1", []DialogueLine{Narration("a"), Narration("b")})
	require.NoError(t, err)
	s, _ := n.Scene("scene_1")
	assert.Len(t, s.Dialogue, 2)
}

func TestChoiceEdits(t *testing.T) {
	n := AddScene(Empty(), "scene_2")
	n = AddChoice(n, "scene_1", "scene_2")
	n = UpdateChoice(n, "scene_1", 0, Choice{Text: "Go", NextSceneID: "scene_2"})

	s, _ := n.Scene("scene_1")
	require.Len(t, s.Choices, 1)
	assert.Equal(t, "Go", s.Choices[0].Text)

	n = DeleteChoice(n, "scene_1", 0)
	s, _ = n.Scene("scene_1")
	assert.Empty(t, s.Choices)
}

func TestUpdateSceneKeepsDialogue(t *testing.T) {
	n := UpdateScene(Empty(), "scene_1", func(s *Scene) {
		s.Name = "Renamed"
		s.Dialogue = nil
	})
	s, _ := n.Scene("scene_1")
	assert.Equal(t, "Renamed", s.Name)
	assert.Len(t, s.Dialogue, 1)
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	n := Demo()
	assert.Equal(t, n, RenameCharacter(n, "missing", "x"))
	assert.Equal(t, n, UpdateExpressionURL(n, "char_hero", "missing", "x"))
	assert.Equal(t, n, AddChoice(n, "missing", "scene_1"))
	assert.Equal(t, n, DeleteScene(n, "missing"))
}
