package novel

import "fmt"

// Default names given to entities created by actions.
const (
	DefaultCharacterName = "New Character"
	DefaultSceneName     = "New Scene"
	DefaultSceneLine     = "New line..."
	DefaultChoiceText    = "New Choice"
)

// SeedExpressionNames are the expressions every new character starts with.
var SeedExpressionNames = []string{"neutral", "happy", "sad", "angry"}

// Every action below works on a deep copy of its input and returns the copy.
// The input snapshot is never modified, so callers can keep it as the previous
// version or drop it. Unknown ids and out-of-range indexes leave the copy as is.

// UpdateTitle sets the title. An empty title is allowed.
func UpdateTitle(n Novel, title string) Novel {
	out := n.Clone()
	out.Title = title
	return out
}

// UpdateDescription sets the text shown on the title screen.
func UpdateDescription(n Novel, description string) Novel {
	out := n.Clone()
	out.Description = description
	return out
}

// UpdateCoverURL sets the title screen image.
func UpdateCoverURL(n Novel, url string) Novel {
	out := n.Clone()
	out.CoverURL = url
	return out
}

// UpdateStartScene points the story at another scene, resolved or not.
func UpdateStartScene(n Novel, sceneID string) Novel {
	out := n.Clone()
	out.StartSceneID = sceneID
	return out
}

// AddCharacter appends a character seeded with the four default expressions.
func AddCharacter(n Novel, id string) Novel {
	out := n.Clone()
	c := Character{ID: id, Name: DefaultCharacterName}
	for i, name := range SeedExpressionNames {
		c.Expressions = append(c.Expressions, Expression{
			ID:   fmt.Sprintf("%s_expr_%d", id, i+1),
			Name: name,
		})
	}
	out.Characters = append(out.Characters, c)
	return out
}

// DeleteCharacter removes the character, drops it from every scene's present
// set and turns every line it spoke into a narrator line.
func DeleteCharacter(n Novel, id string) Novel {
	out := n.Clone()
	kept := out.Characters[:0]
	for _, c := range out.Characters {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	out.Characters = kept
	for i := range out.Scenes {
		scene := &out.Scenes[i]
		scene.PresentCharacterIDs = without(scene.PresentCharacterIDs, id)
		nullSpeaker(scene, id)
	}
	return out
}

func RenameCharacter(n Novel, id, name string) Novel {
	out := n.Clone()
	if c, ok := out.Character(id); ok {
		c.Name = name
	}
	return out
}

func UpdateCharacterPrompt(n Novel, id, prompt string) Novel {
	out := n.Clone()
	if c, ok := out.Character(id); ok {
		c.AIPrompt = prompt
	}
	return out
}

func UpdateExpressionURL(n Novel, characterID, expressionID, url string) Novel {
	out := n.Clone()
	if c, ok := out.Character(characterID); ok {
		if e, ok := c.Expression(expressionID); ok {
			e.ImageURL = url
		}
	}
	return out
}

// AddScene appends an empty scene holding a single narrator line.
func AddScene(n Novel, id string) Novel {
	out := n.Clone()
	out.Scenes = append(out.Scenes, Scene{
		ID:                  id,
		Name:                DefaultSceneName,
		PresentCharacterIDs: []string{},
		Dialogue:            []DialogueLine{Narration(DefaultSceneLine)},
		Choices:             []Choice{},
	})
	return out
}

// DeleteScene removes the scene and prunes every choice that targeted it.
func DeleteScene(n Novel, id string) Novel {
	out := n.Clone()
	kept := out.Scenes[:0]
	for _, s := range out.Scenes {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	out.Scenes = kept
	for i := range out.Scenes {
		choices := out.Scenes[i].Choices[:0]
		for _, c := range out.Scenes[i].Choices {
			if c.NextSceneID != id {
				choices = append(choices, c)
			}
		}
		out.Scenes[i].Choices = choices
	}
	return out
}

// UpdateScene applies fn to the copy of the scene. A dialogue left empty by fn
// is restored to a single narrator line.
func UpdateScene(n Novel, id string, fn func(*Scene)) Novel {
	out := n.Clone()
	if s, ok := out.Scene(id); ok {
		fn(s)
		if len(s.Dialogue) == 0 {
			s.Dialogue = []DialogueLine{Narration(DefaultSceneLine)}
		}
	}
	return out
}

// SetCharacterPresence adds or removes a character from a scene. Removing a
// character also turns its lines in that scene into narrator lines.
func SetCharacterPresence(n Novel, sceneID, characterID string, present bool) Novel {
	out := n.Clone()
	s, ok := out.Scene(sceneID)
	if !ok {
		return out
	}
	if present {
		for _, id := range s.PresentCharacterIDs {
			if id == characterID {
				return out
			}
		}
		s.PresentCharacterIDs = append(s.PresentCharacterIDs, characterID)
		return out
	}
	s.PresentCharacterIDs = without(s.PresentCharacterIDs, characterID)
	nullSpeaker(s, characterID)
	return out
}

func AddDialogueLine(n Novel, sceneID string) Novel {
	out := n.Clone()
	if s, ok := out.Scene(sceneID); ok {
		s.Dialogue = append(s.Dialogue, Narration(""))
	}
	return out
}

func UpdateDialogueLine(n Novel, sceneID string, index int, line DialogueLine) Novel {
	out := n.Clone()
	s, ok := out.Scene(sceneID)
	if !ok || index < 0 || index >= len(s.Dialogue) {
		return out
	}
	line = line.clone()
	if line.CharacterID == nil {
		line.ExpressionID = nil
	}
	s.Dialogue[index] = line
	return out
}

// DeleteDialogueLine removes a line unless it is the scene's last one.
func DeleteDialogueLine(n Novel, sceneID string, index int) Novel {
	out := n.Clone()
	s, ok := out.Scene(sceneID)
	if !ok || len(s.Dialogue) <= 1 || index < 0 || index >= len(s.Dialogue) {
		return out
	}
	s.Dialogue = append(s.Dialogue[:index], s.Dialogue[index+1:]...)
	return out
}

// ReplaceDialogue swaps the whole dialogue of a scene. An empty sequence is
// rejected because a scene must keep at least one line.
func ReplaceDialogue(n Novel, sceneID string, lines []DialogueLine) (Novel, error) {
	if len(lines) == 0 {
		return n, fmt.Errorf("%w: dialogue must contain at least one line", ErrMalformed)
	}
	out := n.Clone()
	s, ok := out.Scene(sceneID)
	if !ok {
		return out, nil
	}
	s.Dialogue = make([]DialogueLine, len(lines))
	for i, line := range lines {
		line = line.clone()
		if line.CharacterID == nil {
			line.ExpressionID = nil
		}
		s.Dialogue[i] = line
	}
	return out, nil
}

func AddChoice(n Novel, sceneID, nextSceneID string) Novel {
	out := n.Clone()
	if s, ok := out.Scene(sceneID); ok {
		s.Choices = append(s.Choices, Choice{Text: DefaultChoiceText, NextSceneID: nextSceneID})
	}
	return out
}

func UpdateChoice(n Novel, sceneID string, index int, choice Choice) Novel {
	out := n.Clone()
	if s, ok := out.Scene(sceneID); ok && index >= 0 && index < len(s.Choices) {
		s.Choices[index] = choice
	}
	return out
}

func DeleteChoice(n Novel, sceneID string, index int) Novel {
	out := n.Clone()
	if s, ok := out.Scene(sceneID); ok && index >= 0 && index < len(s.Choices) {
		s.Choices = append(s.Choices[:index], s.Choices[index+1:]...)
	}
	return out
}

func without(ids []string, id string) []string {
	kept := ids[:0]
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	return kept
}

func nullSpeaker(s *Scene, characterID string) {
	for i := range s.Dialogue {
		line := &s.Dialogue[i]
		if line.CharacterID != nil && *line.CharacterID == characterID {
			line.CharacterID = nil
			line.ExpressionID = nil
		}
	}
}
