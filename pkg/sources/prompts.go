package sources

import (
	"fmt"
	"strings"

	"github.com/kerbaras/vnforge/pkg/novel"
)

const storyPrompt = `Create a complete visual novel story based on the theme %q.
The story must be a self-contained mini game with a clear beginning, middle and end.
It must contain at least 2 characters and 4 scenes.
Scenes are connected through choices, and every scene must be reachable from the start scene.
Several characters may appear in one scene and talk to each other.
Ending scenes have no choices.
Every character has exactly 4 expressions named "neutral", "happy", "sad" and "angry", each with a unique id and a placeholder imageUrl.
Every spoken line carries the "expressionId" matching the speaker's emotion.
Narrator lines have a null "characterId" and a null "expressionId".
Return a single valid JSON object following the schema. Do not wrap it in markdown.

Example shape:
{
  "title": "A creative title based on the theme",
  "description": "A one line teaser for the title screen",
  "characters": [
    {
      "id": "char_1",
      "name": "Character name",
      "expressions": [
        { "id": "char_1_neutral", "name": "neutral", "imageUrl": "https://picsum.photos/400/600" },
        { "id": "char_1_happy", "name": "happy", "imageUrl": "https://picsum.photos/400/600" },
        { "id": "char_1_sad", "name": "sad", "imageUrl": "https://picsum.photos/400/600" },
        { "id": "char_1_angry", "name": "angry", "imageUrl": "https://picsum.photos/400/600" }
      ]
    }
  ],
  "scenes": [
    {
      "id": "scene_1",
      "name": "Short descriptive scene name",
      "backgroundUrl": "https://picsum.photos/1280/720",
      "presentCharacterIds": ["char_1"],
      "dialogue": [
        { "characterId": "char_1", "expressionId": "char_1_neutral", "text": "A line spoken by character 1." },
        { "characterId": null, "expressionId": null, "text": "A narrator line." }
      ],
      "choices": [
        { "text": "Choice text", "nextSceneId": "scene_2" }
      ]
    }
  ],
  "startSceneId": "the id of the first scene"
}`

const portraitPrompt = `A visual novel character sprite in a highly consistent style. Character name: %s. %s
The character shows a [%s] expression. Everything except the facial expression (outfit, hairstyle, pose, proportions) must stay consistent with the character's other images.
Style: anime, vivid, digital art, detailed. Upper-body portrait.
The background must be a perfectly uniform, solid fluorescent magenta (#FF00FF). No gradients, shadows, lighting effects, checkerboards or grid patterns in the background.
Do not use magenta on the character itself and avoid color spill. Keep edges crisp with minimal anti-aliasing.`

const editPrompt = `This is a visual novel character sprite. Change only the facial expression to [%s], keeping every other aspect (hairstyle, outfit, pose) exactly the same.
The background must stay a perfectly uniform, solid fluorescent magenta (#FF00FF). No gradients, shadows, lighting effects, checkerboards or grid patterns.
Style consistency is essential.`

const backgroundPrompt = `A high quality visual novel background image. Scene description: %s. Style: vivid, anime, digital art, detailed.`

const dialoguePrompt = `You are the dialogue writer of a visual novel.
The current scene is called %q.
The scene's theme is %q.
The characters present and their available expressions are:
%s

Write a short, engaging dialogue sequence for this scene, 3 to 5 lines long.
For every spoken line pick the id of the expression that best matches the character's emotion as "expressionId".
Use the narrator for descriptive text: narrator lines have a null "characterId" and a null "expressionId".
Spoken lines use the character "id" given above.
Return a single valid JSON array following the schema. Do not wrap it in markdown.`

func buildStoryPrompt(theme string) string {
	return fmt.Sprintf(storyPrompt, theme)
}

func buildPortraitPrompt(name, details, expression string) string {
	if details = strings.TrimSpace(details); details != "" {
		details = "Character description: " + details + "."
	}
	return fmt.Sprintf(portraitPrompt, name, details, expression)
}

func buildEditPrompt(expression string) string {
	return fmt.Sprintf(editPrompt, expression)
}

func buildBackgroundPrompt(prompt string) string {
	return fmt.Sprintf(backgroundPrompt, prompt)
}

func buildDialoguePrompt(sceneName, prompt string, characters []novel.Character) string {
	return fmt.Sprintf(dialoguePrompt, sceneName, prompt, describeCharacters(characters))
}

func describeCharacters(characters []novel.Character) string {
	if len(characters) == 0 {
		return "None. Use only the narrator."
	}
	lines := make([]string, 0, len(characters))
	for _, c := range characters {
		exprs := make([]string, 0, len(c.Expressions))
		for _, e := range c.Expressions {
			exprs = append(exprs, fmt.Sprintf("%q (id: %s)", e.Name, e.ID))
		}
		lines = append(lines, fmt.Sprintf("- %s (id: %s), available expressions: %s", c.Name, c.ID, strings.Join(exprs, ", ")))
	}
	return strings.Join(lines, "\n")
}
