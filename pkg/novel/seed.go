package novel

import "fmt"

func seedCharacter(id, name, prompt string) Character {
	c := Character{ID: id, Name: name, AIPrompt: prompt}
	for _, expr := range SeedExpressionNames {
		c.Expressions = append(c.Expressions, Expression{
			ID:       fmt.Sprintf("%s_%s", id, expr),
			Name:     expr,
			ImageURL: fmt.Sprintf("https://picsum.photos/seed/vn-%s-%s/400/600", id, expr),
		})
	}
	return c
}

// Demo returns the built-in sample story.
func Demo() Novel {
	return Novel{
		Title:        "A Dragon's Quest",
		Description:  "Become a brave knight and explore the cave of a legendary dragon. Battle or friendship: your choices decide your fate.",
		CoverURL:     "https://picsum.photos/seed/vn-cave/1280/720",
		StartSceneID: "scene_1",
		Characters: []Character{
			seedCharacter("char_hero", "Brave Knight", "A brave fantasy knight in shining armor with a determined look."),
			seedCharacter("char_dragon", "Sparky the Dragon", "A small, friendly dragon with glittering scales and mischievous eyes."),
		},
		Scenes: []Scene{
			{
				ID:                  "scene_1",
				Name:                "Cave Entrance",
				BackgroundURL:       "https://picsum.photos/seed/vn-cave/1280/720",
				PresentCharacterIDs: []string{},
				Dialogue: []DialogueLine{
					Narration("You stand before a dark, ominous cave. A weathered sign reads 'Dragon territory!'. What now?"),
				},
				Choices: []Choice{
					{Text: "Bravely enter the cave.", NextSceneID: "scene_2"},
					{Text: "Decide this is a bad idea and head home.", NextSceneID: "scene_4"},
				},
				AIPrompt: "A hero stands before the dark, ominous mouth of a dragon's cave. An old warning sign hangs nearby.",
			},
			{
				ID:                  "scene_2",
				Name:                "Inside the Cave",
				BackgroundURL:       "https://picsum.photos/seed/vn-inside-cave/1280/720",
				PresentCharacterIDs: []string{"char_hero", "char_dragon"},
				Dialogue: []DialogueLine{
					Line("char_dragon", "char_dragon_happy", "A tiny, sparkling dragon peers at you. 'Hi! I'm Sparky! Did you come to play?'"),
					Line("char_hero", "char_hero_neutral", "A dragon...? I am a brave knight. I have come to... test my strength!"),
					Line("char_dragon", "char_dragon_neutral", "Oh, a game! What are we playing?"),
				},
				Choices: []Choice{
					{Text: "Challenge it to a duel!", NextSceneID: "scene_3a"},
					{Text: "Ask if it has any board games.", NextSceneID: "scene_3b"},
				},
				AIPrompt: "Inside a cave full of treasure, a brave knight meets Sparky, a small, friendly, sparkling dragon.",
			},
			{
				ID:                  "scene_3a",
				Name:                "The 'Duel'",
				BackgroundURL:       "https://picsum.photos/seed/vn-inside-cave/1280/720",
				PresentCharacterIDs: []string{"char_dragon"},
				Dialogue: []DialogueLine{
					Line("char_dragon", "char_dragon_happy", "Sparky giggles and puffs a single harmless bubble at you. 'You win!' it chirps. You feel a little silly."),
				},
				Choices:  []Choice{},
				AIPrompt: "A small dragon playfully blows a single harmless bubble at a knight inside a cave.",
			},
			{
				ID:                  "scene_3b",
				Name:                "Game Night",
				BackgroundURL:       "https://picsum.photos/seed/vn-games/1280/720",
				PresentCharacterIDs: []string{"char_hero", "char_dragon"},
				Dialogue: []DialogueLine{
					Narration("You spend the afternoon playing 'Castles and Catapults' with Sparky."),
					Line("char_hero", "char_hero_happy", "That was the most fun I've had all year."),
				},
				Choices:  []Choice{},
				AIPrompt: "A knight and a small dragon happily play a board game together, surrounded by treasure.",
			},
			{
				ID:                  "scene_4",
				Name:                "Safe Road Home",
				BackgroundURL:       "https://picsum.photos/seed/vn-home/1280/720",
				PresentCharacterIDs: []string{},
				Dialogue: []DialogueLine{
					Narration("You make it home safely. The world remains unexplored, but at least you weren't dragon food."),
				},
				Choices:  []Choice{},
				AIPrompt: "A cozy, peaceful village road leading home at sunset.",
			},
		},
	}
}

// Empty returns the template for a fresh project.
func Empty() Novel {
	return Novel{
		Title:        "New Project",
		Description:  "Write a short introduction to your game here.",
		StartSceneID: "scene_1",
		Characters:   []Character{},
		Scenes: []Scene{
			{
				ID:                  "scene_1",
				Name:                "Opening Scene",
				PresentCharacterIDs: []string{},
				Dialogue:            []DialogueLine{Narration("Begin your story...")},
				Choices:             []Choice{},
			},
		},
	}
}
