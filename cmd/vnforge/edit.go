package cmd

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/kerbaras/vnforge/pkg/novel"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a novel",
	Long:  "Apply a single edit to a novel stored in a file or in the library. Unknown ids and out of range indexes leave the novel unchanged",
}

// edit opens ref, applies fn and writes the result back where it came from.
func edit(ref string, fn func(n novel.Novel) (novel.Novel, error)) {
	doc, controller, done, err := openNovel(ref)
	defer done()
	cobra.CheckErr(err)

	updated, err := fn(doc.Novel)
	cobra.CheckErr(err)
	if reflect.DeepEqual(updated, doc.Novel) {
		fmt.Println("⚠️  Nothing changed")
		return
	}

	doc.Novel = updated
	cobra.CheckErr(controller.Save(doc))
	if doc.Path != "" {
		fmt.Printf("✅ Saved %s\n", doc.Path)
	} else {
		fmt.Printf("✅ Saved '%s' to library (ID: %s)\n", doc.Novel.Title, doc.LibraryID)
	}
}

func parseIndex(s string) int {
	i, err := strconv.Atoi(s)
	cobra.CheckErr(err)
	// Indexes are 1-based on the command line.
	return i - 1
}

func newEditCmd(use, short string, args int, fn func(cmd *cobra.Command, n novel.Novel, args []string) (novel.Novel, error)) *cobra.Command {
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(args),
		Run: func(cmd *cobra.Command, args []string) {
			edit(args[0], func(n novel.Novel) (novel.Novel, error) {
				return fn(cmd, n, args[1:])
			})
		},
	}
	editCmd.AddCommand(c)
	return c
}

func init() {
	newEditCmd("title [novel] [title]", "Set the title", 2, func(_ *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		return novel.UpdateTitle(n, args[0]), nil
	})
	newEditCmd("description [novel] [text]", "Set the description", 2, func(_ *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		return novel.UpdateDescription(n, args[0]), nil
	})
	newEditCmd("cover [novel] [url]", "Set the cover image", 2, func(_ *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		return novel.UpdateCoverURL(n, args[0]), nil
	})
	newEditCmd("start [novel] [scene]", "Set the start scene", 2, func(_ *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		if _, ok := n.Scene(args[0]); !ok {
			return n, fmt.Errorf("scene %q does not exist", args[0])
		}
		return novel.UpdateStartScene(n, args[0]), nil
	})

	addScene := newEditCmd("add-scene [novel]", "Add a scene", 1, func(cmd *cobra.Command, n novel.Novel, _ []string) (novel.Novel, error) {
		id, _ := cmd.Flags().GetString("id")
		if id == "" {
			id = "scene_" + shortID()
		}
		if _, ok := n.Scene(id); ok {
			return n, fmt.Errorf("scene %q already exists", id)
		}
		fmt.Printf("🎬 Adding scene %s\n", id)
		return novel.AddScene(n, id), nil
	})
	addScene.Flags().String("id", "", "Scene id (generated when omitted)")

	newEditCmd("rename-scene [novel] [scene] [name]", "Rename a scene", 3, func(_ *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		return novel.UpdateScene(n, args[0], func(s *novel.Scene) { s.Name = args[1] }), nil
	})
	newEditCmd("background [novel] [scene] [url]", "Set the background of a scene", 3, func(_ *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		return novel.UpdateScene(n, args[0], func(s *novel.Scene) { s.BackgroundURL = args[1] }), nil
	})
	newEditCmd("scene-prompt [novel] [scene] [prompt]", "Set the art prompt of a scene", 3, func(_ *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		return novel.UpdateScene(n, args[0], func(s *novel.Scene) { s.AIPrompt = args[1] }), nil
	})
	newEditCmd("delete-scene [novel] [scene]", "Delete a scene and the choices leading to it", 2, func(_ *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		return novel.DeleteScene(n, args[0]), nil
	})

	addCharacter := newEditCmd("add-character [novel]", "Add a character with the default expressions", 1, func(cmd *cobra.Command, n novel.Novel, _ []string) (novel.Novel, error) {
		id, _ := cmd.Flags().GetString("id")
		name, _ := cmd.Flags().GetString("name")
		if id == "" {
			id = "char_" + shortID()
		}
		if _, ok := n.Character(id); ok {
			return n, fmt.Errorf("character %q already exists", id)
		}
		fmt.Printf("🧑 Adding character %s\n", id)
		n = novel.AddCharacter(n, id)
		if name != "" {
			n = novel.RenameCharacter(n, id, name)
		}
		return n, nil
	})
	addCharacter.Flags().String("id", "", "Character id (generated when omitted)")
	addCharacter.Flags().String("name", "", "Character name")

	newEditCmd("rename-character [novel] [character] [name]", "Rename a character", 3, func(_ *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		return novel.RenameCharacter(n, args[0], args[1]), nil
	})
	newEditCmd("character-prompt [novel] [character] [prompt]", "Set the portrait prompt of a character", 3, func(_ *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		return novel.UpdateCharacterPrompt(n, args[0], args[1]), nil
	})
	newEditCmd("delete-character [novel] [character]", "Delete a character and narrate its lines", 2, func(_ *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		return novel.DeleteCharacter(n, args[0]), nil
	})
	newEditCmd("expression [novel] [character] [expression] [url]", "Set the image of an expression", 4, func(_ *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		return novel.UpdateExpressionURL(n, args[0], args[1], args[2]), nil
	})

	presence := newEditCmd("presence [novel] [scene] [character]", "Put a character on stage in a scene", 3, func(cmd *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		remove, _ := cmd.Flags().GetBool("remove")
		if _, ok := n.Character(args[1]); !ok && !remove {
			return n, fmt.Errorf("character %q does not exist", args[1])
		}
		return novel.SetCharacterPresence(n, args[0], args[1], !remove), nil
	})
	presence.Flags().Bool("remove", false, "Take the character off stage and narrate its lines")

	addLine := newEditCmd("add-line [novel] [scene] [text]", "Append a dialogue line", 3, func(cmd *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		characterID, _ := cmd.Flags().GetString("character")
		expressionID, _ := cmd.Flags().GetString("expression")
		s, ok := n.Scene(args[0])
		if !ok {
			return n, fmt.Errorf("scene %q does not exist", args[0])
		}
		line := novel.Narration(args[1])
		if characterID != "" {
			line = novel.Line(characterID, expressionID, args[1])
		}
		index := len(s.Dialogue)
		n = novel.AddDialogueLine(n, args[0])
		return novel.UpdateDialogueLine(n, args[0], index, line), nil
	})
	addLine.Flags().StringP("character", "c", "", "Speaking character (narration when omitted)")
	addLine.Flags().StringP("expression", "e", "", "Expression shown while speaking")

	newEditCmd("delete-line [novel] [scene] [index]", "Delete a dialogue line (a scene keeps at least one)", 3, func(_ *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		return novel.DeleteDialogueLine(n, args[0], parseIndex(args[1])), nil
	})

	addChoice := newEditCmd("add-choice [novel] [scene] [next-scene]", "Add a choice leading to another scene", 3, func(cmd *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		text, _ := cmd.Flags().GetString("text")
		s, ok := n.Scene(args[0])
		if !ok {
			return n, fmt.Errorf("scene %q does not exist", args[0])
		}
		index := len(s.Choices)
		n = novel.AddChoice(n, args[0], args[1])
		if text != "" {
			n = novel.UpdateChoice(n, args[0], index, novel.Choice{Text: text, NextSceneID: args[1]})
		}
		return n, nil
	})
	addChoice.Flags().StringP("text", "t", "", "Choice text")

	newEditCmd("delete-choice [novel] [scene] [index]", "Delete a choice", 3, func(_ *cobra.Command, n novel.Novel, args []string) (novel.Novel, error) {
		return novel.DeleteChoice(n, args[0], parseIndex(args[1])), nil
	})

	rootCmd.AddCommand(editCmd)
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
