package cmd

import (
	"fmt"
	"strings"

	"github.com/kerbaras/vnforge/pkg/novel"
	"github.com/kerbaras/vnforge/pkg/services"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate stories, portraits, backgrounds and dialogue with Gemini",
	Long:    "Generate content with the Gemini API. Requires GOOGLE_API_KEY (or ai.api_key in the config file)",
}

var generateStoryCmd = &cobra.Command{
	Use:   "story [theme]",
	Short: "Generate a complete novel from a theme",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		theme := strings.Join(args, " ")
		output, _ := cmd.Flags().GetString("output")

		pipeline, err := newPipeline(cmd.Context())
		cobra.CheckErr(err)
		defer pipeline.Close()

		fmt.Printf("✍️  Writing a story about %q...\n", theme)
		n, err := pipeline.GenerateStory(cmd.Context(), theme)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("story generation failed: %w", err))
		}
		novel.Normalize(&n)

		if output != "" {
			cobra.CheckErr(services.WriteNovelFile(output, n))
			fmt.Printf("✨ Created '%s' at %s (%d scenes, %d characters)\n", n.Title, output, len(n.Scenes), len(n.Characters))
			return
		}

		repo, err := openLibrary()
		cobra.CheckErr(err)
		defer repo.Close()
		id, err := newController(repo).Import(n)
		cobra.CheckErr(err)
		fmt.Printf("📚 Added '%s' to library (ID: %s, %d scenes, %d characters)\n", n.Title, id, len(n.Scenes), len(n.Characters))
	},
}

var generatePortraitsCmd = &cobra.Command{
	Use:   "portraits [novel] [character...]",
	Short: "Draw every expression of one or more characters",
	Long:  "Draw the default expression of each character, then derive the other expressions from it. Every character is drawn when none is named",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, controller, done, err := openNovel(args[0])
		defer done()
		cobra.CheckErr(err)

		characters := args[1:]
		if len(characters) == 0 {
			for _, c := range doc.Novel.Characters {
				characters = append(characters, c.ID)
			}
		}
		if len(characters) == 0 {
			fmt.Println("🧑 This novel has no characters.")
			return
		}

		pipeline, err := newPipeline(cmd.Context())
		cobra.CheckErr(err)

		// Listen for progress
		finished := make(chan struct{})
		go func() {
			defer close(finished)
			for progress := range pipeline.GetProgressChannel() {
				switch progress.Status {
				case "generating":
					fmt.Printf("  [%d/%d] %s: drawing %s\n", progress.Step, progress.Total, progress.CharacterID, progress.Expression)
				case "error":
					fmt.Printf("  [%d/%d] %s: ❌ %v\n", progress.Step, progress.Total, progress.ExpressionID, progress.Error)
				}
			}
		}()

		var failed bool
		for _, id := range characters {
			fmt.Printf("🎨 Drawing %s\n", id)
			updated, report, err := pipeline.GeneratePortraits(cmd.Context(), doc.Novel, id)
			doc.Novel = updated
			if err != nil {
				fmt.Printf("❌ %s: %v\n", id, err)
				failed = true
				if cmd.Context().Err() != nil {
					break
				}
				continue
			}
			fmt.Printf("  %d drawn, %d failed\n", len(report.Generated), len(report.Failed))
			if len(report.Failed) > 0 {
				failed = true
			}
		}
		pipeline.Close()
		<-finished

		// Keep whatever was drawn, even after a failure.
		cobra.CheckErr(controller.Save(doc))
		fmt.Println("✅ Portraits saved")
		if failed {
			cobra.CheckErr(fmt.Errorf("some portraits could not be drawn"))
		}
	},
}

var generateBackgroundCmd = &cobra.Command{
	Use:   "background [novel] [scene] [prompt]",
	Short: "Draw the background of a scene",
	Long:  "Draw the background of a scene from a prompt. The scene's stored prompt is used when none is given",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		generateScene(cmd, args, func(p *services.ArtPipeline, n novel.Novel, sceneID, prompt string) (novel.Novel, error) {
			return p.GenerateBackground(cmd.Context(), n, sceneID, prompt)
		})
	},
}

var generateDialogueCmd = &cobra.Command{
	Use:   "dialogue [novel] [scene] [prompt]",
	Short: "Rewrite the dialogue of a scene",
	Long:  "Rewrite the dialogue of a scene for the characters on stage. The scene's stored prompt is used when none is given",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		generateScene(cmd, args, func(p *services.ArtPipeline, n novel.Novel, sceneID, prompt string) (novel.Novel, error) {
			return p.GenerateDialogue(cmd.Context(), n, sceneID, prompt)
		})
	},
}

func generateScene(cmd *cobra.Command, args []string, fn func(p *services.ArtPipeline, n novel.Novel, sceneID, prompt string) (novel.Novel, error)) {
	doc, controller, done, err := openNovel(args[0])
	defer done()
	cobra.CheckErr(err)

	sceneID := args[1]
	scene, ok := doc.Novel.Scene(sceneID)
	if !ok {
		cobra.CheckErr(fmt.Errorf("scene %q does not exist", sceneID))
	}
	prompt := strings.Join(args[2:], " ")
	if prompt == "" {
		prompt = scene.AIPrompt
	}

	pipeline, err := newPipeline(cmd.Context())
	cobra.CheckErr(err)
	defer pipeline.Close()

	fmt.Printf("🎨 Generating for %s...\n", sceneID)
	updated, err := fn(pipeline, doc.Novel, sceneID, prompt)
	if err != nil {
		cobra.CheckErr(fmt.Errorf("generation failed: %w", err))
	}
	doc.Novel = updated
	cobra.CheckErr(controller.Save(doc))
	fmt.Println("✅ Scene updated")
}

func init() {
	generateStoryCmd.Flags().StringP("output", "o", "", "Write the novel to this file instead of the library")
	generateCmd.AddCommand(generateStoryCmd, generatePortraitsCmd, generateBackgroundCmd, generateDialogueCmd)
	rootCmd.AddCommand(generateCmd)
}
