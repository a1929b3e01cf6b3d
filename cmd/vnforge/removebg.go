package cmd

import (
	"fmt"
	"os"

	"github.com/kerbaras/vnforge/pkg/integrations"
	"github.com/kerbaras/vnforge/pkg/services"
	"github.com/kerbaras/vnforge/pkg/utils"
	"github.com/spf13/cobra"
)

var removeBgCmd = &cobra.Command{
	Use:   "removebg [image] [output.png]",
	Short: "Key out the background of a portrait",
	Long: `Key out the background of a portrait using its top-left pixel as the key colour.

The input may be a file path, an http(s) URL or a data URL. With --character
and --expression the first argument is a novel instead, and the expression's
image is replaced in place.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		characterID, _ := cmd.Flags().GetString("character")
		expressionID, _ := cmd.Flags().GetString("expression")
		maxHeight, _ := cmd.Flags().GetInt("max-height")
		if maxHeight == 0 {
			maxHeight = cfg.Pipeline.MaxPortraitHeight
		}
		chroma := integrations.ChromaOptions{MaxHeight: maxHeight}

		if characterID != "" || expressionID != "" {
			if characterID == "" || expressionID == "" {
				cobra.CheckErr(fmt.Errorf("--character and --expression go together"))
			}
			doc, controller, done, err := openNovel(args[0])
			defer done()
			cobra.CheckErr(err)

			pipeline := services.NewArtPipeline(nil, services.PipelineOptions{Chroma: chroma, Logger: logger})
			defer pipeline.Close()
			updated, err := pipeline.RemoveBackground(cmd.Context(), doc.Novel, characterID, expressionID)
			cobra.CheckErr(err)
			doc.Novel = updated
			cobra.CheckErr(controller.Save(doc))
			fmt.Printf("✂️  Keyed %s of %s\n", expressionID, characterID)
			return
		}

		if len(args) < 2 {
			cobra.CheckErr(fmt.Errorf("an output path is required"))
		}
		source := args[0]
		var content []byte
		if _, err := os.Stat(source); err == nil {
			content, err = os.ReadFile(source)
			cobra.CheckErr(err)
		} else {
			content, _, err = utils.NewFetcher().Fetch(cmd.Context(), source)
			cobra.CheckErr(err)
		}

		keyed, err := integrations.RemoveBackground(content, chroma)
		cobra.CheckErr(err)
		cobra.CheckErr(os.WriteFile(args[1], keyed, 0644))
		fmt.Printf("✂️  Wrote %s\n", args[1])
	},
}

func init() {
	removeBgCmd.Flags().StringP("character", "c", "", "Character whose expression is keyed in place")
	removeBgCmd.Flags().StringP("expression", "e", "", "Expression keyed in place")
	removeBgCmd.Flags().Int("max-height", 0, "Downscale taller images to this height (default from config)")
	rootCmd.AddCommand(removeBgCmd)
}
