package cmd

import (
	"fmt"

	"github.com/kerbaras/vnforge/pkg/integrations"
	"github.com/kerbaras/vnforge/pkg/services"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [novel]",
	Short: "Export a novel to Ren'Py, HTML or EPUB",
	Long:  "Compile a novel into a Ren'Py script, a self-contained HTML player and an EPUB gamebook",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		names, _ := cmd.Flags().GetStringSlice("format")
		outDir, _ := cmd.Flags().GetString("output")
		author, _ := cmd.Flags().GetString("author")
		lang, _ := cmd.Flags().GetString("lang")
		embed, _ := cmd.Flags().GetBool("embed-images")

		formats := make([]integrations.Format, 0, len(names))
		for _, name := range names {
			formats = append(formats, integrations.Format(name))
		}
		if len(formats) == 0 {
			formats = integrations.Formats
		}

		doc, _, done, err := openNovel(args[0])
		defer done()
		cobra.CheckErr(err)

		controller := services.NewNovelController(nil, services.ControllerConfig{
			OutputDir: cfg.Paths.OutputDir,
			Export:    integrations.ExportOptions{Author: author, Lang: lang, EmbedImages: embed},
			Logger:    logger,
		})

		fmt.Printf("📦 Exporting '%s'...\n", doc.Novel.Title)
		paths, err := controller.Export(cmd.Context(), doc.Novel, formats, outDir)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("export failed: %w", err))
		}
		for i, path := range paths {
			fmt.Printf("  %s: %s\n", formats[i], path)
		}
		fmt.Println("✅ Export complete!")
	},
}

func init() {
	exportCmd.Flags().StringSliceP("format", "f", nil, "Formats to export (renpy, html, epub); all when omitted")
	exportCmd.Flags().StringP("output", "o", "", "Output directory (default from config)")
	exportCmd.Flags().String("author", "vnforge", "Author recorded in the EPUB")
	exportCmd.Flags().String("lang", "en", "Language recorded in the EPUB")
	exportCmd.Flags().Bool("embed-images", false, "Fetch and embed images into the EPUB")
	rootCmd.AddCommand(exportCmd)
}
