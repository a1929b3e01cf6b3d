package cmd

import (
	"fmt"
	"os"

	"github.com/kerbaras/vnforge/pkg/novel"
	"github.com/kerbaras/vnforge/pkg/services"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new [file]",
	Short: "Create a novel from a template",
	Long:  "Create a novel from the empty or the demo template, either as a JSON file or directly in the library",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		template, _ := cmd.Flags().GetString("template")
		title, _ := cmd.Flags().GetString("title")
		toLibrary, _ := cmd.Flags().GetBool("save")
		force, _ := cmd.Flags().GetBool("force")

		var n novel.Novel
		switch template {
		case "empty":
			n = novel.Empty()
		case "demo":
			n = novel.Demo()
		default:
			cobra.CheckErr(fmt.Errorf("unknown template %q (use empty or demo)", template))
		}
		if title != "" {
			n = novel.UpdateTitle(n, title)
		}

		if toLibrary {
			repo, err := openLibrary()
			cobra.CheckErr(err)
			defer repo.Close()

			id, err := newController(repo).Import(n)
			cobra.CheckErr(err)
			fmt.Printf("📚 Added '%s' to library (ID: %s)\n", n.Title, id)
			return
		}

		if len(args) == 0 {
			cobra.CheckErr(fmt.Errorf("a file path is required unless --save is set"))
		}
		path := args[0]
		if _, err := os.Stat(path); err == nil && !force {
			cobra.CheckErr(fmt.Errorf("%s already exists (use --force to overwrite)", path))
		}
		cobra.CheckErr(services.WriteNovelFile(path, n))
		fmt.Printf("✨ Created '%s' at %s\n", n.Title, path)
	},
}

func init() {
	newCmd.Flags().StringP("template", "t", "empty", "Template to start from (empty, demo)")
	newCmd.Flags().String("title", "", "Title of the new novel")
	newCmd.Flags().Bool("save", false, "Store the novel in the library instead of a file")
	newCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	rootCmd.AddCommand(newCmd)
}
