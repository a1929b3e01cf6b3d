package cmd

import (
	"fmt"

	"github.com/kerbaras/vnforge/pkg/app/components"
	"github.com/kerbaras/vnforge/pkg/graph"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree [novel]",
	Short: "Show the scene graph of a novel",
	Long:  "Print the branching structure of a novel from its start scene, followed by scenes no choice leads to",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, _, done, err := openNovel(args[0])
		defer done()
		cobra.CheckErr(err)

		n := &doc.Novel
		analysis := graph.Analyze(n)

		fmt.Printf("\n📖 %s\n\n", n.Title)
		fmt.Println(components.SceneTree(n))
		if orphans := components.Orphans(n); orphans != "" {
			fmt.Println()
			fmt.Println(orphans)
		}
		fmt.Printf("\n%d scenes • %d reachable • %d endings • %d orphans\n",
			len(n.Scenes), len(analysis.Reachable), len(analysis.Endings), len(analysis.Orphans))
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
