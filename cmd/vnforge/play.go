package cmd

import (
	"github.com/kerbaras/vnforge/pkg/app"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [novel]",
	Short: "Play a novel in the terminal",
	Long:  "Play a novel from a file or the library, starting at the title screen or at a given scene",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sceneID, _ := cmd.Flags().GetString("scene")

		doc, _, done, err := openNovel(args[0])
		defer done()
		cobra.CheckErr(err)

		cobra.CheckErr(app.Play(doc, sceneID))
	},
}

func init() {
	playCmd.Flags().StringP("scene", "s", "", "Start playback at this scene instead of the title screen")
	rootCmd.AddCommand(playCmd)
}
