package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kerbaras/vnforge/pkg/app/styles"
	"github.com/kerbaras/vnforge/pkg/graph"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [novel]",
	Short: "Report structural problems of a novel",
	Long:  "List dangling choices, a missing start scene, duplicate ids, unreachable scenes and unknown speakers. Exits with status 1 when an error is found",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, _, done, err := openNovel(args[0])
		defer done()
		cobra.CheckErr(err)

		issues := graph.Check(&doc.Novel)
		if len(issues) == 0 {
			fmt.Printf("✅ '%s' has no problems\n", doc.Novel.Title)
			return
		}

		var (
			purple = lipgloss.Color("99")

			headerStyle = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
			cellStyle   = lipgloss.NewStyle().Padding(0, 1)
		)

		t := table.New().
			Border(lipgloss.HiddenBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(purple)).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				case col == 0 && issues[row].Severity == graph.Error:
					return cellStyle.Inherit(styles.StatusError)
				case col == 0:
					return cellStyle.Inherit(styles.StatusWarning)
				default:
					return cellStyle
				}
			}).
			Headers("Severity", "Scene", "Problem")

		for _, issue := range issues {
			t.Row(issue.Severity.String(), issue.SceneID, truncateString(issue.Message, 70))
		}
		fmt.Println(t)

		if graph.HasErrors(issues) {
			done()
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
