package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/vnforge/pkg/novel"
	"github.com/kerbaras/vnforge/pkg/services"
	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:     "library",
	Aliases: []string{"lib"},
	Short:   "Manage the novel library",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all novels in your library",
	Long:  "Display all novels in your library in a formatted table",
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := openLibrary()
		cobra.CheckErr(err)
		defer repo.Close()

		novels, err := newController(repo).List()
		cobra.CheckErr(err)

		if len(novels) == 0 {
			fmt.Println("📚 No novels in library. Use 'vnforge new --save' or 'vnforge generate story' to add one.")
			return
		}

		columns := []table.Column{
			{Title: "Title", Width: 36},
			{Title: "Scenes", Width: 8},
			{Title: "Start", Width: 14},
			{Title: "Updated", Width: 17},
			{Title: "ID", Width: 36},
		}

		rows := []table.Row{}
		for _, n := range novels {
			title := n.Title
			if title == "" {
				title = "Untitled"
			}
			rows = append(rows, table.Row{
				truncateString(title, 34),
				fmt.Sprintf("%d", n.SceneCount),
				truncateString(n.StartSceneID, 14),
				n.UpdatedAt.Local().Format("2006-01-02 15:04"),
				n.ID,
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
		t.SetStyles(s)

		fmt.Printf("\n📚 Library (%d novels)\n\n", len(novels))
		fmt.Println(t.View())
	},
}

var libraryImportCmd = &cobra.Command{
	Use:   "import [file...]",
	Short: "Import novel files into the library",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := openLibrary()
		cobra.CheckErr(err)
		defer repo.Close()
		controller := newController(repo)

		for _, path := range args {
			n, err := services.ReadNovelFile(path)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				continue
			}
			novel.Normalize(&n)
			id, err := controller.Import(n)
			if err != nil {
				fmt.Printf("❌ %s: %v\n", path, err)
				continue
			}
			fmt.Printf("📚 Imported '%s' (ID: %s)\n", n.Title, id)
		}
	},
}

var librarySaveCmd = &cobra.Command{
	Use:   "save [novel] [file]",
	Short: "Write a library novel to a JSON file",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		doc, _, done, err := openNovel(args[0])
		defer done()
		cobra.CheckErr(err)

		cobra.CheckErr(services.WriteNovelFile(args[1], doc.Novel))
		fmt.Printf("💾 Saved '%s' to %s\n", doc.Novel.Title, args[1])
	},
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete [novel]",
	Short: "Remove a novel from the library",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := openLibrary()
		cobra.CheckErr(err)
		defer repo.Close()
		controller := newController(repo)

		// Accept a title as well as an id.
		doc, err := controller.Open(args[0])
		cobra.CheckErr(err)
		if doc.LibraryID == "" {
			cobra.CheckErr(fmt.Errorf("%s is a file, not a library novel", args[0]))
		}
		cobra.CheckErr(controller.Delete(doc.LibraryID))
		fmt.Printf("🗑️  Deleted '%s'\n", doc.Novel.Title)
	},
}

func init() {
	libraryCmd.AddCommand(libraryListCmd, libraryImportCmd, librarySaveCmd, libraryDeleteCmd)
	rootCmd.AddCommand(libraryCmd)
}
