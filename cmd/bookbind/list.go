package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/velara/bookbind/pkg/data"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the books in your library",
	Long:  "Display every cleaned or built book recorded in the library catalog",
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := data.OpenRepository(data.DefaultDBPath)
		cobra.CheckErr(err)
		defer repo.Close()

		books, err := repo.ListBooks()
		cobra.CheckErr(err)

		if len(books) == 0 {
			fmt.Println("📚 No books in library. Use 'bookbind clean' to add one.")
			return
		}

		columns := []table.Column{
			{Title: "Name", Width: 32},
			{Title: "Status", Width: 10},
			{Title: "Chapters", Width: 10},
			{Title: "EPUB", Width: 28},
			{Title: "Updated", Width: 16},
		}

		rows := []table.Row{}
		for _, b := range books {
			epubPath := b.EpubPath
			if epubPath == "" {
				epubPath = "-"
			}
			rows = append(rows, table.Row{
				truncateString(b.Name, 30),
				b.Status,
				fmt.Sprintf("%d", b.Chapters),
				truncateString(epubPath, 26),
				b.UpdatedAt.Format("2006-01-02 15:04"),
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
		s.Selected = lipgloss.NewStyle()
		t.SetStyles(s)

		fmt.Printf("\n📚 Library (%d books)\n\n", len(books))
		fmt.Println(t.View())
	},
}

func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
