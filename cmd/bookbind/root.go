package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bookbind",
	Short: "Turn scraped markdown into EPUB e-books",
	Long: "Clean directories of scraped markdown chapters and bind them " +
		"into EPUB e-books with embedded images and covers",
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(listCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
