package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/velara/bookbind/pkg/book"
	"github.com/velara/bookbind/pkg/data"
)

// cleanMarkdownDir is the conventional home of cleaned chapter directories.
const cleanMarkdownDir = "clean_markdown"

var buildCmd = &cobra.Command{
	Use:   "build <book name>",
	Short: "Build an EPUB from cleaned chapters",
	Long: "Read the cleaned chapter directory of a book and write " +
		"<book name>.epub into the working directory, replacing any existing file",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = filepath.Join(cleanMarkdownDir, name)
		}
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = name + ".epub"
		}

		fmt.Printf("📖 Building EPUB for '%s'\n", name)

		report, err := book.NewBuilder().Build(dir, output)
		if errors.Is(err, book.ErrBookDirMissing) {
			fmt.Printf("❌ Book directory not found: %s\n", dir)
			listAvailableBooks(filepath.Dir(dir))
			os.Exit(1)
		}
		cobra.CheckErr(err)

		if report.Cover != "" {
			fmt.Printf("🖼  Cover: %s\n", report.Cover)
		} else {
			fmt.Println("🖼  No cover image found, building without one")
		}
		for _, missing := range report.MissingImages {
			fmt.Printf("⚠️  Referenced image not on disk: %s\n", missing)
		}
		fmt.Printf("✅ EPUB created: %s (%d chapters, %d images)\n",
			report.Output, len(report.Chapters), report.Images)

		recordBuild(name, dir, report)
	},
}

// listAvailableBooks prints the book directories under parent as a hint.
func listAvailableBooks(parent string) {
	entries, err := os.ReadDir(parent)
	if err != nil {
		return
	}
	fmt.Println("\nAvailable books:")
	for _, entry := range entries {
		if entry.IsDir() && entry.Name()[0] != '.' {
			fmt.Printf("  - %s\n", entry.Name())
		}
	}
}

// recordBuild updates the library catalog; failures only warn.
func recordBuild(name, dir string, report *book.BuildReport) {
	repo, err := data.OpenRepository(data.DefaultDBPath)
	if err != nil {
		log.Printf("Warning: library catalog unavailable: %v", err)
		return
	}
	defer repo.Close()

	existing, err := repo.GetBook(name)
	if err != nil {
		log.Printf("Warning: failed to read catalog: %v", err)
		return
	}
	if existing == nil {
		entry := &data.Book{
			Name:      name,
			CleanDir:  dir,
			EpubPath:  report.Output,
			Status:    "built",
			Chapters:  len(report.Chapters),
			UpdatedAt: time.Now(),
		}
		if err := repo.SaveBook(entry); err != nil {
			log.Printf("Warning: failed to record book: %v", err)
		}
		return
	}
	if err := repo.UpdateBookEpub(name, report.Output); err != nil {
		log.Printf("Warning: failed to record build: %v", err)
	}
}

func init() {
	buildCmd.Flags().StringP("dir", "d", "", "Cleaned chapter directory (default: clean_markdown/<book name>)")
	buildCmd.Flags().StringP("output", "o", "", "Output EPUB path (default: <book name>.epub)")
}
