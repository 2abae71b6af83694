package cmd

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/velara/bookbind/pkg/app"
	"github.com/velara/bookbind/pkg/cleaner"
	"github.com/velara/bookbind/pkg/data"
)

var cleanCmd = &cobra.Command{
	Use:   "clean <input_dir> <output_dir>",
	Short: "Clean scraped markdown into numbered chapters",
	Long: "Number chapters by file timestamp, strip shared filename affixes, " +
		"remove hyperlinks, download remote images and normalize whitespace",
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		inputDir, outputDir := args[0], args[1]
		showProgress, _ := cmd.Flags().GetBool("progress")
		bookName, _ := cmd.Flags().GetString("book")
		if bookName == "" {
			bookName = filepath.Base(filepath.Clean(outputDir))
		}

		c := cleaner.New()
		done := make(chan struct{})

		if showProgress {
			go func() {
				if err := app.RunProgress(c.ProgressChannel()); err != nil {
					log.Printf("Warning: progress view failed: %v", err)
				}
				close(done)
			}()
		} else {
			fmt.Printf("🧹 Cleaning %s -> %s\n", inputDir, outputDir)
			go func() {
				for p := range c.ProgressChannel() {
					switch p.Status {
					case "downloading":
						if p.TotalItems > 0 {
							fmt.Printf("    %s: image %d/%d\n", p.File, p.CurrentItem+1, p.TotalItems)
						}
					case "complete":
						fmt.Printf("  [%02d/%02d] %s\n", p.Ordinal, p.TotalFiles, p.File)
					case "error":
						fmt.Printf("  ⚠️  %s: %v\n", p.File, p.Err)
					}
				}
				close(done)
			}()
		}

		result, err := c.Run(inputDir, outputDir)
		c.Close()
		<-done
		if err != nil {
			cobra.CheckErr(err)
		}

		if result.Prefix != "" {
			fmt.Printf("✂️  Removed common prefix: '%s'\n", strings.TrimSuffix(result.Prefix, " - "))
		}
		if result.Suffix != "" {
			fmt.Printf("✂️  Removed common suffix: '%s'\n", strings.TrimPrefix(result.Suffix, " - "))
		}

		// End-of-run summary: skips and failed downloads are reported, not fatal.
		for _, s := range result.Skipped {
			fmt.Printf("⚠️  Skipped %s: %v\n", s.Path, s.Err)
		}
		for _, f := range result.FailedImages {
			fmt.Printf("⚠️  Image download failed: %s (%v)\n", f.URL, f.Err)
		}
		fmt.Printf("✅ Cleaned %d chapters into %s\n", len(result.Chapters), outputDir)

		recordCleanRun(bookName, inputDir, outputDir, result)
	},
}

// recordCleanRun saves the run into the library catalog. Catalog failures
// only warn, the cleaned files are already on disk.
func recordCleanRun(bookName, inputDir, outputDir string, result *cleaner.Result) {
	repo, err := data.OpenRepository(data.DefaultDBPath)
	if err != nil {
		log.Printf("Warning: library catalog unavailable: %v", err)
		return
	}
	defer repo.Close()

	status := "cleaned"
	if len(result.Skipped) > 0 {
		status = "partial"
	}
	book := &data.Book{
		Name:      bookName,
		SourceDir: inputDir,
		CleanDir:  outputDir,
		Status:    status,
		Chapters:  len(result.Chapters),
		UpdatedAt: time.Now(),
	}
	if err := repo.SaveBook(book); err != nil {
		log.Printf("Warning: failed to record book: %v", err)
		return
	}
	for _, ch := range result.Chapters {
		chapter := &data.Chapter{
			BookName: bookName,
			Ordinal:  ch.Ordinal,
			Title:    ch.Title,
			Filename: ch.Filename,
			Images:   ch.Images,
		}
		if err := repo.SaveChapter(chapter); err != nil {
			log.Printf("Warning: failed to record chapter %d: %v", ch.Ordinal, err)
		}
	}
}

func init() {
	cleanCmd.Flags().Bool("progress", false, "Show a live progress view")
	cleanCmd.Flags().StringP("book", "b", "", "Catalog name for the book (default: output directory name)")
}
