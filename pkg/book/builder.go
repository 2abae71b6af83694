package book

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-shiori/go-epub"
	"github.com/yuin/goldmark"
)

var imgSrcRe = regexp.MustCompile(`src="images/([^"]+)"`)

// Builder assembles an EPUB from a cleaned chapter directory.
type Builder struct {
	md goldmark.Markdown
}

func NewBuilder() *Builder {
	return &Builder{md: newMarkdownConverter()}
}

// BuildReport summarizes a finished build.
type BuildReport struct {
	Title         string
	Chapters      []string // spine entry titles in order
	Images        int      // distinct embedded images, cover excluded
	Cover         string   // selected cover filename, "" when none
	MissingImages []string // referenced but absent on disk
	Output        string
}

// Build reads the numbered chapter files in bookDir, converts each to XHTML,
// embeds their images and the selected cover, and writes the EPUB to
// outputPath, silently replacing an existing file.
func (b *Builder) Build(bookDir, outputPath string) (*BuildReport, error) {
	if info, err := os.Stat(bookDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrBookDirMissing, bookDir)
	}

	files, err := chapterFiles(bookDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoChapters, bookDir)
	}

	meta, err := LoadMetadata(bookDir, filepath.Base(bookDir))
	if err != nil {
		return nil, err
	}

	contents := make([]string, len(files))
	for i, name := range files {
		data, err := os.ReadFile(filepath.Join(bookDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read chapter %s: %w", name, err)
		}
		contents[i] = string(data)
	}

	e, err := epub.NewEpub(meta.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to create EPUB: %w", err)
	}
	e.SetAuthor(meta.Author)
	e.SetLang(meta.Language)
	if meta.Description != "" {
		e.SetDescription(meta.Description)
	}
	if meta.Identifier != "" {
		e.SetIdentifier(meta.Identifier)
	}

	report := &BuildReport{Title: meta.Title, Output: outputPath}
	imagesDir := filepath.Join(bookDir, "images")

	if err := b.setCover(e, imagesDir, contents, report); err != nil {
		return nil, err
	}

	// Distinct referenced images are embedded exactly once. Failed names map
	// to "" so they are neither retried nor reported twice.
	embedded := make(map[string]string) // images/ filename -> internal path

	for i, name := range files {
		title := chapterTitle(contents[i], name)

		html, err := convertMarkdown(b.md, contents[i])
		if err != nil {
			return nil, fmt.Errorf("chapter %s: %w", name, err)
		}
		html = b.embedImages(e, html, imagesDir, embedded, report)

		internalName := fmt.Sprintf("chapter_%02d.xhtml", i+1)
		if _, err := e.AddSection(html, title, internalName, ""); err != nil {
			return nil, fmt.Errorf("failed to add chapter %s: %w", name, err)
		}
		report.Chapters = append(report.Chapters, title)
	}

	if err := e.Write(outputPath); err != nil {
		return nil, fmt.Errorf("failed to write EPUB: %w", err)
	}
	return report, nil
}

// embedImages registers every images/ reference in the chapter HTML with the
// EPUB package and rewrites the src attributes to the internal paths.
func (b *Builder) embedImages(e *epub.Epub, html, imagesDir string, embedded map[string]string, report *BuildReport) string {
	return imgSrcRe.ReplaceAllStringFunc(html, func(m string) string {
		name := imgSrcRe.FindStringSubmatch(m)[1]

		if internal, ok := embedded[name]; ok {
			if internal == "" {
				return m
			}
			return fmt.Sprintf("src=%q", internal)
		}

		path := filepath.Join(imagesDir, name)
		if _, err := os.Stat(path); err != nil {
			embedded[name] = ""
			report.MissingImages = append(report.MissingImages, name)
			return m
		}
		internal, err := e.AddImage(path, name)
		if err != nil {
			embedded[name] = ""
			report.MissingImages = append(report.MissingImages, name)
			return m
		}
		embedded[name] = internal
		report.Images++
		return fmt.Sprintf("src=%q", internal)
	})
}

// setCover selects, normalizes and registers the cover image. A book with no
// usable cover is not an error.
func (b *Builder) setCover(e *epub.Epub, imagesDir string, contents []string, report *BuildReport) error {
	name := SelectCover(imagesDir, contents)
	if name == "" {
		return nil
	}

	srcPath := filepath.Join(imagesDir, name)
	if _, err := os.Stat(srcPath); err != nil {
		return nil // referenced cover never downloaded, ship without one
	}

	tmpDir, err := os.MkdirTemp("", "bookbind-cover-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}

	coverPath, err := normalizeCover(srcPath, tmpDir)
	if err != nil {
		return fmt.Errorf("failed to normalize cover: %w", err)
	}

	// The cover gets its own internal name so a chapter referencing the same
	// file can still embed it under its original name.
	internal, err := e.AddImage(coverPath, "epub-cover"+filepath.Ext(coverPath))
	if err != nil {
		return fmt.Errorf("failed to add cover image: %w", err)
	}
	if err := e.SetCover(internal, ""); err != nil {
		return fmt.Errorf("failed to set cover: %w", err)
	}
	report.Cover = name
	return nil
}

// chapterFiles lists the .md files of the book directory in filename order,
// which is ordinal order for cleaned chapters.
func chapterFiles(bookDir string) ([]string, error) {
	entries, err := os.ReadDir(bookDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read book directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}
