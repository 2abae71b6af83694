package cleaner

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Chapter is one cleaned file, numbered by source modification time.
type Chapter struct {
	Ordinal  int
	Title    string
	Filename string
	Source   string
	Images   int
}

// Skip records a recoverable per-file failure.
type Skip struct {
	Path string
	Err  error
}

// ImageFailure records a remote image that could not be downloaded.
type ImageFailure struct {
	URL string
	Err error
}

// Result summarizes a cleaning run.
type Result struct {
	Chapters     []Chapter
	Skipped      []Skip
	FailedImages []ImageFailure
	Prefix       string
	Suffix       string
}

// Cleaner turns a directory of raw scraped Markdown into numbered, cleaned
// chapter files plus a local images directory.
type Cleaner struct {
	client       *http.Client
	progressChan chan Progress
	closeOnce    sync.Once
}

func New() *Cleaner {
	return &Cleaner{
		client:       http.DefaultClient,
		progressChan: make(chan Progress, 100),
	}
}

// NewWithClient creates a Cleaner using a custom HTTP client for image
// downloads.
func NewWithClient(client *http.Client) *Cleaner {
	c := New()
	c.client = client
	return c
}

// ProgressChannel returns the channel for receiving cleaning progress updates.
func (c *Cleaner) ProgressChannel() <-chan Progress {
	return c.progressChan
}

// Close releases the progress channel. Call after Run has returned.
func (c *Cleaner) Close() {
	c.closeOnce.Do(func() {
		close(c.progressChan)
	})
}

// Run cleans every Markdown file under inputDir into outputDir. Chapter
// numbers follow ascending modification time. Per-file and per-image failures
// are collected into the Result rather than aborting the run.
func (c *Cleaner) Run(inputDir, outputDir string) (*Result, error) {
	info, err := os.Stat(inputDir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrInputDirMissing, inputDir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, inputDir)
	}

	files, err := markdownFilesByModTime(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMarkdownFiles, inputDir)
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}

	result := &Result{
		Prefix: CommonPrefix(names),
		Suffix: CommonSuffix(names),
	}

	imagesDir := filepath.Join(outputDir, "images")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	fetcher := newImageFetcher(c.client, imagesDir)
	failedURLs := make(map[string]bool)

	for i, path := range files {
		ordinal := i + 1
		base := filepath.Base(path)

		c.sendProgress(Progress{
			File:       base,
			Ordinal:    ordinal,
			TotalFiles: len(files),
			Status:     "cleaning",
		})

		content, err := os.ReadFile(path)
		if err != nil {
			result.Skipped = append(result.Skipped, Skip{Path: path, Err: err})
			c.sendProgress(Progress{File: base, Ordinal: ordinal, TotalFiles: len(files), Status: "error", Err: err})
			continue
		}

		title := CleanTitle(base, result.Prefix, result.Suffix)
		if title == "" {
			title = trimExt(base)
		}

		// Fetch every remote image up front so chapter numbering and the
		// rewritten text never depend on download order.
		urls := CollectRemoteImages(string(content))
		fetched := 0
		for _, url := range urls {
			c.sendProgress(Progress{
				File:        base,
				Ordinal:     ordinal,
				TotalFiles:  len(files),
				CurrentItem: fetched,
				TotalItems:  len(urls),
				Status:      "downloading",
			})
			if _, err := fetcher.Fetch(url); err != nil {
				if !failedURLs[url] {
					failedURLs[url] = true
					result.FailedImages = append(result.FailedImages, ImageFailure{URL: url, Err: err})
				}
			} else {
				fetched++
			}
		}

		resolve := func(url string) (string, bool) {
			name, err := fetcher.Fetch(url)
			return name, err == nil
		}
		cleaned := RewriteContent(string(content), title, resolve)

		filename := fmt.Sprintf("%02d - %s.md", ordinal, title)
		dest := filepath.Join(outputDir, filename)
		if err := os.WriteFile(dest, []byte(cleaned), 0644); err != nil {
			result.Skipped = append(result.Skipped, Skip{Path: path, Err: err})
			c.sendProgress(Progress{File: base, Ordinal: ordinal, TotalFiles: len(files), Status: "error", Err: err})
			continue
		}

		result.Chapters = append(result.Chapters, Chapter{
			Ordinal:  ordinal,
			Title:    title,
			Filename: filename,
			Source:   path,
			Images:   fetched,
		})
		c.sendProgress(Progress{
			File:        base,
			Ordinal:     ordinal,
			TotalFiles:  len(files),
			CurrentItem: fetched,
			TotalItems:  len(urls),
			Status:      "complete",
		})
	}

	return result, nil
}

// markdownFilesByModTime walks dir recursively and returns .md file paths
// sorted by ascending modification time, path as tiebreak.
func markdownFilesByModTime(dir string) ([]string, error) {
	type entry struct {
		path    string
		modTime int64
	}
	var entries []entry

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(d.Name()) != ".md" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries = append(entries, entry{path: path, modTime: info.ModTime().UnixNano()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].modTime != entries[j].modTime {
			return entries[i].modTime < entries[j].modTime
		}
		return entries[i].path < entries[j].path
	})

	files := make([]string, len(entries))
	for i, e := range entries {
		files[i] = e.path
	}
	return files, nil
}

// sendProgress sends a progress update without blocking.
func (c *Cleaner) sendProgress(progress Progress) {
	select {
	case c.progressChan <- progress:
	default:
		// Channel full, skip this update
	}
}
