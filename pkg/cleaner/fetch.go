package cleaner

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

// imageFetcher downloads remote images into a local directory, one attempt
// per URL, deduplicating by the hash-derived filename.
type imageFetcher struct {
	client  *http.Client
	dir     string
	results map[string]error // URL -> outcome of this run's attempt
}

func newImageFetcher(client *http.Client, dir string) *imageFetcher {
	return &imageFetcher{
		client:  client,
		dir:     dir,
		results: make(map[string]error),
	}
}

// LocalImageName derives the stable local filename for a remote image URL.
// The name depends only on the URL, so reruns reuse already downloaded files.
func LocalImageName(rawURL string) string {
	sum := md5.Sum([]byte(rawURL))
	hash := hex.EncodeToString(sum[:])[:12]

	ext := ""
	if u, err := url.Parse(rawURL); err == nil {
		ext = path.Ext(u.Path)
	}
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("image_%s%s", hash, ext)
}

// Fetch downloads the image unless a file with its name already exists.
// It returns the local filename, caching the outcome for repeated references.
func (f *imageFetcher) Fetch(rawURL string) (string, error) {
	name := LocalImageName(rawURL)

	if err, seen := f.results[rawURL]; seen {
		return name, err
	}

	err := f.download(rawURL, filepath.Join(f.dir, name))
	f.results[rawURL] = err
	return name, err
}

func (f *imageFetcher) download(rawURL, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil // already downloaded in a previous run
	}

	resp, err := f.client.Get(rawURL)
	if err != nil {
		return fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}
