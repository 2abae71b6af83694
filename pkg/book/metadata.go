package book

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// MetadataFile is the optional per-book metadata file inside the cleaned
// chapter directory.
const MetadataFile = "book.yaml"

// Metadata holds the EPUB package metadata. Zero values fall back to the
// directory name, "Unknown" and "en".
type Metadata struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Language    string `yaml:"language"`
	Description string `yaml:"description"`
	Identifier  string `yaml:"identifier"`
}

// LoadMetadata reads book.yaml from bookDir when present and fills in
// defaults for anything it leaves unset.
func LoadMetadata(bookDir, defaultTitle string) (Metadata, error) {
	meta := Metadata{}

	data, err := os.ReadFile(filepath.Join(bookDir, MetadataFile))
	if err == nil {
		if err := yaml.Unmarshal(data, &meta); err != nil {
			return Metadata{}, fmt.Errorf("%w: %v", ErrMetadataParse, err)
		}
	} else if !os.IsNotExist(err) {
		return Metadata{}, fmt.Errorf("failed to read %s: %w", MetadataFile, err)
	}

	if meta.Title == "" {
		meta.Title = defaultTitle
	}
	if meta.Author == "" {
		meta.Author = "Unknown"
	}
	if meta.Language == "" {
		meta.Language = "en"
	}
	return meta, nil
}
