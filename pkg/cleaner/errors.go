package cleaner

import "errors"

// Sentinel errors for fatal setup failures.
var (
	ErrInputDirMissing = errors.New("input directory not found")
	ErrNotADirectory   = errors.New("input path is not a directory")
	ErrNoMarkdownFiles = errors.New("no markdown files found")
)
