package book

import "errors"

// Sentinel errors for fatal setup failures.
var (
	ErrBookDirMissing = errors.New("book directory not found")
	ErrNoChapters     = errors.New("no markdown chapters found")
	ErrMetadataParse  = errors.New("failed to parse book metadata")
)
