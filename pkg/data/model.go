package data

import "time"

type Book struct {
	Name      string
	SourceDir string
	CleanDir  string
	EpubPath  string
	Status    string // "cleaned", "partial", "built"
	Chapters  int
	UpdatedAt time.Time
}

type Chapter struct {
	BookName string
	Ordinal  int
	Title    string
	Filename string
	Images   int
}
