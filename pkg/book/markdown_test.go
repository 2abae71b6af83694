package book

import (
	"strings"
	"testing"
)

func TestConvertMarkdown(t *testing.T) {
	md := newMarkdownConverter()

	html, err := convertMarkdown(md, "# Heading\n\nSome *emphasis* here.\n")
	if err != nil {
		t.Fatalf("convertMarkdown() failed: %v", err)
	}
	if !strings.Contains(html, "<h1>Heading</h1>") {
		t.Errorf("missing heading: %q", html)
	}
	if !strings.Contains(html, "<em>emphasis</em>") {
		t.Errorf("missing emphasis: %q", html)
	}
}

func TestConvertMarkdownTables(t *testing.T) {
	md := newMarkdownConverter()

	html, err := convertMarkdown(md, "| a | b |\n|---|---|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatalf("convertMarkdown() failed: %v", err)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("GFM tables should render: %q", html)
	}
}

func TestConvertMarkdownSelfClosingImages(t *testing.T) {
	md := newMarkdownConverter()

	html, err := convertMarkdown(md, "![alt](images/x.png)\n")
	if err != nil {
		t.Fatalf("convertMarkdown() failed: %v", err)
	}
	if !strings.Contains(html, "/>") {
		t.Errorf("XHTML output expected for EPUB documents: %q", html)
	}
}

func TestChapterTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		filename string
		want     string
	}{
		{"from heading", "# The Real Title\n\ntext\n", "01 - x.md", "The Real Title"},
		{"heading after blank lines", "\n\n# Later Heading\n", "01 - x.md", "Later Heading"},
		{"fallback to filename", "just text\n", "02 - Some Chapter.md", "02 - Some Chapter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chapterTitle(tt.content, tt.filename)
			if got != tt.want {
				t.Errorf("chapterTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
