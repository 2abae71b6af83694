package book

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// newMarkdownConverter builds the goldmark instance used for chapter bodies.
// XHTML output is required for EPUB content documents.
func newMarkdownConverter() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // tables, strikethrough, autolinks
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
}

func convertMarkdown(md goldmark.Markdown, content string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("HTML conversion failed: %w", err)
	}
	return buf.String(), nil
}

// chapterTitle derives a spine entry title from the first level-one heading,
// falling back to the filename without extension.
func chapterTitle(content, filename string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		}
	}
	return strings.TrimSuffix(filename, ".md")
}
