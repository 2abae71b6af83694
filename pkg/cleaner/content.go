package cleaner

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// MarkDownload wraps images in a link to the full-size original:
	// [![alt](thumb)](https://host/full.jpg)
	nestedImageRe = regexp.MustCompile(`\[(!\[.*?\]\(.*?\))\]\((https?://[^)]+)\)`)
	altTextRe     = regexp.MustCompile(`!\[(.*?)\]`)

	imageRe = regexp.MustCompile(`!\[(.*?)\]\(([^)]*)\)`)

	// The optional leading "!" capture stands in for a negative lookbehind:
	// matches with it set are image syntax and must be left alone.
	linkRe = regexp.MustCompile(`(!?)\[([^\]\[]*)\]\(([^)]*)\)`)

	blankRunRe = regexp.MustCompile(`\n\n\n+`)
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

// imageResolver maps a remote image URL to a local filename under images/.
// ok is false when the image could not be made local, in which case only the
// alt text survives.
type imageResolver func(url string) (local string, ok bool)

// CollectRemoteImages returns every remote image URL referenced by the
// content, in reference order, deduplicated.
func CollectRemoteImages(content string) []string {
	var urls []string
	seen := make(map[string]bool)
	collect := func(url string) (string, bool) {
		if !seen[url] {
			seen[url] = true
			urls = append(urls, url)
		}
		return LocalImageName(url), true
	}

	for _, line := range strings.Split(content, "\n") {
		rewriteLine(line, collect)
	}
	return urls
}

// RewriteContent normalizes one chapter: the first heading becomes the
// cleaned title, leading blank lines are dropped, remote images are rewritten
// to their local paths, non-image hyperlinks collapse to their text, and
// blank-line runs shrink to a single blank line.
func RewriteContent(content, title string, resolve imageResolver) string {
	var cleaned []string
	foundHeading := false

	for _, line := range strings.Split(content, "\n") {
		if !foundHeading && strings.HasPrefix(strings.TrimSpace(line), "# ") {
			cleaned = append(cleaned, "# "+title)
			foundHeading = true
			continue
		}
		if len(cleaned) == 0 && strings.TrimSpace(line) == "" {
			continue
		}
		cleaned = append(cleaned, rewriteLine(line, resolve))
	}

	out := strings.Join(cleaned, "\n")
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	return strings.TrimRight(out, " \t\n") + "\n"
}

func rewriteLine(line string, resolve imageResolver) string {
	line = nestedImageRe.ReplaceAllStringFunc(line, func(m string) string {
		parts := nestedImageRe.FindStringSubmatch(m)
		inner, outerURL := parts[1], parts[2]

		alt := ""
		if am := altTextRe.FindStringSubmatch(inner); am != nil {
			alt = am[1]
		}
		if local, ok := resolve(outerURL); ok {
			return fmt.Sprintf("![%s](images/%s)", alt, local)
		}
		return alt
	})

	line = imageRe.ReplaceAllStringFunc(line, func(m string) string {
		parts := imageRe.FindStringSubmatch(m)
		alt, url := parts[1], parts[2]

		if !strings.HasPrefix(url, "http") {
			return m // already local, keep as is
		}
		if local, ok := resolve(url); ok {
			return fmt.Sprintf("![%s](images/%s)", alt, local)
		}
		return alt
	})

	line = linkRe.ReplaceAllStringFunc(line, func(m string) string {
		parts := linkRe.FindStringSubmatch(m)
		bang, text, url := parts[1], parts[2], parts[3]

		if bang == "!" {
			return m // image syntax, handled above
		}
		if strings.HasPrefix(url, "#") {
			return m // in-document anchor, keep
		}
		if strings.HasPrefix(url, "http") && hasImageExtension(url) {
			if local, ok := resolve(url); ok {
				return fmt.Sprintf("![%s](images/%s)", text, local)
			}
			return text
		}
		return text
	})

	return line
}

func hasImageExtension(url string) bool {
	lower := strings.ToLower(url)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
