package cleaner

import "strings"

// Affixes shorter than this are likely coincidental and not worth stripping.
const minAffixLen = 3

const separator = " - "

// CommonPrefix returns the leading text shared by every filename, snapped
// back to the last " - " separator it contains. Filenames are compared
// without their .md extension.
func CommonPrefix(filenames []string) string {
	if len(filenames) == 0 {
		return ""
	}

	prefix := trimExt(filenames[0])
	for _, name := range filenames[1:] {
		name = trimExt(name)
		i := 0
		for i < len(prefix) && i < len(name) && prefix[i] == name[i] {
			i++
		}
		prefix = prefix[:i]
		if prefix == "" {
			break
		}
	}

	if idx := strings.LastIndex(prefix, separator); idx > 0 {
		prefix = prefix[:idx+len(separator)]
	}
	if len(prefix) <= minAffixLen {
		return ""
	}
	return prefix
}

// CommonSuffix is the mirror of CommonPrefix: trailing shared text snapped
// forward to the first " - " separator.
func CommonSuffix(filenames []string) string {
	if len(filenames) == 0 {
		return ""
	}

	suffix := trimExt(filenames[0])
	for _, name := range filenames[1:] {
		name = trimExt(name)
		i := 1
		for i <= len(suffix) && i <= len(name) && suffix[len(suffix)-i] == name[len(name)-i] {
			i++
		}
		if i > 1 {
			suffix = suffix[len(suffix)-(i-1):]
		} else {
			suffix = ""
		}
		if suffix == "" {
			break
		}
	}

	if idx := strings.Index(suffix, separator); idx >= 0 {
		suffix = suffix[idx:]
	}
	if len(suffix) <= minAffixLen {
		return ""
	}
	return suffix
}

// CleanTitle strips the extension and the detected common affixes from a
// filename, leaving the chapter title.
func CleanTitle(filename, prefix, suffix string) string {
	title := trimExt(filename)
	if prefix != "" && strings.HasPrefix(title, prefix) {
		title = title[len(prefix):]
	}
	if suffix != "" && strings.HasSuffix(title, suffix) {
		title = title[:len(title)-len(suffix)]
	}
	return strings.TrimSpace(title)
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, ".md")
}
