package book

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Cover candidates larger than an e-reader screen get downscaled.
const (
	maxCoverWidth  = 1600
	maxCoverHeight = 2560
)

var coverExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

var imageRefRe = regexp.MustCompile(`!\[.*?\]\((.*?)\)`)

// coverStrategy produces a candidate cover filename inside the images
// directory, or "" when it has none.
type coverStrategy func() string

// SelectCover picks the cover image filename by fixed priority: a file
// literally named cover.*, then the first image referenced by the earliest
// chapter that references one, then the first image file in the directory.
// Returns "" when every strategy comes up empty; the book then ships without
// a cover.
func SelectCover(imagesDir string, chapterContents []string) string {
	strategies := []coverStrategy{
		func() string { return namedCoverFile(imagesDir) },
		func() string { return firstReferencedImage(chapterContents) },
		func() string { return firstImageInDir(imagesDir) },
	}
	for _, strategy := range strategies {
		if name := strategy(); name != "" {
			return name
		}
	}
	return ""
}

func namedCoverFile(imagesDir string) string {
	for _, ext := range coverExtensions {
		name := "cover" + ext
		if _, err := os.Stat(filepath.Join(imagesDir, name)); err == nil {
			return name
		}
	}
	return ""
}

func firstReferencedImage(chapterContents []string) string {
	for _, content := range chapterContents {
		m := imageRefRe.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		ref := m[1]
		if idx := strings.LastIndex(ref, "images/"); idx >= 0 {
			ref = ref[idx+len("images/"):]
		}
		if ref != "" {
			return ref
		}
	}
	return ""
}

func firstImageInDir(imagesDir string) string {
	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		return ""
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, allowed := range coverExtensions {
			if ext == allowed {
				names = append(names, entry.Name())
				break
			}
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}

// normalizeCover decodes the cover and downscales it to fit the e-reader
// bounds, writing the result into tmpDir. Undecodable files are returned
// unchanged so they still get embedded as-is.
func normalizeCover(srcPath, tmpDir string) (string, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open cover: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return srcPath, nil
	}

	bounds := img.Bounds()
	width, height := coverDimensions(bounds.Dx(), bounds.Dy())

	needsResize := width != bounds.Dx() || height != bounds.Dy()
	needsReencode := format == "webp" // no native EPUB support, re-encode as PNG
	if !needsResize && !needsReencode {
		return srcPath, nil
	}

	var processed image.Image = img
	if needsResize {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
		processed = dst
	}

	ext := ".jpg"
	if format == "png" || format == "webp" {
		ext = ".png"
	}
	dest := filepath.Join(tmpDir, "cover"+ext)

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create cover file: %w", err)
	}
	defer out.Close()

	if ext == ".png" {
		err = png.Encode(out, processed)
	} else {
		err = jpeg.Encode(out, processed, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode cover: %w", err)
	}
	return dest, nil
}

// coverDimensions scales down to fit the cover bounds, keeping aspect ratio.
func coverDimensions(width, height int) (int, int) {
	if width <= maxCoverWidth && height <= maxCoverHeight {
		return width, height
	}

	widthScale := float64(maxCoverWidth) / float64(width)
	heightScale := float64(maxCoverHeight) / float64(height)
	scale := widthScale
	if heightScale < widthScale {
		scale = heightScale
	}

	return int(float64(width) * scale), int(float64(height) * scale)
}
