package book

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBookDir creates a cleaned chapter directory with three chapters and
// one referenced image.
func setupBookDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	imagesDir := filepath.Join(dir, "images")
	require.NoError(t, os.MkdirAll(imagesDir, 0755))
	writeTestImage(t, imagesDir, "pic1.png")

	chapters := map[string]string{
		"01 - One.md":   "# One\n\nFirst chapter with ![a pic](images/pic1.png)\n",
		"02 - Two.md":   "# Two\n\nSecond chapter\n",
		"03 - Three.md": "# Three\n\nThird chapter, same image ![again](images/pic1.png)\n",
	}
	for name, content := range chapters {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// epubEntries returns the zip entry names of a written EPUB.
func epubEntries(t *testing.T, path string) []string {
	t.Helper()

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

// epubPackageDoc returns the content of the OPF package document.
func epubPackageDoc(t *testing.T, path string) string {
	t.Helper()

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	for _, f := range r.File {
		if strings.HasSuffix(f.Name, ".opf") {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(data)
		}
	}
	t.Fatal("no .opf package document in EPUB")
	return ""
}

func TestBuildProducesEpub(t *testing.T) {
	dir := setupBookDir(t)
	output := filepath.Join(t.TempDir(), "My Book.epub")

	report, err := NewBuilder().Build(dir, output)
	require.NoError(t, err)

	_, err = os.Stat(output)
	assert.NoError(t, err, "EPUB file should exist")

	assert.Equal(t, []string{"One", "Two", "Three"}, report.Chapters)
	assert.Equal(t, 1, report.Images, "shared image embedded once")
	assert.Empty(t, report.MissingImages)

	entries := strings.Join(epubEntries(t, output), "\n")
	assert.Contains(t, entries, "chapter_01.xhtml")
	assert.Contains(t, entries, "chapter_02.xhtml")
	assert.Contains(t, entries, "chapter_03.xhtml")
}

func TestBuildSpineOrder(t *testing.T) {
	dir := setupBookDir(t)
	output := filepath.Join(t.TempDir(), "out.epub")

	_, err := NewBuilder().Build(dir, output)
	require.NoError(t, err)

	opf := epubPackageDoc(t, output)
	first := strings.Index(opf, "chapter_01")
	second := strings.Index(opf, "chapter_02")
	third := strings.Index(opf, "chapter_03")
	require.True(t, first >= 0 && second >= 0 && third >= 0, "all chapters in package doc")
	assert.True(t, first < second && second < third, "spine must follow ordinal order")
}

func TestBuildUsesMetadataFile(t *testing.T) {
	dir := setupBookDir(t)
	yaml := "title: Custom Title\nauthor: Jane Doe\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), []byte(yaml), 0644))

	output := filepath.Join(t.TempDir(), "out.epub")
	report, err := NewBuilder().Build(dir, output)
	require.NoError(t, err)
	assert.Equal(t, "Custom Title", report.Title)

	opf := epubPackageDoc(t, output)
	assert.Contains(t, opf, "Custom Title")
	assert.Contains(t, opf, "Jane Doe")
}

func TestBuildSelectsCover(t *testing.T) {
	dir := setupBookDir(t)
	writeTestImage(t, filepath.Join(dir, "images"), "cover.png")

	output := filepath.Join(t.TempDir(), "out.epub")
	report, err := NewBuilder().Build(dir, output)
	require.NoError(t, err)
	assert.Equal(t, "cover.png", report.Cover)
}

func TestBuildCoverFallsBackToFirstReference(t *testing.T) {
	dir := setupBookDir(t)

	output := filepath.Join(t.TempDir(), "out.epub")
	report, err := NewBuilder().Build(dir, output)
	require.NoError(t, err)
	assert.Equal(t, "pic1.png", report.Cover)
}

func TestBuildWithoutCoverIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01 - Only.md"), []byte("# Only\n\ntext\n"), 0644))

	output := filepath.Join(t.TempDir(), "out.epub")
	report, err := NewBuilder().Build(dir, output)
	require.NoError(t, err)
	assert.Empty(t, report.Cover)

	_, err = os.Stat(output)
	assert.NoError(t, err)
}

func TestBuildOverwritesExistingOutput(t *testing.T) {
	dir := setupBookDir(t)
	output := filepath.Join(t.TempDir(), "out.epub")
	require.NoError(t, os.WriteFile(output, []byte("stale"), 0644))

	_, err := NewBuilder().Build(dir, output)
	require.NoError(t, err)

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(len("stale")), "old file silently replaced")
}

func TestBuildMissingDir(t *testing.T) {
	_, err := NewBuilder().Build(filepath.Join(t.TempDir(), "nope"), "out.epub")
	assert.ErrorIs(t, err, ErrBookDirMissing)
}

func TestBuildNoChapters(t *testing.T) {
	_, err := NewBuilder().Build(t.TempDir(), "out.epub")
	assert.ErrorIs(t, err, ErrNoChapters)
}

func TestBuildReportsMissingImages(t *testing.T) {
	dir := t.TempDir()
	content := "# One\n\n![gone](images/never_downloaded.png)\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01 - One.md"), []byte(content), 0644))

	output := filepath.Join(t.TempDir(), "out.epub")
	report, err := NewBuilder().Build(dir, output)
	require.NoError(t, err)
	assert.Contains(t, report.MissingImages, "never_downloaded.png")
}
