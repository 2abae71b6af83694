package cleaner

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalImageName(t *testing.T) {
	t.Run("stable across calls", func(t *testing.T) {
		a := LocalImageName("http://example.com/img.png")
		b := LocalImageName("http://example.com/img.png")
		if a != b {
			t.Errorf("name should be deterministic: %q vs %q", a, b)
		}
	})

	t.Run("extension from URL path", func(t *testing.T) {
		name := LocalImageName("http://example.com/photo.webp")
		if !strings.HasSuffix(name, ".webp") {
			t.Errorf("expected .webp extension, got %q", name)
		}
		if !strings.HasPrefix(name, "image_") {
			t.Errorf("expected image_ prefix, got %q", name)
		}
	})

	t.Run("defaults to jpg", func(t *testing.T) {
		name := LocalImageName("http://example.com/photo?id=42")
		if !strings.HasSuffix(name, ".jpg") {
			t.Errorf("expected .jpg fallback, got %q", name)
		}
	})

	t.Run("different URLs different names", func(t *testing.T) {
		a := LocalImageName("http://example.com/a.png")
		b := LocalImageName("http://example.com/b.png")
		if a == b {
			t.Errorf("distinct URLs must map to distinct names: %q", a)
		}
	})
}

func TestFetchDedupes(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	f := newImageFetcher(http.DefaultClient, dir)
	url := server.URL + "/pic.jpg"

	name1, err := f.Fetch(url)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	name2, err := f.Fetch(url)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}

	if name1 != name2 {
		t.Errorf("same URL should map to one name: %q vs %q", name1, name2)
	}
	if hits != 1 {
		t.Errorf("expected exactly 1 request, got %d", hits)
	}

	data, err := os.ReadFile(filepath.Join(dir, name1))
	if err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("unexpected file content: %q", data)
	}
}

func TestFetchReusesExistingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made when the file already exists")
	}))
	defer server.Close()

	dir := t.TempDir()
	url := server.URL + "/pic.jpg"
	name := LocalImageName(url)
	if err := os.WriteFile(filepath.Join(dir, name), []byte("cached"), 0644); err != nil {
		t.Fatal(err)
	}

	f := newImageFetcher(http.DefaultClient, dir)
	got, err := f.Fetch(url)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if got != name {
		t.Errorf("expected %q, got %q", name, got)
	}
}

func TestFetchSingleAttemptOnError(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	f := newImageFetcher(http.DefaultClient, t.TempDir())
	url := server.URL + "/pic.jpg"

	if _, err := f.Fetch(url); err == nil {
		t.Fatal("expected error for 500 response")
	}
	// A second reference to the same URL must not retry.
	if _, err := f.Fetch(url); err == nil {
		t.Fatal("cached failure should still be an error")
	}
	if hits != 1 {
		t.Errorf("expected a single attempt, got %d", hits)
	}
}
