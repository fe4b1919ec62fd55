package storage

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"foto.png":               "foto.png",
		"../../etc/passwd":       "passwd",
		`C:\Users\ana\doc 1.pdf`: "doc_1.pdf",
		"my cat photo.jpg":       "my_cat_photo.jpg",
		".hidden":                "hidden",
		"nota fiscal ção.pdf":    "nota_fiscal_o.pdf",
		"///":                    "",
		"..":                     "",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLocalStoreSave(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), 1024)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	saved, err := store.Save("../logo.png", bytes.NewReader(png))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(saved.Key, "_logo.png") {
		t.Fatalf("key = %q, want suffix _logo.png", saved.Key)
	}
	if saved.MimeType != "image/png" {
		t.Fatalf("mime = %q, want image/png", saved.MimeType)
	}
	if saved.SizeBytes != int64(len(png)) {
		t.Fatalf("size = %d, want %d", saved.SizeBytes, len(png))
	}

	path, err := store.Path(saved.Key)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(content, png) {
		t.Fatalf("stored content mismatch: %v", err)
	}

	again, err := store.Save("logo.png", bytes.NewReader(png))
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if again.Key == saved.Key {
		t.Fatal("expected distinct keys for the same file name")
	}
}

func TestLocalStoreRejectsOversizeAndInvalidNames(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, 4)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	if _, err := store.Save("big.txt", strings.NewReader("12345")); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("oversize upload left %d files behind", len(entries))
	}
	if _, err := store.Save("...", strings.NewReader("x")); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("err = %v, want ErrInvalidName", err)
	}
}

func TestLocalStorePathRefusesTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	for _, key := range []string{"", "../secret", "a/b.png", ".env", `..\x`} {
		if _, err := store.Path(key); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("Path(%q) err = %v, want ErrInvalidName", key, err)
		}
	}
	if _, err := store.Path("abc_logo.png"); err != nil {
		t.Fatalf("Path(valid) err = %v", err)
	}
}

func TestLocalStoreRemove(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), 1024)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	saved, err := store.Save("nota.txt", strings.NewReader("conteúdo"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Remove(saved.Key); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	path, _ := store.Path(saved.Key)
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file still present: %v", err)
	}
	if err := store.Remove(saved.Key); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if err := store.Remove("../escape"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("Remove traversal = %v, want ErrInvalidName", err)
	}
}
