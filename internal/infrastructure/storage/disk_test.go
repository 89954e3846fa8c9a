package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/postboard/feed-api/internal/core/domain"
)

// pngBytes is a minimal valid PNG header followed by filler, enough for the
// content sniffer to classify it.
func pngBytes() []byte {
	return append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0}, 64)...)
}

func jpegBytes() []byte {
	return append([]byte{0xff, 0xd8, 0xff, 0xe0}, bytes.Repeat([]byte{0}, 64)...)
}

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	store.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return store
}

func TestDiskStore_SavePNG(t *testing.T) {
	store := newTestStore(t)

	urlPath, err := store.Save(context.Background(), "cat.png", bytes.NewReader(pngBytes()))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(urlPath, "/images/") {
		t.Fatalf("expected /images/ prefix, got %q", urlPath)
	}
	if !strings.HasSuffix(urlPath, "-cat.png") {
		t.Fatalf("expected client filename preserved, got %q", urlPath)
	}

	onDisk := filepath.Join(store.dir, strings.TrimPrefix(urlPath, "/images/"))
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(data, pngBytes()) {
		t.Fatalf("stored content differs from upload")
	}
}

func TestDiskStore_SaveJPEG(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save(context.Background(), "photo.jpg", bytes.NewReader(jpegBytes())); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func TestDiskStore_RejectsNonImage(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(context.Background(), "notes.txt", strings.NewReader("just some text"))
	if !errors.Is(err, domain.ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}

	entries, err := os.ReadDir(store.dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected upload must not leave a file behind")
	}
}

func TestDiskStore_SaveSameNameSameInstant(t *testing.T) {
	// The store's clock is pinned, so both uploads produce the same
	// timestamped name and the second create must disambiguate.
	store := newTestStore(t)

	first, err := store.Save(context.Background(), "cat.png", bytes.NewReader(pngBytes()))
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := store.Save(context.Background(), "cat.png", bytes.NewReader(pngBytes()))
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first == second {
		t.Fatalf("colliding uploads produced the same path %q", first)
	}

	entries, err := os.ReadDir(store.dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 stored files, got %d", len(entries))
	}
}

func TestDiskStore_SanitizesFilename(t *testing.T) {
	store := newTestStore(t)

	urlPath, err := store.Save(context.Background(), "../../etc/pass wd.png", bytes.NewReader(pngBytes()))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	name := strings.TrimPrefix(urlPath, "/images/")
	if strings.ContainsAny(name, "/ ") {
		t.Fatalf("filename not sanitized: %q", name)
	}
}

func TestDiskStore_Remove(t *testing.T) {
	store := newTestStore(t)

	urlPath, err := store.Save(context.Background(), "cat.png", bytes.NewReader(pngBytes()))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.Remove(urlPath); err != nil {
		t.Fatalf("remove: %v", err)
	}
	entries, _ := os.ReadDir(store.dir)
	if len(entries) != 0 {
		t.Fatalf("file still present after remove")
	}

	// Removing again is not an error.
	if err := store.Remove(urlPath); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestDiskStore_RemoveIgnoresTraversal(t *testing.T) {
	store := newTestStore(t)

	outside := filepath.Join(filepath.Dir(store.dir), "outside.txt")
	if err := os.WriteFile(outside, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write sentinel: %v", err)
	}

	if err := store.Remove("/images/../outside.txt"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside the store was deleted")
	}
}
