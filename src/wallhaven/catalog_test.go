package wallhaven

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := OpenCatalog(filepath.Join(t.TempDir(), ".cache", "catalog.db"), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("OpenCatalog() error = %v", err)
	}
	t.Cleanup(func() { catalog.Close() })
	return catalog
}

func TestOpenCatalog(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, ".cache", "catalog.db")

	catalog, err := OpenCatalog(dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("OpenCatalog() error = %v", err)
	}
	defer catalog.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Expected database file to exist")
	}

	history, err := catalog.History(10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 0 {
		t.Errorf("Expected empty catalog, got %d entries", len(history))
	}
}

func TestCatalog_Record(t *testing.T) {
	catalog := newTestCatalog(t)

	testFile := filepath.Join(t.TempDir(), "wall_20240101_000000.jpg")
	if err := os.WriteFile(testFile, []byte("test content"), 0644); err != nil {
		t.Fatal(err)
	}

	wallpaper := &Wallpaper{
		ID:         "abc123",
		Path:       "https://example.com/wallhaven-abc123.jpg",
		Resolution: "2560x1440",
	}

	if err := catalog.Record(wallpaper, testFile); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	history, err := catalog.History(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(history))
	}

	entry := history[0]
	if entry.Path != testFile {
		t.Errorf("Expected path %s, got %s", testFile, entry.Path)
	}
	if entry.OriginalURL != wallpaper.Path {
		t.Errorf("Expected original url %s, got %s", wallpaper.Path, entry.OriginalURL)
	}
	if entry.Size != int64(len("test content")) {
		t.Errorf("Expected size %d, got %d", len("test content"), entry.Size)
	}
	if entry.Resolution != "2560x1440" {
		t.Errorf("Expected resolution '2560x1440', got '%s'", entry.Resolution)
	}
	if entry.UseCount != 1 {
		t.Errorf("Expected use count 1, got %d", entry.UseCount)
	}
}

func TestCatalog_RecordAgainBumpsUseCount(t *testing.T) {
	catalog := newTestCatalog(t)
	dir := t.TempDir()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	catalog.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first := filepath.Join(dir, "first.jpg")
	second := filepath.Join(dir, "second.jpg")
	other := filepath.Join(dir, "other.jpg")
	for _, f := range []string{first, second, other} {
		if err := os.WriteFile(f, []byte(f), 0644); err != nil {
			t.Fatal(err)
		}
	}

	a := &Wallpaper{ID: "a", Path: "https://example.com/a.jpg"}
	b := &Wallpaper{ID: "b", Path: "https://example.com/b.jpg"}

	for _, step := range []struct {
		w    *Wallpaper
		file string
	}{{a, first}, {b, other}, {a, second}} {
		if err := catalog.Record(step.w, step.file); err != nil {
			t.Fatalf("Record(%s) error = %v", step.w.ID, err)
		}
	}

	history, err := catalog.History(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(history))
	}
	if history[0].ID != "a" || history[1].ID != "b" {
		t.Errorf("Expected order [a b], got [%s %s]", history[0].ID, history[1].ID)
	}
	if history[0].UseCount != 2 {
		t.Errorf("Expected use count 2, got %d", history[0].UseCount)
	}
	if history[0].Path != second {
		t.Errorf("Expected path to follow the newest file, got %s", history[0].Path)
	}

	limited, err := catalog.History(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected limit to apply, got %d entries", len(limited))
	}
}

func TestCatalog_RecordMissingFile(t *testing.T) {
	catalog := newTestCatalog(t)

	err := catalog.Record(&Wallpaper{ID: "x"}, filepath.Join(t.TempDir(), "missing.jpg"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestCalculateFileHash(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "hash.txt")
	if err := os.WriteFile(testFile, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}

	hash, size, err := CalculateFileHash(testFile)
	if err != nil {
		t.Fatalf("CalculateFileHash() error = %v", err)
	}
	if size != 3 {
		t.Errorf("Expected size 3, got %d", size)
	}
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if hash != want {
		t.Errorf("Expected hash %s, got %s", want, hash)
	}
}
