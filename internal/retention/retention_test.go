package retention

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeFiles creates n wall_* files whose mtimes increase with the index.
func makeFiles(t *testing.T, dir string, n int) []string {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	paths := make([]string, n)
	for i := 0; i < n; i++ {
		// Names sort opposite to mtimes so ordering must come from mtime.
		p := filepath.Join(dir, fmt.Sprintf("wall_%02d.jpg", n-i))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
		mt := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(p, mt, mt))
		paths[i] = p
	}
	return paths
}

func remaining(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out
}

func TestSweep_RemovesOldestBeyondCap(t *testing.T) {
	dir := t.TempDir()
	paths := makeFiles(t, dir, 5)

	removed := Sweep(dir, 3)

	assert.ElementsMatch(t, paths[:2], removed)
	want := append([]string(nil), paths[2:]...)
	sort.Strings(want)
	assert.Equal(t, want, remaining(t, dir))
}

func TestSweep_LeavesCountWhenWithinCap(t *testing.T) {
	tests := []struct {
		name     string
		files    int
		maxFiles int
		want     int
	}{
		{"under cap", 2, 3, 2},
		{"at cap", 3, 3, 3},
		{"disabled", 5, 0, 5},
		{"negative disables", 5, -1, 5},
		{"cap one", 4, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			makeFiles(t, dir, tt.files)
			Sweep(dir, tt.maxFiles)
			assert.Len(t, remaining(t, dir), tt.want)
		})
	}
}

func TestSweep_IgnoresOtherFilesAndDirectories(t *testing.T) {
	dir := t.TempDir()
	makeFiles(t, dir, 3)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "wall_dir"), 0o755))

	Sweep(dir, 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"keep.jpg", "wall_dir", "wall_01.jpg"}, names)
}

func TestSweep_MissingDirectory(t *testing.T) {
	assert.Empty(t, Sweep(filepath.Join(t.TempDir(), "nope"), 2))
}

func TestExcess_DoesNotRemove(t *testing.T) {
	dir := t.TempDir()
	paths := makeFiles(t, dir, 4)

	assert.Equal(t, paths[:2], Excess(dir, 2))
	assert.Len(t, remaining(t, dir), 4)
	assert.Empty(t, Excess(dir, 0))
}
