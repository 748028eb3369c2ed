// Package retention trims the download directory to a maximum number of
// wallpaper files.
package retention

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/constants"
)

type entry struct {
	path    string
	modTime time.Time
}

// Sweep deletes the oldest wall_* files in dir (by modification time) until
// at most maxFiles remain, and returns the paths it removed. maxFiles <= 0
// disables it. Files that cannot be removed are skipped.
func Sweep(dir string, maxFiles int) []string {
	var removed []string
	for _, path := range Excess(dir, maxFiles) {
		if err := os.Remove(path); err != nil {
			continue
		}
		removed = append(removed, path)
	}
	return removed
}

// Excess returns the wall_* files in dir that Sweep would remove, oldest
// first, without touching them.
func Excess(dir string, maxFiles int) []string {
	if maxFiles <= 0 {
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, constants.FileGlob))
	if err != nil {
		return nil
	}

	files := make([]entry, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, entry{path: m, modTime: info.ModTime()})
	}

	excess := len(files) - maxFiles
	if excess <= 0 {
		return nil
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})

	paths := make([]string, excess)
	for i, f := range files[:excess] {
		paths[i] = f.path
	}
	return paths
}
