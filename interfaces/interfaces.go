// Package interfaces defines interfaces for dependency injection
package interfaces

import (
	"context"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/internal/state"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/src/wallhaven"
)

// CandidateFetcher returns the candidates of one search
type CandidateFetcher interface {
	Search(ctx context.Context, search *wallhaven.Search) ([]wallhaven.Wallpaper, error)
}

// ImageDownloader stores a remote image in dir and returns its local path
type ImageDownloader interface {
	Download(ctx context.Context, rawURL, dir string) (string, error)
}

// BackgroundSetter applies a local image as the desktop background.
// Callers treat failures as best-effort.
type BackgroundSetter interface {
	SetBackground(ctx context.Context, imagePath string) error
}

// ScriptExecutor defines the interface for script execution
type ScriptExecutor interface {
	Execute(ctx context.Context, scriptPath, imagePath string) error
}

// StateStore loads and saves the persisted state record
type StateStore interface {
	Load() (state.State, error)
	Save(st state.State) error
}

// HistoryRecorder keeps a long-term log of applied wallpapers
type HistoryRecorder interface {
	Record(wallpaper *wallhaven.Wallpaper, filePath string) error
}

// Compile-time checks for the concrete implementations.
var (
	_ CandidateFetcher = (*wallhaven.Client)(nil)
	_ ImageDownloader  = (*wallhaven.Client)(nil)
	_ StateStore       = (*state.Store)(nil)
	_ HistoryRecorder  = (*wallhaven.Catalog)(nil)
)
