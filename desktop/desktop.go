// Package desktop sets the desktop background. Every implementation is
// best-effort: callers log failures and carry on.
package desktop

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/interfaces"
)

// runFunc executes an external command.
type runFunc func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w (%s)", name, err, out)
	}
	return nil
}

// New returns the setter for the current platform.
func New(logger *slog.Logger) interfaces.BackgroundSetter {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		return NewGNOME(logger)
	case "darwin":
		return NewMacOS(logger)
	default:
		return NoOp{}
	}
}

// NoOp ignores every request.
type NoOp struct{}

// SetBackground does nothing.
func (NoOp) SetBackground(context.Context, string) error { return nil }

// GNOME sets both the light and dark background through gsettings.
type GNOME struct {
	logger *slog.Logger
	run    runFunc
}

// NewGNOME creates a gsettings based setter
func NewGNOME(logger *slog.Logger) *GNOME {
	return &GNOME{logger: logger, run: runCommand}
}

var gnomeKeys = []string{"picture-uri", "picture-uri-dark"}

// SetBackground points picture-uri and picture-uri-dark at imagePath. Both
// keys are attempted even if the first fails.
func (g *GNOME) SetBackground(ctx context.Context, imagePath string) error {
	uri := FileURI(imagePath)
	var errs []error
	for _, key := range gnomeKeys {
		if err := g.run(ctx, "gsettings", "set", "org.gnome.desktop.background", key, uri); err != nil {
			errs = append(errs, err)
			continue
		}
		g.logger.Debug("Background key updated", "key", key, "uri", uri)
	}
	return stderrors.Join(errs...)
}

// MacOS sets the picture of every desktop through System Events.
type MacOS struct {
	logger *slog.Logger
	run    runFunc
}

// NewMacOS creates an osascript based setter
func NewMacOS(logger *slog.Logger) *MacOS {
	return &MacOS{logger: logger, run: runCommand}
}

// SetBackground tells System Events to use imagePath on every desktop.
func (m *MacOS) SetBackground(ctx context.Context, imagePath string) error {
	script := `tell application "System Events" to tell every desktop to set picture to ` + strconv.Quote(imagePath)
	if err := m.run(ctx, "osascript", "-e", script); err != nil {
		return err
	}
	m.logger.Debug("Background updated", "path", imagePath)
	return nil
}

// FileURI returns the file:// URI for an absolute path.
func FileURI(path string) string {
	return (&url.URL{Scheme: "file", Path: path}).String()
}
