package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/internal/retention"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/validator"
)

// CleanupHandler trims the download directory outside of the loop
type CleanupHandler struct {
	env
	validator *validator.Validator
}

// NewCleanupHandler creates a new cleanup handler
func NewCleanupHandler(logger *slog.Logger, level *slog.LevelVar) *CleanupHandler {
	return &CleanupHandler{
		env:       newEnv(logger, level),
		validator: validator.NewValidator(),
	}
}

// Handle processes the cleanup command
func (h *CleanupHandler) Handle(ctx context.Context, c *cli.Command) error {
	cfg, err := h.loadConfig(c, false)
	if err != nil {
		return err
	}

	keep := cfg.MaxFiles
	if c.IsSet("keep") {
		keep = int(c.Int("keep"))
		if err := h.validator.ValidateMaxFiles(keep); err != nil {
			return err
		}
	}
	if keep <= 0 {
		fmt.Fprintln(h.out, "Retention is unlimited; nothing to remove.")
		return nil
	}

	toRemove := retention.Excess(cfg.DownloadDir, keep)
	if len(toRemove) == 0 {
		fmt.Fprintln(h.out, "No wallpapers to remove")
		return nil
	}

	var total int64
	for _, path := range toRemove {
		if info, err := os.Stat(path); err == nil {
			total += info.Size()
		}
	}

	if c.Bool("dryRun") {
		for _, path := range toRemove {
			fmt.Fprintf(h.out, "Would remove: %s\n", filepath.Base(path))
		}
		fmt.Fprintf(h.out, "\nWould free %s of storage\n", humanize.Bytes(uint64(total)))
		fmt.Fprintln(h.out, "Run without --dryRun to actually remove these wallpapers")
		return nil
	}

	removed := retention.Sweep(cfg.DownloadDir, keep)
	for _, path := range removed {
		fmt.Fprintf(h.out, "Removed: %s\n", filepath.Base(path))
	}
	if skipped := len(toRemove) - len(removed); skipped > 0 {
		h.logger.Warn("Some wallpapers could not be removed", "count", skipped)
	}
	fmt.Fprintf(h.out, "\nFreed up to %s of storage\n", humanize.Bytes(uint64(total)))
	return nil
}

// GetFlags returns the CLI flags for the cleanup command
func (h *CleanupHandler) GetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "keep",
			Usage: "Number of wallpapers to keep (defaults to max_files)",
		},
		&cli.BoolFlag{
			Name:  "dryRun",
			Usage: "Show what would be removed without actually removing",
		},
	}
}
