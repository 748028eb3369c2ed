package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/src/wallhaven"
)

// HistoryHandler lists the wallpapers recorded in the catalog
type HistoryHandler struct {
	env
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(logger *slog.Logger, level *slog.LevelVar) *HistoryHandler {
	return &HistoryHandler{env: newEnv(logger, level)}
}

// Handle processes the history command
func (h *HistoryHandler) Handle(ctx context.Context, c *cli.Command) error {
	limit := int(c.Int("limit"))
	if limit <= 0 {
		return fmt.Errorf("invalid limit: %d", limit)
	}

	cfg, err := h.loadConfig(c, false)
	if err != nil {
		return err
	}

	if !cfg.CatalogEnabled() {
		fmt.Fprintln(h.out, "The catalog is disabled (catalog: off).")
		return nil
	}

	catalog, err := wallhaven.OpenCatalog(cfg.CatalogPath, h.logger)
	if err != nil {
		return err
	}
	defer catalog.Close()

	history, err := catalog.History(limit)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		fmt.Fprintln(h.out, "No wallpaper history found.")
		fmt.Fprintln(h.out, "Run without a subcommand to apply a wallpaper first!")
		return nil
	}

	fmt.Fprintf(h.out, "\nWallpaper History (last %d)\n", len(history))
	fmt.Fprintln(h.out, strings.Repeat("=", 80))

	for i, wp := range history {
		fmt.Fprintf(h.out, "\n%d. %s (%s)\n", i+1, filepath.Base(wp.Path), wp.ID)
		if wp.Resolution != "" {
			fmt.Fprintf(h.out, "   Resolution: %s\n", wp.Resolution)
		}
		fmt.Fprintf(h.out, "   Size: %s | Used: %d times | Last applied: %s\n",
			humanize.Bytes(uint64(wp.Size)), wp.UseCount, humanize.Time(wp.LastApplied))
		fmt.Fprintf(h.out, "   Source: %s\n", wp.OriginalURL)
	}

	fmt.Fprintln(h.out)
	return nil
}

// GetFlags returns the CLI flags for the history command
func (h *HistoryHandler) GetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Value:   20,
			Usage:   "Number of entries to show",
		},
	}
}
