package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/constants"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/internal/retention"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/internal/state"
)

// StatusHandler prints the persisted state
type StatusHandler struct {
	env
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(logger *slog.Logger, level *slog.LevelVar) *StatusHandler {
	return &StatusHandler{env: newEnv(logger, level)}
}

// Handle processes the status command
func (h *StatusHandler) Handle(ctx context.Context, c *cli.Command) error {
	cfg, err := h.loadConfig(c, false)
	if err != nil {
		return err
	}

	store := state.NewStore(cfg.StateFile)
	st, err := store.Load()
	if err != nil {
		return err
	}

	fmt.Fprintf(h.out, "State file:      %s\n", store.Path())
	if st.SelectedID == "" && len(st.RecentIDs) == 0 {
		fmt.Fprintln(h.out, "No wallpaper applied yet.")
		return nil
	}

	fmt.Fprintf(h.out, "Current:         %s\n", st.SelectedID)
	fmt.Fprintf(h.out, "Image:           %s\n", st.LastImage)
	if !st.Timestamp.IsZero() {
		fmt.Fprintf(h.out, "Applied:         %s (%s)\n",
			st.Timestamp.Local().Format("2006-01-02 15:04:05"), humanize.Time(st.Timestamp))
	}
	fmt.Fprintf(h.out, "Recent (%d/%d):  %s\n", len(st.RecentIDs), cfg.HistorySize, strings.Join(st.RecentIDs, ", "))

	matches, _ := filepath.Glob(filepath.Join(cfg.DownloadDir, constants.FileGlob))
	limit := "unlimited"
	if cfg.MaxFiles > 0 {
		limit = humanize.Comma(int64(cfg.MaxFiles))
	}
	fmt.Fprintf(h.out, "Downloads:       %d files in %s (max %s, %d over)\n",
		len(matches), cfg.DownloadDir, limit, len(retention.Excess(cfg.DownloadDir, cfg.MaxFiles)))
	return nil
}
