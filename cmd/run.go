package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/constants"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/desktop"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/executor"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/interfaces"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/internal/config"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/internal/loop"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/internal/state"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/src/wallhaven"
)

// RunHandler runs the wallpaper loop
type RunHandler struct {
	env
	// swapped in tests
	newClient func(cfg *config.Config, logger *slog.Logger) *wallhaven.Client
	newSetter func(logger *slog.Logger) interfaces.BackgroundSetter
}

// NewRunHandler creates a new run handler
func NewRunHandler(logger *slog.Logger, level *slog.LevelVar) *RunHandler {
	return &RunHandler{
		env: newEnv(logger, level),
		newClient: func(cfg *config.Config, logger *slog.Logger) *wallhaven.Client {
			return wallhaven.NewClient(cfg.APIKey, logger)
		},
		newSetter: desktop.New,
	}
}

// Handle loads the configuration and state, then runs cycles until the
// context is cancelled or a single cycle when --once or --skip is set.
func (h *RunHandler) Handle(ctx context.Context, c *cli.Command) error {
	cfg, err := h.loadConfig(c, true)
	if err != nil {
		return err
	}
	once := c.Bool("once") || c.Bool("skip")

	if err := os.MkdirAll(cfg.DownloadDir, constants.DirPermissions); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}

	store := state.NewStore(cfg.StateFile)
	initial, err := store.Load()
	if err != nil {
		return err
	}
	h.logger.Debug("State loaded", "path", store.Path(), "recent", len(initial.RecentIDs))

	client := h.newClient(cfg, h.logger)
	deps := loop.Dependencies{
		Fetcher:    client,
		Downloader: client,
		Setter:     h.newSetter(h.logger),
		Store:      store,
	}

	if cfg.ScriptPath != "" {
		deps.Executor = executor.NewScriptExecutor(h.logger)
	}

	if cfg.CatalogEnabled() {
		catalog, err := wallhaven.OpenCatalog(cfg.CatalogPath, h.logger)
		if err != nil {
			return err
		}
		defer catalog.Close()
		deps.Recorder = catalog
	}

	return loop.NewController(cfg, initial, deps, h.logger).Run(ctx, once)
}

// GetFlags returns the CLI flags for the run command
func (h *RunHandler) GetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "once",
			Usage: "Run exactly one cycle and exit",
		},
		&cli.BoolFlag{
			Name:  "skip",
			Usage: "Replace the current wallpaper once and exit",
		},
	}
}
