package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/cmd"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/constants"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newApp(logger, level).Run(ctx, os.Args)
	stop()
	if err != nil {
		logger.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func newApp(logger *slog.Logger, level *slog.LevelVar) *cli.Command {
	run := cmd.NewRunHandler(logger, level)
	history := cmd.NewHistoryHandler(logger, level)
	status := cmd.NewStatusHandler(logger, level)
	cleanup := cmd.NewCleanupHandler(logger, level)
	search := cmd.NewSearchHandler(logger, level)

	return &cli.Command{
		Name:    constants.AppName,
		Usage:   "Periodically fetch a wallhaven wallpaper and set it as the desktop background",
		Version: constants.AppVersion,
		Flags:   append(cmd.ConfigFlags(), run.GetFlags()...),
		Action:  run.Handle,
		Commands: []*cli.Command{
			{
				Name:   "history",
				Usage:  "List wallpapers recorded in the catalog",
				Flags:  history.GetFlags(),
				Action: history.Handle,
			},
			{
				Name:   "status",
				Usage:  "Show the current wallpaper and recent history",
				Action: status.Handle,
			},
			{
				Name:   "cleanup",
				Usage:  "Remove the oldest downloaded wallpapers",
				Flags:  cleanup.GetFlags(),
				Action: cleanup.Handle,
			},
			{
				Name:      "search",
				Usage:     "Preview the candidates the next cycle would choose from",
				ArgsUsage: "[query]",
				Flags:     search.GetFlags(),
				Action:    search.Handle,
			},
		},
	}
}
