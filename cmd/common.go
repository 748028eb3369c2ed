// Package cmd provides command handlers for the CLI
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/constants"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/internal/config"
)

// ConfigFlags returns the flags shared by every command. urfave/cli passes
// them down to subcommands.
func ConfigFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      "config",
			Aliases:   []string{"c"},
			Value:     constants.DefaultConfigPath,
			TakesFile: true,
			Usage:     "Path to the YAML config file",
		},
	}
}

// env holds what every handler needs besides its own collaborators.
type env struct {
	logger *slog.Logger
	level  *slog.LevelVar
	out    io.Writer
}

func newEnv(logger *slog.Logger, level *slog.LevelVar) env {
	if level == nil {
		level = new(slog.LevelVar)
	}
	return env{logger: logger, level: level, out: os.Stdout}
}

// loadConfig reads the config named by --config and applies its log level.
// The API key is only required when withKey is set.
func (e env) loadConfig(c *cli.Command, withKey bool) (*config.Config, error) {
	load := config.LoadFile
	if withKey {
		load = config.Load
	}

	cfg, err := load(c.String("config"))
	if err != nil {
		return nil, err
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	e.level.Set(lvl)
	e.logger.Debug("Configuration loaded", "path", cfg.ConfigPath, "state", cfg.StateFile)
	return cfg, nil
}

func joinValidValues(values []string) string {
	return strings.Join(values, ", ")
}
