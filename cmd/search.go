package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/constants"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/errors"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/internal/config"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/internal/state"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/src/wallhaven"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/validator"
)

// SearchHandler previews the candidates the next cycle would choose from,
// without downloading anything.
type SearchHandler struct {
	env
	validator *validator.Validator
	newClient func(cfg *config.Config, logger *slog.Logger) *wallhaven.Client
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(logger *slog.Logger, level *slog.LevelVar) *SearchHandler {
	return &SearchHandler{
		env:       newEnv(logger, level),
		validator: validator.NewValidator(),
		newClient: func(cfg *config.Config, logger *slog.Logger) *wallhaven.Client {
			return wallhaven.NewClient(cfg.APIKey, logger)
		},
	}
}

// Handle processes the search command
func (h *SearchHandler) Handle(ctx context.Context, c *cli.Command) error {
	cfg, err := h.loadConfig(c, true)
	if err != nil {
		return err
	}

	search := &wallhaven.Search{
		Query:      cfg.Query,
		Categories: cfg.Categories,
		Purities:   cfg.Purity,
		Sorting:    cfg.SortOrder(),
		AtLeast:    cfg.AtLeast,
		Ratios:     cfg.Ratios,
		Page:       constants.DefaultPage,
	}
	if q := c.Args().First(); q != "" {
		search.Query = q
	}
	if c.IsSet("sort") {
		if err := h.validator.ValidateSort(c.String("sort")); err != nil {
			return err
		}
		search.Sorting = c.String("sort")
	}

	results, err := h.newClient(cfg, h.logger).Search(ctx, search)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return errors.ErrNoWallpapersFound
	}

	st, err := state.NewStore(cfg.StateFile).Load()
	if err != nil {
		h.logger.Warn("Failed to load state", "error", err)
	}
	recent := st.Recent()

	fresh := 0
	fmt.Fprintf(h.out, "\nCandidates for %q (sorting: %s)\n", search.Query, search.Sorting)
	fmt.Fprintln(h.out, strings.Repeat("=", 80))
	for i, wp := range results {
		marker := ""
		if _, seen := recent[wp.ID]; seen {
			marker = "  [recent]"
		} else {
			fresh++
		}
		fmt.Fprintf(h.out, "%2d. %s  %-10s %8s%s\n", i+1, wp.ID, wp.Resolution, humanize.Bytes(uint64(wp.FileSize)), marker)
	}
	fmt.Fprintf(h.out, "\n%d of %d candidates are eligible\n", fresh, len(results))
	return nil
}

// GetFlags returns the CLI flags for the search command
func (h *SearchHandler) GetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "sort",
			Usage: "Override sorting: " + joinValidValues(constants.ValidSorts),
		},
	}
}
