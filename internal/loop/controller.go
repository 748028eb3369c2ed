// Package loop runs the fetch, select, download, apply, sweep and persist
// cycle and sleeps between cycles.
package loop

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/constants"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/errors"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/interfaces"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/internal/config"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/internal/retention"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/internal/selector"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/internal/state"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/src/wallhaven"
)

// Phase is the controller's position in the cycle.
type Phase string

// Cycle phases
const (
	PhaseIdle        Phase = "idle"
	PhaseFetching    Phase = "fetching"
	PhaseSelecting   Phase = "selecting"
	PhaseDownloading Phase = "downloading"
	PhaseApplying    Phase = "applying"
	PhasePersisting  Phase = "persisting"
	PhaseSleeping    Phase = "sleeping"
	PhaseDone        Phase = "done"
)

// CycleOutcome describes a successful cycle.
type CycleOutcome struct {
	Wallpaper wallhaven.Wallpaper
	ImagePath string
	Removed   []string
	State     state.State
}

// Dependencies are the collaborators of a Controller. Executor and
// Recorder are optional.
type Dependencies struct {
	Fetcher    interfaces.CandidateFetcher
	Downloader interfaces.ImageDownloader
	Setter     interfaces.BackgroundSetter
	Store      interfaces.StateStore
	Executor   interfaces.ScriptExecutor
	Recorder   interfaces.HistoryRecorder
	Selector   *selector.Selector

	// Now and Sleep default to the real clock.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// Controller owns the in-memory state between cycles. It is not safe for
// concurrent use; cycles run strictly one after another.
type Controller struct {
	cfg    *config.Config
	deps   Dependencies
	search *wallhaven.Search
	logger *slog.Logger

	state state.State
	phase Phase
}

// NewController creates a controller starting from the loaded state
func NewController(cfg *config.Config, initial state.State, deps Dependencies, logger *slog.Logger) *Controller {
	if deps.Selector == nil {
		deps.Selector = selector.New()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Sleep == nil {
		deps.Sleep = sleepContext
	}
	return &Controller{
		cfg:    cfg,
		deps:   deps,
		search: searchFromConfig(cfg),
		logger: logger,
		state:  initial,
		phase:  PhaseIdle,
	}
}

func searchFromConfig(cfg *config.Config) *wallhaven.Search {
	return &wallhaven.Search{
		Query:      cfg.Query,
		Categories: cfg.Categories,
		Purities:   cfg.Purity,
		Sorting:    cfg.SortOrder(),
		AtLeast:    cfg.AtLeast,
		Ratios:     cfg.Ratios,
		Page:       constants.DefaultPage,
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// State returns the in-memory state.
func (c *Controller) State() state.State {
	return c.state
}

// Run executes cycles until ctx is cancelled, or exactly one cycle when once
// is set. Cycle failures are logged and never end the loop.
func (c *Controller) Run(ctx context.Context, once bool) error {
	c.logger.Info("Wallhaven wallpaper initialized",
		"interval", c.cfg.PollInterval(),
		"download_dir", c.cfg.DownloadDir,
		"once", once)

	for {
		if outcome, err := c.RunCycle(ctx); err != nil {
			c.logCycleError(err)
		} else {
			c.logger.Info("Wallpaper updated", "path", outcome.ImagePath, "id", outcome.Wallpaper.ID)
		}

		if once {
			c.enter(PhaseDone)
			return nil
		}

		c.enter(PhaseSleeping)
		if err := c.deps.Sleep(ctx, c.cfg.PollInterval()); err != nil {
			c.enter(PhaseDone)
			c.logger.Info("Stopping", "reason", err)
			return nil
		}
	}
}

// RunCycle performs one cycle. Every failure comes back as a
// *errors.CycleError naming the phase; panics are recovered the same way.
func (c *Controller) RunCycle(ctx context.Context) (outcome *CycleOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = nil
			err = errors.NewCycleError(string(c.phase), fmt.Errorf("panic: %v", r))
		}
	}()

	c.enter(PhaseFetching)
	candidates, err := c.deps.Fetcher.Search(ctx, c.search)
	if err != nil {
		return nil, c.fail(err)
	}
	if len(candidates) == 0 {
		return nil, c.fail(errors.ErrNoWallpapersFound)
	}

	c.enter(PhaseSelecting)
	chosen, ok := c.deps.Selector.Select(candidates, c.state.Recent())
	if !ok {
		return nil, c.fail(errors.ErrNoWallpapersFound)
	}
	if chosen.Path == "" {
		return nil, c.fail(fmt.Errorf("%w: id %s", errors.ErrMissingURL, chosen.ID))
	}
	c.logger.Debug("Selected wallpaper", "id", chosen.ID, "candidates", len(candidates), "resolution", chosen.Resolution)

	c.enter(PhaseDownloading)
	imagePath, err := c.deps.Downloader.Download(ctx, chosen.Path, c.cfg.DownloadDir)
	if err != nil {
		return nil, c.fail(err)
	}

	c.enter(PhaseApplying)
	c.apply(ctx, imagePath)
	removed := retention.Sweep(c.cfg.DownloadDir, c.cfg.MaxFiles)
	if len(removed) > 0 {
		c.logger.Debug("Removed old wallpapers", "count", len(removed))
	}

	c.enter(PhasePersisting)
	next := state.UpdateHistory(c.state, chosen.ID, c.cfg.HistorySize)
	next.LastImage = imagePath
	next.SelectedID = chosen.ID
	next.Timestamp = c.deps.Now()
	c.state = next
	if err := c.deps.Store.Save(next); err != nil {
		return nil, c.fail(err)
	}

	if c.deps.Recorder != nil {
		if err := c.deps.Recorder.Record(&chosen, imagePath); err != nil {
			c.logger.Warn("Failed to record wallpaper in catalog", "error", err)
		}
	}

	return &CycleOutcome{
		Wallpaper: chosen,
		ImagePath: imagePath,
		Removed:   removed,
		State:     next,
	}, nil
}

// apply sets the background and runs the hook; neither can fail the cycle.
func (c *Controller) apply(ctx context.Context, imagePath string) {
	if c.deps.Setter != nil {
		if err := c.deps.Setter.SetBackground(ctx, imagePath); err != nil {
			c.logger.Debug("Failed to set background", "error", err)
		}
	}
	if c.deps.Executor != nil && c.cfg.ScriptPath != "" {
		if err := c.deps.Executor.Execute(ctx, c.cfg.ScriptPath, imagePath); err != nil {
			c.logger.Warn("Post-apply script failed", "error", err)
		}
	}
}

func (c *Controller) enter(p Phase) {
	c.phase = p
	c.logger.Debug("Cycle phase", "phase", string(p))
}

func (c *Controller) fail(err error) error {
	return errors.NewCycleError(string(c.phase), err)
}

func (c *Controller) logCycleError(err error) {
	switch {
	case stderrors.Is(err, errors.ErrNoWallpapersFound):
		c.logger.Warn("Could not fetch wallpapers")
	case stderrors.Is(err, errors.ErrMissingURL):
		c.logger.Warn("Wallpaper URL not found", "error", err)
	default:
		var cycleErr *errors.CycleError
		if stderrors.As(err, &cycleErr) {
			c.logger.Error("Cycle failed", "phase", cycleErr.Phase, "error", cycleErr.Err)
			return
		}
		c.logger.Error("Cycle failed", "error", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
