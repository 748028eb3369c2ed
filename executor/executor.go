// Package executor runs the user's post-apply hook
package executor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/errors"
)

// ScriptExecutor runs a hook script with the applied image as its argument
type ScriptExecutor struct {
	logger *slog.Logger
}

// NewScriptExecutor creates a new script executor
func NewScriptExecutor(logger *slog.Logger) *ScriptExecutor {
	return &ScriptExecutor{logger: logger}
}

// Execute runs scriptPath with imagePath as its only argument. The hook's
// combined output is logged at debug level.
func (s *ScriptExecutor) Execute(ctx context.Context, scriptPath, imagePath string) error {
	if _, err := os.Stat(scriptPath); os.IsNotExist(err) {
		return errors.NewValidationError("script", scriptPath, "file does not exist")
	}

	s.logger.Debug("Running post-apply hook", "script", scriptPath, "image", imagePath)

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, scriptPath, imagePath)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if output := strings.TrimSpace(out.String()); output != "" {
		s.logger.Debug("Hook output", "script", scriptPath, "output", output)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errors.ErrScriptExecution, scriptPath, err)
	}

	s.logger.Info("Post-apply hook finished", "script", scriptPath)
	return nil
}
