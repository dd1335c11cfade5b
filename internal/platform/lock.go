package platform

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"
)

// ErrLockUnsupported indicates no screen lock command is available.
var ErrLockUnsupported = errors.New("screen locking unsupported")

// ScreenLocker locks the desktop session via the platform lock command.
type ScreenLocker struct {
	log zerolog.Logger
}

// NewScreenLocker creates a locker for the current platform.
func NewScreenLocker(logger zerolog.Logger) *ScreenLocker {
	return &ScreenLocker{log: logger.With().Str("component", "lock").Logger()}
}

// Lock invokes the lock command. Non-zero exit statuses are tolerated:
// xdg-screensaver in particular exits with inane codes even on success.
func (locker *ScreenLocker) Lock() error {
	name, args := lockCommand()
	if name == "" {
		return ErrLockUnsupported
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("lock command: %w", err)
	}

	cmd := exec.Command(path, args...)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			locker.log.Debug().Err(err).Msg("lock command exit status ignored")
			return nil
		}
		return fmt.Errorf("run lock command: %w", err)
	}
	return nil
}
