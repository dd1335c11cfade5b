//go:build !windows

package signalctl

import (
	"os"
	"syscall"
)

// SIGUSR1 toggles pause, SIGUSR2 resets the cycle.
var (
	pauseSignal os.Signal = syscall.SIGUSR1
	resetSignal os.Signal = syscall.SIGUSR2
)
