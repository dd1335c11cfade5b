//go:build windows

package signalctl

import "os"

// Windows has no user signals; remote control is unavailable there.
var (
	pauseSignal os.Signal
	resetSignal os.Signal
)
