package tray

import (
	"fmt"
	"time"

	"fyne.io/systray"
	"github.com/rs/zerolog"

	"pomodorino/internal/core/model"
)

// Callbacks defines tray action handlers. All are invoked from the
// tray's click goroutine; handlers marshal onto the run loop themselves.
type Callbacks struct {
	OnTogglePause func()
	OnSkip        func()
	OnReset       func()
	OnQuit        func()
}

// Manager handles system tray state. It is a pure downstream observer:
// it renders snapshots and forwards clicks, nothing more.
type Manager struct {
	callbacks Callbacks
	log       zerolog.Logger

	statusItem *systray.MenuItem
	pauseItem  *systray.MenuItem
	skipItem   *systray.MenuItem
	resetItem  *systray.MenuItem
	quitItem   *systray.MenuItem

	paused bool
	status string
}

// New creates a tray manager with the provided callbacks.
func New(callbacks Callbacks, logger zerolog.Logger) *Manager {
	return &Manager{
		callbacks: callbacks,
		log:       logger.With().Str("component", "tray").Logger(),
	}
}

// OnReady builds the menu. Must run inside systray's ready callback.
func (manager *Manager) OnReady() {
	systray.SetIcon(renderIcon(0, model.PhaseActivity, false))
	systray.SetTooltip("Pomodorino")

	manager.statusItem = systray.AddMenuItem("Status: starting...", "")
	manager.statusItem.Disable()
	systray.AddSeparator()
	manager.pauseItem = systray.AddMenuItem("Pause", "Pause or resume the timer")
	manager.skipItem = systray.AddMenuItem("Skip break", "Skip the upcoming break")
	manager.skipItem.Disable()
	manager.resetItem = systray.AddMenuItem("Reset", "Restart the cycle from the first activity")
	systray.AddSeparator()
	manager.quitItem = systray.AddMenuItem("Quit", "")

	go manager.clickLoop()
}

// OnExit runs when the tray shuts down.
func (manager *Manager) OnExit() {
	manager.log.Debug().Msg("tray exited")
}

// SetPaused updates the pause menu label and status suffix.
func (manager *Manager) SetPaused(paused bool) {
	manager.paused = paused
	if manager.pauseItem == nil {
		return
	}
	if paused {
		manager.pauseItem.SetTitle("Resume")
	} else {
		manager.pauseItem.SetTitle("Pause")
	}
	manager.refreshStatus()
}

// SetSkipPending enables the skip item while a skip prompt is open.
func (manager *Manager) SetSkipPending(pending bool) {
	if manager.skipItem == nil {
		return
	}
	if pending {
		manager.skipItem.Enable()
	} else {
		manager.skipItem.Disable()
	}
}

// SetStatus updates the status line.
func (manager *Manager) SetStatus(status string) {
	manager.status = status
	manager.refreshStatus()
}

// Render updates the icon and tooltip for the given progress snapshot.
func (manager *Manager) Render(fraction float64, kind model.PhaseKind, remaining time.Duration) {
	systray.SetIcon(renderIcon(fraction, kind, manager.paused))
	if kind.IsBreak() {
		systray.SetTooltip("Break ends in " + FormatRemaining(remaining))
	} else {
		systray.SetTooltip("Next break in " + FormatRemaining(remaining))
	}
}

func (manager *Manager) refreshStatus() {
	if manager.statusItem == nil {
		return
	}
	status := manager.status
	if manager.paused {
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.SetTitle(fmt.Sprintf("Status: %s", status))
}

func (manager *Manager) clickLoop() {
	for {
		select {
		case <-manager.pauseItem.ClickedCh:
			if manager.callbacks.OnTogglePause != nil {
				manager.callbacks.OnTogglePause()
			}
		case <-manager.skipItem.ClickedCh:
			if manager.callbacks.OnSkip != nil {
				manager.callbacks.OnSkip()
			}
		case <-manager.resetItem.ClickedCh:
			if manager.callbacks.OnReset != nil {
				manager.callbacks.OnReset()
			}
		case <-manager.quitItem.ClickedCh:
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
			return
		}
	}
}

// FormatRemaining renders a duration as mm:ss.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
