package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/systray"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pomodorino/internal/core/schedule"
	"pomodorino/internal/core/session"
	"pomodorino/internal/notify"
	"pomodorino/internal/platform"
	"pomodorino/internal/signalctl"
	"pomodorino/internal/storage"
	"pomodorino/internal/ui/tray"
)

const appName = "pomodorino"

func main() {
	Execute()
}

func runApp(cmd *cobra.Command, args []string) error {
	logger := setupLogger(logLevel, logFormat)

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		return fmt.Errorf("another instance is running: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, settingsDir, err := loadSettings(logger)
	if err != nil {
		logger.Warn().Err(err).Msg("settings load incomplete, continuing with defaults")
	}
	if err := settings.Timer.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if settingsDir != "" && !storage.SettingsFileExists(settingsDir) {
		if err := storage.SaveSettingsTo(settingsDir, settings); err != nil {
			logger.Warn().Err(err).Msg("could not write initial settings file")
		}
	}

	applyAutostart(settings.Autostart, logger)

	sched, err := schedule.New(settings.Timer)
	if err != nil {
		return fmt.Errorf("build schedule: %w", err)
	}
	timer := session.New(sched, settings.Timer, logger)
	loop := session.NewLoop(timer, time.Second, logger)

	var notifier notify.Notifier
	if dbusNotifier, err := notify.NewDBusNotifier(appName, logger); err != nil {
		logger.Warn().Err(err).Msg("notification service unavailable, logging notifications instead")
		notifier = notify.NewLogNotifier(logger)
	} else {
		notifier = dbusNotifier
	}

	dispatcher := notify.NewDispatcher(
		timer, loop, notifier,
		platform.NewAudioPlayer(logger),
		platform.NewScreenLocker(logger),
		settings.Timer, logger,
	)

	signals := signalctl.New(loop.Do, timer.TogglePause, timer.Reset, logger)

	trayManager := tray.New(tray.Callbacks{
		OnTogglePause: func() { loop.Do(timer.TogglePause) },
		OnSkip: func() {
			loop.Do(func() {
				if err := timer.ResolveSkip(true); err != nil {
					logger.Debug().Err(err).Msg("skip ignored")
				}
			})
		},
		OnReset: func() { loop.Do(timer.Reset) },
		OnQuit:  systray.Quit,
	}, logger)

	dispatcherEvents := timer.Subscribe(16)
	trayEvents := timer.Subscribe(16)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		systray.Quit()
	}()

	systray.Run(func() {
		trayManager.OnReady()
		go dispatcher.Run(dispatcherEvents)
		go consumeTrayEvents(trayEvents, trayManager)
		loop.Start()
		signals.Start()
		logger.Info().Msg("pomodorino started")
	}, func() {
		signals.Stop()
		loop.Stop()
		timer.Close()
		logger.Info().Msg("pomodorino stopped")
	})
	return nil
}

func loadSettings(logger zerolog.Logger) (storage.Settings, string, error) {
	if configDir != "" {
		settings, err := storage.LoadSettingsFrom(configDir)
		return settings, configDir, err
	}
	dir, err := storage.ConfigDir(appName)
	if err != nil {
		return storage.DefaultSettings(), "", err
	}
	settings, err := storage.LoadSettingsFrom(dir)
	return settings, dir, err
}

func applyAutostart(enabled bool, logger zerolog.Logger) {
	service := platform.NewService()
	execPath, err := os.Executable()
	if err != nil {
		logger.Warn().Err(err).Msg("cannot resolve executable path for autostart")
		return
	}
	if enabled {
		err = service.EnableAutostart(appName, execPath)
	} else {
		err = service.DisableAutostart(appName)
	}
	if err != nil {
		logger.Warn().Err(err).Bool("enabled", enabled).Msg("autostart update failed")
	}
}

func consumeTrayEvents(events <-chan session.Event, manager *tray.Manager) {
	for event := range events {
		snapshot := event.Session
		switch event.Type {
		case session.EventProgress:
			manager.Render(event.Fraction, snapshot.Phase.Kind, snapshot.Remaining())
			manager.SetStatus(statusLine(snapshot))
		case session.EventSkipPrompt:
			manager.SetSkipPending(true)
			manager.SetStatus("waiting for skip decision")
		case session.EventPhaseEnded:
			manager.SetSkipPending(false)
			manager.SetPaused(false)
			manager.Render(0, snapshot.Phase.Kind, snapshot.Remaining())
			manager.SetStatus(statusLine(snapshot))
		case session.EventStateChange:
			manager.SetPaused(snapshot.State == session.StatePaused)
			manager.Render(fractionOf(snapshot), snapshot.Phase.Kind, snapshot.Remaining())
			manager.SetStatus(statusLine(snapshot))
		}
	}
}

func statusLine(snapshot session.Session) string {
	if snapshot.Phase.Kind.IsBreak() {
		return "break ends in " + tray.FormatRemaining(snapshot.Remaining())
	}
	return "next break in " + tray.FormatRemaining(snapshot.Remaining())
}

func fractionOf(snapshot session.Session) float64 {
	if snapshot.Phase.Duration <= 0 {
		return 0
	}
	return float64(snapshot.Elapsed) / float64(snapshot.Phase.Duration)
}

// setupLogger configures the logger based on flags.
func setupLogger(level, format string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "info":
		lvl = zerolog.InfoLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if format == "json" {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
