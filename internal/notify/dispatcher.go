package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pomodorino/internal/core/model"
	"pomodorino/internal/core/session"
)

// TaskLoop is the slice of the run loop the dispatcher needs: enqueue
// now, or enqueue later with cancellation.
type TaskLoop interface {
	Do(fn func())
	Schedule(d time.Duration, fn func()) (cancel func())
}

// AudioPlayer plays a jingle file. Fire-and-forget.
type AudioPlayer interface {
	Play(path string) error
}

// ScreenLocker locks the desktop session. Fire-and-forget.
type ScreenLocker interface {
	Lock() error
}

const (
	actionSkip  = "skip"
	actionRest  = "rest"
	actionPause = "pause"
)

// Dispatcher subscribes to timer events and decides which notification
// to request and when. Collaborator failures are logged and swallowed;
// timing correctness never depends on them.
type Dispatcher struct {
	timer    *session.Timer
	loop     TaskLoop
	notifier Notifier
	audio    AudioPlayer
	locker   ScreenLocker
	config   model.Config
	log      zerolog.Logger

	mu            sync.Mutex
	cancelWarning func()
	warnedIndex   uint64
	warned        bool
	warningID     uint32
	warningOpen   bool
	promptID      uint32
	promptOpen    bool
}

// NewDispatcher wires a dispatcher to its collaborators. When the
// notifier supports actions, skip-prompt buttons are routed back into
// the timer through the loop.
func NewDispatcher(timer *session.Timer, loop TaskLoop, notifier Notifier, audio AudioPlayer, locker ScreenLocker, config model.Config, logger zerolog.Logger) *Dispatcher {
	dispatcher := &Dispatcher{
		timer:    timer,
		loop:     loop,
		notifier: notifier,
		audio:    audio,
		locker:   locker,
		config:   config,
		log:      logger.With().Str("component", "dispatcher").Logger(),
	}
	if source, ok := notifier.(ActionSource); ok {
		source.SetActionHandler(dispatcher.handleAction)
		source.SetClosedHandler(dispatcher.handleClosed)
	}
	return dispatcher
}

// Run consumes timer events until the channel closes.
func (dispatcher *Dispatcher) Run(events <-chan session.Event) {
	for event := range events {
		dispatcher.HandleEvent(event)
	}
}

// HandleEvent applies dispatch policy to one timer event.
func (dispatcher *Dispatcher) HandleEvent(event session.Event) {
	switch event.Type {
	case session.EventStateChange:
		dispatcher.onStateChange(event.Session)
	case session.EventPhaseEnded:
		dispatcher.onPhaseEnded(event)
	case session.EventSkipPrompt:
		dispatcher.onSkipPrompt(event.Session)
	}
}

func (dispatcher *Dispatcher) onStateChange(snapshot session.Session) {
	dispatcher.mu.Lock()
	dispatcher.cancelWarningLocked()
	if snapshot.Elapsed == 0 {
		// A fresh phase (startup or reset) gets its warning back even
		// if one already fired for the same index.
		dispatcher.warned = false
	}
	dispatcher.mu.Unlock()

	if snapshot.State == session.StateRunning {
		dispatcher.scheduleWarning(snapshot)
	}
}

func (dispatcher *Dispatcher) onPhaseEnded(event session.Event) {
	dispatcher.closePrompt()

	dispatcher.mu.Lock()
	dispatcher.cancelWarningLocked()
	dispatcher.warned = false
	dispatcher.mu.Unlock()

	dispatcher.announce(event)
	dispatcher.sideEffects(event)
	dispatcher.scheduleWarning(event.Session)
}

func (dispatcher *Dispatcher) onSkipPrompt(snapshot session.Session) {
	dispatcher.mu.Lock()
	dispatcher.cancelWarningLocked()
	dispatcher.mu.Unlock()

	upcoming := snapshot.PhaseIndex + 1
	id, err := dispatcher.notifier.Notify(Notification{
		Kind:    KindSkipPrompt,
		Phase:   snapshot.Phase.Kind,
		Summary: "Break time",
		Body:    "Skip this break or take it now?",
		Actions: []Action{
			{Key: actionSkip, Label: "Skip break"},
			{Key: actionRest, Label: "Take break"},
		},
		Sticky: true,
	})
	if err != nil {
		// The prompt stays resolvable from the tray menu.
		dispatcher.log.Warn().Err(err).Uint64("phase_index", upcoming).Msg("skip prompt failed")
		return
	}

	dispatcher.mu.Lock()
	dispatcher.promptID = id
	dispatcher.promptOpen = true
	dispatcher.mu.Unlock()
}

// scheduleWarning arms the one-shot pre-end warning for the snapshot's
// phase, keyed by phase index so a stale callback is a guaranteed no-op.
// The loop is never called with mu held: a loop that runs tasks
// synchronously would re-enter fireWarning's own lock.
func (dispatcher *Dispatcher) scheduleWarning(snapshot session.Session) {
	lead := dispatcher.config.WarningLead
	if lead <= 0 {
		return
	}

	dispatcher.mu.Lock()
	alreadyWarned := dispatcher.warned && dispatcher.warnedIndex == snapshot.PhaseIndex
	dispatcher.mu.Unlock()
	if alreadyWarned {
		return
	}

	remaining := snapshot.Remaining()
	if remaining <= 0 {
		return
	}

	index := snapshot.PhaseIndex
	fire := func() { dispatcher.fireWarning(index) }
	if remaining <= lead {
		// Phase shorter than the lead: warn right away.
		dispatcher.loop.Do(fire)
		return
	}
	cancel := dispatcher.loop.Schedule(remaining-lead, fire)
	dispatcher.mu.Lock()
	dispatcher.cancelWarning = cancel
	dispatcher.mu.Unlock()
}

// fireWarning runs on the loop goroutine. It re-reads the live session:
// a warning for a phase that already ended, reset, or froze must not
// fire.
func (dispatcher *Dispatcher) fireWarning(index uint64) {
	snapshot := dispatcher.timer.Snapshot()
	if snapshot.PhaseIndex != index || snapshot.State != session.StateRunning {
		return
	}
	remaining := snapshot.Remaining()
	if remaining <= 0 {
		return
	}

	dispatcher.mu.Lock()
	if dispatcher.warned && dispatcher.warnedIndex == index {
		dispatcher.mu.Unlock()
		return
	}
	dispatcher.warned = true
	dispatcher.warnedIndex = index
	dispatcher.mu.Unlock()

	body := fmt.Sprintf("Next break in %d seconds", int(remaining.Seconds()))
	if snapshot.Phase.Kind.IsBreak() {
		body = fmt.Sprintf("Break ends in %d seconds", int(remaining.Seconds()))
	}
	id, err := dispatcher.notifier.Notify(Notification{
		Kind:    KindPreEndWarning,
		Phase:   snapshot.Phase.Kind,
		Summary: "Heads up",
		Body:    body,
		Actions: []Action{
			{Key: actionPause, Label: "Pause"},
		},
		Timeout: remaining,
	})
	if err != nil {
		dispatcher.log.Warn().Err(err).Msg("pre-end warning failed")
		return
	}

	dispatcher.mu.Lock()
	dispatcher.warningID = id
	dispatcher.warningOpen = true
	dispatcher.mu.Unlock()
}

func (dispatcher *Dispatcher) announce(event session.Event) {
	var summary, body string
	switch {
	case event.To.IsBreak():
		summary = "Break time"
		body = "Step away from the desk."
	case event.From.IsBreak():
		summary = "Back to work"
		body = "Break is over."
	default:
		summary = "Break skipped"
		body = "Straight into the next activity."
	}
	dispatcher.send(Notification{
		Kind:    KindPhaseEnded,
		Phase:   event.To,
		Summary: summary,
		Body:    body,
	})
}

func (dispatcher *Dispatcher) sideEffects(event session.Event) {
	if dispatcher.audio != nil && dispatcher.config.AudioPath != "" &&
		(event.To.IsBreak() || event.From.IsBreak()) {
		if err := dispatcher.audio.Play(dispatcher.config.AudioPath); err != nil {
			dispatcher.log.Warn().Err(err).Msg("audio playback failed")
		}
	}
	if dispatcher.locker != nil && dispatcher.config.LockOnBreak && event.To.IsBreak() {
		if err := dispatcher.locker.Lock(); err != nil {
			dispatcher.log.Warn().Err(err).Msg("screen lock failed")
		}
	}
}

func (dispatcher *Dispatcher) send(notification Notification) {
	if _, err := dispatcher.notifier.Notify(notification); err != nil {
		dispatcher.log.Warn().Err(err).Str("kind", string(notification.Kind)).Msg("notification failed")
	}
}

func (dispatcher *Dispatcher) closePrompt() {
	dispatcher.mu.Lock()
	open := dispatcher.promptOpen
	id := dispatcher.promptID
	dispatcher.promptOpen = false
	dispatcher.mu.Unlock()

	if !open {
		return
	}
	if err := dispatcher.notifier.Close(id); err != nil {
		dispatcher.log.Debug().Err(err).Msg("close prompt failed")
	}
}

func (dispatcher *Dispatcher) cancelWarningLocked() {
	if dispatcher.cancelWarning != nil {
		dispatcher.cancelWarning()
		dispatcher.cancelWarning = nil
	}
}

func (dispatcher *Dispatcher) handleAction(id uint32, key string) {
	dispatcher.mu.Lock()
	promptMatch := dispatcher.promptOpen && id == dispatcher.promptID
	warningMatch := dispatcher.warningOpen && id == dispatcher.warningID
	dispatcher.mu.Unlock()

	switch {
	case promptMatch:
		skip := key == actionSkip
		dispatcher.loop.Do(func() {
			if err := dispatcher.timer.ResolveSkip(skip); err != nil {
				dispatcher.log.Debug().Err(err).Msg("skip decision ignored")
			}
		})
	case warningMatch && key == actionPause:
		dispatcher.loop.Do(dispatcher.timer.Pause)
	}
}

// handleClosed treats a dismissed prompt as declining the skip: the
// break proceeds. A dismissed warning just stops tracking its id.
func (dispatcher *Dispatcher) handleClosed(id uint32) {
	dispatcher.mu.Lock()
	if dispatcher.warningOpen && id == dispatcher.warningID {
		dispatcher.warningOpen = false
		dispatcher.mu.Unlock()
		return
	}
	match := dispatcher.promptOpen && id == dispatcher.promptID
	dispatcher.mu.Unlock()
	if !match {
		return
	}

	dispatcher.loop.Do(func() {
		if err := dispatcher.timer.ResolveSkip(false); err != nil {
			dispatcher.log.Debug().Err(err).Msg("skip decision ignored")
		}
	})
}
