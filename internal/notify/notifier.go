// Package notify turns timer events into desktop notifications, with
// timing policy (pre-end warnings, skip prompts) layered on top of raw
// phase boundaries.
package notify

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"pomodorino/internal/core/model"
)

// Kind classifies an outbound notification.
type Kind string

const (
	KindPreEndWarning Kind = "pre_end_warning"
	KindPhaseEnded    Kind = "phase_ended"
	KindSkipPrompt    Kind = "skip_prompt"
)

// Action is a button on a notification.
type Action struct {
	Key   string
	Label string
}

// Notification is the payload handed to the external notification
// collaborator. Ephemeral; never retained.
type Notification struct {
	Kind    Kind
	Phase   model.PhaseKind
	Summary string
	Body    string
	Actions []Action

	// Timeout is the display duration. Zero means the server default;
	// Sticky keeps the notification until explicitly closed.
	Timeout time.Duration
	Sticky  bool
}

// Notifier is the outbound notification collaborator. Calls are
// fire-and-forget from the dispatcher's point of view: errors are
// logged and swallowed, never fed back into the timer.
type Notifier interface {
	Notify(notification Notification) (uint32, error)
	Close(id uint32) error
}

// ActionSource is implemented by notifiers whose notifications can
// carry interactive actions.
type ActionSource interface {
	SetActionHandler(onAction func(id uint32, key string))
	SetClosedHandler(onClosed func(id uint32))
}

// LogNotifier is the fallback when no notification service is
// reachable: it records what would have been shown and nothing else.
type LogNotifier struct {
	log    zerolog.Logger
	nextID atomic.Uint32
}

// NewLogNotifier creates a logging-only notifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: logger.With().Str("component", "notify").Logger()}
}

// Notify logs the notification and returns a synthetic id.
func (notifier *LogNotifier) Notify(notification Notification) (uint32, error) {
	notifier.log.Info().
		Str("kind", string(notification.Kind)).
		Str("summary", notification.Summary).
		Str("body", notification.Body).
		Msg("notification")
	return notifier.nextID.Add(1), nil
}

// Close is a no-op.
func (notifier *LogNotifier) Close(uint32) error {
	return nil
}
