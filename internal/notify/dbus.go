package notify

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

const (
	notifyDest      = "org.freedesktop.Notifications"
	notifyPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyInterface = "org.freedesktop.Notifications"
)

// DBusNotifier speaks the org.freedesktop.Notifications protocol over
// the session bus, the same service libnotify wraps.
type DBusNotifier struct {
	conn    *dbus.Conn
	object  dbus.BusObject
	appName string
	log     zerolog.Logger

	mu       sync.Mutex
	onAction func(id uint32, key string)
	onClosed func(id uint32)
}

// NewDBusNotifier connects to the session bus and subscribes to action
// and close signals. Returns an error when no bus is available; callers
// fall back to a LogNotifier.
func NewDBusNotifier(appName string, logger zerolog.Logger) (*DBusNotifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	notifier := &DBusNotifier{
		conn:    conn,
		object:  conn.Object(notifyDest, notifyPath),
		appName: appName,
		log:     logger.With().Str("component", "dbus").Logger(),
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(notifyPath),
		dbus.WithMatchInterface(notifyInterface),
	); err != nil {
		return nil, fmt.Errorf("subscribe notification signals: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)
	go notifier.listen(signals)

	return notifier, nil
}

// SetActionHandler registers the callback invoked when a notification
// action button is pressed.
func (notifier *DBusNotifier) SetActionHandler(onAction func(id uint32, key string)) {
	notifier.mu.Lock()
	notifier.onAction = onAction
	notifier.mu.Unlock()
}

// SetClosedHandler registers the callback invoked when a notification
// is dismissed.
func (notifier *DBusNotifier) SetClosedHandler(onClosed func(id uint32)) {
	notifier.mu.Lock()
	notifier.onClosed = onClosed
	notifier.mu.Unlock()
}

// Notify shows the notification and returns its server-assigned id.
func (notifier *DBusNotifier) Notify(notification Notification) (uint32, error) {
	actions := make([]string, 0, len(notification.Actions)*2)
	for _, action := range notification.Actions {
		actions = append(actions, action.Key, action.Label)
	}

	expire := int32(-1)
	if notification.Sticky {
		expire = 0
	} else if notification.Timeout > 0 {
		expire = int32(notification.Timeout.Milliseconds())
	}

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(1)),
	}

	call := notifier.object.Call(notifyInterface+".Notify", 0,
		notifier.appName,
		uint32(0),
		"appointment-soon",
		notification.Summary,
		notification.Body,
		actions,
		hints,
		expire,
	)
	if call.Err != nil {
		return 0, fmt.Errorf("notify: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify: decode reply: %w", err)
	}
	return id, nil
}

// Close dismisses a previously shown notification.
func (notifier *DBusNotifier) Close(id uint32) error {
	if call := notifier.object.Call(notifyInterface+".CloseNotification", 0, id); call.Err != nil {
		return fmt.Errorf("close notification: %w", call.Err)
	}
	return nil
}

func (notifier *DBusNotifier) listen(signals <-chan *dbus.Signal) {
	for sig := range signals {
		switch sig.Name {
		case notifyInterface + ".ActionInvoked":
			if len(sig.Body) < 2 {
				continue
			}
			id, okID := sig.Body[0].(uint32)
			key, okKey := sig.Body[1].(string)
			if !okID || !okKey {
				continue
			}
			notifier.mu.Lock()
			handler := notifier.onAction
			notifier.mu.Unlock()
			if handler != nil {
				handler(id, key)
			}
		case notifyInterface + ".NotificationClosed":
			if len(sig.Body) < 1 {
				continue
			}
			id, ok := sig.Body[0].(uint32)
			if !ok {
				continue
			}
			notifier.mu.Lock()
			handler := notifier.onClosed
			notifier.mu.Unlock()
			if handler != nil {
				handler(id)
			}
		}
	}
}
