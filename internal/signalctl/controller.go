// Package signalctl bridges OS process signals to timer control
// operations. Handlers never touch the timer from signal context;
// each request is marshalled onto the run loop's task queue.
package signalctl

import (
	"os"
	"os/signal"

	"github.com/rs/zerolog"
)

// Controller listens for control signals and enqueues the matching
// timer operation.
type Controller struct {
	enqueue func(func())
	bind    map[os.Signal]func()
	sigCh   chan os.Signal
	done    chan struct{}
	log     zerolog.Logger
}

// New creates a controller mapping the platform pause signal to
// togglePause and the platform reset signal to reset.
func New(enqueue func(func()), togglePause, reset func(), logger zerolog.Logger) *Controller {
	controller := &Controller{
		enqueue: enqueue,
		bind:    map[os.Signal]func(){},
		sigCh:   make(chan os.Signal, 4),
		done:    make(chan struct{}),
		log:     logger.With().Str("component", "signals").Logger(),
	}
	if pauseSignal != nil {
		controller.bind[pauseSignal] = togglePause
	}
	if resetSignal != nil {
		controller.bind[resetSignal] = reset
	}
	return controller
}

// Start registers the signal handlers and launches the delivery
// goroutine. On platforms without user signals this is a no-op.
func (controller *Controller) Start() {
	if len(controller.bind) == 0 {
		controller.log.Warn().Msg("control signals unsupported on this platform")
		close(controller.done)
		return
	}

	signals := make([]os.Signal, 0, len(controller.bind))
	for sig := range controller.bind {
		signals = append(signals, sig)
	}
	signal.Notify(controller.sigCh, signals...)
	go controller.run()
}

// Stop unregisters the handlers and terminates delivery.
func (controller *Controller) Stop() {
	signal.Stop(controller.sigCh)
	close(controller.sigCh)
	<-controller.done
}

func (controller *Controller) run() {
	defer close(controller.done)
	for sig := range controller.sigCh {
		controller.apply(sig)
	}
}

// apply enqueues the operation bound to sig. A signal carries no reply
// channel, so unbound ones are simply dropped.
func (controller *Controller) apply(sig os.Signal) {
	operation, ok := controller.bind[sig]
	if !ok {
		controller.log.Debug().Str("signal", sig.String()).Msg("ignoring unbound signal")
		return
	}
	controller.log.Info().Str("signal", sig.String()).Msg("control signal received")
	controller.enqueue(operation)
}
