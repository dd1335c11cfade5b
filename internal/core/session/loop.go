package session

import (
	"time"

	"github.com/rs/zerolog"
)

// Loop drives the Timer from a single goroutine: a periodic tick, a
// queue of control tasks, and one-shot callbacks all execute there, so
// timer mutations are never interleaved. Within one wake-up, queued
// tasks are always applied before that iteration's tick: control
// requests take priority over time advancement.
type Loop struct {
	timer    *Timer
	interval time.Duration
	tasks    chan func()
	stopCh   chan struct{}
	done     chan struct{}
	log      zerolog.Logger
}

// NewLoop creates a loop ticking at the given cadence. Correctness of
// the timer does not depend on the cadence; it only bounds how quickly
// boundaries and control requests are observed.
func NewLoop(timer *Timer, interval time.Duration, logger zerolog.Logger) *Loop {
	if interval <= 0 {
		interval = time.Second
	}
	return &Loop{
		timer:    timer,
		interval: interval,
		tasks:    make(chan func(), 32),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
		log:      logger.With().Str("component", "loop").Logger(),
	}
}

// Start announces the initial session and launches the loop goroutine.
func (loop *Loop) Start() {
	loop.timer.Start()
	go loop.run()
}

// Stop terminates the loop and waits for it to drain.
func (loop *Loop) Stop() {
	select {
	case <-loop.stopCh:
		return
	default:
	}
	close(loop.stopCh)
	<-loop.done
}

// Do enqueues fn for execution on the loop goroutine. Safe to call from
// any goroutine, including signal-delivery ones. After Stop the task is
// dropped.
func (loop *Loop) Do(fn func()) {
	select {
	case loop.tasks <- fn:
	case <-loop.stopCh:
	}
}

// Schedule runs fn on the loop goroutine after d. The returned cancel
// function stops a pending callback; a callback that already slipped
// past cancellation still runs on the loop, so callers guard with their
// own staleness check.
func (loop *Loop) Schedule(d time.Duration, fn func()) (cancel func()) {
	t := time.AfterFunc(d, func() {
		loop.Do(fn)
	})
	return func() { t.Stop() }
}

func (loop *Loop) run() {
	defer close(loop.done)

	ticker := time.NewTicker(loop.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-loop.stopCh:
			return
		case fn := <-loop.tasks:
			fn()
		case now := <-ticker.C:
			loop.drainTasks()
			delta := now.Sub(last)
			last = now
			loop.timer.Tick(delta)
		}
	}
}

// drainTasks applies every queued control request before the pending
// tick, so a pause or reset delivered "at the same moment" as a phase
// boundary cannot race behind it.
func (loop *Loop) drainTasks() {
	for {
		select {
		case fn := <-loop.tasks:
			fn()
		default:
			return
		}
	}
}
