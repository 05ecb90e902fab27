package asset

import (
	"sync"
	"time"
)

// DefaultQuiescence is the registration-update debounce window.
const DefaultQuiescence = time.Second

// UpdateNotifier coalesces bursts of topology-changing events into one
// outward "registration changed" notification. Each Kick restarts a
// single-shot timer; the sink fires once when the window elapses with no
// further kicks. The timer callback runs on its own goroutine and calls
// nothing but the sink, so the notifier guards only its own state.
type UpdateNotifier struct {
	mu     sync.Mutex
	window time.Duration
	sink   func()
	timer  *time.Timer
}

// NewUpdateNotifier builds a notifier. A non-positive window selects
// DefaultQuiescence; a nil sink makes Kick a no-op until SetSink.
func NewUpdateNotifier(window time.Duration, sink func()) *UpdateNotifier {
	if window <= 0 {
		window = DefaultQuiescence
	}
	return &UpdateNotifier{window: window, sink: sink}
}

// SetSink installs or replaces the notification callback.
func (n *UpdateNotifier) SetSink(sink func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sink = sink
}

// Kick restarts the quiescence window.
func (n *UpdateNotifier) Kick() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sink == nil {
		return
	}
	if n.timer == nil {
		n.timer = time.AfterFunc(n.window, n.fire)
		return
	}
	n.timer.Reset(n.window)
}

func (n *UpdateNotifier) fire() {
	n.mu.Lock()
	sink := n.sink
	n.mu.Unlock()
	if sink != nil {
		sink()
	}
}

// Stop cancels any pending notification.
func (n *UpdateNotifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
