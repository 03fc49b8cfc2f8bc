// Package notify implements the single transient message line shared by
// signup, unregister and login feedback.
package notify

import (
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// DefaultDismissAfter is how long a message stays visible.
const DefaultDismissAfter = 5 * time.Second

// Kind selects the styling of a message.
type Kind int

const (
	Info Kind = iota
	Success
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Message is one shown notification. ID increases with every Show.
type Message struct {
	ID   uint64
	Text string
	Kind Kind
}

// Notifier holds at most one visible message. A newer message supersedes the
// older one and cancels its dismiss timer.
type Notifier struct {
	clk          clock.WithDelayedExecution
	dismissAfter time.Duration

	mu       sync.Mutex
	seq      uint64
	current  Message
	visible  bool
	timer    clock.Timer
	onChange func(Message, bool)
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithClock replaces the real clock, typically with a
// k8s.io/utils/clock/testing.FakeClock.
func WithClock(c clock.WithDelayedExecution) Option {
	return func(n *Notifier) { n.clk = c }
}

// WithDismissAfter overrides DefaultDismissAfter. Zero or negative disables
// auto-dismiss.
func WithDismissAfter(d time.Duration) Option {
	return func(n *Notifier) { n.dismissAfter = d }
}

// New returns a Notifier with nothing shown.
func New(opts ...Option) *Notifier {
	n := &Notifier{clk: clock.RealClock{}, dismissAfter: DefaultDismissAfter}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// OnChange registers fn to run whenever a message is shown or hidden. It
// runs outside the Notifier's lock, on the goroutine that caused the change
// (the timer's goroutine for auto-dismiss).
func (n *Notifier) OnChange(fn func(msg Message, visible bool)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onChange = fn
}

// Show makes text the visible message and schedules its dismissal.
func (n *Notifier) Show(text string, kind Kind) Message {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.seq++
	msg := Message{ID: n.seq, Text: text, Kind: kind}
	n.current = msg
	n.visible = true
	if n.dismissAfter > 0 {
		id := msg.ID
		n.timer = n.clk.AfterFunc(n.dismissAfter, func() { n.expire(id) })
	}
	fn := n.onChange
	n.mu.Unlock()

	if fn != nil {
		fn(msg, true)
	}
	return msg
}

// expire hides message id if it is still the current one. A timer whose Stop
// lost the race against firing lands here with a stale id and does nothing.
func (n *Notifier) expire(id uint64) {
	n.mu.Lock()
	if !n.visible || n.current.ID != id {
		n.mu.Unlock()
		return
	}
	n.visible = false
	n.timer = nil
	msg, fn := n.current, n.onChange
	n.mu.Unlock()

	if fn != nil {
		fn(msg, false)
	}
}

// Hide dismisses the current message immediately.
func (n *Notifier) Hide() {
	n.mu.Lock()
	id := n.current.ID
	if n.timer != nil {
		n.timer.Stop()
	}
	n.mu.Unlock()
	n.expire(id)
}

// Current returns the last shown message and whether it is still visible.
func (n *Notifier) Current() (Message, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.visible
}

// Close cancels any pending dismissal.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
