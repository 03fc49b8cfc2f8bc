package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

func newFakeClock() *testingclock.FakeClock {
	return testingclock.NewFakeClock(time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC))
}

func hidden(n *Notifier) func() bool {
	return func() bool {
		_, visible := n.Current()
		return !visible
	}
}

func TestMessageHiddenAfterFiveSecondsAndNotBefore(t *testing.T) {
	clk := newFakeClock()
	n := New(WithClock(clk))

	shown := n.Show("Signed up a@b.c for Chess Club", Success)

	clk.Step(4999 * time.Millisecond)
	msg, visible := n.Current()
	assert.True(t, visible, "still visible just before 5s")
	assert.Equal(t, shown, msg)
	assert.True(t, clk.HasWaiters())

	clk.Step(time.Millisecond)
	require.Eventually(t, hidden(n), time.Second, time.Millisecond, "hidden at 5s")
	msg, _ = n.Current()
	assert.Equal(t, "Signed up a@b.c for Chess Club", msg.Text, "last message is still readable")
}

func TestNewerMessageCancelsOlderTimer(t *testing.T) {
	clk := newFakeClock()
	n := New(WithClock(clk))

	n.Show("first", Success)
	clk.Step(3 * time.Second)
	second := n.Show("second", Error)

	clk.Step(2 * time.Second) // first message's deadline
	assert.Never(t, hidden(n), 50*time.Millisecond, 5*time.Millisecond)
	msg, _ := n.Current()
	assert.Equal(t, second, msg)

	clk.Step(3 * time.Second)
	require.Eventually(t, hidden(n), time.Second, time.Millisecond)
	assert.False(t, clk.HasWaiters())
}

func TestStaleTimerIsIgnored(t *testing.T) {
	n := New(WithClock(newFakeClock()))
	n.Show("first", Info)
	second := n.Show("second", Info)

	// A timer that fired before Stop could cancel it.
	n.expire(second.ID - 1)

	msg, visible := n.Current()
	assert.True(t, visible)
	assert.Equal(t, "second", msg.Text)
}

func TestOnChange(t *testing.T) {
	clk := newFakeClock()
	n := New(WithClock(clk))

	type event struct {
		text    string
		visible bool
	}
	var (
		mu     sync.Mutex
		events []event
	)
	n.OnChange(func(m Message, visible bool) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, event{m.Text, visible})
	})

	n.Show("hello", Info)
	clk.Step(DefaultDismissAfter)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 2
	}, time.Second, time.Millisecond)
	assert.Equal(t, []event{{"hello", true}, {"hello", false}}, events)
}

func TestHideAndClose(t *testing.T) {
	clk := newFakeClock()
	n := New(WithClock(clk))

	n.Show("bye", Error)
	n.Hide()
	_, visible := n.Current()
	assert.False(t, visible)
	assert.False(t, clk.HasWaiters(), "hide stops the timer")

	n.Show("again", Error)
	n.Close()
	assert.False(t, clk.HasWaiters(), "close stops the timer")
}

func TestDismissDisabled(t *testing.T) {
	clk := newFakeClock()
	n := New(WithClock(clk), WithDismissAfter(0))

	n.Show("sticky", Info)
	assert.False(t, clk.HasWaiters())
	clk.Step(time.Hour)
	_, visible := n.Current()
	assert.True(t, visible)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "info", Info.String())
}

func TestRealClock(t *testing.T) {
	n := New(WithDismissAfter(10 * time.Millisecond))
	var wg sync.WaitGroup
	wg.Add(1)
	n.OnChange(func(_ Message, visible bool) {
		if !visible {
			wg.Done()
		}
	})
	n.Show("quick", Info)
	wg.Wait()

	_, visible := n.Current()
	require.False(t, visible)
}
