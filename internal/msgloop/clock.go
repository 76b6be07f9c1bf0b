package msgloop

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// Timer is a pending callback.
type Timer interface {
	// Stop prevents the callback from running and reports whether it was
	// still pending.
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// NewClock returns a Clock over c whose callbacks run through dispatch,
// which hands them to the UI goroutine.
func NewClock(c clock.Clock, dispatch func(func())) Clock {
	return &dispatchClock{clock: c, dispatch: dispatch}
}

type dispatchClock struct {
	clock    clock.Clock
	dispatch func(func())
}

func (c *dispatchClock) Now() time.Time { return c.clock.Now() }

func (c *dispatchClock) AfterFunc(d time.Duration, fn func()) Timer {
	t := &dispatchTimer{}
	t.timer = c.clock.AfterFunc(d, func() {
		c.dispatch(func() {
			if t.done.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

// dispatchTimer is done once its callback ran or it was stopped. A callback
// already handed to dispatch checks done before running.
type dispatchTimer struct {
	timer *clock.Timer
	done  atomic.Bool
}

func (t *dispatchTimer) Stop() bool {
	t.timer.Stop()
	return t.done.CompareAndSwap(false, true)
}

// MockClock is a Clock driven by a clock.Mock. Callbacks run on the
// goroutine calling Add, in deadline order.
type MockClock struct {
	mock  *clock.Mock
	seq   int
	live  []*mockTimer
	fired chan *mockTimer
}

// NewMockClock returns a clock reading the Unix epoch.
func NewMockClock() *MockClock {
	return &MockClock{mock: clock.NewMock(), fired: make(chan *mockTimer, 16)}
}

type mockTimer struct {
	clock *MockClock
	timer *clock.Timer
	at    time.Time
	seq   int
	fn    func()
}

func (t *mockTimer) Stop() bool {
	t.timer.Stop()
	return t.clock.remove(t)
}

func (c *MockClock) Now() time.Time { return c.mock.Now() }

func (c *MockClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.seq++
	t := &mockTimer{clock: c, at: c.mock.Now().Add(d), seq: c.seq, fn: fn}
	t.timer = c.mock.AfterFunc(d, func() { c.fired <- t })
	c.live = append(c.live, t)
	return t
}

// Pending returns the number of scheduled callbacks.
func (c *MockClock) Pending() int { return len(c.live) }

// Add moves the clock forward by d. The mock is stepped from deadline to
// deadline so that callbacks scheduled while advancing run if they fall
// due.
func (c *MockClock) Add(d time.Duration) {
	end := c.mock.Now().Add(d)
	for {
		next, ok := c.nextDeadline()
		if !ok || next.After(end) {
			break
		}
		due := c.takeDue(next)
		c.mock.Add(next.Sub(c.mock.Now()))
		fired := make([]*mockTimer, 0, due)
		for range due {
			fired = append(fired, <-c.fired)
		}
		sortTimers(fired)
		for _, t := range fired {
			t.fn()
		}
	}
	c.mock.Add(end.Sub(c.mock.Now()))
}

func (c *MockClock) nextDeadline() (time.Time, bool) {
	if len(c.live) == 0 {
		return time.Time{}, false
	}
	next := c.live[0].at
	for _, t := range c.live[1:] {
		if t.at.Before(next) {
			next = t.at
		}
	}
	return next, true
}

// takeDue drops the timers falling due by at from the live set and returns
// how many there were.
func (c *MockClock) takeDue(at time.Time) int {
	n := 0
	live := c.live[:0]
	for _, t := range c.live {
		if t.at.After(at) {
			live = append(live, t)
		} else {
			n++
		}
	}
	clear(c.live[len(live):])
	c.live = live
	return n
}

func (c *MockClock) remove(t *mockTimer) bool {
	for i, x := range c.live {
		if x == t {
			c.live = append(c.live[:i], c.live[i+1:]...)
			return true
		}
	}
	return false
}

func sortTimers(timers []*mockTimer) {
	sort.Slice(timers, func(i, j int) bool {
		if timers[i].at.Equal(timers[j].at) {
			return timers[i].seq < timers[j].seq
		}
		return timers[i].at.Before(timers[j].at)
	})
}
