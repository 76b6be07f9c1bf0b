package msgloop

import (
	"reflect"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

type recorder struct {
	got  []string
	loop *Loop
	echo bool
}

func (r *recorder) ProcessMessage(msg Message) {
	r.got = append(r.got, msg.Type())
	if r.echo && msg.Type() == "first" {
		r.loop.Post(r, plain("echo"))
	}
}

type plain string

func (p plain) Type() string { return string(p) }

type sum struct {
	total int
}

func (s *sum) Type() string { return "sum" }

func (s *sum) Conflate(other Message) bool {
	o, ok := other.(*sum)
	if !ok || o.total < 0 {
		return false
	}
	s.total += o.total
	return true
}

func TestPostAndFlush(t *testing.T) {
	wakes := 0
	l := New(func() { wakes++ })
	r := &recorder{loop: l, echo: true}

	l.Post(r, plain("first"))
	l.Post(r, plain("second"))
	if wakes != 1 {
		t.Errorf("wakes = %d, want 1", wakes)
	}
	if len(r.got) != 0 {
		t.Fatalf("delivered before Flush: %v", r.got)
	}

	l.Flush()
	if want := []string{"first", "second"}; !reflect.DeepEqual(r.got, want) {
		t.Errorf("delivered = %v, want %v", r.got, want)
	}
	if l.Pending(r) != 1 || wakes != 2 {
		t.Errorf("Pending() = %d, wakes = %d, want 1, 2", l.Pending(r), wakes)
	}

	l.Flush()
	if want := []string{"first", "second", "echo"}; !reflect.DeepEqual(r.got, want) {
		t.Errorf("delivered = %v, want %v", r.got, want)
	}
}

func TestPostConflates(t *testing.T) {
	l := New(nil)
	var totals []int
	h := &funcHandler{fn: func(msg Message) { totals = append(totals, msg.(*sum).total) }}
	other := &funcHandler{fn: func(Message) {}}

	l.Post(h, &sum{total: 1})
	l.Post(h, &sum{total: 2})
	l.Post(other, &sum{total: 4})
	l.Post(h, &sum{total: -1})
	if got := l.Pending(nil); got != 3 {
		t.Errorf("Pending(nil) = %d, want 3", got)
	}

	l.Flush()
	if want := []int{3, -1}; !reflect.DeepEqual(totals, want) {
		t.Errorf("totals = %v, want %v", totals, want)
	}
}

func TestClear(t *testing.T) {
	l := New(nil)
	a := &recorder{}
	b := &recorder{}
	l.Post(a, plain("x"))
	l.Post(b, plain("y"))
	l.Clear(a)
	l.Flush()
	if len(a.got) != 0 || len(b.got) != 1 {
		t.Errorf("a got %v, b got %v, want none and one", a.got, b.got)
	}
}

func TestPostAfterClearWakes(t *testing.T) {
	wakes := 0
	l := New(func() { wakes++ })
	a := &recorder{}
	b := &recorder{}

	l.Post(a, plain("x"))
	l.Clear(a)
	l.Post(b, plain("y"))
	if wakes != 2 {
		t.Errorf("wakes = %d, want 2", wakes)
	}
	if got := l.Pending(nil); got != 1 {
		t.Errorf("Pending(nil) = %d, want 1", got)
	}

	l.Flush()
	if len(a.got) != 0 || len(b.got) != 1 {
		t.Errorf("a got %v, b got %v, want none and one", a.got, b.got)
	}
}

func TestSend(t *testing.T) {
	l := New(nil)
	r := &recorder{}
	l.Send(r, plain("now"))
	if len(r.got) != 1 {
		t.Errorf("Send delivered %d messages, want 1", len(r.got))
	}
}

type funcHandler struct {
	fn func(Message)
}

func (h *funcHandler) ProcessMessage(msg Message) { h.fn(msg) }

func TestMockClock(t *testing.T) {
	c := NewMockClock()
	start := c.Now()
	var fired []string

	c.AfterFunc(30*time.Millisecond, func() { fired = append(fired, "b") })
	c.AfterFunc(10*time.Millisecond, func() {
		fired = append(fired, "a")
		c.AfterFunc(5*time.Millisecond, func() { fired = append(fired, "a2") })
	})
	c.AfterFunc(10*time.Millisecond, func() { fired = append(fired, "a3") })
	stopped := c.AfterFunc(20*time.Millisecond, func() { fired = append(fired, "never") })
	if !stopped.Stop() {
		t.Error("Stop() = false, want true")
	}
	if stopped.Stop() {
		t.Error("second Stop() = true, want false")
	}

	c.Add(20 * time.Millisecond)
	if want := []string{"a", "a3", "a2"}; !reflect.DeepEqual(fired, want) {
		t.Errorf("fired = %v, want %v", fired, want)
	}
	if got := c.Now().Sub(start); got != 20*time.Millisecond {
		t.Errorf("Now() - start = %v, want 20ms", got)
	}

	c.Add(10 * time.Millisecond)
	if want := []string{"a", "a3", "a2", "b"}; !reflect.DeepEqual(fired, want) {
		t.Errorf("fired = %v, want %v", fired, want)
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", c.Pending())
	}
}

func TestWallClockDispatch(t *testing.T) {
	queued := make(chan func(), 1)
	c := NewClock(clock.New(), func(fn func()) { queued <- fn })

	ran := false
	c.AfterFunc(time.Millisecond, func() { ran = true })
	fn := <-queued
	fn()
	if !ran {
		t.Error("callback did not run")
	}

	stopped := c.AfterFunc(time.Millisecond, func() { t.Error("stopped callback ran") })
	if !stopped.Stop() {
		t.Error("Stop() = false, want true")
	}
	select {
	case fn := <-queued:
		fn()
	case <-time.After(20 * time.Millisecond):
	}
}
