// Package msgloop delivers deferred messages to handlers once per frame.
package msgloop

// Message is delivered to a Handler.
type Message interface {
	Type() string
}

// Conflatable is a Message that can absorb a later message of the same
// type posted to the same handler.
type Conflatable interface {
	Message
	// Conflate merges other into the receiver and reports whether it did.
	// When it returns false other is queued separately.
	Conflate(other Message) bool
}

// Handler processes messages.
type Handler interface {
	ProcessMessage(msg Message)
}

// HandlerFunc adapts a function to Handler. Compare handlers by the
// pointer of a value implementing Handler rather than by HandlerFunc,
// which is not comparable.
type HandlerFunc func(msg Message)

func (f HandlerFunc) ProcessMessage(msg Message) { f(msg) }

type posted struct {
	handler Handler
	msg     Message
}

// Loop is a queue of posted messages. It is not safe for concurrent use;
// the host posts and flushes from its UI goroutine.
type Loop struct {
	queue []*posted
	wake  func()
}

// New creates a loop. wake, if not nil, is called when a message is posted
// while no other message is pending so the host can schedule a Flush.
func New(wake func()) *Loop {
	return &Loop{wake: wake}
}

// Send delivers msg immediately.
func (l *Loop) Send(h Handler, msg Message) {
	h.ProcessMessage(msg)
}

// Post queues msg for the next Flush. A Conflatable message is merged into
// a pending message of the same type for the same handler when possible.
func (l *Loop) Post(h Handler, msg Message) {
	if _, ok := msg.(Conflatable); ok {
		for _, p := range l.queue {
			if p.msg == nil || p.handler != h || p.msg.Type() != msg.Type() {
				continue
			}
			if c, ok := p.msg.(Conflatable); ok && c.Conflate(msg) {
				return
			}
		}
	}
	l.queue = append(l.queue, &posted{handler: h, msg: msg})
	// Cleared entries stay in the queue until the next Flush.
	if l.wake != nil && l.Pending(nil) == 1 {
		l.wake()
	}
}

// Flush delivers the messages pending when it is called. Messages posted
// while flushing wait for the next Flush.
func (l *Loop) Flush() {
	n := len(l.queue)
	for i := 0; i < n; i++ {
		p := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		if p.msg != nil {
			p.handler.ProcessMessage(p.msg)
		}
	}
	if len(l.queue) > 0 && l.wake != nil {
		l.wake()
	}
}

// Pending returns the number of queued messages for h, or for every
// handler when h is nil.
func (l *Loop) Pending(h Handler) int {
	n := 0
	for _, p := range l.queue {
		if p.msg != nil && (h == nil || p.handler == h) {
			n++
		}
	}
	return n
}

// Clear drops the pending messages of h.
func (l *Loop) Clear(h Handler) {
	for _, p := range l.queue {
		if p.handler == h {
			p.msg = nil
		}
	}
}
