// Package signal provides synchronous observer registration.
package signal

// Signal delivers values of type T to its connected listeners. Emit calls
// every listener connected at the time of the call, in connection order,
// before returning. A listener disconnected during an emission is not called
// afterwards; one connected during an emission first hears the next one.
type Signal[T any] struct {
	listeners []*listener[T]
}

type listener[T any] struct {
	fn func(T)
}

// New creates a signal with no listeners.
func New[T any]() *Signal[T] {
	return &Signal[T]{}
}

// Connect registers fn and returns a function that disconnects it. The
// returned function is safe to call more than once.
func (s *Signal[T]) Connect(fn func(T)) func() {
	l := &listener[T]{fn: fn}
	s.listeners = append(s.listeners[:len(s.listeners):len(s.listeners)], l)
	return func() {
		s.disconnect(l)
	}
}

func (s *Signal[T]) disconnect(l *listener[T]) {
	if l.fn == nil {
		return
	}
	l.fn = nil
	kept := make([]*listener[T], 0, len(s.listeners))
	for _, other := range s.listeners {
		if other != l {
			kept = append(kept, other)
		}
	}
	s.listeners = kept
}

// Emit delivers v to the connected listeners.
func (s *Signal[T]) Emit(v T) {
	if s == nil {
		return
	}
	for _, l := range s.listeners {
		if fn := l.fn; fn != nil {
			fn(v)
		}
	}
}

// Len returns the number of connected listeners.
func (s *Signal[T]) Len() int {
	return len(s.listeners)
}

// DisconnectAll removes every listener.
func (s *Signal[T]) DisconnectAll() {
	for _, l := range s.listeners {
		l.fn = nil
	}
	s.listeners = nil
}
