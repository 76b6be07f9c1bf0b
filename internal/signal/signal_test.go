package signal

import (
	"reflect"
	"testing"
)

func TestSignal(t *testing.T) {
	t.Run("emits in connection order", func(t *testing.T) {
		s := New[int]()
		var got []string
		s.Connect(func(v int) { got = append(got, "a") })
		s.Connect(func(v int) { got = append(got, "b") })
		s.Emit(1)
		if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
			t.Errorf("Emit() order = %v, want %v", got, want)
		}
	})

	t.Run("disconnect", func(t *testing.T) {
		s := New[int]()
		calls := 0
		off := s.Connect(func(int) { calls++ })
		s.Emit(1)
		off()
		off()
		s.Emit(2)
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
		if s.Len() != 0 {
			t.Errorf("Len() = %d, want 0", s.Len())
		}
	})

	t.Run("disconnect during emit", func(t *testing.T) {
		s := New[int]()
		var offB func()
		bCalls := 0
		s.Connect(func(int) { offB() })
		offB = s.Connect(func(int) { bCalls++ })
		s.Emit(1)
		if bCalls != 0 {
			t.Errorf("listener disconnected mid-emit was called %d times", bCalls)
		}
	})

	t.Run("connect during emit", func(t *testing.T) {
		s := New[int]()
		late := 0
		s.Connect(func(int) {
			if late == 0 {
				s.Connect(func(int) { late++ })
			}
		})
		s.Emit(1)
		if late != 0 {
			t.Errorf("listener connected mid-emit was called during the same emit")
		}
		s.Emit(2)
		if late != 1 {
			t.Errorf("late = %d, want 1", late)
		}
	})

	t.Run("nil signal", func(t *testing.T) {
		var s *Signal[string]
		s.Emit("ignored")
	})
}
