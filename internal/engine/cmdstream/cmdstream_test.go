package cmdstream

import (
	"fmt"
	"reflect"
	"testing"
)

// trace builds a stream of n commands that log their index.
func trace(n int, log *[]string) *Stream {
	s := &Stream{}
	for i := 0; i < n; i++ {
		s.Append(func() { *log = append(*log, fmt.Sprintf("cmd%d", i)) })
	}
	return s
}

func hook(log *[]string, name string) func() {
	return func() { *log = append(*log, name) }
}

func TestPlayFiresHooksBeforeCommand(t *testing.T) {
	var log []string
	s := trace(3, &log)

	var h Hooks
	h.Mark(1, "a", hook(&log, "a"))
	h.Mark(3, "end", hook(&log, "end"))

	flushes := 0
	fired := s.Play(&h, func() { flushes++ })

	want := []string{"cmd0", "a", "cmd1", "cmd2", "end"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("order = %v, want %v", log, want)
	}
	if fired != 2 || flushes != 2 {
		t.Errorf("fired = %d, flushes = %d, want 2 and 2", fired, flushes)
	}
}

func TestPlayAllHooksAtSamePosition(t *testing.T) {
	var log []string
	s := trace(2, &log)

	var h Hooks
	h.Mark(1, "first", hook(&log, "first"))
	h.Mark(0, "zero", hook(&log, "zero"))
	h.Mark(1, "second", hook(&log, "second"))

	s.Play(&h, nil)

	want := []string{"zero", "cmd0", "first", "second", "cmd1"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("order = %v, want %v", log, want)
	}
}

func TestPlayEmptyStream(t *testing.T) {
	var log []string
	s := &Stream{}

	var h Hooks
	h.Mark(0, "a", hook(&log, "a"))
	h.Mark(5, "b", hook(&log, "b"))

	if n := s.Play(&h, nil); n != 2 {
		t.Errorf("fired = %d, want 2", n)
	}
	if !reflect.DeepEqual(log, []string{"a", "b"}) {
		t.Errorf("order = %v", log)
	}
}

func TestPlayWithoutHooks(t *testing.T) {
	var log []string
	s := trace(2, &log)
	if n := s.Play(nil, nil); n != 0 {
		t.Errorf("fired = %d, want 0", n)
	}
	if len(log) != 2 {
		t.Errorf("commands run = %d, want 2", len(log))
	}
}

func TestPositionAndReset(t *testing.T) {
	s := &Stream{}
	if s.Position() != 0 {
		t.Errorf("Position() = %d on empty stream", s.Position())
	}
	s.Append(func() {})
	s.Append(nil)
	if s.Position() != 2 || s.Len() != 2 {
		t.Errorf("Position() = %d, Len() = %d, want 2", s.Position(), s.Len())
	}
	s.Play(nil, nil)

	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Len() after Reset = %d", s.Len())
	}

	var h Hooks
	h.Mark(0, "x", nil)
	if h.Len() != 1 || h.All()[0].Name != "x" {
		t.Errorf("All() = %v", h.All())
	}
	h.Reset()
	if h.Len() != 0 {
		t.Errorf("Len() after Reset = %d", h.Len())
	}
}
