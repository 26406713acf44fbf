// Package cmdstream records a frame's graphics commands and replays them,
// firing hooks at recorded positions along the way.
package cmdstream

import "sort"

// Command is one recorded graphics command.
type Command func()

// Stream is an append-only command list for a single frame.
type Stream struct {
	cmds []Command
}

// Append records a command.
func (s *Stream) Append(c Command) {
	s.cmds = append(s.cmds, c)
}

// Position returns the index the next appended command will get.
func (s *Stream) Position() int {
	return len(s.cmds)
}

// Len returns the number of recorded commands.
func (s *Stream) Len() int {
	return len(s.cmds)
}

// Reset empties the stream, keeping its storage.
func (s *Stream) Reset() {
	clear(s.cmds)
	s.cmds = s.cmds[:0]
}

// Hook is a callback pinned to a stream position.
type Hook struct {
	At   int
	Name string
	Fn   func()
}

// Hooks is the per-frame list of pinned callbacks.
type Hooks struct {
	list []Hook
}

// Mark pins fn to run just before the command at position at.
func (h *Hooks) Mark(at int, name string, fn func()) {
	h.list = append(h.list, Hook{At: at, Name: name, Fn: fn})
}

// All returns the hooks in registration order.
func (h *Hooks) All() []Hook {
	return h.list
}

// Len returns the number of hooks.
func (h *Hooks) Len() int {
	return len(h.list)
}

// Reset drops every hook.
func (h *Hooks) Reset() {
	clear(h.list)
	h.list = h.list[:0]
}

// Play executes the stream in order. Before the command at position i it
// calls flush and then every hook pinned at i, in registration order.
// Hooks at or past the end fire after the last command. It returns the
// number of hooks fired.
func (s *Stream) Play(hooks *Hooks, flush func()) int {
	var pending []Hook
	if hooks != nil {
		pending = make([]Hook, len(hooks.list))
		copy(pending, hooks.list)
		sort.SliceStable(pending, func(i, j int) bool {
			return pending[i].At < pending[j].At
		})
	}

	fired := 0
	next := 0
	fire := func(pos int, last bool) {
		for next < len(pending) && (pending[next].At <= pos || last) {
			if flush != nil {
				flush()
			}
			if fn := pending[next].Fn; fn != nil {
				fn()
			}
			next++
			fired++
		}
	}

	for i, c := range s.cmds {
		fire(i, false)
		if c != nil {
			c()
		}
	}
	fire(len(s.cmds), true)
	return fired
}
