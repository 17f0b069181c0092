// Package tape implements the shared machine state every Brainfuck
// execution backend operates on: a fixed-capacity byte buffer and a head
// index. One State is created per execution and owned exclusively by the
// interpreter or JIT call that runs against it.
package tape

import (
	"io"

	"github.com/tapehead/bf"
)

// DefaultCapacity is the tape size used when none is requested.
const DefaultCapacity = 30000

// State is the linear memory and head pointer shared by every interpreter.
// Mutated only by the active interpreter; never shared between concurrent
// executions.
type State struct {
	Cells []byte
	Head  int
}

// New creates a State with the given capacity. Capacities below 1 are
// clamped up to 1, matching spec.md §3's "minimum 1".
func New(capacity int) *State {
	if capacity < 1 {
		capacity = 1
	}
	return &State{Cells: make([]byte, capacity)}
}

// Cap reports the tape's fixed capacity.
func (s *State) Cap() int {
	return len(s.Cells)
}

// Load reads the current cell.
func (s *State) Load() byte {
	return s.Cells[s.Head]
}

// Store writes the current cell.
func (s *State) Store(v byte) {
	s.Cells[s.Head] = v
}

// Up adds a wrapping delta to the current cell.
func (s *State) Up(delta int8) {
	s.Cells[s.Head] += byte(delta)
}

// Right moves the head right by n, failing with PointerOverflow if that
// would leave the tape.
func (s *State) Right(n bf.Count) error {
	if bf.Count(len(s.Cells)-1-s.Head) < n {
		return bf.NewRuntimeError(bf.PointerOverflow, "head+%d exceeds capacity %d", n, len(s.Cells))
	}
	s.Head += int(n)
	return nil
}

// Left moves the head left by n, failing with PointerUnderflow if that
// would leave the tape.
func (s *State) Left(n bf.Count) error {
	if bf.Count(s.Head) < n {
		return bf.NewRuntimeError(bf.PointerUnderflow, "head-%d is negative", n)
	}
	s.Head -= int(n)
	return nil
}

// UpPosOffset adds value to cell[Head+offset] and fails with
// PointerOverflow if that cell doesn't exist.
func (s *State) UpPosOffset(offset bf.Count, value byte) error {
	if bf.Count(len(s.Cells)-1-s.Head) < offset {
		return bf.NewRuntimeError(bf.PointerOverflow, "head+%d exceeds capacity %d", offset, len(s.Cells))
	}
	s.Cells[s.Head+int(offset)] += value
	return nil
}

// UpNegOffset adds value to cell[Head-offset] and fails with
// PointerUnderflow if that cell doesn't exist.
func (s *State) UpNegOffset(offset bf.Count, value byte) error {
	if bf.Count(s.Head) < offset {
		return bf.NewRuntimeError(bf.PointerUnderflow, "head-%d is negative", offset)
	}
	s.Cells[s.Head-int(offset)] += value
	return nil
}

// Read pulls one byte from r into the current cell, storing 0 on EOF or
// any read error (matching spec.md §4.5's "Interpretation of In on EOF
// stores 0").
func (s *State) Read(r io.Reader) error {
	var buf [1]byte
	n, err := r.Read(buf[:])
	if n == 0 || err != nil {
		s.Store(0)
		if err != nil && err != io.EOF {
			return bf.NewRuntimeError(bf.IOError, "read: %v", err)
		}
		return nil
	}
	s.Store(buf[0])
	return nil
}

// Write pushes the current cell to w as one byte.
func (s *State) Write(w io.Writer) error {
	buf := [1]byte{s.Load()}
	if _, err := w.Write(buf[:]); err != nil {
		return bf.NewRuntimeError(bf.IOError, "write: %v", err)
	}
	return nil
}
