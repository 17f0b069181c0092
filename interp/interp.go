// Package interp implements tree-walking interpreters for the AST, RLE,
// and peephole IRs. Each walks its tree in order, recursing into Loop
// bodies while the current cell is non-zero, sharing the tape.State
// described in package tape.
package interp

import (
	"io"

	"github.com/tapehead/bf"
	"github.com/tapehead/bf/ast"
	"github.com/tapehead/bf/peephole"
	"github.com/tapehead/bf/rle"
	"github.com/tapehead/bf/tape"
)

// AST walks prog directly against s, propagating the first error.
func AST(prog ast.Program, s *tape.State, in io.Reader, out io.Writer) error {
	for _, n := range prog {
		if n.IsLoop() {
			for s.Load() != 0 {
				if err := AST(n.Body, s, in, out); err != nil {
					return err
				}
			}
			continue
		}
		switch n.Cmd {
		case bf.Left:
			if err := s.Left(1); err != nil {
				return err
			}
		case bf.Right:
			if err := s.Right(1); err != nil {
				return err
			}
		case bf.Add:
			s.Up(n.Delta)
		case bf.In:
			if err := s.Read(in); err != nil {
				return err
			}
		case bf.Out:
			if err := s.Write(out); err != nil {
				return err
			}
		}
	}
	return nil
}

// RLE walks a run-length-encoded tree against s.
func RLE(prog rle.Program, s *tape.State, in io.Reader, out io.Writer) error {
	for _, n := range prog {
		if n.IsLoop() {
			for s.Load() != 0 {
				if err := RLE(n.Body, s, in, out); err != nil {
					return err
				}
			}
			continue
		}
		if err := step(n.Instr, s, in, out); err != nil {
			return err
		}
	}
	return nil
}

// Peephole walks a peephole-optimized tree against s.
func Peephole(prog peephole.Program, s *tape.State, in io.Reader, out io.Writer) error {
	for _, n := range prog {
		if n.IsLoop() {
			for s.Load() != 0 {
				if err := Peephole(n.Body, s, in, out); err != nil {
					return err
				}
			}
			continue
		}
		if err := step(n.Instr, s, in, out); err != nil {
			return err
		}
	}
	return nil
}

// step executes one composite, non-loop instruction against s. Shared by
// the RLE and Peephole interpreters and the bytecode dispatcher's opcode
// set, minus the two jump kinds which only the bytecode IR ever carries.
func step(instr bf.Instruction, s *tape.State, in io.Reader, out io.Writer) error {
	switch instr.Op {
	case bf.KLeft:
		return s.Left(instr.N)
	case bf.KRight:
		return s.Right(instr.N)
	case bf.KAdd:
		s.Up(instr.Delta())
		return nil
	case bf.KIn:
		return s.Read(in)
	case bf.KOut:
		return s.Write(out)
	case bf.KSetZero:
		s.Store(0)
		return nil
	case bf.KOffsetAddRight:
		if v := s.Load(); v != 0 {
			s.Store(0)
			return s.UpPosOffset(instr.N, v)
		}
		return nil
	case bf.KOffsetAddLeft:
		if v := s.Load(); v != 0 {
			s.Store(0)
			return s.UpNegOffset(instr.N, v)
		}
		return nil
	case bf.KFindZeroRight:
		for s.Load() != 0 {
			if err := s.Right(instr.N); err != nil {
				return err
			}
		}
		return nil
	case bf.KFindZeroLeft:
		for s.Load() != 0 {
			if err := s.Left(instr.N); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}
