package bytecode

import (
	"io"

	"github.com/tapehead/bf"
	"github.com/tapehead/bf/tape"
)

// Run executes p against s, reading In from in and writing Out to out.
// Halts when pc runs off the end of p and returns the first error raised
// by a tape operation.
func Run(p Program, s *tape.State, in io.Reader, out io.Writer) error {
	pc := 0
	for pc < len(p) {
		instr := p[pc]
		switch instr.Op {
		case bf.KLeft:
			if err := s.Left(instr.N); err != nil {
				return err
			}
		case bf.KRight:
			if err := s.Right(instr.N); err != nil {
				return err
			}
		case bf.KAdd:
			s.Up(instr.Delta())
		case bf.KIn:
			if err := s.Read(in); err != nil {
				return err
			}
		case bf.KOut:
			if err := s.Write(out); err != nil {
				return err
			}
		case bf.KSetZero:
			s.Store(0)
		case bf.KOffsetAddRight:
			if v := s.Load(); v != 0 {
				s.Store(0)
				if err := s.UpPosOffset(instr.N, v); err != nil {
					return err
				}
			}
		case bf.KOffsetAddLeft:
			if v := s.Load(); v != 0 {
				s.Store(0)
				if err := s.UpNegOffset(instr.N, v); err != nil {
					return err
				}
			}
		case bf.KFindZeroRight:
			for s.Load() != 0 {
				if err := s.Right(instr.N); err != nil {
					return err
				}
			}
		case bf.KFindZeroLeft:
			for s.Load() != 0 {
				if err := s.Left(instr.N); err != nil {
					return err
				}
			}
		case bf.KJumpZero:
			if s.Load() == 0 {
				pc = int(instr.N)
				continue
			}
		case bf.KJumpNotZero:
			if s.Load() != 0 {
				pc = int(instr.N)
				continue
			}
		}
		pc++
	}
	return nil
}
