// Package bytecode flattens the peephole IR into a linear vector with
// resolved jump targets, and runs it with a PC-driven dispatch loop.
package bytecode

import (
	"fmt"
	"strings"

	"github.com/tapehead/bf"
	"github.com/tapehead/bf/peephole"
)

// Program is the flat instruction vector. KJumpZero/KJumpNotZero addresses
// are absolute indices into this same slice.
type Program []bf.Instruction

// Compile flattens prog into a Program. A Loop(body) emits a placeholder
// JumpZero at the loop's own index, then body's flattened instructions,
// then a JumpNotZero back to just past the JumpZero, then back-patches the
// JumpZero to land just past the JumpNotZero. Both targets point past the
// matching jump: JumpZero(j+1) skips the whole loop on a zero cell,
// JumpNotZero(i+1) re-enters the body on a non-zero cell.
func Compile(prog peephole.Program) Program {
	var out Program
	for _, n := range prog {
		if !n.IsLoop() {
			out = append(out, n.Instr)
			continue
		}
		i := len(out)
		out = append(out, bf.Instruction{Op: bf.KJumpZero}) // placeholder
		body := Compile(n.Body)
		// body's jump targets are relative to its own start; shift them to
		// the absolute index it lands at, i+1.
		for k := range body {
			if body[k].Op == bf.KJumpZero || body[k].Op == bf.KJumpNotZero {
				body[k].N += bf.Count(i + 1)
			}
		}
		out = append(out, body...)
		j := len(out)
		out = append(out, bf.Instruction{Op: bf.KJumpNotZero, N: bf.Count(i + 1)})
		out[i] = bf.Instruction{Op: bf.KJumpZero, N: bf.Count(j + 1)}
	}
	return out
}

// Disassemble renders p as one instruction per line, addresses and jump
// targets included, for debug output.
func Disassemble(p Program) string {
	var b strings.Builder
	for i, instr := range p {
		switch instr.Op {
		case bf.KJumpZero, bf.KJumpNotZero:
			fmt.Fprintf(&b, "%4d  %-14s -> %d\n", i, instr.Op, instr.N)
		case bf.KAdd:
			fmt.Fprintf(&b, "%4d  %-14s %d\n", i, instr.Op, instr.Delta())
		case bf.KIn, bf.KOut, bf.KSetZero:
			fmt.Fprintf(&b, "%4d  %s\n", i, instr.Op)
		default:
			fmt.Fprintf(&b, "%4d  %-14s %d\n", i, instr.Op, instr.N)
		}
	}
	return b.String()
}
