// Package rle implements the run-length-encoded IR: adjacent repetitions
// of a repeatable command are coalesced into a single composite
// instruction carrying a count.
package rle

import (
	"github.com/tapehead/bf"
	"github.com/tapehead/bf/ast"
)

// Node is one element of a Program: either a composite instruction or a
// Loop wrapping a nested, recursively-compiled sequence.
type Node struct {
	Instr bf.Instruction
	Body  Program
}

// Program is a sequence of Nodes. Never contains KJumpZero/KJumpNotZero;
// every count in it is >= 1.
type Program []Node

// IsLoop reports whether n is a Loop node.
func (n Node) IsLoop() bool {
	return n.Body != nil
}

// Compile coalesces runs of identical adjacent atomic commands in prog
// into composite instructions, recursing into loop bodies. Adjacent Add
// deltas are summed modulo 256; a run summing to zero is erased entirely.
func Compile(prog ast.Program) Program {
	out := make(Program, 0, len(prog))
	i := 0
	for i < len(prog) {
		n := prog[i]
		if n.IsLoop() {
			out = append(out, Node{Body: Compile(n.Body)})
			i++
			continue
		}

		switch n.Cmd {
		case bf.Left, bf.Right:
			j := i + 1
			for j < len(prog) && !prog[j].IsLoop() && prog[j].Cmd == n.Cmd {
				j++
			}
			out = append(out, Node{Instr: shiftInstr(n.Cmd, bf.Count(j-i))})
			i = j

		case bf.Add:
			sum := n.Delta
			j := i + 1
			for j < len(prog) && !prog[j].IsLoop() && prog[j].Cmd == bf.Add {
				sum += prog[j].Delta
				j++
			}
			if sum != 0 {
				out = append(out, Node{Instr: bf.AddI(sum)})
			}
			i = j

		case bf.In:
			out = append(out, Node{Instr: bf.Instruction{Op: bf.KIn}})
			i++

		case bf.Out:
			out = append(out, Node{Instr: bf.Instruction{Op: bf.KOut}})
			i++

		default:
			// Begin/End never reach here: the parser only ever emits them
			// as Loop wrappers, handled above.
			i++
		}
	}
	return out
}

func shiftInstr(cmd bf.Command, n bf.Count) bf.Instruction {
	if cmd == bf.Left {
		return bf.Lft(n)
	}
	return bf.Rgt(n)
}

// Expand lifts a Program back to an ast.Program by repeating each
// composite instruction's atomic command Instr.N times (Add(d) becomes a
// single atomic Add(d), since re-running RLE on a repeated-Add expansion
// would just re-sum to the same delta). Used to state RLE idempotence as
// rle(expand(rle(p))) == rle(p), the "trivial re-lifting" spec.md §8
// invariant 4 refers to.
func (p Program) Expand() ast.Program {
	var out ast.Program
	for _, n := range p {
		if n.IsLoop() {
			out = append(out, ast.Loop(n.Body.Expand()))
			continue
		}
		switch n.Instr.Op {
		case bf.KLeft:
			for i := bf.Count(0); i < n.Instr.N; i++ {
				out = append(out, ast.Atom(bf.Left))
			}
		case bf.KRight:
			for i := bf.Count(0); i < n.Instr.N; i++ {
				out = append(out, ast.Atom(bf.Right))
			}
		case bf.KAdd:
			out = append(out, ast.AddNode(n.Instr.Delta()))
		case bf.KIn:
			out = append(out, ast.Atom(bf.In))
		case bf.KOut:
			out = append(out, ast.Atom(bf.Out))
		}
	}
	return out
}
