// Package peephole recognizes common loop idioms in the RLE tree IR and
// rewrites them to synthetic composite commands the interpreters and JIT
// can execute directly instead of looping.
package peephole

import (
	"github.com/tapehead/bf"
	"github.com/tapehead/bf/rle"
)

// Node is one element of a Program: either a composite instruction (which
// may now include the synthetic Kinds SetZero/OffsetAddRight/
// OffsetAddLeft/FindZeroRight/FindZeroLeft) or a Loop that survived
// rewriting.
type Node struct {
	Instr bf.Instruction
	Body  Program
}

// Program is a sequence of Nodes.
type Program []Node

// IsLoop reports whether n is a Loop node.
func (n Node) IsLoop() bool {
	return n.Body != nil
}

// Compile rewrites recognizable loop idioms in prog to synthetic
// instructions, recursing into loops that don't match any idiom. A
// rewrite never crosses a loop boundary: only a loop's own immediate body
// is matched against the table in spec.md §4.3.
func Compile(prog rle.Program) Program {
	out := make(Program, 0, len(prog))
	for _, n := range prog {
		if !n.IsLoop() {
			out = append(out, Node{Instr: n.Instr})
			continue
		}
		if instr, ok := recognize(n.Body); ok {
			out = append(out, Node{Instr: instr})
			continue
		}
		out = append(out, Node{Body: Compile(n.Body)})
	}
	return out
}

// recognize matches a loop's body against the idiom table. body is the
// RLE-level sequence of the loop's own children, unrewritten.
func recognize(body rle.Program) (bf.Instruction, bool) {
	if len(body) == 1 && !body[0].IsLoop() {
		instr := body[0].Instr
		switch instr.Op {
		case bf.KAdd:
			if instr.Delta()%2 != 0 {
				return bf.Instruction{Op: bf.KSetZero}, true
			}
		case bf.KRight:
			return bf.Instruction{Op: bf.KFindZeroRight, N: instr.N}, true
		case bf.KLeft:
			return bf.Instruction{Op: bf.KFindZeroLeft, N: instr.N}, true
		}
		return bf.Instruction{}, false
	}

	if len(body) == 4 && noneLoop(body) {
		a, b, c, d := body[0].Instr, body[1].Instr, body[2].Instr, body[3].Instr
		if a.Op == bf.KAdd && a.Delta() == -1 &&
			b.Op == bf.KRight &&
			c.Op == bf.KAdd && c.Delta() == 1 &&
			d.Op == bf.KLeft && d.N == b.N {
			return bf.Instruction{Op: bf.KOffsetAddRight, N: b.N}, true
		}
		if a.Op == bf.KAdd && a.Delta() == -1 &&
			b.Op == bf.KLeft &&
			c.Op == bf.KAdd && c.Delta() == 1 &&
			d.Op == bf.KRight && d.N == b.N {
			return bf.Instruction{Op: bf.KOffsetAddLeft, N: b.N}, true
		}
	}

	return bf.Instruction{}, false
}

func noneLoop(body rle.Program) bool {
	for _, n := range body {
		if n.IsLoop() {
			return false
		}
	}
	return true
}
