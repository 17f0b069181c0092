package bytecode_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tapehead/bf"
	"github.com/tapehead/bf/ast"
	"github.com/tapehead/bf/bytecode"
	"github.com/tapehead/bf/peephole"
	"github.com/tapehead/bf/rle"
	"github.com/tapehead/bf/tape"
)

func compile(t *testing.T, src string) bytecode.Program {
	t.Helper()
	prog, err := ast.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return bytecode.Compile(peephole.Compile(rle.Compile(prog)))
}

func TestJumpTargetsLandPastTheMatchingJump(t *testing.T) {
	p := compile(t, "+[,]")
	// Add(1), JumpZero(4), In, JumpNotZero(2)
	if len(p) != 4 {
		t.Fatalf("want 4 instructions, got %d: %v", len(p), p)
	}
	if p[1].Op != bf.KJumpZero || p[1].N != 4 {
		t.Fatalf("want JumpZero(4) at 1, got %+v", p[1])
	}
	if p[3].Op != bf.KJumpNotZero || p[3].N != 2 {
		t.Fatalf("want JumpNotZero(2) at 3, got %+v", p[3])
	}
}

func TestRunExecutesLoop(t *testing.T) {
	p := compile(t, "+++[-]")
	s := tape.New(10)
	if err := bytecode.Run(p, s, bytes.NewReader(nil), &bytes.Buffer{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Load() != 0 {
		t.Fatalf("want cell cleared to 0, got %d", s.Load())
	}
}

func TestRunHelloWorldAgreesWithSource(t *testing.T) {
	const src = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."
	p := compile(t, src)
	s := tape.New(tape.DefaultCapacity)
	var out bytes.Buffer
	if err := bytecode.Run(p, s, bytes.NewReader(nil), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "Hello World!\n" {
		t.Fatalf("want %q, got %q", "Hello World!\n", out.String())
	}
}

func TestDisassembleIncludesJumpTargets(t *testing.T) {
	p := compile(t, "[,]")
	out := bytecode.Disassemble(p)
	if out == "" {
		t.Fatal("want non-empty disassembly")
	}
	// JumpZero(3) at 0, In at 1, JumpNotZero(1) at 2.
	if !strings.Contains(out, "-> 3") || !strings.Contains(out, "-> 1") {
		t.Fatalf("want jump targets 3 and 1 in disassembly, got:\n%s", out)
	}
}

// TestOffsetAddRightSkipsOnZeroCell mirrors the peephole interpreter's
// equivalent test: the dispatcher must not bounds-check or write the
// destination cell when the source is already 0.
func TestOffsetAddRightSkipsOnZeroCell(t *testing.T) {
	p := compile(t, ">[->+<]")
	s := tape.New(2)
	if err := bytecode.Run(p, s, bytes.NewReader(nil), &bytes.Buffer{}); err != nil {
		t.Fatalf("want no error (loop body never runs), got %v", err)
	}
}

func TestPointerOverflowPropagates(t *testing.T) {
	p := compile(t, "+[>+]")
	s := tape.New(4)
	err := bytecode.Run(p, s, bytes.NewReader(nil), &bytes.Buffer{})
	if err == nil {
		t.Fatal("want PointerOverflow error")
	}
}
