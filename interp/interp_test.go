package interp_test

import (
	"bytes"
	"testing"

	"github.com/tapehead/bf/ast"
	"github.com/tapehead/bf/interp"
	"github.com/tapehead/bf/peephole"
	"github.com/tapehead/bf/rle"
	"github.com/tapehead/bf/tape"
)

const helloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

func TestAllThreeTreeInterpretersAgree(t *testing.T) {
	a, err := ast.Parse([]byte(helloWorld))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := rle.Compile(a)
	p := peephole.Compile(r)

	var astOut, rleOut, peepOut bytes.Buffer
	if err := interp.AST(a, tape.New(tape.DefaultCapacity), bytes.NewReader(nil), &astOut); err != nil {
		t.Fatalf("ast: %v", err)
	}
	if err := interp.RLE(r, tape.New(tape.DefaultCapacity), bytes.NewReader(nil), &rleOut); err != nil {
		t.Fatalf("rle: %v", err)
	}
	if err := interp.Peephole(p, tape.New(tape.DefaultCapacity), bytes.NewReader(nil), &peepOut); err != nil {
		t.Fatalf("peephole: %v", err)
	}

	if astOut.String() != rleOut.String() || rleOut.String() != peepOut.String() {
		t.Fatalf("backends disagree: ast=%q rle=%q peephole=%q", astOut.String(), rleOut.String(), peepOut.String())
	}
	if astOut.String() != "Hello World!\n" {
		t.Fatalf("want %q, got %q", "Hello World!\n", astOut.String())
	}
}

func TestCatEchoesInput(t *testing.T) {
	a, err := ast.Parse([]byte(",[.,]"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var out bytes.Buffer
	if err := interp.AST(a, tape.New(tape.DefaultCapacity), bytes.NewReader([]byte("abc")), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "abc" {
		t.Fatalf("want abc, got %q", out.String())
	}
}

// TestOffsetAddRightSkipsOnZeroCell covers the OffsetAddRight idiom's gate:
// it must not touch (or bounds-check) the destination cell when the source
// is already 0, since real BF semantics for the underlying loop is then
// zero iterations.
func TestOffsetAddRightSkipsOnZeroCell(t *testing.T) {
	a, err := ast.Parse([]byte(">[->+<]"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := peephole.Compile(rle.Compile(a))
	if err := interp.Peephole(p, tape.New(2), bytes.NewReader(nil), &bytes.Buffer{}); err != nil {
		t.Fatalf("want no error (loop body never runs), got %v", err)
	}
}

func TestPeepholeOverflowMatchesAST(t *testing.T) {
	a, err := ast.Parse([]byte("+[>+]"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := peephole.Compile(rle.Compile(a))

	astErr := interp.AST(a, tape.New(4), bytes.NewReader(nil), &bytes.Buffer{})
	peepErr := interp.Peephole(p, tape.New(4), bytes.NewReader(nil), &bytes.Buffer{})
	if astErr == nil || peepErr == nil {
		t.Fatalf("want both to overflow, got ast=%v peephole=%v", astErr, peepErr)
	}
}
