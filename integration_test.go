package bf_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tapehead/bf"
	"github.com/tapehead/bf/ast"
	"github.com/tapehead/bf/bytecode"
	"github.com/tapehead/bf/interp"
	"github.com/tapehead/bf/jit"
	"github.com/tapehead/bf/peephole"
	"github.com/tapehead/bf/rle"
	"github.com/tapehead/bf/tape"
)

// A standard hello-world program, used consistently across this module's
// test suites (interp, bytecode, jit).
const classicHelloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

// runAll exercises every backend named in spec.md §8 invariant 1 against
// the same program and input, returning each one's output and error.
type backendResult struct {
	name string
	out  string
	err  error
}

func runAll(t *testing.T, src string, capacity int, input string) []backendResult {
	t.Helper()
	a, err := ast.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := rle.Compile(a)
	p := peephole.Compile(r)
	bc := bytecode.Compile(p)

	var results []backendResult

	var astOut bytes.Buffer
	astErr := interp.AST(a, tape.New(capacity), bytes.NewReader([]byte(input)), &astOut)
	results = append(results, backendResult{"ast", astOut.String(), astErr})

	var rleOut bytes.Buffer
	rleErr := interp.RLE(r, tape.New(capacity), bytes.NewReader([]byte(input)), &rleOut)
	results = append(results, backendResult{"rle", rleOut.String(), rleErr})

	var peepOut bytes.Buffer
	peepErr := interp.Peephole(p, tape.New(capacity), bytes.NewReader([]byte(input)), &peepOut)
	results = append(results, backendResult{"peephole", peepOut.String(), peepErr})

	var byteOut bytes.Buffer
	byteErr := bytecode.Run(bc, tape.New(capacity), bytes.NewReader([]byte(input)), &byteOut)
	results = append(results, backendResult{"bytecode", byteOut.String(), byteErr})

	art, jitErr := jit.Compile(p, true)
	if jitErr != nil {
		t.Fatalf("jit compile: %v", jitErr)
	}
	defer art.Close()
	var jitOut bytes.Buffer
	jitErr = jit.Run(art, capacity, bytes.NewReader([]byte(input)), &jitOut)
	results = append(results, backendResult{"jit-checked", jitOut.String(), jitErr})

	return results
}

func assertAllAgree(t *testing.T, results []backendResult, wantOut string, wantErrKind *bf.ErrorKind) {
	t.Helper()
	for _, r := range results {
		if wantErrKind == nil {
			if r.err != nil {
				t.Errorf("%s: unexpected error: %v", r.name, r.err)
			}
			if r.out != wantOut {
				t.Errorf("%s: want %q, got %q", r.name, wantOut, r.out)
			}
			continue
		}
		var bfErr *bf.Error
		if !errors.As(r.err, &bfErr) {
			t.Errorf("%s: want a *bf.Error, got %v", r.name, r.err)
			continue
		}
		if bfErr.Kind != *wantErrKind {
			t.Errorf("%s: want kind %v, got %v", r.name, *wantErrKind, bfErr.Kind)
		}
	}
}

func TestHelloWorldAgreesAcrossAllBackends(t *testing.T) {
	results := runAll(t, classicHelloWorld, tape.DefaultCapacity, "")
	assertAllAgree(t, results, "Hello World!\n", nil)
}

func TestCatAgreesAcrossAllBackends(t *testing.T) {
	results := runAll(t, ",[.,]", tape.DefaultCapacity, "abc")
	assertAllAgree(t, results, "abc", nil)
}

func TestOverflowAgreesAcrossAllBackends(t *testing.T) {
	overflow := bf.PointerOverflow
	results := runAll(t, "+[>+]", 4, "")
	assertAllAgree(t, results, "", &overflow)
}

func TestTapeSizeOneRightOverflows(t *testing.T) {
	overflow := bf.PointerOverflow
	results := runAll(t, ">", 1, "")
	assertAllAgree(t, results, "", &overflow)
}

func TestTapeSizeOneLeftUnderflows(t *testing.T) {
	underflow := bf.PointerUnderflow
	results := runAll(t, "<", 1, "")
	assertAllAgree(t, results, "", &underflow)
}

func TestEOFStoresZero(t *testing.T) {
	results := runAll(t, ",.", tape.DefaultCapacity, "")
	assertAllAgree(t, results, "\x00", nil)
}

func TestAddWrapsToFF(t *testing.T) {
	results := runAll(t, "-.", tape.DefaultCapacity, "")
	assertAllAgree(t, results, "\xFF", nil)
}

// TestOffsetAddOnZeroCellIsANoOp covers the OffsetAddRight/Left idiom's
// "only act if the current cell is non-zero" gate: on tape size 2, ">"
// leaves the head on cell 1 (still 0), so the recognized OffsetAddRight(1)
// loop body must run zero iterations rather than bounds-check a write to
// cell 2, which doesn't exist.
func TestOffsetAddOnZeroCellIsANoOp(t *testing.T) {
	results := runAll(t, ">[->+<]", 2, "")
	assertAllAgree(t, results, "", nil)
}

// TestFindZeroRightChecksBoundsEveryIteration covers the FindZeroRight/Left
// idiom's per-iteration bounds check: a single compile-time proof can't
// cover an unbounded number of iterations of the same step, so checked JIT
// mode must re-check on every pass through the loop, same as the tree and
// bytecode interpreters.
func TestFindZeroRightChecksBoundsEveryIteration(t *testing.T) {
	overflow := bf.PointerOverflow
	results := runAll(t, "+>+[>]", 2, "")
	assertAllAgree(t, results, "", &overflow)
}

// TestJITUncheckedAgreesWithCheckedInBounds covers invariant 2: unchecked
// and checked JIT agree on any input that never goes out of bounds.
func TestJITUncheckedAgreesWithCheckedInBounds(t *testing.T) {
	a, err := ast.Parse([]byte(classicHelloWorld))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := peephole.Compile(rle.Compile(a))

	checked, err := jit.Compile(p, true)
	if err != nil {
		t.Fatalf("compile checked: %v", err)
	}
	defer checked.Close()
	unchecked, err := jit.Compile(p, false)
	if err != nil {
		t.Fatalf("compile unchecked: %v", err)
	}
	defer unchecked.Close()

	var checkedOut, uncheckedOut bytes.Buffer
	if err := jit.Run(checked, tape.DefaultCapacity, bytes.NewReader(nil), &checkedOut); err != nil {
		t.Fatalf("checked: %v", err)
	}
	if err := jit.Run(unchecked, tape.DefaultCapacity, bytes.NewReader(nil), &uncheckedOut); err != nil {
		t.Fatalf("unchecked: %v", err)
	}
	if checkedOut.String() != uncheckedOut.String() {
		t.Fatalf("checked/unchecked disagree: %q vs %q", checkedOut.String(), uncheckedOut.String())
	}
}

// TestBytecodeJumpWellFormedness covers invariant 6: every JumpZero(a) at
// index i has a matching JumpNotZero(b) at a-1 with b = i+1.
func TestBytecodeJumpWellFormedness(t *testing.T) {
	a, err := ast.Parse([]byte(classicHelloWorld))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := bytecode.Compile(peephole.Compile(rle.Compile(a)))
	for i, instr := range p {
		if instr.Op != bf.KJumpZero {
			continue
		}
		target := int(instr.N)
		if target < 1 || target > len(p) {
			t.Fatalf("JumpZero at %d has out-of-range target %d", i, target)
		}
		match := p[target-1]
		if match.Op != bf.KJumpNotZero {
			t.Fatalf("JumpZero at %d: expected JumpNotZero at %d, got %v", i, target-1, match.Op)
		}
		if int(match.N) != i+1 {
			t.Fatalf("JumpZero at %d / JumpNotZero at %d: target %d != %d", i, target-1, match.N, i+1)
		}
	}
}

// TestPeepholeIdempotence covers invariant 5.
func TestPeepholeIdempotence(t *testing.T) {
	a, err := ast.Parse([]byte(classicHelloWorld))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := rle.Compile(a)
	once := peephole.Compile(r)
	twice := peephole.Compile(liftToRLE(once))
	if len(once) != len(twice) {
		t.Fatalf("peephole not idempotent: lengths %d vs %d", len(once), len(twice))
	}
}

// liftToRLE re-expresses a peephole program as an rle.Program node for
// node, so the peephole pass can be run over its own output.
func liftToRLE(p peephole.Program) rle.Program {
	out := make(rle.Program, 0, len(p))
	for _, n := range p {
		if n.IsLoop() {
			out = append(out, rle.Node{Body: liftToRLE(n.Body)})
			continue
		}
		out = append(out, rle.Node{Instr: n.Instr})
	}
	return out
}
