// Command bf runs Brainfuck programs through one of the pipeline's
// several execution backends, selected by flag.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tapehead/bf"
	"github.com/tapehead/bf/ast"
	"github.com/tapehead/bf/bytecode"
	"github.com/tapehead/bf/interp"
	"github.com/tapehead/bf/jit"
	"github.com/tapehead/bf/peephole"
	"github.com/tapehead/bf/rle"
	"github.com/tapehead/bf/tape"
)

// Exit codes per spec.md §6.
const (
	exitOK      = 0
	exitUsage   = 1
	exitParse   = 2
	exitRuntime = 3
)

// codeFlag collects repeated -e CODE occurrences.
type codeFlag []string

func (c *codeFlag) String() string { return strings.Join(*c, " ") }
func (c *codeFlag) Set(v string) error {
	*c = append(*c, v)
	return nil
}

var log = logrus.New()

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin *os.File, stdout *os.File) int {
	fs := flag.NewFlagSet("bf", flag.ContinueOnError)
	log.SetOutput(os.Stderr)

	var inline codeFlag
	fs.Var(&inline, "e", "inline source (repeatable; mutually exclusive with file arguments)")
	capacity := fs.Int("s", tape.DefaultCapacity, "tape capacity in cells (must be >= 1)")

	var selectAST, selectRLE, selectByte, selectPeep, selectJIT, selectLLVM bool
	fs.BoolVar(&selectAST, "ast", false, "run the AST tree interpreter")
	fs.BoolVar(&selectRLE, "rle", false, "run the RLE tree interpreter")
	fs.BoolVar(&selectByte, "byte", false, "run the flat bytecode dispatcher")
	fs.BoolVar(&selectPeep, "peep", false, "run the peephole tree interpreter (default)")
	fs.BoolVar(&selectJIT, "jit", false, "run the x86-64 JIT")
	fs.BoolVar(&selectLLVM, "llvm", false, "run the LLVM backend (not implemented)")
	unchecked := fs.Bool("u", false, "elide JIT bounds checks (only valid with --jit)")
	fs.BoolVar(unchecked, "unchecked", false, "alias for -u")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	src, code, exit := resolveSource(fs, inline)
	if exit != exitOK {
		return exit
	}

	pass, exit := resolvePass(selectAST, selectRLE, selectByte, selectPeep, selectJIT, selectLLVM, *unchecked)
	if exit != exitOK {
		return exit
	}

	a, err := ast.Parse(code)
	if err != nil {
		log.WithFields(logrus.Fields{"source": src}).Errorf("parse failed: %v", err)
		return exitParse
	}

	if *capacity < 1 {
		log.Error("-s must be >= 1")
		return exitUsage
	}

	if err := execute(pass, a, *capacity, *unchecked, stdin, stdout); err != nil {
		log.Errorf("runtime error: %v", err)
		return exitRuntime
	}
	return exitOK
}

type pass int

const (
	passAST pass = iota
	passRLE
	passByte
	passPeep
	passJIT
)

// resolvePass enforces the mutually-exclusive selector group and that
// unchecked is only ever paired with --jit, per spec.md §6.
func resolvePass(astSel, rleSel, byteSel, peepSel, jitSel, llvmSel, unchecked bool) (pass, int) {
	selected := 0
	for _, b := range []bool{astSel, rleSel, byteSel, peepSel, jitSel, llvmSel} {
		if b {
			selected++
		}
	}
	if selected > 1 {
		log.Error("at most one of --ast, --rle, --byte, --peep, --jit, --llvm may be given")
		return 0, exitUsage
	}
	if llvmSel {
		log.Error("--llvm is not implemented")
		return 0, exitUsage
	}
	if unchecked && !jitSel {
		log.Error("-u/--unchecked is only valid with --jit")
		return 0, exitUsage
	}
	switch {
	case astSel:
		return passAST, exitOK
	case rleSel:
		return passRLE, exitOK
	case byteSel:
		return passByte, exitOK
	case jitSel:
		return passJIT, exitOK
	default:
		return passPeep, exitOK
	}
}

// resolveSource enforces the -e/positional-file mutual exclusivity.
func resolveSource(fs *flag.FlagSet, inline codeFlag) (string, []byte, int) {
	files := fs.Args()
	switch {
	case len(inline) > 0 && len(files) > 0:
		log.Error("-e and positional file arguments are mutually exclusive")
		return "", nil, exitUsage
	case len(inline) > 0:
		return "-e", []byte(strings.Join(inline, "")), exitOK
	case len(files) > 0:
		var buf strings.Builder
		for _, f := range files {
			b, err := os.ReadFile(f)
			if err != nil {
				log.Errorf("reading %s: %v", f, err)
				return "", nil, exitUsage
			}
			buf.Write(b)
		}
		return strings.Join(files, ","), []byte(buf.String()), exitOK
	default:
		log.Error("exactly one source must be given via -e or positional file arguments")
		return "", nil, exitUsage
	}
}

func execute(p pass, a ast.Program, capacity int, unchecked bool, stdin, stdout *os.File) error {
	switch p {
	case passAST:
		return interp.AST(a, tape.New(capacity), stdin, stdout)
	case passRLE:
		return interp.RLE(rle.Compile(a), tape.New(capacity), stdin, stdout)
	case passPeep:
		return interp.Peephole(peephole.Compile(rle.Compile(a)), tape.New(capacity), stdin, stdout)
	case passByte:
		prog := bytecode.Compile(peephole.Compile(rle.Compile(a)))
		return bytecode.Run(prog, tape.New(capacity), stdin, stdout)
	case passJIT:
		art, err := jit.Compile(peephole.Compile(rle.Compile(a)), !unchecked)
		if err != nil {
			return fmt.Errorf("jit compile: %w", err)
		}
		defer art.Close()
		return jit.Run(art, capacity, stdin, stdout)
	}
	return bf.NewRuntimeError(bf.IOError, "unreachable: unknown pass %d", p)
}
