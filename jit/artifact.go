package jit

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/tapehead/bf/peephole"
)

// Artifact is a JIT-compiled program: page-rounded executable memory
// whose entry point is its first byte. Executable memory is allocated and made executable
// before Compile returns it; it is released by Close. The artifact must
// outlive every call made into it.
type Artifact struct {
	mem []byte // the mmap'd page, currently PROT_READ|PROT_EXEC
}

// Compile emits x86-64 machine code for prog and maps it executable.
// checked selects the abstract-interpreter-driven bounds checking pass;
// unchecked mode elides every runtime check unconditionally.
func Compile(prog peephole.Program, checked bool) (*Artifact, error) {
	c := newCompiler(checked)
	c.emitPrologue()
	c.compileProgram(prog)
	c.emitEpilogue()
	c.w.resolve()

	return newArtifact(c.w.code)
}

// newArtifact allocates one page-rounded RW mapping, copies code into it,
// then flips the mapping to RX. Two-step W^X, never both at once.
func newArtifact(code []byte) (*Artifact, error) {
	page := syscall.Getpagesize()
	size := (len(code) + page - 1) &^ (page - 1)
	if size == 0 {
		size = page
	}

	mem, err := syscall.Mmap(-1, 0, size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_PRIVATE|syscall.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("jit: mmap executable page: %w", err)
	}
	copy(mem, code)

	if err := syscall.Mprotect(mem, syscall.PROT_READ|syscall.PROT_EXEC); err != nil {
		syscall.Munmap(mem)
		return nil, fmt.Errorf("jit: mprotect RX: %w", err)
	}

	return &Artifact{mem: mem}, nil
}

// Call invokes the compiled function against the given tape, returning
// the raw status code from emitEpilogue's rax.
//
// head must point at the first byte of a slice at least length bytes
// long; it remains live and unmoved by the (non-moving, in the Go
// runtime's current implementation) garbage collector for the duration
// of the call, which never reenters the Go scheduler.
func (a *Artifact) Call(head unsafe.Pointer, length uintptr, rts *RTS) uint64 {
	code := uintptr(unsafe.Pointer(&a.mem[0]))
	return callJIT(code, head, length, unsafe.Pointer(rts))
}

// Close unmaps the artifact's executable page. The artifact must not be
// called again afterwards.
func (a *Artifact) Close() error {
	if a.mem == nil {
		return nil
	}
	err := syscall.Munmap(a.mem)
	a.mem = nil
	return err
}
