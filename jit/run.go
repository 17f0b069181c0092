package jit

import (
	"io"
	"unsafe"

	"github.com/tapehead/bf"
)

// Run allocates a tape of the given capacity, calls into artifact against
// it, and translates the status code (or a latched RTS I/O error) into
// this module's error family. Matches interp.Peephole's and
// bytecode.Run's signature shape so callers can select a backend
// uniformly.
func Run(artifact *Artifact, capacity int, in io.Reader, out io.Writer) error {
	if capacity < 1 {
		capacity = 1
	}
	tape := make([]byte, capacity)

	rts, err := NewRTS(in, out)
	if err != nil {
		return err
	}

	status := artifact.Call(unsafe.Pointer(&tape[0]), uintptr(len(tape)), rts)

	closeErr := rts.Close()
	if ioErr := rts.IOError(); ioErr != nil {
		return bf.NewRuntimeError(bf.IOError, "%v", ioErr)
	}
	if closeErr != nil {
		return bf.NewRuntimeError(bf.IOError, "%v", closeErr)
	}

	switch status {
	case statusOkay:
		return nil
	case statusUnderflow:
		return bf.NewRuntimeError(bf.PointerUnderflow, "jit: head underflowed tape")
	case statusOverflow:
		return bf.NewRuntimeError(bf.PointerOverflow, "jit: head overflowed tape")
	default:
		return bf.NewRuntimeError(bf.PointerOverflow, "jit: unknown status code %d", status)
	}
}
