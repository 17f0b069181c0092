package jit

import (
	"fmt"
	"io"
	"os"
)

// RTS is the runtime support object JIT-compiled code reads and writes
// directly as a flat C-ABI struct: the first three fields are raw file
// descriptors and an error flag, read by offset from the machine code
// emitted in emit_io.go, with no callback back into managed Go ever
// crossing the call. The remaining fields are Go-side bookkeeping the
// emitted code never touches.
//
// Field order is part of the ABI: readFD/writeFD/ioErr must stay first,
// in this order, each a full machine word, so their compile-time-fixed
// offsets (0, 8, 16) match what emit_io.go hard-codes.
// TestRTSFieldOffsetsMatchEmittedConstants in jit_test.go pins this with
// runtime offset assertions.
type RTS struct {
	readFD  int64
	writeFD int64
	ioErr   int64

	readCloser  func() error
	writeCloser func() error
	pumpErr     chan error
}

const (
	rtsOffsetReadFD  = 0
	rtsOffsetWriteFD = 8
	rtsOffsetIOErr   = 16
)

// NewRTS builds an RTS bridging r and w to raw file descriptors. An
// *os.File's descriptor is used directly; any other io.Reader/io.Writer is
// bridged through an os.Pipe with a pump goroutine, the same trick
// os/exec uses to let a Cmd's Stdin/Stdout be an arbitrary io.Reader or
// io.Writer instead of a literal file.
func NewRTS(r io.Reader, w io.Writer) (*RTS, error) {
	rts := &RTS{pumpErr: make(chan error, 2)}

	if f, ok := r.(*os.File); ok {
		rts.readFD = int64(f.Fd())
	} else {
		pr, pw, err := os.Pipe()
		if err != nil {
			return nil, fmt.Errorf("jit: rts: open read pipe: %w", err)
		}
		rts.readFD = int64(pr.Fd())
		rts.readCloser = pr.Close
		go func() {
			_, err := io.Copy(pw, r)
			pw.Close()
			rts.pumpErr <- err
		}()
	}

	if f, ok := w.(*os.File); ok {
		rts.writeFD = int64(f.Fd())
	} else {
		pr, pw, err := os.Pipe()
		if err != nil {
			return nil, fmt.Errorf("jit: rts: open write pipe: %w", err)
		}
		rts.writeFD = int64(pw.Fd())
		rts.writeCloser = pw.Close
		go func() {
			_, err := io.Copy(w, pr)
			rts.pumpErr <- err
		}()
	}

	return rts, nil
}

// Close releases any pipes opened by NewRTS and waits for their pump
// goroutines to drain. Call after the JIT call this RTS served has
// returned.
func (r *RTS) Close() error {
	if r.writeCloser != nil {
		r.writeCloser()
	}
	if r.readCloser != nil {
		r.readCloser()
	}
	var first error
	n := 0
	if r.readCloser != nil {
		n++
	}
	if r.writeCloser != nil {
		n++
	}
	for i := 0; i < n; i++ {
		if err := <-r.pumpErr; err != nil && first == nil {
			first = err
		}
	}
	return first
}

// IOError reports the I/O error latched by emitted code, if any, matching
// spec.md §4.9's "error surfaced after the JIT returns".
func (r *RTS) IOError() error {
	if r.ioErr == 0 {
		return nil
	}
	return fmt.Errorf("jit: i/o error during execution")
}
