package jit

import "unsafe"

// callJIT invokes the machine code at code as a function of the JIT entry
// ABI from spec.md §6: fn(head *mut u8, length usize, rts *mut RTS) -> u64.
// Implemented in call_amd64.s: a bare trampoline that loads the three
// arguments into the platform's standard integer-argument registers and
// calls code directly, since Go's own calling convention can't call a
// raw code pointer without an assembly shim.
//
//go:noescape
func callJIT(code uintptr, head unsafe.Pointer, length uintptr, rts unsafe.Pointer) uint64
