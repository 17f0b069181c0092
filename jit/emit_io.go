package jit

// Syscall numbers (Linux x86-64).
const (
	sysRead  = 0
	sysWrite = 1
)

// emitIn issues a raw read(2) against the RTS object's readFD, reading
// directly into [pointer] (which doubles as the 1-byte buffer). Short
// reads, EOF, and errors all store 0 into the cell, matching the
// interpreters' "EOF stores 0" rule; a genuine error (negative return,
// not EOF) additionally latches ioErr for the caller to observe once the
// JIT call returns.
func (c *compiler) emitIn() {
	c.w.movRegMemDisp8(rdi, regRTS, rtsOffsetReadFD)
	c.w.movRegReg64(rsi, regPointer)
	c.w.movRegImm32(rdx, 1)
	c.w.movRegImm32(rax, sysRead)
	c.w.syscall_()

	ok := c.w.newLabel()
	noLatch := c.w.newLabel()
	c.w.cmpRegImm8(rax, 1)
	c.w.jumpTo(ok, 0x0F, 0x84) // JE ok

	c.w.movMemImm8(0)
	c.w.cmpRegImm8(rax, 0)
	c.w.jumpTo(noLatch, 0x0F, 0x84) // JE noLatch (clean EOF, not an error)
	c.w.movMemDisp8Imm32(regRTS, rtsOffsetIOErr, 1)
	c.w.markLabel(noLatch)

	c.w.markLabel(ok)
}

// emitOut issues a raw write(2) of [pointer] to the RTS object's
// writeFD. A short write or error latches ioErr the same way emitIn does.
func (c *compiler) emitOut() {
	c.w.movRegMemDisp8(rdi, regRTS, rtsOffsetWriteFD)
	c.w.movRegReg64(rsi, regPointer)
	c.w.movRegImm32(rdx, 1)
	c.w.movRegImm32(rax, sysWrite)
	c.w.syscall_()

	ok := c.w.newLabel()
	c.w.cmpRegImm8(rax, 1)
	c.w.jumpTo(ok, 0x0F, 0x84) // JE ok
	c.w.movMemDisp8Imm32(regRTS, rtsOffsetIOErr, 1)
	c.w.markLabel(ok)
}
