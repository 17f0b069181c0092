package jit

import "github.com/tapehead/bf"

// compiler holds everything one Compile call threads through emission:
// the byte writer, the three epilogue labels every check jumps to, and
// the bounds analysis (abstractInterpreter when checked, noAnalysis
// otherwise).
type compiler struct {
	w         *writer
	checked   bool
	analysis  BoundsAnalysis
	underflow int
	overflow  int
	finish    int
}

func newCompiler(checked bool) *compiler {
	c := &compiler{w: newWriter(), checked: checked}
	if checked {
		c.analysis = newAbstractInterpreter()
	} else {
		c.analysis = noAnalysis{}
	}
	c.underflow = c.w.newLabel()
	c.overflow = c.w.newLabel()
	c.finish = c.w.newLabel()
	return c
}

// loadConstant emits `mov rax, n`, using the 5-byte 32-bit-immediate form
// whenever n fits, the 9-byte 64-bit form otherwise.
func (c *compiler) loadConstant(n bf.Count) {
	if uint64(n) <= 0xFFFFFFFF {
		c.w.movRegImm32(rax, uint32(n))
	} else {
		c.w.movRegImm64(rax, uint64(n))
	}
}

// emitRightCheck loads n into rax, then emits, if checked and not already
// proved, the runtime test `(mem_limit - pointer) <= n -> overflow`.
func (c *compiler) emitRightCheck(n bf.Count, proved bool) {
	c.loadConstant(n)
	if c.checked && !proved {
		c.w.movRegReg64(rcx, regMemLimit)
		c.w.subRegReg64(rcx, regPointer)
		c.w.cmpRegReg64(rcx, rax)
		c.w.jumpTo(c.overflow, 0x0F, 0x8E) // JLE
	}
}

// emitLeftCheck is the symmetric underflow test `(pointer - mem_start) < n`.
func (c *compiler) emitLeftCheck(n bf.Count, proved bool) {
	c.loadConstant(n)
	if c.checked && !proved {
		c.w.movRegReg64(rcx, regPointer)
		c.w.subRegReg64(rcx, regMemStart)
		c.w.cmpRegReg64(rcx, rax)
		c.w.jumpTo(c.underflow, 0x0F, 0x8C) // JL
	}
}

func (c *compiler) emitRight(n bf.Count) {
	proved := c.analysis.MoveRight(n)
	c.emitRightCheck(n, proved)
	c.w.addRegReg64(regPointer, rax)
}

func (c *compiler) emitLeft(n bf.Count) {
	proved := c.analysis.MoveLeft(n)
	c.emitLeftCheck(n, proved)
	c.w.subRegReg64(regPointer, rax)
}

func (c *compiler) emitAdd(delta int8) {
	c.w.addMemImm8(delta)
}

func (c *compiler) emitSetZero() {
	c.w.movMemImm8(0)
}

// emitPrologue saves the four callee-saved registers and initializes
// pointer/mem_start/mem_limit/rts from the three incoming arguments
// (head, length, rts), in that order, per the SysV integer-argument
// registers rdi/rsi/rdx.
func (c *compiler) emitPrologue() {
	c.w.pushReg(regPointer)
	c.w.pushReg(regMemStart)
	c.w.pushReg(regMemLimit)
	c.w.pushReg(regRTS)

	c.w.movRegReg64(regPointer, rdi)
	c.w.movRegReg64(regMemStart, rdi)
	c.w.movRegReg64(regMemLimit, rdi)
	c.w.addRegReg64(regMemLimit, rsi)
	c.w.movRegReg64(regRTS, rdx)
}

// Status codes returned in rax, fixed at build time per spec.md §4.8.
const (
	statusOkay      = 0
	statusUnderflow = 1
	statusOverflow  = 2
)

// emitEpilogue emits the three labeled tails every check branches to and
// restores the callee-saved registers.
func (c *compiler) emitEpilogue() {
	c.w.movRegImm32(rax, statusOkay)
	c.w.jumpTo(c.finish, 0xE9)

	c.w.markLabel(c.underflow)
	c.w.movRegImm32(rax, statusUnderflow)
	c.w.jumpTo(c.finish, 0xE9)

	c.w.markLabel(c.overflow)
	c.w.movRegImm32(rax, statusOverflow)

	c.w.markLabel(c.finish)
	c.w.popReg(regRTS)
	c.w.popReg(regMemLimit)
	c.w.popReg(regMemStart)
	c.w.popReg(regPointer)
	c.w.emit(0xC3) // RET
}
