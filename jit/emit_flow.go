package jit

import (
	"github.com/tapehead/bf"
	"github.com/tapehead/bf/peephole"
)

// compileProgram emits code for an entire peephole sequence, dispatching
// each node to its instruction-family emitter.
func (c *compiler) compileProgram(prog peephole.Program) {
	for _, n := range prog {
		if n.IsLoop() {
			c.emitLoop(n.Body)
			continue
		}
		c.compileInstr(n.Instr)
	}
}

func (c *compiler) compileInstr(instr bf.Instruction) {
	switch instr.Op {
	case bf.KLeft:
		c.emitLeft(instr.N)
	case bf.KRight:
		c.emitRight(instr.N)
	case bf.KAdd:
		c.emitAdd(instr.Delta())
	case bf.KIn:
		c.emitIn()
	case bf.KOut:
		c.emitOut()
	case bf.KSetZero:
		c.emitSetZero()
	case bf.KOffsetAddRight:
		c.emitOffsetAddRight(instr.N)
	case bf.KOffsetAddLeft:
		c.emitOffsetAddLeft(instr.N)
	case bf.KFindZeroRight:
		c.emitFindZeroRight(instr.N)
	case bf.KFindZeroLeft:
		c.emitFindZeroLeft(instr.N)
	}
}

// emitLoop emits `jmp end; begin: body; end: cmp [pointer],0; jnz begin`,
// bracketing body emission with the abstract interpreter's conservative
// zero-or-many-iterations merge.
func (c *compiler) emitLoop(body peephole.Program) {
	begin := c.w.newLabel()
	end := c.w.newLabel()

	c.analysis.EnterLoop()

	c.w.jumpTo(end, 0xE9) // JMP end
	c.w.markLabel(begin)
	c.compileProgram(body)
	c.w.markLabel(end)
	c.w.cmpMemImm8(0)
	c.w.jumpTo(begin, 0x0F, 0x85) // JNZ begin

	c.analysis.LeaveLoop()
}

// emitFindZeroRight resets right-side slack (the loop's exit position is
// unknown beyond "rightward"), then emits the textbook jump-to-test loop.
// Every iteration re-checks bounds with proved=false: a single compile-time
// proof can't cover an unbounded number of iterations of the same step,
// matching the original compiler's load_pos_offset(skip, false).
func (c *compiler) emitFindZeroRight(n bf.Count) {
	c.analysis.ResetRight()

	end := c.w.newLabel()
	begin := c.w.newLabel()
	c.w.jumpTo(end, 0xE9)
	c.w.markLabel(begin)
	c.emitRightCheck(n, false)
	c.w.addRegReg64(regPointer, rax)
	c.w.markLabel(end)
	c.w.cmpMemImm8(0)
	c.w.jumpTo(begin, 0x0F, 0x85) // JNZ begin
}

func (c *compiler) emitFindZeroLeft(n bf.Count) {
	c.analysis.ResetLeft()

	end := c.w.newLabel()
	begin := c.w.newLabel()
	c.w.jumpTo(end, 0xE9)
	c.w.markLabel(begin)
	c.emitLeftCheck(n, false)
	c.w.subRegReg64(regPointer, rax)
	c.w.markLabel(end)
	c.w.cmpMemImm8(0)
	c.w.jumpTo(begin, 0x0F, 0x85) // JNZ begin
}

// emitOffsetAddRight emits the OffsetAddRight(k) idiom: skip entirely if
// the current cell is already 0, otherwise move it into cell[+k] and
// zero it out.
func (c *compiler) emitOffsetAddRight(k bf.Count) {
	proved := c.analysis.CheckRight(k)

	skip := c.w.newLabel()
	c.w.cmpMemImm8(0)
	c.w.jumpTo(skip, 0x0F, 0x84) // JZ skip
	c.emitRightCheck(k, proved)
	c.w.movRegMem8(rcx)
	c.w.movMemImm8(0)
	c.w.addMemIndexedReg8(rcx)
	c.w.markLabel(skip)
}

func (c *compiler) emitOffsetAddLeft(k bf.Count) {
	proved := c.analysis.CheckLeft(k)

	skip := c.w.newLabel()
	c.w.cmpMemImm8(0)
	c.w.jumpTo(skip, 0x0F, 0x84) // JZ skip
	c.emitLeftCheck(k, proved)
	c.w.negReg64(rax)
	c.w.movRegMem8(rcx)
	c.w.movMemImm8(0)
	c.w.addMemIndexedReg8(rcx)
	c.w.markLabel(skip)
}
