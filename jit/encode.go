package jit

import "encoding/binary"

// rexByte builds a REX prefix. w selects 64-bit operand size; r/x/b extend
// the ModRM.reg, SIB.index, and ModRM.rm/SIB.base fields respectively to
// reach registers r8-r15.
func rexByte(w, r, x, b bool) byte {
	rex := byte(0x40)
	if w {
		rex |= 0x08
	}
	if r {
		rex |= 0x04
	}
	if x {
		rex |= 0x02
	}
	if b {
		rex |= 0x01
	}
	return rex
}

func modrmByte(mod, regField, rm byte) byte {
	return mod<<6 | (regField&0x7)<<3 | (rm & 0x7)
}

// Register-to-register forms. dst is always the ModRM.rm operand, src the
// ModRM.reg operand, matching the MOV/ADD/SUB/CMP/XOR r/m64,r64 encodings
// (opcode's direction bit is 0: register field is the source).

func (w *writer) movRegReg64(dst, src reg) { w.rrOp(0x89, dst, src) }
func (w *writer) addRegReg64(dst, src reg) { w.rrOp(0x01, dst, src) }
func (w *writer) subRegReg64(dst, src reg) { w.rrOp(0x29, dst, src) }
func (w *writer) xorRegReg64(dst, src reg) { w.rrOp(0x31, dst, src) }
func (w *writer) cmpRegReg64(a, b reg)     { w.rrOp(0x39, a, b) }

func (w *writer) rrOp(opcode byte, rm, regField reg) {
	w.emit(rexByte(true, regField.needsREXExt(), false, rm.needsREXExt()))
	w.emit(opcode)
	w.emit(modrmByte(3, regField.low3(), rm.low3()))
}

func (w *writer) negReg64(r reg) {
	w.emit(rexByte(true, false, false, r.needsREXExt()))
	w.emit(0xF7)
	w.emit(modrmByte(3, 3, r.low3())) // /3 = NEG
}

func (w *writer) pushReg(r reg) {
	if r.needsREXExt() {
		w.emit(0x41)
	}
	w.emit(0x50 + r.low3())
}

func (w *writer) popReg(r reg) {
	if r.needsREXExt() {
		w.emit(0x41)
	}
	w.emit(0x58 + r.low3())
}

func (w *writer) subRegImm8(r reg, imm int8) { w.riOp8(0x83, 5, r, imm) }
func (w *writer) addRegImm8(r reg, imm int8) { w.riOp8(0x83, 0, r, imm) }
func (w *writer) cmpRegImm8(r reg, imm int8) { w.riOp8(0x83, 7, r, imm) }

func (w *writer) riOp8(opcode, ext byte, r reg, imm int8) {
	w.emit(rexByte(true, false, false, r.needsREXExt()))
	w.emit(opcode)
	w.emit(modrmByte(3, ext, r.low3()))
	w.emit(byte(imm))
}

// movRegImm32 zero-extends v into r's full 64 bits; no REX.W needed.
func (w *writer) movRegImm32(r reg, v uint32) {
	if r.needsREXExt() {
		w.emit(0x41)
	}
	w.emit(0xB8 + r.low3())
	w.emitU32(v)
}

func (w *writer) movRegImm64(r reg, v uint64) {
	w.emit(rexByte(true, false, false, r.needsREXExt()))
	w.emit(0xB8 + r.low3())
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.emit(buf[:]...)
}

func (w *writer) callReg(r reg) {
	if r.needsREXExt() {
		w.emit(0x41)
	}
	w.emit(0xFF)
	w.emit(modrmByte(3, 2, r.low3())) // /2 = CALL
}

func (w *writer) syscall_() {
	w.emit(0x0F, 0x05)
}

// --- Memory operands, all addressed off `pointer` (r12). ---
//
// [pointer] always needs a SIB byte because r12's low 3 bits (100) collide
// with the ModRM encoding that means "SIB follows"; the SIB itself is a
// fixed byte (0x24: no index, base=r12) since every access here is either
// base-only or base+rax with unit scale.

const (
	sibNoIndex  = 0x24 // scale=0 index=none(100) base=r12(100)
	sibRaxIndex = 0x04 // scale=0 index=rax(000) base=r12(100)
)

func (w *writer) cmpMemImm8(imm int8) {
	w.emit(0x41, 0x80)
	w.emit(modrmByte(0, 7, 4), sibNoIndex)
	w.emit(byte(imm))
}

func (w *writer) movMemImm8(v byte) {
	w.emit(0x41, 0xC6)
	w.emit(modrmByte(0, 0, 4), sibNoIndex)
	w.emit(v)
}

func (w *writer) addMemImm8(imm int8) {
	w.emit(0x41, 0x80)
	w.emit(modrmByte(0, 0, 4), sibNoIndex)
	w.emit(byte(imm))
}

// movRegMem8 loads byte [pointer] into an 8-bit register (cl or dl; both
// < r8, so no REX.R is needed beyond the mandatory REX.B for r12).
func (w *writer) movRegMem8(dst reg) {
	w.emit(0x41, 0x8A)
	w.emit(modrmByte(0, dst.low3(), 4), sibNoIndex)
}

// movzxRegMem32 zero-extends byte [pointer] into a 32-bit register.
func (w *writer) movzxRegMem32(dst reg) {
	w.emit(0x41, 0x0F, 0xB6)
	w.emit(modrmByte(0, dst.low3(), 4), sibNoIndex)
}

// movMemReg8 stores an 8-bit register into byte [pointer].
func (w *writer) movMemReg8(src reg) {
	w.emit(0x41, 0x88)
	w.emit(modrmByte(0, src.low3(), 4), sibNoIndex)
}

// addMemIndexedReg8 emits `add byte [pointer+rax], src8`, the final step
// of OffsetAddRight/Left once rax holds the (possibly negated) offset.
func (w *writer) addMemIndexedReg8(src reg) {
	w.emit(0x41, 0x00)
	w.emit(modrmByte(0, src.low3(), 4), sibRaxIndex)
}

// movRegMemDisp8 loads a qword from [base+disp8] into dst. Used only for
// reading the RTS object's fd fields, where base is always regRTS.
func (w *writer) movRegMemDisp8(dst, base reg, disp int8) {
	w.emit(rexByte(true, dst.needsREXExt(), false, base.needsREXExt()))
	w.emit(0x8B)
	w.emit(modrmByte(1, dst.low3(), base.low3()), byte(disp))
}

// movMemDisp8Imm32 stores a sign-extended imm32 to qword [base+disp8].
// Used only to latch an I/O error flag onto the RTS object.
func (w *writer) movMemDisp8Imm32(base reg, disp int8, v uint32) {
	w.emit(rexByte(true, false, false, base.needsREXExt()))
	w.emit(0xC7)
	w.emit(modrmByte(1, 0, base.low3()), byte(disp))
	w.emitU32(v)
}
