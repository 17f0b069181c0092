package jit

import "encoding/binary"

// writer accumulates emitted machine code plus a label/fixup table for
// forward and backward jumps, grounded on the mmap'd-page emitter scaffold
// other JIT-producing code in the corpus uses: code is appended linearly,
// labels record positions, and fixups patch a 4-byte relative displacement
// once every label referenced has a known position.
type writer struct {
	code   []byte
	labels []int // position of each label, -1 if not yet marked
	fixups []fixup
}

type fixup struct {
	codePos int // position of the 4-byte displacement field itself
	labelID int
}

func newWriter() *writer {
	return &writer{}
}

func (w *writer) pos() int {
	return len(w.code)
}

func (w *writer) emit(b ...byte) {
	w.code = append(w.code, b...)
}

func (w *writer) emitU32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.emit(buf[:]...)
}

// newLabel allocates a label with no known position yet.
func (w *writer) newLabel() int {
	w.labels = append(w.labels, -1)
	return len(w.labels) - 1
}

// markLabel records the current position as the target for id.
func (w *writer) markLabel(id int) {
	w.labels[id] = w.pos()
}

// jumpTo emits opcode bytes followed by a 4-byte placeholder displacement
// that resolve fills in once id's position is known. opcode is whatever
// precedes the rel32 operand (e.g. 0xE9 for JMP, or 0x0F 0x85 for JNZ).
func (w *writer) jumpTo(id int, opcode ...byte) {
	w.emit(opcode...)
	w.fixups = append(w.fixups, fixup{codePos: w.pos(), labelID: id})
	w.emitU32(0)
}

// resolve patches every recorded fixup's displacement now that all labels
// have been marked. The displacement is relative to the first byte past
// the 4-byte field, matching x86 rel32 semantics.
func (w *writer) resolve() {
	for _, f := range w.fixups {
		target := w.labels[f.labelID]
		disp := int32(target - (f.codePos + 4))
		binary.LittleEndian.PutUint32(w.code[f.codePos:f.codePos+4], uint32(disp))
	}
}
