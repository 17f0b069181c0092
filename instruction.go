package bf

// Kind distinguishes the composite instruction forms used by the peephole
// IR and bytecode. Only one field below is meaningful for a given Kind;
// see the Instruction doc comment.
type Kind int

const (
	// KLeft moves the head left by N. N is never 0.
	KLeft Kind = iota
	// KRight moves the head right by N. N is never 0.
	KRight
	// KAdd adds a wrapping 8-bit delta to the current cell.
	KAdd
	// KIn reads one byte into the current cell.
	KIn
	// KOut writes the current cell as one byte.
	KOut
	// KJumpZero is bytecode-only: branch to Addr if the current cell is 0.
	KJumpZero
	// KJumpNotZero is bytecode-only: branch to Addr if the current cell is non-zero.
	KJumpNotZero
	// KSetZero stores 0 in the current cell.
	KSetZero
	// KOffsetAddRight adds the current cell (then zeroes it) to cell[+N].
	KOffsetAddRight
	// KOffsetAddLeft adds the current cell (then zeroes it) to cell[-N].
	KOffsetAddLeft
	// KFindZeroRight moves right by N repeatedly while the cell is non-zero.
	KFindZeroRight
	// KFindZeroLeft moves left by N repeatedly while the cell is non-zero.
	KFindZeroLeft
)

// String names a Kind for diagnostics and the bytecode disassembler.
func (k Kind) String() string {
	switch k {
	case KLeft:
		return "Left"
	case KRight:
		return "Right"
	case KAdd:
		return "Add"
	case KIn:
		return "In"
	case KOut:
		return "Out"
	case KJumpZero:
		return "JumpZero"
	case KJumpNotZero:
		return "JumpNotZero"
	case KSetZero:
		return "SetZero"
	case KOffsetAddRight:
		return "OffsetAddRight"
	case KOffsetAddLeft:
		return "OffsetAddLeft"
	case KFindZeroRight:
		return "FindZeroRight"
	case KFindZeroLeft:
		return "FindZeroLeft"
	default:
		return "Kind(?)"
	}
}

// Instruction is the composite alphabet shared by the peephole IR and
// bytecode. N carries the count/delta/addr payload for every Kind that
// needs one; Kind values without a payload (KIn, KOut, KSetZero) leave it
// zero.
type Instruction struct {
	Op Kind
	N  Count
}

// Delta reinterprets N as a signed 8-bit wrapping delta, for KAdd.
func (i Instruction) Delta() int8 {
	return int8(uint8(i.N))
}

// Lft builds a Left(n) instruction.
func Lft(n Count) Instruction { return Instruction{Op: KLeft, N: n} }

// Rgt builds a Right(n) instruction.
func Rgt(n Count) Instruction { return Instruction{Op: KRight, N: n} }

// AddI builds an Add(d) instruction from a wrapping 8-bit delta.
func AddI(d int8) Instruction { return Instruction{Op: KAdd, N: Count(uint8(d))} }
