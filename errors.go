package bf

import "fmt"

// ErrorKind distinguishes the two error families this system can produce,
// as described in spec.md §7: syntax errors (parser only) and runtime
// errors (any interpreter, or the JIT via its status-code ABI).
type ErrorKind int

const (
	// UnmatchedBegin: the parser reached end of input with open loops.
	UnmatchedBegin ErrorKind = iota
	// UnmatchedEnd: a ']' appeared with no matching '['.
	UnmatchedEnd
	// PointerUnderflow: a head movement or offset-add went below cell 0.
	PointerUnderflow
	// PointerOverflow: a head movement or offset-add went past the last cell.
	PointerOverflow
	// IOError: the host input/output stream failed. Not named in spec.md's
	// error family list, which only enumerates the pointer kinds; added
	// here because spec.md §7 still requires I/O failures to terminate as
	// runtime errors, and invariant 1 in §8 requires every backend to
	// agree on terminal error *kind*, which a bare PointerOverflow reuse
	// would misrepresent.
	IOError
)

// String names an ErrorKind for diagnostics.
func (k ErrorKind) String() string {
	switch k {
	case UnmatchedBegin:
		return "UnmatchedBegin"
	case UnmatchedEnd:
		return "UnmatchedEnd"
	case PointerUnderflow:
		return "PointerUnderflow"
	case PointerOverflow:
		return "PointerOverflow"
	case IOError:
		return "IOError"
	default:
		return "ErrorKind(?)"
	}
}

// Error is the concrete error type every parser and interpreter in this
// module returns. Callers compare against Kind (or use errors.Is with the
// Err* sentinels below) rather than matching message text, since the five execution backends
// must agree on terminal error kind, not wording.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is makes Error comparable via errors.Is against the sentinel values
// below: two *Error values are equivalent if they carry the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// newError builds an *Error with a formatted message.
func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Sentinel errors for errors.Is comparisons against a fixed Kind,
// ignoring the message.
var (
	ErrUnmatchedBegin   = &Error{Kind: UnmatchedBegin}
	ErrUnmatchedEnd     = &Error{Kind: UnmatchedEnd}
	ErrPointerUnderflow = &Error{Kind: PointerUnderflow}
	ErrPointerOverflow  = &Error{Kind: PointerOverflow}
	ErrIO               = &Error{Kind: IOError}
)

// NewSyntaxError builds an UnmatchedBegin/UnmatchedEnd error.
func NewSyntaxError(kind ErrorKind, format string, args ...any) *Error {
	return newError(kind, format, args...)
}

// NewRuntimeError builds a PointerUnderflow/PointerOverflow/IOError error.
func NewRuntimeError(kind ErrorKind, format string, args ...any) *Error {
	return newError(kind, format, args...)
}
