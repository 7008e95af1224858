package expression

import "fmt"

// ErrorKind classifies why an expression could not be evaluated.
type ErrorKind int

const (
	KindSyntax ErrorKind = iota + 1
	KindUnknownIdentifier
	KindDomain
	KindLimit
	KindFatal
)

func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxError"
	case KindUnknownIdentifier:
		return "UnknownIdentifier"
	case KindDomain:
		return "DomainError"
	case KindLimit:
		return "LimitExceeded"
	case KindFatal:
		return "Fatal"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned by every stage of the pipeline. Pos is the byte offset
// into the canonical expression, or -1 when no position applies.
type Error struct {
	Kind ErrorKind
	Msg  string
	Pos  int
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s: %s at position %d", e.Kind, e.Msg, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func errorf(kind ErrorKind, pos int, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: pos}
}
