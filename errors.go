package bigrpn

import (
	"errors"
	"fmt"

	"golang.org/x/xerrors"
)

// ErrorKind classifies why an evaluation failed.
type ErrorKind uint8

const (
	// KindUnknown covers arithmetic that cannot produce a value, such as
	// division or modulo by zero, and operators that fall through dispatch.
	KindUnknown ErrorKind = iota
	// KindFailedToParseNumber: a non-operator token is not an integer literal.
	KindFailedToParseNumber
	// KindNotEnoughOperands: an operator saw fewer than two values, or the
	// expression produced no value at all.
	KindNotEnoughOperands
	// KindNotEnoughOperators: more than one value was left at the end.
	KindNotEnoughOperators
)

func (k ErrorKind) String() string {
	switch k {
	case KindFailedToParseNumber:
		return "FailedToParseNumber"
	case KindNotEnoughOperands:
		return "NotEnoughOperands"
	case KindNotEnoughOperators:
		return "NotEnoughOperators"
	default:
		return "Unknown"
	}
}

// Error is the error returned by Evaluate. Token and Index locate the token
// being processed when the error occurred; Index is -1 when the error was
// detected after all tokens were consumed.
type Error struct {
	Kind  ErrorKind
	Token string
	Index int
	Err   error
}

var (
	ErrFailedToParseNumber = &Error{Kind: KindFailedToParseNumber, Index: -1}
	ErrNotEnoughOperands   = &Error{Kind: KindNotEnoughOperands, Index: -1}
	ErrNotEnoughOperators  = &Error{Kind: KindNotEnoughOperators, Index: -1}
	ErrUnknown             = &Error{Kind: KindUnknown, Index: -1}

	// ErrDivisionByZero is wrapped by a KindUnknown *Error.
	ErrDivisionByZero = errors.New("division by zero")
)

func (e *Error) Error() string {
	msg := e.Kind.String()
	switch {
	case e.Index >= 0:
		msg = fmt.Sprintf("%s: token %q at %d", msg, e.Token, e.Index)
	case e.Token != "":
		msg = fmt.Sprintf("%s: %q", msg, e.Token)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so the package
// sentinels match any error of their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's tree, searched
// depth-first in the same order as errors.Is.
func KindOf(err error) (ErrorKind, bool) {
	switch err := err.(type) {
	case nil:
		return KindUnknown, false
	case *Error:
		return err.Kind, true
	case xerrors.Wrapper:
		return KindOf(err.Unwrap())
	case interface{ Unwrap() []error }:
		for _, e := range err.Unwrap() {
			if kind, ok := KindOf(e); ok {
				return kind, true
			}
		}
		return KindUnknown, false
	default:
		return KindUnknown, false
	}
}

// IsArithmeticError reports whether err means the expression was well formed
// but its arithmetic could not be carried out.
func IsArithmeticError(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindUnknown
}
