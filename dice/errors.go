// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

////////////////////////////////////////////////////////////////////////////////////////
//                                                                                    //
//                                   Error Kinds                                      //
//                                                                                    //
// The engine reports at most one error per evaluation. Callers distinguish failure   //
// modes by Kind rather than by parsing the message text.                            //
//                                                                                    //
////////////////////////////////////////////////////////////////////////////////////////

package dice

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies a category of engine failure. See the table in the dice-engine
// specification (§7 Error Handling Design) for the authoritative trigger for each.
type Kind int

const (
	// KindNone means no error has occurred.
	KindNone Kind = iota

	KindParseExpected
	KindParseUnexpectedTrailing
	KindParseMissingOperator

	KindArenaOutOfMemory

	KindPolicyDiceCount
	KindPolicySides

	KindInvalidDiceCount
	KindInvalidDiceSides

	KindDivisionByZero

	KindUnknownCustomDie
	KindEmptyCustomDie

	KindInvalidComparison
	KindRerollLimitExceeded

	KindRngFailure
	KindNotSupported
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindParseExpected:
		return "ParseExpected"
	case KindParseUnexpectedTrailing:
		return "ParseUnexpectedTrailing"
	case KindParseMissingOperator:
		return "ParseMissingOperator"
	case KindArenaOutOfMemory:
		return "ArenaOutOfMemory"
	case KindPolicyDiceCount:
		return "PolicyDiceCount"
	case KindPolicySides:
		return "PolicySides"
	case KindInvalidDiceCount:
		return "InvalidDiceCount"
	case KindInvalidDiceSides:
		return "InvalidDiceSides"
	case KindDivisionByZero:
		return "DivisionByZero"
	case KindUnknownCustomDie:
		return "UnknownCustomDie"
	case KindEmptyCustomDie:
		return "EmptyCustomDie"
	case KindInvalidComparison:
		return "InvalidComparison"
	case KindRerollLimitExceeded:
		return "RerollLimitExceeded"
	case KindRngFailure:
		return "RngFailure"
	case KindNotSupported:
		return "NotSupported"
	default:
		return "Unknown"
	}
}

// EvalError is the single error type the engine ever returns from parsing or
// evaluation. The message slot in the original C implementation was a fixed
// 256-byte buffer; here it is just a string. The Context that owns it keeps
// one error at a time, replacing it with each later failure.
type EvalError struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *EvalError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap exposes any cause attached by wrapError so callers
// can use errors.Is/errors.As across the engine/persistence boundary.
func (e *EvalError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func newError(kind Kind, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, cause error, format string, args ...any) *EvalError {
	msg := fmt.Sprintf(format, args...)
	return &EvalError{Kind: kind, Message: msg, cause: errors.Wrap(cause, msg)}
}
