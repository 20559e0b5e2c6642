package txscript

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode identifies a kind of script error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrInternal is returned if internal consistency checks fail.
	ErrInternal ErrorCode = iota

	// ErrInvalidOpcode is returned when a script contains a byte that does not
	// map to any opcode.
	ErrInvalidOpcode

	// ErrMalformedPush is returned when an opcode operand runs past the end
	// of the script.
	ErrMalformedPush

	// ErrScriptTooBig is returned if a script is larger than MaxScriptSize.
	ErrScriptTooBig

	// ErrElementTooBig is returned if the size of an element to be pushed to
	// the stack is over MaxElementSize.
	ErrElementTooBig

	// ErrStackOverflow is returned when the stack would exceed MaxStackSize
	// items.
	ErrStackOverflow

	// ErrInvalidStackOperation is returned when an opcode needs more items
	// than the stack holds.
	ErrInvalidStackOperation

	// ErrStepLimit is returned when evaluation executes more than MaxSteps
	// instructions.
	ErrStepLimit

	// ErrNotPushOnly is returned when an unlock script contains an opcode
	// other than a push, a pop or a no-op.
	ErrNotPushOnly

	// ErrLockScriptHashMismatch is returned when a lock script does not hash
	// to the lock script hash recorded in the spent output.
	ErrLockScriptHashMismatch

	// ErrUnexpectedResult is returned when evaluation finishes with a result
	// other than the one the input kind requires.
	ErrUnexpectedResult

	// ErrInvalidParameterCount is returned when an output locked by a
	// standard script does not carry exactly one parameter.
	ErrInvalidParameterCount

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInternal:               "ErrInternal",
	ErrInvalidOpcode:          "ErrInvalidOpcode",
	ErrMalformedPush:          "ErrMalformedPush",
	ErrScriptTooBig:           "ErrScriptTooBig",
	ErrElementTooBig:          "ErrElementTooBig",
	ErrStackOverflow:          "ErrStackOverflow",
	ErrInvalidStackOperation:  "ErrInvalidStackOperation",
	ErrStepLimit:              "ErrStepLimit",
	ErrNotPushOnly:            "ErrNotPushOnly",
	ErrLockScriptHashMismatch: "ErrLockScriptHashMismatch",
	ErrUnexpectedResult:       "ErrUnexpectedResult",
	ErrInvalidParameterCount:  "ErrInvalidParameterCount",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a script-related error. It is used to indicate three
// classes of errors:
// 1) Script execution failures due to violating one of the many requirements
//    imposed by the script engine
// 2) Improper API usage by callers
// 3) Internal consistency check failures
//
// The caller can use type assertions on the returned errors to access the
// ErrorCode field to ascertain the specific reason for the error.
type Error struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// scriptError creates an Error given a set of arguments.
func scriptError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a script error
// with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var scriptErr Error
	if ok := errors.As(err, &scriptErr); ok {
		return scriptErr.ErrorCode == c
	}
	return false
}
