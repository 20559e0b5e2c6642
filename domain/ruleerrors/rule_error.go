package ruleerrors

import (
	"github.com/pkg/errors"
)

// These constants are used to identify a specific RuleError.
var (
	// ErrMalformedInput indicates a field with the wrong shape or length, such
	// as a signature string that is not 65 bytes or a parameter list of the
	// wrong size.
	ErrMalformedInput = newRuleError("ErrMalformedInput")

	// ErrMissingRequiredField indicates an attempt to encode or sign a parcel
	// that lacks its nonce or fee.
	ErrMissingRequiredField = newRuleError("ErrMissingRequiredField")

	// ErrUnknownAddressType indicates an address with an unrecognized version
	// or type tag.
	ErrUnknownAddressType = newRuleError("ErrUnknownAddressType")

	// ErrNetworkMismatch indicates an address that belongs to a different network.
	ErrNetworkMismatch = newRuleError("ErrNetworkMismatch")

	// ErrAuthorizationFailure indicates an unlock proof that does not satisfy
	// the lock condition of the output it spends.
	ErrAuthorizationFailure = newRuleError("ErrAuthorizationFailure")

	// ErrKeyNotFound indicates that the key store cannot resolve a public key
	// from the given hash.
	ErrKeyNotFound = newRuleError("ErrKeyNotFound")
)

// RuleError identifies a rule violation. Callers use errors.Is against the
// exported sentinels above to find out which rule was violated.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

// Is reports whether target is a RuleError with the same message, so wrapped
// rule errors carrying an inner cause still match their sentinel.
func (e RuleError) Is(target error) bool {
	var other RuleError
	if !errors.As(target, &other) {
		return false
	}
	return e.message == other.message
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}

// Wrap attaches cause to the given rule error sentinel, keeping the result
// matchable with errors.Is(err, rule).
func Wrap(rule RuleError, cause error) error {
	return errors.WithStack(RuleError{message: rule.message, inner: cause})
}
