// Defines constants representing the types of errors
// that the keybase.io client may report to a caller.

package protocol

import "errors"

// An ErrorCode implies one of the client's failure conditions:
// operating on an instance that was never bound to a username,
// a username missing from the public directory, a misused or
// uninterpretable directory lookup, unusable public-key material,
// a failed signature verification, or a rejected encryption request.
type ErrorCode int

const (
	// ReqSuccess indicates a successful directory request.
	ReqSuccess ErrorCode = 10 + iota
	// ErrUnboundInstance indicates that an operation requiring
	// a resolved user was invoked on an unbound client handle.
	ErrUnboundInstance
	// ErrUserNotFound indicates that the directory has no entry
	// for the requested username.
	ErrUserNotFound
	// ErrLookupInvalid indicates a misused lookup, e.g. a second
	// lookup on a handle that is already bound to a username.
	ErrLookupInvalid
	// ErrMalformedResponse indicates that the directory responded
	// with data the client could not interpret.
	ErrMalformedResponse
	// ErrPublicKey indicates a problem with the public-key material
	// itself: a missing bundle, an unparsable bundle, or a bundle
	// whose fingerprint does not match its directory record.
	ErrPublicKey
	// ErrVerification indicates that a signature check failed.
	ErrVerification
	// ErrEncryption indicates that the cryptographic engine
	// rejected an encryption request.
	ErrEncryption
)

var errorMessages = map[ErrorCode]string{
	ReqSuccess:           "[keybase] Request successful",
	ErrUnboundInstance:   "[keybase] Client instance is not bound to a username",
	ErrUserNotFound:      "[keybase] User not found in the public directory",
	ErrLookupInvalid:     "[keybase] Invalid directory lookup",
	ErrMalformedResponse: "[keybase] Malformed directory response",
	ErrPublicKey:         "[keybase] Unusable public-key material",
	ErrVerification:      "[keybase] Signature verification failed",
	ErrEncryption:        "[keybase] Encryption request rejected",
}

// Error returns the error message of the given ErrorCode.
func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}
	return "[keybase] Unknown error code"
}

// A VerificationError reports a failed signature check together with a
// human-readable reason, e.g. "signature bad". It is only surfaced when
// the caller opts into strict verification; the non-strict verify calls
// report a bad signature as a plain false.
type VerificationError struct {
	Reason string
}

// NewVerificationError constructs a VerificationError for the
// given reason.
func NewVerificationError(reason string) *VerificationError {
	return &VerificationError{Reason: reason}
}

// Error returns the verification failure message with its reason.
func (e *VerificationError) Error() string {
	return ErrVerification.Error() + ": " + e.Reason
}

// Is reports whether target is ErrVerification, so that
// errors.Is(err, protocol.ErrVerification) matches a
// *VerificationError.
func (e *VerificationError) Is(target error) bool {
	return target == ErrVerification
}

var _ error = (*VerificationError)(nil)
var _ error = ErrorCode(0)

// IsUserNotFound reports whether err indicates that a username is
// missing from the public directory.
func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}
