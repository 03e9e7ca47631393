package core

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to callers of the resolver.
var (
	// ErrMissingCredential is returned when no usable bearer token was found:
	// the header is absent, blank, uses another scheme, or carries an empty token.
	ErrMissingCredential = errors.New("bearer credential missing")

	// ErrMissingClaim is returned when a required claim could not be resolved.
	// It is always wrapped by a *MissingClaimError naming the claim.
	ErrMissingClaim = errors.New("required claim missing")

	// ErrClaimNotFound is returned when a claim value cannot be retrieved from context.
	ErrClaimNotFound = errors.New("claim not found in context")
)

// Failure reasons. These never reach callers of Resolve; they are logged and
// reported through Outcome.Reason so diagnostics can tell why a claim is absent.
var (
	// ErrTokenStructure means the token has fewer than two dot separated segments.
	ErrTokenStructure = errors.New("token has no payload segment")

	// ErrPayloadEncoding means the payload segment is not valid base64url.
	ErrPayloadEncoding = errors.New("payload is not valid base64url")

	// ErrPayloadJSON means the decoded payload is not a JSON object.
	ErrPayloadJSON = errors.New("payload is not a JSON object")

	// ErrCoercion means the claim value could not be converted to the requested kind.
	ErrCoercion = errors.New("claim value cannot be coerced")
)

// Machine-readable error codes, used by adapters when rendering responses.
const (
	ErrorCodeMissingCredential = "missing_credential"
	ErrorCodeMissingClaim      = "missing_claim"
)

// MissingClaimError reports a required claim that was absent from the token,
// or present but not convertible to the requested kind.
type MissingClaimError struct {
	// Claim is the name of the claim that was requested.
	Claim string
}

// Error implements the error interface.
func (e *MissingClaimError) Error() string {
	return fmt.Sprintf("required claim %q is missing", e.Claim)
}

// Is allows the error to be compared with ErrMissingClaim.
func (e *MissingClaimError) Is(target error) bool {
	return target == ErrMissingClaim
}

// Code returns the machine-readable code for the error.
func (e *MissingClaimError) Code() string {
	return ErrorCodeMissingClaim
}

// ErrorCode maps a resolution error to its machine-readable code.
// It returns an empty string for errors that did not originate in this package.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return ErrorCodeMissingCredential
	case errors.Is(err, ErrMissingClaim):
		return ErrorCodeMissingClaim
	default:
		return ""
	}
}

// coercionError wraps a conversion failure with ErrCoercion.
type coercionError struct {
	kind    Kind
	details error
}

func (e *coercionError) Error() string {
	return fmt.Sprintf("%s to %s: %s", ErrCoercion, e.kind, e.details)
}

func (e *coercionError) Is(target error) bool {
	return target == ErrCoercion
}

func (e *coercionError) Unwrap() error {
	return e.details
}
