package jwtclaimsgrpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/microservicios/go-jwt-claims/core"
)

// ErrorHandler converts resolution errors to gRPC status errors.
type ErrorHandler func(error) error

// DefaultErrorHandler maps resolution errors to gRPC status codes:
// a missing credential is Unauthenticated, a missing required claim or
// ambiguous metadata is InvalidArgument, anything else is Internal.
func DefaultErrorHandler(err error) error {
	if err == nil {
		return nil
	}

	var claimErr *core.MissingClaimError
	switch {
	case errors.Is(err, core.ErrMissingCredential):
		return status.Error(codes.Unauthenticated, "missing credentials")
	case errors.As(err, &claimErr):
		return status.Error(codes.InvalidArgument, claimErr.Error())
	case errors.Is(err, ErrMultipleAuthHeaders):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "unable to resolve claims")
	}
}
