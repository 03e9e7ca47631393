// Package jwtclaimsgrpc provides gRPC server interceptors that resolve bearer
// token claims from the "authorization" metadata entry.
package jwtclaimsgrpc

import (
	"context"

	"github.com/microservicios/go-jwt-claims/core"
)

// GetClaim retrieves a resolved claim from the context with type safety using generics.
//
// Example:
//
//	sub, err := jwtclaimsgrpc.GetClaim[string](ctx, "sub")
//	if err != nil {
//	    return nil, status.Error(codes.Internal, "failed to get claim")
//	}
func GetClaim[T any](ctx context.Context, name string) (T, error) {
	return core.Get[T](ctx, name)
}

// LookupClaim retrieves a resolved claim. The boolean is false for optional
// claims that were absent from the token.
func LookupClaim[T any](ctx context.Context, name string) (T, bool) {
	return core.Lookup[T](ctx, name)
}

// MustGetClaim retrieves a resolved claim from the context or panics.
// Use only for required claims bound to the method.
func MustGetClaim[T any](ctx context.Context, name string) T {
	v, err := core.Get[T](ctx, name)
	if err != nil {
		panic(err)
	}
	return v
}
