package jwtclaims

import (
	"context"

	"github.com/microservicios/go-jwt-claims/core"
)

// String declares a claim resolved as text. See core.String.
func String(name string, opts ...core.ClaimOption) core.Claim[string] {
	return core.String(name, opts...)
}

// Int32 declares a claim resolved as a 32-bit integer. See core.Int32.
func Int32(name string, opts ...core.ClaimOption) core.Claim[int32] {
	return core.Int32(name, opts...)
}

// Int64 declares a claim resolved as a 64-bit integer. See core.Int64.
func Int64(name string, opts ...core.ClaimOption) core.Claim[int64] {
	return core.Int64(name, opts...)
}

// Bool declares a claim resolved as a boolean. See core.Bool.
func Bool(name string, opts ...core.ClaimOption) core.Claim[bool] {
	return core.Bool(name, opts...)
}

// Strings declares a claim holding a JSON array of strings. See core.Strings.
func Strings(name string, opts ...core.ClaimOption) core.Claim[[]string] {
	return core.Strings(name, opts...)
}

// Structured declares a claim decoded into T. See core.Structured.
func Structured[T any](name string, opts ...core.ClaimOption) core.Claim[T] {
	return core.Structured[T](name, opts...)
}

// Optional marks a claim as optional.
func Optional() core.ClaimOption {
	return core.Optional()
}

// GetClaim retrieves a resolved claim from the context with type safety using generics.
//
// Example:
//
//	sub, err := jwtclaims.GetClaim[string](r.Context(), "sub")
//	if err != nil {
//	    http.Error(w, "failed to get claim", http.StatusInternalServerError)
//	    return
//	}
func GetClaim[T any](ctx context.Context, name string) (T, error) {
	return core.Get[T](ctx, name)
}

// LookupClaim retrieves a resolved claim from the context. The boolean is false
// for optional claims that were absent from the token.
//
// Example:
//
//	if tenant, ok := jwtclaims.LookupClaim[int64](r.Context(), "tenant_id"); ok {
//	    // scope the query to tenant
//	}
func LookupClaim[T any](ctx context.Context, name string) (T, bool) {
	return core.Lookup[T](ctx, name)
}

// MustGetClaim retrieves a resolved claim from the context or panics.
// Use only for required claims bound by the middleware.
func MustGetClaim[T any](ctx context.Context, name string) T {
	v, err := core.Get[T](ctx, name)
	if err != nil {
		panic(err)
	}
	return v
}

// HasClaim checks if a claim was resolved into the context.
func HasClaim(ctx context.Context, name string) bool {
	return core.Has(ctx, name)
}
