package core

import (
	"context"
	"fmt"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	valuesKey contextKey = iota
)

// WithValues stores resolved claim values in the context. Values already in the
// context are kept unless overwritten by a claim of the same name.
func WithValues(ctx context.Context, values Values) context.Context {
	if existing, ok := ctx.Value(valuesKey).(Values); ok && len(existing) > 0 {
		merged := make(Values, len(existing)+len(values))
		for k, v := range existing {
			merged[k] = v
		}
		for k, v := range values {
			merged[k] = v
		}
		values = merged
	}
	return context.WithValue(ctx, valuesKey, values)
}

// ValuesFrom returns all claim values stored in the context.
func ValuesFrom(ctx context.Context) (Values, bool) {
	values, ok := ctx.Value(valuesKey).(Values)
	return values, ok
}

// Lookup returns the value of the named claim. The boolean is false when the
// claim was not resolved (an absent optional claim) or has another type.
func Lookup[T any](ctx context.Context, name string) (T, bool) {
	v, err := Get[T](ctx, name)
	return v, err == nil
}

// Get returns the value of the named claim with type safety.
//
// Example:
//
//	sub, err := core.Get[string](ctx, "sub")
//	if err != nil {
//	    return err
//	}
func Get[T any](ctx context.Context, name string) (T, error) {
	var zero T

	values, _ := ValuesFrom(ctx)
	raw, ok := values[name]
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrClaimNotFound, name)
	}

	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("claim %q holds %T, not %T", name, raw, zero)
	}

	return v, nil
}

// Has reports whether the named claim was resolved into the context.
func Has(ctx context.Context, name string) bool {
	values, _ := ValuesFrom(ctx)
	_, ok := values[name]
	return ok
}
