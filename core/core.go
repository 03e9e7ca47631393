// Package core provides the framework-agnostic claim resolution logic shared by
// the HTTP middleware and the gin, echo and gRPC adapters.
package core

import (
	"context"
	"errors"
)

// Logger defines the logging interface used by the resolver.
// It is satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Observer is notified once per claim resolved, with one of the result labels
// below. It is how adapters feed metrics without the core depending on them.
type Observer interface {
	ObserveClaim(ctx context.Context, claim string, result string)
}

// Result labels passed to Observer.
const (
	ResultPresent           = "present"
	ResultAbsent            = "absent"
	ResultFailed            = "failed"
	ResultMissingClaim      = "missing_claim"
	ResultMissingCredential = "missing_credential"
)

// Resolver extracts typed claims from bearer tokens.
//
// A Resolver holds no per-request state and is safe for concurrent use.
// It does NOT verify signatures or validate exp, aud or iss; the token must
// have been authenticated by an upstream gate before it reaches the resolver.
type Resolver struct {
	logger   Logger
	observer Observer
}

// Values maps claim names to resolved values for the claims that were present.
type Values map[string]any

// Payload is a located token after its payload segment has been decoded.
// When Reason is set the payload could not be decoded and Document is nil.
type Payload struct {
	Document Document
	Reason   error
}

// Decode locates the token in header and decodes its payload once.
//
// The only error returned is ErrMissingCredential. A payload that cannot be
// decoded is reported through Payload.Reason and logged at error level once for
// each of the given claim names.
func (r *Resolver) Decode(_ context.Context, header string, claims ...string) (Payload, error) {
	token, err := LocateToken(header)
	if err != nil {
		r.logger.Debug("no bearer credential in header")
		return Payload{}, err
	}

	doc, reason := DecodePayload(token)
	if reason != nil {
		if len(claims) == 0 {
			r.logger.Error("failed to decode token payload", "error", reason)
		}
		for _, name := range claims {
			r.logger.Error("failed to decode token payload", "claim", name, "error", reason)
		}
		return Payload{Reason: reason}, nil
	}

	return Payload{Document: doc}, nil
}

// Document locates the token in header and decodes its payload.
//
// The only error returned is ErrMissingCredential. A token whose payload cannot
// be decoded yields a nil Document and a nil error; the failure is logged.
func (r *Resolver) Document(ctx context.Context, header string) (Document, error) {
	p, err := r.Decode(ctx, header)
	return p.Document, err
}

// settle applies the required policy to an extraction outcome.
func (r *Resolver) settle(ctx context.Context, req Request, status Status, reason error) error {
	switch status {
	case StatusPresent:
		r.observe(ctx, req.Name, ResultPresent)
		return nil
	case StatusFailed:
		r.logger.Error("failed to coerce claim", "claim", req.Name, "kind", req.Kind.String(), "error", reason)
	}

	if req.Required {
		r.logger.Debug("required claim is missing", "claim", req.Name)
		r.observe(ctx, req.Name, ResultMissingClaim)
		return &MissingClaimError{Claim: req.Name}
	}

	if status == StatusFailed {
		r.observe(ctx, req.Name, ResultFailed)
	} else {
		r.observe(ctx, req.Name, ResultAbsent)
	}
	return nil
}

func (r *Resolver) observe(ctx context.Context, claim, result string) {
	if r.observer != nil {
		r.observer.ObserveClaim(ctx, claim, result)
	}
}

// Resolve extracts claim from the bearer token in header.
//
// It returns the value and true when the claim is present and convertible.
// When the claim is absent, or fails conversion, it returns the zero value and
// false for optional claims, and a *MissingClaimError for required ones. A
// header without a usable bearer token always fails with ErrMissingCredential,
// whether or not the claim is required.
func Resolve[T any](ctx context.Context, r *Resolver, header string, claim Claim[T]) (T, bool, error) {
	var zero T

	p, err := r.Decode(ctx, header, claim.Name())
	if err != nil {
		r.observe(ctx, claim.Name(), ResultMissingCredential)
		return zero, false, err
	}

	o := claim.Extract(p.Document)
	if err := r.settle(ctx, claim.Request(), o.Status, o.Reason); err != nil {
		return zero, false, err
	}
	if !o.Present() {
		return zero, false, nil
	}

	return o.Value, true, nil
}

// Inspect extracts claim from header and reports the detailed outcome,
// including the reason a value could not be produced. It ignores the required
// flag and does not log coercion failures. The only error is ErrMissingCredential.
func Inspect[T any](ctx context.Context, r *Resolver, header string, claim Claim[T]) (Outcome[T], error) {
	p, err := r.Decode(ctx, header, claim.Name())
	if err != nil {
		return Outcome[T]{}, err
	}
	return claim.ExtractFrom(p), nil
}

// ResolveAll resolves every binding against a single decode of the token in
// header. The returned Values hold only the claims that were present. The first
// required claim that is missing aborts resolution with a *MissingClaimError.
func (r *Resolver) ResolveAll(ctx context.Context, header string, bindings ...Binding) (Values, error) {
	names := make([]string, len(bindings))
	for i, b := range bindings {
		names[i] = b.Request().Name
	}

	p, err := r.Decode(ctx, header, names...)
	if err != nil {
		for _, name := range names {
			r.observe(ctx, name, ResultMissingCredential)
		}
		return nil, err
	}

	values := make(Values, len(bindings))
	for _, b := range bindings {
		req := b.Request()
		o := b.extract(p.Document)
		if err := r.settle(ctx, req, o.Status, o.Reason); err != nil {
			return nil, err
		}
		if o.Present() {
			values[req.Name] = o.Value
		}
	}

	return values, nil
}

// IsResolutionError reports whether err is one of the errors the resolver
// surfaces to callers.
func IsResolutionError(err error) bool {
	return errors.Is(err, ErrMissingCredential) || errors.Is(err, ErrMissingClaim)
}
