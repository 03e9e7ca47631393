/*
Package core provides framework-agnostic claim resolution: it reads a named
claim from the payload of the bearer token in a credential header and returns
it as a typed value.

The Resolver holds no per-request state. Adapters (the root jwtclaims net/http
middleware, framework/gin, framework/echo, framework/grpc) feed it the header
value and a list of claim declarations, and decide how failures become
responses.

# Security

The resolver does NOT verify token signatures and does NOT check exp, aud, iss
or any other registered claim. It only base64url-decodes the payload segment
and reads it. Deploy it behind a gate that has already authenticated the token,
such as an API gateway or a verifying middleware earlier in the chain. A client
that can reach the service directly can put any claims it likes in the token.

# Declaring Claims

Claims are declared with typed constructors. The Go type of the value is fixed
by the constructor, so the coercion applied always matches it:

	sub := core.String("sub")                       // required by default
	tenant := core.Int64("tenant_id", core.Optional())
	admin := core.Bool("is_admin", core.Optional())
	groups := core.Strings("groups", core.Optional())
	addr := core.Structured[Address]("address")

# Resolving

	resolver, err := core.New(core.WithLogger(logger))
	if err != nil {
	    log.Fatal(err)
	}

	header := r.Header.Get("Authorization")

	id, ok, err := core.Resolve(ctx, resolver, header, sub)
	switch {
	case errors.Is(err, core.ErrMissingCredential):
	    // no "Bearer <token>" header
	case errors.Is(err, core.ErrMissingClaim):
	    // required claim absent or not convertible
	case !ok:
	    // optional claim absent
	}

ResolveAll decodes the payload once and resolves many declarations:

	values, err := resolver.ResolveAll(ctx, header, sub, tenant, admin)
	ctx = core.WithValues(ctx, values)

	tenantID, ok := core.Lookup[int64](ctx, "tenant_id")

# Absence Policy

A token without a payload segment, a payload that is not base64url, and a
payload that is not a JSON object all behave like a payload without the claim.
A claim whose value cannot be converted to the requested kind also behaves as
absent. These failures are logged at error level and are visible through
Inspect, but callers of Resolve only see presence or absence.

A header that does not carry a bearer token fails with ErrMissingCredential
even for optional claims.

# Coercion

Each claim value is parsed only when it is requested, so a value that cannot be
parsed fails that claim alone. JSON null is treated as absent. Otherwise:

  - String: strings as-is (invalid UTF-8 replaced by U+FFFD), numbers as
    written in the payload, booleans as "true" or "false". Objects and arrays
    fail.
  - Int32, Int64: integral numbers exactly, fractional numbers truncated toward
    zero, decimal numeric strings such as "5" or "010", and booleans as 1 or 0.
    Hexadecimal strings and values out of range fail.
  - Bool: booleans as-is, strings accepted by strconv.ParseBool, and numbers
    (zero is false, anything else is true).
  - Structured: the claim's JSON is decoded into the target type; unknown
    fields are ignored.
*/
package core
