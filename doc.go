/*
Package jwtclaims provides HTTP middleware that resolves typed claims from the
bearer token of a request.

Handlers declare the claims they need (name, type, required or optional). The
middleware locates the token in the Authorization header, decodes its payload
and stores the resolved values in the request context. The middleware follows
the Core-Adapter pattern, with this package serving as the HTTP transport
adapter over package core.

# Security

The token signature is NOT verified, and exp, aud and iss are not checked.
This package reads claims from a token that an upstream gate (an API gateway,
a service mesh, or a verifying middleware earlier in the chain) has already
authenticated. Never expose it to untrusted tokens on its own.

# Quick Start

	middleware, err := jwtclaims.New(
	    jwtclaims.WithLogger(slog.Default()),
	)
	if err != nil {
	    log.Fatal(err)
	}

	http.Handle("/orders", middleware.Bind(
	    jwtclaims.String("sub"),
	    jwtclaims.Int64("tenant_id", jwtclaims.Optional()),
	)(http.HandlerFunc(ordersHandler)))

	func ordersHandler(w http.ResponseWriter, r *http.Request) {
	    sub := jwtclaims.MustGetClaim[string](r.Context(), "sub")
	    if tenant, ok := jwtclaims.LookupClaim[int64](r.Context(), "tenant_id"); ok {
	        // scope to tenant
	    }
	}

# Declaring Claims

  - String, Int32, Int64, Bool: scalar claims, converted leniently ("5" is 5)
  - Strings: a JSON array of strings
  - Structured[T]: any JSON value decoded into T

Claims are required unless marked Optional. A required claim that is absent,
null or not convertible aborts the request with ErrMissingClaim. An optional
one is simply left out of the context.

# Configuration Options

  - WithErrorHandler: Custom error response handler
  - WithHeaderExtractor: Read the credential from another header
  - WithExclusionUrls: URLs to skip claim resolution
  - WithResolveOnOptions: Resolve claims on OPTIONS requests (default true)
  - WithLogger: Structured logging (compatible with log/slog)
  - WithMetrics: Resolution counters and timings (see PrometheusMetrics)
  - WithTracer: A span around each resolution (see OpenTelemetryTracer)

# Error Responses

DefaultErrorHandler answers:

401 Unauthorized (no bearer credential):

	{
	    "error": "missing_credential",
	    "message": "Bearer credential is missing."
	}
	WWW-Authenticate: Bearer realm="api"

400 Bad Request (required claim missing):

	{
	    "error": "missing_claim",
	    "message": "required claim \"sub\" is missing",
	    "claim": "sub"
	}

A credential is required even when every bound claim is optional.

# Thread Safety

The ClaimMiddleware is immutable after creation and safe for concurrent use.
Nothing is cached between requests; each request decodes its token once.
*/
package jwtclaims
