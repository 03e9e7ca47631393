package jwtclaims

import (
	"net/http"

	"github.com/microservicios/go-jwt-claims/core"
)

// HeaderExtractor returns the credential header value of a request. An absent
// header is returned as the empty string; validating the value is left to the
// resolver.
type HeaderExtractor func(r *http.Request) string

// AuthorizationHeaderExtractor is a HeaderExtractor that returns the
// Authorization header.
func AuthorizationHeaderExtractor(r *http.Request) string {
	return r.Header.Get("Authorization")
}

// NamedHeaderExtractor builds a HeaderExtractor that returns the value of the
// named header. The value must still carry the Bearer scheme; wrap it with
// BearerSchemeExtractor for headers that carry the bare token.
func NamedHeaderExtractor(name string) HeaderExtractor {
	return func(r *http.Request) string {
		return r.Header.Get(name)
	}
}

// BearerSchemeExtractor adapts an extractor whose header carries a bare token,
// such as the X-JWT-Assertion header set by some API gateways, by prefixing
// non-empty values with the Bearer scheme.
func BearerSchemeExtractor(extractor HeaderExtractor) HeaderExtractor {
	return func(r *http.Request) string {
		token := extractor(r)
		if token == "" {
			return ""
		}
		return core.BearerPrefix + token
	}
}

// MultiHeaderExtractor returns a HeaderExtractor that runs multiple
// HeaderExtractors and takes the first value that is not empty.
func MultiHeaderExtractor(extractors ...HeaderExtractor) HeaderExtractor {
	return func(r *http.Request) string {
		for _, ex := range extractors {
			if header := ex(r); header != "" {
				return header
			}
		}
		return ""
	}
}
