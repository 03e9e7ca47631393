// Package claimstest builds bearer tokens for tests of code that reads claims
// through jwtclaims. Tokens are signed with a fixed HMAC key; the resolver never
// checks the signature, so any key would do.
package claimstest

import (
	"encoding/base64"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

// SigningKey is the HMAC key used for every token built by this package.
var SigningKey = []byte("claimstest-signing-key")

// Token returns an HS256 compact token carrying claims.
func Token(tb testing.TB, claims map[string]any) string {
	tb.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(claims)).SignedString(SigningKey)
	if err != nil {
		tb.Fatalf("claimstest: signing token: %v", err)
	}
	return signed
}

// Header returns an Authorization header value carrying a token with claims.
func Header(tb testing.TB, claims map[string]any) string {
	tb.Helper()
	return "Bearer " + Token(tb, claims)
}

// RawHeader returns an Authorization header value whose payload segment is the
// base64url encoding of payload, which need not be valid JSON.
func RawHeader(payload string) string {
	return "Bearer eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
		base64.RawURLEncoding.EncodeToString([]byte(payload)) +
		".c2lnbmF0dXJl"
}
