package core

import "strings"

// BearerPrefix is the scheme prefix a credential header must start with.
// The match is case-sensitive and requires exactly one space.
const BearerPrefix = "Bearer "

// LocateToken returns the token carried by a credential header value.
//
// An absent header is passed as the empty string. The header is accepted only
// when it begins with BearerPrefix and something other than whitespace follows
// the prefix. The returned token is the remainder of the header, unmodified.
// Every other input yields ErrMissingCredential.
func LocateToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrMissingCredential
	}

	token, ok := strings.CutPrefix(header, BearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return "", ErrMissingCredential
	}

	return token, nil
}
