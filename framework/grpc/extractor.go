package jwtclaimsgrpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/metadata"
)

// HeaderExtractor returns the credential header value from the incoming
// context. An absent credential is the empty string, not an error.
type HeaderExtractor func(ctx context.Context) (string, error)

// ErrMultipleAuthHeaders indicates multiple authorization metadata entries were provided.
var ErrMultipleAuthHeaders = errors.New("multiple authorization metadata entries are not allowed")

// MetadataHeaderExtractor returns the "authorization" metadata entry, for
// example "Bearer eyJ...". The resolver checks the scheme.
//
// gRPC normalizes incoming metadata keys to lowercase, so this extractor only
// checks the lowercase "authorization" key.
func MetadataHeaderExtractor(ctx context.Context) (string, error) {
	return NamedMetadataExtractor("authorization")(ctx)
}

// NamedMetadataExtractor builds a HeaderExtractor for the given metadata key.
func NamedMetadataExtractor(key string) HeaderExtractor {
	return func(ctx context.Context) (string, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return "", nil
		}

		values := md.Get(key)
		switch len(values) {
		case 0:
			return "", nil
		case 1:
			return values[0], nil
		default:
			return "", ErrMultipleAuthHeaders
		}
	}
}
