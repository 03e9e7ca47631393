package core

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
)

// Document is the decoded payload segment of a token. Each claim keeps its raw
// JSON value, parsed only when a claim asks for it, so a value that one claim
// cannot use never hides its siblings.
//
// A Document is built fresh for every request and never shared.
type Document map[string]json.RawMessage

// Lookup returns the raw JSON value stored under name.
func (d Document) Lookup(name string) (json.RawMessage, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d[name]
	return v, ok
}

// DecodePayload decodes the payload segment of a compact token.
//
// The token is split on "." and the segment at index 1 is base64url decoded
// (trailing padding is optional) and parsed as a JSON object. The signature is
// never inspected. On any failure the returned Document is nil and the error
// wraps one of ErrTokenStructure, ErrPayloadEncoding or ErrPayloadJSON.
func DecodePayload(token string) (Document, error) {
	segments := strings.Split(token, ".")
	if len(segments) < 2 {
		return nil, ErrTokenStructure
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(segments[1], "="))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPayloadEncoding, err)
	}

	doc, err := parseDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPayloadJSON, err)
	}

	return doc, nil
}

func parseDocument(raw []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	var doc map[string]json.RawMessage
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("payload is null")
	}

	var trailing any
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after payload object")
	}

	return Document(doc), nil
}

var jsonNull = []byte("null")

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}

// decodeValue parses a single claim value. Numbers are kept as json.Number so
// integer claims survive without float rounding.
func decodeValue(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
