// Copyright 2024 Canonical.

// Package base64url implements the unpadded, URL safe base64 encoding
// used for binary JWK members (RFC 7515 Appendix C).
package base64url

import (
	"encoding/base64"
	"strings"

	"github.com/canonical/jwkset/internal/errors"
)

// Encode returns the base64url encoding of b without padding. A nil or
// empty slice encodes to the empty string.
func Encode(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	s := base64.StdEncoding.EncodeToString(b)
	s = strings.TrimRight(s, "=")
	s = strings.ReplaceAll(s, "+", "-")
	return strings.ReplaceAll(s, "/", "_")
}

// Decode decodes an unpadded base64url string.
func Decode(s string) ([]byte, error) {
	const op = errors.Op("base64url.Decode")

	s = strings.ReplaceAll(s, "-", "+")
	s = strings.ReplaceAll(s, "_", "/")
	switch len(s) % 4 {
	case 0:
	case 2:
		s += "=="
	case 3:
		s += "="
	default:
		return nil, errors.E(op, errors.CodeInvalidEncoding, "illegal base64url string length")
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.E(op, errors.CodeInvalidEncoding, "illegal base64url string", err)
	}
	return b, nil
}
