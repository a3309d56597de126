// Copyright 2024 Canonical.

// Package jwxconv converts keys between this module's JWK model and the
// lestrrat-go/jwx key types, giving access to jwx features such as RFC
// 7638 thumbprints and conversion to crypto keys.
package jwxconv

import (
	"crypto"
	"encoding/json"
	"fmt"

	jwxjwk "github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/canonical/jwkset/internal/errors"
	"github.com/canonical/jwkset/pkg/base64url"
	"github.com/canonical/jwkset/pkg/jwk"
)

// ToJWX returns the jwx form of k, including any private parameters.
func ToJWX(k *jwk.JWK) (jwxjwk.Key, error) {
	const op = errors.Op("jwxconv.ToJWX")

	b, err := k.Export(true)
	if err != nil {
		return nil, errors.E(op, err)
	}
	key, err := jwxjwk.ParseKey(b)
	if err != nil {
		return nil, errors.E(op, errors.CodeInvalidParameter, "cannot convert key", err)
	}
	return key, nil
}

// FromJWX returns the JWK form of a jwx key. Members jwx supports that
// are not part of the JWK model, such as certificate chains, are lost.
func FromJWX(key jwxjwk.Key) (*jwk.JWK, error) {
	const op = errors.Op("jwxconv.FromJWX")

	b, err := json.Marshal(key)
	if err != nil {
		return nil, errors.E(op, errors.CodeMalformedJSON, "cannot marshal jwx key", err)
	}
	k, err := jwk.Parse(b)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return k, nil
}

// FromRaw returns the JWK form of a crypto key, such as an
// *rsa.PrivateKey or *ecdsa.PublicKey.
func FromRaw(raw interface{}) (*jwk.JWK, error) {
	const op = errors.Op("jwxconv.FromRaw")

	key, err := jwxjwk.FromRaw(raw)
	if err != nil {
		return nil, errors.E(op, errors.CodeUnsupportedKeyType, "cannot convert raw key", err)
	}
	k, err := FromJWX(key)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return k, nil
}

// FromPEM returns the keys held in the PEM blocks of data. RSA and EC
// private keys in PKCS #1, PKCS #8 or SEC 1 form, PKIX public keys and
// certificates are understood.
func FromPEM(data []byte) (*jwk.JWKS, error) {
	const op = errors.Op("jwxconv.FromPEM")

	set, err := jwxjwk.Parse(data, jwxjwk.WithPEM(true))
	if err != nil {
		return nil, errors.E(op, errors.CodeInvalidEncoding, "cannot parse PEM keys", err)
	}
	keys := make([]*jwk.JWK, 0, set.Len())
	for i := 0; i < set.Len(); i++ {
		key, _ := set.Key(i)
		k, err := FromJWX(key)
		if err != nil {
			return nil, errors.E(op, fmt.Sprintf("key %d", i), err)
		}
		keys = append(keys, k)
	}
	s, err := jwk.NewJWKS(keys...)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return s, nil
}

// Raw returns the crypto form of k: an *rsa.PrivateKey, *rsa.PublicKey,
// *ecdsa.PrivateKey, *ecdsa.PublicKey or []byte.
func Raw(k *jwk.JWK) (interface{}, error) {
	const op = errors.Op("jwxconv.Raw")

	key, err := ToJWX(k)
	if err != nil {
		return nil, errors.E(op, err)
	}
	var raw interface{}
	if err := key.Raw(&raw); err != nil {
		return nil, errors.E(op, errors.CodeInvalidParameter, "cannot materialize key", err)
	}
	return raw, nil
}

// Thumbprint returns the base64url encoded RFC 7638 SHA-256 thumbprint
// of k.
func Thumbprint(k *jwk.JWK) (string, error) {
	const op = errors.Op("jwxconv.Thumbprint")

	key, err := ToJWX(k)
	if err != nil {
		return "", errors.E(op, err)
	}
	tp, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", errors.E(op, errors.CodeInvalidParameter, "cannot compute thumbprint", err)
	}
	return base64url.Encode(tp), nil
}

// SetToJWX returns the jwx form of every key in s.
func SetToJWX(s *jwk.JWKS) (jwxjwk.Set, error) {
	const op = errors.Op("jwxconv.SetToJWX")

	set := jwxjwk.NewSet()
	for _, k := range s.Keys() {
		key, err := ToJWX(k)
		if err != nil {
			return nil, errors.E(op, err)
		}
		if err := set.AddKey(key); err != nil {
			return nil, errors.E(op, errors.CodeInvalidParameter, err)
		}
	}
	return set, nil
}
