// Copyright 2024 Canonical.

// Package jwk models JSON Web Keys (RFC 7517) and JSON Web Key Sets. It
// supports:
//
//   - building keys from explicit parameters (FromParameters),
//   - generating fresh RSA, EC, HMAC and AES keys (Generate, GenerateSet),
//   - parsing and exporting the JSON representation, with or without
//     private key material (Parse, ParseJWKS, JWK.Export, JWKS.Export).
//
// Values of JWK and JWKS are immutable once built and may be shared
// between goroutines.
package jwk

import (
	"fmt"

	"github.com/canonical/jwkset/internal/errors"
)

// A JWK is a single JSON Web Key.
type JWK struct {
	keyType KeyType
	use     PublicKeyUse
	ops     []KeyOperation
	alg     Algorithm
	kid     string
	params  KeyParameters
}

// FromParameters builds a JWK of type kty from caller supplied
// parameters. No key material is generated.
func FromParameters(kty KeyType, params KeyParameters, opts ...Option) (*JWK, error) {
	const op = errors.Op("jwk.FromParameters")

	if kty == 0 {
		return nil, errors.E(op, errors.CodeMissingRequiredField, `missing key type ("kty")`)
	}
	if !kty.IsValid() {
		return nil, errors.E(op, errors.CodeUnsupportedKeyType, fmt.Sprintf("unsupported key type %s", kty))
	}
	if params.Len() == 0 {
		return nil, errors.E(op, errors.CodeMissingRequiredField, "missing key parameters")
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, errors.E(op, err)
	}
	if err := checkConsistency(kty, params, o.alg); err != nil {
		return nil, errors.E(op, err)
	}
	return &JWK{
		keyType: kty,
		use:     o.use,
		ops:     o.ops,
		alg:     o.alg,
		kid:     o.kid,
		params:  params.nonEmpty(),
	}, nil
}

// checkConsistency checks that every parameter belongs to kty, that the
// required public parameters of kty are present and that alg, when set,
// is used with keys of type kty. Keys for the "none" algorithm carry no
// key material, so they have no required parameters.
func checkConsistency(kty KeyType, params KeyParameters, alg Algorithm) error {
	for p := range params.values {
		if p.KeyType() != kty {
			return errors.E(errors.CodeInvalidParameter, fmt.Sprintf("%s is not a parameter of %s keys", p, kty))
		}
	}
	if alg == AlgNone && params.Len() == 0 {
		return nil
	}
	for _, p := range requiredParameters(kty) {
		if v, _ := params.Get(p); v == "" {
			return errors.E(errors.CodeMissingRequiredField, fmt.Sprintf("%s key missing %q", kty, p.Name()))
		}
	}
	if alg != 0 && alg != AlgNone && alg.KeyType() != kty {
		return errors.E(errors.CodeInvalidParameter, fmt.Sprintf("algorithm %s requires a %s key, not %s", alg, alg.KeyType(), kty))
	}
	return nil
}

// KeyType returns the key's "kty".
func (k *JWK) KeyType() KeyType {
	return k.keyType
}

// Use returns the key's "use", zero when absent.
func (k *JWK) Use() PublicKeyUse {
	return k.use
}

// Operations returns the key's "key_ops", nil when absent.
func (k *JWK) Operations() []KeyOperation {
	if k.ops == nil {
		return nil
	}
	return append([]KeyOperation(nil), k.ops...)
}

// Algorithm returns the key's "alg", zero when absent.
func (k *JWK) Algorithm() Algorithm {
	return k.alg
}

// KeyID returns the key's "kid", empty when absent.
func (k *JWK) KeyID() string {
	return k.kid
}

// Parameters returns the key material parameters.
func (k *JWK) Parameters() KeyParameters {
	return k.params
}

// IsSymmetric reports whether the key is a shared secret. The algorithm
// decides when present, otherwise the key type does.
func (k *JWK) IsSymmetric() bool {
	if k.alg != 0 {
		return k.alg.IsSymmetric()
	}
	return k.keyType == OCT
}

// Public returns a copy of the key without private parameters.
// Symmetric keys have no public form.
func (k *JWK) Public() (*JWK, error) {
	const op = errors.Op("jwk.Public")

	if k.IsSymmetric() {
		return nil, errors.E(op, errors.CodePrivateKeyRequired, fmt.Sprintf("symmetric %s key has no public representation", k.keyType))
	}
	pk := *k
	pk.ops = k.Operations()
	pk.params = k.params.public()
	return &pk, nil
}

// Option configures optional JWK members and key generation.
type Option func(*options)

type options struct {
	use        PublicKeyUse
	ops        []KeyOperation
	alg        Algorithm
	kid        string
	rsaKeySize int
	generator  KeyGenerator
}

// WithUse sets the "use" member.
func WithUse(use PublicKeyUse) Option {
	return func(o *options) {
		o.use = use
	}
}

// WithOperations sets the "key_ops" member. Duplicate operations are
// collapsed.
func WithOperations(ops ...KeyOperation) Option {
	return func(o *options) {
		o.ops = uniqueOperations(ops)
	}
}

// WithAlgorithm sets the "alg" member of a key built by FromParameters.
// Generate takes its algorithm as an argument and ignores this option.
func WithAlgorithm(alg Algorithm) Option {
	return func(o *options) {
		o.alg = alg
	}
}

// WithKeyID sets the "kid" member. Generate assigns a random UUID when
// no key ID is given.
func WithKeyID(kid string) Option {
	return func(o *options) {
		o.kid = kid
	}
}

// WithRSAKeySize sets the modulus size of generated RSA keys. Sizes
// below MinRSAKeySize are raised to it.
func WithRSAKeySize(bits int) Option {
	return func(o *options) {
		o.rsaKeySize = bits
	}
}

// WithGenerator sets the source of key material used by Generate.
func WithGenerator(g KeyGenerator) Option {
	return func(o *options) {
		o.generator = g
	}
}

func newOptions(opts []Option) (options, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.use != 0 && !o.use.IsValid() {
		return o, errors.E(errors.CodeInvalidParameter, fmt.Sprintf("invalid key use %s", o.use))
	}
	for _, op := range o.ops {
		if !op.IsValid() {
			return o, errors.E(errors.CodeInvalidParameter, fmt.Sprintf("invalid key operation %s", op))
		}
	}
	if o.alg != 0 && !o.alg.IsValid() {
		return o, errors.E(errors.CodeUnsupportedAlgorithm, fmt.Sprintf("unsupported algorithm %s", o.alg))
	}
	return o, nil
}
