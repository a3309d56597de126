// Copyright 2024 Canonical.

package jwk

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/juju/zaputil/zapctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/canonical/jwkset/internal/errors"
	"github.com/canonical/jwkset/internal/servermon"
	"github.com/canonical/jwkset/pkg/base64url"
	"github.com/canonical/jwkset/pkg/keygen"
)

const (
	// DefaultRSAKeySize is the modulus size of generated RSA keys when
	// none is requested.
	DefaultRSAKeySize = 2048

	// MinRSAKeySize is the smallest RSA modulus that will be generated.
	// Smaller requests are raised to this size.
	MinRSAKeySize = 2048

	// MaxRSAKeySize is the largest RSA modulus that will be generated.
	MaxRSAKeySize = 16384
)

// A KeyGenerator produces raw key material. keygen.Platform is the
// default implementation.
type KeyGenerator interface {
	// GenerateRSA generates an RSA key with a modulus of the given
	// size.
	GenerateRSA(bits int) (*keygen.RSAKey, error)

	// GenerateEC generates a key on the named curve identified by
	// its OID.
	GenerateEC(curveOID string) (*keygen.ECKey, error)

	// GenerateSymmetric returns n random bytes.
	GenerateSymmetric(n int) ([]byte, error)
}

// Generate creates a new key for use with alg. The key type follows from
// the algorithm and the key is given a random UUID key ID unless
// WithKeyID is used. Key material comes from the configured
// KeyGenerator; failures are returned immediately and not retried.
func Generate(ctx context.Context, alg Algorithm, opts ...Option) (_ *JWK, err error) {
	const op = errors.Op("jwk.Generate")

	info, ok := alg.info()
	if !ok {
		return nil, errors.E(op, errors.CodeUnsupportedAlgorithm, fmt.Sprintf("unsupported algorithm %s", alg))
	}
	defer servermon.ErrorCounter(servermon.KeyGenerationErrorCount, &err, alg.String())

	o, err := newOptions(opts)
	if err != nil {
		return nil, errors.E(op, err)
	}
	if o.generator == nil {
		o.generator = keygen.New()
	}
	kid := o.kid
	if kid == "" {
		id, err := uuid.NewRandom()
		if err != nil {
			return nil, errors.E(op, errors.CodeKeyGeneration, "cannot generate key ID", err)
		}
		kid = id.String()
	}

	start := time.Now()
	params, err := generateParameters(ctx, info, o)
	if err != nil {
		return nil, errors.E(op, err)
	}
	elapsed := time.Since(start)
	servermon.KeyGenerationDurationHistogram.WithLabelValues(info.keyType.String()).Observe(elapsed.Seconds())
	servermon.KeysGeneratedCount.WithLabelValues(info.keyType.String(), alg.String()).Inc()
	zapctx.Debug(ctx, "generated key",
		zap.String("alg", alg.String()),
		zap.String("kid", kid),
		zap.Duration("duration", elapsed),
	)

	return &JWK{
		keyType: info.keyType,
		use:     o.use,
		ops:     o.ops,
		alg:     alg,
		kid:     kid,
		params:  params,
	}, nil
}

func generateParameters(ctx context.Context, info algorithmInfo, o options) (KeyParameters, error) {
	switch info.family {
	case familyRSA:
		return rsaParameters(ctx, o)
	case familyEC:
		return ecParameters(info, o)
	case familyHMAC:
		return symmetricParameters(info.size, o)
	case familyAES:
		if !validAESKeySize(info.size) {
			return KeyParameters{}, errors.E(errors.CodeUnsupportedKeySize, fmt.Sprintf("invalid AES key size %d", info.size))
		}
		return symmetricParameters(info.size/8, o)
	default:
		return KeyParameters{}, nil
	}
}

func rsaParameters(ctx context.Context, o options) (KeyParameters, error) {
	bits := o.rsaKeySize
	switch {
	case bits == 0:
		bits = DefaultRSAKeySize
	case bits < MinRSAKeySize:
		zapctx.Debug(ctx, "raising requested RSA key size", zap.Int("requested", bits), zap.Int("size", MinRSAKeySize))
		bits = MinRSAKeySize
	case bits > MaxRSAKeySize:
		return KeyParameters{}, errors.E(errors.CodeUnsupportedKeySize, fmt.Sprintf("RSA key size %d exceeds maximum of %d", bits, MaxRSAKeySize))
	}
	key, err := o.generator.GenerateRSA(bits)
	if err != nil {
		return KeyParameters{}, errors.E(errors.CodeKeyGeneration, err)
	}
	return NewKeyParameters(map[KeyParameter]string{
		RSAModulus:                 base64url.Encode(key.N),
		RSAPublicExponent:          base64url.Encode(key.E),
		RSAPrivateExponent:         base64url.Encode(key.D),
		RSAFirstPrime:              base64url.Encode(key.P),
		RSASecondPrime:             base64url.Encode(key.Q),
		RSAFirstFactorCRTExponent:  base64url.Encode(key.DP),
		RSASecondFactorCRTExponent: base64url.Encode(key.DQ),
		RSAFirstCRTCoefficient:     base64url.Encode(key.QI),
	}), nil
}

func ecParameters(info algorithmInfo, o options) (KeyParameters, error) {
	if info.curve.OID == "" {
		return KeyParameters{}, errors.E(errors.CodeUnsupportedAlgorithm, fmt.Sprintf("no curve for algorithm %s", info.name))
	}
	key, err := o.generator.GenerateEC(info.curve.OID)
	if err != nil {
		return KeyParameters{}, errors.E(errors.CodeKeyGeneration, err)
	}
	return NewKeyParameters(map[KeyParameter]string{
		ECCurve:      info.curve.Name,
		ECX:          base64url.Encode(key.X),
		ECY:          base64url.Encode(key.Y),
		ECPrivateKey: base64url.Encode(key.D),
	}), nil
}

func symmetricParameters(n int, o options) (KeyParameters, error) {
	key, err := o.generator.GenerateSymmetric(n)
	if err != nil {
		return KeyParameters{}, errors.E(errors.CodeKeyGeneration, err)
	}
	return NewKeyParameters(map[KeyParameter]string{
		OctKey: base64url.Encode(key),
	}), nil
}

func validAESKeySize(bits int) bool {
	switch bits {
	case 128, 192, 256:
		return true
	}
	return false
}

// GenerateSet generates one key for each algorithm and returns them as a
// set, in the order of algs. Keys are generated concurrently.
func GenerateSet(ctx context.Context, algs []Algorithm, opts ...Option) (*JWKS, error) {
	const op = errors.Op("jwk.GenerateSet")

	if len(algs) == 0 {
		return nil, errors.E(op, errors.CodeEmptyKeySet, "no algorithms requested")
	}
	if o, _ := newOptions(opts); o.kid != "" && len(algs) > 1 {
		return nil, errors.E(op, errors.CodeInvalidParameter, "cannot use one key ID for several keys")
	}

	keys := make([]*JWK, len(algs))
	eg, ctx := errgroup.WithContext(ctx)
	for i, alg := range algs {
		i, alg := i, alg
		eg.Go(func() error {
			k, err := Generate(ctx, alg, opts...)
			if err != nil {
				return err
			}
			keys[i] = k
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errors.E(op, err)
	}
	return NewJWKS(keys...)
}
