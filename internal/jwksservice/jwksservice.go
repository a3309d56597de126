// Copyright 2024 Canonical.

// Package jwksservice holds an in-memory JWKS that is rotated on a
// schedule, for publishing at a well-known endpoint.
package jwksservice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/juju/zaputil/zapctx"
	"go.uber.org/zap"

	"github.com/canonical/jwkset/internal/errors"
	"github.com/canonical/jwkset/internal/servermon"
	"github.com/canonical/jwkset/pkg/jwk"
)

// Params holds the parameters of a Service.
type Params struct {
	// Algorithms lists the algorithms a key is generated for on every
	// rotation. Only asymmetric algorithms may be used.
	Algorithms []jwk.Algorithm

	// Lifetime is how long a generated set is current for. Once a set
	// has expired the next rotation check replaces it.
	Lifetime time.Duration

	// Options are passed to jwk.GenerateSet, for example to set the
	// key use or the RSA key size.
	Options []jwk.Option

	// Clock is used to compute expiry times. If nil, clock.WallClock
	// is used.
	Clock clock.Clock
}

// A Service keeps the current and previous generations of keys. The
// previous generation is still published so that anything signed just
// before a rotation can be verified.
type Service struct {
	params Params

	mu       sync.RWMutex
	current  *jwk.JWKS
	previous *jwk.JWKS
	expiry   time.Time
}

// New returns a Service with no keys. Rotate or StartRotator must be
// called before the set can be retrieved.
func New(p Params) (*Service, error) {
	const op = errors.Op("jwksservice.New")

	if len(p.Algorithms) == 0 {
		return nil, errors.E(op, errors.CodeServerConfiguration, "no algorithms configured")
	}
	for _, alg := range p.Algorithms {
		if !alg.IsValid() {
			return nil, errors.E(op, errors.CodeServerConfiguration, fmt.Sprintf("unsupported algorithm %s", alg))
		}
		if alg.IsSymmetric() || alg == jwk.AlgNone {
			return nil, errors.E(op, errors.CodeServerConfiguration, fmt.Sprintf("algorithm %s cannot be published", alg))
		}
	}
	if p.Lifetime <= 0 {
		return nil, errors.E(op, errors.CodeServerConfiguration, "key lifetime must be positive")
	}
	if p.Clock == nil {
		p.Clock = clock.WallClock
	}
	p.Algorithms = append([]jwk.Algorithm(nil), p.Algorithms...)
	return &Service{params: p}, nil
}

// Rotate generates a new set of keys, making the current set the
// previous one.
func (s *Service) Rotate(ctx context.Context) (err error) {
	const op = errors.Op("jwksservice.Rotate")

	defer func() {
		if err != nil {
			servermon.JWKSRotationErrorCount.WithLabelValues(string(errors.ErrorCode(err))).Inc()
		}
	}()

	set, err := jwk.GenerateSet(ctx, s.params.Algorithms, s.params.Options...)
	if err != nil {
		return errors.E(op, err)
	}
	expires := s.params.Clock.Now().UTC().Add(s.params.Lifetime)

	s.mu.Lock()
	s.previous = s.current
	s.current = set
	s.expiry = expires
	s.mu.Unlock()

	servermon.JWKSRotationCount.Inc()
	zapctx.Debug(ctx, "set a new JWKS", zap.Int("keys", set.Len()), zap.Time("expiry", expires))
	return nil
}

// Expiry returns the time the current set expires. It is the zero time
// before the first rotation.
func (s *Service) Expiry() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiry
}

// JWKS returns the public keys of the current and previous generations,
// current keys first, along with the expiry time of the current
// generation.
func (s *Service) JWKS() (*jwk.JWKS, time.Time, error) {
	const op = errors.Op("jwksservice.JWKS")

	s.mu.RLock()
	current, previous, expiry := s.current, s.previous, s.expiry
	s.mu.RUnlock()

	if current == nil {
		return nil, time.Time{}, errors.E(op, errors.CodeNotFound, "JWKS does not exist yet")
	}
	keys := current.Keys()
	if previous != nil {
		keys = append(keys, previous.Keys()...)
	}
	set, err := jwk.NewJWKS(keys...)
	if err != nil {
		return nil, time.Time{}, errors.E(op, err)
	}
	pub, err := set.Public()
	if err != nil {
		return nil, time.Time{}, errors.E(op, err)
	}
	return pub, expiry, nil
}

// StartRotator generates the initial set and then starts a routine
// that rotates the set whenever a value received from
// checkRotateRequired is at or after the current expiry. The routine
// stops when ctx is cancelled.
func (s *Service) StartRotator(ctx context.Context, checkRotateRequired <-chan time.Time) error {
	const op = errors.Op("jwksservice.StartRotator")

	// Rotation errors are logged by a separate routine.
	errorChan := make(chan error, 8)

	if err := s.Rotate(ctx); err != nil {
		return errors.E(op, err)
	}

	go func() {
		defer close(errorChan)
		for {
			select {
			case t := <-checkRotateRequired:
				if t.Before(s.Expiry()) {
					continue
				}
				if err := s.Rotate(ctx); err != nil {
					errorChan <- err
				}
			case <-ctx.Done():
				zapctx.Debug(ctx, "Shutdown for JWKS rotator complete.")
				return
			}
		}
	}()

	go func(errChan <-chan error) {
		for err := range errChan {
			zapctx.Error(
				ctx,
				"key rotation failure",
				zap.Any("op", op),
				zap.NamedError("jwks-error", err),
			)
		}
	}(errorChan)

	return nil
}
