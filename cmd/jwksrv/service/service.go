// Copyright 2024 Canonical.

// service defines the methods necessary to start a JWKS server
// alongside all the config options that can be supplied to configure it.
package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/juju/zaputil/zapctx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/canonical/jwkset/internal/errors"
	"github.com/canonical/jwkset/internal/jwkshttp"
	"github.com/canonical/jwkset/internal/jwksservice"
	"github.com/canonical/jwkset/internal/logger"
	"github.com/canonical/jwkset/internal/middleware"
	"github.com/canonical/jwkset/pkg/jwk"
)

const (
	defaultListenAddr       = ":8080"
	defaultAlgorithms       = "RS256,ES256"
	defaultRotationInterval = 24 * time.Hour
)

// A Params structure contains the parameters required to initialise a new
// Service.
type Params struct {
	// ListenAddr is the address the HTTP server listens on.
	ListenAddr string

	// LogLevel is the level logged at, as understood by zap.
	LogLevel string

	// DevMode enables human readable log output.
	DevMode bool

	// Algorithms holds the algorithms a key is published for. Only
	// asymmetric algorithms are allowed.
	Algorithms []jwk.Algorithm

	// KeyUse is the "use" member of every published key.
	KeyUse jwk.PublicKeyUse

	// RSAKeySize is the modulus size of generated RSA keys. Zero means
	// jwk.DefaultRSAKeySize.
	RSAKeySize int

	// RotationInterval is how long a generation of keys stays current.
	RotationInterval time.Duration

	// Generator, if set, replaces the platform source of key material.
	Generator jwk.KeyGenerator
}

// ParamsFromEnv reads the service parameters from the environment using
// getenv, applying defaults for anything unset.
func ParamsFromEnv(getenv func(string) string) (Params, error) {
	const op = errors.Op("service.ParamsFromEnv")

	p := Params{
		ListenAddr:       getenv("JWKS_LISTEN_ADDR"),
		LogLevel:         getenv("JWKS_LOG_LEVEL"),
		DevMode:          getenv("JWKS_DEV_MODE") != "",
		KeyUse:           jwk.UseSignature,
		RotationInterval: defaultRotationInterval,
	}
	if p.ListenAddr == "" {
		p.ListenAddr = defaultListenAddr
	}

	algs := getenv("JWKS_ALGORITHMS")
	if algs == "" {
		algs = defaultAlgorithms
	}
	for _, s := range strings.Split(algs, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		alg, ok := jwk.ParseAlgorithm(s)
		if !ok {
			return Params{}, errors.E(op, errors.CodeServerConfiguration, fmt.Sprintf("unknown algorithm %q in JWKS_ALGORITHMS", s))
		}
		p.Algorithms = append(p.Algorithms, alg)
	}

	if s := getenv("JWKS_KEY_USE"); s != "" {
		use, ok := jwk.ParsePublicKeyUse(s)
		if !ok {
			return Params{}, errors.E(op, errors.CodeServerConfiguration, fmt.Sprintf("unknown key use %q in JWKS_KEY_USE", s))
		}
		p.KeyUse = use
	}

	if s := getenv("JWKS_RSA_KEY_SIZE"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return Params{}, errors.E(op, errors.CodeServerConfiguration, fmt.Sprintf("invalid JWKS_RSA_KEY_SIZE %q", s))
		}
		p.RSAKeySize = n
	}

	if s := getenv("JWKS_ROTATION_INTERVAL"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return Params{}, errors.E(op, errors.CodeServerConfiguration, err, "failed to parse JWKS_ROTATION_INTERVAL")
		}
		p.RotationInterval = d
	}
	return p, nil
}

// A Service is the implementation of the JWKS server.
type Service struct {
	keys *jwksservice.Service
	mux  *chi.Mux
}

// NewService creates a new Service using the given params. The service
// has no keys until StartJWKSRotator is called.
func NewService(ctx context.Context, p Params) (*Service, error) {
	const op = errors.Op("NewService")

	opts := []jwk.Option{jwk.WithUse(p.KeyUse)}
	if p.RSAKeySize != 0 {
		opts = append(opts, jwk.WithRSAKeySize(p.RSAKeySize))
	}
	if p.Generator != nil {
		opts = append(opts, jwk.WithGenerator(p.Generator))
	}
	keys, err := jwksservice.New(jwksservice.Params{
		Algorithms: p.Algorithms,
		Lifetime:   p.RotationInterval,
		Options:    opts,
	})
	if err != nil {
		zapctx.Error(ctx, "cannot create key service", zap.Error(err))
		return nil, errors.E(op, err)
	}

	s := &Service{
		keys: keys,
		mux:  chi.NewRouter(),
	}
	s.mux.Use(chimiddleware.RequestLogger(&logger.HTTPLogFormatter{}))
	s.mux.Use(middleware.MeasureResponseTime)

	mountHandler := func(path string, h jwkshttp.JWKSHTTPHandler) {
		s.mux.Mount(path, h.Routes())
	}

	s.mux.Mount("/metrics", promhttp.Handler())

	mountHandler(
		"/debug",
		jwkshttp.NewDebugHandler(
			map[string]jwkshttp.StatusCheck{
				"start_time": jwkshttp.ServerStartTime,
				"keys":       jwkshttp.KeySetStatus(keys),
			},
		),
	)
	mountHandler(
		"/.well-known",
		jwkshttp.NewWellKnownHandler(keys),
	)
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Service) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.mux.ServeHTTP(w, req)
}

// StartJWKSRotator generates the first set of keys and then checks
// whether a rotation is due every time a value is received on
// checkRotateRequired. See jwksservice.Service.StartRotator.
func (s *Service) StartJWKSRotator(ctx context.Context, checkRotateRequired <-chan time.Time) error {
	return s.keys.StartRotator(ctx, checkRotateRequired)
}
