// Copyright 2024 Canonical.

// Package jwkshttp serves a JWKS over HTTP.
package jwkshttp

import (
	"github.com/go-chi/chi/v5"
)

// JWKSHTTPHandler represents a http handler for the JWKS server.
type JWKSHTTPHandler interface {
	Routes() chi.Router
	SetupMiddleware()
}
