// Copyright 2024 Canonical.

package jwkshttp

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/juju/clock"
	"github.com/juju/zaputil/zapctx"
	"go.uber.org/zap"

	"github.com/canonical/jwkset/internal/errors"
	"github.com/canonical/jwkset/pkg/jwk"
)

// A KeySource provides the public JWKS to publish and the time it
// expires.
type KeySource interface {
	JWKS() (*jwk.JWKS, time.Time, error)
}

// WellKnownHandler holds the grouped router to be mounted and
// the source of the published keys.
// Implements jwkshttp.JWKSHTTPHandler
type WellKnownHandler struct {
	Router *chi.Mux
	Keys   KeySource

	// Clock is used to compute the remaining max-age of the published
	// keys. If nil, clock.WallClock is used.
	Clock clock.Clock
}

// NewWellKnownHandler returns a new WellKnownHandler
func NewWellKnownHandler(ks KeySource) *WellKnownHandler {
	return &WellKnownHandler{Router: chi.NewRouter(), Keys: ks, Clock: clock.WallClock}
}

// Routes returns the grouped routers routes with group specific middlewares.
func (wkh *WellKnownHandler) Routes() chi.Router {
	wkh.SetupMiddleware()
	wkh.Router.Get("/jwks.json", wkh.JWKS)
	return wkh.Router
}

// SetupMiddleware applies middlewares.
func (wkh *WellKnownHandler) SetupMiddleware() {
	wkh.Router.Use(
		render.SetContentType(
			render.ContentTypeJSON,
		),
	)
}

// JWKS handles /jwks.json, serving the public keys of the current and
// previous key generations.
//
// The JWKS is expected to be cached by the client until the current
// generation expires.
func (wkh *WellKnownHandler) JWKS(w http.ResponseWriter, r *http.Request) {
	const op = errors.Op("jwkshttp.JWKS")
	ctx := r.Context()
	if wkh == nil || wkh.Keys == nil {
		zapctx.Error(ctx, "nil reference in JWKS handler")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errors.E(op, errors.CodeServerConfiguration, "JWKS does not exist"))
		return
	}
	ks, expiry, err := wkh.Keys.JWKS()
	if err != nil && errors.ErrorCode(err) == errors.CodeNotFound {
		zapctx.Error(ctx, "HTTP error", zap.NamedError("/jwks.json", err))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errors.E(op, errors.CodeNotFound, "JWKS does not exist yet"))
		return
	}
	if err != nil {
		zapctx.Error(ctx, "HTTP error", zap.NamedError("/jwks.json", err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errors.E(op, errors.ErrorCode(err), "failed to retrieve JWKS"))
		return
	}
	b, err := ks.Export(false)
	if err != nil {
		zapctx.Error(ctx, "HTTP error", zap.NamedError("/jwks.json", err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errors.E(op, errors.ErrorCode(err), "failed to export JWKS"))
		return
	}

	clk := wkh.Clock
	if clk == nil {
		clk = clock.WallClock
	}
	// Remaining max-age from now until the expiry time.
	maxAge := expiry.Sub(clk.Now())
	if maxAge < 0 {
		maxAge = 0
	}

	w.Header().Add("Cache-Control", fmt.Sprintf("must-revalidate, max-age=%d, immutable", int64(math.Floor(maxAge.Seconds()))))
	// Some JWK cache clients look at Expires over the max-age directive.
	w.Header().Add("Expires", expiry.UTC().Format(http.TimeFormat))
	render.JSON(w, r, json.RawMessage(b))
}
