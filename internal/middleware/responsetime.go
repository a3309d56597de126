// Copyright 2024 Canonical.

// Package middleware holds HTTP middleware shared by the JWKS server
// handlers.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/jwkset/internal/servermon"
)

// MeasureResponseTime tracks the response time and status of requests.
// Requests are labelled with the pattern they were routed by so that
// unmatched paths share a single label.
func MeasureResponseTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req servermon.Request
		req.Start(r.Method)
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		var route string
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		req.End(route, ww.Status())
	})
}
