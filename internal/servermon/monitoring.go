// Copyright 2024 Canonical.

// The servermon package is used to update statistics used
// for monitoring key generation and the JWKS server.
package servermon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	KeysGeneratedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jwkset",
		Subsystem: "keygen",
		Name:      "keys_generated_total",
		Help:      "The number of keys generated.",
	}, []string{"kty", "alg"})
	KeyGenerationErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jwkset",
		Subsystem: "keygen",
		Name:      "error_total",
		Help:      "The number of failed key generations.",
	}, []string{"alg"})
	KeyGenerationDurationHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jwkset",
		Subsystem: "keygen",
		Name:      "duration_seconds",
		Help:      "Histogram of key generation time in seconds.",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"kty"})
	JWKSRotationCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "jwkset",
		Subsystem: "rotator",
		Name:      "rotations_total",
		Help:      "The number of key set rotations.",
	})
	JWKSRotationErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jwkset",
		Subsystem: "rotator",
		Name:      "error_total",
		Help:      "The number of failed key set rotations.",
	}, []string{"code"})
	ResponseTimeHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jwkset",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "The duration of handling an HTTP request in seconds.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
)

// ErrorCounter increases the specified counter if the error is not nil.
func ErrorCounter(m *prometheus.CounterVec, err *error, labelValues ...string) {
	if *err == nil {
		return
	}

	m.WithLabelValues(labelValues...).Inc()
}
