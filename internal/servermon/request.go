// Copyright 2024 Canonical.

package servermon

import (
	"net/http"
	"strconv"
	"time"
)

// Request represents an HTTP request that is being monitored.
// A request can only be used for a single HTTP request at
// any one time.
type Request struct {
	startTime time.Time
	method    string
}

// Start should be called when an HTTP request starts.
func (r *Request) Start(method string) {
	r.method = method
	r.startTime = time.Now()
}

// End should be called when the HTTP request completes. The route is
// the pattern the request was routed by, which is only known once the
// router has handled the request. The Request value may then be reused
// for another request.
func (r *Request) End(route string, statusCode int) {
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	if route == "" {
		route = "unknown"
	}
	ResponseTimeHistogram.WithLabelValues(route, r.method, strconv.Itoa(statusCode)).Observe(time.Since(r.startTime).Seconds())
}
