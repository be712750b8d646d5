// Package middleware holds the echo middleware shared by both services:
// request ids, request-scoped logging, New Relic tracing, Prometheus
// metrics, rate limiting, CORS, panic recovery and the global error handler.
package middleware
