// Package errs defines the error shape every service returns to clients.
//
// Handlers, services and the global error handler all converge on
// *HTTPError so clients receive consistent, actionable error bodies.
package errs
