// Package handler is the HTTP layer.
//
// Handlers bind and validate requests through the validation package,
// call the service layer and shape the response. The generic pipeline in
// base.go gives every endpoint the same logging and tracing.
package handler
