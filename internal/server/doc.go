// Package server exposes the social graph over HTTP.
//
// # Routing
//
// [BasicRouter] wraps [net/http.ServeMux] and registers method-qualified
// patterns, so handlers read path wildcards with [net/http.Request.PathValue].
// Middleware registered with [BasicRouter.Use] wraps every handler in
// registration order.
//
// # Envelope
//
// Every endpoint writes a [Response] envelope carrying the request path, a
// status of OK, NOT_FOUND, or ERROR, an optional message, and optional data.
// Missing profiles and edges map to 404 NOT_FOUND; invalid or duplicate input
// maps to 400 ERROR; backend and remote failures map to 500 ERROR.
package server
