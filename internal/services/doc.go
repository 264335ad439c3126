// Package services defines the [Counter] interface for the songs microservice
// and implements it over the service's REST API.
//
// # Counter Interface
//
// The songs microservice owns song documents and their favourite counters in
// its own document store; this service never touches that store directly.
// [Counter] narrows the remote surface to the two calls the graph side needs:
// counter adjustment and title lookup.
//
// # Failure Taxonomy
//
// The client distinguishes three failure shapes so callers can decide
// compensation:
//   - transport or timeout failure wraps [shared.ErrRemoteUnavailable]
//   - a well-formed error answer (or garbage) wraps [shared.ErrRemoteRejected]
//   - an unknown song id is not an error: it comes back through the boolean
//
// # Policy
//
// [SongsService] makes exactly one attempt per call: no retry, no backoff.
// The like/unlike saga owns the consequences of a failed call; retrying here
// would blur which store mutated. Outbound pacing uses a [rate.Limiter]
// when configured.
package services
