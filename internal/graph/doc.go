// Package graph implements the profile/playlist/song graph store.
//
// # Store Contract
//
// The [Store] interface owns all structural invariants of the graph:
//   - every profile has exactly one playlist, named `<userName>-favorites`,
//     created atomically with the profile
//   - follows and includes edges are unique per ordered pair
//   - a song node with zero incoming includes edges never persists (orphan
//     garbage collection runs inside the same unit of work as the removal)
//
// Every operation is one atomic unit of work: existence checks are
// read-check-then-write inside a single transaction with one commit point, so
// concurrent callers serialize at the transaction boundary and a failed check
// discards all effects.
//
// # Backends
//
// [Neo4jStore] is the production backend, using managed transactions and
// Cypher MERGE semantics over bolt.
//
// [SQLiteStore] implements the identical contract on an embedded database
// (one table per node label, one per edge type) and is what store-level tests
// and single-binary deployments run on.
//
// # Error Taxonomy
//
// Operations return sentinel-wrapped errors from the shared package
// (ErrInvalidInput, ErrNotFound, ErrAlreadyExists); any backend failure is
// tagged ErrStoreUnavailable with the cause preserved in the message.
package graph
