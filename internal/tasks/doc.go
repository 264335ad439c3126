// Package tasks orchestrates the social graph and like/unlike workflows
// across the graph store and the songs microservice.
//
// # Engines
//
// [SocialEngine] is a policy layer over [graph.Store] for profile creation,
// follow/unfollow, and the friend-favourites aggregation. It holds no state;
// the store owns every invariant.
//
// [LikeEngine] is the cross-store saga. Each of its operations chains one
// graph mutation to one counter mutation with a fixed ordering:
//
//  1. LikeSong: graph first, then increment. A failed graph step makes no
//     remote call; a no-op graph step (song already liked) skips the counter
//     entirely; a failed counter step leaves the edge in place.
//  2. UnlikeSong: decrement first, then graph. A failed decrement leaves the
//     graph untouched; a failed graph removal leaves the counter decremented.
//  3. CascadeDeleteSong: graph purge only, invoked by the songs service
//     after it deletes its own record.
//
// # Outcomes
//
// Every like/unlike invocation ends in exactly one [OutcomeState]:
// Success, Rejected (precondition failed, nothing mutated anywhere), or
// PartialFailure (the stores now disagree). PartialFailure is deliberate:
// there is no rollback and no retry here. The inconsistency window between
// the two steps is real, bounded only by how quickly the second call runs,
// and is surfaced to the caller and the logs instead of being hidden.
package tasks
