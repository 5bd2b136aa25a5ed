// internal/domain/projects/likes.go
package projects

import "devmarket-gateway/internal/upstream"

// LikeState is the local boolean-plus-count for one (user, project) pair.
type LikeState struct {
	Liked bool
	Count int
}

// PendingLike records the state saved at call time and the optimistic value
// derived from it, plus the sequence number of the call. Rollback must use
// the saved state, not whatever the store holds when the failure lands.
type PendingLike struct {
	prev LikeState
	next LikeState
	seq  uint64
}

func (p PendingLike) Seq() uint64 {
	return p.seq
}

// ApplyOptimistic flips the boolean and moves the count by exactly one in the
// matching direction. The returned PendingLike carries everything needed to
// reconcile or to invert the delta exactly.
func ApplyOptimistic(s LikeState, seq uint64) (LikeState, PendingLike) {
	next := LikeState{Liked: !s.Liked}
	if next.Liked {
		next.Count = s.Count + 1
	} else {
		next.Count = s.Count - 1
	}
	return next, PendingLike{prev: s, next: next, seq: seq}
}

// Reconcile settles a pending toggle. On success the server value overwrites
// local state wholesale; on failure the optimistic delta is inverted exactly,
// restoring the state saved at call time.
func Reconcile(p PendingLike, result *upstream.LikeResult, err error) LikeState {
	if err != nil {
		return p.prev
	}
	return LikeState{Liked: result.Liked, Count: result.Likes}
}
