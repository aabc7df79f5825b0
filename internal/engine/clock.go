package engine

import "sync/atomic"

// Clock produces the monotonic, strictly increasing timestamp a fill is
// stamped with. The matching core deliberately never touches the wall
// clock — "the core requires only a monotonic, strictly increasing
// timestamp function" — so callers who need wall-clock-correlated
// timestamps inject one via WithClock; the default below never does.
type Clock func() uint64

// DefaultClock returns a Clock backed by a private, monotonically
// incrementing counter. It has no relation to wall-clock time — only
// relative ordering is guaranteed, which is all the matching core needs.
func DefaultClock() Clock {
	var counter atomic.Uint64
	return func() uint64 {
		return counter.Add(1)
	}
}
