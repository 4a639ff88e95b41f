package memcache

import "time"

// entry holds one cached snapshot. writtenAt drives absolute expiration and
// lastAccess drives sliding expiration; both are guarded by the owning cache's mutex.
type entry[T any] struct {
	value      T
	writtenAt  time.Time
	lastAccess time.Time
}

// expired reports whether either window has elapsed at now. A zero window
// disables that policy.
func (e *entry[T]) expired(now time.Time, absolute, sliding time.Duration) bool {
	if absolute > 0 && now.Sub(e.writtenAt) >= absolute {
		return true
	}
	if sliding > 0 && now.Sub(e.lastAccess) >= sliding {
		return true
	}
	return false
}

func (e *entry[T]) touch(now time.Time) {
	e.lastAccess = now
}
