package lightbox

import "sync"

// ScrollLock freezes background scrolling while a lightbox is open. It is a
// process-wide resource: one owner at a time, and only the owner can release
// it. Acquiring a lock you already hold does not stack.
type ScrollLock struct {
	mu    sync.Mutex
	owner any
}

// Acquire takes the lock for owner. It returns false if someone else holds it.
func (l *ScrollLock) Acquire(owner any) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owner != nil && l.owner != owner {
		return false
	}
	l.owner = owner
	return true
}

// Release gives the lock up. Releasing a lock owned by someone else, or not
// held at all, does nothing and returns false.
func (l *ScrollLock) Release(owner any) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owner == nil || l.owner != owner {
		return false
	}
	l.owner = nil
	return true
}

// Locked reports whether background scrolling is frozen.
func (l *ScrollLock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owner != nil
}

// HeldBy reports whether owner currently holds the lock.
func (l *ScrollLock) HeldBy(owner any) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owner != nil && l.owner == owner
}
