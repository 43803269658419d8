package driver

import "sync"

// RefCountedInit models the process-wide subsystem init/teardown pattern
// spec.md §4.4 describes for backends that need one-time process
// initialization shared across every open device (e.g. Windows Media
// Foundation's MFStartup/MFShutdown, or COM's CoInitialize). It is not used
// by backend/v4l2 — V4L2 has no such subsystem — but is exported here so a
// future Windows/macOS backend can share the same pattern rather than each
// reinventing its own counter.
type RefCountedInit struct {
	mu      sync.Mutex
	count   int
	initFn  func() error
	teardFn func()
}

// NewRefCountedInit builds a RefCountedInit around the given init/teardown
// functions. initFn runs when the count goes from 0 to 1; teardFn runs when
// it drops back to 0.
func NewRefCountedInit(initFn func() error, teardFn func()) *RefCountedInit {
	return &RefCountedInit{initFn: initFn, teardFn: teardFn}
}

// Acquire increments the reference count, running initFn on the first
// acquisition. If initFn fails the count is not incremented.
func (r *RefCountedInit) Acquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count == 0 {
		if err := r.initFn(); err != nil {
			return err
		}
	}
	r.count++
	return nil
}

// Release decrements the reference count, running teardFn when it reaches
// zero. Calling Release without a matching Acquire is a no-op.
func (r *RefCountedInit) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count == 0 {
		return
	}
	r.count--
	if r.count == 0 {
		r.teardFn()
	}
}

// Count reports the current reference count, for tests.
func (r *RefCountedInit) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
