// Package downloader holds the concurrency controls used when fetching files.
package downloader

import "sync"

// Semaphore limits the number of simultaneous holders, and its capacity can be changed while in use.
//
// It is built on a sync.Cond, so waiters can be woken up on resizes.
type Semaphore struct {
	cond     sync.Cond
	capacity int
	current  int
}

// NewSemaphore returns a Semaphore that allows at most capacity simultaneous acquisitions.
// If capacity <= 0, there is no limit on acquisitions.
func NewSemaphore(capacity int) *Semaphore {
	return &Semaphore{
		cond:     sync.Cond{L: &sync.Mutex{}},
		capacity: capacity,
	}
}

// Acquire blocks until there is room, and takes one slot.
// It must be matched by exactly one call to Semaphore.Release.
func (s *Semaphore) Acquire() {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	for s.capacity > 0 && s.current >= s.capacity {
		s.cond.Wait()
	}
	s.current++
}

// TryAcquire takes one slot if one is free, without blocking. It reports whether it did.
func (s *Semaphore) TryAcquire() bool {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	if s.capacity > 0 && s.current >= s.capacity {
		return false
	}
	s.current++
	return true
}

// Release a slot taken with Semaphore.Acquire or Semaphore.TryAcquire.
func (s *Semaphore) Release() {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	if s.current <= 0 {
		panic("downloader.Semaphore: Release without Acquire")
	}
	s.current--
	s.cond.Signal()
}

// Resize changes the capacity. A larger (or unlimited) capacity wakes up all waiters, so the
// order in which they proceed is not preserved. A smaller one doesn't affect current holders.
func (s *Semaphore) Resize(newCapacity int) {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	growing := newCapacity <= 0 || (s.capacity > 0 && newCapacity > s.capacity)
	s.capacity = newCapacity
	if growing {
		s.cond.Broadcast()
	}
}

// InUse returns the number of slots currently taken.
func (s *Semaphore) InUse() int {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	return s.current
}
