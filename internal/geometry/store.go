package geometry

import "sync/atomic"

// Store publishes snapshots. Publish is called from the interactive
// goroutine only; Load is safe from any goroutine.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

// NewStore returns a store holding an empty snapshot at generation 0.
func NewStore() *Store {
	s := &Store{}
	s.cur.Store(&Snapshot{})
	return s
}

// Load returns the current snapshot. The result must not be modified.
func (s *Store) Load() *Snapshot {
	return s.cur.Load()
}

// Generation returns the generation of the current snapshot.
func (s *Store) Generation() uint64 {
	return s.cur.Load().Generation
}

// Publish installs next as the current snapshot with the following
// generation number and returns it. next must not be modified afterwards.
func (s *Store) Publish(next *Snapshot) *Snapshot {
	next.Generation = s.cur.Load().Generation + 1
	s.cur.Store(next)
	return next
}
