package store

// Batch accumulates writes issued inside a Store.Batch callback.
type Batch struct {
	s *Store
}

// Set writes value at key, coalescing the notification with the rest of
// the batch (spec.md §4.5 "Inside batch(fn)").
func (b *Batch) Set(key string, value any) {
	_ = b.s.Set(key, value)
}

// Get reads the current value, including writes already made in this batch.
func (b *Batch) Get(key string) (any, bool) {
	return b.s.Get(key)
}

// Batch runs fn with writes coalesced: per-key and '*' watchers still fire
// once per change, in order, but only after fn returns; 'batch' watchers
// receive the whole group. Nested batches coalesce into the outermost one.
func (s *Store) Batch(fn func(*Batch)) error {
	s.mu.Lock()
	s.inBatch++
	s.mu.Unlock()

	fn(&Batch{s: s})

	s.mu.Lock()
	s.inBatch--
	if s.inBatch > 0 {
		s.mu.Unlock()
		return nil
	}
	changes := s.batchChanges
	s.batchChanges = nil
	s.mu.Unlock()

	if len(changes) == 0 {
		return nil
	}
	s.notify(changes)
	return nil
}
